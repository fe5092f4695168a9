package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validOrderData() OrderData {
	return OrderData{
		Salt:       "1",
		SrcChain:   ChainEthereum,
		DstChain:   ChainStellar,
		MakeAmount: "100",
		TakeAmount: "95",
		HashLock:   "66687aadf862bd776c8fc18b8e9f8e20089714856ee233b3902a591d0d5f2925",
	}
}

func TestValidateOrderData(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*OrderData)
		wantErr bool
	}{
		{
			name:    "valid order",
			mutate:  func(d *OrderData) {},
			wantErr: false,
		},
		{
			name:    "same chain pair",
			mutate:  func(d *OrderData) { d.DstChain = ChainEthereum },
			wantErr: true,
		},
		{
			name:    "unsupported chain",
			mutate:  func(d *OrderData) { d.SrcChain = Chain(99) },
			wantErr: true,
		},
		{
			name:    "zero make amount",
			mutate:  func(d *OrderData) { d.MakeAmount = "0" },
			wantErr: true,
		},
		{
			name:    "negative take amount",
			mutate:  func(d *OrderData) { d.TakeAmount = "-5" },
			wantErr: true,
		},
		{
			name:    "non numeric amount",
			mutate:  func(d *OrderData) { d.MakeAmount = "1.5e18" },
			wantErr: true,
		},
		{
			name:    "rate outside slippage band",
			mutate:  func(d *OrderData) { d.TakeAmount = "50" },
			wantErr: true,
		},
		{
			name:    "short hash lock",
			mutate:  func(d *OrderData) { d.HashLock = "abcd" },
			wantErr: true,
		},
		{
			name:    "hash lock with 0x prefix",
			mutate:  func(d *OrderData) { d.HashLock = "0x" + d.HashLock },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validOrderData()
			tt.mutate(&d)

			err := ValidateOrderData(d, 500)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
