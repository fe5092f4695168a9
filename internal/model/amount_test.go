package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithinSlippage(t *testing.T) {
	tests := []struct {
		name string
		make *Amount
		take *Amount
		bps  int64
		want bool
	}{
		{
			name: "equal amounts",
			make: &Amount{Value: "100"},
			take: &Amount{Value: "100"},
			bps:  500,
			want: true,
		},
		{
			name: "five percent below inside band",
			make: &Amount{Value: "100"},
			take: &Amount{Value: "95"},
			bps:  500,
			want: true,
		},
		{
			name: "five percent above inside band",
			make: &Amount{Value: "100"},
			take: &Amount{Value: "105"},
			bps:  500,
			want: true,
		},
		{
			name: "just below band",
			make: &Amount{Value: "10000"},
			take: &Amount{Value: "9499"},
			bps:  500,
			want: false,
		},
		{
			name: "just above band",
			make: &Amount{Value: "10000"},
			take: &Amount{Value: "10501"},
			bps:  500,
			want: false,
		},
		{
			name: "band boundary is inclusive",
			make: &Amount{Value: "10000"},
			take: &Amount{Value: "9500"},
			bps:  500,
			want: true,
		},
		{
			name: "different decimals normalize",
			make: &Amount{Value: "1000000000000000000", Decimal: 18},
			take: &Amount{Value: "10000000", Decimal: 7},
			bps:  0,
			want: true,
		},
		{
			name: "zero make amount",
			make: &Amount{Value: "0"},
			take: &Amount{Value: "100"},
			bps:  500,
			want: false,
		},
		{
			name: "garbage value",
			make: &Amount{Value: "abc"},
			take: &Amount{Value: "100"},
			bps:  500,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinSlippage(tt.make, tt.take, tt.bps))
		})
	}
}

func TestAmountCmp(t *testing.T) {
	a := &Amount{Value: "1000000000000000000"}
	b := &Amount{Value: "999999999999999999"}

	cmp, ok := a.Cmp(b)
	assert.True(t, ok)
	assert.Equal(t, 1, cmp)

	cmp, ok = b.Cmp(a)
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)

	_, ok = a.Cmp(&Amount{Value: "not a number"})
	assert.False(t, ok)
}

func TestAmountPositive(t *testing.T) {
	assert.True(t, (&Amount{Value: "1"}).Positive())
	assert.False(t, (&Amount{Value: "0"}).Positive())
	assert.False(t, (&Amount{Value: "-5"}).Positive())
	assert.False(t, (&Amount{Value: "1.5"}).Positive())
	assert.False(t, (&Amount{Value: ""}).Positive())
}
