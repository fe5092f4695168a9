package model

import "github.com/0xGeorgii/interstellar/internal/consts"

// Chain enumerates the ledgers an escrow can live on. The wire encoding is
// numeric to match what makers sign.
type Chain int

const (
	ChainEthereum Chain = 1
	ChainStellar  Chain = 2
)

func (c Chain) String() string {
	switch c {
	case ChainEthereum:
		return "ethereum"
	case ChainStellar:
		return "stellar"
	default:
		return "unknown"
	}
}

func (c Chain) Supported() bool {
	return c == ChainEthereum || c == ChainStellar
}

func (c Chain) Decimals() int {
	switch c {
	case ChainEthereum:
		return consts.ETH_DECIMALS
	case ChainStellar:
		return consts.XLM_DECIMALS
	default:
		return 0
	}
}
