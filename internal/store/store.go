package store

import (
	"github.com/0xGeorgii/interstellar/internal/store/escrow"
	"github.com/0xGeorgii/interstellar/internal/store/orderrecord"
)

type Store struct {
	OrderRecord orderrecord.IStore
	Escrow      escrow.IStore
}

func New() *Store {
	return &Store{
		OrderRecord: orderrecord.New(),
		Escrow:      escrow.New(),
	}
}
