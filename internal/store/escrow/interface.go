package escrow

import (
	"gorm.io/gorm"

	"github.com/0xGeorgii/interstellar/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, escrow *model.Escrow) (*model.Escrow, error)
	GetByOrder(tx *gorm.DB, orderID string) ([]model.Escrow, error)
	GetByOrderSide(tx *gorm.DB, orderID string, side model.EscrowSide) (*model.Escrow, error)
	SetRef(tx *gorm.DB, id uint, ref, fundTxHash string) error
	UpdateFunding(tx *gorm.DB, id uint, fundedAmount string, confirmations uint64, funded bool) error
	MarkUnlocked(tx *gorm.DB, id uint, txHash string) error
	MarkRefunded(tx *gorm.DB, id uint, txHash string) error
}
