package orderrecord

import (
	"time"

	"gorm.io/gorm"

	"github.com/0xGeorgii/interstellar/internal/model"
)

type IStore interface {
	Create(tx *gorm.DB, record *model.OrderRecord) (*model.OrderRecord, error)
	GetByOrderID(tx *gorm.DB, orderID string) (*model.OrderRecord, error)
	ListNonTerminal(tx *gorm.DB) ([]model.OrderRecord, error)
	// TransitionState performs a compare-and-swap on the lifecycle state.
	// Returns false without error when the record was no longer in `from`.
	TransitionState(tx *gorm.DB, orderID string, from, to model.OrderState) (bool, error)
	SetSecret(tx *gorm.DB, orderID, secret string) error
	SetTimelocks(tx *gorm.DB, orderID string, src, dst time.Time) error
	Reject(tx *gorm.DB, orderID, reason string) error
}
