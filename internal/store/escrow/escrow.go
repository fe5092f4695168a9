package escrow

import (
	"time"

	"gorm.io/gorm"

	"github.com/0xGeorgii/interstellar/internal/model"
)

type store struct {
}

func New() IStore {
	return &store{}
}

func (s *store) Create(tx *gorm.DB, escrow *model.Escrow) (*model.Escrow, error) {
	return escrow, tx.Create(escrow).Error
}

func (s *store) GetByOrder(tx *gorm.DB, orderID string) ([]model.Escrow, error) {
	var escrows []model.Escrow
	err := tx.Where("order_id = ?", orderID).Order("side ASC").Find(&escrows).Error
	if err != nil {
		return nil, err
	}
	return escrows, nil
}

func (s *store) GetByOrderSide(tx *gorm.DB, orderID string, side model.EscrowSide) (*model.Escrow, error) {
	var escrow model.Escrow
	err := tx.Where("order_id = ? AND side = ?", orderID, side).First(&escrow).Error
	if err != nil {
		return nil, err
	}
	return &escrow, nil
}

func (s *store) SetRef(tx *gorm.DB, id uint, ref, fundTxHash string) error {
	return tx.Model(&model.Escrow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"ref":          ref,
		"fund_tx_hash": fundTxHash,
		"updated_at":   time.Now(),
	}).Error
}

func (s *store) UpdateFunding(tx *gorm.DB, id uint, fundedAmount string, confirmations uint64, funded bool) error {
	updates := map[string]interface{}{
		"funded_amount": fundedAmount,
		"confirmations": confirmations,
		"updated_at":    time.Now(),
	}
	if funded {
		updates["status"] = model.EscrowStatusFunded
	}
	return tx.Model(&model.Escrow{}).Where("id = ?", id).Updates(updates).Error
}

func (s *store) MarkUnlocked(tx *gorm.DB, id uint, txHash string) error {
	return tx.Model(&model.Escrow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         model.EscrowStatusUnlocked,
		"unlock_tx_hash": txHash,
		"updated_at":     time.Now(),
	}).Error
}

func (s *store) MarkRefunded(tx *gorm.DB, id uint, txHash string) error {
	return tx.Model(&model.Escrow{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         model.EscrowStatusRefunded,
		"refund_tx_hash": txHash,
		"updated_at":     time.Now(),
	}).Error
}
