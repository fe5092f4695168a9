package orderrecord

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

func (s *store) Create(tx *gorm.DB, record *model.OrderRecord) (*model.OrderRecord, error) {
	return record, tx.Create(record).Error
}

func (s *store) GetByOrderID(tx *gorm.DB, orderID string) (*model.OrderRecord, error) {
	var record model.OrderRecord
	err := tx.Where("order_id = ?", orderID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *store) ListNonTerminal(tx *gorm.DB) ([]model.OrderRecord, error) {
	var records []model.OrderRecord
	err := tx.Where("state NOT IN ?", []model.OrderState{
		model.OrderStateFilled,
		model.OrderStateRefunded,
		model.OrderStateRejected,
	}).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (s *store) TransitionState(tx *gorm.DB, orderID string, from, to model.OrderState) (bool, error) {
	if !model.CanTransition(from, to) {
		return false, model.ErrIllegalTransition
	}

	res := tx.Model(&model.OrderRecord{}).
		Where("order_id = ? AND state = ?", orderID, from).
		Updates(map[string]interface{}{
			"state":      to,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *store) SetSecret(tx *gorm.DB, orderID, secret string) error {
	return tx.Model(&model.OrderRecord{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"secret":     secret,
			"updated_at": time.Now(),
		}).Error
}

func (s *store) SetTimelocks(tx *gorm.DB, orderID string, src, dst time.Time) error {
	return tx.Model(&model.OrderRecord{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"src_timelock": src,
			"dst_timelock": dst,
			"updated_at":   time.Now(),
		}).Error
}

func (s *store) Reject(tx *gorm.DB, orderID, reason string) error {
	return tx.Model(&model.OrderRecord{}).
		Where("order_id = ? AND state = ?", orderID, model.OrderStateCreated).
		Updates(map[string]interface{}{
			"state":         model.OrderStateRejected,
			"reject_reason": reason,
			"updated_at":    time.Now(),
		}).Error
}
