package relayer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/monitoring"
	"github.com/0xGeorgii/interstellar/internal/resolver"
	"github.com/0xGeorgii/interstellar/internal/store"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
	"github.com/0xGeorgii/interstellar/internal/utils/sigverify"
)

const openEscrowsTimeout = 5 * time.Minute

type Relayer struct {
	db        *gorm.DB
	store     *store.Store
	appConfig *config.AppConfig
	logger    *logger.Logger
	resolver  resolver.IResolver
	metrics   *monitoring.SwapMetrics
}

func New(db *gorm.DB, s *store.Store, appConfig *config.AppConfig, logger *logger.Logger,
	rslv resolver.IResolver, metrics *monitoring.SwapMetrics) *Relayer {
	return &Relayer{
		db:        db,
		store:     s,
		appConfig: appConfig,
		logger:    logger,
		resolver:  rslv,
		metrics:   metrics,
	}
}

// SubmitOrder verifies the maker's signature and order invariants, persists
// the order in Created state and kicks off escrow creation in the
// background. The returned id is the content address of the order body.
func (r *Relayer) SubmitOrder(ctx context.Context, order *model.Order) (string, error) {
	orderID, err := order.OrderData.ID()
	if err != nil {
		return "", model.Invalid("order_data", "not encodable")
	}

	if err := sigverify.VerifyOrder(order); err != nil {
		r.logger.Info("[SubmitOrder][VerifyOrder]", map[string]string{
			"order_id": orderID,
			"signer":   order.Signature.SignerAddress,
			"error":    err.Error(),
		})
		return "", err
	}

	if err := model.ValidateOrderData(order.OrderData, r.appConfig.Swap.SlippageBps); err != nil {
		return "", err
	}

	if _, err := r.store.OrderRecord.GetByOrderID(r.db, orderID); err == nil {
		return orderID, model.ErrDuplicateOrder
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	payload, err := json.Marshal(order)
	if err != nil {
		return "", err
	}

	record := &model.OrderRecord{
		OrderID:       orderID,
		Payload:       string(payload),
		SignerAddress: order.Signature.SignerAddress,
		SrcChain:      order.OrderData.SrcChain,
		DstChain:      order.OrderData.DstChain,
		MakeAmount:    order.OrderData.MakeAmount,
		TakeAmount:    order.OrderData.TakeAmount,
		HashLock:      order.OrderData.HashLock,
		State:         model.OrderStateCreated,
	}
	if _, err := r.store.OrderRecord.Create(r.db, record); err != nil {
		// a concurrent submit of the same body loses the unique-index race
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return orderID, model.ErrDuplicateOrder
		}
		return "", err
	}

	if r.metrics != nil {
		r.metrics.RecordOrderSubmitted()
	}
	r.logger.Info("[SubmitOrder][Accepted]", map[string]string{
		"order_id":  orderID,
		"src_chain": order.OrderData.SrcChain.String(),
		"dst_chain": order.OrderData.DstChain.String(),
	})

	go func() {
		openCtx, cancel := context.WithTimeout(context.Background(), openEscrowsTimeout)
		defer cancel()

		if err := r.resolver.OpenEscrows(openCtx, order); err != nil {
			r.logger.Warn("[SubmitOrder][OpenEscrows]", map[string]string{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}()

	return orderID, nil
}

// GetStatus returns the order's lifecycle state, refreshing funding and
// expiry checks on the way so a polled status never lags the chain by more
// than one call.
func (r *Relayer) GetStatus(ctx context.Context, orderID string) (model.OrderState, error) {
	return r.resolver.PollEscrowStatus(ctx, orderID)
}

// SubmitSecret forwards the maker's preimage to the resolver.
func (r *Relayer) SubmitSecret(ctx context.Context, orderID, secret string) (model.OrderState, error) {
	return r.resolver.RevealSecret(ctx, orderID, secret)
}
