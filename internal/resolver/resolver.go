package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/monitoring"
	"github.com/0xGeorgii/interstellar/internal/store"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
)

type Resolver struct {
	db        *gorm.DB
	store     *store.Store
	appConfig *config.AppConfig
	logger    *logger.Logger
	adapters  map[model.Chain]IEscrowAdapter
	metrics   *monitoring.SwapMetrics

	orderLocks keyedMutex
	tickMutex  sync.Mutex
}

func New(db *gorm.DB, s *store.Store, appConfig *config.AppConfig, logger *logger.Logger,
	metrics *monitoring.SwapMetrics, adapters ...IEscrowAdapter) *Resolver {
	byChain := make(map[model.Chain]IEscrowAdapter, len(adapters))
	for _, a := range adapters {
		byChain[a.Chain()] = a
	}

	return &Resolver{
		db:        db,
		store:     s,
		appConfig: appConfig,
		logger:    logger,
		adapters:  byChain,
		metrics:   metrics,
	}
}

// OpenEscrows validates the accepted order, computes the timelock pair and
// submits both escrow-creation transactions concurrently. A side that fails
// to submit stays tracked; the expiry sweep refunds whatever was funded.
func (r *Resolver) OpenEscrows(ctx context.Context, order *model.Order) error {
	orderID, err := order.OrderData.ID()
	if err != nil {
		return err
	}

	if err := model.ValidateOrderData(order.OrderData, r.appConfig.Swap.SlippageBps); err != nil {
		return r.reject(orderID, err)
	}

	srcAdapter, ok := r.adapters[order.OrderData.SrcChain]
	if !ok {
		return model.Invalid("src_chain", "no adapter configured")
	}
	dstAdapter, ok := r.adapters[order.OrderData.DstChain]
	if !ok {
		return model.Invalid("dst_chain", "no adapter configured")
	}

	now := time.Now()
	srcTimelock := now.Add(r.appConfig.Swap.SrcTimelock)
	dstTimelock := now.Add(r.appConfig.Swap.DstTimelock)
	withdrawalStart := now.Add(r.appConfig.Swap.WithdrawalDelay)
	if dstTimelock.After(srcTimelock) {
		// a misconfigured timelock pair can never produce a safe escrow
		// pair; rejecting is terminal, so the sweep will not retry forever
		return r.reject(orderID, model.Invalid("timelocks", "destination timelock exceeds source timelock"))
	}

	ok, err = r.store.OrderRecord.TransitionState(r.db, orderID, model.OrderStateCreated, model.OrderStateEscrowsPending)
	if err != nil {
		return err
	}
	if !ok {
		// someone already moved this order forward
		return nil
	}
	r.recordTransition(model.OrderStateCreated, model.OrderStateEscrowsPending)

	if err := r.store.OrderRecord.SetTimelocks(r.db, orderID, srcTimelock, dstTimelock); err != nil {
		return err
	}

	srcEscrow := &model.Escrow{
		OrderID:  orderID,
		Side:     model.EscrowSideSrc,
		Chain:    order.OrderData.SrcChain,
		HashLock: order.OrderData.HashLock,
		TimeLock: srcTimelock,
		Amount:   order.OrderData.MakeAmount,
	}
	dstEscrow := &model.Escrow{
		OrderID:  orderID,
		Side:     model.EscrowSideDst,
		Chain:    order.OrderData.DstChain,
		HashLock: order.OrderData.HashLock,
		TimeLock: dstTimelock,
		Amount:   order.OrderData.TakeAmount,
	}

	err = store.DoInTx(r.db, func(tx *gorm.DB) error {
		if _, err := r.store.Escrow.Create(tx, srcEscrow); err != nil {
			return err
		}
		_, err := r.store.Escrow.Create(tx, dstEscrow)
		return err
	})
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	submit := func(adapter IEscrowAdapter, esc *model.Escrow, timelock time.Time) {
		defer wg.Done()

		params := model.EscrowCreateParams{
			OrderID:           orderID,
			Side:              esc.Side,
			HashLock:          esc.HashLock,
			Amount:            &model.Amount{Value: esc.Amount, Decimal: esc.Chain.Decimals()},
			WithdrawalStart:   withdrawalStart,
			CancellationStart: timelock,
			SafetyDeposit:     r.appConfig.Swap.SafetyDepositAmount,
		}

		ref, txHash, err := adapter.CreateAndFund(ctx, params)
		if err != nil {
			r.recordEscrowOp(esc.Chain, "create", false)
			r.logger.Error("[OpenEscrows][CreateAndFund]", map[string]string{
				"order_id": orderID,
				"chain":    esc.Chain.String(),
				"side":     string(esc.Side),
				"error":    err.Error(),
			})
			return
		}

		r.recordEscrowOp(esc.Chain, "create", true)
		if err := r.store.Escrow.SetRef(r.db, esc.ID, ref, txHash); err != nil {
			r.logger.Error("[OpenEscrows][SetRef]", map[string]string{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}

	wg.Add(2)
	go submit(srcAdapter, srcEscrow, srcTimelock)
	go submit(dstAdapter, dstEscrow, dstTimelock)
	wg.Wait()

	return nil
}

// PollEscrowStatus is the side-effect-free read that also drives the
// time-based transitions: pending -> ready once both sides confirm, and
// pending|ready -> expired once the earliest timelock passes.
func (r *Resolver) PollEscrowStatus(ctx context.Context, orderID string) (model.OrderState, error) {
	record, err := r.getRecord(orderID)
	if err != nil {
		return "", err
	}

	state := record.State
	if state.Terminal() || state == model.OrderStateCreated || state == model.OrderStateSecretReceived {
		return state, nil
	}

	// expiry is computed from wall time, not from adapter callbacks
	if expiry := record.Expiry(); expiry != nil && time.Now().After(*expiry) {
		ok, err := r.store.OrderRecord.TransitionState(r.db, orderID, state, model.OrderStateExpired)
		if err != nil && !errors.Is(err, model.ErrIllegalTransition) {
			return state, err
		}
		if ok {
			r.recordTransition(state, model.OrderStateExpired)
			return model.OrderStateExpired, nil
		}
		return r.currentState(orderID)
	}

	if state != model.OrderStateEscrowsPending {
		return state, nil
	}

	escrows, err := r.store.Escrow.GetByOrder(r.db, orderID)
	if err != nil {
		return state, err
	}

	allFunded := len(escrows) == 2
	for i := range escrows {
		esc := &escrows[i]
		if esc.Status == model.EscrowStatusFunded {
			continue
		}
		if esc.Ref == "" {
			allFunded = false
			continue
		}

		status, err := r.adapters[esc.Chain].GetFundingStatus(ctx, esc)
		if err != nil {
			// status unknown, retry on the next poll
			r.logger.Warn("[PollEscrowStatus][GetFundingStatus]", map[string]string{
				"order_id": orderID,
				"chain":    esc.Chain.String(),
				"error":    err.Error(),
			})
			allFunded = false
			continue
		}

		funded := status.Confirmed && fundedAtOrAbove(status.Amount, esc.Amount)
		if err := r.store.Escrow.UpdateFunding(r.db, esc.ID, status.Amount, status.Confirmations, funded); err != nil {
			return state, err
		}
		if !funded {
			allFunded = false
		}
	}

	if allFunded {
		ok, err := r.store.OrderRecord.TransitionState(r.db, orderID, model.OrderStateEscrowsPending, model.OrderStateEscrowsReady)
		if err != nil {
			return state, err
		}
		if ok {
			r.recordTransition(model.OrderStateEscrowsPending, model.OrderStateEscrowsReady)
			return model.OrderStateEscrowsReady, nil
		}
	}

	return r.currentState(orderID)
}

// RevealSecret accepts the maker's preimage, verifies it against the hash
// lock and drives both unlocks, destination first. Correct resubmissions of
// an already-filled order are reported as Filled with no further effect.
func (r *Resolver) RevealSecret(ctx context.Context, orderID, secret string) (model.OrderState, error) {
	unlock := r.orderLocks.lock(orderID)
	defer unlock()

	record, err := r.getRecord(orderID)
	if err != nil {
		return "", err
	}

	switch record.State {
	case model.OrderStateFilled, model.OrderStateSecretReceived, model.OrderStateEscrowsReady:
	default:
		return record.State, model.ErrNotReady
	}

	secretBytes, matches := model.SecretMatchesHashLock(secret, record.HashLock)
	if !matches {
		return record.State, model.ErrHashMismatch
	}

	switch record.State {
	case model.OrderStateFilled:
		return model.OrderStateFilled, nil
	case model.OrderStateEscrowsReady:
		if err := r.store.OrderRecord.SetSecret(r.db, orderID, secret); err != nil {
			return record.State, err
		}
		ok, err := r.store.OrderRecord.TransitionState(r.db, orderID, model.OrderStateEscrowsReady, model.OrderStateSecretReceived)
		if err != nil {
			return record.State, err
		}
		if !ok {
			// the expiry sweep does not take the per-order lock, so it can
			// move the order between the read and the swap; the secret must
			// never reach a chain unless the claim actually landed
			state, stateErr := r.currentState(orderID)
			if stateErr != nil {
				return record.State, stateErr
			}
			if state == model.OrderStateFilled {
				return state, nil
			}
			return state, model.ErrNotReady
		}
		r.recordTransition(model.OrderStateEscrowsReady, model.OrderStateSecretReceived)
	case model.OrderStateSecretReceived:
		// retry of a previously interrupted unlock
	}

	if err := r.unlockEscrows(ctx, orderID, secretBytes); err != nil {
		return model.OrderStateSecretReceived, err
	}

	ok, err := r.store.OrderRecord.TransitionState(r.db, orderID, model.OrderStateSecretReceived, model.OrderStateFilled)
	if err != nil {
		return model.OrderStateSecretReceived, err
	}
	if !ok {
		return r.currentState(orderID)
	}
	r.recordTransition(model.OrderStateSecretReceived, model.OrderStateFilled)
	return model.OrderStateFilled, nil
}

// unlockEscrows reveals the secret on chain: destination escrow first, so
// the maker's receive side settles before the resolver claims the source.
func (r *Resolver) unlockEscrows(ctx context.Context, orderID string, secret []byte) error {
	for _, side := range []model.EscrowSide{model.EscrowSideDst, model.EscrowSideSrc} {
		esc, err := r.store.Escrow.GetByOrderSide(r.db, orderID, side)
		if err != nil {
			return err
		}
		if esc.Status == model.EscrowStatusUnlocked {
			continue
		}

		txHash, err := r.adapters[esc.Chain].Unlock(ctx, esc, secret)
		if err != nil {
			r.recordEscrowOp(esc.Chain, "unlock", false)
			r.logger.Error("[RevealSecret][Unlock]", map[string]string{
				"order_id": orderID,
				"chain":    esc.Chain.String(),
				"side":     string(side),
				"error":    err.Error(),
			})
			return err
		}

		r.recordEscrowOp(esc.Chain, "unlock", true)
		if err := r.store.Escrow.MarkUnlocked(r.db, esc.ID, txHash); err != nil {
			return err
		}
	}
	return nil
}

// Refund drains an expired order: every escrow that made it on chain and
// was not unlocked gets a cancellation. Refunding only one side of a
// partially created pair is the expected outcome, not a failure.
func (r *Resolver) Refund(ctx context.Context, orderID string) error {
	unlock := r.orderLocks.lock(orderID)
	defer unlock()

	record, err := r.getRecord(orderID)
	if err != nil {
		return err
	}

	switch record.State {
	case model.OrderStateRefunded:
		return nil
	case model.OrderStateExpired:
	default:
		return model.ErrIllegalTransition
	}

	escrows, err := r.store.Escrow.GetByOrder(r.db, orderID)
	if err != nil {
		return err
	}

	for i := range escrows {
		esc := &escrows[i]
		if esc.Ref == "" || esc.Status == model.EscrowStatusRefunded || esc.Status == model.EscrowStatusUnlocked {
			continue
		}

		txHash, err := r.adapters[esc.Chain].Refund(ctx, esc)
		if err != nil {
			r.recordEscrowOp(esc.Chain, "refund", false)
			r.logger.Error("[Refund][Refund]", map[string]string{
				"order_id": orderID,
				"chain":    esc.Chain.String(),
				"error":    err.Error(),
			})
			return err
		}

		r.recordEscrowOp(esc.Chain, "refund", true)
		if err := r.store.Escrow.MarkRefunded(r.db, esc.ID, txHash); err != nil {
			return err
		}
	}

	ok, err := r.store.OrderRecord.TransitionState(r.db, orderID, model.OrderStateExpired, model.OrderStateRefunded)
	if err != nil {
		return err
	}
	if ok {
		r.recordTransition(model.OrderStateExpired, model.OrderStateRefunded)
	}
	return nil
}

// Tick advances every non-terminal order one step. It runs on a schedule
// and at startup, which is what makes the resolver restart-safe: all
// progress is recomputed from stored state.
func (r *Resolver) Tick() {
	if !r.tickMutex.TryLock() {
		return
	}
	defer r.tickMutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	records, err := r.store.OrderRecord.ListNonTerminal(r.db)
	if err != nil {
		r.logger.Error("[Tick][ListNonTerminal]", map[string]string{
			"error": err.Error(),
		})
		return
	}

	for i := range records {
		record := &records[i]

		switch record.State {
		case model.OrderStateCreated:
			var order model.Order
			if err := json.Unmarshal([]byte(record.Payload), &order); err != nil {
				r.logger.Error("[Tick][Unmarshal]", map[string]string{
					"order_id": record.OrderID,
					"error":    err.Error(),
				})
				continue
			}
			if err := r.OpenEscrows(ctx, &order); err != nil {
				r.logger.Warn("[Tick][OpenEscrows]", map[string]string{
					"order_id": record.OrderID,
					"error":    err.Error(),
				})
			}

		case model.OrderStateEscrowsPending, model.OrderStateEscrowsReady:
			state, err := r.PollEscrowStatus(ctx, record.OrderID)
			if err != nil {
				r.logger.Warn("[Tick][PollEscrowStatus]", map[string]string{
					"order_id": record.OrderID,
					"error":    err.Error(),
				})
				continue
			}
			if state == model.OrderStateExpired {
				if err := r.Refund(ctx, record.OrderID); err != nil {
					r.logger.Warn("[Tick][Refund]", map[string]string{
						"order_id": record.OrderID,
						"error":    err.Error(),
					})
				}
			}

		case model.OrderStateSecretReceived:
			if record.Secret == nil {
				continue
			}
			if _, err := r.RevealSecret(ctx, record.OrderID, *record.Secret); err != nil {
				r.logger.Warn("[Tick][RevealSecret]", map[string]string{
					"order_id": record.OrderID,
					"error":    err.Error(),
				})
			}

		case model.OrderStateExpired:
			if err := r.Refund(ctx, record.OrderID); err != nil {
				r.logger.Warn("[Tick][Refund]", map[string]string{
					"order_id": record.OrderID,
					"error":    err.Error(),
				})
			}
		}
	}
}

func (r *Resolver) Health(ctx context.Context) map[string]error {
	out := make(map[string]error, len(r.adapters))
	for chain, adapter := range r.adapters {
		out[chain.String()] = adapter.Health(ctx)
	}
	return out
}

// reject moves a freshly accepted order to its terminal rejected state and
// hands the cause back to the caller.
func (r *Resolver) reject(orderID string, cause error) error {
	if err := r.store.OrderRecord.Reject(r.db, orderID, cause.Error()); err != nil {
		r.logger.Error("[OpenEscrows][Reject]", map[string]string{
			"order_id": orderID,
			"error":    err.Error(),
		})
	}
	r.recordTransition(model.OrderStateCreated, model.OrderStateRejected)
	return cause
}

func (r *Resolver) getRecord(orderID string) (*model.OrderRecord, error) {
	record, err := r.store.OrderRecord.GetByOrderID(r.db, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrOrderNotFound
		}
		return nil, err
	}
	return record, nil
}

func (r *Resolver) currentState(orderID string) (model.OrderState, error) {
	record, err := r.getRecord(orderID)
	if err != nil {
		return "", err
	}
	return record.State, nil
}

func (r *Resolver) recordTransition(from, to model.OrderState) {
	if r.metrics != nil {
		r.metrics.RecordTransition(string(from), string(to))
	}
}

func (r *Resolver) recordEscrowOp(chain model.Chain, op string, ok bool) {
	if r.metrics != nil {
		r.metrics.RecordEscrowOp(chain.String(), op, ok)
	}
}

func fundedAtOrAbove(funded, required string) bool {
	fundedAmt := &model.Amount{Value: funded}
	requiredAmt := &model.Amount{Value: required}
	cmp, ok := fundedAmt.Cmp(requiredAmt)
	return ok && cmp >= 0
}
