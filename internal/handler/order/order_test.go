package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/types/environments"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
	"github.com/0xGeorgii/interstellar/internal/utils/sigverify"
)

type fakeRelayer struct {
	submitID    string
	submitErr   error
	statusState model.OrderState
	statusErr   error
}

func (f *fakeRelayer) SubmitOrder(context.Context, *model.Order) (string, error) {
	return f.submitID, f.submitErr
}

func (f *fakeRelayer) GetStatus(context.Context, string) (model.OrderState, error) {
	return f.statusState, f.statusErr
}

func (f *fakeRelayer) SubmitSecret(context.Context, string, string) (model.OrderState, error) {
	return "", nil
}

func newTestRouter(f *fakeRelayer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{Environment: environments.Test}
	h := New(f, logger.New(cfg.Environment), cfg)

	r := gin.New()
	r.POST("/order", h.Submit)
	r.GET("/order_status", h.Status)
	return r
}

func orderBody(t *testing.T) []byte {
	t.Helper()

	body, err := json.Marshal(model.Order{
		OrderData: model.OrderData{
			Salt:       "1",
			SrcChain:   model.ChainEthereum,
			DstChain:   model.ChainStellar,
			MakeAmount: "100",
			TakeAmount: "98",
			HashLock:   "66687aadf862bd776c8fc18b8e9f8e20089714856ee233b3902a591d0d5f2925",
		},
		Signature: model.Signature{
			SignedMessage: "0xsig",
			SignerAddress: "0xmaker",
		},
	})
	require.NoError(t, err)
	return body
}

func TestSubmitReturnsCreated(t *testing.T) {
	router := newTestRouter(&fakeRelayer{submitID: "0xabc"})

	req := httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader(orderBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data SubmitResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0xabc", resp.Data.OrderID)
	assert.Equal(t, string(model.OrderStateCreated), resp.Data.State)
}

func TestSubmitRejectsMissingFields(t *testing.T) {
	router := newTestRouter(&fakeRelayer{})

	req := httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader([]byte(`{"order_data":{}}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitMapsDuplicateToConflict(t *testing.T) {
	router := newTestRouter(&fakeRelayer{submitErr: model.ErrDuplicateOrder})

	req := httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader(orderBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitMapsBadSignatureToUnauthorized(t *testing.T) {
	router := newTestRouter(&fakeRelayer{submitErr: sigverify.ErrBadSignature})

	req := httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader(orderBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitMapsValidationToBadRequest(t *testing.T) {
	router := newTestRouter(&fakeRelayer{submitErr: model.Invalid("take_amount", "rate outside acceptable slippage band")})

	req := httptest.NewRequest(http.MethodPost, "/order", bytes.NewReader(orderBody(t)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusReturnsState(t *testing.T) {
	router := newTestRouter(&fakeRelayer{statusState: model.OrderStateEscrowsReady})

	req := httptest.NewRequest(http.MethodGet, "/order_status?order_id=0xabc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(model.OrderStateEscrowsReady), resp.Data.State)
}

func TestStatusRequiresOrderID(t *testing.T) {
	router := newTestRouter(&fakeRelayer{})

	req := httptest.NewRequest(http.MethodGet, "/order_status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusMapsUnknownOrderToNotFound(t *testing.T) {
	router := newTestRouter(&fakeRelayer{statusErr: model.ErrOrderNotFound})

	req := httptest.NewRequest(http.MethodGet, "/order_status?order_id=0xmissing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
