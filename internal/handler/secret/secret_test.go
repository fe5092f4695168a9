package secret

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
)

type fakeRelayer struct {
	revealState model.OrderState
	revealErr   error
}

func (f *fakeRelayer) SubmitOrder(context.Context, *model.Order) (string, error) {
	return "", nil
}

func (f *fakeRelayer) GetStatus(context.Context, string) (model.OrderState, error) {
	return "", nil
}

func (f *fakeRelayer) SubmitSecret(context.Context, string, string) (model.OrderState, error) {
	return f.revealState, f.revealErr
}

func newTestRouter(f *fakeRelayer) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{Environment: environments.Test}
	h := New(f, logger.New(cfg.Environment), cfg)

	r := gin.New()
	r.POST("/secret", h.Submit)
	return r
}

func postSecret(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/secret", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitSecretFillsOrder(t *testing.T) {
	router := newTestRouter(&fakeRelayer{revealState: model.OrderStateFilled})

	w := postSecret(t, router, SubmitRequest{OrderID: "0xabc", Secret: "deadbeef"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data SubmitResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(model.OrderStateFilled), resp.Data.State)
}

func TestSubmitSecretRequiresFields(t *testing.T) {
	router := newTestRouter(&fakeRelayer{})

	w := postSecret(t, router, map[string]string{"order_id": "0xabc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitSecretMapsHashMismatch(t *testing.T) {
	router := newTestRouter(&fakeRelayer{revealErr: model.ErrHashMismatch})

	w := postSecret(t, router, SubmitRequest{OrderID: "0xabc", Secret: "deadbeef"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitSecretMapsNotReadyToConflict(t *testing.T) {
	router := newTestRouter(&fakeRelayer{revealErr: model.ErrNotReady})

	w := postSecret(t, router, SubmitRequest{OrderID: "0xabc", Secret: "deadbeef"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitSecretMapsUnknownOrder(t *testing.T) {
	router := newTestRouter(&fakeRelayer{revealErr: model.ErrOrderNotFound})

	w := postSecret(t, router, SubmitRequest{OrderID: "0xmissing", Secret: "deadbeef"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
