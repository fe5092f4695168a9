package secret

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/relayer"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
	"github.com/0xGeorgii/interstellar/internal/view"
)

type SubmitRequest struct {
	OrderID string `json:"order_id" binding:"required" validate:"required"`
	Secret  string `json:"secret" binding:"required" validate:"required"`
}

type SubmitResponse struct {
	OrderID string `json:"order_id"`
	State   string `json:"state"`
}

type handler struct {
	relayer   relayer.IRelayer
	logger    *logger.Logger
	appConfig *config.AppConfig
}

func New(relayer relayer.IRelayer, logger *logger.Logger, appConfig *config.AppConfig) IHandler {
	return &handler{
		relayer:   relayer,
		logger:    logger,
		appConfig: appConfig,
	}
}

// Submit godoc
// @Summary Reveal the order secret
// @Description Accepts the maker's hash lock preimage and triggers escrow unlocks
// @id submitSecret
// @Tags Secret
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "Secret reveal request"
// @Success 200 {object} SubmitResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Failure 500 {object} view.ErrorResponse
// @Router /secret [post]
func (h *handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[Submit][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	if err := validator.New().Struct(req); err != nil {
		h.logger.Error("[Submit][Validator]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	state, err := h.relayer.SubmitSecret(c.Request.Context(), req.OrderID, req.Secret)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, view.CreateResponse[any](nil, err, nil, "unknown order"))
		case errors.Is(err, model.ErrHashMismatch):
			c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, nil, "secret does not match hash lock"))
		case errors.Is(err, model.ErrNotReady):
			c.JSON(http.StatusConflict, view.CreateResponse[any](nil, err, nil, "escrows not ready for reveal"))
		default:
			h.logger.Error("[Submit][SubmitSecret]", map[string]string{
				"order_id": req.OrderID,
				"error":    err.Error(),
			})
			c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to process secret"))
		}
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(SubmitResponse{
		OrderID: req.OrderID,
		State:   string(state),
	}, nil, nil, ""))
}
