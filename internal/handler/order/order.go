package order

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0xGeorgii/interstellar/internal/model"
	"github.com/0xGeorgii/interstellar/internal/relayer"
	"github.com/0xGeorgii/interstellar/internal/utils/config"
	"github.com/0xGeorgii/interstellar/internal/utils/logger"
	"github.com/0xGeorgii/interstellar/internal/utils/sigverify"
	"github.com/0xGeorgii/interstellar/internal/view"
)

type SubmitResponse struct {
	OrderID string `json:"order_id"`
	State   string `json:"state"`
}

type StatusResponse struct {
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
// @Summary Submit a swap order
// @Description Accepts a signed cross-chain swap order and starts escrow creation
// @id submitOrder
// @Tags Order
// @Accept json
// @Produce json
// @Param request body model.Order true "Signed order"
// @Success 201 {object} SubmitResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 401 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Failure 500 {object} view.ErrorResponse
// @Router /order [post]
func (h *handler) Submit(c *gin.Context) {
	var req model.Order
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[Submit][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	orderID, err := h.relayer.SubmitOrder(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateOrder):
			c.JSON(http.StatusConflict, view.CreateResponse[any](nil, err, nil, "order already submitted"))
		case errors.Is(err, sigverify.ErrBadSignature):
			c.JSON(http.StatusUnauthorized, view.CreateResponse[any](nil, err, nil, "signature verification failed"))
		case model.IsValidation(err):
			c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid order"))
		default:
			h.logger.Error("[Submit][SubmitOrder]", map[string]string{
				"error": err.Error(),
			})
			c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to submit order"))
		}
		return
	}

	c.JSON(http.StatusCreated, view.CreateResponse(SubmitResponse{
		OrderID: orderID,
		State:   string(model.OrderStateCreated),
	}, nil, nil, ""))
}

// Status godoc
// @Summary Get order status
// @Description Returns the current lifecycle state of an order
// @id orderStatus
// @Tags Order
// @Accept json
// @Produce json
// @Param order_id query string true "Order id"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Failure 500 {object} view.ErrorResponse
// @Router /order_status [get]
func (h *handler) Status(c *gin.Context) {
	orderID := c.Query("order_id")
	if orderID == "" {
		err := model.Invalid("order_id", "required query parameter")
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, nil, "invalid request"))
		return
	}

	state, err := h.relayer.GetStatus(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, view.CreateResponse[any](nil, err, nil, "unknown order"))
			return
		}
		h.logger.Error("[Status][GetStatus]", map[string]string{
			"order_id": orderID,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to get order status"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(StatusResponse{
		OrderID: orderID,
		State:   string(state),
	}, nil, nil, ""))
}
