package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps application errors onto HTTP statuses. Race losses and
// state conflicts come back as 409 so clients know to refetch, ownership
// violations as 403, and anything unexpected as a generic 500 without
// leaking internals.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status, message = http.StatusNotFound, "not found"

	case errors.Is(err, ports.ErrOrderAlreadyTaken):
		status, message = http.StatusConflict, "order already taken"
	case errors.Is(err, commands.ErrRiderHasActiveDelivery):
		status, message = http.StatusConflict, "rider already has an active delivery"
	case errors.Is(err, commands.ErrRiderIsOffline):
		status, message = http.StatusConflict, "rider is offline"
	case errors.Is(err, commands.ErrMerchantIsClosed):
		status, message = http.StatusConflict, "merchant is not accepting orders"
	case errors.Is(err, commands.ErrItemUnavailable):
		status, message = http.StatusConflict, "menu item is unavailable"
	case errors.Is(err, order.ErrOrderIsTerminal):
		status, message = http.StatusConflict, "order is in a terminal status"
	case errors.Is(err, order.ErrInvalidTransition):
		status, message = http.StatusConflict, "transition not allowed"

	case errors.Is(err, commands.ErrAddressNotOwned),
		errors.Is(err, commands.ErrRequestNotOwned):
		status, message = http.StatusForbidden, "forbidden"

	case errors.Is(err, order.ErrCancellationReasonRequired):
		status, message = http.StatusBadRequest, "cancellation requires a reason"
	}

	return c.JSON(status, errorBody{Code: status, Message: message})
}

// respondBadRequest reports a malformed or invalid request body.
func respondBadRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorBody{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}
