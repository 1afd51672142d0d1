// Package http exposes the fulfillment API over echo: role-gated order and
// rider operations plus the websocket upgrade endpoint.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/adapters/in/auth"
	"fulfillment/internal/adapters/in/ws"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/rider"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler
	claimOrderHandler        commands.ClaimOrderCommandHandler
	assignRiderHandler       commands.AssignRiderCommandHandler
	updateRiderStatusHandler commands.UpdateRiderStatusCommandHandler
	updateRiderLocation      commands.UpdateRiderLocationCommandHandler

	// Query handlers
	getOrderHandler            queries.GetOrderQueryHandler
	getAvailableOrdersHandler  queries.GetAvailableOrdersQueryHandler
	getRiderActiveOrderHandler queries.GetRiderActiveOrderQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	claimOrderHandler commands.ClaimOrderCommandHandler,
	assignRiderHandler commands.AssignRiderCommandHandler,
	updateRiderStatusHandler commands.UpdateRiderStatusCommandHandler,
	updateRiderLocation commands.UpdateRiderLocationCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getAvailableOrdersHandler queries.GetAvailableOrdersQueryHandler,
	getRiderActiveOrderHandler queries.GetRiderActiveOrderQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:         createOrderHandler,
		updateOrderStatusHandler:   updateOrderStatusHandler,
		claimOrderHandler:          claimOrderHandler,
		assignRiderHandler:         assignRiderHandler,
		updateRiderStatusHandler:   updateRiderStatusHandler,
		updateRiderLocation:        updateRiderLocation,
		getOrderHandler:            getOrderHandler,
		getAvailableOrdersHandler:  getAvailableOrdersHandler,
		getRiderActiveOrderHandler: getRiderActiveOrderHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1 behind token authentication,
// plus the websocket endpoint which performs its own handshake auth.
func (s *Server) RegisterRoutes(e *echo.Echo, verifier *auth.TokenVerifier, wsHandler *ws.Handler) {
	e.GET("/ws", wsHandler.Serve)

	api := e.Group("/api/v1", AuthMiddleware(verifier))

	api.POST("/orders", s.CreateOrder, RequireRole(RoleCustomer, RoleCoordinator))
	api.GET("/orders/available", s.GetAvailableOrders, RequireRole(RoleRider, RoleCoordinator))
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/claim", s.ClaimOrder, RequireRole(RoleRider))
	api.POST("/orders/:id/assign", s.AssignRider, RequireRole(RoleCoordinator))

	api.PATCH("/riders/me/status", s.UpdateRiderStatus, RequireRole(RoleRider))
	api.PATCH("/riders/me/location", s.UpdateRiderLocation, RequireRole(RoleRider))
	api.GET("/riders/me/active-order", s.GetRiderActiveOrder, RequireRole(RoleRider))
}

type createOrderRequest struct {
	AddressID          string             `json:"addressId"`
	MerchantID         *string            `json:"merchantId"`
	Items              []orderItemRequest `json:"items"`
	BuyForYouRequestID *string            `json:"buyForYouRequestId"`
}

type orderItemRequest struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// CreateOrder handles POST /api/v1/orders. The customer placing the order
// comes from the token; item prices are resolved server-side.
func (s *Server) CreateOrder(c echo.Context) error {
	var body createOrderRequest
	if err := c.Bind(&body); err != nil {
		return respondBadRequest(c, err)
	}

	customerID, err := kernel.UUIDFromString(currentPrincipal(c).UserID)
	if err != nil {
		return respondBadRequest(c, err)
	}
	addressID, err := kernel.UUIDFromString(body.AddressID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	var merchantID *kernel.UUID
	if body.MerchantID != nil {
		id, parseErr := kernel.UUIDFromString(*body.MerchantID)
		if parseErr != nil {
			return respondBadRequest(c, parseErr)
		}
		merchantID = &id
	}

	var requestID *kernel.UUID
	if body.BuyForYouRequestID != nil {
		id, parseErr := kernel.UUIDFromString(*body.BuyForYouRequestID)
		if parseErr != nil {
			return respondBadRequest(c, parseErr)
		}
		requestID = &id
	}

	items := make([]commands.ItemRequest, 0, len(body.Items))
	for _, item := range body.Items {
		menuItemID, parseErr := kernel.UUIDFromString(item.MenuItemID)
		if parseErr != nil {
			return respondBadRequest(c, parseErr)
		}
		items = append(items, commands.ItemRequest{
			MenuItemID: menuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, addressID, merchantID, items, requestID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	if err := s.createOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return s.respondWithOrder(c, http.StatusCreated, orderID)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status. The caller's
// role claim is the actor; whether that actor may perform the transition is
// decided by the order's transition table.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, err)
	}

	var body updateOrderStatusRequest
	if err := c.Bind(&body); err != nil {
		return respondBadRequest(c, err)
	}

	status, err := order.StatusFromString(body.Status)
	if err != nil {
		return respondBadRequest(c, err)
	}

	actor := order.ActorRole(currentPrincipal(c).Role)
	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status, actor, body.Reason)
	if err != nil {
		return respondBadRequest(c, err)
	}

	if err := s.updateOrderStatusHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return s.respondWithOrder(c, http.StatusOK, orderID)
}

// ClaimOrder handles POST /api/v1/orders/:id/claim. The claiming rider is
// always the caller; concurrent claims resolve to exactly one winner and
// losers get a conflict.
func (s *Server) ClaimOrder(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, err)
	}
	riderID, err := kernel.UUIDFromString(currentPrincipal(c).UserID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, riderID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	if err := s.claimOrderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return s.respondWithOrder(c, http.StatusOK, orderID)
}

type assignRiderRequest struct {
	RiderID string `json:"riderId"`
}

// AssignRider handles POST /api/v1/orders/:id/assign, the coordinator's
// direct-assignment path that bypasses the claim protocol.
func (s *Server) AssignRider(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, err)
	}

	var body assignRiderRequest
	if err := c.Bind(&body); err != nil {
		return respondBadRequest(c, err)
	}
	riderID, err := kernel.UUIDFromString(body.RiderID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	cmd, err := commands.NewAssignRiderCommand(orderID, riderID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	if err := s.assignRiderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return s.respondWithOrder(c, http.StatusOK, orderID)
}

type updateRiderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateRiderStatus handles PATCH /api/v1/riders/me/status.
func (s *Server) UpdateRiderStatus(c echo.Context) error {
	riderID, err := kernel.UUIDFromString(currentPrincipal(c).UserID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	var body updateRiderStatusRequest
	if err := c.Bind(&body); err != nil {
		return respondBadRequest(c, err)
	}
	status, err := rider.StatusFromString(body.Status)
	if err != nil {
		return respondBadRequest(c, err)
	}

	cmd, err := commands.NewUpdateRiderStatusCommand(riderID, status)
	if err != nil {
		return respondBadRequest(c, err)
	}

	if err := s.updateRiderStatusHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type updateRiderLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateRiderLocation handles PATCH /api/v1/riders/me/location.
func (s *Server) UpdateRiderLocation(c echo.Context) error {
	riderID, err := kernel.UUIDFromString(currentPrincipal(c).UserID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	var body updateRiderLocationRequest
	if err := c.Bind(&body); err != nil {
		return respondBadRequest(c, err)
	}
	location, err := kernel.NewGeoPoint(body.Latitude, body.Longitude)
	if err != nil {
		return respondBadRequest(c, err)
	}

	cmd, err := commands.NewUpdateRiderLocationCommand(riderID, location)
	if err != nil {
		return respondBadRequest(c, err)
	}

	if err := s.updateRiderLocation.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return respondBadRequest(c, err)
	}

	return s.respondWithOrder(c, http.StatusOK, orderID)
}

// GetAvailableOrders handles GET /api/v1/orders/available: the claimable
// pool, oldest first.
func (s *Server) GetAvailableOrders(c echo.Context) error {
	snapshots, err := s.getAvailableOrdersHandler.Handle(
		c.Request().Context(), queries.NewGetAvailableOrdersQuery())
	if err != nil {
		return respondError(c, err)
	}

	if snapshots == nil {
		snapshots = []order.Snapshot{}
	}
	return c.JSON(http.StatusOK, snapshots)
}

// GetRiderActiveOrder handles GET /api/v1/riders/me/active-order.
func (s *Server) GetRiderActiveOrder(c echo.Context) error {
	riderID, err := kernel.UUIDFromString(currentPrincipal(c).UserID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	query, err := queries.NewGetRiderActiveOrderQuery(riderID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	snapshot, err := s.getRiderActiveOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, snapshot)
}

// respondWithOrder answers with the order's current denormalized state, the
// same shape pushed over the event channel.
func (s *Server) respondWithOrder(c echo.Context, status int, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondBadRequest(c, err)
	}

	snapshot, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(status, snapshot)
}
