package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

var (
	ErrMerchantIsClosed = errors.New("merchant is not accepting orders")
	ErrAddressNotOwned  = errors.New("delivery address does not belong to the customer")
	ErrRequestNotOwned  = errors.New("buy-for-you request does not belong to the customer")
	ErrItemUnavailable  = errors.New("menu item is unavailable")
)

// CreateOrderCommandHandler handles the business logic for order placement.
// Validates storefront preconditions, prices the order, persists it in
// PENDING status, and notifies the merchant and connected riders.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, storefront, calculator, bus)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrMerchantIsClosed):
//	    // surface 409 to the client
//	case err != nil:
//	    return err
//	}
type CreateOrderCommandHandler struct {
	uowFactory    OrderUoWFactory
	storefront    ports.StorefrontGateway
	feeCalculator services.DeliveryFeeCalculator
	eventBus      ports.EventBus
}

// NewCreateOrderCommandHandler creates a handler for order placement.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	storefront ports.StorefrontGateway,
	feeCalculator services.DeliveryFeeCalculator,
	eventBus ports.EventBus,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:    uowFactory,
		storefront:    storefront,
		feeCalculator: feeCalculator,
		eventBus:      eventBus,
	}
}

// Handle processes the order placement command.
// All storefront preconditions are checked before anything is written, so a
// failed precondition leaves no partial order behind. Events publish only
// after a successful commit.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	address, err := h.storefront.GetCustomerAddress(ctx, cmd.AddressID())
	if err != nil {
		return err
	}
	if !address.CustomerID.IsEqual(cmd.CustomerID()) {
		return ErrAddressNotOwned
	}

	var newOrder *order.Order
	if cmd.IsBuyForYou() {
		newOrder, err = h.buildBuyForYouOrder(ctx, cmd)
	} else {
		newOrder, err = h.buildMerchantOrder(ctx, cmd, address)
	}
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	snapshot := newOrder.Snapshot()
	if merchantID := newOrder.MerchantID(); merchantID != nil {
		h.eventBus.PublishToUser(ctx, merchantID.String(), ports.EventOrderCreated, snapshot)
	}
	h.eventBus.PublishToRole(ctx, string(order.RoleRider), ports.EventOrderCreated, snapshot)

	return nil
}

func (h CreateOrderCommandHandler) buildMerchantOrder(
	ctx context.Context,
	cmd CreateOrderCommand,
	address ports.CustomerAddress,
) (*order.Order, error) {
	merchant, err := h.storefront.GetMerchant(ctx, *cmd.MerchantID())
	if err != nil {
		return nil, err
	}
	if !merchant.Open {
		return nil, ErrMerchantIsClosed
	}

	lines, err := h.priceItems(ctx, merchant, cmd.Items())
	if err != nil {
		return nil, err
	}

	quote := h.feeCalculator.Calculate(ctx, merchant.Location, address.Location)

	return order.NewMerchantOrder(
		cmd.OrderID(),
		newOrderNumber(cmd.OrderID()),
		cmd.CustomerID(),
		merchant.ID,
		cmd.AddressID(),
		lines,
		quote.Fee,
		time.Now().UTC(),
	)
}

func (h CreateOrderCommandHandler) buildBuyForYouOrder(
	ctx context.Context,
	cmd CreateOrderCommand,
) (*order.Order, error) {
	request, err := h.storefront.GetBuyForYouRequest(ctx, *cmd.BuyForYouRequestID())
	if err != nil {
		return nil, err
	}
	if !request.CustomerID.IsEqual(cmd.CustomerID()) {
		return nil, ErrRequestNotOwned
	}

	return order.NewBuyForYouOrder(
		cmd.OrderID(),
		newOrderNumber(cmd.OrderID()),
		cmd.CustomerID(),
		request.ID,
		cmd.AddressID(),
		request.ServiceFee,
		time.Now().UTC(),
	)
}

// priceItems resolves the requested lines against the merchant's live menu.
// Every item must exist, belong to the merchant, and be available; unit
// prices come from the storefront, never from the client.
func (h CreateOrderCommandHandler) priceItems(
	ctx context.Context,
	merchant ports.Merchant,
	requested []ItemRequest,
) ([]order.ItemLine, error) {
	ids := make([]kernel.UUID, 0, len(requested))
	for _, item := range requested {
		ids = append(ids, item.MenuItemID)
	}

	menuItems, err := h.storefront.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]order.ItemLine, 0, len(requested))
	for _, item := range requested {
		menuItem, found := menuItems[item.MenuItemID]
		if !found || !menuItem.Available || !menuItem.MerchantID.IsEqual(merchant.ID) {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, item.MenuItemID)
		}

		line, err := order.NewItemLine(item.MenuItemID, item.Quantity, menuItem.Price, item.Notes)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// newOrderNumber derives a short human-readable reference from the order id.
func newOrderNumber(id kernel.UUID) string {
	compact := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return fmt.Sprintf("ORD-%s", compact[:8])
}
