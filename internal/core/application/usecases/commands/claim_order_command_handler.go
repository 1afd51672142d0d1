package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var (
	ErrRiderIsOffline = errors.New("rider is offline")

	// ErrRiderHasActiveDelivery aliases the ports sentinel so callers can
	// match it regardless of whether the precondition read or the storage
	// constraint rejected the claim.
	ErrRiderHasActiveDelivery = ports.ErrRiderHasActiveDelivery
)

// ClaimOrderCommandHandler resolves the rider claim race.
// Precondition checks (rider online, no delivery in flight) happen inside
// the same unit of work as the claim itself, and the decisive step is the
// repository's conditional write, which re-checks both sides at write time:
// a losing rider gets ports.ErrOrderAlreadyTaken, and a rider whose racing
// claims would win two orders at once gets ErrRiderHasActiveDelivery on all
// but one of them. The precondition read alone cannot close that second
// race: two claims on different orders each see no active delivery before
// either one commits.
//
// Example:
//
//	handler := NewClaimOrderCommandHandler(uowFactory, bus)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ports.ErrOrderAlreadyTaken):
//	    // lost the race, re-query the available list
//	case errors.Is(err, ErrRiderHasActiveDelivery), errors.Is(err, ErrRiderIsOffline):
//	    // rider not eligible to claim right now
//	case err != nil:
//	    return err
//	}
type ClaimOrderCommandHandler struct {
	uowFactory UoWFactory
	eventBus   ports.EventBus
}

// NewClaimOrderCommandHandler creates a handler for rider claims.
// Requires a UoWFactory because the order grant and the rider's BUSY flip
// must commit atomically.
func NewClaimOrderCommandHandler(uowFactory UoWFactory, eventBus ports.EventBus) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		eventBus:   eventBus,
	}
}

// Handle processes a rider's claim attempt.
// Rejects offline riders (ErrRiderIsOffline) and riders with a delivery
// already in flight (ErrRiderHasActiveDelivery) before attempting the
// conditional claim; concurrent double-booking is caught again by the
// write itself. A lost race surfaces as ports.ErrOrderAlreadyTaken; all
// three are non-fatal and the caller is expected to re-query the
// available list. Emits order:updated after a winning commit.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	riderRepo := uow.RiderRepository()
	claimingRider, err := riderRepo.Get(ctx, cmd.RiderID())
	if err != nil {
		return err
	}
	if claimingRider.IsOffline() {
		return ErrRiderIsOffline
	}

	orderRepo := uow.OrderRepository()
	_, err = orderRepo.GetActiveByRider(ctx, cmd.RiderID())
	if err == nil {
		return ErrRiderHasActiveDelivery
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	claimedOrder, err := orderRepo.ClaimForRider(ctx, cmd.OrderID(), cmd.RiderID(), time.Now().UTC())
	if err != nil {
		return err
	}

	if err = claimingRider.MarkBusy(); err != nil {
		return err
	}
	if err = riderRepo.Update(ctx, claimingRider); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishOrderUpdated(ctx, h.eventBus, claimedOrder)
	return nil
}
