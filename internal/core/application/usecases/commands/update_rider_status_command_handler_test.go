package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/rider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateRiderStatusCommand(t *testing.T) {
	riderID := kernel.NewUUID()

	cmd, err := commands.NewUpdateRiderStatusCommand(riderID, rider.StatusAvailable)
	require.NoError(t, err)
	assert.Equal(t, riderID, cmd.RiderID())
	assert.Equal(t, rider.StatusAvailable, cmd.Status())

	_, err = commands.NewUpdateRiderStatusCommand(riderID, rider.StatusUnknown)
	require.Error(t, err)
}

func TestUpdateRiderStatusCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	riderID := kernel.NewUUID()
	aggregate := newOfflineRider(t, riderID)
	cmd, err := commands.NewUpdateRiderStatusCommand(riderID, rider.StatusAvailable)
	require.NoError(t, err)

	riderRepo := new(MockRiderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RiderRepository").Return(riderRepo).Once(),
		riderRepo.On("Get", ctx, riderID).Return(aggregate, nil).Once(),
		riderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRiderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateRiderStatusCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	assert.Equal(t, rider.StatusAvailable, aggregate.Status())
	uow.AssertExpectations(t)
	riderRepo.AssertExpectations(t)
}

func TestUpdateRiderStatusCommandHandler_Handle_NotConstructed(t *testing.T) {
	h := commands.NewUpdateRiderStatusCommandHandler(new(MockRiderUoWFactory))
	err := h.Handle(t.Context(), commands.UpdateRiderStatusCommand{})
	require.ErrorIs(t, err, commands.ErrUpdateRiderStatusCommandIsNotConstructed)
}
