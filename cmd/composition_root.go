package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
)

// CompositionRoot wires the application graph: persistence, the fee
// calculator, the event bus, command and query handlers, and jobs.
type CompositionRoot struct {
	gormDB        *gorm.DB
	uowFactory    *postgres.GormUnitOfWorkFactory
	storefront    ports.StorefrontGateway
	feeCalculator services.DeliveryFeeCalculator
	eventBus      ports.EventBus
	logger        *slog.Logger
}

// NewCompositionRoot assembles the graph over an open database connection,
// a routing-backed fee calculator, and the event bus in use (plain hub or
// redis-bridged).
func NewCompositionRoot(
	gormDB *gorm.DB,
	feeCalculator services.DeliveryFeeCalculator,
	eventBus ports.EventBus,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		storefront:    postgres.NewGormStorefrontGateway(gormDB),
		feeCalculator: feeCalculator,
		eventBus:      eventBus,
		logger:        logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) riderUoWFactory() commands.RiderUoWFactory {
	return FuncRiderUoWFactory(func() commands.RiderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) crossUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), c.storefront, c.feeCalculator, c.eventBus)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.crossUoWFactory(), c.eventBus)
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.crossUoWFactory(), c.eventBus)
}

func (c *CompositionRoot) CreateAssignRiderCommandHandler() commands.AssignRiderCommandHandler {
	return commands.NewAssignRiderCommandHandler(c.crossUoWFactory(), c.eventBus)
}

func (c *CompositionRoot) CreateUpdateRiderStatusCommandHandler() commands.UpdateRiderStatusCommandHandler {
	return commands.NewUpdateRiderStatusCommandHandler(c.riderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateRiderLocationCommandHandler() commands.UpdateRiderLocationCommandHandler {
	return commands.NewUpdateRiderLocationCommandHandler(c.riderUoWFactory(), c.eventBus)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRiderActiveOrderQueryHandler() queries.GetRiderActiveOrderQueryHandler {
	return queries.NewGetRiderActiveOrderQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the API server over all handlers.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateClaimOrderCommandHandler(),
		c.CreateAssignRiderCommandHandler(),
		c.CreateUpdateRiderStatusCommandHandler(),
		c.CreateUpdateRiderLocationCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetAvailableOrdersQueryHandler(),
		c.CreateGetRiderActiveOrderQueryHandler(),
	)
}

// CreateJobManager assembles the scheduled jobs from config.
func (c *CompositionRoot) CreateJobManager(config Config) *jobs.JobManager {
	handler := c.CreateGetAvailableOrdersQueryHandler()
	broadcastJob := jobs.NewAvailableOrdersBroadcastJob(
		handler, c.eventBus, config.BroadcastSchedule, c.logger)
	sweepJob := jobs.NewStaleRiderSweepJob(
		c.riderUoWFactory(), config.RiderStaleWindow, config.SweepSchedule, c.logger)

	return jobs.NewJobManager(broadcastJob, sweepJob)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRiderUoWFactory func() commands.RiderUoW

func (f FuncRiderUoWFactory) Create() commands.RiderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
