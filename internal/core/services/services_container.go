package services

import (
	portsrepo "github.com/philodia/gescom-core/internal/core/ports/repositories"
	portssvc "github.com/philodia/gescom-core/internal/core/ports/services"
	"github.com/philodia/gescom-core/internal/platform/config"
)

// Infrastructure carries the optional adapters services publish to or cache in.
// Nil fields disable the corresponding feature.
type Infrastructure struct {
	Events      portssvc.EventPublisher
	ReportCache portssvc.ReportCache
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infrastructure) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The resolver comes first since the posting engine depends on it
	container.Resolver = NewResolverService(repos.ReferenceRepo)

	container.Inventory = NewInventoryService(
		repos.InventoryRepo,
		WithInventoryEventPublisher(infra.Events),
	)

	container.Posting = NewPostingService(
		repos.LedgerRepo,
		container.Resolver,
		WithChartCodes(ChartCodes{
			SalesJournal:        cfg.SalesJournalCode,
			ReceivableAccount:   cfg.ReceivableAccountCode,
			RevenueAccount:      cfg.RevenueAccountCode,
			TaxCollectedAccount: cfg.TaxCollectedAccountCode,
		}),
		WithPostingEventPublisher(infra.Events),
		WithPostingReportCache(infra.ReportCache),
	)

	reportingOpts := []ReportingServiceOption{}
	if infra.ReportCache != nil {
		reportingOpts = append(reportingOpts, WithReportCache(infra.ReportCache))
	}
	container.Reporting = NewReportingService(repos.ReportingRepo, reportingOpts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ResolverSvc        = (*resolverService)(nil)
	_ portssvc.InventorySvcFacade = (*inventoryService)(nil)
	_ portssvc.PostingSvcFacade   = (*postingService)(nil)
	_ portssvc.ReportingService   = (*reportingService)(nil)
)
