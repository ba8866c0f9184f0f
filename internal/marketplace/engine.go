package marketplace

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/iwvelando/lender-marketplace/internal/catalog"
	"github.com/iwvelando/lender-marketplace/pkg/mathutil"
)

// CatalogSource supplies the catalog snapshot a search runs against.
// *catalog.Store satisfies it.
type CatalogSource interface {
	Snapshot() *catalog.Catalog
}

// Engine runs searches against a catalog source. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	logger  *zap.Logger
	catalog CatalogSource
}

// NewEngine creates an engine reading lenders from src.
func NewEngine(logger *zap.Logger, src CatalogSource) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, catalog: src}
}

// Search derives metrics for the application, filters the catalog down to
// eligible lenders, prices each one, and ranks the offers by total cost.
func (e *Engine) Search(req Request) (Result, error) {
	if req.Application == nil {
		return Result{}, eris.Wrap(ErrInvalidRequest, "missing application")
	}
	if !mathutil.IsFinite(req.PD) {
		return Result{}, eris.Wrapf(ErrInvalidRequest, "pd must be a finite number, got %v", req.PD)
	}

	snapshot := e.catalog.Snapshot()
	if snapshot.Len() == 0 {
		return Result{}, eris.Wrap(ErrCatalogUnavailable, "no lenders loaded")
	}

	result := Match(snapshot.Products(), *req.Application, req.PD)

	e.logger.Debug("offers searched",
		zap.String("op", "marketplace.Search"),
		zap.String("state", req.Application.State),
		zap.Float64("pd", req.PD),
		zap.Float64("principal", result.Principal),
		zap.Int("lenders", snapshot.Len()),
		zap.Int("offers", len(result.Offers)),
	)

	return result, nil
}

// Match runs the full pipeline over products without any request checks.
func Match(products []catalog.Product, app Application, pd float64) Result {
	m := ComputeMetrics(app)

	eligible := FilterEligible(products, app, m)
	offers := make([]Offer, 0, len(eligible))
	for _, p := range eligible {
		offers = append(offers, PriceOffer(p, app, pd, m.Principal))
	}

	return Result{
		Principal: m.Principal,
		DTI:       mathutil.Round(m.DTI),
		LTV:       mathutil.Round(m.LTV),
		Offers:    RankOffers(offers),
	}
}
