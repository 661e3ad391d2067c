package replenish

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	corecontext "larder/internal/core/context"
	"larder/internal/core/id"
	"larder/internal/domain/catalogs/product"
	"larder/internal/domain/consumption"
	"larder/internal/domain/inventory"
	"larder/pkg/logger"
)

// Service assembles low-stock candidates from inventory, purchase history
// and catalog par levels.
type Service struct {
	inventory inventory.Repository
	products  product.Repository
	history   consumption.History
	tracer    trace.Tracer
}

func NewService(
	inv inventory.Repository,
	products product.Repository,
	history consumption.History,
) *Service {
	return &Service{
		inventory: inv,
		products:  products,
		history:   history,
		tracer:    otel.Tracer("larder/replenish"),
	}
}

// LowStock returns replenishment candidates for the household in ctx,
// most urgent first, each with a suggested restock quantity.
func (s *Service) LowStock(ctx context.Context, cfg DetectConfig) ([]Candidate, error) {
	householdID, err := corecontext.RequireHouseholdID(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "replenish.LowStock")
	defer span.End()

	records, err := s.inventory.HouseholdInventory(ctx, householdID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]id.ID, 0, len(records))
	seen := make(map[id.ID]struct{}, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.ProductID]; ok {
			continue
		}
		seen[rec.ProductID] = struct{}{}
		productIDs = append(productIDs, rec.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	rates, err := s.history.Rates(ctx, householdID)
	if err != nil {
		return nil, err
	}

	candidates, err := Detect(records, products, rates, cfg)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		purchases, err := s.history.Purchases(ctx, householdID, candidates[i].Product.ID)
		if err != nil {
			logger.Warn(ctx, "purchase history unavailable, falling back to par level",
				"productId", candidates[i].Product.ID, "error", err)
			purchases = nil
		}
		candidates[i].Suggested = EstimateQuantity(
			purchases, candidates[i].Product.DefaultUnit,
			candidates[i].Product.ParQuantity, candidates[i].Quantity)
	}

	span.SetAttributes(attribute.Int("replenish.candidates", len(candidates)))
	return candidates, nil
}
