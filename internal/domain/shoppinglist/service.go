package shoppinglist

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	corecontext "larder/internal/core/context"
	"larder/internal/core/id"
	"larder/internal/domain/availability"
	"larder/internal/domain/catalogs/product"
	"larder/internal/domain/consumption"
	"larder/internal/domain/inventory"
	"larder/internal/domain/recipe"
	"larder/internal/domain/replenish"
	"larder/pkg/logger"
)

// Archiver keeps an audit trail of generated lists.
type Archiver interface {
	Archive(ctx context.Context, householdID id.ID, items []Item) error
}

// GenerateOptions selects which sources feed a generation run.
type GenerateOptions struct {
	// IncludeLowStock adds depletion candidates
	IncludeLowStock bool `json:"includeLowStock"`

	// RecipeIDs adds the shortfalls of the given recipes
	RecipeIDs []id.ID `json:"recipeIds"`

	// Detect tunes depletion detection; zero value means defaults
	Detect *replenish.DetectConfig `json:"detect,omitempty"`
}

// Service generates and serves shopping lists.
type Service struct {
	inventory inventory.Repository
	products  product.Repository
	recipes   recipe.Catalog
	history   consumption.History
	store     Store
	archiver  Archiver
	tracer    trace.Tracer
}

func NewService(
	inv inventory.Repository,
	products product.Repository,
	recipes recipe.Catalog,
	history consumption.History,
	store Store,
	archiver Archiver,
) *Service {
	return &Service{
		inventory: inv,
		products:  products,
		recipes:   recipes,
		history:   history,
		store:     store,
		archiver:  archiver,
		tracer:    otel.Tracer("larder/shoppinglist"),
	}
}

// Generate builds the household's shopping list from the selected sources,
// replaces the previously generated lines and archives the run. All
// sources see the same inventory snapshot, so a recipe shortfall and a
// depletion candidate for the same product agree on what is on hand.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) ([]Item, error) {
	householdID, err := corecontext.RequireHouseholdID(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "shoppinglist.Generate")
	defer span.End()

	records, err := s.inventory.HouseholdInventory(ctx, householdID)
	if err != nil {
		return nil, err
	}

	raw := make([]Item, 0)

	if len(opts.RecipeIDs) > 0 {
		recipeLines, err := s.recipeShortfalls(ctx, householdID, records, opts.RecipeIDs)
		if err != nil {
			return nil, err
		}
		raw = append(raw, recipeLines...)
	}

	if opts.IncludeLowStock {
		cfg := replenish.DefaultDetectConfig()
		if opts.Detect != nil {
			cfg = *opts.Detect
		}
		lowStockLines, err := s.depletionLines(ctx, householdID, records, cfg)
		if err != nil {
			return nil, err
		}
		raw = append(raw, lowStockLines...)
	}

	productIDs := make([]id.ID, 0, len(raw))
	for _, item := range raw {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}
	products, err := s.products.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	items := Synthesize(raw, products)
	for i := range items {
		items[i].HouseholdID = householdID
	}

	if err := s.store.ReplaceGenerated(ctx, householdID, items); err != nil {
		return nil, err
	}
	if err := s.archiver.Archive(ctx, householdID, items); err != nil {
		// Archival is best effort, the generated list already stands.
		logger.Warn(ctx, "failed to archive generated shopping list", "error", err)
	}

	span.SetAttributes(
		attribute.Int("shoppinglist.sources", len(raw)),
		attribute.Int("shoppinglist.items", len(items)),
	)
	return items, nil
}

// recipeShortfalls turns the unmet required ingredients of the given
// recipes into raw shopping-list lines.
func (s *Service) recipeShortfalls(
	ctx context.Context,
	householdID id.ID,
	records []inventory.Record,
	recipeIDs []id.ID,
) ([]Item, error) {
	recipes, err := s.recipes.GetByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]Item, 0)
	for _, r := range recipes {
		results, err := availability.Match(r.Ingredients, records, r.Substitutions)
		if err != nil {
			return nil, err
		}
		for _, res := range results {
			if res.Satisfied || res.Invalid || res.Ingredient.Optional {
				continue
			}

			item := *NewItem(householdID, res.Ingredient.Name,
				res.Ingredient.Quantity, res.Ingredient.Unit, SourceRecipe)
			if res.Unresolved {
				// Free-text line: the whole requirement is needed.
				lines = append(lines, item)
				continue
			}
			item.ProductID = res.Ingredient.ProductID
			item.Quantity = res.Shortfall
			lines = append(lines, item)
		}
	}
	return lines, nil
}

// depletionLines runs depletion detection over the shared snapshot and
// turns candidates into raw shopping-list lines sized by the estimator.
func (s *Service) depletionLines(
	ctx context.Context,
	householdID id.ID,
	records []inventory.Record,
	cfg replenish.DetectConfig,
) ([]Item, error) {
	productIDs := make([]id.ID, 0, len(records))
	for _, rec := range records {
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

	candidates, err := replenish.Detect(records, products, rates, cfg)
	if err != nil {
		return nil, err
	}

	lines := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		purchases, err := s.history.Purchases(ctx, householdID, c.Product.ID)
		if err != nil {
			purchases = nil
		}
		qty := replenish.EstimateQuantity(
			purchases, c.Product.DefaultUnit, c.Product.ParQuantity, c.Quantity)

		item := *NewItem(householdID, c.Product.Name, qty, c.Unit, SourceDepletion)
		pid := c.Product.ID
		item.ProductID = &pid
		item.Category = c.Product.Category
		lines = append(lines, item)
	}
	return lines, nil
}

// List returns the household's current shopping list.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	householdID, err := corecontext.RequireHouseholdID(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListByHousehold(ctx, householdID)
}

// Add appends a manual line to the household's list.
func (s *Service) Add(ctx context.Context, item *Item) error {
	householdID, err := corecontext.RequireHouseholdID(ctx)
	if err != nil {
		return err
	}
	item.HouseholdID = householdID
	item.Source = SourceManual
	if err := item.Validate(ctx); err != nil {
		return err
	}
	return s.store.Create(ctx, item)
}
