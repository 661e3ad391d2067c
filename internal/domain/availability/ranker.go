package availability

import (
	"context"
	"sort"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"larder/internal/core/apperror"
	"larder/internal/core/id"
	"larder/internal/domain/inventory"
	"larder/internal/domain/recipe"
	"larder/pkg/logger"
)

// InventorySource supplies the household inventory snapshot.
type InventorySource interface {
	HouseholdInventory(ctx context.Context, householdID id.ID) ([]inventory.Record, error)
}

// Ranker scores a recipe catalog against current inventory. Each call
// recomputes from a fresh snapshot; nothing is cached across calls because
// inventory changes between requests.
type Ranker struct {
	catalog   recipe.Catalog
	inventory InventorySource
	tracer    trace.Tracer

	// pageSize bounds how much of the catalog is resident at once
	pageSize int

	// workers bounds concurrent per-recipe scoring within a page
	workers int
}

// RankerConfig configures the ranker.
type RankerConfig struct {
	Catalog   recipe.Catalog
	Inventory InventorySource
	PageSize  int
	Workers   int
}

// NewRanker creates a Ranker.
func NewRanker(cfg RankerConfig) *Ranker {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Ranker{
		catalog:   cfg.Catalog,
		inventory: cfg.Inventory,
		tracer:    otel.Tracer("larder/availability"),
		pageSize:  cfg.PageSize,
		workers:   cfg.Workers,
	}
}

// RankOptions selects and bounds one ranking call.
type RankOptions struct {
	// Score is the classification policy
	Score ScoreConfig

	// IncludeNotYet keeps recipes below the discovery threshold in the
	// result. Default: filtered out.
	IncludeNotYet bool

	// Tag restricts the catalog walk
	Tag string

	// Filter is an optional compiled discovery filter
	Filter *recipe.Filter

	// Limit caps the result; 0 means no cap
	Limit int
}

// Rank walks the catalog page by page, scores each recipe against one
// inventory snapshot, filters, and returns the ordered result:
// ready-to-cook before almost-there; within a class unrounded percentage
// descending, then missing-ingredient count ascending, then name.
func (r *Ranker) Rank(ctx context.Context, householdID id.ID, opts RankOptions) ([]RecipeMatch, error) {
	if err := opts.Score.Validate(); err != nil {
		return nil, err
	}
	if opts.Limit < 0 {
		return nil, apperror.NewInvalidConfig("limit cannot be negative")
	}

	ctx, span := r.tracer.Start(ctx, "availability.Rank",
		trace.WithAttributes(attribute.String("household_id", householdID.String())))
	defer span.End()

	records, err := r.inventory.HouseholdInventory(ctx, householdID)
	if err != nil {
		return nil, err
	}

	var matches []RecipeMatch
	offset := 0
	for {
		page, err := r.catalog.List(ctx, recipe.ListFilter{
			Tag:    opts.Tag,
			Limit:  r.pageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		offset += len(page)

		kept, err := r.filterPage(page, opts.Filter)
		if err != nil {
			return nil, err
		}

		matches = append(matches, r.scorePage(ctx, kept, records, opts)...)
	}

	sortMatches(matches)

	span.SetAttributes(attribute.Int("match_count", len(matches)))

	if opts.Limit > 0 && len(matches) > opts.Limit {
		matches = matches[:opts.Limit]
	}
	return matches, nil
}

func (r *Ranker) filterPage(page []*recipe.Recipe, filter *recipe.Filter) ([]*recipe.Recipe, error) {
	if filter == nil {
		return page, nil
	}
	kept := make([]*recipe.Recipe, 0, len(page))
	for _, rec := range page {
		ok, err := filter.Matches(rec)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, rec)
		}
	}
	return kept, nil
}

// scorePage scores one page of recipes concurrently. Safe: each recipe's
// computation touches only its own ingredients and the read-only snapshot.
func (r *Ranker) scorePage(
	ctx context.Context,
	page []*recipe.Recipe,
	records []inventory.Record,
	opts RankOptions,
) []RecipeMatch {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		kept []RecipeMatch
	)

	sem := make(chan struct{}, r.workers)
	for _, rec := range page {
		wg.Add(1)
		sem <- struct{}{}
		go func(rec *recipe.Recipe) {
			defer wg.Done()
			defer func() { <-sem }()

			match, ok := r.scoreOne(ctx, rec, records, opts)
			if !ok {
				return
			}
			mu.Lock()
			kept = append(kept, match)
			mu.Unlock()
		}(rec)
	}
	wg.Wait()

	return kept
}

func (r *Ranker) scoreOne(
	ctx context.Context,
	rec *recipe.Recipe,
	records []inventory.Record,
	opts RankOptions,
) (RecipeMatch, bool) {
	ingredients := rec.Ingredients
	if ingredients == nil {
		ingredients = []recipe.Ingredient{}
	}

	results, err := Match(ingredients, records, rec.Substitutions)
	if err != nil {
		// One malformed recipe is skipped and flagged, never a crash
		// for the whole batch.
		logger.Warn(ctx, "skipping unmatchable recipe",
			"recipe_id", rec.ID,
			"error", err,
		)
		return RecipeMatch{}, false
	}

	match, err := Score(rec, results, opts.Score)
	if err != nil {
		logger.Warn(ctx, "skipping unscorable recipe",
			"recipe_id", rec.ID,
			"error", err,
		)
		return RecipeMatch{}, false
	}

	if match.Classification == ClassNotYet && !opts.IncludeNotYet {
		return RecipeMatch{}, false
	}
	return match, true
}

func classRank(c Classification) int {
	switch c {
	case ClassReady:
		return 0
	case ClassAlmost:
		return 1
	default:
		return 2
	}
}

// sortMatches orders the merged result set. Ordering is defined over the
// full set, not per worker, so it runs after all pages are scored.
func sortMatches(matches []RecipeMatch) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if ra, rb := classRank(a.Classification), classRank(b.Classification); ra != rb {
			return ra < rb
		}
		if a.Exact != b.Exact {
			return a.Exact > b.Exact
		}
		if ma, mb := a.RequiredMissing(), b.RequiredMissing(); ma != mb {
			return ma < mb
		}
		return a.Recipe.Name < b.Recipe.Name
	})
}
