// Package main seeds a demo household with products, inventory, recipes
// and purchase history.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"larder/internal/core/id"
	"larder/internal/core/types"
	"larder/internal/domain/catalogs/product"
	"larder/internal/domain/consumption"
	"larder/internal/domain/inventory"
	"larder/internal/domain/recipe"
	"larder/internal/infrastructure/storage/postgres"
	"larder/pkg/logger"
)

// demoHousehold is a fixed ID so the seed data is easy to exercise with a
// hand-crafted token.
var demoHousehold = id.MustParse("018f3a2e-0000-7000-8000-0000000000d0")

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		log.Fatalw("failed to migrate", "error", err)
	}

	if err := seed(ctx, pool); err != nil {
		log.Fatalw("seeding failed", "error", err)
	}
	log.Infow("seeding complete", "household_id", demoHousehold.String())
}

func seed(ctx context.Context, pool *postgres.Pool) error {
	products := postgres.NewProductRepo(pool)
	inventoryRepo := postgres.NewInventoryRepo(pool)
	recipes := postgres.NewRecipeRepo(pool)
	history := postgres.NewConsumptionRepo(pool)

	pasta := product.New("pasta", "Pasta", "pantry", "g", types.MustQuantity("1000"))
	penne := product.New("penne", "Penne", "pantry", "g", types.MustQuantity("500"))
	tomato := product.New("tomato", "Tomato", "produce", "pc", types.MustQuantity("6"))
	milk := product.New("milk", "Milk", "dairy", "l", types.MustQuantity("2"))
	butter := product.New("butter", "Butter", "dairy", "g", types.MustQuantity("250"))
	basil := product.New("basil", "Basil", "produce", "bunch", types.MustQuantity("1"))

	for _, p := range []*product.Product{pasta, penne, tomato, milk, butter, basil} {
		if err := products.Create(ctx, p); err != nil {
			return fmt.Errorf("create product %s: %w", p.Code, err)
		}
	}

	pantry := "pantry"
	fridge := "fridge"
	stocks := []*inventory.Record{
		located(inventory.NewRecord(demoHousehold, pasta.ID, types.MustQuantity("500"), "g"), &pantry),
		located(inventory.NewRecord(demoHousehold, tomato.ID, types.MustQuantity("1"), "pc"), &fridge),
		located(inventory.NewRecord(demoHousehold, milk.ID, types.MustQuantity("0.2"), "l"), &fridge),
		located(inventory.NewRecord(demoHousehold, butter.ID, types.MustQuantity("150"), "g"), &fridge),
	}
	threshold := types.MustQuantity("0.5")
	stocks[2].MinThreshold = &threshold

	for _, rec := range stocks {
		if err := inventoryRepo.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("upsert inventory: %w", err)
		}
	}

	arrabbiata := recipe.New("pasta-arrabbiata", "Pasta Arrabbiata", 4)
	arrabbiata.Tags = []string{"quick", "vegetarian"}
	arrabbiata.Ingredients = []recipe.Ingredient{
		{ID: id.New(), ProductID: &pasta.ID, Name: "Pasta", Quantity: types.MustQuantity("400"), Unit: "g"},
		{ID: id.New(), ProductID: &tomato.ID, Name: "Tomato", Quantity: types.MustQuantity("3"), Unit: "pc"},
		{ID: id.New(), ProductID: &basil.ID, Name: "Basil", Quantity: types.MustQuantity("1"), Unit: "bunch", Optional: true},
	}
	arrabbiata.Substitutions = recipe.SubstitutionTable{
		pasta.ID: {penne.ID},
	}

	pancakes := recipe.New("pancakes", "Pancakes", 2)
	pancakes.Tags = []string{"breakfast"}
	pancakes.Ingredients = []recipe.Ingredient{
		{ID: id.New(), ProductID: &milk.ID, Name: "Milk", Quantity: types.MustQuantity("0.5"), Unit: "l"},
		{ID: id.New(), ProductID: &butter.ID, Name: "Butter", Quantity: types.MustQuantity("50"), Unit: "g"},
		{ID: id.New(), Name: "maple syrup", Quantity: types.MustQuantity("100"), Unit: "ml", Optional: true},
	}

	for _, r := range []*recipe.Recipe{arrabbiata, pancakes} {
		if err := recipes.Create(ctx, r); err != nil {
			return fmt.Errorf("create recipe %s: %w", r.Code, err)
		}
	}

	// Weekly milk purchases give the detector a consumption rate.
	for weeks := 4; weeks >= 1; weeks-- {
		purchase := consumption.Purchase{
			ProductID:   milk.ID,
			Quantity:    types.MustQuantity("2"),
			Unit:        "l",
			PurchasedAt: time.Now().AddDate(0, 0, -7*weeks),
		}
		if err := history.Record(ctx, demoHousehold, purchase); err != nil {
			return fmt.Errorf("record purchase: %w", err)
		}
	}

	return nil
}

func located(rec *inventory.Record, location *string) *inventory.Record {
	rec.Location = location
	return rec
}
