package inventory

import (
	"context"

	"larder/internal/core/id"
)

// Repository is the inventory collaborator. Mutation happens upstream via
// consumption/restock events; the engine only reads snapshots.
type Repository interface {
	// HouseholdInventory returns every inventory record of a household.
	// One request should fetch this once and pass the same snapshot to
	// all matching and detection calls.
	HouseholdInventory(ctx context.Context, householdID id.ID) ([]Record, error)

	// Upsert inserts or replaces a record (used by seeding)
	Upsert(ctx context.Context, r *Record) error
}
