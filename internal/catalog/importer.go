package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"trading_backend/internal/logger"
	"trading_backend/internal/repository"
)

// basePets are the Huge and Titanic pets supported out of the box. Values
// start at zero and are updated from a values file.
var basePets = []string{
	"Huge Cat",
	"Huge Corgi",
	"Huge Dog",
	"Huge Dalmation",
	"Huge Dragon",
	"Huge Hell Rock",
	"Huge Pumpkin Cat",
	"Huge Cupcake",
	"Huge Santa Paws",
	"Huge Festive Cat",
	"Huge Festive Dog",
	"Huge Happy Rock",
	"Huge Cyberpunk Cat",
	"Huge Cyberpunk Dog",
	"Huge Unicorn",
	"Huge Pegasus",
	"Huge Balloon Cat",
	"Huge Balloon Dog",
	"Huge Axolotl",
	"Huge Easter Cat",
	"Huge Otter",
	"Huge Lucky Cat",
	"Huge Lucky Dog",
	"Huge Storm Wolf",
	"Huge Storm Agony",
	"Huge Kawaii Cat",
	"Huge Punksky",
	"Huge Cartoon Cat",
	"Huge Pixel Cat",
	"Huge Pixel Demon",
	"Huge Summer Cat",
	"Huge Summer Monkey",
	"Huge Sailor Cat",
	"Huge Tiki Dominus",
	"Huge Meebo in a Spaceship",
	"Huge Gargoyle Dragon",
	"Huge Pterodactyl",
	"Huge Hell Cat",
	"Huge Steampunk Octopus",
	"Huge Evolved Bat",
	"Huge Vampire Bat",
	"Titanic Cat",
	"Titanic Corgi",
	"Titanic Dog",
	"Titanic Pumpkin Cat",
	"Titanic Holiday Cat",
	"Titanic Cyberpunk Dragon",
	"Titanic Unicorn",
	"Titanic Balloon Cat",
	"Titanic Storm Agony",
	"Titanic Pixel Cat",
	"Titanic Summer Monkey",
	"Titanic Tiki Dominus",
	"Titanic Gargoyle Dragon",
	"Titanic Steampunk Octopus",
}

// Variants expands a base pet name into its tradeable forms: normal, golden,
// rainbow, and the shiny version of each.
func Variants(base string) []string {
	return []string{
		base,
		"Golden " + base,
		"Rainbow " + base,
		"Shiny " + base,
		"Shiny Golden " + base,
		"Shiny Rainbow " + base,
	}
}

// Importer populates the item catalog.
type Importer struct {
	catalog *repository.CatalogRepository
}

func NewImporter(catalog *repository.CatalogRepository) *Importer {
	return &Importer{catalog: catalog}
}

// ImportBuiltin seeds the catalog with every variant of the builtin pet list
// at value zero. Existing values are overwritten, so run this before loading
// a values file, not after.
func (i *Importer) ImportBuiltin(ctx context.Context, game string) (int, error) {
	values := make(map[string]int64, len(basePets)*6)
	for _, base := range basePets {
		for _, name := range Variants(base) {
			values[name] = 0
		}
	}
	if err := i.catalog.BulkUpsert(ctx, game, values); err != nil {
		return 0, fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("catalog seeded", "game", game, "items", len(values))
	return len(values), nil
}

// ImportFile loads a JSON object of canonical name to value and upserts it.
func (i *Importer) ImportFile(ctx context.Context, game, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read values file: %w", err)
	}

	var values map[string]int64
	if err := json.Unmarshal(data, &values); err != nil {
		return 0, fmt.Errorf("parse values file: %w", err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("values file %s is empty", path)
	}

	if err := i.catalog.BulkUpsert(ctx, game, values); err != nil {
		return 0, fmt.Errorf("import catalog: %w", err)
	}
	logger.Info("catalog imported", "game", game, "items", len(values), "file", path)
	return len(values), nil
}
