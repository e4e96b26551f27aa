package domain

import "time"

// InventoryEntry is a per-account holding of one fungible item. An entry with
// quantity <= 0 must never persist; the repository deletes it instead.
type InventoryEntry struct {
	ID               int64     `db:"id" json:"id"`
	DiscordID        int64     `db:"discord_id" json:"discord_id"`
	ItemKey          string    `db:"item_key" json:"item_key"`
	DisplayName      string    `db:"display_name" json:"display_name"`
	Rarity           Rarity    `db:"rarity" json:"rarity"`
	Shiny            bool      `db:"shiny" json:"shiny"`
	Quantity         int64     `db:"quantity" json:"quantity"`
	FirstDepositedAt time.Time `db:"first_deposited_at" json:"first_deposited_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// CatalogEntry maps a canonical item name to its value within one game.
// The catalog is read-only for the trade core; the importer populates it.
type CatalogEntry struct {
	ID        int64     `db:"id" json:"id"`
	Game      string    `db:"game" json:"game"`
	Name      string    `db:"name" json:"name"`
	Value     int64     `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
