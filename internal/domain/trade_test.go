package domain

import (
	"encoding/json"
	"testing"
)

func TestDisplayName_Plain(t *testing.T) {
	item := TradeItem{Name: "Huge Cat"}
	if got := item.DisplayName(); got != "Huge Cat" {
		t.Fatalf("expected %q, got %q", "Huge Cat", got)
	}
}

func TestDisplayName_Golden(t *testing.T) {
	item := TradeItem{Name: "Huge Cat", Rarity: RarityGolden}
	if got := item.DisplayName(); got != "Golden Huge Cat" {
		t.Fatalf("expected %q, got %q", "Golden Huge Cat", got)
	}
}

func TestDisplayName_ShinyBeforeRarity(t *testing.T) {
	item := TradeItem{Name: "Huge Cat", Rarity: RarityRainbow, Shiny: true}
	if got := item.DisplayName(); got != "Shiny Rainbow Huge Cat" {
		t.Fatalf("expected %q, got %q", "Shiny Rainbow Huge Cat", got)
	}
}

func TestDisplayName_ShinyNormal(t *testing.T) {
	item := TradeItem{Name: "Titanic Dog", Shiny: true}
	if got := item.DisplayName(); got != "Shiny Titanic Dog" {
		t.Fatalf("expected %q, got %q", "Shiny Titanic Dog", got)
	}
}

func TestKey_Lowercased(t *testing.T) {
	item := TradeItem{Name: "Huge Cat", Rarity: RarityGolden, Shiny: true}
	if got := item.Key(); got != "shiny golden huge cat" {
		t.Fatalf("expected %q, got %q", "shiny golden huge cat", got)
	}
}

func TestKey_FungibilityAcrossSpelling(t *testing.T) {
	a := TradeItem{Name: "HUGE CAT", Rarity: RarityGolden}
	b := TradeItem{Name: "huge cat", Rarity: RarityGolden}
	if a.Key() != b.Key() {
		t.Fatalf("same item must share a key: %q vs %q", a.Key(), b.Key())
	}
}

func TestTradeItemUnmarshal_QuantityDefaultsToOne(t *testing.T) {
	var items []TradeItem
	payload := `[{"name":"Huge Cat","rarity":"Normal","shiny":false}]`
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1 when omitted, got %+v", items)
	}
}

func TestTradeItemUnmarshal_ExplicitQuantityKept(t *testing.T) {
	var item TradeItem
	if err := json.Unmarshal([]byte(`{"name":"Huge Cat","quantity":4}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", item.Quantity)
	}

	// an explicit zero is not the same as an omitted field
	if err := json.Unmarshal([]byte(`{"name":"Huge Cat","quantity":0}`), &item); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if item.Quantity != 0 {
		t.Fatalf("expected explicit zero preserved, got %d", item.Quantity)
	}
}
