package domain

import (
	"encoding/json"
	"strings"
)

// Rarity is the tier of a tradeable pet.
type Rarity string

const (
	RarityNormal  Rarity = "Normal"
	RarityGolden  Rarity = "Golden"
	RarityRainbow Rarity = "Rainbow"
)

// TradeType distinguishes the two directions a trade can move items.
type TradeType string

const (
	TradeTypeDeposit  TradeType = "deposit"
	TradeTypeWithdraw TradeType = "withdraw"
)

// TradeItem is a single pet inside a trade request. Quantity defaults to 1
// when the field is omitted; an explicit zero is kept and rejected by
// validation.
type TradeItem struct {
	Name     string `json:"name"`
	Rarity   Rarity `json:"rarity"`
	Shiny    bool   `json:"shiny"`
	Quantity int64  `json:"quantity"`
}

func (i *TradeItem) UnmarshalJSON(data []byte) error {
	type alias TradeItem
	aux := struct {
		Quantity *int64 `json:"quantity"`
		*alias
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Quantity == nil {
		i.Quantity = 1
	} else {
		i.Quantity = *aux.Quantity
	}
	return nil
}

// DisplayName renders the canonical item name: shiny prefix, then rarity
// prefix, then base name. Two items with the same display name are fungible.
func (i TradeItem) DisplayName() string {
	var b strings.Builder
	if i.Shiny {
		b.WriteString("Shiny ")
	}
	switch i.Rarity {
	case RarityGolden:
		b.WriteString("Golden ")
	case RarityRainbow:
		b.WriteString("Rainbow ")
	}
	b.WriteString(i.Name)
	return strings.TrimSpace(b.String())
}

// Key is the lower-cased display name, used for catalog membership and
// inventory storage.
func (i TradeItem) Key() string {
	return strings.ToLower(i.DisplayName())
}

// Trade is a complete deposit or withdraw request after parsing.
type Trade struct {
	Type         TradeType
	RobloxUserID int64
	Items        []TradeItem
	Gems         int64
	Code         string
	Timestamp    int64
}
