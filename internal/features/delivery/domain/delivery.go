package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// OzonFBSPriority is the sort position of the Ozon FBS delivery in delivery lists.
	OzonFBSPriority = 99
	// CurrencyRUB is the default currency of delivery prices.
	CurrencyRUB = "RUB"
)

var (
	// OzonFBSDeliveryID is the fixed identifier of the Ozon FBS delivery type.
	OzonFBSDeliveryID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ozon-fbs-delivery"))
	// OzonFBSProfileTypeID is the fixed identifier of the Ozon FBS profile type.
	OzonFBSProfileTypeID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ozon-fbs-profile"))
)

// Translation is the localized name and description of a delivery type.
type Translation struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DeliveryType is a delivery method offered at checkout.
type DeliveryType struct {
	ID            uuid.UUID       `json:"id"`
	ProfileTypeID uuid.UUID       `json:"profile_type_id"`
	Sort          int             `json:"sort"`
	Price         decimal.Decimal `json:"price"`
	Excess        decimal.Decimal `json:"excess"`
	Currency      string          `json:"currency"`
	Translations  []Translation   `json:"translations"`
}

// ozonFBSTranslations is keyed by locale.
var ozonFBSTranslations = []Translation{
	{Locale: "ru", Name: "Ozon FBS", Description: "Курьерская доставка Ozon со склада продавца"},
	{Locale: "en", Name: "Ozon FBS", Description: "Ozon courier delivery from the seller's warehouse"},
}

// OzonFBS returns the Ozon FBS delivery type. Delivery is free.
func OzonFBS() DeliveryType {
	trans := make([]Translation, len(ozonFBSTranslations))
	copy(trans, ozonFBSTranslations)

	return DeliveryType{
		ID:            OzonFBSDeliveryID,
		ProfileTypeID: OzonFBSProfileTypeID,
		Sort:          OzonFBSPriority,
		Price:         decimal.Zero,
		Excess:        decimal.Zero,
		Currency:      CurrencyRUB,
		Translations:  trans,
	}
}

// Validate checks that the delivery type can be stored.
func (d DeliveryType) Validate() error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("delivery id is required")
	}
	if d.Currency == "" {
		return fmt.Errorf("delivery %s: currency is required", d.ID)
	}
	if d.Price.IsNegative() || d.Excess.IsNegative() {
		return fmt.Errorf("delivery %s: price and excess must not be negative", d.ID)
	}
	seen := make(map[string]bool, len(d.Translations))
	for _, t := range d.Translations {
		if t.Locale == "" || t.Name == "" {
			return fmt.Errorf("delivery %s: translation needs locale and name", d.ID)
		}
		if seen[t.Locale] {
			return fmt.Errorf("delivery %s: duplicate locale %q", d.ID, t.Locale)
		}
		seen[t.Locale] = true
	}
	return nil
}
