package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StatusAwaitingPackaging is the only posting status the new orders poller asks for.
const StatusAwaitingPackaging = "awaiting_packaging"

var (
	// ErrUpstreamRejected is returned when the Ozon API answered with a non-success status.
	// The individual API errors have already been logged.
	ErrUpstreamRejected = errors.New("ozon API rejected the request")
	// ErrInvalidPosting is returned when a posting lacks the fields needed to store it.
	ErrInvalidPosting = errors.New("invalid posting")
	// ErrSyncInProgress is returned when a sync is requested while another one is running.
	ErrSyncInProgress = errors.New("sync already in progress")
)

// ProfileID identifies the seller profile (tenant) whose credentials fetched an order.
type ProfileID string

// Product is a single line of a posting.
type Product struct {
	// SKU is the Ozon product identifier.
	SKU int64 `json:"sku"`
	// OfferID is the seller's own article.
	OfferID string `json:"offer_id"`
	// Name is the product title.
	Name string `json:"name"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
	// Price is the unit price; Ozon sends it as a decimal string.
	Price decimal.Decimal `json:"price"`
}

// Posting is an FBS shipment as returned by the posting list endpoint.
// Raw keeps the payload untouched; the other fields are a best-effort summary of it.
type Posting struct {
	Raw json.RawMessage `json:"-"`

	PostingNumber string    `json:"posting_number"`
	OrderID       int64     `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	InProcessAt   time.Time `json:"in_process_at"`
	Products      []Product `json:"products"`
}

// ParsePosting decodes the summary fields of raw. The returned Posting always carries Raw,
// even when decoding fails.
func ParsePosting(raw json.RawMessage) (Posting, error) {
	var p Posting
	err := json.Unmarshal(raw, &p)
	p.Raw = raw
	if err != nil {
		return p, fmt.Errorf("failed to parse posting: %w", err)
	}
	return p, nil
}

// Validate checks that the posting can be stored.
func (p Posting) Validate() error {
	if p.PostingNumber == "" {
		return fmt.Errorf("%w: missing posting_number", ErrInvalidPosting)
	}
	return nil
}

// NewOrder is a newly placed posting paired with the profile it was fetched for.
type NewOrder struct {
	Posting Posting   `json:"posting"`
	Profile ProfileID `json:"profile_id"`
}

// SyncResult summarizes one poll of new orders.
type SyncResult struct {
	// Fetched is the number of postings returned by Ozon.
	Fetched int `json:"fetched"`
	// Created is the number of postings stored for the first time.
	Created int `json:"created"`
	// Duplicates were already stored by an earlier poll.
	Duplicates int `json:"duplicates"`
	// Skipped postings failed validation.
	Skipped int `json:"skipped"`
	// Published is the number of stored orders announced during this sync, including
	// ones left over from earlier syncs.
	Published int `json:"published"`
	// Duration is the wall time of the sync.
	Duration time.Duration `json:"duration"`
}
