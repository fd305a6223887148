package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"sync"
	"time"

	"ozon-orders/internal/core/config"
	"ozon-orders/internal/core/httpclient"
	"ozon-orders/internal/core/logger"
	"ozon-orders/internal/core/proxy"
	"ozon-orders/internal/features/orders/domain"
	"ozon-orders/internal/features/orders/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	postingListPath   = "/v3/posting/fbs/list"
	warehouseListPath = "/v1/warehouse/list"
)

// OzonAdapter fetches new FBS postings from the Ozon seller API.
// It keeps the lower bound of the polling window between calls; see domain.WindowMode.
// Calls are expected to come from a single scheduler; the mutex only guards reads of the
// bound from other goroutines.
type OzonAdapter struct {
	// client is the HTTP client used for API requests; it carries the credentials.
	client *http.Client
	// baseURL is the seller API root.
	baseURL string
	// profile is attached to every produced order.
	profile domain.ProfileID

	mode     domain.WindowMode
	store    ports.BoundaryStore
	now      func() time.Time
	location *time.Location
	logger   *zap.Logger

	mu    sync.Mutex
	since time.Time
	set   bool
}

// Option configures an OzonAdapter.
type Option func(*OzonAdapter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *OzonAdapter) {
		a.now = now
	}
}

// WithLocation sets the time zone of the daily catch-up window and of the request timestamps.
func WithLocation(loc *time.Location) Option {
	return func(a *OzonAdapter) {
		a.location = loc
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *OzonAdapter) {
		a.logger = l
	}
}

// WithHTTPClient sets a custom HTTP client. The client must add the credentials itself.
func WithHTTPClient(c *http.Client) Option {
	return func(a *OzonAdapter) {
		a.client = c
	}
}

// WithWindowMode selects how the lower bound evolves. store may be nil, in which case an
// advancing bound lives in memory only.
func WithWindowMode(mode domain.WindowMode, store ports.BoundaryStore) Option {
	return func(a *OzonAdapter) {
		a.mode = mode
		a.store = store
	}
}

// NewOzonAdapter creates a new instance of OzonAdapter.
func NewOzonAdapter(cfg config.OzonConfig, opts ...Option) (*OzonAdapter, error) {
	if _, err := uuid.Parse(cfg.ProfileID); err != nil {
		return nil, fmt.Errorf("invalid profile id %q: %w", cfg.ProfileID, err)
	}

	a := &OzonAdapter{
		client: httpclient.NewClient(cfg.Timeout,
			httpclient.WithHeaders(map[string]string{
				"Client-Id":    cfg.ClientID,
				"Api-Key":      cfg.APIKey,
				"Content-Type": "application/json",
			}),
			httpclient.WithProxy(proxy.FromConfig(cfg.Proxy).URL()),
		),
		baseURL: strings.TrimRight(cfg.URL, "/"),
		profile: domain.ProfileID(cfg.ProfileID),
		mode:    domain.WindowFrozen,
		now:     time.Now,
		logger:  logger.Get(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// postingListRequest is the body of POST /v3/posting/fbs/list.
type postingListRequest struct {
	Dir    string            `json:"dir"`
	Limit  int               `json:"limit"`
	Filter postingListFilter `json:"filter"`
}

type postingListFilter struct {
	Since  string `json:"since"`
	To     string `json:"to"`
	Status string `json:"status"`
}

// postingListResponse is the success body of the posting list endpoint.
type postingListResponse struct {
	Result struct {
		Postings []json.RawMessage `json:"postings"`
		HasNext  bool              `json:"has_next"`
	} `json:"result"`
}

// apiErrorResponse covers both the list form {"errors":[...]} and the single form
// {"code":..,"message":..} of Ozon error bodies.
type apiErrorResponse struct {
	Errors  []apiError `json:"errors"`
	Code    flexString `json:"code"`
	Message string     `json:"message"`
}

type apiError struct {
	Code    flexString `json:"code"`
	Message string     `json:"message"`
}

// flexString accepts both JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	*f = flexString(b)
	return nil
}

// FetchNewOrders requests postings awaiting packaging in [since, now] and yields them lazily.
// The whole page is read before the first order is yielded. On a non-success status every
// API error is logged at critical severity and domain.ErrUpstreamRejected is returned.
func (a *OzonAdapter) FetchNewOrders(ctx context.Context, lookback time.Duration) (iter.Seq[domain.NewOrder], error) {
	now := a.now()
	if a.location != nil {
		now = now.In(a.location)
	}

	since, err := a.lowerBound(ctx, now, lookback)
	if err != nil {
		return nil, err
	}
	window := domain.Window{Since: since, To: now}

	body, err := json.Marshal(postingListRequest{
		Dir:   "DESC",
		Limit: domain.PageLimit,
		Filter: postingListFilter{
			Since:  window.FormatSince(),
			To:     window.FormatTo(),
			Status: domain.StatusAwaitingPackaging,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+postingListPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		a.logRejection(resp.StatusCode, payload)
		return nil, domain.ErrUpstreamRejected
	}

	var list postingListResponse
	if err := json.Unmarshal(payload, &list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if list.Result.HasNext {
		a.logger.Warn("Posting list truncated at page limit",
			zap.String("profile", string(a.profile)),
			zap.Int("limit", domain.PageLimit),
			zap.Bool("boundary_kept", a.mode == domain.WindowAdvance),
			zap.String("since", window.FormatSince()),
			zap.String("to", window.FormatTo()),
		)
	}

	a.logger.Debug("Fetched new postings",
		zap.String("profile", string(a.profile)),
		zap.Int("count", len(list.Result.Postings)),
		zap.String("since", window.FormatSince()),
		zap.String("to", window.FormatTo()),
	)

	advance := a.mode == domain.WindowAdvance && !list.Result.HasNext

	return a.orders(ctx, list.Result.Postings, now, advance), nil
}

// orders yields one NewOrder per raw posting, parsing each only when it is requested.
// When advance is set the bound moves to `to` once the consumer has seen every posting;
// stopping early leaves it in place so the next call fetches the same window again.
// A truncated page never advances: its older remainder is still outside what was seen.
func (a *OzonAdapter) orders(ctx context.Context, postings []json.RawMessage, to time.Time, advance bool) iter.Seq[domain.NewOrder] {
	return func(yield func(domain.NewOrder) bool) {
		for _, raw := range postings {
			posting, err := domain.ParsePosting(raw)
			if err != nil {
				a.logger.Warn("Posting summary not decoded, passing raw payload",
					zap.String("profile", string(a.profile)),
					zap.Error(err),
				)
			}

			if !yield(domain.NewOrder{Posting: posting, Profile: a.profile}) {
				return
			}
		}

		if advance {
			a.advance(ctx, to)
		}
	}
}

// lowerBound returns the since value for a call made at now.
// In advance mode the catch-up window only ever widens the query: an older known bound wins.
func (a *OzonAdapter) lowerBound(ctx context.Context, now time.Time, lookback time.Duration) (time.Time, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mode == domain.WindowAdvance {
		if !a.set && a.store != nil {
			stored, ok, err := a.store.Load(ctx, a.profile)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to load polling boundary: %w", err)
			}
			if ok {
				a.since, a.set = stored.In(now.Location()), true
			}
		}

		if domain.InCatchUpWindow(now) {
			catchUp := domain.CatchUpSince(now)
			if !a.set {
				a.since, a.set = catchUp, true
			}
			if a.since.Before(catchUp) {
				return a.since, nil
			}
			return catchUp, nil
		}
	}

	if !a.set {
		a.since, a.set = domain.InitialSince(now, lookback), true
	}

	return a.since, nil
}

// advance moves the bound to the upper end of the window that was just fetched.
// The bound never moves backwards.
func (a *OzonAdapter) advance(ctx context.Context, to time.Time) {
	a.mu.Lock()
	if a.set && !to.After(a.since) {
		a.mu.Unlock()
		return
	}
	a.since, a.set = to, true
	a.mu.Unlock()

	if a.store == nil {
		return
	}

	if err := a.store.Save(ctx, a.profile, to); err != nil {
		a.logger.Error("Failed to persist polling boundary",
			zap.String("profile", string(a.profile)),
			zap.Time("since", to),
			zap.Error(err),
		)
	}
}

// logRejection logs every API error of a non-success response at critical severity.
func (a *OzonAdapter) logRejection(status int, payload []byte) {
	fields := []zap.Field{
		zap.String("profile", string(a.profile)),
		zap.String("endpoint", postingListPath),
		zap.Int("status_code", status),
	}

	var body apiErrorResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		logger.Critical(a.logger, fmt.Sprintf("HTTP %d: unreadable error body", status),
			append(fields, zap.ByteString("body", truncate(payload, 512)))...)
		return
	}

	if len(body.Errors) == 0 && (body.Code != "" || body.Message != "") {
		body.Errors = []apiError{{Code: body.Code, Message: body.Message}}
	}

	for _, e := range body.Errors {
		logger.Critical(a.logger, fmt.Sprintf("%s: %s", e.Code, e.Message), fields...)
	}
}

// Since returns the stored lower bound, if one has been computed.
func (a *OzonAdapter) Since() (time.Time, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.since, a.set
}

// Mode returns the configured window mode.
func (a *OzonAdapter) Mode() domain.WindowMode {
	return a.mode
}

// Reset forgets the in-memory lower bound; the next call computes it again.
// It is in-memory only: the boundary store is left untouched, so in advance mode the next
// call reloads the persisted bound.
func (a *OzonAdapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.since, a.set = time.Time{}, false
}

// HealthCheck verifies that the seller API is reachable and the credentials are accepted.
func (a *OzonAdapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+warehouseListPath, strings.NewReader("{}"))
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
