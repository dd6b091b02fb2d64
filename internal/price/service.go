package price

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nestegg/nestegg/internal/domain"
)

// Provider fetches one live quote. The concrete market-data client lives
// outside this system; tests and the service only rely on this interface.
type Provider interface {
	Quote(ctx context.Context, symbol string) (domain.PriceQuote, error)
}

// Conversion prices a fund off a proxy ticker, dividing the proxy quote by
// a fixed unit ratio. Institutional 401(k) funds without a public ticker
// (e.g. a Vanguard 500 share class priced off VOO) need this.
type Conversion struct {
	Ticker string
	Ratio  float64
}

// Service keeps the quote cache warm. Each refresh cycle touches at most
// MaxPerCycle symbols, oldest quotes first, so a large fund list rotates
// through the provider instead of bursting it.
type Service struct {
	cache       *Cache
	provider    Provider
	maxPerCycle int
	conversions map[string]Conversion
}

// Options tunes a price Service.
type Options struct {
	MaxPerCycle int
	Conversions map[string]Conversion // fund identifier -> proxy pricing
}

// NewService creates a price Service around an injected cache and provider.
func NewService(cache *Cache, provider Provider, opts Options) *Service {
	if opts.MaxPerCycle <= 0 {
		opts.MaxPerCycle = 5
	}
	return &Service{
		cache:       cache,
		provider:    provider,
		maxPerCycle: opts.MaxPerCycle,
		conversions: opts.Conversions,
	}
}

// Refresh fetches quotes for the stalest funds, honoring the per-cycle
// rotation limit. Provider failures are logged and skipped; a partial
// refresh is still a refresh.
func (s *Service) Refresh(ctx context.Context, funds []string) error {
	if s.provider == nil || len(funds) == 0 {
		return nil
	}

	for _, fund := range s.cache.oldest(funds, s.maxPerCycle) {
		symbol := strings.ToUpper(fund)
		ratio := 0.0
		if conv, ok := s.conversions[fund]; ok {
			symbol = conv.Ticker
			ratio = conv.Ratio
		}

		quote, err := s.provider.Quote(ctx, symbol)
		if err != nil {
			slog.Warn("quote fetch failed", "fund", fund, "symbol", symbol, "error", err)
			continue
		}
		if ratio > 0 {
			quote.Price = quote.Price / ratio
		}
		if quote.UpdatedAt == "" {
			quote.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		}
		s.cache.Set(fund, quote)
	}
	return nil
}

// Snapshot returns the current unexpired quotes.
func (s *Service) Snapshot() domain.PriceMap {
	return s.cache.Snapshot()
}

// Set stores an externally supplied quote, e.g. one pushed over the API.
func (s *Service) Set(fund string, quote domain.PriceQuote) {
	if quote.UpdatedAt == "" {
		quote.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	s.cache.Set(fund, quote)
}
