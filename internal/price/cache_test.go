package price

import (
	"testing"
	"time"

	"github.com/nestegg/nestegg/internal/domain"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("VTI", domain.PriceQuote{Price: 130})

	q, ok := c.Get("VTI")
	if !ok || q.Price != 130 {
		t.Errorf("Get = (%+v, %v), want cached quote", q, ok)
	}

	if _, ok := c.Get("SCHD"); ok {
		t.Error("Get returned a quote that was never set")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(-time.Second) // already expired on insert
	c.Set("VTI", domain.PriceQuote{Price: 130})

	if _, ok := c.Get("VTI"); ok {
		t.Error("expired quote should not be returned")
	}
	if m := c.Snapshot(); len(m) != 0 {
		t.Errorf("Snapshot contains %d expired entries", len(m))
	}
}

func TestCacheSnapshot(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("VTI", domain.PriceQuote{Price: 130})
	c.Set("SCHD", domain.PriceQuote{Price: 27})

	m := c.Snapshot()
	if len(m) != 2 {
		t.Fatalf("Snapshot has %d entries, want 2", len(m))
	}
	if m["VTI"].Price != 130 || m["SCHD"].Price != 27 {
		t.Errorf("Snapshot = %+v", m)
	}
}

func TestCacheOldestPrefersMissing(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("VTI", domain.PriceQuote{Price: 130})

	got := c.oldest([]string{"VTI", "SCHD", "QQQM"}, 2)
	if len(got) != 2 {
		t.Fatalf("oldest returned %d funds, want 2", len(got))
	}
	for _, f := range got {
		if f == "VTI" {
			t.Error("fund with a fresh quote selected before unquoted funds")
		}
	}
}
