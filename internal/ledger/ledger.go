// Package ledger owns the stored transaction log: content-hash dedupe of
// imported rows against what is already stored, and the canonical ordering
// used for persistence and display.
package ledger

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/nestegg/nestegg/internal/domain"
)

// Merge combines already-stored transactions with freshly imported ones.
// Rows sharing a content hash are duplicates: the stored copy wins, and
// duplicates within the import itself collapse too. The result is in
// canonical order.
func Merge(stored, imported []domain.Transaction) []domain.Transaction {
	seen := lo.SliceToMap(stored, func(t domain.Transaction) (string, bool) {
		return t.Hash(), true
	})

	merged := slices.Clone(stored)
	for _, t := range imported {
		h := t.Hash()
		if seen[h] {
			continue
		}
		seen[h] = true
		merged = append(merged, t)
	}

	SortCanonical(merged)
	return merged
}

// SortCanonical orders transactions by date ascending, ties broken by
// content hash so the order is total and reproducible.
func SortCanonical(txs []domain.Transaction) {
	slices.SortFunc(txs, func(a, b domain.Transaction) int {
		if c := strings.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Hash(), b.Hash())
	})
}
