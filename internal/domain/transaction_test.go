package domain

import (
	"math"
	"testing"
)

func TestHashJoinsAllFields(t *testing.T) {
	tx := Transaction{
		Date:        "2024-01-01",
		Activity:    "Employee Contribution",
		Fund:        "VTI",
		MoneySource: "PreTax",
		Units:       10.5,
		UnitPrice:   100,
		Amount:      1050,
	}

	want := "2024-01-01|Employee Contribution|VTI|PreTax|10.5|100|1050"
	if got := tx.Hash(); got != want {
		t.Errorf("Hash() = %q, want %q", got, want)
	}
}

func TestHashDistinguishesSources(t *testing.T) {
	a := Transaction{Date: "2024-01-01", Fund: "VTI", MoneySource: "PreTax", Units: 1}
	b := a
	b.MoneySource = "Roth"

	if a.Hash() == b.Hash() {
		t.Error("transactions in different money sources must not collide")
	}
}

func TestCashAmountImputed(t *testing.T) {
	tx := Transaction{Units: -3, UnitPrice: 50}
	if got := tx.CashAmount(); got != -150 {
		t.Errorf("CashAmount() = %v, want -150", got)
	}

	tx = Transaction{Units: 3, UnitPrice: 50, Amount: 149.5}
	if got := tx.CashAmount(); got != 149.5 {
		t.Errorf("CashAmount() = %v, want explicit 149.5", got)
	}
}

func TestSafeFloatCoercesNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := SafeFloat(v); got != 0 {
			t.Errorf("SafeFloat(%v) = %v, want 0", v, got)
		}
	}
	if got := SafeFloat(1.25); got != 1.25 {
		t.Errorf("SafeFloat(1.25) = %v, want 1.25", got)
	}
}

func TestSafeDivZeroDivisor(t *testing.T) {
	if got := SafeDiv(10, 0); got != 0 {
		t.Errorf("SafeDiv(10, 0) = %v, want 0", got)
	}
}

func TestPriceMapLookupUppercases(t *testing.T) {
	m := PriceMap{"VTI": {Price: 130}}

	if _, ok := m.Lookup("vti"); !ok {
		t.Error("Lookup should fall back to the uppercased key")
	}
	if _, ok := m.Lookup("SCHD"); ok {
		t.Error("Lookup must not invent quotes")
	}
}
