package domain

import (
	"math"
	"testing"
)

func TestApplyAccumulatesCostBasis(t *testing.T) {
	p := Position{Fund: "VTI", MoneySource: "PreTax"}
	p.Apply(Transaction{Date: "2024-01-01", Units: 10, UnitPrice: 100, Amount: 1000})
	p.Apply(Transaction{Date: "2024-06-01", Units: 5, UnitPrice: 120, Amount: 600})

	if p.Shares != 15 {
		t.Errorf("Shares = %v, want 15", p.Shares)
	}
	if p.CostBasis != 1600 {
		t.Errorf("CostBasis = %v, want 1600", p.CostBasis)
	}
	if p.FirstBuyDate != "2024-01-01" {
		t.Errorf("FirstBuyDate = %q, want 2024-01-01", p.FirstBuyDate)
	}
}

func TestApplyImputesAmountFromUnits(t *testing.T) {
	p := Position{}
	p.Apply(Transaction{Date: "2024-01-01", Units: 4, UnitPrice: 25})

	if p.CostBasis != 100 {
		t.Errorf("CostBasis = %v, want 100", p.CostBasis)
	}
}

func TestApplyDisposalRealizesGain(t *testing.T) {
	p := Position{}
	p.Apply(Transaction{Date: "2024-01-01", Units: 10, UnitPrice: 100, Amount: 1000})
	p.Apply(Transaction{Date: "2024-07-01", Units: -10, UnitPrice: 150, Amount: -1500})

	if !IsZeroShares(p.Shares) {
		t.Errorf("Shares = %v, want ~0", p.Shares)
	}
	if math.Abs(p.RealizedGainLoss-500) > 1e-9 {
		t.Errorf("RealizedGainLoss = %v, want 500", p.RealizedGainLoss)
	}
	if p.LastSellDate != "2024-07-01" {
		t.Errorf("LastSellDate = %q, want 2024-07-01", p.LastSellDate)
	}
}

func TestApplyPartialDisposalReducesProRata(t *testing.T) {
	p := Position{}
	p.Apply(Transaction{Date: "2024-01-01", Units: 10, Amount: 1000})
	p.Apply(Transaction{Date: "2024-02-01", Units: -4, Amount: -520})

	if math.Abs(p.Shares-6) > 1e-9 {
		t.Errorf("Shares = %v, want 6", p.Shares)
	}
	if math.Abs(p.CostBasis-600) > 1e-9 {
		t.Errorf("CostBasis = %v, want 600", p.CostBasis)
	}
	// proceeds 520 against 400 of pooled cost
	if math.Abs(p.RealizedGainLoss-120) > 1e-9 {
		t.Errorf("RealizedGainLoss = %v, want 120", p.RealizedGainLoss)
	}
}

func TestApplyDisposalAgainstEmptyPosition(t *testing.T) {
	p := Position{}
	p.Apply(Transaction{Date: "2024-03-01", Units: -5, Amount: -250})

	if p.CostBasis != 0 {
		t.Errorf("CostBasis = %v, want 0 (never negative)", p.CostBasis)
	}
	if p.Shares != 0 {
		t.Errorf("Shares = %v, want 0 (floored)", p.Shares)
	}
	// no cost to match, the whole proceeds are realized
	if p.RealizedGainLoss != 250 {
		t.Errorf("RealizedGainLoss = %v, want 250", p.RealizedGainLoss)
	}
}

func TestSettleOpenPosition(t *testing.T) {
	p := Position{Shares: 15, CostBasis: 1600}
	p.Settle(130)

	if p.IsClosed {
		t.Error("IsClosed = true, want false")
	}
	if p.MarketValue != 1950 {
		t.Errorf("MarketValue = %v, want 1950", p.MarketValue)
	}
	if math.Abs(p.GainLoss-350) > 1e-9 {
		t.Errorf("GainLoss = %v, want 350", p.GainLoss)
	}
	if math.Abs(p.AvgCost-1600.0/15) > 1e-9 {
		t.Errorf("AvgCost = %v, want %v", p.AvgCost, 1600.0/15)
	}
}

func TestSettleClampsDriftToClosed(t *testing.T) {
	p := Position{Shares: 3e-7, CostBasis: 0.01, RealizedGainLoss: 42}
	p.Settle(100)

	if !p.IsClosed {
		t.Error("IsClosed = false, want true within epsilon")
	}
	if p.Shares != 0 || p.CostBasis != 0 || p.MarketValue != 0 {
		t.Errorf("closed position not zeroed: shares=%v costBasis=%v marketValue=%v",
			p.Shares, p.CostBasis, p.MarketValue)
	}
	if p.GainLoss != 42 {
		t.Errorf("GainLoss = %v, want realized-only 42", p.GainLoss)
	}
}
