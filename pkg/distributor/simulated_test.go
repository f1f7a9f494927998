package distributor

import (
	"context"
	"testing"
)

func TestSimulated_Deterministic(t *testing.T) {
	ctx := context.Background()
	client := NewSimulated("digikey", "US")

	a, err := client.Lookup(ctx, "BAV99")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	b, err := client.Lookup(ctx, "bav99 ")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if a == nil || b == nil {
		t.Fatal("expected results from a full-availability distributor")
	}
	if a.MPN != "BAV99" || b.MPN != "BAV99" {
		t.Errorf("MPN not normalized: %q, %q", a.MPN, b.MPN)
	}
	if a.SKU != b.SKU || a.StockLevel != b.StockLevel {
		t.Error("same MPN should produce identical quotes")
	}
	if len(a.PriceBreaks) != len(b.PriceBreaks) {
		t.Fatal("price break count differs between runs")
	}
	for i := range a.PriceBreaks {
		if a.PriceBreaks[i] != b.PriceBreaks[i] {
			t.Errorf("price break %d differs: %v vs %v", i, a.PriceBreaks[i], b.PriceBreaks[i])
		}
	}
}

func TestSimulated_EmptyMPNRejected(t *testing.T) {
	client := NewSimulated("digikey", "US")
	if _, err := client.Lookup(context.Background(), "  "); err == nil {
		t.Error("expected error for empty MPN")
	}
}

func TestSimulated_PriceFactorAppliesPremium(t *testing.T) {
	ctx := context.Background()
	global := NewSimulated("digikey", "US")
	eu := NewSimulated("farnell", "EU")
	eu.PriceFactor = 1.06

	g, err := global.Lookup(ctx, "STM32F103C8T6")
	if err != nil || g == nil {
		t.Fatalf("global lookup: %v, %v", g, err)
	}
	e, err := eu.Lookup(ctx, "STM32F103C8T6")
	if err != nil || e == nil {
		t.Fatalf("eu lookup: %v, %v", e, err)
	}

	ratio := e.UnitPrice() / g.UnitPrice()
	if ratio < 1.059 || ratio > 1.061 {
		t.Errorf("expected a 6%% premium over the global price, got ratio %.4f", ratio)
	}
}

func TestSimulated_PriceBreaksDescendPerUnit(t *testing.T) {
	client := NewSimulated("mouser", "US")
	result, err := client.Lookup(context.Background(), "GRM188R71H104KA93D")
	if err != nil || result == nil {
		t.Fatalf("Lookup: %v, %v", result, err)
	}
	for i := 1; i < len(result.PriceBreaks); i++ {
		prev, cur := result.PriceBreaks[i-1], result.PriceBreaks[i]
		if cur.Quantity <= prev.Quantity {
			t.Errorf("quantities not ascending at tier %d", i)
		}
		if cur.UnitPrice >= prev.UnitPrice {
			t.Errorf("unit price not descending at tier %d", i)
		}
	}
}

func TestSimulated_PartialAvailability(t *testing.T) {
	ctx := context.Background()
	client := NewSimulated("farnell", "EU")
	client.Availability = 0.5

	found := 0
	for i := 0; i < 200; i++ {
		result, err := client.Lookup(ctx, mpnForIndex(i))
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if result != nil {
			found++
		}
	}
	// A stable hash at 0.5 availability should land well inside these
	// bounds for 200 distinct parts.
	if found < 60 || found > 140 {
		t.Errorf("expected roughly half the parts stocked, got %d/200", found)
	}
}

func mpnForIndex(i int) string {
	return "PART-" + string(rune('A'+i/26)) + string(rune('A'+i%26))
}
