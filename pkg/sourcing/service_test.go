package sourcing

import (
	"fmt"
	"strings"
	"testing"

	"calder-eda/fabcost/pkg/bom"
)

// findMPN searches for a part number whose stable hash satisfies pred,
// so tests can pin EU availability without patching internals.
func findMPN(t *testing.T, pred func(float64) bool) string {
	t.Helper()
	for i := 0; i < 10000; i++ {
		mpn := fmt.Sprintf("TEST-PART-%04d", i)
		if pred(StableHash(mpn)) {
			return mpn
		}
	}
	t.Fatal("no part number found for predicate")
	return ""
}

func euAvailableItem(t *testing.T, category bom.Category) *bom.LineItem {
	t.Helper()
	probability := euAvailability[category]
	mpn := findMPN(t, func(h float64) bool { return h < probability })
	return &bom.LineItem{RefDes: "R1", Quantity: 1, MPN: mpn, Category: category}
}

func euUnavailableItem(t *testing.T, category bom.Category) *bom.LineItem {
	t.Helper()
	probability := euAvailability[category]
	mpn := findMPN(t, func(h float64) bool { return h >= probability })
	return &bom.LineItem{RefDes: "U1", Quantity: 1, MPN: mpn, Category: category}
}

func TestStableHash(t *testing.T) {
	if StableHash("RC0603FR-0710KL") != StableHash("RC0603FR-0710KL") {
		t.Error("StableHash must be deterministic")
	}
	for _, mpn := range []string{"RC0603FR", "GRM188R71", "LM358DR", "STM32F4", "1N4148"} {
		h := StableHash(mpn)
		if h < 0.0 || h >= 1.0 {
			t.Errorf("StableHash(%q) = %v, want [0, 1)", mpn, h)
		}
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"global", ModeGlobal},
		{"", ModeGlobal},
		{"eu_preferred", ModeEUPreferred},
		{"eu-preferred", ModeEUPreferred},
		{"eu_only", ModeEUOnly},
		{"eu-only", ModeEUOnly},
		{"bogus", ModeGlobal},
	}
	for _, tc := range cases {
		if got := ParseMode(tc.in); got != tc.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGlobalMode_NeverFlagged(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euAvailableItem(t, bom.CategoryResistor)

	score := svc.GetComponentInfo(item, 0.10, ModeGlobal, bom.CategoryResistor)
	if score.Mode != ModeGlobal {
		t.Errorf("Mode = %q", score.Mode)
	}
	if score.Risk != RiskLow || score.Flagged {
		t.Errorf("global mode must be low risk and unflagged, got risk=%q flagged=%v", score.Risk, score.Flagged)
	}
	if score.EffectiveUnitPrice() != 0.10 {
		t.Errorf("EffectiveUnitPrice() = %v, want cheapest global 0.10", score.EffectiveUnitPrice())
	}
}

func TestGlobalMode_StillReportsEUDelta(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euAvailableItem(t, bom.CategoryResistor)

	score := svc.GetComponentInfo(item, 0.10, ModeGlobal, bom.CategoryResistor)
	if !score.EUAvailable {
		t.Fatal("item chosen to be EU-available")
	}
	if score.EUPriceDeltaPct == nil {
		t.Fatal("EU delta should be reported even in global mode")
	}
	// Resistors carry a 6% EU premium.
	if *score.EUPriceDeltaPct < 5.9 || *score.EUPriceDeltaPct > 6.1 {
		t.Errorf("EUPriceDeltaPct = %v, want ~6.0", *score.EUPriceDeltaPct)
	}
}

func TestEUPreferred_UsesEUPriceWithinThreshold(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euAvailableItem(t, bom.CategoryResistor)

	score := svc.GetComponentInfo(item, 0.10, ModeEUPreferred, bom.CategoryResistor)
	if score.Flagged {
		t.Fatalf("6%% premium is within 30%% threshold, got flagged: %s", score.FlagReason)
	}
	if score.Risk != RiskLow {
		t.Errorf("Risk = %q, want LOW", score.Risk)
	}
	want := 0.10 * 1.06
	if diff := score.EffectiveUnitPrice() - want; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("EffectiveUnitPrice() = %v, want EU price %v", score.EffectiveUnitPrice(), want)
	}
}

func TestEUPreferred_FallsBackWhenPremiumExceedsThreshold(t *testing.T) {
	svc := NewSimulatedService(0.001)
	item := euAvailableItem(t, bom.CategoryResistor)

	score := svc.GetComponentInfo(item, 0.10, ModeEUPreferred, bom.CategoryResistor)
	if !score.Flagged {
		t.Fatal("tight threshold should flag the EU premium")
	}
	if score.Risk != RiskMedium {
		t.Errorf("Risk = %q, want MEDIUM", score.Risk)
	}
	if !strings.Contains(score.FlagReason, "exceeds threshold") {
		t.Errorf("FlagReason = %q", score.FlagReason)
	}
	if score.EffectiveUnitPrice() != score.GlobalUnitPrice {
		t.Errorf("flagged eu_preferred must fall back to global price")
	}
}

func TestEUPreferred_FlagsWhenEUUnavailable(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euUnavailableItem(t, bom.CategoryIC)

	score := svc.GetComponentInfo(item, 1.00, ModeEUPreferred, bom.CategoryIC)
	if score.EUAvailable {
		t.Fatal("item chosen to be EU-unavailable")
	}
	if !score.Flagged || score.Risk != RiskMedium {
		t.Errorf("want MEDIUM flagged, got risk=%q flagged=%v", score.Risk, score.Flagged)
	}
	if !strings.Contains(score.FlagReason, "EU sourcing unavailable") {
		t.Errorf("FlagReason = %q", score.FlagReason)
	}
	if score.EffectiveUnitPrice() != score.GlobalUnitPrice {
		t.Error("unavailable EU must fall back to global price")
	}
}

func TestEUOnly_FlagsUnavailableAsHighRisk(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euUnavailableItem(t, bom.CategoryIC)

	score := svc.GetComponentInfo(item, 1.00, ModeEUOnly, bom.CategoryIC)
	if !score.Flagged || score.Risk != RiskHigh {
		t.Errorf("want HIGH flagged, got risk=%q flagged=%v", score.Risk, score.Flagged)
	}
	if !strings.Contains(score.FlagReason, "No EU/UK source available") {
		t.Errorf("FlagReason = %q", score.FlagReason)
	}
}

func TestEUOnly_AcceptsEUSourcedParts(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euAvailableItem(t, bom.CategoryResistor)

	score := svc.GetComponentInfo(item, 0.10, ModeEUOnly, bom.CategoryResistor)
	if score.Flagged || score.Risk != RiskLow {
		t.Errorf("want LOW unflagged, got risk=%q flagged=%v", score.Risk, score.Flagged)
	}
	want := 0.10 * 1.06
	if diff := score.EffectiveUnitPrice() - want; diff < -1e-9 || diff > 1e-9 {
		t.Errorf("EffectiveUnitPrice() = %v, want EU price %v", score.EffectiveUnitPrice(), want)
	}
}

func TestScore_DistributorNames(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euAvailableItem(t, bom.CategoryResistor)

	score := svc.GetComponentInfo(item, 0.10, ModeEUPreferred, bom.CategoryResistor)
	if score.EUDistributor != "Farnell" {
		t.Errorf("EUDistributor = %q, want Farnell (cheapest EU quote)", score.EUDistributor)
	}
	if score.GlobalDistributor != "Digi-Key" {
		t.Errorf("GlobalDistributor = %q, want Digi-Key (cheapest global quote)", score.GlobalDistributor)
	}
}

func TestScore_DeltaFormula(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euAvailableItem(t, bom.CategoryCrystal)

	score := svc.GetComponentInfo(item, 2.50, ModeGlobal, bom.CategoryCrystal)
	if score.EUPriceDeltaPct == nil {
		t.Fatal("delta missing for EU-available part")
	}
	expected := (score.EUUnitPrice - score.GlobalUnitPrice) / score.GlobalUnitPrice * 100
	if diff := *score.EUPriceDeltaPct - expected; diff < -0.001 || diff > 0.001 {
		t.Errorf("EUPriceDeltaPct = %v, want %v", *score.EUPriceDeltaPct, expected)
	}
}

func TestQuote_DisplayName(t *testing.T) {
	if got := (Quote{Distributor: "farnell"}).DisplayName(); got != "Farnell" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := (Quote{Distributor: "unknown_dist"}).DisplayName(); got != "unknown_dist" {
		t.Errorf("DisplayName() should fall back to the key, got %q", got)
	}
}

func TestDistributorSets_Disjoint(t *testing.T) {
	for name := range GlobalDistributors {
		if EUDistributors[name] {
			t.Errorf("%q listed as both EU and global", name)
		}
	}
	if !EUDistributors["farnell"] || !EUDistributors["rs_components"] {
		t.Error("expected EU distributors missing")
	}
	if EUDistributors["digikey"] {
		t.Error("digikey must not be an EU distributor")
	}
}

func TestService_CategoryFallsBackToItem(t *testing.T) {
	svc := NewSimulatedService(0.30)
	item := euAvailableItem(t, bom.CategoryResistor)

	explicit := svc.GetComponentInfo(item, 0.10, ModeGlobal, bom.CategoryResistor)
	implied := svc.GetComponentInfo(item, 0.10, ModeGlobal, "")
	if explicit.EUUnitPrice != implied.EUUnitPrice {
		t.Error("empty category should fall back to the item's own category")
	}
}
