package advisory

import (
	"context"
	"errors"
	"testing"

	"calder-eda/fabcost/pkg/bom"
	"calder-eda/fabcost/pkg/cache"
)

// fakeAdvisor counts calls and serves canned answers.
type fakeAdvisor struct {
	classification *Classification
	price          *PriceAssessment
	obsolescence   *ObsolescenceAssessment
	err            error

	classifyCalls int
	priceCalls    int
	obsoCalls     int
}

func (f *fakeAdvisor) ClassifyComponent(ctx context.Context, item *bom.LineItem) (*Classification, error) {
	f.classifyCalls++
	return f.classification, f.err
}

func (f *fakeAdvisor) CheckPrice(ctx context.Context, req *PriceCheckRequest) (*PriceAssessment, error) {
	f.priceCalls++
	return f.price, f.err
}

func (f *fakeAdvisor) CheckObsolescence(ctx context.Context, item *bom.LineItem) (*ObsolescenceAssessment, error) {
	f.obsoCalls++
	return f.obsolescence, f.err
}

func testItem() *bom.LineItem {
	return &bom.LineItem{
		RefDes:      "U1",
		Quantity:    1,
		MPN:         "LM358DR",
		Description: "Dual op-amp",
		Category:    bom.CategoryIC,
	}
}

func TestCachedAdvisor_ClassificationCached(t *testing.T) {
	ctx := context.Background()
	inner := &fakeAdvisor{
		classification: &Classification{Category: bom.CategoryIC, Confidence: 0.9, Reasoning: "op-amp part family"},
	}
	advisor := NewCachedAdvisor(inner, cache.NewMemoryStore(nil, nil))

	first, err := advisor.ClassifyComponent(ctx, testItem())
	if err != nil || first == nil {
		t.Fatalf("ClassifyComponent() = (%+v, %v)", first, err)
	}

	second, err := advisor.ClassifyComponent(ctx, testItem())
	if err != nil || second == nil {
		t.Fatalf("cached ClassifyComponent() = (%+v, %v)", second, err)
	}
	if inner.classifyCalls != 1 {
		t.Errorf("inner advisor called %d times, want 1", inner.classifyCalls)
	}
	if second.Category != bom.CategoryIC || second.Confidence != 0.9 {
		t.Errorf("cached classification = %+v", second)
	}
}

func TestCachedAdvisor_ClassificationContextSeparatesEntries(t *testing.T) {
	ctx := context.Background()
	inner := &fakeAdvisor{classification: &Classification{Category: bom.CategoryIC, Confidence: 0.8}}
	advisor := NewCachedAdvisor(inner, cache.NewMemoryStore(nil, nil))

	advisor.ClassifyComponent(ctx, testItem())

	other := testItem()
	other.Description = "Quad op-amp"
	advisor.ClassifyComponent(ctx, other)

	if inner.classifyCalls != 2 {
		t.Errorf("different descriptions must miss the cache, got %d calls", inner.classifyCalls)
	}
}

func TestCachedAdvisor_NoAdviceNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &fakeAdvisor{}
	advisor := NewCachedAdvisor(inner, cache.NewMemoryStore(nil, nil))

	result, err := advisor.ClassifyComponent(ctx, testItem())
	if err != nil || result != nil {
		t.Fatalf("ClassifyComponent() = (%+v, %v), want (nil, nil)", result, err)
	}

	advisor.ClassifyComponent(ctx, testItem())
	if inner.classifyCalls != 2 {
		t.Errorf("nil answers must not be cached, got %d calls", inner.classifyCalls)
	}
}

func TestCachedAdvisor_ErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	inner := &fakeAdvisor{err: errors.New("advisor offline")}
	advisor := NewCachedAdvisor(inner, cache.NewMemoryStore(nil, nil))

	if _, err := advisor.ClassifyComponent(ctx, testItem()); err == nil {
		t.Error("transient errors should pass through for the caller to degrade on")
	}
}

func TestCachedAdvisor_PriceCheckCached(t *testing.T) {
	ctx := context.Background()
	inner := &fakeAdvisor{
		price: &PriceAssessment{IsReasonable: false, Confidence: 0.7, ExpectedLow: 0.20, ExpectedHigh: 0.60, Reasoning: "estimate is low for this family"},
	}
	advisor := NewCachedAdvisor(inner, cache.NewMemoryStore(nil, nil))

	req := &PriceCheckRequest{
		Item:            testItem(),
		Category:        bom.CategoryIC,
		PackageType:     "soic",
		UnitCostLow:     0.05,
		UnitCostTypical: 0.10,
		UnitCostHigh:    0.30,
		Quantity:        100,
	}
	advisor.CheckPrice(ctx, req)
	got, err := advisor.CheckPrice(ctx, req)
	if err != nil || got == nil {
		t.Fatalf("cached CheckPrice() = (%+v, %v)", got, err)
	}
	if inner.priceCalls != 1 {
		t.Errorf("inner advisor called %d times, want 1", inner.priceCalls)
	}
	if got.IsReasonable || got.ExpectedHigh != 0.60 {
		t.Errorf("cached price assessment = %+v", got)
	}

	// A different typical price is a different question.
	changed := *req
	changed.UnitCostTypical = 0.50
	advisor.CheckPrice(ctx, &changed)
	if inner.priceCalls != 2 {
		t.Errorf("changed price must miss the cache, got %d calls", inner.priceCalls)
	}
}

func TestCachedAdvisor_ObsolescenceCached(t *testing.T) {
	ctx := context.Background()
	inner := &fakeAdvisor{
		obsolescence: &ObsolescenceAssessment{
			MPN:             "LM358DR",
			RiskLevel:       "high",
			LifecycleStatus: "nrnd",
			Confidence:      0.85,
			Alternatives:    []string{"LM358BIDR"},
		},
	}
	advisor := NewCachedAdvisor(inner, cache.NewMemoryStore(nil, nil))

	advisor.CheckObsolescence(ctx, testItem())
	got, err := advisor.CheckObsolescence(ctx, testItem())
	if err != nil || got == nil {
		t.Fatalf("cached CheckObsolescence() = (%+v, %v)", got, err)
	}
	if inner.obsoCalls != 1 {
		t.Errorf("inner advisor called %d times, want 1", inner.obsoCalls)
	}
	if !got.HighRisk() || len(got.Alternatives) != 1 {
		t.Errorf("cached assessment = %+v", got)
	}
}

func TestObsolescenceAssessment_HighRisk(t *testing.T) {
	cases := []struct {
		level string
		want  bool
	}{
		{"none", false},
		{"low", false},
		{"medium", false},
		{"high", true},
		{"obsolete", true},
	}
	for _, tc := range cases {
		a := ObsolescenceAssessment{RiskLevel: tc.level}
		if a.HighRisk() != tc.want {
			t.Errorf("HighRisk(%q) = %v, want %v", tc.level, a.HighRisk(), tc.want)
		}
	}
}

func TestCheckObsolescenceBatch(t *testing.T) {
	ctx := context.Background()
	inner := &fakeAdvisor{
		obsolescence: &ObsolescenceAssessment{MPN: "LM358DR", RiskLevel: "medium", LifecycleStatus: "active"},
	}

	items := []*bom.LineItem{testItem(), testItem(), testItem()}
	results := CheckObsolescenceBatch(ctx, inner, items)
	if len(results) != 3 {
		t.Errorf("batch returned %d results, want 3", len(results))
	}

	// Failures drop items instead of aborting the batch.
	failing := &fakeAdvisor{err: errors.New("offline")}
	if results := CheckObsolescenceBatch(ctx, failing, items); len(results) != 0 {
		t.Errorf("failing batch returned %d results, want 0", len(results))
	}
}
