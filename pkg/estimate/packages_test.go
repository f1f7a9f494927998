package estimate

import (
	"testing"

	"calder-eda/fabcost/pkg/bom"
)

func TestClassifyPackage_ByString(t *testing.T) {
	cases := []struct {
		pkg  string
		want PackageType
	}{
		{"0201", PackageSMDSmall},
		{"0402", PackageSMDSmall},
		{"0603", PackageSMDSmall},
		{"0805", PackageSMDMedium},
		{"1206", PackageSMDMedium},
		{"1210", PackageSMDMedium},
		{"1812", PackageSMDLarge},
		{"2512", PackageSMDLarge},
		{"SOIC-8", PackageSOIC},
		{"soic-14", PackageSOIC},
		{"TSSOP-20", PackageSOIC},
		{"SO-8", PackageSOIC},
		{"LQFP-48", PackageQFP},
		{"TQFP-100", PackageQFP},
		{"QFN-32", PackageQFN},
		{"DFN-10", PackageQFN},
		{"BGA-256", PackageBGA},
		{"TFBGA-100", PackageBGA},
		{"LGA-14", PackageBGA},
		{"DIP-8", PackageThroughHole},
		{"TO-220", PackageThroughHole},
		{"THT", PackageThroughHole},
		{"AXIAL", PackageThroughHole},
		{"CONN-10", PackageConnector},
		{"HEADER 2x5", PackageConnector},
	}
	for _, tc := range cases {
		item := &bom.LineItem{RefDes: "Z1", Quantity: 1, Package: tc.pkg}
		if got := ClassifyPackage(item, bom.CategoryUnknown); got != tc.want {
			t.Errorf("ClassifyPackage(%q) = %q, want %q", tc.pkg, got, tc.want)
		}
	}
}

func TestClassifyPackage_FirstMatchWins(t *testing.T) {
	// "0402" appears before the SOIC rules, so a string carrying both
	// lands in the chip bucket.
	item := &bom.LineItem{RefDes: "R1", Quantity: 1, Package: "0402 SOIC"}
	if got := ClassifyPackage(item, bom.CategoryResistor); got != PackageSMDSmall {
		t.Errorf("ClassifyPackage = %q, want smd_small", got)
	}
}

func TestClassifyPackage_SizeCodesMustLeadString(t *testing.T) {
	cases := []struct {
		pkg  string
		want PackageType
	}{
		// Leading size codes classify, with or without a suffix.
		{"0805", PackageSMDMedium},
		{"0805 X7R", PackageSMDMedium},
		{"0402-THIN", PackageSMDSmall},
		// Part-number fragments containing a size code do not.
		{"R0805", PackageUnknown},
		{"C0402", PackageUnknown},
		{"08051", PackageUnknown},
	}
	for _, tc := range cases {
		item := &bom.LineItem{RefDes: "Z1", Quantity: 1, Package: tc.pkg}
		if got := ClassifyPackage(item, bom.CategoryUnknown); got != tc.want {
			t.Errorf("ClassifyPackage(%q) = %q, want %q", tc.pkg, got, tc.want)
		}
	}
}

func TestClassifyPackage_CategoryDefaults(t *testing.T) {
	cases := []struct {
		category bom.Category
		want     PackageType
	}{
		{bom.CategoryResistor, PackageSMDMedium},
		{bom.CategoryCapacitor, PackageSMDMedium},
		{bom.CategoryInductor, PackageSMDMedium},
		{bom.CategoryDiode, PackageSMDMedium},
		{bom.CategoryLED, PackageSMDMedium},
		{bom.CategoryCrystal, PackageSMDMedium},
		{bom.CategoryFuse, PackageSMDMedium},
		{bom.CategoryIC, PackageSOIC},
		{bom.CategorySwitch, PackageThroughHole},
		{bom.CategoryRelay, PackageThroughHole},
		{bom.CategoryTransformer, PackageThroughHole},
		{bom.CategoryConnector, PackageConnector},
		{bom.CategoryOther, PackageOther},
		{bom.CategoryUnknown, PackageOther},
	}
	for _, tc := range cases {
		item := &bom.LineItem{RefDes: "Z1", Quantity: 1}
		if got := ClassifyPackage(item, tc.category); got != tc.want {
			t.Errorf("ClassifyPackage(category=%q) = %q, want %q", tc.category, got, tc.want)
		}
	}
}

func TestClassifyPackage_UnrecognizedString(t *testing.T) {
	item := &bom.LineItem{RefDes: "Z1", Quantity: 1, Package: "WEIRD-99"}
	if got := ClassifyPackage(item, bom.CategoryResistor); got != PackageUnknown {
		t.Errorf("ClassifyPackage = %q, want unknown", got)
	}

	// Connectors keep their bucket even with an unrecognized footprint.
	item = &bom.LineItem{RefDes: "J1", Quantity: 1, Package: "WEIRD-99"}
	if got := ClassifyPackage(item, bom.CategoryConnector); got != PackageConnector {
		t.Errorf("ClassifyPackage = %q, want connector", got)
	}
}
