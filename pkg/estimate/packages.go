package estimate

import (
	"regexp"
	"strings"

	"calder-eda/fabcost/pkg/bom"
)

// packageRule maps package string patterns to an assembly bucket.
// First matching rule wins.
type packageRule struct {
	bucket   PackageType
	patterns []*regexp.Regexp
}

// packageRules classify by the free-form package or footprint string.
// Named packages are matched anywhere in the uppercased string, so
// "LQFP-48" and "48-LQFP" both land in the qfp bucket. Chip size codes
// must lead the string: "R0805" is a part number fragment, not a
// footprint.
var packageRules = []packageRule{
	{PackageSMDSmall, compileSize(`0201`, `0402`, `0603`)},
	{PackageSMDMedium, compileSize(`0805`, `1206`, `1210`)},
	{PackageSMDLarge, compileSize(`1812`, `2010`, `2512`, `2920`)},
	{PackageSOIC, compilePkg(`SOIC`, `SOP`, `SO-\d+`, `TSSOP`, `SSOP`)},
	{PackageQFP, compilePkg(`QFP`, `TQFP`, `LQFP`, `PQFP`)},
	{PackageQFN, compilePkg(`QFN`, `DFN`, `SON`, `WSON`, `VQFN`)},
	{PackageBGA, compilePkg(`BGA`, `FBGA`, `TFBGA`, `LFBGA`, `LGA`)},
	{PackageThroughHole, compilePkg(`THT`, `DIP`, `TO-\d+`, `PDIP`, `AXIAL`, `RADIAL`)},
	{PackageConnector, compilePkg(`CONN`, `HEADER`, `SOCKET`)},
}

func compilePkg(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// compileSize anchors a chip size code at the start of the string and
// requires a boundary after it, so "0805" and "0805 X7R" match but
// "R0805" and "08051" do not.
func compileSize(codes ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(codes))
	for i, c := range codes {
		compiled[i] = regexp.MustCompile(`^` + c + `\b`)
	}
	return compiled
}

// categoryDefaultBuckets is the fallback when a line item carries no
// package string at all.
var categoryDefaultBuckets = map[bom.Category]PackageType{
	bom.CategoryResistor:    PackageSMDMedium,
	bom.CategoryCapacitor:   PackageSMDMedium,
	bom.CategoryInductor:    PackageSMDMedium,
	bom.CategoryDiode:       PackageSMDMedium,
	bom.CategoryLED:         PackageSMDMedium,
	bom.CategoryCrystal:     PackageSMDMedium,
	bom.CategoryFuse:        PackageSMDMedium,
	bom.CategoryIC:          PackageSOIC,
	bom.CategorySwitch:      PackageThroughHole,
	bom.CategoryRelay:       PackageThroughHole,
	bom.CategoryTransformer: PackageThroughHole,
	bom.CategoryConnector:   PackageConnector,
}

// ClassifyPackage resolves a line item's assembly bucket from its
// package string, falling back to a per-category default when the
// string is missing or unrecognized. Connectors always land in the
// connector bucket regardless of how their footprint is written.
func ClassifyPackage(item *bom.LineItem, category bom.Category) PackageType {
	pkg := strings.ToUpper(strings.TrimSpace(item.Package))
	if pkg == "" {
		if category == bom.CategoryConnector {
			return PackageConnector
		}
		if bucket, ok := categoryDefaultBuckets[category]; ok {
			return bucket
		}
		return PackageOther
	}

	for _, rule := range packageRules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(pkg) {
				return rule.bucket
			}
		}
	}

	if category == bom.CategoryConnector {
		return PackageConnector
	}
	return PackageUnknown
}
