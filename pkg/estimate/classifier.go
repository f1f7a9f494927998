package estimate

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"calder-eda/fabcost/pkg/advisory"
	"calder-eda/fabcost/pkg/bom"
)

// mpnRule maps a set of part-number prefixes to a category. Rules are
// an ordered list: the first matching rule wins, so table order is
// load-bearing.
type mpnRule struct {
	category bom.Category
	patterns []*regexp.Regexp
}

func compileAll(exprs ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		compiled[i] = regexp.MustCompile("(?i)" + expr)
	}
	return compiled
}

// mpnRules classify by manufacturer part number. Patterns are matched
// against the uppercased MPN, anchored at the start.
var mpnRules = []mpnRule{
	{bom.CategoryResistor, compileAll(
		`^RC\d+`,          // Yageo RC0603, RC0805
		`^ERJ-\d+`,        // Panasonic ERJ series
		`^CRCW\d+`,        // Vishay CRCW series
		`^RK73[HGB]`,      // KOA Speer RK73 series
		`^\d+[KM]?\d*R?$`, // value-coded parts: 10k, 100R, 1M
	)},
	{bom.CategoryCapacitor, compileAll(
		`^C\d{4}`,     // C0603, C0805
		`^GRM\d+`,     // Murata GRM series
		`^CL\d+`,      // Samsung CL series
		`^CC\d+`,      // Yageo CC series
		`^GCM\d+`,     // Murata GCM series
		`^\d+[PNU]?F`, // value-coded: 100nF, 10uF, 22pF
	)},
	{bom.CategoryInductor, compileAll(
		`^LQH\d+`,     // Murata LQH series
		`^MLZ\d+`,     // TDK MLZ series
		`^CDRH\d+`,    // Sumida CDRH series
		`^\d+[UNM]?H`, // value-coded: 10uH, 100nH
	)},
	{bom.CategoryIC, compileAll(
		`^LM\d+`,       // LM regulators, op-amps
		`^TPS\d+`,      // TI power
		`^STM32`,       // STM32 microcontrollers
		`^ATMEGA`,      // Microchip AVR
		`^PIC\d+`,      // Microchip PIC
		`^74[A-Z]+\d+`, // 74HC, 74LS logic
		`^AD\d+`,       // Analog Devices
		`^MAX\d+`,      // Maxim
	)},
	{bom.CategoryDiode, compileAll(
		`^1N\d+`,     // 1N4148, 1N5819
		`^BAT\d+`,    // Schottky
		`^BZX\d+`,    // Zener
		`^SM[AB]\d+`, // surface mount
	)},
	{bom.CategoryTransistor, compileAll(
		`^2N\d+`,  // 2N2222, 2N3904
		`^BC\d+`,  // BC series
		`^BSS\d+`, // small signal MOSFETs
		`^IRF\d+`, // power MOSFETs
		`^SI\d+`,  // Vishay Si series
	)},
	{bom.CategoryLED, compileAll(
		`^LED`,
		`^APT\d+`,
		`^LTST`, // Lite-On
	)},
	{bom.CategoryCrystal, compileAll(
		`^ABM[0-9]`,     // Abracon
		`^ECS-\d+`,      // ECS Inc.
		`^\d+\.?\d*MHZ`, // frequency-coded: 16MHz, 8.000MHz
	)},
	{bom.CategoryConnector, compileAll(
		`^[0-9]{5,}-\d+`, // 67996-410HLF style numbering
		`^USB\d*`,
		`^HDMI`,
		`^M20-\d+`, // Mill-Max
	)},
	{bom.CategorySwitch, compileAll(
		`^SW_`,
		`^EVQ`, // Panasonic
	)},
	{bom.CategoryRelay, compileAll(
		`^G[56]`, // Omron G5/G6
		`^RELAY`,
	)},
	{bom.CategoryFuse, compileAll(
		`^FUSE`,
		`^0ZC[AFGJKM]`, // Littelfuse
	)},
	{bom.CategoryTransformer, compileAll(
		`^750\d+`, // Pulse transformers
		`^XFMR`,
	)},
}

// keywordRule maps description substrings to a category, again in
// first-match-wins order.
type keywordRule struct {
	category bom.Category
	keywords []string
}

var keywordRules = []keywordRule{
	{bom.CategoryResistor, []string{"resistor", "res", "ohm", "Ω"}},
	{bom.CategoryCapacitor, []string{"capacitor", "cap", "farad", "ceramic", "electrolytic", "tantalum"}},
	{bom.CategoryInductor, []string{"inductor", "choke", "coil", "henry"}},
	{bom.CategoryIC, []string{
		"integrated circuit", "ic", "microcontroller", "mcu", "processor", "cpu",
		"regulator", "op-amp", "opamp", "amplifier", "driver", "controller",
		"logic", "memory", "eeprom", "flash", "dac", "adc", "converter",
	}},
	{bom.CategoryConnector, []string{"connector", "header", "socket", "plug", "receptacle", "usb", "hdmi"}},
	{bom.CategoryDiode, []string{"diode", "rectifier", "zener", "schottky", "tvs"}},
	{bom.CategoryTransistor, []string{"transistor", "mosfet", "bjt", "fet", "jfet"}},
	{bom.CategoryLED, []string{"led", "light emitting"}},
	{bom.CategoryCrystal, []string{"crystal", "oscillator", "resonator", "xtal"}},
	{bom.CategorySwitch, []string{"switch", "button", "pushbutton"}},
	{bom.CategoryRelay, []string{"relay"}},
	{bom.CategoryFuse, []string{"fuse"}},
	{bom.CategoryTransformer, []string{"transformer", "xfmr"}},
}

// refDesPrefixes maps reference designator letter prefixes to
// categories.
var refDesPrefixes = map[string]bom.Category{
	"R":    bom.CategoryResistor,
	"C":    bom.CategoryCapacitor,
	"L":    bom.CategoryInductor,
	"U":    bom.CategoryIC,
	"IC":   bom.CategoryIC,
	"D":    bom.CategoryDiode,
	"Q":    bom.CategoryTransistor,
	"LED":  bom.CategoryLED,
	"Y":    bom.CategoryCrystal,
	"X":    bom.CategoryCrystal,
	"XTAL": bom.CategoryCrystal,
	"J":    bom.CategoryConnector,
	"P":    bom.CategoryConnector,
	"CON":  bom.CategoryConnector,
	"SW":   bom.CategorySwitch,
	"S":    bom.CategorySwitch,
	"K":    bom.CategoryRelay,
	"RLY":  bom.CategoryRelay,
	"F":    bom.CategoryFuse,
	"T":    bom.CategoryTransformer,
}

var refDesPrefixPattern = regexp.MustCompile(`^([A-Z]+)`)

// ComponentClassifier resolves each line item to a category.
//
// The item's own category is authoritative when set. Otherwise the
// classifier tries, in order: MPN patterns, description keywords,
// reference designator prefix, and finally the optional advisor.
type ComponentClassifier struct {
	advisor advisory.Advisor
	logger  *slog.Logger
}

// NewComponentClassifier builds a classifier. advisor may be nil.
func NewComponentClassifier(advisor advisory.Advisor) *ComponentClassifier {
	return &ComponentClassifier{
		advisor: advisor,
		logger:  slog.Default().With("component", "classifier"),
	}
}

// Classify returns the category for item, plus the advisory
// classification when one was used.
func (c *ComponentClassifier) Classify(ctx context.Context, item *bom.LineItem) (bom.Category, *advisory.Classification) {
	if item.Category != "" && item.Category != bom.CategoryUnknown {
		return item.Category, nil
	}

	if item.MPN != "" {
		if category := classifyByMPN(item.MPN); category != bom.CategoryUnknown {
			c.logger.Debug("classified by MPN", "ref_des", item.RefDes, "category", category)
			return category, nil
		}
	}

	if item.Description != "" {
		if category := classifyByDescription(item.Description); category != bom.CategoryUnknown {
			c.logger.Debug("classified by description", "ref_des", item.RefDes, "category", category)
			return category, nil
		}
	}

	category := classifyByRefDes(item.RefDes)

	if category == bom.CategoryUnknown && c.advisor != nil {
		classification, err := c.advisor.ClassifyComponent(ctx, item)
		if err != nil {
			c.logger.Warn("advisory classification failed", "ref_des", item.RefDes, "error", err)
		} else if classification != nil && classification.Confidence > 0.5 {
			c.logger.Info("classified by advisor",
				"ref_des", item.RefDes,
				"category", classification.Category,
				"confidence", classification.Confidence,
			)
			return classification.Category, classification
		}
	}

	return category, nil
}

func classifyByMPN(mpn string) bom.Category {
	normalized := strings.ToUpper(strings.TrimSpace(mpn))
	for _, rule := range mpnRules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(normalized) {
				return rule.category
			}
		}
	}
	return bom.CategoryUnknown
}

func classifyByDescription(description string) bom.Category {
	normalized := strings.ToLower(strings.TrimSpace(description))
	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.category
			}
		}
	}
	return bom.CategoryUnknown
}

func classifyByRefDes(refDes string) bom.Category {
	match := refDesPrefixPattern.FindStringSubmatch(strings.ToUpper(refDes))
	if match == nil {
		return bom.CategoryUnknown
	}
	if category, ok := refDesPrefixes[match[1]]; ok {
		return category
	}
	return bom.CategoryUnknown
}
