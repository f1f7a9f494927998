package distributor

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Simulated is a deterministic offline Client. The same MPN always
// produces the same quote at a given distributor, which keeps estimate
// runs reproducible without network access.
type Simulated struct {
	// DistributorName identifies the simulated distributor.
	DistributorName string

	// Region is the region code reported on results (e.g. "EU", "US").
	Region string

	// PriceFactor scales the simulated base price, so EU distributors
	// can carry a premium over global ones.
	PriceFactor float64

	// Availability is the fraction of parts this distributor stocks,
	// in [0, 1].
	Availability float64
}

// NewSimulated returns a simulated distributor with full availability
// and no price premium.
func NewSimulated(name, region string) *Simulated {
	return &Simulated{
		DistributorName: name,
		Region:          region,
		PriceFactor:     1.0,
		Availability:    1.0,
	}
}

// Name implements Client.
func (s *Simulated) Name() string { return s.DistributorName }

// Lookup implements Client. Parts outside the simulated availability
// fraction return nil, nil like a real not-found response.
func (s *Simulated) Lookup(_ context.Context, mpn string) (*Result, error) {
	mpn = strings.ToUpper(strings.TrimSpace(mpn))
	if mpn == "" {
		return nil, fmt.Errorf("empty MPN")
	}
	if s.hash(mpn, "availability") >= s.Availability {
		return nil, nil
	}

	// Base price in [0.01, 1.00), stable per MPN across distributors
	// so price factors stay comparable.
	base := (0.01 + s.hash(mpn, "price")*0.99) * s.priceFactor()
	stock := int(s.hash(mpn, "stock") * 10000)

	return &Result{
		MPN:         mpn,
		SKU:         fmt.Sprintf("%s-%08X", strings.ToUpper(s.DistributorName[:1]), binary.BigEndian.Uint32(s.digest(mpn, "sku"))),
		Distributor: s.DistributorName,
		Region:      s.Region,
		StockLevel:  stock,
		Currency:    "USD",
		PriceBreaks: []PriceBreak{
			{Quantity: 1, UnitPrice: base},
			{Quantity: 10, UnitPrice: base * 0.95},
			{Quantity: 100, UnitPrice: base * 0.85},
			{Quantity: 1000, UnitPrice: base * 0.75},
		},
		LifecycleStatus: "Active",
		RetrievedAt:     time.Now().UTC(),
	}, nil
}

func (s *Simulated) priceFactor() float64 {
	if s.PriceFactor <= 0 {
		return 1.0
	}
	return s.PriceFactor
}

// hash returns a stable float in [0, 1) for (mpn, purpose). Purpose
// keeps the availability, price, and stock draws independent.
func (s *Simulated) hash(mpn, purpose string) float64 {
	return float64(binary.BigEndian.Uint32(s.digest(mpn, purpose))) / float64(0xFFFFFFFF)
}

func (s *Simulated) digest(mpn, purpose string) []byte {
	scope := mpn + "|" + purpose
	if purpose != "price" {
		// Availability and stock vary per distributor; the base price
		// does not, so premiums stay attributable to PriceFactor.
		scope = s.DistributorName + "|" + scope
	}
	sum := sha256.Sum256([]byte(scope))
	return sum[:4]
}
