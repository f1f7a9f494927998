package partsdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(&Config{Path: filepath.Join(t.TempDir(), "components.db")})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_ComponentRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	component := &Component{
		MPN:                 "GRM188R71C104KA01D",
		Manufacturer:        "Murata",
		Description:         "Capacitor 100nF 16V X7R 0603",
		Category:            "capacitor",
		Package:             "0603",
		ManufacturerCountry: "JP",
		ManufacturerRegion:  "APAC",
	}
	if err := db.UpsertComponent(ctx, component); err != nil {
		t.Fatalf("UpsertComponent() error: %v", err)
	}
	if component.LastUpdated.IsZero() {
		t.Error("UpsertComponent() should stamp LastUpdated")
	}

	got, err := db.GetComponent(ctx, "GRM188R71C104KA01D")
	if err != nil {
		t.Fatalf("GetComponent() error: %v", err)
	}
	if got == nil {
		t.Fatal("GetComponent() returned nil for stored component")
	}
	if got.Manufacturer != "Murata" || got.Category != "capacitor" || got.ManufacturerCountry != "JP" {
		t.Errorf("GetComponent() = %+v", got)
	}
}

func TestDB_GetComponentMissing(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetComponent(context.Background(), "DOES-NOT-EXIST")
	if err != nil {
		t.Fatalf("GetComponent() error: %v", err)
	}
	if got != nil {
		t.Errorf("GetComponent() = %+v, want nil for unknown MPN", got)
	}
}

func TestDB_UpsertComponentUpdates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.UpsertComponent(ctx, &Component{MPN: "LM317T", Category: "ic"}); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertComponent(ctx, &Component{MPN: "LM317T", Category: "ic", Manufacturer: "TI"}); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetComponent(ctx, "LM317T")
	if err != nil {
		t.Fatal(err)
	}
	if got.Manufacturer != "TI" {
		t.Errorf("Manufacturer = %q, want updated value", got.Manufacturer)
	}

	components, err := db.ListComponents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(components) != 1 {
		t.Errorf("ListComponents() returned %d rows, want 1 after upsert", len(components))
	}
}

func TestDB_UpsertComponentEmptyMPN(t *testing.T) {
	db := openTestDB(t)

	if err := db.UpsertComponent(context.Background(), &Component{}); err == nil {
		t.Error("UpsertComponent() with empty MPN should fail")
	}
}

func TestDB_ListComponentsOrdered(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, mpn := range []string{"ZXCT1009", "BAV99", "LM317T"} {
		if err := db.UpsertComponent(ctx, &Component{MPN: mpn}); err != nil {
			t.Fatal(err)
		}
	}

	components, err := db.ListComponents(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(components) != 3 {
		t.Fatalf("ListComponents() returned %d rows, want 3", len(components))
	}
	want := []string{"BAV99", "LM317T", "ZXCT1009"}
	for i, c := range components {
		if c.MPN != want[i] {
			t.Errorf("components[%d].MPN = %q, want %q", i, c.MPN, want[i])
		}
	}
}

func TestDB_AvailabilityRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.UpsertComponent(ctx, &Component{MPN: "BAV99"}); err != nil {
		t.Fatal(err)
	}

	record := &Availability{
		MPN:               "BAV99",
		Distributor:       "farnell",
		Region:            "EU",
		InStock:           true,
		StockQuantity:     12000,
		UnitPrice:         0.021,
		WarehouseLocation: "DE",
	}
	if err := db.UpsertAvailability(ctx, record); err != nil {
		t.Fatalf("UpsertAvailability() error: %v", err)
	}
	if record.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR default", record.Currency)
	}

	records, err := db.GetAvailability(ctx, "BAV99")
	if err != nil {
		t.Fatalf("GetAvailability() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("GetAvailability() returned %d rows, want 1", len(records))
	}
	got := records[0]
	if !got.InStock || got.StockQuantity != 12000 || got.UnitPrice != 0.021 || got.WarehouseLocation != "DE" {
		t.Errorf("GetAvailability() = %+v", got)
	}
}

func TestDB_AvailabilityUpsertReplaces(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.UpsertComponent(ctx, &Component{MPN: "BAV99"}); err != nil {
		t.Fatal(err)
	}
	db.UpsertAvailability(ctx, &Availability{MPN: "BAV99", Distributor: "mouser", Region: "GLOBAL", InStock: true})
	db.UpsertAvailability(ctx, &Availability{MPN: "BAV99", Distributor: "mouser", Region: "GLOBAL", InStock: false, LeadTimeDays: 14})

	records, err := db.GetAvailability(ctx, "BAV99")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record after upsert, got %d", len(records))
	}
	if records[0].InStock || records[0].LeadTimeDays != 14 {
		t.Errorf("record = %+v, want updated stock state", records[0])
	}
}

func TestDB_DeleteComponentCascades(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.UpsertComponent(ctx, &Component{MPN: "BAV99"}); err != nil {
		t.Fatal(err)
	}
	db.UpsertAvailability(ctx, &Availability{MPN: "BAV99", Distributor: "digikey", Region: "GLOBAL"})

	if err := db.DeleteComponent(ctx, "BAV99"); err != nil {
		t.Fatalf("DeleteComponent() error: %v", err)
	}

	got, err := db.GetComponent(ctx, "BAV99")
	if err != nil || got != nil {
		t.Errorf("GetComponent() after delete = (%+v, %v), want (nil, nil)", got, err)
	}
	records, err := db.GetAvailability(ctx, "BAV99")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("availability rows remain after component delete: %d", len(records))
	}
}

func TestDB_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "components.db")

	db, err := Open(&Config{Path: path, BusyTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertComponent(ctx, &Component{MPN: "STM32F103C8T6", Manufacturer: "STMicroelectronics"}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(&Config{Path: path})
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetComponent(ctx, "STM32F103C8T6")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Manufacturer != "STMicroelectronics" {
		t.Errorf("GetComponent() after reopen = %+v", got)
	}
}
