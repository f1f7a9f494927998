package partsdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SchemaVersion is the current database schema version. Bump when
// migrating.
const SchemaVersion = 2

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	id      INTEGER PRIMARY KEY,
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS components (
	mpn                  TEXT PRIMARY KEY,
	manufacturer         TEXT,
	description          TEXT,
	category             TEXT,
	package              TEXT,
	manufacturer_country TEXT,
	manufacturer_region  TEXT,
	last_updated         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS distributor_availability (
	mpn                TEXT NOT NULL,
	distributor        TEXT NOT NULL,
	region             TEXT NOT NULL,
	in_stock           INTEGER NOT NULL DEFAULT 0,
	stock_quantity     INTEGER,
	unit_price         REAL,
	currency           TEXT NOT NULL DEFAULT 'EUR',
	warehouse_location TEXT,
	lead_time_days     INTEGER,
	last_updated       TEXT NOT NULL,
	PRIMARY KEY (mpn, distributor),
	FOREIGN KEY (mpn) REFERENCES components(mpn) ON DELETE CASCADE
);
`

// Config contains configuration for the component database.
type Config struct {
	// Path is the database file path. Parent directories are created
	// as needed.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultConfig returns the default database configuration, rooted in
// the user's home directory.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Path:        filepath.Join(home, ".fabcost", "components.db"),
		BusyTimeout: 5 * time.Second,
	}
}

// DB is a SQLite-backed component catalog.
type DB struct {
	db     *sql.DB
	config *Config
	logger *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Open opens the component database, creating it and applying the
// schema if needed.
func Open(config *Config) (*DB, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := slog.Default().With("component", "partsdb")

	if dir := filepath.Dir(config.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, newStorageError("mkdir", err)
		}
	}

	handle, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, newStorageError("open", err)
	}

	// A single connection avoids SQLITE_BUSY under concurrent writers.
	handle.SetMaxOpenConns(1)

	d := &DB{db: handle, config: config, logger: logger}
	if err := d.initialize(); err != nil {
		handle.Close()
		return nil, err
	}

	logger.Debug("component database opened", "path", config.Path)
	return d, nil
}

func (d *DB) initialize() error {
	if _, err := d.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return newStorageError("enable_wal", err)
	}
	if _, err := d.db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return newStorageError("enable_foreign_keys", err)
	}
	if _, err := d.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", d.config.BusyTimeout.Milliseconds())); err != nil {
		return newStorageError("set_busy_timeout", err)
	}

	if _, err := d.db.Exec(schema); err != nil {
		return newStorageError("create_schema", err)
	}

	if _, err := d.db.Exec(
		"INSERT OR REPLACE INTO schema_version (id, version) VALUES (1, ?)",
		SchemaVersion,
	); err != nil {
		return newStorageError("set_schema_version", err)
	}

	var version int
	err := d.db.QueryRow("SELECT version FROM schema_version WHERE id = 1").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return newStorageError("get_schema_version", err)
	}
	if version != SchemaVersion {
		return newStorageError("schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// UpsertComponent inserts or updates a component record. The record's
// LastUpdated field is set to the current time.
func (d *DB) UpsertComponent(ctx context.Context, c *Component) error {
	if c.MPN == "" {
		return newStorageError("upsert_component", fmt.Errorf("mpn cannot be empty"))
	}

	now := time.Now().UTC()
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO components
			(mpn, manufacturer, description, category, package,
			 manufacturer_country, manufacturer_region, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(mpn) DO UPDATE SET
			manufacturer         = excluded.manufacturer,
			description          = excluded.description,
			category             = excluded.category,
			package              = excluded.package,
			manufacturer_country = excluded.manufacturer_country,
			manufacturer_region  = excluded.manufacturer_region,
			last_updated         = excluded.last_updated`,
		c.MPN, c.Manufacturer, c.Description, c.Category, c.Package,
		c.ManufacturerCountry, c.ManufacturerRegion, now.Format(time.RFC3339),
	)
	if err != nil {
		return newStorageError("upsert_component", err)
	}
	c.LastUpdated = now
	return nil
}

// GetComponent retrieves a component by MPN. Returns nil, nil when the
// component is not in the catalog.
func (d *DB) GetComponent(ctx context.Context, mpn string) (*Component, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT mpn, manufacturer, description, category, package,
		       manufacturer_country, manufacturer_region, last_updated
		FROM components WHERE mpn = ?`, mpn)

	c, err := scanComponent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, newStorageError("get_component", err)
	}
	return c, nil
}

// ListComponents returns all component records ordered by MPN.
func (d *DB) ListComponents(ctx context.Context) ([]*Component, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT mpn, manufacturer, description, category, package,
		       manufacturer_country, manufacturer_region, last_updated
		FROM components ORDER BY mpn`)
	if err != nil {
		return nil, newStorageError("list_components", err)
	}
	defer rows.Close()

	var components []*Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, newStorageError("scan_component", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("list_components", err)
	}
	return components, nil
}

// DeleteComponent deletes a component and its availability records.
func (d *DB) DeleteComponent(ctx context.Context, mpn string) error {
	// The foreign key cascade handles availability rows, but older
	// databases may predate the constraint, so delete explicitly.
	if _, err := d.db.ExecContext(ctx,
		"DELETE FROM distributor_availability WHERE mpn = ?", mpn); err != nil {
		return newStorageError("delete_availability", err)
	}
	if _, err := d.db.ExecContext(ctx,
		"DELETE FROM components WHERE mpn = ?", mpn); err != nil {
		return newStorageError("delete_component", err)
	}
	return nil
}

// UpsertAvailability inserts or updates a distributor availability
// record. The component record must already exist.
func (d *DB) UpsertAvailability(ctx context.Context, a *Availability) error {
	if a.MPN == "" || a.Distributor == "" {
		return newStorageError("upsert_availability",
			fmt.Errorf("mpn and distributor cannot be empty"))
	}
	if a.Currency == "" {
		a.Currency = "EUR"
	}

	now := time.Now().UTC()
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO distributor_availability
			(mpn, distributor, region, in_stock, stock_quantity,
			 unit_price, currency, warehouse_location, lead_time_days,
			 last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(mpn, distributor) DO UPDATE SET
			region             = excluded.region,
			in_stock           = excluded.in_stock,
			stock_quantity     = excluded.stock_quantity,
			unit_price         = excluded.unit_price,
			currency           = excluded.currency,
			warehouse_location = excluded.warehouse_location,
			lead_time_days     = excluded.lead_time_days,
			last_updated       = excluded.last_updated`,
		a.MPN, a.Distributor, a.Region, boolToInt(a.InStock), a.StockQuantity,
		a.UnitPrice, a.Currency, a.WarehouseLocation, a.LeadTimeDays,
		now.Format(time.RFC3339),
	)
	if err != nil {
		return newStorageError("upsert_availability", err)
	}
	a.LastUpdated = now
	return nil
}

// GetAvailability returns all distributor records for an MPN, ordered
// by distributor name.
func (d *DB) GetAvailability(ctx context.Context, mpn string) ([]*Availability, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT mpn, distributor, region, in_stock, stock_quantity,
		       unit_price, currency, warehouse_location, lead_time_days,
		       last_updated
		FROM distributor_availability WHERE mpn = ? ORDER BY distributor`, mpn)
	if err != nil {
		return nil, newStorageError("get_availability", err)
	}
	defer rows.Close()

	var records []*Availability
	for rows.Next() {
		var a Availability
		var inStock int
		var stockQty sql.NullInt64
		var unitPrice sql.NullFloat64
		var warehouse sql.NullString
		var leadTime sql.NullInt64
		var lastUpdated string

		err := rows.Scan(&a.MPN, &a.Distributor, &a.Region, &inStock,
			&stockQty, &unitPrice, &a.Currency, &warehouse, &leadTime,
			&lastUpdated)
		if err != nil {
			return nil, newStorageError("scan_availability", err)
		}

		a.InStock = inStock != 0
		a.StockQuantity = stockQty.Int64
		a.UnitPrice = unitPrice.Float64
		a.WarehouseLocation = warehouse.String
		a.LeadTimeDays = int(leadTime.Int64)
		a.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)

		records = append(records, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("get_availability", err)
	}
	return records, nil
}

// DeleteAvailability removes a specific distributor record.
func (d *DB) DeleteAvailability(ctx context.Context, mpn, distributor string) error {
	_, err := d.db.ExecContext(ctx,
		"DELETE FROM distributor_availability WHERE mpn = ? AND distributor = ?",
		mpn, distributor)
	if err != nil {
		return newStorageError("delete_availability", err)
	}
	return nil
}

// Close releases the database connection.
func (d *DB) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.db.Close()
	})
	if d.closeErr != nil {
		return newStorageError("close", d.closeErr)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(row rowScanner) (*Component, error) {
	var c Component
	var manufacturer, description, category, pkg sql.NullString
	var country, region sql.NullString
	var lastUpdated string

	err := row.Scan(&c.MPN, &manufacturer, &description, &category, &pkg,
		&country, &region, &lastUpdated)
	if err != nil {
		return nil, err
	}

	c.Manufacturer = manufacturer.String
	c.Description = description.String
	c.Category = category.String
	c.Package = pkg.String
	c.ManufacturerCountry = country.String
	c.ManufacturerRegion = region.String
	c.LastUpdated, _ = time.Parse(time.RFC3339, lastUpdated)

	return &c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
