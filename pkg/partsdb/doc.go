// Package partsdb provides a durable SQLite database for component
// metadata and distributor availability records.
//
// Unlike the result cache, entries here never expire: the database is a
// long-lived local catalog of parts the estimator has seen, including
// manufacturer provenance (country and region) and per-distributor
// stock and pricing. Schema migrations are applied automatically when
// the database is opened.
package partsdb
