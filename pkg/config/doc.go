// Package config provides configuration loading, validation, and access
// for the fabcost engine.
//
// Configuration is loaded from YAML files with this precedence:
//
//  1. Built-in defaults (ApplyDefaults)
//  2. YAML configuration file
//  3. Environment variable overrides (FABCOST_*)
//
// Validation is fatal at load time only: a non-monotonic discount
// curve, an out-of-range package multiplier, or a risk multiplier below
// 1.0 rejects the whole configuration before any estimate runs. All
// validation errors are collected and reported together.
//
// A process-wide singleton is offered for convenience (Initialize /
// GetConfig) but every engine component accepts an explicit *Config so
// tests can inject their own.
package config
