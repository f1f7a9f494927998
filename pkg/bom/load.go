package bom

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// csvColumns are the fixed, case-insensitive column names accepted by
// LoadCSV. The loader is intentionally strict: normalizing arbitrary
// spreadsheet headers is an upstream concern.
var csvColumns = map[string]bool{
	"ref_des":      true,
	"quantity":     true,
	"manufacturer": true,
	"mpn":          true,
	"description":  true,
	"package":      true,
	"value":        true,
	"category":     true,
	"dnp":          true,
	"notes":        true,
}

// Load reads a normalized BOM file, dispatching on the file extension
// (.json or .csv).
func Load(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open BOM file %q: %w", path, err)
	}
	defer f.Close()

	var result *ParseResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		result, err = ReadJSON(f)
	case ".csv":
		result, err = ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported BOM file extension %q (want .json or .csv)", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read BOM file %q: %w", path, err)
	}
	result.FilePath = path
	return result, nil
}

// ReadJSON reads a normalized BOM from JSON. The document is either a
// bare array of line items or an object with an "items" array.
func ReadJSON(r io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped struct {
			Items []LineItem `json:"items"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, fmt.Errorf("invalid BOM JSON: %w", err)
		}
		items = wrapped.Items
	}

	return normalizeItems(items), nil
}

// ReadCSV reads a normalized BOM from CSV. The first row must be a
// header using the canonical column names (ref_des, quantity, mpn,
// description, package, value, category, manufacturer, dnp, notes).
// Unknown columns are rejected; missing optional columns are fine.
func ReadCSV(r io.Reader) (*ParseResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("missing CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if !csvColumns[name] {
			return nil, fmt.Errorf("unknown BOM column %q", col)
		}
		index[name] = i
	}
	if _, ok := index["ref_des"]; !ok {
		return nil, fmt.Errorf("BOM CSV must have a ref_des column")
	}
	if _, ok := index["quantity"]; !ok {
		return nil, fmt.Errorf("BOM CSV must have a quantity column")
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []LineItem
	var warnings []string
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		qty, err := strconv.Atoi(field(row, "quantity"))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: invalid quantity %q", line, field(row, "quantity")))
			continue
		}

		item := LineItem{
			RefDes:       field(row, "ref_des"),
			Quantity:     qty,
			Manufacturer: field(row, "manufacturer"),
			MPN:          field(row, "mpn"),
			Description:  field(row, "description"),
			Package:      field(row, "package"),
			Value:        field(row, "value"),
			Category:     ParseCategory(field(row, "category")),
			DNP:          parseBool(field(row, "dnp")),
		}
		if notes := field(row, "notes"); notes != "" {
			item.Notes = []string{notes}
		}
		items = append(items, item)
	}

	result := normalizeItems(items)
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// normalizeItems trims every item and drops invalid ones with a
// warning. Invalid input never aborts loading.
func normalizeItems(items []LineItem) *ParseResult {
	result := &ParseResult{}
	for i := range items {
		item := items[i]
		item.Normalize()
		if err := item.Validate(); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("skipping item %d: %v", i+1, err))
			continue
		}
		result.Items = append(result.Items, item)
	}
	return result
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "dnp", "dni":
		return true
	}
	return false
}
