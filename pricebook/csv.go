package pricebook

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"slabquote/models"
	"slabquote/pricing"
)

// RowError reports one rejected sheet row. Bad rows are skipped, not fatal.
type RowError struct {
	Row     int
	Message string
}

var sheetColumns = []string{"code", "name", "description", "unit", "price", "vendor", "material", "color", "thickness"}

// ParseCSV reads the price sheet. The header row is mapped by column name so
// the sheet can reorder or add columns without breaking the import.
func ParseCSV(reader io.Reader) ([]models.PriceEntry, []RowError, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		colIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"code", "name", "unit", "price"} {
		if _, ok := colIndex[required]; !ok {
			return nil, nil, fmt.Errorf("price sheet is missing required column %q", required)
		}
	}

	var (
		entries []models.PriceEntry
		rowErrs []RowError
		rowNum  = 1
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		field := func(name string) string {
			idx, ok := colIndex[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		entry := models.PriceEntry{
			Code:        normalizeCode(field("code")),
			Name:        field("name"),
			Description: field("description"),
			Unit:        strings.ToUpper(field("unit")),
			Vendor:      field("vendor"),
			Material:    field("material"),
			Color:       field("color"),
			Thickness:   field("thickness"),
		}
		if entry.Code == "" || entry.Name == "" {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: "code and name are required"})
			continue
		}
		switch entry.Unit {
		case pricing.UnitSquareFoot, pricing.UnitLinearFoot, pricing.UnitEach:
		default:
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: fmt.Sprintf("invalid unit %q", field("unit"))})
			continue
		}
		price, err := strconv.ParseFloat(field("price"), 64)
		if err != nil || price < 0 {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: fmt.Sprintf("invalid price %q", field("price"))})
			continue
		}
		entry.Price = price
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, rowErrs, fmt.Errorf("price sheet contains no valid rows")
	}
	return entries, rowErrs, nil
}
