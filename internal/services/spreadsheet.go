package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"route-backend/internal/models"
)

// importColumns maps recognized header names (lowercased, trimmed) to row
// fields. Spreadsheets from different machine vendors vary in header naming,
// so a few aliases are accepted per column.
var importColumns = map[string]string{
	"location":            "location",
	"location name":       "location",
	"machine":             "machine_code",
	"machine code":        "machine_code",
	"machine description": "machine_description",
	"description":         "machine_description",
	"machine type":        "machine_type",
	"type":                "machine_type",
	"coil":                "coil_code",
	"coil code":           "coil_code",
	"sku":                 "sku_code",
	"sku code":            "sku_code",
	"product code":        "sku_code",
	"sku name":            "sku_name",
	"product":             "sku_name",
	"product name":        "sku_name",
	"category":            "sku_category",
	"par":                 "par",
	"current":             "current",
	"need":                "need",
	"forecast":            "forecast",
	"total":               "total",
	"short":               "short",
	"spoil":               "spoil",
	"inventory":           "inventory_count",
	"inventory count":     "inventory_count",
}

// ParseSpreadsheet reads the first sheet of an xlsx upload into import rows.
// The first row is the header; unknown columns are ignored. Cell-level
// problems (a non-numeric count) null the field rather than failing the row,
// matching how reconciliation treats missing counts.
func ParseSpreadsheet(r io.Reader) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	fields := make(map[int]string)
	for i, header := range rows[0] {
		if field, ok := importColumns[strings.ToLower(strings.TrimSpace(header))]; ok {
			fields[i] = field
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no recognized columns in header row")
	}

	var out []models.ImportRow
	for _, cells := range rows[1:] {
		if rowIsEmpty(cells) {
			continue
		}
		var row models.ImportRow
		for i, cell := range cells {
			field, ok := fields[i]
			if !ok {
				continue
			}
			value := strings.TrimSpace(cell)
			switch field {
			case "location":
				row.LocationName = value
			case "machine_code":
				row.MachineCode = value
			case "machine_description":
				row.MachineDescription = value
			case "machine_type":
				row.MachineTypeName = value
			case "coil_code":
				row.CoilCode = value
			case "sku_code":
				row.SKUCode = value
			case "sku_name":
				row.SKUName = value
			case "sku_category":
				row.SKUCategory = value
			case "par":
				row.Par = parseCount(value)
			case "current":
				row.Current = parseCount(value)
			case "need":
				row.Need = parseCount(value)
			case "forecast":
				row.Forecast = parseCount(value)
			case "total":
				row.Total = parseCount(value)
			case "short":
				row.Short = parseCount(value)
			case "spoil":
				row.Spoil = parseCount(value)
			case "inventory_count":
				row.InventoryCount = parseCount(value)
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func rowIsEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseCount reads a count cell. Blank or unparseable cells become nil, and
// spreadsheet floats like "12.0" are accepted.
func parseCount(s string) *int {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(fv)
		return &n
	}
	return nil
}
