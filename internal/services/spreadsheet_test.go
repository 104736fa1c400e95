package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func sheetBytes(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to build test sheet: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize test sheet: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseSpreadsheet(t *testing.T) {
	r := sheetBytes(t, [][]interface{}{
		{"Location", "Machine", "Coil", "SKU", "Product", "Par", "Current", "Need"},
		{"Depot A", "VM-01", "A1", "COKE-330", "Coke 330ml", 10, 4, 6},
		{"", "", "", "", "", "", "", ""}, // blank row skipped
		{"Depot A", "VM-01", "A2", "FANTA-330", "Fanta 330ml", 8, "", 8},
	})

	rows, err := ParseSpreadsheet(r)
	if err != nil {
		t.Fatalf("ParseSpreadsheet failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.LocationName != "Depot A" || first.MachineCode != "VM-01" ||
		first.CoilCode != "A1" || first.SKUCode != "COKE-330" {
		t.Errorf("first row misparsed: %+v", first)
	}
	if first.Par == nil || *first.Par != 10 {
		t.Errorf("first row par = %v, want 10", first.Par)
	}
	if first.Current == nil || *first.Current != 4 {
		t.Errorf("first row current = %v, want 4", first.Current)
	}

	// Blank count cells become nil, not zero.
	second := rows[1]
	if second.Current != nil {
		t.Errorf("blank current should be nil, got %v", second.Current)
	}
	if second.Need == nil || *second.Need != 8 {
		t.Errorf("second row need = %v, want 8", second.Need)
	}
}

func TestParseSpreadsheetUnknownHeader(t *testing.T) {
	r := sheetBytes(t, [][]interface{}{
		{"Foo", "Bar"},
		{"x", "y"},
	})
	if _, err := ParseSpreadsheet(r); err == nil {
		t.Error("sheet with no recognized columns should fail")
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"", nil},
		{"12", intp(12)},
		{"12.0", intp(12)},
		{"abc", nil},
		{"-3", intp(-3)}, // clamping happens at resolution, not parse
	}
	for _, tt := range tests {
		got := parseCount(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("parseCount(%q) = %d, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("parseCount(%q) = %v, want %d", tt.in, got, *tt.want)
		}
	}
}
