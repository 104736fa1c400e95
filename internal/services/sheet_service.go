package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf/v2"

	"route-backend/internal/models"
	"route-backend/internal/timeutil"
)

// SheetService renders a run's pick list as a printable PDF or a CSV export.
// Both walk the same snapshot, ordered location, machine, coil, the way the
// entries come back from the store.
type SheetService struct {
	Picks *PickService
}

func NewSheetService(picks *PickService) *SheetService {
	return &SheetService{Picks: picks}
}

// GeneratePickSheetPDF renders the pick sheet for one run.
func (s *SheetService) GeneratePickSheetPDF(ctx context.Context, runID int) ([]byte, error) {
	snap, err := s.Picks.Snapshot(ctx, runID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	title := fmt.Sprintf("Pick Sheet - Run %d", snap.Run.ID)
	if snap.Run.Name != "" {
		title = fmt.Sprintf("Pick Sheet - %s", snap.Run.Name)
	}
	pdf.CellFormat(190, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Status: %s    Generated: %s",
		snap.Run.Status, snap.Run.CreatedAt.Format(timeutil.DateTimeLayout)),
		"", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(45, 7, "Location", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Machine", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Coil", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "SKU", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Done", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, e := range snap.Entries {
		name := e.SKUName
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		locName := e.LocationName
		if len(locName) > 24 {
			locName = locName[:21] + "..."
		}
		mark := ""
		switch e.Status {
		case models.PickPicked:
			mark = "X"
		case models.PickSkipped:
			mark = "-"
		}
		pdf.CellFormat(45, 6, locName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, e.MachineCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 6, e.CoilCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, e.SKUCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, strconv.Itoa(e.EffectiveCount()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 6, mark, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(190, 7, fmt.Sprintf("Lines: %d    Pending: %d    Picked: %d    Skipped: %d",
		len(snap.Entries), snap.Pending, snap.Picked, snap.Skipped),
		"1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pick sheet pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// GeneratePickSheetCSV exports a run's pick entries as CSV.
func (s *SheetService) GeneratePickSheetCSV(ctx context.Context, runID int) ([]byte, error) {
	snap, err := s.Picks.Snapshot(ctx, runID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"location", "machine", "coil", "sku_code", "sku_name",
		"count", "override", "effective", "status",
	}); err != nil {
		return nil, err
	}
	for _, e := range snap.Entries {
		override := ""
		if e.OverrideCount != nil {
			override = strconv.Itoa(*e.OverrideCount)
		}
		if err := w.Write([]string{
			e.LocationName, e.MachineCode, e.CoilCode, e.SKUCode, e.SKUName,
			strconv.Itoa(e.Count), override, strconv.Itoa(e.EffectiveCount()),
			string(e.Status),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write pick sheet csv: %w", err)
	}
	return buf.Bytes(), nil
}
