package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"route-backend/internal/metrics"
	"route-backend/internal/models"
	"route-backend/internal/repositories"
)

// ImportService reconciles spreadsheet rows against the canonical entity
// graph. Every batch is snapshotted append-only before resolution, and a bad
// row never aborts the batch: failures come back next to the successes.
type ImportService struct {
	LocationRepo  *repositories.LocationRepository
	MachineRepo   *repositories.MachineRepository
	CoilRepo      *repositories.CoilRepository
	SKURepo       *repositories.SKURepository
	RunImportRepo *repositories.RunImportRepository
}

func NewImportService(
	locationRepo *repositories.LocationRepository,
	machineRepo *repositories.MachineRepository,
	coilRepo *repositories.CoilRepository,
	skuRepo *repositories.SKURepository,
	runImportRepo *repositories.RunImportRepository,
) *ImportService {
	return &ImportService{
		LocationRepo:  locationRepo,
		MachineRepo:   machineRepo,
		CoilRepo:      coilRepo,
		SKURepo:       skuRepo,
		RunImportRepo: runImportRepo,
	}
}

// Reconcile snapshots a batch of import rows and resolves each one to
// canonical entities, creating anything seen for the first time. Rows are
// processed by a worker pool; natural-key upserts make concurrent creation of
// the same entity converge on one row.
func (s *ImportService) Reconcile(ctx context.Context, companyID int, fileName string, req *models.ReconcileRequest) (*models.ReconcileResult, error) {
	imp := &models.RunImport{
		BatchID:   uuid.NewString(),
		CompanyID: companyID,
		RunID:     req.RunID,
		FileName:  fileName,
		RowCount:  len(req.Rows),
	}
	if err := s.RunImportRepo.CreateImport(ctx, imp); err != nil {
		return nil, err
	}

	result := &models.ReconcileResult{BatchID: imp.BatchID}
	if len(req.Rows) == 0 {
		return result, nil
	}

	// Snapshot machines first so coil-item snapshot rows can reference them.
	machineIDs := s.snapshotMachines(ctx, imp.ID, req.Rows)

	type rowResult struct {
		resolved *models.ResolvedRow
		failure  *models.RowError
	}
	type rowJob struct {
		index int
		row   models.ImportRow
	}

	jobs := make(chan rowJob, len(req.Rows))
	results := make(chan rowResult, len(req.Rows))

	numWorkers := 10
	if len(req.Rows) < numWorkers {
		numWorkers = len(req.Rows)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				resolved, rowErr := s.resolveRow(ctx, companyID, imp.ID, machineIDs, job.index, &job.row)
				results <- rowResult{resolved: resolved, failure: rowErr}
			}
		}()
	}

	for i, row := range req.Rows {
		jobs <- rowJob{index: i + 1, row: row}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.failure != nil {
			result.Failures = append(result.Failures, res.failure)
			metrics.ImportRowsTotal.WithLabelValues("failed").Inc()
		} else {
			result.Resolved = append(result.Resolved, res.resolved)
			metrics.ImportRowsTotal.WithLabelValues("resolved").Inc()
		}
	}

	sort.Slice(result.Resolved, func(i, j int) bool {
		return result.Resolved[i].Row < result.Resolved[j].Row
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Row < result.Failures[j].Row
	})

	log.Printf("[Import] Batch %s: %d resolved, %d failed",
		imp.BatchID, len(result.Resolved), len(result.Failures))
	return result, nil
}

// snapshotMachines writes one run_import_machines row per distinct machine
// code and returns snapshot IDs keyed by code. Snapshot failures are logged
// and tolerated; resolution does not depend on the audit rows.
func (s *ImportService) snapshotMachines(ctx context.Context, importID int, rows []models.ImportRow) map[string]int {
	ids := make(map[string]int)
	for _, row := range rows {
		code := strings.TrimSpace(row.MachineCode)
		if code == "" {
			continue
		}
		if _, ok := ids[code]; ok {
			continue
		}
		m := &models.RunImportMachine{
			RunImportID:        importID,
			LocationName:       strings.TrimSpace(row.LocationName),
			MachineCode:        code,
			MachineDescription: strings.TrimSpace(row.MachineDescription),
			MachineTypeName:    strings.TrimSpace(row.MachineTypeName),
		}
		if err := s.RunImportRepo.AddMachine(ctx, m); err != nil {
			log.Printf("[Import] Failed to snapshot machine %s: %v", code, err)
			continue
		}
		ids[code] = m.ID
	}
	return ids
}

// resolveRow reconciles one row. A row without a machine code cannot be
// anchored anywhere and is malformed; a machine-only row (no coil code)
// resolves location and machine but produces no pick line.
func (s *ImportService) resolveRow(ctx context.Context, companyID, importID int, machineIDs map[string]int, rowNum int, row *models.ImportRow) (*models.ResolvedRow, *models.RowError) {
	machineCode := strings.TrimSpace(row.MachineCode)
	coilCode := strings.TrimSpace(row.CoilCode)
	skuCode := strings.TrimSpace(row.SKUCode)

	if machineCode == "" {
		return nil, models.MalformedRowError(rowNum, "missing machine code")
	}
	if coilCode != "" && skuCode == "" {
		return nil, models.MalformedRowError(rowNum, "coil row missing sku code")
	}

	resolved := &models.ResolvedRow{Row: rowNum, Counts: row.Snapshot()}

	var locationID *int
	if name := strings.TrimSpace(row.LocationName); name != "" {
		loc, created, err := s.LocationRepo.FindOrCreate(ctx, companyID, name)
		if err != nil {
			return nil, &models.RowError{Row: rowNum, Code: "StoreError", Reason: err.Error()}
		}
		resolved.Location = loc
		resolved.Created = resolved.Created || created
		locationID = &loc.ID
	}

	var machineTypeID *int
	if name := strings.TrimSpace(row.MachineTypeName); name != "" {
		mt, err := s.MachineRepo.FindOrCreateType(ctx, name)
		if err != nil {
			return nil, &models.RowError{Row: rowNum, Code: "StoreError", Reason: err.Error()}
		}
		machineTypeID = &mt.ID
	}

	machine, created, err := s.MachineRepo.FindOrCreate(ctx, companyID, machineCode,
		strings.TrimSpace(row.MachineDescription), machineTypeID, locationID)
	if err != nil {
		return nil, &models.RowError{Row: rowNum, Code: "StoreError", Reason: err.Error()}
	}
	resolved.Machine = machine
	resolved.Created = resolved.Created || created

	if coilCode == "" {
		return resolved, nil
	}

	coil, created, err := s.CoilRepo.FindOrCreate(ctx, machine.ID, coilCode)
	if err != nil {
		return nil, &models.RowError{Row: rowNum, Code: "StoreError", Reason: err.Error()}
	}
	resolved.Coil = coil
	resolved.Created = resolved.Created || created

	sku, created, err := s.SKURepo.FindOrCreate(ctx, skuCode,
		strings.TrimSpace(row.SKUName), strings.TrimSpace(row.SKUCategory))
	if err != nil {
		return nil, &models.RowError{Row: rowNum, Code: "StoreError", Reason: err.Error()}
	}
	resolved.SKU = sku
	resolved.Created = resolved.Created || created

	item, created, err := s.CoilRepo.FindOrCreateItem(ctx, coil.ID, sku.ID, row.Par)
	if err != nil {
		return nil, &models.RowError{Row: rowNum, Code: "StoreError", Reason: err.Error()}
	}
	resolved.CoilItem = item
	resolved.Created = resolved.Created || created

	var snapshotMachineID *int
	if id, ok := machineIDs[machineCode]; ok {
		snapshotMachineID = &id
	}
	snapshot := &models.RunImportCoilItem{
		RunImportID:        importID,
		RunImportMachineID: snapshotMachineID,
		CoilCode:           coilCode,
		SKUCode:            skuCode,
		SKUName:            strings.TrimSpace(row.SKUName),
		SKUCategory:        strings.TrimSpace(row.SKUCategory),
		Par:                row.Par,
		Current:            row.Current,
		Need:               row.Need,
		Forecast:           row.Forecast,
		Total:              row.Total,
		Short:              row.Short,
		Spoil:              row.Spoil,
		InventoryCount:     row.InventoryCount,
	}
	if err := s.RunImportRepo.AddCoilItem(ctx, snapshot); err != nil {
		log.Printf("[Import] Failed to snapshot row %d: %v", rowNum, err)
	}

	return resolved, nil
}
