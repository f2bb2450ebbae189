// Package seed loads CML master data into the application database, the
// same way the platform's seed script did: ensure the table exists, clear
// unless asked to keep existing rows, insert in batches of 50, and report
// how many rows made it in.
package seed

import (
	"context"
	"fmt"

	"github.com/aaron-seq/cmldb/internal/cml"
	"github.com/aaron-seq/cmldb/internal/postgres"
	"github.com/aaron-seq/cmldb/pkg/logger"
	"github.com/google/uuid"
)

const insertCML = `
INSERT INTO cmls (
    cml_id, line_id, equipment_id, facility, system, commodity,
    material_type, feature_type, cml_shape, design_thickness_mm,
    min_allowable_thickness_mm, corrosion_allowance_mm, current_thickness_mm,
    average_corrosion_rate, years_in_service, number_of_inspections,
    last_inspection_date, first_inspection_date, remaining_life_years,
    risk_level, isometric_id, inspection_technique, data_quality_score,
    elimination_candidate, requires_engineering_review,
    inspection_history_dates, inspection_history_measurements, notes
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
    $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
)`

const insertCMLKeepExisting = insertCML + ` ON CONFLICT (cml_id) DO NOTHING`

// Options controls a seeding run.
type Options struct {
	BatchSize    int
	KeepExisting bool
}

// Result reports the outcome of a seeding run. Failed counts rows the
// reader rejected; insertion errors abort the run instead.
type Result struct {
	Inserted int
	Failed   int
}

// Seeder loads CML records into the cmls table.
type Seeder struct {
	db    postgres.DBInterface
	opts  Options
	runID string
}

// New creates a Seeder. BatchSize defaults to 50, matching the original
// script's commit interval.
func New(db postgres.DBInterface, opts Options) *Seeder {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	return &Seeder{db: db, opts: opts, runID: uuid.NewString()}
}

// SeedFile runs a full seeding pass from a master-data workbook or a CSV
// export of it.
func (s *Seeder) SeedFile(ctx context.Context, path string) (*Result, error) {
	log := logger.FromContext(ctx).With("run_id", s.runID, "file", path)
	log.Info("Seeding database")

	if err := EnsureSchema(ctx, s.db); err != nil {
		return nil, err
	}

	records, failed, err := ReadInput(path)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded CML records from file", "rows", len(records), "rejected", failed)

	if !s.opts.KeepExisting {
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
		log.Info("Cleared existing CML data")
	}

	inserted, err := s.Load(ctx, records)
	if err != nil {
		return nil, err
	}
	log.Info("Database seeded", "successful", inserted, "failed", failed)
	return &Result{Inserted: inserted, Failed: failed}, nil
}

// Clear removes all existing CML rows.
func (s *Seeder) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM cmls"); err != nil {
		return fmt.Errorf("seed: clear cmls: %w", err)
	}
	return nil
}

// Load inserts records in batch-sized transactions and returns how many
// rows were inserted. With KeepExisting, rows whose cml_id already exists
// are left untouched and not counted.
func (s *Seeder) Load(ctx context.Context, records []cml.CML) (int, error) {
	stmt := insertCML
	if s.opts.KeepExisting {
		stmt = insertCMLKeepExisting
	}

	inserted := 0
	for start := 0; start < len(records); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(records))
		n, err := s.loadBatch(ctx, stmt, records[start:end])
		inserted += n
		if err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

func (s *Seeder) loadBatch(ctx context.Context, stmt string, batch []cml.CML) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: begin batch: %w", err)
	}

	inserted := 0
	for i := range batch {
		record := &batch[i]
		tag, err := tx.Exec(ctx, stmt,
			record.CMLID,
			record.LineID,
			record.EquipmentID,
			record.Facility,
			record.System,
			record.Commodity,
			record.MaterialType,
			record.FeatureType,
			record.CMLShape,
			record.DesignThicknessMM,
			record.MinAllowableThicknessMM,
			record.CorrosionAllowanceMM,
			record.CurrentThicknessMM,
			record.AverageCorrosionRate,
			record.YearsInService,
			record.NumberOfInspections,
			record.LastInspectionDate,
			record.FirstInspectionDate,
			record.RemainingLifeYears,
			record.RiskLevel,
			record.IsometricID,
			record.InspectionTechnique,
			record.DataQualityScore,
			record.EliminationCandidate,
			record.RequiresEngineeringReview,
			record.InspectionHistoryDates,
			record.InspectionHistoryMeasurements,
			record.Notes,
		)
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				logger.FromContext(ctx).Warn("Failed to roll back seed batch", "error", rbErr)
			}
			return 0, fmt.Errorf("seed: insert cml %q: %w", record.CMLID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("seed: commit batch: %w", err)
	}
	return inserted, nil
}
