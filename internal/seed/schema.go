package seed

import (
	"context"
	"fmt"

	"github.com/aaron-seq/cmldb/internal/postgres"
)

// createCMLsTable mirrors the DDL the platform's ORM emits for its CML
// model. The ORM remains the system of record for the schema; this statement
// only lets the seeder run against a database the application has not
// touched yet, the same way the original seed script called create_all
// before loading. The uuid default is why bootstrap installs uuid-ossp.
const createCMLsTable = `
CREATE TABLE IF NOT EXISTS cmls (
    id uuid PRIMARY KEY DEFAULT uuid_generate_v4(),
    cml_id text NOT NULL UNIQUE,
    line_id text,
    equipment_id text,
    facility text,
    system text,
    commodity text,
    material_type text,
    feature_type text,
    cml_shape text,
    design_thickness_mm double precision,
    min_allowable_thickness_mm double precision,
    corrosion_allowance_mm double precision,
    current_thickness_mm double precision,
    average_corrosion_rate double precision,
    years_in_service integer NOT NULL DEFAULT 0,
    number_of_inspections integer NOT NULL DEFAULT 0,
    last_inspection_date date,
    first_inspection_date date,
    remaining_life_years double precision,
    risk_level text CHECK (risk_level IN ('LOW', 'MEDIUM', 'HIGH', 'CRITICAL')),
    isometric_id text,
    inspection_technique text,
    data_quality_score double precision,
    elimination_candidate boolean NOT NULL DEFAULT false,
    requires_engineering_review boolean NOT NULL DEFAULT false,
    inspection_history_dates text,
    inspection_history_measurements text,
    notes text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT now(),
    updated_at timestamptz NOT NULL DEFAULT now()
)`

// EnsureSchema creates the cmls table when it does not exist yet.
func EnsureSchema(ctx context.Context, db postgres.DBInterface) error {
	if _, err := db.Exec(ctx, createCMLsTable); err != nil {
		return fmt.Errorf("seed: ensure cmls table: %w", err)
	}
	return nil
}
