// Package cml holds the domain types for condition monitoring locations.
// The column set mirrors the platform's ORM model; this repository only
// reads and writes it, it does not own the schema.
package cml

import (
	"strings"
	"time"
)

// RiskLevel is the four-band risk classification assigned to a CML.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// ParseRiskLevel normalizes a spreadsheet risk string (upper-case, spaces to
// underscores) and reports whether it names a known level. Unknown values
// are stored as NULL, matching the master-data loader's behavior.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	switch RiskLevel(normalized) {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return RiskLevel(normalized), true
	default:
		return "", false
	}
}

// CML is one condition monitoring location record. Pointer fields are
// nullable in the database; the workbook leaves many of them blank.
type CML struct {
	CMLID                         string
	LineID                        *string
	EquipmentID                   *string
	Facility                      *string
	System                        *string
	Commodity                     *string
	MaterialType                  *string
	FeatureType                   *string
	CMLShape                      *string
	DesignThicknessMM             *float64
	MinAllowableThicknessMM       *float64
	CorrosionAllowanceMM          *float64
	CurrentThicknessMM            *float64
	AverageCorrosionRate          *float64
	YearsInService                int
	NumberOfInspections           int
	LastInspectionDate            *time.Time
	FirstInspectionDate           *time.Time
	RemainingLifeYears            *float64
	RiskLevel                     *RiskLevel
	IsometricID                   *string
	InspectionTechnique           *string
	DataQualityScore              *float64
	EliminationCandidate          bool
	RequiresEngineeringReview     bool
	InspectionHistoryDates        *string
	InspectionHistoryMeasurements *string
	Notes                         string
}
