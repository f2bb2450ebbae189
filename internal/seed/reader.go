package seed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aaron-seq/cmldb/internal/cml"
	"github.com/xuri/excelize/v2"
)

// masterDataSheet is the workbook sheet the seed script has always read.
const masterDataSheet = "CML_Master_Data"

// dateLayouts covers the formats seen in master-data exports.
var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", "02/01/2006"}

// ReadInput picks the parser from the file extension: the master-data
// workbook directly, or a CSV export of it.
func ReadInput(path string) ([]cml.CML, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadWorkbookFile(path)
	}
	return ReadFile(path)
}

// ReadWorkbookFile parses the CML_Master_Data sheet of the master-data
// Excel workbook.
func ReadWorkbookFile(path string) ([]cml.CML, int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("seed: open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(masterDataSheet)
	if err != nil {
		return nil, 0, fmt.Errorf("seed: read sheet %s: %w", masterDataSheet, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("seed: sheet %s is empty", masterDataSheet)
	}
	cols, err := headerColumns(rows[0])
	if err != nil {
		return nil, 0, err
	}

	var records []cml.CML
	failed := 0
	for _, row := range rows[1:] {
		// The workbook carries trailing blank rows; they are not data.
		if blankRow(row) {
			continue
		}
		record, err := parseRow(cols, row)
		if err != nil {
			failed++
			continue
		}
		records = append(records, record)
	}
	return records, failed, nil
}

// ReadFile parses a CSV export of the CML_Master_Data sheet.
func ReadFile(path string) ([]cml.CML, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("seed: open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CML records from CSV data. The first row must be the header
// row using the workbook's column names. Rows that fail to parse are
// counted and skipped; they never abort the load.
func Read(r io.Reader) ([]cml.CML, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("seed: read header: %w", err)
	}
	cols, err := headerColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var records []cml.CML
	failed := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			failed++
			continue
		}
		record, err := parseRow(cols, row)
		if err != nil {
			failed++
			continue
		}
		records = append(records, record)
	}
	return records, failed, nil
}

func headerColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["CML_ID"]; !ok {
		return nil, fmt.Errorf("seed: header is missing CML_ID column")
	}
	return cols, nil
}

func blankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func parseRow(cols map[string]int, row []string) (cml.CML, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	cmlID := get("CML_ID")
	if cmlID == "" {
		return cml.CML{}, fmt.Errorf("missing CML_ID")
	}

	record := cml.CML{
		CMLID:                         cmlID,
		LineID:                        optString(get("Line_ID")),
		EquipmentID:                   optString(get("Equipment_ID")),
		Facility:                      optString(get("Facility")),
		System:                        optString(get("System")),
		Commodity:                     optString(get("Commodity")),
		MaterialType:                  optString(get("Material_Type")),
		FeatureType:                   optString(get("Feature_Type")),
		CMLShape:                      optString(get("CML_Shape")),
		IsometricID:                   optString(get("Isometric_ID")),
		InspectionTechnique:           optString(get("Inspection_Technique")),
		InspectionHistoryDates:        optString(get("Inspection_History_Dates")),
		InspectionHistoryMeasurements: optString(get("Inspection_History_Measurements")),
		Notes:                         get("Notes"),
		EliminationCandidate:          parseBool(get("Elimination_Candidate")),
		RequiresEngineeringReview:     parseBool(get("Requires_Engineering_Review")),
	}

	var err error
	if record.DesignThicknessMM, err = optFloat(get("Design_Thickness_mm")); err != nil {
		return cml.CML{}, err
	}
	if record.MinAllowableThicknessMM, err = optFloat(get("Min_Allowable_Thickness_mm")); err != nil {
		return cml.CML{}, err
	}
	if record.CorrosionAllowanceMM, err = optFloat(get("Corrosion_Allowance_mm")); err != nil {
		return cml.CML{}, err
	}
	if record.CurrentThicknessMM, err = optFloat(get("Current_Thickness_mm")); err != nil {
		return cml.CML{}, err
	}
	if record.AverageCorrosionRate, err = optFloat(get("Average_Corrosion_Rate_mm_per_year")); err != nil {
		return cml.CML{}, err
	}
	if record.RemainingLifeYears, err = optFloat(get("Remaining_Life_Years")); err != nil {
		return cml.CML{}, err
	}
	if record.DataQualityScore, err = optFloat(get("Data_Quality_Score")); err != nil {
		return cml.CML{}, err
	}
	if record.YearsInService, err = optInt(get("Years_In_Service")); err != nil {
		return cml.CML{}, err
	}
	if record.NumberOfInspections, err = optInt(get("Number_of_Inspections")); err != nil {
		return cml.CML{}, err
	}
	if record.LastInspectionDate, err = optDate(get("Last_Inspection_Date")); err != nil {
		return cml.CML{}, err
	}
	if record.FirstInspectionDate, err = optDate(get("First_Inspection_Date")); err != nil {
		return cml.CML{}, err
	}

	if level, ok := cml.ParseRiskLevel(get("Risk_Level")); ok {
		record.RiskLevel = &level
	}
	return record, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return &v, nil
}

func optInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	return v, nil
}

func optDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
