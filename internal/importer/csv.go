// Package importer parses uploaded vehicle submission files into raw records.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/zhangkeAstrus/autoschedule-import/internal/common"
	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// Canonical field names an upload can be mapped onto. Everything except the
// VIN column is optional; unmapped fields stay empty.
const (
	FieldState           = "State"
	FieldCity            = "City"
	FieldZip             = "Zip"
	FieldGarageTerritory = "Garage Territory"
	FieldTownCode        = "Town Code"
	FieldCountyCode      = "County Code"
	FieldTaxTerrCode     = "Tax Terr Code"
	FieldVehicleYear     = "Vehicle Year"
	FieldMake            = "Make"
	FieldModel           = "Model"
	FieldClassCode       = "Class Code"
	FieldGVW             = "GVW"
	FieldCostNew         = "Cost New"
)

// Options controls how an upload is read.
type Options struct {
	// VINColumn is the source header holding the VIN. Required.
	VINColumn string

	// Columns maps canonical field names to source headers. Sources not
	// listed are ignored; canonical names not listed stay empty.
	Columns map[string]string

	// SkipTop rows are dropped before the header row (stray titles,
	// carrier letterhead); SkipBottom rows are dropped from the end
	// (totals, blank padding).
	SkipTop    int
	SkipBottom int
}

// ReadFile reads a delimited vehicle submission file.
func ReadFile(path string, opts Options) ([]model.RawVehicle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, opts)
}

// Read parses a delimited upload into raw vehicle records.
func Read(r io.Reader, opts Options) ([]model.RawVehicle, error) {
	if strings.TrimSpace(opts.VINColumn) == "" {
		return nil, fmt.Errorf("%w: VIN column must be selected", common.ErrInvalidConfig)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}

	if opts.SkipTop > 0 {
		if opts.SkipTop >= len(rows) {
			return nil, common.ErrNoRecords
		}
		rows = rows[opts.SkipTop:]
	}
	if len(rows) == 0 {
		return nil, common.ErrNoRecords
	}

	header := rows[0]
	rows = rows[1:]

	if opts.SkipBottom > 0 {
		if opts.SkipBottom >= len(rows) {
			rows = nil
		} else {
			rows = rows[:len(rows)-opts.SkipBottom]
		}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	vinIdx, ok := index[strings.TrimSpace(opts.VINColumn)]
	if !ok {
		return nil, fmt.Errorf("%w: VIN column %q", common.ErrMissingColumn, opts.VINColumn)
	}

	columnIdx := make(map[string]int, len(opts.Columns))
	for canonical, source := range opts.Columns {
		if source == "" {
			continue
		}
		idx, found := index[strings.TrimSpace(source)]
		if !found {
			return nil, fmt.Errorf("%w: column %q mapped to %q", common.ErrMissingColumn, source, canonical)
		}
		columnIdx[canonical] = idx
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	field := func(row []string, canonical string) string {
		idx, found := columnIdx[canonical]
		if !found {
			return ""
		}
		return cell(row, idx)
	}

	records := make([]model.RawVehicle, 0, len(rows))
	for _, row := range rows {
		records = append(records, model.RawVehicle{
			VIN:             cell(row, vinIdx),
			State:           field(row, FieldState),
			City:            field(row, FieldCity),
			Zip:             field(row, FieldZip),
			GarageTerritory: field(row, FieldGarageTerritory),
			TownCode:        field(row, FieldTownCode),
			CountyCode:      field(row, FieldCountyCode),
			TaxTerrCode:     field(row, FieldTaxTerrCode),
			VehicleYear:     field(row, FieldVehicleYear),
			Make:            field(row, FieldMake),
			Model:           field(row, FieldModel),
			ClassCode:       field(row, FieldClassCode),
			GVW:             field(row, FieldGVW),
			CostNew:         field(row, FieldCostNew),
		})
	}

	slog.Debug("Parsed upload", "rows", len(records), "mapped_columns", len(columnIdx))

	return records, nil
}
