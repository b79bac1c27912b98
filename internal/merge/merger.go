// Package merge combines decoded vehicle attributes with raw uploaded
// attributes into the working record set.
package merge

import (
	"strings"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// prefer returns the decoded value when non-empty, otherwise the raw value.
// Decoded attributes win; raw values only fill gaps.
func prefer(decoded, raw string) string {
	if strings.TrimSpace(decoded) != "" {
		return decoded
	}
	return raw
}

// Merge joins decoded results onto the uploaded rows by normalized VIN.
//
// Every uploaded row produces exactly one output row, in upload order;
// duplicate VINs each join the same decode result. Rows whose VIN never
// decoded are retained with decoded-only fields empty. Decoded results for
// VINs absent from the upload are appended at the end so the output covers
// the union of both tables.
//
// rawVINs carries the normalized VIN per uploaded row (index-aligned with
// raws); normalization happens upstream so the raw values stay untouched.
func Merge(raws []model.RawVehicle, rawVINs []string, decoded []model.DecodedVehicle) []model.VehicleRecord {
	byVIN := make(map[string]*model.DecodedVehicle, len(decoded))
	for i := range decoded {
		byVIN[decoded[i].VIN] = &decoded[i]
	}

	records := make([]model.VehicleRecord, 0, len(raws))
	seen := make(map[string]bool, len(raws))

	for i, raw := range raws {
		normalized := ""
		if i < len(rawVINs) {
			normalized = rawVINs[i]
		}
		seen[normalized] = true

		rec := model.VehicleRecord{
			RawVIN:          raw.VIN,
			VIN:             normalized,
			VINModified:     normalized != raw.VIN,
			State:           raw.State,
			City:            raw.City,
			Zip:             raw.Zip,
			GarageTerritory: raw.GarageTerritory,
			TownCode:        raw.TownCode,
			CountyCode:      raw.CountyCode,
			TaxTerrCode:     raw.TaxTerrCode,
			VehicleYear:     raw.VehicleYear,
			Make:            raw.Make,
			Model:           raw.Model,
			ClassCode:       raw.ClassCode,
			GVW:             raw.GVW,
			CostNew:         raw.CostNew,
		}

		if dec, ok := byVIN[normalized]; ok && normalized != "" {
			applyDecoded(&rec, dec)
		}

		records = append(records, rec)
	}

	// Decoded VINs that never appeared in the upload.
	for i := range decoded {
		dec := &decoded[i]
		if dec.VIN == "" || seen[dec.VIN] {
			continue
		}
		rec := model.VehicleRecord{
			RawVIN: dec.VIN,
			VIN:    dec.VIN,
		}
		applyDecoded(&rec, dec)
		records = append(records, rec)
	}

	return records
}

// applyDecoded overlays decoded attributes onto a record, decoded values
// taking priority over whatever the upload supplied.
func applyDecoded(rec *model.VehicleRecord, dec *model.DecodedVehicle) {
	rec.Decoded = true
	rec.DecodeErrorCode = dec.ErrorCode
	rec.DecodeErrorText = dec.ErrorText

	rec.Make = prefer(dec.Make, rec.Make)
	rec.Model = prefer(dec.Model, rec.Model)
	rec.VehicleYear = prefer(dec.ModelYear, rec.VehicleYear)
	rec.DeclaredType = dec.VehicleType
	rec.BodyClass = dec.BodyClass
	rec.GVWRText = dec.GVWR
	rec.Weight = dec.Weight

	rec.Category = dec.Category
	rec.ClassCode = prefer(dec.ClassCode, rec.ClassCode)
	rec.VehicleTypeCode = dec.VehicleTypeCode
}
