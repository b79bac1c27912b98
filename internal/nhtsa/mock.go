package nhtsa

import (
	"context"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// MockDecoder is a test double returning canned decode results keyed by VIN.
type MockDecoder struct {
	Results     map[string]model.DecodedVehicle
	BatchErrors []model.BatchError
	Err         error
	Calls       [][]string
}

// DecodeAll returns the canned result for each requested VIN that has one.
func (m *MockDecoder) DecodeAll(_ context.Context, vins []string) ([]model.DecodedVehicle, []model.BatchError, error) {
	m.Calls = append(m.Calls, append([]string(nil), vins...))
	if m.Err != nil {
		return nil, nil, m.Err
	}

	var decoded []model.DecodedVehicle
	for _, v := range vins {
		if result, ok := m.Results[v]; ok {
			decoded = append(decoded, result)
		}
	}
	return decoded, m.BatchErrors, nil
}
