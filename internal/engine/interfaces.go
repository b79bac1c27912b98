package engine

import (
	"context"

	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// Decoder resolves normalized VINs to decoded attributes, reporting
// transport failures per batch without aborting the run.
type Decoder interface {
	DecodeAll(ctx context.Context, vins []string) ([]model.DecodedVehicle, []model.BatchError, error)
}

// DecodeCache resolves previously decoded VINs locally.
type DecodeCache interface {
	LookupDecoded(ctx context.Context, vins []string) (map[string]model.DecodedVehicle, error)
	StoreDecoded(ctx context.Context, decoded []model.DecodedVehicle) error
}
