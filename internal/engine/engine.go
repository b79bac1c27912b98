// Package engine orchestrates the classification pipeline: normalize,
// decode, classify, merge. Each stage takes explicit inputs and returns
// values; there is no ambient session state.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zhangkeAstrus/autoschedule-import/internal/classify"
	"github.com/zhangkeAstrus/autoschedule-import/internal/merge"
	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
	"github.com/zhangkeAstrus/autoschedule-import/internal/vin"
)

// Pipeline runs the classification stages over an uploaded record set.
type Pipeline struct {
	decoder    Decoder
	classifier *classify.Classifier
	cache      DecodeCache
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache enables the local decode cache.
func WithCache(cache DecodeCache) Option {
	return func(p *Pipeline) {
		p.cache = cache
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a classification pipeline.
func New(decoder Decoder, classifier *classify.Classifier, opts ...Option) (*Pipeline, error) {
	if decoder == nil {
		return nil, fmt.Errorf("decoder cannot be nil")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier cannot be nil")
	}

	p := &Pipeline{
		decoder:    decoder,
		classifier: classifier,
		logger:     slog.Default().With("component", "engine"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Result is the outcome of one pipeline run.
type Result struct {
	Records     []model.VehicleRecord
	Decoded     []model.DecodedVehicle
	BatchErrors []model.BatchError

	UniqueVINs   int
	CacheHits    int
	DecodeMisses int
}

// Run executes the pipeline over the uploaded rows: normalizes VINs,
// decodes each distinct VIN once (cache first, then the service), enriches
// decode results with weight, rating category and class codes, and merges
// decoded attributes onto every uploaded row. Duplicate VINs in the upload
// share one decode result but remain separate rows.
func (p *Pipeline) Run(ctx context.Context, raws []model.RawVehicle) (*Result, error) {
	normalized := make([]string, len(raws))
	seen := make(map[string]bool)
	var unique []string
	for i := range raws {
		normalized[i] = vin.Normalize(raws[i].VIN)
		if normalized[i] != "" && !seen[normalized[i]] {
			seen[normalized[i]] = true
			unique = append(unique, normalized[i])
		}
	}

	result := &Result{UniqueVINs: len(unique)}

	cached, missing, err := p.lookupCache(ctx, unique)
	if err != nil {
		return nil, err
	}
	result.CacheHits = len(cached)

	var decoded []model.DecodedVehicle
	decoded = append(decoded, cached...)

	if len(missing) > 0 {
		fresh, batchErrs, err := p.decoder.DecodeAll(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("decode failed: %w", err)
		}
		result.BatchErrors = batchErrs

		if p.cache != nil && len(fresh) > 0 {
			if err := p.cache.StoreDecoded(ctx, fresh); err != nil {
				p.logger.Warn("Failed to cache decode results", "error", err)
			}
		}
		decoded = append(decoded, fresh...)
	}

	for i := range decoded {
		p.enrich(&decoded[i])
		if decoded[i].ErrorCode != "" {
			result.DecodeMisses++
		}
	}
	result.Decoded = decoded

	result.Records = merge.Merge(raws, normalized, decoded)

	p.logger.Info("Pipeline run complete",
		"rows", len(raws),
		"unique_vins", result.UniqueVINs,
		"cache_hits", result.CacheHits,
		"decoded", len(decoded),
		"decode_misses", result.DecodeMisses,
		"failed_batches", len(result.BatchErrors))

	return result, nil
}

// lookupCache splits the unique VINs into cached results and VINs that
// still need a service call. Without a cache everything is a miss.
func (p *Pipeline) lookupCache(ctx context.Context, unique []string) ([]model.DecodedVehicle, []string, error) {
	if p.cache == nil {
		return nil, unique, nil
	}

	hits, err := p.cache.LookupDecoded(ctx, unique)
	if err != nil {
		return nil, nil, fmt.Errorf("decode cache lookup failed: %w", err)
	}

	var cached []model.DecodedVehicle
	var missing []string
	for _, v := range unique {
		if hit, ok := hits[v]; ok {
			cached = append(cached, hit)
		} else {
			missing = append(missing, v)
		}
	}
	return cached, missing, nil
}

// enrich derives weight, rating category and codes on a decode result.
func (p *Pipeline) enrich(dec *model.DecodedVehicle) {
	dec.Weight = vin.ExtractWeight(dec.GVWR)
	dec.Category = p.classifier.Classify(dec.VehicleType, dec.BodyClass, dec.Weight)
	dec.ClassCode = classify.ClassCode(dec.Category)
	dec.VehicleTypeCode = classify.VehicleTypeCode(dec.ClassCode)
}
