// Package nhtsa provides a client for the NHTSA batch VIN decoding service.
package nhtsa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zhangkeAstrus/autoschedule-import/internal/common"
	"github.com/zhangkeAstrus/autoschedule-import/internal/model"
)

// DefaultEndpoint is the public NHTSA batch decode endpoint.
const DefaultEndpoint = "https://vpic.nhtsa.dot.gov/api/vehicles/DecodeVINValuesBatch/"

// defaultBatchSize is the service's documented per-request VIN limit.
const defaultBatchSize = 50

// Config holds decode client configuration.
type Config struct {
	Endpoint  string
	BatchSize int
	Timeout   time.Duration

	// Progress, when set, is called after each batch completes
	// (successfully or not).
	Progress func(done, total int)
}

// Client calls the decoding service one batch at a time.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	cfg        Config
	retryOpts  common.RetryOptions
}

// NewClient creates a decode client with the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > defaultBatchSize {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.Default().With("component", "nhtsa"),
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     15 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// decodeResponse is the service's JSON envelope.
type decodeResponse struct {
	Count   int            `json:"Count"`
	Message string         `json:"Message"`
	Results []decodeResult `json:"Results"`
}

type decodeResult struct {
	VIN         string `json:"VIN"`
	Make        string `json:"Make"`
	Model       string `json:"Model"`
	VehicleType string `json:"VehicleType"`
	GVWR        string `json:"GVWR"`
	BodyClass   string `json:"BodyClass"`
	ModelYear   string `json:"ModelYear"`
	ErrorCode   string `json:"ErrorCode"`
	ErrorText   string `json:"ErrorText"`
}

// DecodeAll decodes the given VINs in sequential batches. A batch-level
// transport failure is reported in the returned BatchError slice and the
// remaining batches still execute; VINs in a failed batch simply produce no
// result. The error return is non-nil only for context cancellation.
func (c *Client) DecodeAll(ctx context.Context, vins []string) ([]model.DecodedVehicle, []model.BatchError, error) {
	if len(vins) == 0 {
		return nil, nil, nil
	}

	totalBatches := (len(vins) + c.cfg.BatchSize - 1) / c.cfg.BatchSize
	c.logger.Info("Decoding VINs",
		"vins", len(vins),
		"batches", totalBatches,
		"batch_size", c.cfg.BatchSize)

	var results []model.DecodedVehicle
	var batchErrors []model.BatchError

	for i := 0; i < len(vins); i += c.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return results, batchErrors, err
		}

		end := i + c.cfg.BatchSize
		if end > len(vins) {
			end = len(vins)
		}
		batch := vins[i:end]
		batchNum := i/c.cfg.BatchSize + 1

		decoded, err := c.decodeBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return results, batchErrors, ctx.Err()
			}
			c.logger.Error("Decode batch failed",
				"batch", batchNum,
				"vins", len(batch),
				"error", err)
			batchErrors = append(batchErrors, model.BatchError{
				Batch:   batchNum,
				Size:    len(batch),
				Message: err.Error(),
			})
		} else {
			results = append(results, decoded...)
		}

		if c.cfg.Progress != nil {
			c.cfg.Progress(batchNum, totalBatches)
		}
	}

	c.logger.Info("Decode complete",
		"decoded", len(results),
		"failed_batches", len(batchErrors))

	return results, batchErrors, nil
}

// decodeBatch issues one form-encoded POST for up to BatchSize VINs.
func (c *Client) decodeBatch(ctx context.Context, vins []string) ([]model.DecodedVehicle, error) {
	form := url.Values{}
	form.Set("format", "json")
	form.Set("data", strings.Join(vins, ";"))

	var decoded []model.DecodedVehicle

	retryErr := common.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, strings.NewReader(form.Encode()))
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &common.RetryableError{
				Err:       fmt.Errorf("%w: status %d", common.ErrDecodeService, resp.StatusCode),
				Retryable: true,
			}
		default:
			return fmt.Errorf("%w: status %d", common.ErrDecodeService, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}

		var envelope decodeResponse
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("failed to parse decode response: %w", err)
		}

		decoded = decoded[:0]
		for _, r := range envelope.Results {
			decoded = append(decoded, model.DecodedVehicle{
				VIN:         r.VIN,
				Make:        r.Make,
				Model:       r.Model,
				VehicleType: r.VehicleType,
				GVWR:        r.GVWR,
				BodyClass:   r.BodyClass,
				ModelYear:   r.ModelYear,
				ErrorCode:   normalizeErrorCode(r.ErrorCode),
				ErrorText:   r.ErrorText,
			})
		}
		return nil
	}, c.retryOpts)

	if retryErr != nil {
		return nil, retryErr
	}

	return decoded, nil
}

// normalizeErrorCode treats the service's "0" success code as no error.
func normalizeErrorCode(code string) string {
	if code == "0" {
		return ""
	}
	return code
}
