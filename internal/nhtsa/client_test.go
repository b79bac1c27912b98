package nhtsa

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(vins []string) string {
	var results []string
	for _, v := range vins {
		results = append(results, fmt.Sprintf(
			`{"VIN":%q,"Make":"FORD","Model":"F-150","VehicleType":"TRUCK","GVWR":"Class 2E: 6,001 - 7,000 lb","BodyClass":"Pickup","ModelYear":"2020","ErrorCode":"0","ErrorText":""}`, v))
	}
	return fmt.Sprintf(`{"Count":%d,"Message":"ok","Results":[%s]}`, len(vins), strings.Join(results, ","))
}

func TestDecodeAllBatches(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "json", r.Form.Get("format"))
		data := r.Form.Get("data")
		requests = append(requests, data)
		vins := strings.Split(data, ";")
		_, _ = w.Write([]byte(decodeJSON(vins)))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, BatchSize: 2})

	vins := []string{"VIN1", "VIN2", "VIN3", "VIN4", "VIN5"}
	decoded, batchErrs, err := client.DecodeAll(context.Background(), vins)
	require.NoError(t, err)
	assert.Empty(t, batchErrs)
	assert.Len(t, decoded, 5)
	require.Len(t, requests, 3, "5 VINs at batch size 2 means 3 requests")
	assert.Equal(t, "VIN1;VIN2", requests[0])
	assert.Equal(t, "VIN5", requests[2])

	assert.Equal(t, "FORD", decoded[0].Make)
	assert.Equal(t, "", decoded[0].ErrorCode, "service success code 0 maps to no error")
}

func TestDecodeAllBatchFailureContinues(t *testing.T) {
	var call int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		require.NoError(t, r.ParseForm())
		vins := strings.Split(r.Form.Get("data"), ";")
		// Second batch persistently fails with a non-retryable status.
		if call == 2 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(decodeJSON(vins)))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL, BatchSize: 1})

	decoded, batchErrs, err := client.DecodeAll(context.Background(), []string{"VIN1", "VIN2", "VIN3"})
	require.NoError(t, err, "batch failures must not abort the run")
	assert.Len(t, decoded, 2, "failed batch yields no rows, later batches still run")
	require.Len(t, batchErrs, 1)
	assert.Equal(t, 2, batchErrs[0].Batch)
	assert.Equal(t, 1, batchErrs[0].Size)
}

func TestDecodeAllRetriesServerErrors(t *testing.T) {
	var call int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call++
		if call == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		require.NoError(t, r.ParseForm())
		vins := strings.Split(r.Form.Get("data"), ";")
		_, _ = w.Write([]byte(decodeJSON(vins)))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL})
	client.retryOpts.InitialDelay = 1 // keep the test fast

	decoded, batchErrs, err := client.DecodeAll(context.Background(), []string{"VIN1"})
	require.NoError(t, err)
	assert.Empty(t, batchErrs)
	assert.Len(t, decoded, 1)
	assert.Equal(t, 2, call)
}

func TestDecodeAllErrorCodedRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"Count":1,"Message":"ok","Results":[
			{"VIN":"BADVIN","Make":"","Model":"","VehicleType":"","GVWR":"","BodyClass":"","ModelYear":"","ErrorCode":"8","ErrorText":"No detailed data available"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{Endpoint: server.URL})

	decoded, _, err := client.DecodeAll(context.Background(), []string{"BADVIN"})
	require.NoError(t, err)
	require.Len(t, decoded, 1, "error-coded rows still participate downstream")
	assert.Equal(t, "8", decoded[0].ErrorCode)
	assert.Equal(t, "No detailed data available", decoded[0].ErrorText)
}

func TestDecodeAllProgress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		vins := strings.Split(r.Form.Get("data"), ";")
		_, _ = w.Write([]byte(decodeJSON(vins)))
	}))
	defer server.Close()

	var progress [][2]int
	client := NewClient(Config{
		Endpoint:  server.URL,
		BatchSize: 2,
		Progress: func(done, total int) {
			progress = append(progress, [2]int{done, total})
		},
	})

	_, _, err := client.DecodeAll(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, progress)
}

func TestDecodeAllEmptyInput(t *testing.T) {
	client := NewClient(Config{})
	decoded, batchErrs, err := client.DecodeAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
	assert.Nil(t, batchErrs)
}
