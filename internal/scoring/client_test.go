package scoring_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwvelando/lender-marketplace/internal/marketplace"
	"github.com/iwvelando/lender-marketplace/internal/scoring"
	"github.com/iwvelando/lender-marketplace/pkg/testutil"
)

func fastRetry(attempts int) scoring.Option {
	return scoring.WithRetry(scoring.RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		Multiplier:     2,
	})
}

func sampleFeatures() scoring.Features {
	app := testutil.SampleApplication()
	return scoring.NewFeatures(app, marketplace.ComputeMetrics(app))
}

func TestScoreSendsFeatures(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/score", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"pd":0.0421,"recommended_apr":0.0563,"model_version":"2024.06"}`))
	}))
	defer srv.Close()

	client := scoring.NewClient(nil, srv.URL+"/", fastRetry(1))
	score, err := client.Score(context.Background(), sampleFeatures())
	require.NoError(t, err)

	assert.InDelta(t, 0.0421, score.PD, 1e-9)
	assert.InDelta(t, 5.63, score.RecommendedAPRPercent(), 1e-9)
	assert.Equal(t, "2024.06", score.ModelVersion)

	assert.Equal(t, 5000.0, got["income_monthly"])
	assert.Equal(t, 400.0, got["other_debt_monthly"])
	assert.Equal(t, 1200.0, got["housing_cost"])
	assert.Equal(t, 29660.0, got["principal"])
	assert.Equal(t, 60.0, got["term_months"])
	assert.Equal(t, "CA", got["state"])
	assert.InDelta(t, 0.9887, got["ltv"].(float64), 1e-4)
	assert.InDelta(t, 0.4403, got["dti"].(float64), 1e-4)
}

func TestScoreRetries(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		attempts  int
		wantCalls int32
		wantError bool
	}{
		{"Recovers after 503", []int{503, 200}, 3, 2, false},
		{"Recovers after 429", []int{429, 429, 200}, 3, 3, false},
		{"Gives up after max attempts", []int{500, 500, 500, 200}, 3, 3, true},
		{"Does not retry 400", []int{400, 200}, 3, 1, true},
		{"Does not retry 404", []int{404, 200}, 3, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				status := tt.statuses[n-1]
				if status != http.StatusOK {
					http.Error(w, "nope", status)
					return
				}
				_, _ = w.Write([]byte(`{"pd":0.1,"recommended_apr":0.065,"model_version":"v1"}`))
			}))
			defer srv.Close()

			client := scoring.NewClient(nil, srv.URL, fastRetry(tt.attempts))
			_, err := client.Score(context.Background(), sampleFeatures())

			assert.Equal(t, tt.wantCalls, calls.Load())
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, scoring.ErrUnavailable))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestScoreTransportErrorIsRetried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := scoring.NewClient(nil, url, fastRetry(2))
	_, err := client.Score(context.Background(), sampleFeatures())
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrUnavailable)
}

func TestScoreTimeoutPerAttempt(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			return
		}
		_, _ = w.Write([]byte(`{"pd":0.2,"recommended_apr":0.08,"model_version":"v1"}`))
	}))
	defer srv.Close()
	defer close(release)

	client := scoring.NewClient(nil, srv.URL, scoring.WithTimeout(50*time.Millisecond), fastRetry(2))
	score, err := client.Score(context.Background(), sampleFeatures())
	require.NoError(t, err)
	assert.InDelta(t, 0.2, score.PD, 1e-9)
	assert.Equal(t, int32(2), calls.Load())
}

func TestScoreStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := scoring.NewClient(nil, srv.URL, fastRetry(5))
	_, err := client.Score(ctx, sampleFeatures())
	require.Error(t, err)
	assert.LessOrEqual(t, calls.Load(), int32(1))
}

func TestScoreRejectsBadInput(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"pd":1.7,"recommended_apr":0.3,"model_version":"v1"}`))
	}))
	defer srv.Close()

	client := scoring.NewClient(nil, srv.URL, fastRetry(3))

	features := sampleFeatures()
	features.DTI = math.Inf(1)
	_, err := client.Score(context.Background(), features)
	assert.ErrorIs(t, err, scoring.ErrInvalidFeatures)
	assert.Equal(t, int32(0), calls.Load())

	_, err = client.Score(context.Background(), sampleFeatures())
	assert.ErrorIs(t, err, scoring.ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "an out-of-range pd is not retried")
}
