package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MJE43/montyhall-replay-go/internal/config"
	"github.com/MJE43/montyhall-replay-go/internal/engine"
	"github.com/MJE43/montyhall-replay-go/internal/montyhall"
)

var testSeeds = engine.Seeds{Server: "sim_server_seed", Client: "sim_client_seed"}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := config.Config{
		Addr:              "127.0.0.1:0",
		LogLevel:          "disabled",
		MaxTrials:         100000,
		Workers:           2,
		RequestTimeout:    10 * time.Second,
		ReadHeaderTimeout: time.Second,
	}
	return NewServer(cfg, zerolog.Nop()).Routes()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) EngineError {
	t.Helper()
	var engineErr EngineError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&engineErr))
	return engineErr
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, EngineVersion, w.Header().Get("X-Engine-Version"))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 2, resp.Workers)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestStrategiesEndpoint(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp StrategiesResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Strategies, 3)
	assert.Equal(t, montyhall.DoorCount, resp.DoorCount)

	want := []struct {
		id   montyhall.Strategy
		name string
		rate string
	}{
		{montyhall.Stay, "Stay", "0.333333"},
		{montyhall.Random, "Random", "0.5"},
		{montyhall.Switch, "Switch", "0.666667"},
	}
	for i, w := range want {
		got := resp.Strategies[i]
		assert.Equal(t, w.id, got.ID)
		assert.Equal(t, w.name, got.Name)
		assert.Equal(t, w.rate, got.ExpectedWinRate.String())
	}
}

func TestSimulateEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := postJSON(t, h, "/api/v1/simulate", SimulateRequest{
		Strategy: "stay",
		Seeds:    testSeeds,
		Trials:   1000,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SimulateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Result)

	res := resp.Result
	assert.Equal(t, montyhall.Stay, res.Strategy)
	assert.Equal(t, uint64(1), res.NonceStart)
	assert.Equal(t, uint64(1000), res.NonceEnd)
	assert.Equal(t, uint64(1000), res.Evaluated)
	assert.Equal(t, uint64(333), res.Wins)
	assert.Equal(t, uint64(667), res.Losses)
	assert.Equal(t, "0.333", res.WinRateExact.String())
	assert.Equal(t, testSeeds.ServerHash(), res.ServerSeedHash)
	assert.False(t, res.TimedOut)
	assert.NotEmpty(t, res.RunID)
}

func TestSimulateEndpointRejectsBadInput(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name    string
		req     SimulateRequest
		errType string
	}{
		{"unknown strategy", SimulateRequest{Strategy: "swap", Seeds: testSeeds, Trials: 10}, ErrTypeInvalidStrategy},
		{"empty strategy", SimulateRequest{Seeds: testSeeds, Trials: 10}, ErrTypeInvalidStrategy},
		{"missing seed", SimulateRequest{Strategy: "switch", Trials: 10}, ErrTypeInvalidSeed},
		{"zero trials", SimulateRequest{Strategy: "switch", Seeds: testSeeds}, ErrTypeInvalidTrials},
		{"negative trials", SimulateRequest{Strategy: "switch", Seeds: testSeeds, Trials: -4}, ErrTypeInvalidTrials},
		{"too many trials", SimulateRequest{Strategy: "switch", Seeds: testSeeds, Trials: 100001}, ErrTypeInvalidTrials},
		{"negative timeout", SimulateRequest{Strategy: "switch", Seeds: testSeeds, Trials: 10, TimeoutMs: -1}, ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h, "/api/v1/simulate", tt.req)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.errType, decodeError(t, w).Type)
		})
	}
}

func TestSimulateEndpointRejectsOverflowingNonceStart(t *testing.T) {
	h := newTestServer(t)

	for _, start := range []uint64{math.MaxUint64 - 100, math.MaxUint64 - 5000, math.MaxUint64} {
		w := postJSON(t, h, "/api/v1/simulate", SimulateRequest{
			Strategy:   "stay",
			Seeds:      testSeeds,
			Trials:     10000,
			NonceStart: start,
		})
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

		engineErr := decodeError(t, w)
		assert.Equal(t, ErrTypeValidation, engineErr.Type)
		assert.Equal(t, "nonce_start", engineErr.Context["field"])
	}
}

func TestSimulateEndpointAcceptsRangeEndingAtMax(t *testing.T) {
	h := newTestServer(t)

	w := postJSON(t, h, "/api/v1/simulate", SimulateRequest{
		Strategy:   "random",
		Seeds:      testSeeds,
		Trials:     100,
		NonceStart: math.MaxUint64 - 99,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SimulateResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, uint64(math.MaxUint64), resp.Result.NonceEnd)
	assert.Equal(t, uint64(100), resp.Result.Evaluated)
	assert.False(t, resp.Result.TimedOut)
}

func TestSimulateEndpointRejectsMalformedBody(t *testing.T) {
	h := newTestServer(t)

	for _, body := range []string{`{`, `{"strategy":"stay","trials":"ten"}`, `{"strategy":"stay","unknown":1}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, ErrTypeValidation, decodeError(t, w).Type)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := postJSON(t, h, "/api/v1/verify", VerifyRequest{
		Strategy: "switch",
		Seeds:    testSeeds,
		Nonce:    7,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp VerifyResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, uint64(7), resp.Nonce)
	assert.Equal(t, testSeeds.ServerHash(), resp.ServerSeedHash)
	assert.Equal(t, testSeeds.Client, resp.ClientSeed)

	rec := resp.Record
	assert.Equal(t, montyhall.Switch, rec.Strategy)
	assert.Equal(t, 0, rec.CarIndex)
	assert.Equal(t, 0, rec.InitialPick)
	assert.Equal(t, 2, rec.Revealed)
	assert.Equal(t, 1, rec.FinalPick)
	assert.Equal(t, montyhall.Lose, rec.Outcome)
	require.Len(t, rec.Phases, 4)
	assert.Equal(t, montyhall.PhaseRevise, rec.Phases[3].Phase)
}

func TestVerifyEndpointRejectsUnknownStrategy(t *testing.T) {
	h := newTestServer(t)

	w := postJSON(t, h, "/api/v1/verify", VerifyRequest{Strategy: "always", Seeds: testSeeds, Nonce: 1})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrTypeInvalidStrategy, decodeError(t, w).Type)
}

func TestSeedHashEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := postJSON(t, h, "/api/v1/seed/hash", SeedHashRequest{ServerSeed: "abc"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SeedHashResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", resp.Hash)
	assert.NotEmpty(t, resp.EngineVersion)

	w = postJSON(t, h, "/api/v1/seed/hash", SeedHashRequest{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrTypeInvalidSeed, decodeError(t, w).Type)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/simulate", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryHandlerReportsInvariantViolation(t *testing.T) {
	eh := NewErrorHandler(zerolog.Nop())
	h := eh.RecoveryHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(&montyhall.InvariantViolation{Phase: "reveal", Detail: "no goat door left to open"})
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	engineErr := decodeError(t, w)
	assert.Equal(t, ErrTypeInvariant, engineErr.Type)
	assert.Equal(t, "reveal", engineErr.Context["phase"])
	assert.Equal(t, CategoryGame, GetErrorCategory(engineErr.Type))
}

func TestRecoveryHandlerReportsOtherPanics(t *testing.T) {
	eh := NewErrorHandler(zerolog.Nop())
	h := eh.RecoveryHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, ErrTypeInternal, decodeError(t, w).Type)
}
