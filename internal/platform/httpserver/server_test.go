package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	governanceengine "agora/contexts/protocol-governance/governance-engine"
	governancehttp "agora/contexts/protocol-governance/governance-engine/transport/http"
	settingsservice "agora/contexts/protocol-governance/settings-service"
	"agora/internal/platform/httpserver"
)

type fixture struct {
	server     *httptest.Server
	governance governanceengine.Module
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	governance := governanceengine.NewInMemoryModule(logger)
	settings := settingsservice.NewInMemoryModule(logger)

	srv := httpserver.New(governance, settings, logger, ":0")
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return fixture{server: ts, governance: governance}
}

func doJSON(t *testing.T, method string, url string, headers map[string]string, payload any) *http.Response {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestCreateMotionOverHTTP(t *testing.T) {
	fx := newFixture(t)
	fx.governance.Bank.SetBalance("alice", 10_000)

	resp := doJSON(t, http.MethodPost, fx.server.URL+"/v1/governance/motions",
		map[string]string{"X-Actor-ID": "alice", "Idempotency-Key": "create-1"},
		governancehttp.CreateMotionRequest{
			Title:          "expand quorum",
			Category:       "parameter",
			VotingDuration: 1000,
		})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var motion governancehttp.MotionResponse
	if err := json.NewDecoder(resp.Body).Decode(&motion); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if motion.MotionID != 1 || motion.Status != "draft" {
		t.Fatalf("unexpected motion response: %+v", motion)
	}
	if motion.VotingStarts != 1440 || motion.VotingEnds != 2440 {
		t.Fatalf("unexpected voting window: %+v", motion)
	}
}

func TestCreateMotionRequiresActorHeader(t *testing.T) {
	fx := newFixture(t)

	resp := doJSON(t, http.MethodPost, fx.server.URL+"/v1/governance/motions", nil,
		governancehttp.CreateMotionRequest{Title: "x", Category: "text", VotingDuration: 1000})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor header, got %d", resp.StatusCode)
	}
}

func TestDomainErrorsMapToStatusCodes(t *testing.T) {
	fx := newFixture(t)
	fx.governance.Bank.SetBalance("poor", 10)

	// Insufficient stake surfaces as 403.
	resp := doJSON(t, http.MethodPost, fx.server.URL+"/v1/governance/motions",
		map[string]string{"X-Actor-ID": "poor"},
		governancehttp.CreateMotionRequest{Title: "x", Category: "text", VotingDuration: 1000})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for insufficient stake, got %d", resp.StatusCode)
	}

	// Unknown motion surfaces as 404.
	resp = doJSON(t, http.MethodGet, fx.server.URL+"/v1/governance/motions/99", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown motion, got %d", resp.StatusCode)
	}

	// Non-numeric motion id surfaces as 400.
	resp = doJSON(t, http.MethodGet, fx.server.URL+"/v1/governance/motions/abc", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad motion id, got %d", resp.StatusCode)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	fx := newFixture(t)

	resp := doJSON(t, http.MethodGet, fx.server.URL+"/v1/governance/settings/voting-delay", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var setting struct {
		Key   string `json:"key"`
		Value uint64 `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&setting); err != nil {
		t.Fatalf("decode setting: %v", err)
	}
	if setting.Key != "voting-delay" || setting.Value != 1440 {
		t.Fatalf("unexpected setting: %+v", setting)
	}

	// Plain HTTP writes carry no governance execution authority.
	update := doJSON(t, http.MethodPut, fx.server.URL+"/v1/governance/settings/voting-delay", nil,
		map[string]uint64{"value": 2000})
	update.Body.Close()
	if update.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for ungoverned settings write, got %d", update.StatusCode)
	}
}
