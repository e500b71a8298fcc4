package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	governanceengine "agora/contexts/protocol-governance/governance-engine"
	governanceerrors "agora/contexts/protocol-governance/governance-engine/domain/errors"
	governancehttp "agora/contexts/protocol-governance/governance-engine/transport/http"
	settingsservice "agora/contexts/protocol-governance/settings-service"
	settingserrors "agora/contexts/protocol-governance/settings-service/domain/errors"
	settingshttp "agora/contexts/protocol-governance/settings-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "agora/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	governance governanceengine.Module
	settings   settingsservice.Module
}

func New(
	governance governanceengine.Module,
	settings settingsservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		governance: governance,
		settings:   settings,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for httptest-based integration tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/governance/motions", s.handleCreateMotion)
	s.mux.HandleFunc("GET /v1/governance/motions", s.handleListMotions)
	s.mux.HandleFunc("GET /v1/governance/motions/{motion_id}", s.handleGetMotion)
	s.mux.HandleFunc("GET /v1/governance/motions/{motion_id}/status", s.handleGetStatus)
	s.mux.HandleFunc("POST /v1/governance/motions/{motion_id}/actions", s.handleAddAction)
	s.mux.HandleFunc("GET /v1/governance/motions/{motion_id}/actions", s.handleListActions)
	s.mux.HandleFunc("POST /v1/governance/motions/{motion_id}/activate", s.handleActivateMotion)
	s.mux.HandleFunc("POST /v1/governance/motions/{motion_id}/ballots", s.handleCastBallot)
	s.mux.HandleFunc("GET /v1/governance/motions/{motion_id}/ballots/{voter}", s.handleGetBallot)
	s.mux.HandleFunc("GET /v1/governance/motions/{motion_id}/tally", s.handleMotionTally)
	s.mux.HandleFunc("POST /v1/governance/motions/{motion_id}/finalize", s.handleFinalizeMotion)
	s.mux.HandleFunc("POST /v1/governance/motions/{motion_id}/execute", s.handleExecuteMotion)

	s.mux.HandleFunc("GET /v1/governance/settings", s.handleListSettings)
	s.mux.HandleFunc("GET /v1/governance/settings/{key}", s.handleGetSetting)
	s.mux.HandleFunc("PUT /v1/governance/settings/{key}", s.handleUpdateSetting)
}

func (s *Server) handleCreateMotion(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}

	var req governancehttp.CreateMotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.CreateMotionHandler(
		r.Context(),
		actorID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListMotions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.ListMotionsHandler(r.Context())
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMotion(w http.ResponseWriter, r *http.Request) {
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.GetMotionHandler(r.Context(), motionID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.GetStatusHandler(r.Context(), motionID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddAction(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}

	var req governancehttp.AddActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.AddActionHandler(r.Context(), actorID, motionID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.ListActionsHandler(r.Context(), motionID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActivateMotion(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}

	resp, err := s.governance.Handler.ActivateMotionHandler(r.Context(), actorID, motionID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	actorID := resolveActorID(r)
	if actorID == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-ID header is required")
		return
	}
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}

	var req governancehttp.CastBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.governance.Handler.CastBallotHandler(r.Context(), actorID, motionID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}
	voter := r.PathValue("voter")
	resp, err := s.governance.Handler.GetBallotHandler(r.Context(), motionID, voter)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMotionTally(w http.ResponseWriter, r *http.Request) {
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.MotionTallyHandler(r.Context(), motionID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinalizeMotion(w http.ResponseWriter, r *http.Request) {
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.FinalizeMotionHandler(r.Context(), motionID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecuteMotion(w http.ResponseWriter, r *http.Request) {
	motionID, ok := parseMotionID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.ExecuteMotionHandler(r.Context(), motionID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settings.Handler.ListSettingsHandler(r.Context())
	if err != nil {
		writeSettingsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	resp, err := s.settings.Handler.GetSettingHandler(r.Context(), r.PathValue("key"))
	if err != nil {
		writeSettingsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req settingshttp.UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSettingsError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.settings.Handler.UpdateSettingHandler(r.Context(), r.PathValue("key"), req)
	if err != nil {
		writeSettingsDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeGovernanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, governanceerrors.ErrMotionNotFound):
		writeGovernanceError(w, http.StatusNotFound, "motion_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrActionNotFound):
		writeGovernanceError(w, http.StatusNotFound, "action_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrBallotNotFound):
		writeGovernanceError(w, http.StatusNotFound, "ballot_not_found", err.Error())
	case errors.Is(err, governanceerrors.ErrNotProposer):
		writeGovernanceError(w, http.StatusForbidden, "not_proposer", err.Error())
	case errors.Is(err, governanceerrors.ErrInsufficientStake):
		writeGovernanceError(w, http.StatusForbidden, "insufficient_stake", err.Error())
	case errors.Is(err, governanceerrors.ErrNoVotingPower):
		writeGovernanceError(w, http.StatusForbidden, "no_voting_power", err.Error())
	case errors.Is(err, governanceerrors.ErrInvalidCategory),
		errors.Is(err, governanceerrors.ErrInvalidDuration),
		errors.Is(err, governanceerrors.ErrInvalidChoice),
		errors.Is(err, governanceerrors.ErrInvalidActionKind),
		errors.Is(err, governanceerrors.ErrInvalidAction):
		writeGovernanceError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
	case errors.Is(err, governanceerrors.ErrInvalidStatus),
		errors.Is(err, governanceerrors.ErrVotingNotOpen),
		errors.Is(err, governanceerrors.ErrVotingClosed),
		errors.Is(err, governanceerrors.ErrTooEarly),
		errors.Is(err, governanceerrors.ErrMotionExists),
		errors.Is(err, governanceerrors.ErrTransferFailed),
		errors.Is(err, governanceerrors.ErrIdempotencyConflict),
		errors.Is(err, governanceerrors.ErrConflict):
		writeGovernanceError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, governanceerrors.ErrBalanceQuery),
		errors.Is(err, governanceerrors.ErrSettingNotFound),
		errors.Is(err, governanceerrors.ErrEffectFailed):
		writeGovernanceError(w, http.StatusBadGateway, "upstream_failure", err.Error())
	default:
		writeGovernanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSettingsDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, settingserrors.ErrSettingNotFound):
		writeSettingsError(w, http.StatusNotFound, "setting_not_found", err.Error())
	case errors.Is(err, settingserrors.ErrUnauthorized):
		writeSettingsError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, settingserrors.ErrInvalidKey),
		errors.Is(err, settingserrors.ErrInvalidValue):
		writeSettingsError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeSettingsError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, governancehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeSettingsError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, settingshttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parseMotionID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	motionID, err := strconv.ParseUint(r.PathValue("motion_id"), 10, 64)
	if err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_motion_id", "motion_id must be an unsigned integer")
		return 0, false
	}
	return motionID, true
}

func resolveActorID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Actor-ID"))
}
