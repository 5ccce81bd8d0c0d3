// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package moderator exposes the operator HTTP API over the matchmaking directory.
package moderator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AccelByte/extend-mission-matchmaker/pkg/config"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-mission-matchmaker/pkg/models"
)

const traceHeader = "X-Trace-Id"

type Handler struct {
	directory matchmaker.ModeratorService
}

type statsResponse struct {
	Success bool `json:"success"`
	matchmaker.Stats
}

type configResponse struct {
	Success bool            `json:"success"`
	Config  config.Settings `json:"config"`
}

type matchResponse struct {
	Success bool                 `json:"success"`
	Match   models.MatchSnapshot `json:"match"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Code    int    `json:"code"`
}

func NewHandler(directory matchmaker.ModeratorService) *Handler {
	return &Handler{directory: directory}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/stats", h.handleStats)
	r.Post("/config", h.handleUpdateConfig)
	r.Post("/match/create", h.handleCreateMatch)
	r.Post("/match/{matchID}/end", h.handleEndMatch)
	r.Delete("/match/{matchID}", h.handleDeleteMatch)
	r.Post("/player/{playerName}/kick", h.handleKick)

	return r
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: h.directory.Stats()})
}

func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	scope := newScope(r, "Moderator.UpdateConfig")
	defer scope.Finish()

	var update config.ConfigUpdate
	if err := decode(r, &update); err != nil {
		writeError(scope, w, err)
		return
	}

	settings, err := h.directory.UpdateSettings(scope, update)
	if err != nil {
		writeError(scope, w, err)
		return
	}
	writeJSON(w, http.StatusOK, configResponse{Success: true, Config: settings})
}

func (h *Handler) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	scope := newScope(r, "Moderator.CreateMatch")
	defer scope.Finish()

	var requested models.MatchConfig
	if err := decode(r, &requested); err != nil {
		writeError(scope, w, err)
		return
	}

	snapshot, err := h.directory.CreateMatch(scope, requested)
	if err != nil {
		writeError(scope, w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchResponse{Success: true, Match: snapshot})
}

func (h *Handler) handleEndMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	scope := newScope(r, "Moderator.EndMatch").WithMatch(matchID)
	defer scope.Finish()

	if err := h.directory.EndMatch(scope, matchID); err != nil {
		writeError(scope, w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true, Message: fmt.Sprintf("match %s ended", matchID)})
}

func (h *Handler) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "matchID")
	scope := newScope(r, "Moderator.DeleteMatch").WithMatch(matchID)
	defer scope.Finish()

	if err := h.directory.DeleteMatch(scope, matchID); err != nil {
		writeError(scope, w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true, Message: fmt.Sprintf("match %s deleted", matchID)})
}

func (h *Handler) handleKick(w http.ResponseWriter, r *http.Request) {
	playerName := chi.URLParam(r, "playerName")
	scope := newScope(r, "Moderator.Kick").WithPlayer(playerName)
	defer scope.Finish()

	if err := h.directory.Kick(scope, playerName); err != nil {
		writeError(scope, w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Success: true, Message: fmt.Sprintf("%s kicked", playerName)})
}

func newScope(r *http.Request, name string) *envelope.Scope {
	scope := envelope.NewRootScope(r.Context(), name, r.Header.Get(traceHeader))
	if requestID := middleware.GetReqID(r.Context()); requestID != "" {
		scope.Log = scope.Log.WithField("requestID", requestID)
	}
	return scope
}

func decode(r *http.Request, into interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(into)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: request body: %v", models.ErrInvalidConfig, err)
	}
	return nil
}

func statusOf(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindStaleState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(scope *envelope.Scope, w http.ResponseWriter, err error) {
	status := statusOf(err)
	scope.RecordError(err)
	scope.Log.WithError(err).Warnf("moderator request failed with %d", status)

	writeJSON(w, status, errorResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    models.KindOf(err).String(),
		Code:    models.ErrorCode(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
