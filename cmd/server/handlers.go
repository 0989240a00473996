package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	dreamlethe "github.com/mickey530447/dream-and-lethe"
	"github.com/mickey530447/dream-and-lethe/metrics"
	"github.com/mickey530447/dream-and-lethe/partition"
	"github.com/mickey530447/dream-and-lethe/roster"
)

type handler struct {
	engine  dreamlethe.Engine
	store   *roster.Store
	metrics metrics.Collector
}

func newHandler(e dreamlethe.Engine, s *roster.Store, c metrics.Collector) *handler {
	return &handler{engine: e, store: s, metrics: c}
}

// POST /assign
// Accepts an explicit name list, or a user_id whose stored roster supplies
// the candidates.
func (h *handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Names      []string `json:"names"`
		UserID     string   `json:"user_id,omitempty"`
		Capacities []int    `json:"capacities,omitempty"`
		Seed       int64    `json:"seed,omitempty"`
		Trials     int      `json:"trials,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	names := req.Names
	if len(names) == 0 && req.UserID != "" {
		stored, err := h.store.List(ctx, req.UserID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading roster failed")
			slog.Error("assign: loading roster", "user", req.UserID, "error", err)
			return
		}
		names = stored
	}
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, "names or user_id is required")
		return
	}

	// Bound parameters.
	if req.Trials < 0 || req.Trials > 100000 {
		req.Trials = 0 // use default
	}

	var opts []dreamlethe.AssignOption
	if req.Seed != 0 {
		opts = append(opts, dreamlethe.WithSeed(req.Seed))
	}
	if req.Trials > 0 {
		opts = append(opts, dreamlethe.WithTrials(req.Trials))
	}
	if len(req.Capacities) > 0 {
		opts = append(opts, dreamlethe.WithCapacities(req.Capacities))
	}

	res, err := h.engine.Assign(ctx, names, opts...)
	if err != nil {
		if errors.Is(err, partition.ErrInvalidCapacities) {
			writeError(w, http.StatusBadRequest, "invalid capacities")
			return
		}
		writeError(w, http.StatusInternalServerError, "assignment failed")
		slog.Error("assign error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// GET /names?q=&limit=
// Autocomplete over the registry, matching case-insensitive substrings.
func (h *handler) handleNames(w http.ResponseWriter, r *http.Request) {
	limit := 25
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n < limit {
			limit = n
		}
	}

	names := h.engine.Suggest(r.URL.Query().Get("q"), limit)
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"names": names,
	})
}

// GET /roster/{user}
func (h *handler) handleRosterList(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	names, err := h.store.List(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing roster failed")
		slog.Error("roster list error", "user", user, "error", err)
		return
	}

	h.metrics.ObserveRosterOp("list")
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"names": names,
		"count": len(names),
	})
}

// POST /roster/{user}/names
// The name is resolved against the registry before it is stored, so rosters
// only ever hold canonical spellings.
func (h *handler) handleRosterAdd(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	canonical, ok := h.engine.Resolve(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error":       fmt.Sprintf("unknown name %q", name),
			"suggestions": h.engine.Suggest(name, 5),
		})
		return
	}

	if err := h.store.Add(r.Context(), user, canonical); err != nil {
		if errors.Is(err, roster.ErrDuplicateName) {
			writeError(w, http.StatusConflict, fmt.Sprintf("%s is already on the roster", canonical))
			return
		}
		writeError(w, http.StatusInternalServerError, "storing name failed")
		slog.Error("roster add error", "user", user, "name", canonical, "error", err)
		return
	}

	h.metrics.ObserveRosterOp("add")
	writeJSON(w, http.StatusOK, map[string]string{"name": canonical})
}

// DELETE /roster/{user}/names/{name}
func (h *handler) handleRosterRemove(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	name := r.PathValue("name")

	// Resolve for a canonical response; removal itself matches stored rows
	// case-insensitively either way.
	if canonical, ok := h.engine.Resolve(name); ok {
		name = canonical
	}

	if err := h.store.Remove(r.Context(), user, name); err != nil {
		if errors.Is(err, roster.ErrNameNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s is not on the roster", name))
			return
		}
		writeError(w, http.StatusInternalServerError, "removing name failed")
		slog.Error("roster remove error", "user", user, "name", name, "error", err)
		return
	}

	h.metrics.ObserveRosterOp("remove")
	writeJSON(w, http.StatusOK, map[string]string{"removed": name})
}

// DELETE /roster/{user}
func (h *handler) handleRosterClear(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	n, err := h.store.Clear(r.Context(), user)
	if err != nil {
		if errors.Is(err, roster.ErrEmptyRoster) {
			writeError(w, http.StatusNotFound, "roster is already empty")
			return
		}
		writeError(w, http.StatusInternalServerError, "clearing roster failed")
		slog.Error("roster clear error", "user", user, "error", err)
		return
	}

	h.metrics.ObserveRosterOp("clear")
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

// GET /roster/{user}/command
// Builds the slash command equivalent of the stored roster so users can
// paste it elsewhere.
func (h *handler) handleRosterCommand(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")

	names, err := h.store.List(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing roster failed")
		slog.Error("roster command error", "user", user, "error", err)
		return
	}
	if len(names) == 0 {
		writeError(w, http.StatusNotFound, "roster is empty")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"command": "/assign " + strings.Join(names, ", "),
	})
}

// POST /admin/reset
func (h *handler) handleAdminReset(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed")
		slog.Error("admin reset error", "error", err)
		return
	}
	n, err := h.store.ResetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed")
		slog.Error("admin reset error", "error", err)
		return
	}

	h.metrics.ObserveRosterOp("reset")
	slog.Info("admin reset", "users_cleared", len(users), "names_cleared", n)
	writeJSON(w, http.StatusOK, map[string]int{
		"users_cleared": len(users),
		"names_cleared": n,
	})
}

// GET /stats
func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	engineStats, err := h.engine.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats failed")
		slog.Error("engine stats error", "error", err)
		return
	}
	rosterStats, err := h.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats failed")
		slog.Error("roster stats error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"engine": engineStats,
		"roster": rosterStats,
	})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
