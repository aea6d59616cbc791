package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/sherpa-wfm/backend/internal/cache"
	"github.com/sherpa-wfm/backend/internal/storage"
	"github.com/sherpa-wfm/backend/internal/types"
)

// AgentsHandler serves the agent collection. Reads come from the cache,
// writes go through the store and are mirrored back into the cache so the
// broadcaster picks them up.
type AgentsHandler struct {
	store  storage.Store
	cache  *cache.AgentCache
	logger zerolog.Logger
}

// NewAgentsHandler creates a new AgentsHandler
func NewAgentsHandler(store storage.Store, agentCache *cache.AgentCache, logger zerolog.Logger) *AgentsHandler {
	return &AgentsHandler{
		store:  store,
		cache:  agentCache,
		logger: logger.With().Str("component", "agents").Logger(),
	}
}

// validateAgent checks the editable fields of an agent record
func validateAgent(record types.AgentRecord) error {
	if strings.TrimSpace(record.FullName) == "" {
		return errors.New("fullName is required")
	}
	if !strings.HasSuffix(record.Username, ".fsp") {
		return errors.New("username must end with .fsp")
	}
	if record.ContractHours < 4 || record.ContractHours > 8 {
		return errors.New("contractHours must be between 4 and 8")
	}
	return nil
}

// ListAgents handles GET /api/agents
func (h *AgentsHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	agents := h.cache.All()

	if team := r.URL.Query().Get("team"); team != "" {
		agents = h.cache.ByTeam(team)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agents)
}

// GetAgent handles GET /api/agents/{id}
func (h *AgentsHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	agent, ok := h.cache.Get(id)
	if !ok {
		http.Error(w, `{"error":"agent not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(agent)
}

// CreateAgent handles POST /api/agents
func (h *AgentsHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var record types.AgentRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := validateAgent(record); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
		return
	}

	id, err := h.store.CreateAgent(r.Context(), record)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create agent")
		http.Error(w, `{"error":"failed to create agent"}`, http.StatusInternalServerError)
		return
	}

	created, err := h.store.GetAgent(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Str("agent_id", id).Msg("failed to read back created agent")
		http.Error(w, `{"error":"failed to create agent"}`, http.StatusInternalServerError)
		return
	}
	h.cache.Upsert(created)

	h.logger.Info().Str("agent_id", id).Str("username", created.Username).Msg("agent created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// UpdateAgent handles PATCH /api/agents/{id}. The body carries only the
// fields to change; decoding on top of the stored record merges them.
func (h *AgentsHandler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.store.GetAgent(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrAgentNotFound) {
			http.Error(w, `{"error":"agent not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("agent_id", id).Msg("failed to read agent")
		http.Error(w, `{"error":"failed to update agent"}`, http.StatusInternalServerError)
		return
	}

	record := existing
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	record.ID = id

	if err := validateAgent(record); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateAgent(r.Context(), record); err != nil {
		if errors.Is(err, storage.ErrAgentNotFound) {
			http.Error(w, `{"error":"agent not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error().Err(err).Str("agent_id", id).Msg("failed to update agent")
		http.Error(w, `{"error":"failed to update agent"}`, http.StatusInternalServerError)
		return
	}
	h.cache.Upsert(record)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// DeleteAgent handles DELETE /api/agents/{id}
func (h *AgentsHandler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteAgent(r.Context(), id); err != nil {
		h.logger.Error().Err(err).Str("agent_id", id).Msg("failed to delete agent")
		http.Error(w, `{"error":"failed to delete agent"}`, http.StatusInternalServerError)
		return
	}
	h.cache.Remove(id)

	h.logger.Info().Str("agent_id", id).Msg("agent deleted")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "agent deleted"})
}
