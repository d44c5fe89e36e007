// Package webapi exposes the store configuration and recommendation
// endpoints consumed by the dashboard UI.
package webapi

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/packhouse/boxpick/internal/catalog"
	"github.com/packhouse/boxpick/internal/configstore"
	"github.com/packhouse/boxpick/internal/models"
	"github.com/packhouse/boxpick/internal/recommend"
)

// Version is set at build time or defaults to dev.
var Version = "dev"

// Store IDs are short numeric identifiers assigned by the franchise system.
var storeIDPattern = regexp.MustCompile(`^\d{1,6}$`)

// Handlers holds the HTTP handler methods for the web API.
type Handlers struct {
	store   *configstore.Store
	catalog *catalog.Catalog
}

// NewHandlers creates a new Handlers backed by the given config store and
// box catalog. The catalog may be nil when only config endpoints are needed.
func NewHandlers(store *configstore.Store, cat *catalog.Catalog) *Handlers {
	return &Handlers{store: store, catalog: cat}
}

// RegisterRoutes registers all web API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, store *configstore.Store, cat *catalog.Catalog) {
	h := NewHandlers(store, cat)
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("GET /api/store/{id}/packing-rules", h.HandlePackingRules)
	mux.HandleFunc("POST /api/store/{id}/packing-rules", h.HandleUpdatePackingRules)
	mux.HandleFunc("DELETE /api/store/{id}/packing-rules", h.HandleResetPackingRules)
	mux.HandleFunc("GET /api/store/{id}/packing-requirements", h.HandlePackingRequirements)
	mux.HandleFunc("GET /api/store/{id}/engine-config", h.HandleEngineConfig)
	mux.HandleFunc("POST /api/store/{id}/engine-config", h.HandleUpdateEngineConfig)
	mux.HandleFunc("DELETE /api/store/{id}/engine-config", h.HandleResetEngineConfig)
	mux.HandleFunc("GET /api/store/{id}/packing-config", h.HandlePackingConfig)
	mux.HandleFunc("POST /api/store/{id}/recommendations", h.HandleRecommendations)
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: Version})
}

// HandlePackingRules returns a store's custom and effective packing rules.
func (h *Handlers) HandlePackingRules(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	custom, effective, err := h.store.PackingRules(storeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, PackingRulesResponse{CustomRules: custom, EffectiveRules: effective})
}

// HandleUpdatePackingRules replaces a store's custom packing rules.
func (h *Handlers) HandleUpdatePackingRules(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	var req PackingRulesUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.store.SetPackingRules(storeID, req.Rules); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Success: true})
}

// HandleResetPackingRules removes a store's custom packing rules.
func (h *Handlers) HandleResetPackingRules(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	if err := h.store.ResetPackingRules(storeID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "Rules reset to defaults"})
}

// HandlePackingRequirements returns the effective rule for one packing type.
func (h *Handlers) HandlePackingRequirements(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	packingType := r.URL.Query().Get("type")
	if packingType == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'type' is required")
		return
	}
	rule, err := h.store.PackingRequirements(storeID, models.PackingLevel(packingType))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// HandleEngineConfig returns a store's effective engine configuration.
func (h *Handlers) HandleEngineConfig(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	cfg, err := h.store.EngineConfig(storeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payloadFromConfig(cfg.Config, cfg.IsCustom))
}

// HandleUpdateEngineConfig validates and saves a store's engine config.
func (h *Handlers) HandleUpdateEngineConfig(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	var req EngineConfigPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.store.SetEngineConfig(storeID, req.Config()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "Engine configuration updated"})
}

// HandleResetEngineConfig removes a store's custom engine configuration.
func (h *Handlers) HandleResetEngineConfig(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	if err := h.store.ResetEngineConfig(storeID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Success: true, Message: "Engine configuration reset to defaults"})
}

// HandlePackingConfig returns the combined packing rules and engine config.
func (h *Handlers) HandlePackingConfig(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	_, effective, err := h.store.PackingRules(storeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	cfg, err := h.store.EngineConfig(storeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, PackingConfigResponse{
		Rules:        effective,
		EngineConfig: payloadFromConfig(cfg.Config, cfg.IsCustom),
	})
}

// HandleRecommendations runs the recommendation engine over the loaded
// catalog with the store's effective configuration.
func (h *Handlers) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	storeID, ok := pathStoreID(w, r)
	if !ok {
		return
	}
	if h.catalog == nil {
		writeError(w, http.StatusServiceUnavailable, "no box catalog loaded")
		return
	}

	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	for _, d := range req.ItemDimensions {
		if d <= 0 {
			writeError(w, http.StatusBadRequest, "item dimensions must be positive")
			return
		}
	}
	if req.PackingLevel == "" {
		writeError(w, http.StatusBadRequest, "packing_level is required")
		return
	}

	cfg, err := h.store.EngineConfig(storeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	engine, err := recommend.NewEngine(cfg.Config)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	recs := engine.Recommend(h.catalog.EngineBoxes(), req.ItemDimensions, req.PackingLevel)
	writeJSON(w, http.StatusOK, RecommendationResponse{Recommendations: recs, Count: len(recs)})
}

// storeID extracts and validates the store id path segment. Writes the
// error response itself when the id is missing or malformed.
func pathStoreID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if !storeIDPattern.MatchString(id) {
		writeError(w, http.StatusBadRequest, "store id must be 1-6 digits")
		return "", false
	}
	return id, true
}

// CORSMiddleware wraps a handler with CORS headers.
// If allowedOrigins is empty, no CORS header is set (same-origin only).
// Otherwise, the request Origin is checked against the allowed list.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if len(allowedOrigins) > 0 && origin != "" && allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
