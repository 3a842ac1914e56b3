package http

import (
	"net/http"
	"sort"

	"Bookstore_API/internal/cache"
	"Bookstore_API/internal/logger"
	"Bookstore_API/internal/models"

	"github.com/gorilla/mux"
)

// ListUsers handles GET /api/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params, err := models.ParseListParams(r.URL.Query())
	if err != nil {
		h.writeServiceError(w, r, logger.OpListUsers, err)
		return
	}

	page, err := h.users.ListUsers(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, r, logger.OpListUsers, err)
		return
	}
	h.respond(w, r, logger.OpListUsers, http.StatusOK, page)
}

// GetUser handles GET /api/admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, logger.OpListUsers, err)
		return
	}
	h.respond(w, r, logger.OpListUsers, http.StatusOK, user)
}

// UpdateUser handles PUT /api/admin/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var update models.UserUpdate
	if err := h.decodeBody(w, r, &update); err != nil {
		h.writeServiceError(w, r, logger.OpUpdateUser, err)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		h.writeServiceError(w, r, logger.OpUpdateUser, err)
		return
	}
	h.respond(w, r, logger.OpUpdateUser, http.StatusOK, user)
}

// Dashboard handles GET /api/admin/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.GetStats(r.Context())
	if err != nil {
		h.writeServiceError(w, r, logger.OpDashboard, err)
		return
	}
	h.respond(w, r, logger.OpDashboard, http.StatusOK, stats)
}

// CacheStatsResponse reports every named cache store
type CacheStatsResponse struct {
	Stores map[string]cache.Stats `json:"stores"`
}

// CacheSweepResponse reports the entries removed per store
type CacheSweepResponse struct {
	Removed map[string]int `json:"removed"`
}

// CacheStats handles GET /api/admin/cache/stats
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response := CacheStatsResponse{Stores: make(map[string]cache.Stats, len(h.stores))}

	for _, name := range h.storeNames() {
		stats, err := h.stores[name].Stats(ctx)
		if err != nil {
			h.writeServiceError(w, r, logger.OpCacheAdmin, err)
			return
		}
		response.Stores[name] = stats
	}

	h.respond(w, r, logger.OpCacheAdmin, http.StatusOK, response)
}

// ClearCache handles POST /api/admin/cache/clear
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	for _, name := range h.storeNames() {
		if err := h.stores[name].Clear(ctx); err != nil {
			h.writeServiceError(w, r, logger.OpCacheAdmin, err)
			return
		}
	}

	h.logger.LogSuccess(ctx, logger.OpCacheAdmin, "", "Cleared all cache stores", map[string]interface{}{
		"stores": h.storeNames(),
	})
	w.WriteHeader(http.StatusNoContent)
}

// SweepCache handles POST /api/admin/cache/sweep
func (h *Handler) SweepCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response := CacheSweepResponse{Removed: make(map[string]int, len(h.stores))}

	for _, name := range h.storeNames() {
		removed, err := h.stores[name].SweepExpired(ctx)
		if err != nil {
			h.writeServiceError(w, r, logger.OpCacheAdmin, err)
			return
		}
		response.Removed[name] = removed
	}

	h.logger.LogSuccess(ctx, logger.OpCacheAdmin, "", "Swept expired cache entries", map[string]interface{}{
		"removed": response.Removed,
	})
	h.respond(w, r, logger.OpCacheAdmin, http.StatusOK, response)
}

func (h *Handler) storeNames() []string {
	names := make([]string, 0, len(h.stores))
	for name := range h.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
