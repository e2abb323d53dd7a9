package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/abhishektang/WeatherWise/internal/models"
	"github.com/abhishektang/WeatherWise/internal/services"
	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

// FavoritesHandler handles the saved-locations API endpoints
type FavoritesHandler struct {
	favoritesService *services.FavoritesService
	validate         *validator.Validate
	logger           *logging.StructuredLogger
	metrics          *metrics.Collector
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(
	favoritesService *services.FavoritesService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *FavoritesHandler {
	return &FavoritesHandler{
		favoritesService: favoritesService,
		validate:         validator.New(),
		logger:           logger,
		metrics:          metricsCollector,
	}
}

// AddFavoriteRequest is the POST /api/favorites request body
type AddFavoriteRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Region    *string `json:"region,omitempty" validate:"omitempty,max=200"`
	Country   *string `json:"country,omitempty" validate:"omitempty,max=200"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// ListFavorites handles GET /api/favorites
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	favorites, err := h.favoritesService.List(ctx)
	if err != nil {
		h.logger.Error(ctx, "[API_LIST_FAVORITES_ERROR] Failed to list favorites", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/favorites")
		sendError(w, r, h.metrics, "failed to retrieve favorites", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/favorites", "GET", "200")
	sendJSON(w, favorites, http.StatusOK)
}

// AddFavorite handles POST /api/favorites
func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, r, h.metrics, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		sendError(w, r, h.metrics, "validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	fav := &models.FavoriteLocation{
		Name:      req.Name,
		Region:    req.Region,
		Country:   req.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		AddedAt:   time.Now().UTC(),
	}

	if err := h.favoritesService.Add(ctx, fav); err != nil {
		h.logger.Error(ctx, "[API_ADD_FAVORITE_ERROR] Failed to add favorite", logging.Fields{
			"name": req.Name,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/favorites")
		sendError(w, r, h.metrics, "failed to save favorite", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/favorites", "POST", "201")
	sendJSON(w, fav, http.StatusCreated)
}

// DeleteFavorite handles DELETE /api/favorites/{id}. Deleting an unknown id
// still returns 204; removal of something already gone is not a failure.
func (h *FavoritesHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendError(w, r, h.metrics, "id must be an integer", http.StatusBadRequest)
		return
	}

	if err := h.favoritesService.Remove(ctx, id); err != nil {
		h.logger.Error(ctx, "[API_DELETE_FAVORITE_ERROR] Failed to delete favorite", logging.Fields{
			"favorite_id": id,
		}, err)
		sendError(w, r, h.metrics, "failed to delete favorite", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/favorites/{id}", "DELETE", "204")
	w.WriteHeader(http.StatusNoContent)
}

// RecordAccess handles POST /api/favorites/{id}/access. Unknown ids no-op.
func (h *FavoritesHandler) RecordAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		sendError(w, r, h.metrics, "id must be an integer", http.StatusBadRequest)
		return
	}

	if err := h.favoritesService.RecordAccess(ctx, id); err != nil {
		h.logger.Error(ctx, "[API_RECORD_ACCESS_ERROR] Failed to record access", logging.Fields{
			"favorite_id": id,
		}, err)
		sendError(w, r, h.metrics, "failed to record access", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/favorites/{id}/access", "POST", "204")
	w.WriteHeader(http.StatusNoContent)
}

// LookupFavorite handles GET /api/favorites/lookup?lat=&lon=, answering
// whether a coordinate is saved, within the shared matching tolerance.
func (h *FavoritesHandler) LookupFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		sendError(w, r, h.metrics, "lat and lon must be decimal degrees", http.StatusBadRequest)
		return
	}

	fav, err := h.favoritesService.FindByCoordinate(ctx, lat, lon)
	if err != nil {
		h.logger.Error(ctx, "[API_LOOKUP_FAVORITE_ERROR] Favorite lookup failed", logging.Fields{
			"latitude":  lat,
			"longitude": lon,
		}, err)
		sendError(w, r, h.metrics, "failed to look up favorite", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{"is_favorite": fav != nil}
	if fav != nil {
		response["favorite"] = fav
	}

	h.metrics.RecordAPIRequest("/api/favorites/lookup", "GET", "200")
	sendJSON(w, response, http.StatusOK)
}

// RegisterRoutes registers favorites API routes
func (h *FavoritesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/favorites", h.ListFavorites).Methods("GET")
	router.HandleFunc("/api/favorites", h.AddFavorite).Methods("POST")
	router.HandleFunc("/api/favorites/lookup", h.LookupFavorite).Methods("GET")
	router.HandleFunc("/api/favorites/{id}", h.DeleteFavorite).Methods("DELETE")
	router.HandleFunc("/api/favorites/{id}/access", h.RecordAccess).Methods("POST")
}
