package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhishektang/WeatherWise/internal/provider"
	"github.com/abhishektang/WeatherWise/internal/services"
	"github.com/abhishektang/WeatherWise/pkg/logging"
	"github.com/abhishektang/WeatherWise/pkg/metrics"
)

// WeatherHandler handles weather, search, and last-viewed API endpoints
type WeatherHandler struct {
	weatherService *services.WeatherService
	logger         *logging.StructuredLogger
	metrics        *metrics.Collector
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(
	weatherService *services.WeatherService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
		logger:         logger,
		metrics:        metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// SearchResponse wraps geocoding results
type SearchResponse struct {
	Query   string      `json:"query"`
	Results interface{} `json:"results"`
}

// GetWeather handles GET /api/weather with either lat/lon or q parameters.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/weather").Observe(time.Since(startTime).Seconds())
	}()

	query := r.URL.Query().Get("q")
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	var result *services.WeatherResult
	var err error

	switch {
	case query != "":
		result, err = h.weatherService.GetWeatherByQuery(ctx, query)
	case latStr != "" && lonStr != "":
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			sendError(w, r, h.metrics, "lat and lon must be decimal degrees", http.StatusBadRequest)
			return
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			sendError(w, r, h.metrics, "coordinates out of range", http.StatusBadRequest)
			return
		}
		result, err = h.weatherService.GetWeather(ctx, lat, lon)
	default:
		sendError(w, r, h.metrics, "either q or lat+lon query parameters are required", http.StatusBadRequest)
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, services.ErrLocationNotFound):
			sendError(w, r, h.metrics, "location not found, try a different search", http.StatusNotFound)
		case errors.Is(err, provider.ErrWeatherUnavailable), errors.Is(err, provider.ErrSearchUnavailable):
			h.metrics.RecordAPIError("provider_unavailable", "/api/weather")
			sendError(w, r, h.metrics, "weather data unavailable, please retry", http.StatusBadGateway)
		default:
			h.logger.Error(ctx, "[API_WEATHER_ERROR] Weather request failed", logging.Fields{
				"query": query,
			}, err)
			h.metrics.RecordAPIError("internal_error", "/api/weather")
			sendError(w, r, h.metrics, "failed to retrieve weather", http.StatusInternalServerError)
		}
		return
	}

	h.metrics.RecordAPIRequest("/api/weather", "GET", "200")
	sendJSON(w, result, http.StatusOK)
}

// GetLastViewed handles GET /api/weather/last-viewed
func (h *WeatherHandler) GetLastViewed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.weatherService.GetLastViewed(ctx)
	if err != nil {
		h.logger.Error(ctx, "[API_LAST_VIEWED_ERROR] Last-viewed lookup failed", logging.Fields{}, err)
		sendError(w, r, h.metrics, "failed to restore last viewed weather", http.StatusInternalServerError)
		return
	}
	if result == nil {
		sendError(w, r, h.metrics, "no fresh weather for the last viewed location", http.StatusNotFound)
		return
	}

	h.metrics.RecordAPIRequest("/api/weather/last-viewed", "GET", "200")
	sendJSON(w, result, http.StatusOK)
}

// SearchLocations handles GET /api/locations/search. Zero matches yields an
// empty result array with status 200; only a failed provider call is an error.
func (h *WeatherHandler) SearchLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	if query == "" {
		sendError(w, r, h.metrics, "q query parameter is required", http.StatusBadRequest)
		return
	}

	locations, err := h.weatherService.Search(ctx, query)
	if err != nil {
		h.metrics.RecordAPIError("provider_unavailable", "/api/locations/search")
		sendError(w, r, h.metrics, "location search unavailable, please retry", http.StatusBadGateway)
		return
	}

	h.metrics.RecordAPIRequest("/api/locations/search", "GET", "200")
	sendJSON(w, SearchResponse{Query: query, Results: locations}, http.StatusOK)
}

// GetSearchHistory handles GET /api/search/history
func (h *WeatherHandler) GetSearchHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	records, err := h.weatherService.RecentSearches(ctx, limit)
	if err != nil {
		h.logger.Error(ctx, "[API_SEARCH_HISTORY_ERROR] Failed to list search history", logging.Fields{}, err)
		sendError(w, r, h.metrics, "failed to retrieve search history", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/search/history", "GET", "200")
	sendJSON(w, records, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *WeatherHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	sendJSON(w, status, http.StatusOK)
}

// RegisterRoutes registers weather API routes
func (h *WeatherHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/weather", h.GetWeather).Methods("GET")
	router.HandleFunc("/api/weather/last-viewed", h.GetLastViewed).Methods("GET")
	router.HandleFunc("/api/locations/search", h.SearchLocations).Methods("GET")
	router.HandleFunc("/api/search/history", h.GetSearchHistory).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}

// sendJSON sends a JSON response
func sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func sendError(w http.ResponseWriter, r *http.Request, collector *metrics.Collector, message string, statusCode int) {
	collector.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	sendJSON(w, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}, statusCode)
}
