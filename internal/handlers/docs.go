package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenAPISpec returns the OpenAPI 3.0 specification for the WeatherWise API
func OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	spec := map[string]interface{}{
		"openapi": "3.0.0",
		"info": map[string]interface{}{
			"title":       "WeatherWise API",
			"description": "Weather acquisition service with geospatial caching, geocoding, and saved locations",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": "http://localhost:8080", "description": "Local development server"},
		},
		"paths": map[string]interface{}{
			"/api/weather": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Get weather for a coordinate or place name",
					"description": "Serves a fresh cached snapshot when one exists within coordinate tolerance; otherwise fetches from the provider",
					"parameters": []map[string]interface{}{
						{
							"name":        "lat",
							"in":          "query",
							"description": "Latitude in decimal degrees (paired with lon)",
							"required":    false,
							"schema":      map[string]string{"type": "number"},
						},
						{
							"name":        "lon",
							"in":          "query",
							"description": "Longitude in decimal degrees (paired with lat)",
							"required":    false,
							"schema":      map[string]string{"type": "number"},
						},
						{
							"name":        "q",
							"in":          "query",
							"description": "Free-text place name, resolved via geocoding",
							"required":    false,
							"schema":      map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]string{"description": "Weather snapshot with cache and favorite annotations"},
						"400": map[string]string{"description": "Missing or malformed parameters"},
						"404": map[string]string{"description": "Query matched no locations"},
						"502": map[string]string{"description": "Weather provider unavailable, retry"},
					},
				},
			},
			"/api/weather/last-viewed": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Restore weather for the previously viewed location",
					"responses": map[string]interface{}{
						"200": map[string]string{"description": "Cached snapshot for the last viewed location"},
						"404": map[string]string{"description": "No pointer stored, or the cached weather is stale"},
					},
				},
			},
			"/api/locations/search": map[string]interface{}{
				"get": map[string]interface{}{
					"summary":     "Search locations by name",
					"description": "Zero matches returns an empty result list, not an error",
					"parameters": []map[string]interface{}{
						{
							"name":     "q",
							"in":       "query",
							"required": true,
							"schema":   map[string]string{"type": "string"},
						},
					},
					"responses": map[string]interface{}{
						"200": map[string]string{"description": "Matching locations, possibly empty"},
						"502": map[string]string{"description": "Geocoding provider unavailable"},
					},
				},
			},
			"/api/favorites": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List saved locations, most recently accessed first",
					"responses": map[string]interface{}{
						"200": map[string]string{"description": "Saved locations"},
					},
				},
				"post": map[string]interface{}{
					"summary": "Save a location",
					"responses": map[string]interface{}{
						"201": map[string]string{"description": "Favorite created"},
						"400": map[string]string{"description": "Validation failed"},
					},
				},
			},
			"/api/favorites/{id}": map[string]interface{}{
				"delete": map[string]interface{}{
					"summary": "Remove a saved location (no-op when absent)",
					"responses": map[string]interface{}{
						"204": map[string]string{"description": "Removed or already absent"},
					},
				},
			},
			"/api/favorites/{id}/access": map[string]interface{}{
				"post": map[string]interface{}{
					"summary": "Record an access to a saved location",
					"responses": map[string]interface{}{
						"204": map[string]string{"description": "Access recorded, or no-op for unknown id"},
					},
				},
			},
			"/api/favorites/lookup": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Check whether a coordinate is saved, within matching tolerance",
					"responses": map[string]interface{}{
						"200": map[string]string{"description": "Lookup result"},
					},
				},
			},
			"/api/search/history": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "List recent location searches",
					"responses": map[string]interface{}{
						"200": map[string]string{"description": "Recent searches"},
					},
				},
			},
			"/health": map[string]interface{}{
				"get": map[string]interface{}{
					"summary": "Health check",
					"responses": map[string]interface{}{
						"200": map[string]string{"description": "Service healthy"},
					},
				},
			},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(spec)
}
