package handlers

import (
	"lawn-route-service/internal/api/dto"
	"lawn-route-service/internal/services"
	"net/http"
	"strings"
)

type RouteHandler struct {
	Planner  *services.Planner
	Defaults Defaults
}

// Get composes a visiting order over the current client snapshot.
// format=geojson returns a FeatureCollection instead of the JSON summary.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	q := r.URL.Query()

	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	if format != "" && format != "json" && format != "geojson" {
		writeError(w, r, http.StatusBadRequest, "format must be json or geojson")
		return
	}

	req, err := parseRouteRequest(q, h.Defaults)
	if err != nil {
		writeServiceError(w, r, "compute route", err)
		return
	}

	plan, err := h.Planner.ComputeRoute(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, "compute route", err)
		return
	}

	if format == "geojson" {
		writeGeoJSON(w, r, http.StatusOK, plan.FeatureCollection())
		return
	}

	res := dto.RouteResponse{
		By:                  string(plan.By),
		Geometry:            plan.Geometry,
		Stops:               make([]dto.RouteStopResponse, 0, len(plan.Stops)),
		TotalDistanceMeters: plan.TotalDistanceMeters,
		GroupCount:          len(plan.Groups),
		ExcludedCount:       len(plan.Excluded),
		Excluded:            toExcludedResponse(plan.Excluded),
	}
	for i, s := range plan.Stops {
		res.Stops = append(res.Stops, dto.RouteStopResponse{
			Order:             i + 1,
			ID:                s.ID,
			Kind:              string(s.Kind),
			Label:             s.Label,
			Lat:               s.Position.Lat,
			Lon:               s.Position.Lon,
			LegDistanceMeters: plan.LegDistancesMeters[i],
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
