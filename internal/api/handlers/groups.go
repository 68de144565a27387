package handlers

import (
	"lawn-route-service/internal/api/dto"
	"lawn-route-service/internal/services"
	"net/http"
)

type GroupHandler struct {
	Planner  *services.Planner
	Defaults Defaults
}

// List computes groups over the current client snapshot.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	opts, err := parseGroupingOptions(r.URL.Query(), h.Defaults.Grouping)
	if err != nil {
		writeServiceError(w, r, "compute groups", err)
		return
	}

	res, err := h.Planner.ComputeGroups(r.Context(), opts)
	if err != nil {
		writeServiceError(w, r, "compute groups", err)
		return
	}

	out := dto.ListGroupsResponse{
		Groups:        make([]dto.GroupResponse, 0, len(res.Groups)),
		ExcludedCount: len(res.Excluded),
		Excluded:      toExcludedResponse(res.Excluded),
	}

	for _, g := range res.Groups {
		gr := dto.GroupResponse{
			ID:              g.Index,
			ClientCount:     g.MemberCount,
			RoadName:        g.RoadName,
			CenterPoint:     dto.PointResponse{Lat: g.Center.Lat, Lon: g.Center.Lon},
			WalkingDistance: g.WalkingDistanceMeters,
			Clients:         make([]dto.GroupClientResponse, 0, len(g.Members)),
		}
		for _, m := range g.Members {
			gr.Clients = append(gr.Clients, dto.GroupClientResponse{
				ID:      m.ID,
				Name:    m.Name,
				Address: m.Address,
				Lat:     m.Position.Lat,
				Lon:     m.Position.Lon,
			})
		}
		out.Groups = append(out.Groups, gr)
	}

	writeJSON(w, r, http.StatusOK, out)
}

func toExcludedResponse(excluded []*services.InvalidInputError) []dto.ExcludedResponse {
	out := make([]dto.ExcludedResponse, 0, len(excluded))
	for _, e := range excluded {
		out = append(out, dto.ExcludedResponse{ID: e.ClientID, Reason: e.Reason})
	}
	return out
}
