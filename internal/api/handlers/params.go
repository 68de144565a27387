package handlers

import (
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/services"
	"net/url"
	"strconv"
	"strings"
)

// Defaults are the planning parameters used when a request omits them.
type Defaults struct {
	Grouping services.GroupingOptions
	Depot    *domain.Coordinates
}

func parseGroupingOptions(q url.Values, def services.GroupingOptions) (services.GroupingOptions, error) {
	opts := def

	if v := strings.TrimSpace(q.Get("threshold_m")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, &services.ConfigurationError{Field: "threshold_m", Value: v, Reason: "must be a number"}
		}
		opts.ThresholdMeters = f
	}

	return opts, nil
}

func parseRouteRequest(q url.Values, def Defaults) (services.RouteRequest, error) {
	grouping, err := parseGroupingOptions(q, def.Grouping)
	if err != nil {
		return services.RouteRequest{}, err
	}

	req := services.RouteRequest{
		By:       services.RouteBy(strings.ToLower(strings.TrimSpace(q.Get("by")))),
		Grouping: grouping,
		Route:    services.RouteOptions{Depot: def.Depot},
	}

	lat, lon := strings.TrimSpace(q.Get("depot_lat")), strings.TrimSpace(q.Get("depot_lon"))
	if lat != "" || lon != "" {
		if lat == "" || lon == "" {
			return req, &services.ConfigurationError{Field: "depot", Value: lat + "," + lon, Reason: "depot_lat and depot_lon must be provided together"}
		}

		la, errLat := strconv.ParseFloat(lat, 64)
		lo, errLon := strconv.ParseFloat(lon, 64)
		if errLat != nil || errLon != nil {
			return req, &services.ConfigurationError{Field: "depot", Value: lat + "," + lon, Reason: "must be numbers"}
		}
		req.Route.Depot = &domain.Coordinates{Lat: la, Lon: lo}
	}

	if v := strings.TrimSpace(q.Get("return_to_depot")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, &services.ConfigurationError{Field: "return_to_depot", Value: v, Reason: "must be a boolean"}
		}
		req.Route.ReturnToDepot = b
	}

	return req, nil
}
