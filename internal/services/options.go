package services

import (
	"lawn-route-service/internal/domain"
	"math"
)

const (
	// DefaultThresholdMeters is the default distance under which clients share a stop.
	DefaultThresholdMeters = 150.0
	// DefaultRoadBonus discounts the distance between clients on the same road by 25%.
	DefaultRoadBonus = 0.25
)

// GroupingOptions configures the proximity grouper.
type GroupingOptions struct {
	// ThresholdMeters is the maximum effective distance from a group's seed.
	ThresholdMeters float64
	// RoadBonus in [0,1) scales how much a shared road shortens the effective distance.
	RoadBonus float64
}

func DefaultGroupingOptions() GroupingOptions {
	return GroupingOptions{
		ThresholdMeters: DefaultThresholdMeters,
		RoadBonus:       DefaultRoadBonus,
	}
}

// Validate rejects thresholds that would produce meaningless groups.
func (o GroupingOptions) Validate() error {
	t := o.ThresholdMeters
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
		return &ConfigurationError{Field: "threshold_meters", Value: t, Reason: "must be a positive finite number"}
	}

	b := o.RoadBonus
	if math.IsNaN(b) || b < 0 || b >= 1 {
		return &ConfigurationError{Field: "road_bonus", Value: b, Reason: "must be in [0, 1)"}
	}

	return nil
}

// RouteOptions configures the route composer.
type RouteOptions struct {
	// Depot is the fixed starting point. When nil the first stop in input order is used.
	Depot *domain.Coordinates
	// ReturnToDepot adds the closing leg to the total distance. The geometry is unchanged.
	ReturnToDepot bool
}

func (o RouteOptions) Validate() error {
	if o.Depot != nil && !o.Depot.Valid() {
		return &ConfigurationError{
			Field:  "depot",
			Value:  *o.Depot,
			Reason: "latitude must be in [-90, 90] and longitude in [-180, 180]",
		}
	}
	return nil
}
