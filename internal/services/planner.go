package services

import (
	"context"
	"fmt"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/platform/metrics"
	"lawn-route-service/internal/platform/obs"
	"lawn-route-service/internal/ports"
	"time"
)

// DefaultMaxClients caps the snapshot size handed to the O(n^2) core.
const DefaultMaxClients = 2000

type RouteBy string

const (
	// RouteByAuto routes over groups, or over clients when everything fits in one group.
	RouteByAuto    RouteBy = "auto"
	RouteByGroups  RouteBy = "groups"
	RouteByClients RouteBy = "clients"
)

func (b RouteBy) Validate() error {
	switch b {
	case "", RouteByAuto, RouteByGroups, RouteByClients:
		return nil
	}
	return &ConfigurationError{Field: "by", Value: string(b), Reason: "must be one of auto, groups, clients"}
}

type RouteRequest struct {
	By       RouteBy
	Grouping GroupingOptions
	Route    RouteOptions
}

// RoutePlan is a composed route together with the grouping it was built from.
type RoutePlan struct {
	domain.Route
	By       RouteBy
	Groups   []domain.Group
	Excluded []*InvalidInputError
}

// Planner runs the grouping and routing core over a fresh client snapshot.
// It keeps no state between calls and is safe for concurrent use.
type Planner struct {
	Repo       ports.ClientRepository
	MaxClients int
}

func NewPlanner(repo ports.ClientRepository, maxClients int) *Planner {
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	return &Planner{Repo: repo, MaxClients: maxClients}
}

// ComputeGroups loads the current client snapshot and partitions it into groups.
func (p *Planner) ComputeGroups(ctx context.Context, opts GroupingOptions) (_ GroupingResult, err error) {
	defer obs.Time(ctx, "planner.ComputeGroups")(&err)

	if err := opts.Validate(); err != nil {
		return GroupingResult{}, err
	}

	clients, err := p.snapshot(ctx)
	if err != nil {
		return GroupingResult{}, fmt.Errorf("compute groups: %w", err)
	}

	res, err := p.group(clients, opts)
	if err != nil {
		return GroupingResult{}, fmt.Errorf("compute groups: %w", err)
	}

	return res, nil
}

// ComputeRoute loads the current client snapshot, groups it, and orders the
// resulting stops into a single visiting sequence.
func (p *Planner) ComputeRoute(ctx context.Context, req RouteRequest) (_ RoutePlan, err error) {
	defer obs.Time(ctx, "planner.ComputeRoute")(&err)

	// Reject configuration before touching the store.
	if err := req.By.Validate(); err != nil {
		return RoutePlan{}, err
	}
	if err := req.Grouping.Validate(); err != nil {
		return RoutePlan{}, err
	}
	if err := req.Route.Validate(); err != nil {
		return RoutePlan{}, err
	}

	clients, err := p.snapshot(ctx)
	if err != nil {
		return RoutePlan{}, fmt.Errorf("compute route: %w", err)
	}

	grouping, err := p.group(clients, req.Grouping)
	if err != nil {
		return RoutePlan{}, fmt.Errorf("compute route: %w", err)
	}

	by := req.By
	if by == "" || by == RouteByAuto {
		by = RouteByGroups
		if len(grouping.Groups) == 1 {
			by = RouteByClients
		}
	}

	var stops []domain.Stop
	if by == RouteByClients {
		stops = StopsFromClients(clients)
	} else {
		stops = StopsFromGroups(grouping.Groups)
	}

	composed, err := ComposeRoute(stops, req.Route)
	if err != nil {
		return RoutePlan{}, fmt.Errorf("compute route: %w", err)
	}
	metrics.RouteStops.Observe(float64(len(composed.Stops)))

	excluded := grouping.Excluded
	if by == RouteByClients {
		excluded = composed.Excluded
	}

	return RoutePlan{
		Route:    composed.Route,
		By:       by,
		Groups:   grouping.Groups,
		Excluded: excluded,
	}, nil
}

func (p *Planner) snapshot(ctx context.Context) ([]*domain.Client, error) {
	clients, err := p.Repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	if p.MaxClients > 0 && len(clients) > p.MaxClients {
		return nil, fmt.Errorf("%w: snapshot has %d clients, limit is %d", ErrTooManyClients, len(clients), p.MaxClients)
	}

	return clients, nil
}

func (p *Planner) group(clients []*domain.Client, opts GroupingOptions) (GroupingResult, error) {
	start := time.Now()
	res, err := GroupClients(clients, opts)
	if err != nil {
		return GroupingResult{}, err
	}

	metrics.GroupingDuration.Observe(time.Since(start).Seconds())
	metrics.GroupsProduced.Add(float64(len(res.Groups)))
	metrics.ClientsExcluded.Add(float64(len(res.Excluded)))

	return res, nil
}
