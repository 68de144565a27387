package services

import (
	"cmp"
	"lawn-route-service/internal/domain"
	"slices"
	"strings"
)

// GroupingResult is the output of GroupClients.
// Excluded lists every input client that was left out and why.
type GroupingResult struct {
	Groups   []domain.Group
	Excluded []*InvalidInputError
}

type groupCandidate struct {
	client domain.Client
	pos    domain.Coordinates
	road   string
}

type admitted struct {
	idx        int
	effective  float64
	similarity float64
}

// GroupClients partitions clients into stop groups using a greedy single pass.
//
// Clients are processed in id order. Each ungrouped client seeds a new group and
// every remaining ungrouped client whose effective distance to the seed is within
// the threshold joins it. The effective distance is the great-circle distance,
// shortened by opts.RoadBonus in proportion to how similar the two road names are,
// so a shared road helps borderline neighbors but never groups distant clients.
// The pass is O(n^2) and makes no attempt at a globally optimal partition.
func GroupClients(clients []*domain.Client, opts GroupingOptions) (GroupingResult, error) {
	if err := opts.Validate(); err != nil {
		return GroupingResult{}, err
	}

	valid, excluded := partitionClients(clients)
	res := GroupingResult{
		Groups:   []domain.Group{},
		Excluded: excluded,
	}
	if len(valid) == 0 {
		return res, nil
	}

	slices.SortStableFunc(valid, func(a, b groupCandidate) int {
		return strings.Compare(a.client.ID, b.client.ID)
	})

	assigned := make([]bool, len(valid))
	for i := range valid {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		seed := valid[i]

		joined := []admitted{}
		for j := i + 1; j < len(valid); j++ {
			if assigned[j] {
				continue
			}

			sim := roadSimilarity(seed.road, valid[j].road)
			eff := seed.pos.DistanceTo(valid[j].pos) * (1 - opts.RoadBonus*sim)
			if eff > opts.ThresholdMeters {
				continue
			}

			assigned[j] = true
			joined = append(joined, admitted{idx: j, effective: eff, similarity: sim})
		}

		// Nearest first; equal distances prefer the more similar road, then input order.
		slices.SortFunc(joined, func(a, b admitted) int {
			if c := cmp.Compare(a.effective, b.effective); c != 0 {
				return c
			}
			if c := cmp.Compare(b.similarity, a.similarity); c != 0 {
				return c
			}
			return cmp.Compare(a.idx, b.idx)
		})

		members := make([]domain.Client, 0, 1+len(joined))
		members = append(members, seed.client)
		for _, a := range joined {
			members = append(members, valid[a.idx].client)
		}

		g := AggregateGroup(members)
		g.Index = len(res.Groups)
		res.Groups = append(res.Groups, g)
	}

	return res, nil
}

// partitionClients splits the snapshot into clients usable for distance math
// and the ones that must be reported as excluded.
func partitionClients(clients []*domain.Client) ([]groupCandidate, []*InvalidInputError) {
	valid := make([]groupCandidate, 0, len(clients))
	excluded := []*InvalidInputError{}

	for _, c := range clients {
		if c == nil {
			continue
		}

		if c.Position == nil {
			excluded = append(excluded, &InvalidInputError{ClientID: c.ID, Reason: "missing coordinates"})
			continue
		}
		if !c.Position.Valid() {
			excluded = append(excluded, &InvalidInputError{ClientID: c.ID, Reason: "coordinates out of range or not finite"})
			continue
		}

		valid = append(valid, groupCandidate{
			client: *c,
			pos:    *c.Position,
			road:   RoadFromAddress(c.Address),
		})
	}

	return valid, excluded
}
