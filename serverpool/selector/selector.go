package selector

import (
	"fmt"
	"sort"

	"vpnpick/internal/shared/logger"
	"vpnpick/serverpool/model"
)

// Select picks the least-loaded server among rows whose region is allowed.
//
// Rows are ranked by utilization with a stable sort, so equal loads keep
// their scrape order. The first ranked row that is neither excluded nor
// missing from the catalog wins. When nothing qualifies the error wraps
// model.ErrNoQualifyingServer. rows is not modified.
func Select(rows []model.ServerRow, catalog model.Catalog, excluded model.ExcludedSet, regions model.AllowedRegions) (model.SelectionResult, error) {
	l := logger.WithComponent("ServerPool/Selector")

	candidates := make([]model.ServerRow, 0, len(rows))
	for _, r := range rows {
		if regions.Contains(r.Region) {
			candidates = append(candidates, r)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Utilization < candidates[j].Utilization
	})

	for _, c := range candidates {
		if excluded.Contains(c.Identifier) {
			l.Debug().Str("server", c.Identifier).Int("utilization", c.Utilization).Msg("Skipping excluded server.")
			continue
		}
		ip, ok := catalog.Lookup(c.Identifier)
		if !ok {
			l.Debug().Str("server", c.Identifier).Int("utilization", c.Utilization).Msg("Skipping server with no catalog entry.")
			continue
		}
		return model.SelectionResult{
			Identifier:  c.Identifier,
			Utilization: c.Utilization,
			IP:          ip,
		}, nil
	}

	return model.SelectionResult{}, fmt.Errorf("%w (rows=%d, in regions %v=%d)",
		model.ErrNoQualifyingServer, len(rows), []string(regions), len(candidates))
}
