// Package geo ranks caterers around a point. The persistence layer does
// the coarse radius cut; ranking happens here so the ordering contract
// (ascending distance, name as tiebreak) is deterministic and testable
// without a database.
package geo

import (
	"sort"

	"feast/internal/domain/entity"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Ranked pairs a caterer with its distance from the query point.
type Ranked struct {
	Caterer        *entity.Caterer
	DistanceMeters float64
}

// Rank orders the caterers by ascending haversine distance from origin,
// breaking equal distances by caterer name ascending. Caterers beyond
// radiusMeters are dropped; a non-positive radius keeps everything.
func Rank(origin orb.Point, caterers []*entity.Caterer, radiusMeters float64) []Ranked {
	ranked := make([]Ranked, 0, len(caterers))
	for _, c := range caterers {
		d := orbgeo.Distance(origin, c.Location.Geo.Point())
		if radiusMeters > 0 && d > radiusMeters {
			continue
		}
		ranked = append(ranked, Ranked{Caterer: c, DistanceMeters: d})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceMeters != ranked[j].DistanceMeters {
			return ranked[i].DistanceMeters < ranked[j].DistanceMeters
		}

		return ranked[i].Caterer.Name < ranked[j].Caterer.Name
	})

	return ranked
}
