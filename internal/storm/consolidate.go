package storm

import (
	"github.com/hailscout/hailscout/internal/models"
)

// Digests holds at most one digest per hazard category for a region's check
// cycle. A nil digest means no storms qualified for that category and no
// notification should be sent.
type Digests struct {
	Hail *models.RegionDigest
	Wind *models.RegionDigest
}

// Consolidate partitions qualifying storms into per-category digests. A
// storm qualifying on both axes contributes to both digests. Hurricanes
// count as wind for notification purposes.
func Consolidate(region string, storms []models.QualifyingStorm) Digests {
	var d Digests

	for _, s := range storms {
		if s.IsHail {
			if d.Hail == nil {
				d.Hail = &models.RegionDigest{Region: region, Category: models.DigestHail}
			}
			addToDigest(d.Hail, s)
		}
		if s.IsWind || s.IsHurricane {
			if d.Wind == nil {
				d.Wind = &models.RegionDigest{Region: region, Category: models.DigestWind}
			}
			addToDigest(d.Wind, s)
		}
	}
	return d
}

func addToDigest(digest *models.RegionDigest, s models.QualifyingStorm) {
	if s.HailInches > digest.MaxHailInches {
		digest.MaxHailInches = s.HailInches
	}
	if s.WindMph > digest.MaxWindMph {
		digest.MaxWindMph = s.WindMph
	}
	if s.AreaDescription != "" && !containsString(digest.AffectedAreas, s.AreaDescription) {
		digest.AffectedAreas = append(digest.AffectedAreas, s.AreaDescription)
	}
	digest.Storms = append(digest.Storms, s)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
