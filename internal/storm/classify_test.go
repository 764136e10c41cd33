package storm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailscout/hailscout/internal/models"
)

func TestClassifyTornadoExclusionIsAbsolute(t *testing.T) {
	tests := []struct {
		name  string
		alert models.RawAlert
		hz    models.ExtractedHazard
	}{
		{
			name:  "tornado event type with qualifying wind",
			alert: models.RawAlert{EventType: "Tornado Warning", Description: "Winds up to 80 mph possible.", Headline: "Tornado Warning"},
			hz:    models.ExtractedHazard{WindMph: 80},
		},
		{
			name:  "tornado in headline only",
			alert: models.RawAlert{EventType: "Severe Thunderstorm Warning", Headline: "Radar indicated TORNADO near Moore"},
			hz:    models.ExtractedHazard{HailInches: 2.0, WindMph: 70},
		},
		{
			name:  "mixed case",
			alert: models.RawAlert{EventType: "ToRnAdO Watch"},
			hz:    models.ExtractedHazard{HailInches: 1.5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Classify(tt.alert, tt.hz, "OK")
			assert.False(t, ok, "tornado alerts must always be rejected")
		})
	}
}

func TestClassifyThresholdBoundaries(t *testing.T) {
	alert := models.RawAlert{EventType: "Severe Thunderstorm Warning"}

	t.Run("hail 1.0 qualifies", func(t *testing.T) {
		s, ok := Classify(alert, models.ExtractedHazard{HailInches: 1.0}, "TX")
		require.True(t, ok)
		assert.True(t, s.IsHail)
	})
	t.Run("hail 0.99 does not", func(t *testing.T) {
		_, ok := Classify(alert, models.ExtractedHazard{HailInches: 0.99}, "TX")
		assert.False(t, ok)
	})
	t.Run("wind 58 qualifies", func(t *testing.T) {
		s, ok := Classify(alert, models.ExtractedHazard{WindMph: 58}, "TX")
		require.True(t, ok)
		assert.True(t, s.IsWind)
	})
	t.Run("wind 57 does not", func(t *testing.T) {
		_, ok := Classify(alert, models.ExtractedHazard{WindMph: 57}, "TX")
		assert.False(t, ok)
	})
}

func TestClassifyWindOnlyStorm(t *testing.T) {
	// Scenario: severe thunderstorm with 60 mph gusts in Santa Barbara.
	alert := models.RawAlert{
		EventType:       "Severe Thunderstorm Warning",
		Description:     "HAZARD...60 mph wind gusts and quarter size hail.",
		AreaDescription: "Santa Barbara, CA",
	}
	s, ok := Classify(alert, models.ExtractedHazard{WindMph: 60}, "CA")
	require.True(t, ok)

	assert.True(t, s.IsWind)
	assert.False(t, s.IsHail)
	assert.False(t, s.IsHurricane)
	assert.Equal(t, 7, s.SeverityScore)
	assert.Equal(t, 50, s.DamageEstimate.PotentialJobs)
	assert.Equal(t, 7000, s.DamageEstimate.AvgJobValue)
	assert.Equal(t, 350000, s.DamageEstimate.TotalMarketValue)
	assert.Equal(t, "Santa Barbara, CA", s.AreaDescription)
	assert.Equal(t, "CA", s.Region)
}

func TestClassifyHurricane(t *testing.T) {
	alert := models.RawAlert{
		EventType:   "Hurricane Warning",
		Description: "Hurricane conditions expected with winds over 100 mph.",
	}
	s, ok := Classify(alert, models.ExtractedHazard{WindMph: 100}, "FL")
	require.True(t, ok)

	assert.True(t, s.IsHurricane)
	assert.Equal(t, 9, s.SeverityScore)
	assert.Equal(t, 300, s.DamageEstimate.PotentialJobs)
	assert.Equal(t, 12000, s.DamageEstimate.AvgJobValue)
	assert.Equal(t, 3600000, s.DamageEstimate.TotalMarketValue)
}

func TestClassifyTropicalStormCountsAsHurricane(t *testing.T) {
	alert := models.RawAlert{EventType: "Tropical Storm Warning"}
	s, ok := Classify(alert, models.ExtractedHazard{}, "FL")
	require.True(t, ok)
	assert.True(t, s.IsHurricane)
	assert.Equal(t, 9, s.SeverityScore)
}

func TestClassifyHailOutranksWind(t *testing.T) {
	alert := models.RawAlert{EventType: "Severe Thunderstorm Warning"}
	s, ok := Classify(alert, models.ExtractedHazard{HailInches: 1.5, WindMph: 65}, "KS")
	require.True(t, ok)

	assert.True(t, s.IsHail)
	assert.True(t, s.IsWind)
	assert.Equal(t, 8, s.SeverityScore, "hail scoring wins over wind")
	assert.Equal(t, 100, s.DamageEstimate.PotentialJobs)
}

func TestClassifyRecommendations(t *testing.T) {
	alert := models.RawAlert{EventType: "Severe Thunderstorm Warning"}
	s, ok := Classify(alert, models.ExtractedHazard{HailInches: 1.25, WindMph: 60}, "KS")
	require.True(t, ok)

	require.NotEmpty(t, s.Recommendations)
	assert.Contains(t, s.Recommendations[0], "canvassing", "baseline recommendation always leads")
	assert.Contains(t, s.Recommendations, "Photograph hail impact marks on soft metals for claim documentation")
	assert.Contains(t, s.Recommendations, "Inspect for shingle uplift, creased tabs and missing ridge caps")
}

func TestClassifyZipEnrichment(t *testing.T) {
	t.Run("structured geocodes preferred", func(t *testing.T) {
		alert := models.RawAlert{
			EventType:   "Severe Thunderstorm Warning",
			Description: "Impacts near 75001 and beyond.",
			Geocodes:    []string{"048113", "048085"},
		}
		s, ok := Classify(alert, models.ExtractedHazard{HailInches: 1.0}, "TX")
		require.True(t, ok)
		assert.Equal(t, []string{"048113", "048085"}, s.ZipCodes)
	})

	t.Run("narrative scan fallback", func(t *testing.T) {
		alert := models.RawAlert{
			EventType:   "Severe Thunderstorm Warning",
			Description: "Damage reported in 75001 and 75204. Zip 75001 hit twice.",
		}
		s, ok := Classify(alert, models.ExtractedHazard{HailInches: 1.0}, "TX")
		require.True(t, ok)
		assert.Equal(t, []string{"75001", "75204"}, s.ZipCodes)
	})

	t.Run("longer digit runs are not zips", func(t *testing.T) {
		alert := models.RawAlert{
			EventType:   "Severe Thunderstorm Warning",
			Description: "Reference number 1234567890.",
		}
		s, ok := Classify(alert, models.ExtractedHazard{HailInches: 1.0}, "TX")
		require.True(t, ok)
		assert.Empty(t, s.ZipCodes)
	})
}

func TestClassifyQualifiesOnAtLeastOneAxis(t *testing.T) {
	alert := models.RawAlert{EventType: "Special Weather Statement"}
	_, ok := Classify(alert, models.ExtractedHazard{}, "TX")
	assert.False(t, ok)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		alert models.RawAlert
		hz    models.ExtractedHazard
		want  bool
	}{
		{"qualifying hail", models.RawAlert{EventType: "Special Weather Statement"}, models.ExtractedHazard{HailInches: 1.0}, true},
		{"qualifying wind", models.RawAlert{EventType: "Special Weather Statement"}, models.ExtractedHazard{WindMph: 58}, true},
		{"storm keyword", models.RawAlert{EventType: "Severe Thunderstorm Watch"}, models.ExtractedHazard{}, true},
		{"tropical keyword", models.RawAlert{EventType: "Tropical Storm Watch"}, models.ExtractedHazard{}, true},
		{"hail keyword in headline", models.RawAlert{Headline: "Large hail possible"}, models.ExtractedHazard{}, true},
		{"irrelevant", models.RawAlert{EventType: "Flood Advisory"}, models.ExtractedHazard{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relevant(tt.alert, tt.hz))
		})
	}
}
