package hazard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractStructuredHazardLine(t *testing.T) {
	t.Run("hail and wind", func(t *testing.T) {
		desc := "HAZARD...MAX HAIL SIZE...1.75 IN; MAX WIND GUST...70 MPH."
		hz := Extract("Severe Thunderstorm Warning", "", desc)
		assert.Equal(t, 1.75, hz.HailInches)
		assert.Equal(t, 70.0, hz.WindMph)
	})

	t.Run("structured wins over phrased", func(t *testing.T) {
		desc := "MAX HAIL SIZE...1.5 IN. Spotters reported hail up to 0.75 inches near town."
		hz := Extract("Severe Thunderstorm Warning", "", desc)
		assert.Equal(t, 1.5, hz.HailInches, "structured tier must not be overridden by a lower tier")
	})

	t.Run("max within same tier", func(t *testing.T) {
		desc := "MAX HAIL SIZE...1.00 IN ... MAX HAIL SIZE...2.50 IN"
		hz := Extract("Severe Thunderstorm Warning", "", desc)
		assert.Equal(t, 2.5, hz.HailInches)
	})
}

func TestExtractPhrasedMention(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		wantHail float64
		wantWind float64
	}{
		{"hail up to", "Expect hail up to 1.25 inches in the warned area.", 1.25, 0},
		{"hail of", "Reports of hail of 2 inches near the river.", 2, 0},
		{"inch hail", "Golf ball sized stones, 1.75 inch hail confirmed.", 1.75, 0},
		{"wind gusts of", "Damaging wind gusts of 65 mph are likely.", 0, 65},
		{"wind gusts up to", "Wind gusts up to 72 mph were measured.", 0, 72},
		{"wind speeds up to", "Sustained wind speeds up to 60 mph.", 0, 60},
		{"winds over", "Hurricane conditions expected with winds over 100 mph.", 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hz := Extract("Severe Weather Statement", "", tt.desc)
			assert.Equal(t, tt.wantHail, hz.HailInches)
			assert.Equal(t, tt.wantWind, hz.WindMph)
		})
	}
}

func TestExtractBareUnitGated(t *testing.T) {
	t.Run("bare mph accepted for storm category", func(t *testing.T) {
		// Scenario: the narrative only mentions "60 mph wind gusts", which
		// no phrased pattern covers; the event type carries the wind context.
		desc := "HAZARD...60 mph wind gusts and quarter size hail."
		hz := Extract("Severe Thunderstorm Warning", "", desc)
		assert.Equal(t, 60.0, hz.WindMph)
		assert.Equal(t, 0.0, hz.HailInches, "named hail sizes are not parsed")
	})

	t.Run("bare mph rejected without wind context", func(t *testing.T) {
		hz := Extract("Flood Warning", "", "Water moving at 30 mph through the culvert.")
		assert.Equal(t, 0.0, hz.WindMph)
	})

	t.Run("bare mph not used when phrased matched", func(t *testing.T) {
		desc := "Wind gusts of 40 mph. An unrelated 99 mph figure appears later in a quote: 99 mph."
		hz := Extract("High Wind Warning", "", desc)
		// Phrased tier matched, so the bare-number tier never runs.
		assert.Equal(t, 40.0, hz.WindMph)
	})

	t.Run("no bare-number fallback for hail", func(t *testing.T) {
		hz := Extract("Severe Thunderstorm Warning", "", "Stones measured 2.5 near the school.")
		assert.Equal(t, 0.0, hz.HailInches)
	})
}

func TestExtractNothing(t *testing.T) {
	hz := Extract("Special Weather Statement", "", "Patchy fog expected overnight.")
	assert.Equal(t, 0.0, hz.HailInches)
	assert.Equal(t, 0.0, hz.WindMph)
}

func TestExtractUsesHeadline(t *testing.T) {
	hz := Extract("Severe Thunderstorm Warning", "Wind gusts of 80 mph reported", "")
	assert.Equal(t, 80.0, hz.WindMph)
}
