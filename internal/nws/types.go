package nws

import (
	"time"

	"github.com/hailscout/hailscout/internal/models"
)

// alertFeed is the GeoJSON envelope returned by api.weather.gov alert
// endpoints. Only the fields the pipeline consumes are decoded.
type alertFeed struct {
	Features []alertFeature `json:"features"`
}

type alertFeature struct {
	ID         string          `json:"id"`
	Properties alertProperties `json:"properties"`
}

type alertProperties struct {
	Event       string       `json:"event"`
	Headline    string       `json:"headline"`
	Description string       `json:"description"`
	AreaDesc    string       `json:"areaDesc"`
	Severity    string       `json:"severity"`
	Onset       string       `json:"onset"`
	Expires     string       `json:"expires"`
	Geocode     alertGeocode `json:"geocode"`
}

type alertGeocode struct {
	SAME []string `json:"SAME"`
	UGC  []string `json:"UGC"`
}

// toRawAlert maps one feed feature onto the pipeline's alert shape.
// Unparseable timestamps are left zero rather than failing the feature:
// classification does not depend on them and dedupe still keys correctly.
func toRawAlert(f alertFeature) models.RawAlert {
	p := f.Properties

	alert := models.RawAlert{
		ID:              f.ID,
		EventType:       p.Event,
		Headline:        p.Headline,
		Description:     p.Description,
		AreaDescription: p.AreaDesc,
		SeverityLabel:   p.Severity,
	}
	if t, err := time.Parse(time.RFC3339, p.Onset); err == nil {
		alert.OnsetTime = t
	}
	if t, err := time.Parse(time.RFC3339, p.Expires); err == nil {
		alert.ExpiresTime = t
	}

	if len(p.Geocode.SAME) > 0 {
		alert.Geocodes = append(alert.Geocodes, p.Geocode.SAME...)
	} else if len(p.Geocode.UGC) > 0 {
		alert.Geocodes = append(alert.Geocodes, p.Geocode.UGC...)
	}
	return alert
}
