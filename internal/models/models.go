package models

import "time"

// RawAlert is one upstream NWS bulletin, immutable once fetched.
// Identity for dedup purposes is (EventType, AreaDescription, OnsetTime).
type RawAlert struct {
	ID              string
	EventType       string // e.g. "Severe Thunderstorm Warning"
	Headline        string
	Description     string
	AreaDescription string
	SeverityLabel   string // upstream-assigned, informational only
	OnsetTime       time.Time
	ExpiresTime     time.Time
	Geocodes        []string // UGC/SAME codes when the upstream supplies them
}

// ExtractedHazard holds best-estimate hazard metrics derived from alert text.
// Zero means "none detected", not an error.
type ExtractedHazard struct {
	HailInches float64
	WindMph    float64
}

// DamageEstimate is the canvassing market-size lookup for one storm category.
type DamageEstimate struct {
	PotentialJobs    int
	AvgJobValue      int
	TotalMarketValue int
}

// QualifyingStorm is an alert that passed classification. Category flags and
// the severity score are computed once at construction and never mutated.
type QualifyingStorm struct {
	EventType       string
	Headline        string
	Description     string
	AreaDescription string
	Region          string
	SeverityLabel   string
	SeverityScore   int // 1-10, hurricane > hail > wind
	HailInches      float64
	WindMph         float64
	IsHail          bool
	IsWind          bool
	IsHurricane     bool
	IsTornado       bool // always false: tornado alerts are rejected before construction
	ZipCodes        []string
	DamageEstimate  DamageEstimate
	Recommendations []string
	OnsetTime       time.Time
	ExpiresTime     time.Time
}

// DigestCategory partitions qualifying storms for notification purposes.
type DigestCategory string

const (
	DigestHail DigestCategory = "hail"
	DigestWind DigestCategory = "wind"
)

// RegionDigest aggregates one region's qualifying storms for one hazard
// category in one check cycle. Built fresh every cycle, never carried over.
type RegionDigest struct {
	Region        string
	Category      DigestCategory
	MaxHailInches float64
	MaxWindMph    float64
	AffectedAreas []string
	Storms        []QualifyingStorm
}

// Subscriber is one notification recipient for a region.
type Subscriber struct {
	ID        int64
	Email     string
	Region    string
	Active    bool
	CreatedAt time.Time
}

// StormRecord is the persisted history row for a qualifying storm.
type StormRecord struct {
	ID               int64
	Region           string
	EventType        string
	Headline         string
	AreaDescription  string
	HailInches       float64
	WindMph          float64
	SeverityScore    int
	IsHail           bool
	IsWind           bool
	IsHurricane      bool
	TotalMarketValue int
	RecordedAt       time.Time
}
