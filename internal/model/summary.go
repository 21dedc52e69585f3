package model

// SummaryBucket reports a count and a summed-hours figure for one
// date bucket. Count means sessions for the today bucket and distinct
// days worked for the week and month buckets.
type SummaryBucket struct {
	Count int     `json:"count"`
	Hours float64 `json:"hours"`
}

// Summary aggregates a user's entries into the three report buckets.
//
// The week bucket counts distinct days derived from the check-in instant,
// while the month bucket counts distinct stored date values. The two
// conventions differ on purpose; existing reports depend on both.
type Summary struct {
	Today     SummaryBucket `json:"today"`
	ThisWeek  SummaryBucket `json:"this_week"`
	ThisMonth SummaryBucket `json:"this_month"`
}
