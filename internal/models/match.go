package models

import "time"

// Stage identifies one step of the candidate filter pipeline.
type Stage string

const (
	StageDistributionFlag Stage = "distribution_flag"
	StageStatus           Stage = "status"
	StageZone             Stage = "zone"
	StagePropertyType     Stage = "property_type"
	StagePrice            Stage = "price"
)

// Stages lists the pipeline stages in execution order.
var Stages = []Stage{
	StageDistributionFlag,
	StageStatus,
	StageZone,
	StagePropertyType,
	StagePrice,
}

// CandidateTrace records the pipeline outcome for one consolidated buyer.
// RejectedAt is empty when the candidate passed every stage.
type CandidateTrace struct {
	Email        string   `json:"email"`
	BuyerNumbers []string `json:"buyer_numbers"`
	RejectedAt   Stage    `json:"rejected_at,omitempty"`
}

// Passed reports whether the candidate cleared all stages.
func (t CandidateTrace) Passed() bool {
	return t.RejectedAt == ""
}

// MatchedContact is one qualified recipient in the distribution list.
type MatchedContact struct {
	Email        string   `json:"email"`
	BuyerNumbers []string `json:"buyer_numbers"`
}

// MatchResult is the full outcome of one matching run for one property: the
// deduplicated, email-ordered recipient list plus the per-candidate trace
// that the diagnostic tooling consumes.
type MatchResult struct {
	PropertyID     int64            `json:"property_id"`
	PropertyNumber string           `json:"property_number"`
	ZoneCodes      string           `json:"zone_codes"`
	Matched        []MatchedContact `json:"matched"`
	Traces         []CandidateTrace `json:"traces"`
	StageRejects   map[Stage]int    `json:"stage_rejects"`

	// UnparseablePrice counts candidates rejected at the price stage whose
	// every price-range text failed to parse. Reported separately so data
	// entry problems stay visible to operators.
	UnparseablePrice int `json:"unparseable_price"`

	Warnings    []string  `json:"warnings,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MatchedCount returns the number of qualified contacts.
func (r *MatchResult) MatchedCount() int {
	return len(r.Matched)
}
