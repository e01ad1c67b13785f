package models

import "fmt"

// Game configuration for Lotto America drawings.
const (
	MainNumberCount = 5
	MainNumberMin   = 1
	MainNumberMax   = 52
	StarBallMin     = 1
	StarBallMax     = 10
)

// JackpotUnknown is served when the source does not expose a jackpot amount.
const JackpotUnknown = "Not available"

// DrawResult is a single Lotto America drawing as served to the front end.
// A result is only emitted once it passed validation: exactly five main
// numbers in range and a star ball in range.
type DrawResult struct {
	Date         string       `json:"date"`
	Numbers      []int        `json:"numbers"`
	StarBall     int          `json:"starBall"`
	AllStarBonus int          `json:"allStarBonus"`
	Winners      int          `json:"winners"`
	Jackpot      string       `json:"jackpot"`
	IsLive       bool         `json:"isLive"`
	DebugInfo    *Diagnostics `json:"debugInfo,omitempty"`
}

// DiagStep is one recorded decision point during a scrape attempt.
type DiagStep struct {
	Label   string `json:"label"`
	OK      bool   `json:"ok"`
	Details string `json:"details,omitempty"`
}

// DiagCounts summarizes how many candidates an attempt saw and kept.
type DiagCounts struct {
	CardsFound      int `json:"cardsFound"`
	CompleteResults int `json:"completeResults"`
}

// Diagnostics is the ordered step log for one scrape attempt. Steps appear
// strictly in call order; there are no timestamps.
type Diagnostics struct {
	Steps        []DiagStep `json:"steps"`
	Counts       DiagCounts `json:"counts"`
	SourceURL    string     `json:"sourceUrl"`
	HTTPStatus   int        `json:"httpStatus,omitempty"`
	UsedFallback bool       `json:"usedFallback,omitempty"`
	Errors       []string   `json:"errors,omitempty"`
}

// Step appends a decision point to the log.
func (d *Diagnostics) Step(label string, ok bool, details string) {
	d.Steps = append(d.Steps, DiagStep{Label: label, OK: ok, Details: details})
}

// ItemError records a failure limited to one candidate record. The attempt
// carries on with the remaining candidates.
func (d *Diagnostics) ItemError(context string, err error) {
	msg := fmt.Sprintf("%s: %v", context, err)
	d.Errors = append(d.Errors, msg)
	d.Step("item_error", false, msg)
}

// Clone returns a deep copy, so a retained log can be extended for a later
// response without mutating the original attempt.
func (d *Diagnostics) Clone() *Diagnostics {
	if d == nil {
		return &Diagnostics{}
	}
	out := *d
	out.Steps = append([]DiagStep(nil), d.Steps...)
	out.Errors = append([]string(nil), d.Errors...)
	return &out
}

// CacheInfo reports cache usage for debug responses.
type CacheInfo struct {
	Used          bool   `json:"used"`
	AgeMs         int64  `json:"ageMs"`
	LastFetchTime string `json:"lastFetchTime"`
}

// DebugEnvelope wraps a result set with its diagnostics when the debug query
// parameter is present.
type DebugEnvelope struct {
	Results     []DrawResult `json:"results"`
	Diagnostics *Diagnostics `json:"diagnostics"`
	Cache       CacheInfo    `json:"cache"`
}
