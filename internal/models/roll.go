package models

import (
	"time"
)

// TimeFormat is the wire format for roll timestamps: ISO-8601 UTC with milliseconds
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// MaxLabelLength caps the label of a roll, counted in characters
const MaxLabelLength = 100

// Roll is the persisted record of a sealed dice roll.
// Results and Salt are fixed at creation and never change.
type Roll struct {
	// ID is the short URL-safe identifier of the roll
	ID string `json:"id"`

	// NumDice is how many dice were rolled
	NumDice int `json:"numDice"`

	// NumSides is the die type
	NumSides int `json:"numSides"`

	// Label is free text supplied by the sealer
	Label string `json:"label"`

	// Results holds the die outcomes in roll order
	Results []int `json:"results"`

	// Salt is the secret mixed into ResultsHash
	Salt string `json:"salt"`

	// ResultsHash commits to Results and Salt
	ResultsHash string `json:"resultsHash"`

	// IsRevealed only ever moves from false to true
	IsRevealed bool `json:"isRevealed"`

	// ShowSum is a display preference for the total
	ShowSum bool `json:"showSum"`

	// WithReplacement allows repeated values when true
	WithReplacement bool `json:"withReplacement"`

	CreatedAt  time.Time  `json:"createdAt"`
	RevealedAt *time.Time `json:"revealedAt"`
	ExpiresAt  time.Time  `json:"expiresAt"`
}

// Total is the sum of all results
func (r *Roll) Total() int {
	total := 0
	for _, v := range r.Results {
		total += v
	}
	return total
}

// RollView is the read projection of a roll. Results, Total and RevealedAt
// are only present once the roll is revealed; Salt only when disclosure is on.
type RollView struct {
	ID              string `json:"id"`
	NumDice         int    `json:"numDice"`
	NumSides        int    `json:"numSides"`
	Label           string `json:"label"`
	Results         []int  `json:"results,omitempty"`
	ResultsHash     string `json:"resultsHash"`
	CreatedAt       string `json:"createdAt"`
	RevealedAt      string `json:"revealedAt,omitempty"`
	IsRevealed      bool   `json:"isRevealed"`
	Total           *int   `json:"total,omitempty"`
	ShowSum         bool   `json:"showSum"`
	WithReplacement bool   `json:"withReplacement"`
	ExpiresAt       string `json:"expiresAt"`
	Salt            string `json:"salt,omitempty"`
}

// View projects the roll for readers. A sealed roll never exposes results or
// salt. discloseSalt only affects revealed rolls.
func (r *Roll) View(discloseSalt bool) *RollView {
	view := &RollView{
		ID:              r.ID,
		NumDice:         r.NumDice,
		NumSides:        r.NumSides,
		Label:           r.Label,
		ResultsHash:     r.ResultsHash,
		CreatedAt:       FormatTime(r.CreatedAt),
		IsRevealed:      r.IsRevealed,
		ShowSum:         r.ShowSum,
		WithReplacement: r.WithReplacement,
		ExpiresAt:       FormatTime(r.ExpiresAt),
	}

	if !r.IsRevealed {
		return view
	}

	total := r.Total()
	view.Results = append([]int(nil), r.Results...)
	view.Total = &total
	if r.RevealedAt != nil {
		view.RevealedAt = FormatTime(*r.RevealedAt)
	}
	if discloseSalt {
		view.Salt = r.Salt
	}

	return view
}

// FormatTime renders t in TimeFormat
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}
