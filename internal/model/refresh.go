package model

// Refresh outcome reasons
const (
	SkipReasonNoData     = "no data"
	SkipReasonFetchError = "fetch error"
	SkipReasonStoreError = "store error"
	SkipReasonCancelled  = "cancelled"
)

// SymbolOutcome records what happened to one symbol during a refresh run
type SymbolOutcome struct {
	Symbol  string `json:"symbol"`
	Updated bool   `json:"updated"`
	Reason  string `json:"reason,omitempty"`
}

// RefreshReport collects the per-symbol outcomes of one refresh run.
// The updated count is derived from the outcomes, never from array lengths.
type RefreshReport struct {
	Requested []string        `json:"requested"`
	Outcomes  []SymbolOutcome `json:"outcomes"`
}

// UpdatedCount returns the number of symbols whose quote row was replaced
func (r *RefreshReport) UpdatedCount() int {
	count := 0
	for _, o := range r.Outcomes {
		if o.Updated {
			count++
		}
	}
	return count
}

// RefreshResponse is the body returned to the caller of the refresh endpoint
type RefreshResponse struct {
	Success bool     `json:"success"`
	Updated int      `json:"updated"`
	Symbols []string `json:"symbols"`
	Source  string   `json:"source"`
	Note    string   `json:"note"`
}
