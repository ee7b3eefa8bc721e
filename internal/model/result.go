package model

import "time"

// Action is the routing label the classifier assigns to a record.
type Action string

const (
	ActionVerify             Action = "VERIFY"
	ActionFindPerson         Action = "FIND_PERSON"
	ActionFindCompanyContact Action = "FIND_COMPANY_CONTACT"
	ActionSearchPerson       Action = "SEARCH_PERSON"
	ActionSearchCompany      Action = "SEARCH_COMPANY"
	ActionCannotRoute        Action = "CANNOT_ROUTE"
)

// Outcome is the fixed result category every provider adapter and the
// orchestrator map into.
type Outcome string

const (
	OutcomeEnriched         Outcome = "ENRICHED"
	OutcomeVerified         Outcome = "VERIFIED"
	OutcomeInvalid          Outcome = "INVALID"
	OutcomeNotFound         Outcome = "NOT_FOUND"
	OutcomeNoCandidates     Outcome = "NO_CANDIDATES"
	OutcomeMissingInput     Outcome = "MISSING_INPUT"
	OutcomeAuthError        Outcome = "AUTH_ERROR"
	OutcomeRateLimited      Outcome = "RATE_LIMITED"
	OutcomeCreditsExhausted Outcome = "CREDITS_EXHAUSTED"
)

// Source values for results not produced by a real provider.
const (
	SourceNone     = "none"
	SourceExisting = "existing"
)

// EnrichmentResult is the immutable outcome of enriching one record.
type EnrichmentResult struct {
	Action             Action          `json:"action"`
	Outcome            Outcome         `json:"outcome"`
	Email              string          `json:"email,omitempty"`
	FirstName          string          `json:"first_name,omitempty"`
	LastName           string          `json:"last_name,omitempty"`
	Title              string          `json:"title,omitempty"`
	Verified           bool            `json:"verified"`
	Source             string          `json:"source"`
	InputsPresent      map[string]bool `json:"inputs_present,omitempty"`
	ProvidersAttempted []string        `json:"providers_attempted,omitempty"`
	ProviderContext    map[string]any  `json:"provider_context,omitempty"`
	DurationMS         float64         `json:"duration_ms,omitempty"`
}

// Succeeded reports whether the result carries a usable email.
func (r *EnrichmentResult) Succeeded() bool {
	return (r.Outcome == OutcomeEnriched || r.Outcome == OutcomeVerified) && r.Email != ""
}

// CachedContact is the durable form of a successful enrichment.
type CachedContact struct {
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Title      string `json:"title"`
	Source     string `json:"source"`
	EnrichedAt string `json:"enriched_at"` // RFC 3339 UTC, "Z" suffix
	Verified   bool   `json:"verified"`
}

// Age returns how long ago the contact was enriched, relative to now.
// Unparseable timestamps report an arbitrarily large age so callers treat
// the entry as stale.
func (c *CachedContact) Age(now time.Time) time.Duration {
	t, err := time.Parse(time.RFC3339, c.EnrichedAt)
	if err != nil {
		return 1<<62 - 1
	}
	return now.Sub(t)
}
