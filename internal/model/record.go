package model

import (
	"strings"
	"time"
)

// SignalKind categorizes where a record's outreach signal came from.
type SignalKind string

const (
	SignalHiringRole  SignalKind = "HIRING_ROLE"
	SignalGrowth      SignalKind = "GROWTH"
	SignalContactRole SignalKind = "CONTACT_ROLE"
)

// SignalMeta describes the signal attached to a record at ingestion.
type SignalMeta struct {
	Kind   SignalKind `json:"kind"`
	Label  string     `json:"label"`
	Source string     `json:"source"`
}

// DomainSource records how a record's domain was obtained.
type DomainSource string

const (
	DomainExplicit DomainSource = "explicit"
	DomainDerived  DomainSource = "derived"
	DomainNone     DomainSource = "none"
)

// Side distinguishes demand records (buyers) from supply records (sellers).
type Side string

const (
	SideDemand Side = "demand"
	SideSupply Side = "supply"
)

// NormalizedRecord is a contact record after ingestion normalization.
// Field presence, not content, drives enrichment routing.
type NormalizedRecord struct {
	// Identity
	RecordKey string `json:"record_key"`
	StableKey string `json:"stable_key,omitempty"`

	// Contact
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	FullName      string     `json:"full_name,omitempty"`
	Email         string     `json:"email,omitempty"`
	EmailSource   string     `json:"email_source,omitempty"`
	EmailVerified bool       `json:"email_verified,omitempty"`
	VerifiedBy    string     `json:"verified_by,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	Title         string     `json:"title,omitempty"`
	LinkedIn      string     `json:"linkedin,omitempty"`

	// Company
	Company      string       `json:"company,omitempty"`
	Domain       string       `json:"domain,omitempty"`
	DomainSource DomainSource `json:"domain_source,omitempty"`
	Industry     string       `json:"industry,omitempty"`
	Description  string       `json:"company_description,omitempty"`

	// Signal
	SignalMeta *SignalMeta `json:"signal_meta,omitempty"`
	Signal     string      `json:"signal,omitempty"`

	// Location
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`

	// Meta
	SchemaID string            `json:"schema_id,omitempty"`
	Raw      map[string]string `json:"raw,omitempty"`
}

// HasPersonName reports whether the record carries a usable person name:
// a multi-token full name, explicit first+last, or a single-token name
// with enough context (title or LinkedIn) to identify the person.
func (r *NormalizedRecord) HasPersonName() bool {
	tokens := nameTokens(r.FullName)
	if len(tokens) >= 2 {
		return true
	}
	if r.FirstName != "" && r.LastName != "" {
		return true
	}
	return len(tokens) == 1 && (r.Title != "" || r.LinkedIn != "")
}

// NameParts returns the best-effort first and last name, splitting FullName
// when the explicit fields are missing.
func (r *NormalizedRecord) NameParts() (first, last string) {
	first = r.FirstName
	last = r.LastName
	tokens := nameTokens(r.FullName)
	if first == "" && len(tokens) > 0 {
		first = tokens[0]
	}
	if last == "" && len(tokens) > 1 {
		last = tokens[1]
	}
	return first, last
}

func nameTokens(s string) []string {
	return strings.Fields(s)
}
