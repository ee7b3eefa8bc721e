// Package ingest loads contact lists from CSV and XLSX files and
// normalizes rows into records with stable dual keys.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/signalis/connector-cli/internal/model"
)

// column alias sets, matched against lowercased snake_case headers.
var (
	fullNameCols    = []string{"full_name", "name", "contact_name"}
	firstNameCols   = []string{"first_name"}
	lastNameCols    = []string{"last_name"}
	companyCols     = []string{"company_name", "company", "organization"}
	domainCols      = []string{"domain", "website", "company_domain"}
	titleCols       = []string{"title", "job_title"}
	emailCols       = []string{"email", "email_address", "work_email"}
	linkedinCols    = []string{"linkedin_url", "linkedin"}
	signalCols      = []string{"signal", "hiring_signal"}
	descriptionCols = []string{
		"context", "service_description", "company_description",
		"description", "about", "summary", "notes",
	}
)

var (
	schemeRe = regexp.MustCompile(`(?i)^https?://`)
	wwwRe    = regexp.MustCompile(`(?i)^www\.`)
	hiringRe = regexp.MustCompile(`(?i)^hiring[:\s]`)
)

// CleanDomain strips scheme, leading www, and any path, query, or fragment,
// and lowercases what remains.
func CleanDomain(domain string) string {
	cleaned := strings.TrimSpace(domain)
	if cleaned == "" {
		return ""
	}
	cleaned = schemeRe.ReplaceAllString(cleaned, "")
	cleaned = wwwRe.ReplaceAllString(cleaned, "")
	for _, sep := range []string{"/", "?", "#"} {
		if i := strings.Index(cleaned, sep); i >= 0 {
			cleaned = cleaned[:i]
		}
	}
	return strings.ToLower(cleaned)
}

// ParseName splits a full name into first name and the remainder as last name.
func ParseName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// RecordKey builds the per-upload row identity key.
func RecordKey(uploadID string, side model.Side, rowIndex int) string {
	return fmt.Sprintf("csvu:%s:%s:%d", uploadID, side, rowIndex)
}

// StableKey builds the upload-independent identity key from the canonical
// name|company|domain string.
func StableKey(fullName, company, domain string, side model.Side) string {
	canonical := strings.Join([]string{
		strings.ToLower(strings.TrimSpace(fullName)),
		strings.ToLower(strings.TrimSpace(company)),
		strings.ToLower(strings.TrimSpace(domain)),
	}, "|")
	sum := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("csvs:%s:%s", side, hex.EncodeToString(sum[:])[:16])
}

// row wraps one parsed file row with alias-aware field lookup.
type row struct {
	index  map[string]int
	header []string
	cells  []string
}

func normalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func newRowIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// get returns the first non-empty value among the alias columns.
func (r row) get(aliases []string) string {
	for _, alias := range aliases {
		i, ok := r.index[alias]
		if !ok || i >= len(r.cells) {
			continue
		}
		if v := strings.TrimSpace(r.cells[i]); v != "" {
			return v
		}
	}
	return ""
}

// raw returns the full row as a header-keyed map, using original header names.
func (r row) raw() map[string]string {
	out := make(map[string]string, len(r.header))
	for i, h := range r.header {
		if i < len(r.cells) {
			out[h] = r.cells[i]
		}
	}
	return out
}

// Normalize transforms parsed file rows into records. It is deterministic
// for a fixed uploadID and never fails on a row: missing fields stay empty
// and routing downstream decides what is actionable.
func Normalize(header []string, rows [][]string, side model.Side, uploadID string) []model.NormalizedRecord {
	idx := newRowIndex(header)
	records := make([]model.NormalizedRecord, 0, len(rows))

	for i, cells := range rows {
		r := row{index: idx, header: header, cells: cells}

		fullName := r.get(fullNameCols)
		first, last := ParseName(fullName)
		if fullName == "" {
			first = r.get(firstNameCols)
			last = r.get(lastNameCols)
			fullName = strings.TrimSpace(first + " " + last)
		}

		company := r.get(companyCols)
		domain := CleanDomain(r.get(domainCols))
		title := r.get(titleCols)
		signal := r.get(signalCols)

		domainSource := model.DomainNone
		if domain != "" {
			domainSource = model.DomainExplicit
		}

		rec := model.NormalizedRecord{
			RecordKey:    RecordKey(uploadID, side, i),
			StableKey:    StableKey(fullName, company, domain, side),
			FirstName:    first,
			LastName:     last,
			FullName:     fullName,
			Email:        r.get(emailCols),
			EmailSource:  "csv",
			Title:        title,
			LinkedIn:     r.get(linkedinCols),
			Company:      company,
			Domain:       domain,
			DomainSource: domainSource,
			Description:  r.get(descriptionCols),
			SignalMeta:   deriveSignalMeta(signal, title, side),
			Signal:       firstNonEmpty(signal, title),
			SchemaID:     "csv-upload",
			Raw:          r.raw(),
		}
		records = append(records, rec)
	}

	return records
}

// deriveSignalMeta classifies the row's outreach signal. An explicit
// "Hiring: ..." value is a hiring-role signal, any other explicit value is
// growth, and rows without one fall back to the contact's title.
func deriveSignalMeta(signal, title string, side model.Side) *model.SignalMeta {
	if signal != "" {
		kind := model.SignalGrowth
		if hiringRe.MatchString(signal) {
			kind = model.SignalHiringRole
		}
		return &model.SignalMeta{Kind: kind, Label: signal, Source: "Signal"}
	}

	label := title
	if label == "" {
		if side == model.SideDemand {
			label = "Decision maker"
		} else {
			label = "Service provider"
		}
	}
	return &model.SignalMeta{Kind: model.SignalContactRole, Label: label, Source: "csv"}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// LoadFile reads a CSV or XLSX contact list, chosen by file extension, and
// returns normalized records under a fresh upload ID.
func LoadFile(path string, side model.Side) ([]model.NormalizedRecord, string, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		header, rows, err = ReadXLSX(path, XLSXOptions{})
	case ".csv":
		header, rows, err = ReadCSVFile(path)
	default:
		return nil, "", eris.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, "", err
	}

	uploadID := uuid.NewString()
	return Normalize(header, rows, side, uploadID), uploadID, nil
}
