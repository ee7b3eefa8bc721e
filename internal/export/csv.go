// Package export writes normalized records and their enrichment results
// back out as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/signalis/connector-cli/internal/model"
)

// standardColumns is the six-column contact list format.
var standardColumns = []string{
	"Full Name",
	"Company Name",
	"Domain",
	"Email",
	"Context",
	"Signal",
}

// enrichedColumns extends the standard format with enrichment outcome fields.
var enrichedColumns = []string{
	"Full Name",
	"Company Name",
	"Domain",
	"Email",
	"Title",
	"Context",
	"Signal",
	"Email Source",
	"Verified",
	"Action",
	"Outcome",
	"Providers Attempted",
}

// WriteStandard writes records in the six-column contact format.
func WriteStandard(records []model.NormalizedRecord, outputPath string) error {
	return writeCSV(outputPath, standardColumns, records, nil, buildStandardRow)
}

// WriteEnriched writes records joined with their enrichment results, keyed
// by record key. Records without a result get empty outcome columns.
func WriteEnriched(records []model.NormalizedRecord, results map[string]*model.EnrichmentResult, outputPath string) error {
	return writeCSV(outputPath, enrichedColumns, records, results, buildEnrichedRow)
}

type rowBuilder func(r *model.NormalizedRecord, res *model.EnrichmentResult) []string

func writeCSV(outputPath string, columns []string, records []model.NormalizedRecord, results map[string]*model.EnrichmentResult, build rowBuilder) error {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "export: create output dir")
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for i := range records {
		r := &records[i]
		var res *model.EnrichmentResult
		if results != nil {
			res = results[r.RecordKey]
		}
		if err := w.Write(build(r, res)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "export: flush")
}

func buildStandardRow(r *model.NormalizedRecord, _ *model.EnrichmentResult) []string {
	return []string{
		r.FullName,
		r.Company,
		r.Domain,
		r.Email,
		r.Description,
		r.Signal,
	}
}

func buildEnrichedRow(r *model.NormalizedRecord, res *model.EnrichmentResult) []string {
	email := r.Email
	title := r.Title
	source := r.EmailSource
	verified := r.EmailVerified

	var action, outcome, providers string
	if res != nil {
		action = string(res.Action)
		outcome = string(res.Outcome)
		providers = strings.Join(res.ProvidersAttempted, ";")
		if res.Succeeded() {
			email = res.Email
			source = res.Source
			verified = res.Verified
			if res.Title != "" {
				title = res.Title
			}
		}
	}

	return []string{
		r.FullName,
		r.Company,
		r.Domain,
		email,
		title,
		r.Description,
		r.Signal,
		source,
		strconv.FormatBool(verified),
		action,
		outcome,
		providers,
	}
}

// Filename builds a timestamped output path, out/<side>_YYYY-MM-DD_HHMMSS.csv.
func Filename(side model.Side, baseDir string, now time.Time) string {
	return filepath.Join(baseDir, fmt.Sprintf("%s_%s.csv", side, now.Format("2006-01-02_150405")))
}
