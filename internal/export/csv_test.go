package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalis/connector-cli/internal/model"
)

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteStandard(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "standard.csv")

	records := []model.NormalizedRecord{
		{FullName: "Jane Smith", Company: "Acme", Domain: "acme.com", Email: "jane@acme.com", Description: "B2B SaaS", Signal: "Hiring: Engineer"},
		{FullName: "Bob Jones", Company: "Globex", Domain: "globex.com"},
	}

	require.NoError(t, WriteStandard(records, out))

	rows := readCSVFile(t, out)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Full Name", "Company Name", "Domain", "Email", "Context", "Signal"}, rows[0])
	assert.Equal(t, []string{"Jane Smith", "Acme", "acme.com", "jane@acme.com", "B2B SaaS", "Hiring: Engineer"}, rows[1])
	assert.Equal(t, "Bob Jones", rows[2][0])
}

func TestWriteEnriched(t *testing.T) {
	out := filepath.Join(t.TempDir(), "enriched.csv")

	records := []model.NormalizedRecord{
		{RecordKey: "k1", FullName: "Jane Smith", Company: "Acme", Domain: "acme.com", Title: "CEO"},
		{RecordKey: "k2", FullName: "Bob Jones", Company: "Globex", Domain: "globex.com", Email: "bob@globex.com", EmailSource: "csv"},
		{RecordKey: "k3", FullName: "Ann Lee", Company: "Initech"},
	}
	results := map[string]*model.EnrichmentResult{
		"k1": {
			Action:             model.ActionFindPerson,
			Outcome:            model.OutcomeEnriched,
			Email:              "jane@acme.com",
			Source:             "apollo",
			Verified:           true,
			ProvidersAttempted: []string{"ssm", "apollo"},
		},
		"k2": {
			Action:  model.ActionVerify,
			Outcome: model.OutcomeInvalid,
			Source:  "ssm",
		},
	}

	require.NoError(t, WriteEnriched(records, results, out))

	rows := readCSVFile(t, out)
	require.Len(t, rows, 4)

	header := rows[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %q not found", name)
		return -1
	}

	// Enriched record takes the provider email and source.
	jane := rows[1]
	assert.Equal(t, "jane@acme.com", jane[col("Email")])
	assert.Equal(t, "apollo", jane[col("Email Source")])
	assert.Equal(t, "true", jane[col("Verified")])
	assert.Equal(t, "FIND_PERSON", jane[col("Action")])
	assert.Equal(t, "ENRICHED", jane[col("Outcome")])
	assert.Equal(t, "ssm;apollo", jane[col("Providers Attempted")])

	// Failed verification keeps the original email.
	bob := rows[2]
	assert.Equal(t, "bob@globex.com", bob[col("Email")])
	assert.Equal(t, "csv", bob[col("Email Source")])
	assert.Equal(t, "INVALID", bob[col("Outcome")])

	// Record without a result gets empty outcome columns.
	ann := rows[3]
	assert.Equal(t, "", ann[col("Action")])
	assert.Equal(t, "", ann[col("Outcome")])
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 2, 15, 14, 30, 22, 0, time.UTC)
	got := Filename(model.SideSupply, "out", now)
	assert.Equal(t, filepath.Join("out", "supply_2025-02-15_143022.csv"), got)
}
