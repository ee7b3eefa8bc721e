package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/signalis/connector-cli/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		record model.NormalizedRecord
		want   model.Action
	}{
		{
			name:   "empty_record",
			record: model.NormalizedRecord{},
			want:   model.ActionCannotRoute,
		},
		{
			name:   "email_always_verify",
			record: model.NormalizedRecord{Email: "jane@acme.com", Domain: "acme.com", FullName: "Jane Doe", Company: "Acme"},
			want:   model.ActionVerify,
		},
		{
			name:   "email_alone_verify",
			record: model.NormalizedRecord{Email: "jane@acme.com"},
			want:   model.ActionVerify,
		},
		{
			name:   "domain_and_full_name",
			record: model.NormalizedRecord{Domain: "acme.com", FullName: "Jane Doe"},
			want:   model.ActionFindPerson,
		},
		{
			name:   "domain_and_split_name",
			record: model.NormalizedRecord{Domain: "acme.com", FirstName: "Jane", LastName: "Doe"},
			want:   model.ActionFindPerson,
		},
		{
			name:   "domain_single_token_with_title",
			record: model.NormalizedRecord{Domain: "acme.com", FullName: "Jane", Title: "CEO"},
			want:   model.ActionFindPerson,
		},
		{
			name:   "domain_single_token_with_linkedin",
			record: model.NormalizedRecord{Domain: "acme.com", FullName: "Jane", LinkedIn: "https://linkedin.com/in/jane"},
			want:   model.ActionFindPerson,
		},
		{
			name:   "domain_single_token_without_context",
			record: model.NormalizedRecord{Domain: "acme.com", FullName: "Jane"},
			want:   model.ActionFindCompanyContact,
		},
		{
			name:   "domain_only",
			record: model.NormalizedRecord{Domain: "acme.com"},
			want:   model.ActionFindCompanyContact,
		},
		{
			name:   "company_and_name",
			record: model.NormalizedRecord{Company: "Acme", FullName: "Jane Doe"},
			want:   model.ActionSearchPerson,
		},
		{
			name:   "company_only",
			record: model.NormalizedRecord{Company: "Acme"},
			want:   model.ActionSearchCompany,
		},
		{
			name:   "name_only_cannot_route",
			record: model.NormalizedRecord{FullName: "Jane Doe"},
			want:   model.ActionCannotRoute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.record))
		})
	}
}

// Classify must be total: every presence combination yields exactly one of
// the six labels, deterministically.
func TestClassify_TotalOverPresenceCombinations(t *testing.T) {
	valid := map[model.Action]bool{
		model.ActionVerify:             true,
		model.ActionFindPerson:         true,
		model.ActionFindCompanyContact: true,
		model.ActionSearchPerson:       true,
		model.ActionSearchCompany:      true,
		model.ActionCannotRoute:        true,
	}

	for mask := 0; mask < 64; mask++ {
		record := model.NormalizedRecord{}
		if mask&1 != 0 {
			record.Email = "jane@acme.com"
		}
		if mask&2 != 0 {
			record.Domain = "acme.com"
		}
		if mask&4 != 0 {
			record.Company = "Acme"
		}
		if mask&8 != 0 {
			record.FullName = "Jane Doe"
		}
		if mask&16 != 0 {
			record.Title = "CEO"
		}
		if mask&32 != 0 {
			record.LinkedIn = "https://linkedin.com/in/jane"
		}

		first := Classify(&record)
		assert.True(t, valid[first], "mask %d produced unknown action %s", mask, first)
		assert.Equal(t, first, Classify(&record), "mask %d not deterministic", mask)

		if record.Email != "" {
			assert.Equal(t, model.ActionVerify, first, "mask %d: email must force VERIFY", mask)
		}
	}
}
