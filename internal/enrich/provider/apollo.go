package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/signalis/connector-cli/internal/model"
	"github.com/signalis/connector-cli/pkg/apollo"
)

// apolloSeniorities is the server-side seniority filter sent with every
// search; final candidate selection still happens client-side by rank.
var apolloSeniorities = []string{"founder", "c_suite", "owner", "partner", "vp", "director", "manager"}

// Apollo adapts the Apollo people-search API. It searches by organization
// domain when available, falling back to a company-name keyword search, and
// picks the most senior candidate that has an email.
type Apollo struct {
	client apollo.Client
}

// NewApollo wraps an Apollo client.
func NewApollo(client apollo.Client) *Apollo {
	return &Apollo{client: client}
}

func (p *Apollo) Name() string { return "apollo" }

func (p *Apollo) Find(ctx context.Context, record *model.NormalizedRecord) *model.EnrichmentResult {
	hasDomain := record.Domain != ""
	hasCompany := record.Company != ""
	inputs := map[string]bool{"domain": hasDomain, "company": hasCompany}

	if !hasDomain && !hasCompany {
		return &model.EnrichmentResult{
			Outcome:       model.OutcomeMissingInput,
			Source:        model.SourceNone,
			InputsPresent: inputs,
		}
	}

	req := apollo.SearchRequest{
		ContactEmailStatus: []string{"verified", "likely to engage"},
		PersonSeniorities:  apolloSeniorities,
	}
	if hasDomain {
		req.OrganizationDomains = []string{record.Domain}
	} else {
		req.Keywords = record.Company
	}

	resp, err := p.client.SearchPeople(ctx, req)
	if err != nil {
		mapping := clientErrors{
			unauthorized:     apollo.ErrUnauthorized,
			rateLimited:      apollo.ErrRateLimited,
			creditsExhausted: apollo.ErrCreditsExhausted,
			unexpectedStatus: apollo.ErrUnexpectedStatus,
			statusOutcome:    model.OutcomeNotFound,
		}
		if outcome, ok := mapClientError(err, mapping); ok {
			return &model.EnrichmentResult{
				Outcome:       outcome,
				Source:        p.Name(),
				InputsPresent: inputs,
			}
		}
		zap.L().Debug("apollo: search unavailable", zap.Error(err))
		return nil
	}

	if len(resp.People) == 0 {
		return &model.EnrichmentResult{
			Outcome:       model.OutcomeNoCandidates,
			Source:        p.Name(),
			InputsPresent: inputs,
		}
	}

	person, ok := SelectCandidate(resp.People)
	if !ok {
		return &model.EnrichmentResult{
			Outcome:       model.OutcomeNoCandidates,
			Source:        p.Name(),
			InputsPresent: inputs,
		}
	}

	return &model.EnrichmentResult{
		Outcome:       model.OutcomeEnriched,
		Email:         person.Email,
		FirstName:     person.FirstName,
		LastName:      person.LastName,
		Title:         person.Title,
		Verified:      true,
		Source:        p.Name(),
		InputsPresent: inputs,
	}
}
