package provider

import (
	"context"

	"go.uber.org/zap"

	"github.com/signalis/connector-cli/internal/model"
	"github.com/signalis/connector-cli/pkg/anymail"
)

// minConfidence is the lowest Anymail confidence score treated as a usable
// candidate.
const minConfidence = 50

// Anymail adapts the Anymail Finder person search. Requires domain + name.
type Anymail struct {
	client anymail.Client
}

// NewAnymail wraps an Anymail Finder client.
func NewAnymail(client anymail.Client) *Anymail {
	return &Anymail{client: client}
}

func (p *Anymail) Name() string { return "anymail" }

func (p *Anymail) Find(ctx context.Context, record *model.NormalizedRecord) *model.EnrichmentResult {
	if record.Domain == "" {
		return nil
	}

	if record.FirstName == "" && record.FullName == "" {
		return &model.EnrichmentResult{
			Outcome:       model.OutcomeMissingInput,
			Source:        model.SourceNone,
			InputsPresent: map[string]bool{"domain": true, "person_name": false},
		}
	}

	inputs := map[string]bool{"domain": true, "person_name": true}
	first, last := record.NameParts()

	resp, err := p.client.SearchPerson(ctx, anymail.SearchRequest{
		Domain:    record.Domain,
		FirstName: first,
		LastName:  last,
	})
	if err != nil {
		mapping := clientErrors{
			unauthorized:     anymail.ErrUnauthorized,
			rateLimited:      anymail.ErrRateLimited,
			unexpectedStatus: anymail.ErrUnexpectedStatus,
			statusOutcome:    model.OutcomeNotFound,
		}
		if outcome, ok := mapClientError(err, mapping); ok {
			return &model.EnrichmentResult{
				Outcome:       outcome,
				Source:        p.Name(),
				InputsPresent: inputs,
			}
		}
		zap.L().Debug("anymail: search unavailable", zap.Error(err))
		return nil
	}

	if resp.Email == "" || resp.Confidence < minConfidence {
		return &model.EnrichmentResult{
			Outcome:       model.OutcomeNoCandidates,
			Source:        p.Name(),
			InputsPresent: inputs,
		}
	}

	return &model.EnrichmentResult{
		Outcome:       model.OutcomeEnriched,
		Email:         resp.Email,
		FirstName:     first,
		LastName:      last,
		Title:         record.Title,
		Verified:      true,
		Source:        p.Name(),
		InputsPresent: inputs,
	}
}
