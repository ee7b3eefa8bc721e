package provider

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/signalis/connector-cli/internal/model"
	"github.com/signalis/connector-cli/pkg/ssm"
)

// SSM adapts the ConnectorAgent email API. It is both a Finder and the only
// Verifier: the verify endpoint resolves M365 hosting and catch-all domains
// internally, so its status field is trusted as-is.
type SSM struct {
	client ssm.Client
}

// NewSSM wraps a ConnectorAgent client.
func NewSSM(client ssm.Client) *SSM {
	return &SSM{client: client}
}

func (p *SSM) Name() string { return "ssm" }

func (p *SSM) verifyErrors() clientErrors {
	return clientErrors{
		unauthorized:     ssm.ErrUnauthorized,
		rateLimited:      ssm.ErrRateLimited,
		unexpectedStatus: ssm.ErrUnexpectedStatus,
		// Other non-200s on verify are absence, not a negative verdict.
	}
}

func (p *SSM) findErrors() clientErrors {
	return clientErrors{
		unauthorized:     ssm.ErrUnauthorized,
		rateLimited:      ssm.ErrRateLimited,
		unexpectedStatus: ssm.ErrUnexpectedStatus,
		statusOutcome:    model.OutcomeNotFound,
	}
}

// Verify maps the provider verdict: valid → VERIFIED(verified), risky →
// VERIFIED(unverified), invalid → INVALID. Unknown verdicts and transport
// failures return nil so callers fall back to trusting the existing email.
func (p *SSM) Verify(ctx context.Context, email string) *model.EnrichmentResult {
	if email == "" {
		return nil
	}

	resp, err := p.client.Verify(ctx, email)
	if err != nil {
		if outcome, ok := mapClientError(err, p.verifyErrors()); ok {
			return &model.EnrichmentResult{
				Action:        model.ActionVerify,
				Outcome:       outcome,
				Email:         email,
				Source:        p.Name(),
				InputsPresent: map[string]bool{"email": true},
			}
		}
		zap.L().Debug("ssm: verify unavailable", zap.Error(err))
		return nil
	}

	providerCtx := make(map[string]any)
	if hosting := strings.ToLower(resp.Hosting()); hosting != "" {
		providerCtx["hosted_at"] = hosting
	}
	if resp.CatchAll() {
		providerCtx["catch_all_upgrade"] = true
	}
	if len(providerCtx) == 0 {
		providerCtx = nil
	}

	status := strings.ToLower(resp.Status)
	verdict := strings.ToUpper(resp.Verdict)

	result := model.EnrichmentResult{
		Action:          model.ActionVerify,
		Email:           email,
		Source:          p.Name(),
		InputsPresent:   map[string]bool{"email": true},
		ProviderContext: providerCtx,
	}

	switch {
	case status == "valid" || verdict == "VALID":
		result.Outcome = model.OutcomeVerified
		result.Verified = true
		return &result
	case status == "risky":
		result.Outcome = model.OutcomeVerified
		return &result
	case status == "invalid" || verdict == "INVALID":
		result.Outcome = model.OutcomeInvalid
		return &result
	}

	// Unknown status: absence, not a negative.
	return nil
}

// Find requires domain plus a splittable person name.
func (p *SSM) Find(ctx context.Context, record *model.NormalizedRecord) *model.EnrichmentResult {
	if record.Domain == "" {
		return nil
	}

	first, last := record.NameParts()
	if first == "" || last == "" {
		return &model.EnrichmentResult{
			Outcome:       model.OutcomeMissingInput,
			Source:        p.Name(),
			InputsPresent: map[string]bool{"domain": true, "person_name": false},
		}
	}

	inputs := map[string]bool{"domain": true, "person_name": true}

	resp, err := p.client.Find(ctx, ssm.FindRequest{
		FirstName: first,
		LastName:  last,
		Domain:    record.Domain,
	})
	if err != nil {
		if outcome, ok := mapClientError(err, p.findErrors()); ok {
			return &model.EnrichmentResult{
				Outcome:       outcome,
				Source:        p.Name(),
				InputsPresent: inputs,
			}
		}
		zap.L().Debug("ssm: find unavailable", zap.Error(err))
		return nil
	}

	if resp.Email == "" {
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
