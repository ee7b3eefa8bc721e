package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalis/connector-cli/internal/model"
	"github.com/signalis/connector-cli/pkg/ssm"
)

// mockSSMClient implements ssm.Client for testing.
type mockSSMClient struct {
	verifyResp *ssm.VerifyResponse
	verifyErr  error
	findResp   *ssm.FindResponse
	findErr    error
	findCalls  int
}

func (m *mockSSMClient) Verify(_ context.Context, _ string) (*ssm.VerifyResponse, error) {
	return m.verifyResp, m.verifyErr
}

func (m *mockSSMClient) Find(_ context.Context, _ ssm.FindRequest) (*ssm.FindResponse, error) {
	m.findCalls++
	return m.findResp, m.findErr
}

func TestSSMVerify_Verdicts(t *testing.T) {
	tests := []struct {
		name         string
		resp         *ssm.VerifyResponse
		err          error
		wantNil      bool
		wantOutcome  model.Outcome
		wantVerified bool
	}{
		{
			name:         "valid",
			resp:         &ssm.VerifyResponse{Status: "valid"},
			wantOutcome:  model.OutcomeVerified,
			wantVerified: true,
		},
		{
			name:        "risky_counts_as_unverified_verdict",
			resp:        &ssm.VerifyResponse{Status: "risky"},
			wantOutcome: model.OutcomeVerified,
		},
		{
			name:        "invalid",
			resp:        &ssm.VerifyResponse{Status: "invalid"},
			wantOutcome: model.OutcomeInvalid,
		},
		{
			name:        "verdict_field_fallback",
			resp:        &ssm.VerifyResponse{Verdict: "valid"},
			wantOutcome: model.OutcomeVerified,
		},
		{
			name:    "unknown_status_is_absence",
			resp:    &ssm.VerifyResponse{Status: "unknown"},
			wantNil: true,
		},
		{
			name:        "auth_error",
			err:         ssm.ErrUnauthorized,
			wantOutcome: model.OutcomeAuthError,
		},
		{
			name:        "rate_limited",
			err:         ssm.ErrRateLimited,
			wantOutcome: model.OutcomeRateLimited,
		},
		{
			name:    "server_error_is_absence",
			err:     ssm.ErrUnexpectedStatus,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewSSM(&mockSSMClient{verifyResp: tt.resp, verifyErr: tt.err})
			result := adapter.Verify(context.Background(), "jane@acme.com")

			if tt.wantNil {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, tt.wantVerified, result.Verified)
			assert.Equal(t, "ssm", result.Source)
		})
	}
}

func TestSSMVerify_ProviderContext(t *testing.T) {
	adapter := NewSSM(&mockSSMClient{verifyResp: &ssm.VerifyResponse{
		Status:          "valid",
		HostedAt:        "M365",
		CatchAllUpgrade: true,
	}})

	result := adapter.Verify(context.Background(), "jane@acme.com")
	require.NotNil(t, result)
	assert.Equal(t, "m365", result.ProviderContext["hosted_at"])
	assert.Equal(t, true, result.ProviderContext["catch_all_upgrade"])
}

func TestSSMVerify_EmptyEmail(t *testing.T) {
	adapter := NewSSM(&mockSSMClient{})
	assert.Nil(t, adapter.Verify(context.Background(), ""))
}

func TestSSMFind_Success(t *testing.T) {
	client := &mockSSMClient{findResp: &ssm.FindResponse{Email: "jane@acme.com"}}
	adapter := NewSSM(client)

	record := &model.NormalizedRecord{Domain: "acme.com", FullName: "Jane Doe", Title: "CEO"}
	result := adapter.Find(context.Background(), record)

	require.NotNil(t, result)
	assert.Equal(t, model.OutcomeEnriched, result.Outcome)
	assert.Equal(t, "jane@acme.com", result.Email)
	assert.Equal(t, "Jane", result.FirstName)
	assert.Equal(t, "Doe", result.LastName)
	assert.Equal(t, "CEO", result.Title)
	assert.True(t, result.Verified)
}

func TestSSMFind_NoDomainIsAbsence(t *testing.T) {
	client := &mockSSMClient{}
	adapter := NewSSM(client)

	result := adapter.Find(context.Background(), &model.NormalizedRecord{FullName: "Jane Doe"})
	assert.Nil(t, result)
	assert.Zero(t, client.findCalls)
}

func TestSSMFind_MissingName(t *testing.T) {
	client := &mockSSMClient{}
	adapter := NewSSM(client)

	result := adapter.Find(context.Background(), &model.NormalizedRecord{Domain: "acme.com", FullName: "Jane"})
	require.NotNil(t, result)
	assert.Equal(t, model.OutcomeMissingInput, result.Outcome)
	assert.False(t, result.InputsPresent["person_name"])
	assert.Zero(t, client.findCalls)
}

func TestSSMFind_NoEmailInResponse(t *testing.T) {
	adapter := NewSSM(&mockSSMClient{findResp: &ssm.FindResponse{}})

	result := adapter.Find(context.Background(), &model.NormalizedRecord{Domain: "acme.com", FullName: "Jane Doe"})
	require.NotNil(t, result)
	assert.Equal(t, model.OutcomeNoCandidates, result.Outcome)
}

func TestSSMFind_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantNil     bool
		wantOutcome model.Outcome
	}{
		{"auth", ssm.ErrUnauthorized, false, model.OutcomeAuthError},
		{"rate_limited", ssm.ErrRateLimited, false, model.OutcomeRateLimited},
		{"other_status", ssm.ErrUnexpectedStatus, false, model.OutcomeNotFound},
		{"transport", context.DeadlineExceeded, true, ""},
	}

	record := &model.NormalizedRecord{Domain: "acme.com", FullName: "Jane Doe"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewSSM(&mockSSMClient{findErr: tt.err})
			result := adapter.Find(context.Background(), record)
			if tt.wantNil {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
		})
	}
}
