package apollo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) Client {
	return NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
}

func TestSearchPeople(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantPeople int
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: `{"people": [
				{"first_name": "Jane", "last_name": "Doe", "title": "CEO", "email": "jane@acme.com"},
				{"first_name": "John", "last_name": "Smith", "title": "Manager", "email": ""}
			]}`,
			wantPeople: 2,
		},
		{
			name:       "empty",
			status:     http.StatusOK,
			body:       `{"people": []}`,
			wantPeople: 0,
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"error": "bad key"}`,
			wantErr: ErrUnauthorized,
		},
		{
			name:    "credits_exhausted",
			status:  http.StatusUnprocessableEntity,
			body:    `{"error": "insufficient credits"}`,
			wantErr: ErrCreditsExhausted,
		},
		{
			name:    "rate_limited",
			status:  http.StatusTooManyRequests,
			body:    `{"error": "slow down"}`,
			wantErr: ErrRateLimited,
		},
		{
			name:    "server_error",
			status:  http.StatusBadGateway,
			body:    `{"error": "bad gateway"}`,
			wantErr: ErrUnexpectedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/mixed_people/search", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := newTestClient(srv).SearchPeople(context.Background(), SearchRequest{
				OrganizationDomains: []string{"acme.com"},
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, resp.People, tt.wantPeople)
		})
	}
}

func TestSearchPeople_RequestShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))

		assert.Equal(t, []any{"acme.com"}, req["q_organization_domains_list"])
		assert.NotContains(t, req, "q_keywords")
		assert.Contains(t, req, "contact_email_status")
		assert.Contains(t, req, "person_seniorities")

		_, _ = w.Write([]byte(`{"people": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).SearchPeople(context.Background(), SearchRequest{
		OrganizationDomains: []string{"acme.com"},
		ContactEmailStatus:  []string{"verified"},
		PersonSeniorities:   []string{"founder"},
	})
	require.NoError(t, err)
}

func TestSearchPeople_KeywordsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		require.NoError(t, json.Unmarshal(body, &req))

		assert.Equal(t, "Acme Corp", req["q_keywords"])
		assert.NotContains(t, req, "q_organization_domains_list")

		_, _ = w.Write([]byte(`{"people": []}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).SearchPeople(context.Background(), SearchRequest{Keywords: "Acme Corp"})
	require.NoError(t, err)
}
