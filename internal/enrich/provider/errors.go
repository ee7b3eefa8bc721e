package provider

import (
	"errors"

	"github.com/signalis/connector-cli/internal/model"
)

// clientErrors describes how one vendor client's sentinel errors map into
// outcomes. Errors that match nothing here (transport, parse) map to absence.
type clientErrors struct {
	unauthorized     error
	rateLimited      error
	creditsExhausted error // nil when the vendor has no such signal
	unexpectedStatus error
	statusOutcome    model.Outcome // outcome for other non-200s; "" = absence
}

// mapClientError translates a client error into an outcome. The second
// return is false when the error should be absorbed as "no result".
func mapClientError(err error, m clientErrors) (model.Outcome, bool) {
	switch {
	case errors.Is(err, m.unauthorized):
		return model.OutcomeAuthError, true
	case errors.Is(err, m.rateLimited):
		return model.OutcomeRateLimited, true
	case m.creditsExhausted != nil && errors.Is(err, m.creditsExhausted):
		return model.OutcomeCreditsExhausted, true
	case m.statusOutcome != "" && errors.Is(err, m.unexpectedStatus):
		return m.statusOutcome, true
	}
	return "", false
}
