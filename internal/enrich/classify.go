// Package enrich routes contact records to the right lookup strategy and
// drives the provider waterfall that turns partial contact data into a
// deliverable email.
package enrich

import "github.com/signalis/connector-cli/internal/model"

// Classify maps field presence to the enrichment action. It is pure and
// total: every record gets exactly one of the six labels. Rules apply in
// priority order; an existing email always wins.
func Classify(record *model.NormalizedRecord) model.Action {
	hasEmail := record.Email != ""
	hasDomain := record.Domain != ""
	hasCompany := record.Company != ""
	hasPersonName := record.HasPersonName()

	switch {
	case hasEmail:
		return model.ActionVerify
	case hasDomain && hasPersonName:
		return model.ActionFindPerson
	case hasDomain:
		return model.ActionFindCompanyContact
	case hasCompany && hasPersonName:
		return model.ActionSearchPerson
	case hasCompany:
		return model.ActionSearchCompany
	default:
		return model.ActionCannotRoute
	}
}
