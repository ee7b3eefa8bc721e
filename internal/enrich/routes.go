package enrich

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/signalis/connector-cli/internal/model"
)

// Routes maps each find/search action to its ordered provider waterfall.
// Reordering or adding providers is a configuration change, not a code
// change.
type Routes map[model.Action][]string

// DefaultRoutes returns the built-in waterfall order.
func DefaultRoutes() Routes {
	return Routes{
		model.ActionFindPerson:         {"anymail", "ssm", "apollo"},
		model.ActionFindCompanyContact: {"apollo", "anymail"},
		model.ActionSearchPerson:       {"anymail", "apollo"},
		model.ActionSearchCompany:      {"apollo", "anymail"},
	}
}

// LoadRoutes reads a waterfall routes table from a YAML file. Actions absent
// from the file keep their default order.
//
// Expected shape:
//
//	waterfall:
//	  FIND_PERSON: [anymail, ssm, apollo]
//	  SEARCH_COMPANY: [apollo, anymail]
func LoadRoutes(path string) (Routes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: read routes %s", path)
	}

	var wrapper struct {
		Waterfall map[string][]string `yaml:"waterfall"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "enrich: parse routes")
	}

	routes := DefaultRoutes()
	for action, providers := range wrapper.Waterfall {
		if _, ok := routes[model.Action(action)]; !ok {
			return nil, eris.Errorf("enrich: routes: unknown action %q", action)
		}
		if len(providers) == 0 {
			return nil, eris.Errorf("enrich: routes: empty provider list for %s", action)
		}
		routes[model.Action(action)] = providers
	}
	return routes, nil
}

// For returns the ordered provider list for an action; nil when the action
// has no waterfall (VERIFY and CANNOT_ROUTE).
func (r Routes) For(action model.Action) []string {
	return r[action]
}
