// Package match validates buyer-seller overlap between supply and demand
// records. Matching means the supply side explicitly sells to the demand
// record's type, not that the two merely share an industry.
package match

import (
	"strings"

	"github.com/signalis/connector-cli/internal/model"
)

// MismatchReason is returned when a supply-demand pair fails validation.
const MismatchReason = "BUYER_SELLER_MISMATCH"

// Confidence grades how strongly a record's text matched a mode's tokens.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// modeTokens holds the per-mode token dictionaries.
type modeTokens struct {
	supplyBuyer     []string
	demandType      []string
	disallowedPeers []string
	defaultBuyer    string
	defaultDemand   string
}

var modes = map[string]modeTokens{
	"recruiting": {
		supplyBuyer: []string{
			"hiring", "talent acquisition", "headcount", "open roles", "recruiting",
			"staffing", "placement", "executive search", "hr", "human resources",
		},
		demandType: []string{
			"hiring", "growing team", "scaling", "open positions", "headcount",
			"talent", "recruiting", "job posting",
		},
		disallowedPeers: []string{
			"staffing agency", "recruitment firm", "headhunter", "talent agency",
		},
		defaultBuyer:  "hiring_teams",
		defaultDemand: "hiring_company",
	},
	"biotech_licensing": {
		supplyBuyer: []string{
			"pharma", "biotech", "licensing", "bd", "business development",
			"partnership", "clinical", "pipeline", "therapeutic", "molecule",
		},
		demandType: []string{
			"biotech", "pharma", "clinical stage", "therapeutics", "drug",
			"molecule", "pipeline", "fda", "trial",
		},
		disallowedPeers: []string{"cro", "contract research", "clinical trial services"},
		defaultBuyer:    "pharma_bd_teams",
		defaultDemand:   "biotech_company",
	},
	"wealth_management": {
		supplyBuyer: []string{
			"hnw", "high net worth", "uhnw", "family office", "wealth",
			"private client", "affluent", "investor", "estate",
		},
		demandType: []string{
			"ria", "wealth", "advisory", "financial planning", "fiduciary",
			"cfp", "family office", "private wealth",
		},
		disallowedPeers: []string{
			"wealth advisor", "ria", "financial planner", "cfp", "wealth management firm",
		},
		defaultBuyer:  "hnw_individuals",
		defaultDemand: "wealth_advisory_firm",
	},
	"real_estate_capital": {
		supplyBuyer: []string{
			"developer", "sponsor", "operator", "gp", "real estate", "property",
			"cre", "commercial", "multifamily", "acquisition",
		},
		demandType: []string{
			"developer", "sponsor", "real estate", "property", "cre",
			"commercial", "multifamily", "development",
		},
		disallowedPeers: []string{"lender", "debt fund", "capital provider", "equity fund"},
		defaultBuyer:    "re_developers",
		defaultDemand:   "re_sponsor",
	},
	"logistics": {
		supplyBuyer: []string{
			"shipper", "manufacturer", "retailer", "ecommerce", "brand",
			"fulfillment", "warehouse", "distribution",
		},
		demandType: []string{
			"shipper", "logistics", "supply chain", "3pl", "freight",
			"warehouse", "fulfillment", "distribution",
		},
		disallowedPeers: []string{"3pl", "freight broker", "logistics provider", "warehouse operator"},
		defaultBuyer:    "shippers",
		defaultDemand:   "logistics_company",
	},
	"crypto": {
		supplyBuyer: []string{
			"product", "engineering", "fintech", "platform", "exchange",
			"defi", "protocol", "web3", "blockchain", "crypto", "payments",
			"compliance", "kyc", "aml",
		},
		demandType: []string{
			"crypto", "blockchain", "web3", "defi", "protocol", "exchange",
			"token", "nft", "dao", "fintech platform",
		},
		disallowedPeers: []string{
			"wealth", "ria", "financial advisor", "wealth management",
			"family office", "private wealth", "investment advisor",
		},
		defaultBuyer:  "crypto_product_teams",
		defaultDemand: "crypto_platform",
	},
	"enterprise_partnerships": {
		supplyBuyer: []string{
			"enterprise", "b2b", "saas", "platform", "integration",
			"partnership", "vendor", "solution", "software",
		},
		demandType: []string{
			"enterprise", "b2b", "saas", "platform", "software", "solution", "vendor",
		},
		disallowedPeers: []string{"consultant", "agency", "implementation partner"},
		defaultBuyer:    "enterprise_teams",
		defaultDemand:   "enterprise_company",
	},
	"custom": {
		defaultBuyer:  "general",
		defaultDemand: "company",
	},
}

// Modes lists the known connector modes.
func Modes() []string {
	out := make([]string, 0, len(modes))
	for name := range modes {
		out = append(out, name)
	}
	return out
}

// buildText concatenates record fields into one lowercase searchable string.
func buildText(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func confidence(matched []string) Confidence {
	switch {
	case len(matched) >= 3:
		return ConfidenceHigh
	case len(matched) >= 1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func matchTokens(tokens []string, text string) []string {
	var matched []string
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			matched = append(matched, tok)
		}
	}
	return matched
}

func contains(tokens []string, want ...string) bool {
	for _, tok := range tokens {
		for _, w := range want {
			if tok == w {
				return true
			}
		}
	}
	return false
}

// Profile is the extracted buyer/demand typing for one record.
type Profile struct {
	Type       string     `json:"type"`
	Matched    []string   `json:"matched,omitempty"`
	Confidence Confidence `json:"confidence"`
}

// SupplyProfile extracts what kind of buyer a supply record sells to.
func SupplyProfile(r *model.NormalizedRecord, mode string) Profile {
	mt, ok := modes[mode]
	if !ok {
		mt = modes["custom"]
	}
	text := buildText(r.Description, r.Industry, r.Title)
	matched := matchTokens(mt.supplyBuyer, text)
	return Profile{
		Type:       inferBuyerType(matched, mode, mt.defaultBuyer),
		Matched:    matched,
		Confidence: confidence(matched),
	}
}

// DemandProfile extracts what kind of company a demand record is.
func DemandProfile(r *model.NormalizedRecord, mode string) Profile {
	mt, ok := modes[mode]
	if !ok {
		mt = modes["custom"]
	}
	text := buildText(r.Description, r.Industry, r.Signal)
	matched := matchTokens(mt.demandType, text)
	return Profile{
		Type:       inferDemandType(matched, mode, mt.defaultDemand),
		Matched:    matched,
		Confidence: confidence(matched),
	}
}

func inferBuyerType(matched []string, mode, fallback string) string {
	switch mode {
	case "crypto":
		if contains(matched, "product", "engineering") {
			return "crypto_product_teams"
		}
		if contains(matched, "compliance", "kyc", "aml") {
			return "compliance_teams"
		}
		if contains(matched, "fintech", "platform") {
			return "fintech_platforms"
		}
	case "wealth_management":
		if contains(matched, "hnw", "high net worth", "uhnw") {
			return "hnw_individuals"
		}
		if contains(matched, "family office") {
			return "family_offices"
		}
	case "recruiting":
		if contains(matched, "executive search") {
			return "executive_hiring"
		}
		if contains(matched, "talent acquisition") {
			return "talent_teams"
		}
	case "biotech_licensing":
		if contains(matched, "bd", "business development") {
			return "pharma_bd_teams"
		}
		if contains(matched, "licensing") {
			return "licensing_teams"
		}
	}
	return fallback
}

func inferDemandType(matched []string, mode, fallback string) string {
	switch mode {
	case "crypto":
		if contains(matched, "exchange") {
			return "crypto_exchange"
		}
		if contains(matched, "defi", "protocol") {
			return "defi_protocol"
		}
		if contains(matched, "nft") {
			return "nft_platform"
		}
	case "wealth_management":
		if contains(matched, "ria") {
			return "ria_firm"
		}
		if contains(matched, "family office") {
			return "family_office"
		}
	case "recruiting":
		if contains(matched, "scaling", "growing team") {
			return "scaling_company"
		}
	}
	return fallback
}

// crossContaminated applies mode-specific rules that reject otherwise
// plausible pairs, such as wealth-flavored supply records in crypto mode.
func crossContaminated(supplyMatched, demandMatched []string, mode string) bool {
	switch mode {
	case "crypto":
		return contains(supplyMatched, "wealth", "ria", "advisor", "family office", "private wealth")
	case "wealth_management":
		return contains(demandMatched, "crypto", "blockchain", "fintech platform", "exchange")
	}
	return false
}

// ValidateMatch checks buyer-seller overlap for a supply-demand pair.
// It returns ok=false with MismatchReason when the supply record does not
// sell to the demand record's type. Rules, in order:
//
//  1. Custom or unknown mode always passes.
//  2. Supply text hitting a disallowed peer type is invalid.
//  3. Both sides at low confidence pass, since there is not enough signal
//     to justify blocking.
//  4. Mode-specific cross-contamination checks reject mixed verticals.
func ValidateMatch(supply, demand *model.NormalizedRecord, mode string) (ok bool, reason string) {
	mt, found := modes[mode]
	if mode == "custom" || !found {
		return true, ""
	}

	supplyText := buildText(supply.Description, supply.Industry, supply.Title)
	demandText := buildText(demand.Description, demand.Industry, demand.Signal)

	for _, peer := range mt.disallowedPeers {
		if strings.Contains(supplyText, peer) {
			return false, MismatchReason
		}
	}

	supplyMatched := matchTokens(mt.supplyBuyer, supplyText)
	demandMatched := matchTokens(mt.demandType, demandText)

	if confidence(supplyMatched) == ConfidenceLow && confidence(demandMatched) == ConfidenceLow {
		return true, ""
	}

	if crossContaminated(supplyMatched, demandMatched, mode) {
		return false, MismatchReason
	}

	return true, ""
}
