package provider

import (
	"sort"
	"strings"

	"github.com/signalis/connector-cli/pkg/apollo"
)

// defaultRank applies when no seniority keyword matches a title.
const defaultRank = 10

// seniorityRanks orders title keywords from most to least senior. The first
// keyword found as a substring of a lowercased title decides the score, so
// "Co-Founder & CEO" scores as founder (100), not ceo (90).
var seniorityRanks = []struct {
	keyword string
	rank    int
}{
	{"founder", 100},
	{"co-founder", 99},
	{"owner", 98},
	{"partner", 95},
	{"principal", 94},
	{"managing director", 92},
	{"ceo", 90},
	{"cfo", 89},
	{"cto", 88},
	{"coo", 87},
	{"cmo", 86},
	{"cro", 85},
	{"president", 84},
	{"vp", 70},
	{"vice president", 70},
	{"director", 60},
	{"head", 55},
	{"manager", 40},
	{"lead", 35},
	{"senior", 30},
}

// ScoreTitle returns the seniority rank for a title.
func ScoreTitle(title string) int {
	lower := strings.ToLower(title)
	for _, s := range seniorityRanks {
		if strings.Contains(lower, s.keyword) {
			return s.rank
		}
	}
	return defaultRank
}

// SelectCandidate picks the most senior candidate that has an email. The sort
// is stable: candidates with equal scores keep their response order. Returns
// false when no candidate carries an email.
func SelectCandidate(people []apollo.Person) (apollo.Person, bool) {
	ranked := make([]apollo.Person, len(people))
	copy(ranked, people)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ScoreTitle(ranked[i].Title) > ScoreTitle(ranked[j].Title)
	})

	for _, p := range ranked {
		if p.Email != "" {
			return p, true
		}
	}
	return apollo.Person{}, false
}
