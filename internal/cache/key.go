// Package cache persists successful enrichments so repeat lookups for the
// same entity never hit a paid provider twice.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/signalis/connector-cli/internal/model"
)

const maxSlugLen = 50

// Key derives the cache key for a record. Priority chain:
//
//  1. explicit record key
//  2. "d:<domain>" (lowercased)
//  3. "p:<slug(full name)>|<slug(company)>"
//  4. "c:<slug(company)>"
//  5. "x:<hash(name|company|email)>" — last resort, not stable across sessions
//     for records lacking every identifying field above.
//
// Two records describing the same entity with the same domain always collide
// to the same key.
func Key(record *model.NormalizedRecord) string {
	if record.RecordKey != "" {
		return record.RecordKey
	}
	if record.Domain != "" {
		return "d:" + strings.ToLower(record.Domain)
	}
	if record.FullName != "" && record.Company != "" {
		return "p:" + Slugify(record.FullName) + "|" + Slugify(record.Company)
	}
	if record.Company != "" {
		return "c:" + Slugify(record.Company)
	}
	canonical := record.FullName + "|" + record.Company + "|" + record.Email
	sum := md5.Sum([]byte(canonical))
	return "x:" + hex.EncodeToString(sum[:])[:8]
}

// Slugify lowercases text, folds diacritics, converts spaces to dashes and
// strips everything that is not alphanumeric or a dash. Output is capped at
// 50 characters.
func Slugify(text string) string {
	folded, _, err := transform.String(transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	prevDash := true // suppress leading dashes
	for _, c := range strings.ToLower(folded) {
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			b.WriteRune(c)
			prevDash = false
		case c == ' ' || c == '-':
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}
