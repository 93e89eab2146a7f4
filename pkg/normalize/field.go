package normalize

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Row is a loosely shaped spreadsheet row as decoded from JSON.
type Row map[string]any

// StripAccents removes combining diacritics ("Judô" -> "Judo"). Chains carry state, so each
// call builds its own.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey lowercases, strips accents and drops every non-alphanumeric rune.
func NormalizeKey(s string) string {
	s = StripAccents(strings.ToLower(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Field resolves the first key of row matching one of the candidate aliases and returns its
// trimmed value. Candidates are tried in order. Keys whose normalized form equals or contains
// a forbidden term are never selected.
func Field(row Row, candidates []string, forbidden ...string) string {
	if len(row) == 0 {
		return ""
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	normalized := make([]string, len(keys))
	for i, k := range keys {
		normalized[i] = NormalizeKey(k)
	}

	blocked := make([]string, 0, len(forbidden))
	for _, f := range forbidden {
		if nf := NormalizeKey(f); nf != "" {
			blocked = append(blocked, nf)
		}
	}

	for _, candidate := range candidates {
		want := NormalizeKey(candidate)
		if want == "" {
			continue
		}
		for i, key := range normalized {
			if key != want || isBlocked(key, blocked) {
				continue
			}
			return strings.TrimSpace(Stringify(row[keys[i]]))
		}
	}
	return ""
}

func isBlocked(key string, blocked []string) bool {
	for _, b := range blocked {
		if key == b || strings.Contains(key, b) {
			return true
		}
	}
	return false
}

// Stringify renders a decoded JSON value as text.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case interface{ String() string }:
		return val.String()
	default:
		return ""
	}
}
