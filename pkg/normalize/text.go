package normalize

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

const countryCode = "55"

// SanitizePhone keeps only digits and drops the Brazilian country code when the number is
// long enough to carry one. Stored numbers are unprefixed.
func SanitizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	for len(digits) >= 12 && strings.HasPrefix(digits, countryCode) {
		digits = digits[len(countryCode):]
	}
	return digits
}

// InternationalPhone prefixes a stored number with the country code for dispatch.
func InternationalPhone(phone string) string {
	digits := SanitizePhone(phone)
	if digits == "" {
		return ""
	}
	return countryCode + digits
}

// ParseCurrency reads a BRL amount such as "R$ 1.234,56". Unreadable input yields 0.
func ParseCurrency(v any) float64 {
	switch val := v.(type) {
	case float64:
		return finite(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case nil:
		return 0
	}

	s := Stringify(v)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// NormalizeCourse makes course names comparable regardless of accents, numbering and spacing.
func NormalizeCourse(name string) string {
	s := StripAccents(strings.ToLower(name))
	s = strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// MatchCourse reports whether an enrollment (course, unit) refers to a class (name, unit).
// A blank unit on either side matches any unit.
func MatchCourse(course, unit, className, classUnit string) bool {
	if NormalizeCourse(course) == "" || NormalizeCourse(course) != NormalizeCourse(className) {
		return false
	}
	u1, u2 := NormalizeKey(unit), NormalizeKey(classUnit)
	return u1 == "" || u2 == "" || u1 == u2
}

// Slug derives the identity key used for students and risk groups.
func Slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// ParseFlag reads spreadsheet booleans ("sim", "TRUE", "x").
func ParseFlag(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(Stringify(v))) {
	case "sim", "s", "true", "1", "x", "yes":
		return true
	default:
		return false
	}
}

// School stages.
const (
	StageEI = "EI"
	StageEF = "EF"
	StageEM = "EM"
)

// ClassifyStage infers the school stage from the free-text stage column, falling back to
// the grade column.
func ClassifyStage(stage, grade string) string {
	for _, text := range []string{stage, grade} {
		if s := classify(text); s != "" {
			return s
		}
	}
	return ""
}

func classify(text string) string {
	s := StripAccents(strings.ToLower(strings.TrimSpace(text)))
	if s == "" {
		return ""
	}
	switch {
	case strings.Contains(s, "infantil"), s == "ei", strings.HasPrefix(s, "ei "), strings.Contains(s, "maternal"), strings.Contains(s, "pre"):
		return StageEI
	case strings.Contains(s, "medio"), s == "em", strings.HasPrefix(s, "em "), strings.Contains(s, "serie"):
		return StageEM
	case strings.Contains(s, "fundamental"), s == "ef", strings.HasPrefix(s, "ef "), strings.Contains(s, "ano"):
		return StageEF
	}
	return ""
}

// CleanGrade strips ordinal markers and trailing grade words ("5º Ano" -> "5").
func CleanGrade(grade string) string {
	s := strings.NewReplacer("º", "", "°", "", "ª", "").Replace(grade)
	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		switch strings.ToLower(StripAccents(f)) {
		case "ano", "anos", "serie", "series":
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
