package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// EpochZero is returned for values that cannot be read as a date. It always loses a
// most-recent comparison against a real date.
var EpochZero = time.Unix(0, 0).UTC()

// serialOffsetDays is the distance in days between the spreadsheet epoch (1899-12-30)
// and the Unix epoch.
const serialOffsetDays = 25569

var (
	isoPrefix   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
	slashPrefix = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})`)
	serialText  = regexp.MustCompile(`^\d{1,6}(\.\d+)?$`)
	yearToken   = regexp.MustCompile(`^\d{4}$`)
)

var monthPrefixes = map[string]time.Month{
	"jan": time.January,
	"fev": time.February,
	"mar": time.March,
	"abr": time.April,
	"mai": time.May,
	"jun": time.June,
	"jul": time.July,
	"ago": time.August,
	"set": time.September,
	"out": time.October,
	"nov": time.November,
	"dez": time.December,
}

var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// DateParser reads dates from heterogeneous spreadsheet cells.
type DateParser struct {
	// Now anchors relative words such as "hoje". Defaults to time.Now.
	Now func() time.Time
}

var defaultDateParser = DateParser{}

// ParseDate normalizes v with the default parser.
func ParseDate(v any) time.Time {
	return defaultDateParser.Parse(v)
}

// IsZeroDate reports whether t is the unparseable sentinel (or the Go zero time).
func IsZeroDate(t time.Time) bool {
	return t.IsZero() || t.Equal(EpochZero)
}

// FormatDate renders t as YYYY-MM-DD, or "" for the sentinel.
func FormatDate(t time.Time) string {
	if IsZeroDate(t) {
		return ""
	}
	return t.Format("2006-01-02")
}

// Parse returns the calendar day described by v at 12:00 UTC, or EpochZero.
func (p DateParser) Parse(v any) time.Time {
	switch val := v.(type) {
	case nil:
		return EpochZero
	case time.Time:
		if val.IsZero() {
			return EpochZero
		}
		return noon(val.Year(), val.Month(), val.Day())
	case float64:
		return fromSerial(val)
	case float32:
		return fromSerial(float64(val))
	case int:
		return fromSerial(float64(val))
	case int64:
		return fromSerial(float64(val))
	case json.Number:
		return p.parseText(val.String())
	case string:
		return p.parseText(val)
	default:
		return EpochZero
	}
}

func (p DateParser) parseText(raw string) time.Time {
	text := strings.TrimSpace(raw)
	if text == "" || strings.EqualFold(text, "null") {
		return EpochZero
	}

	if serialText.MatchString(text) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return EpochZero
		}
		return fromSerial(f)
	}

	if i := strings.Index(text, ","); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}

	if t, ok := p.relative(text); ok {
		return t
	}

	if m := isoPrefix.FindStringSubmatch(text); m != nil {
		if t, ok := build(m[1], m[2], m[3]); ok {
			return t
		}
		return EpochZero
	}

	if strings.Contains(strings.ToLower(text), " de ") {
		if t, ok := verbose(text); ok {
			return t
		}
	}

	if m := slashPrefix.FindStringSubmatch(text); m != nil {
		year := m[3]
		if len(year) == 2 {
			y, _ := strconv.Atoi(year)
			if y < 50 {
				y += 2000
			} else {
				y += 1900
			}
			year = strconv.Itoa(y)
		}
		if t, ok := build(year, m[2], m[1]); ok {
			return t
		}
		return EpochZero
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return noon(t.Year(), t.Month(), t.Day())
		}
	}
	return EpochZero
}

func (p DateParser) relative(text string) (time.Time, bool) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	var back int
	switch strings.ToLower(StripAccents(text)) {
	case "hoje":
		back = 0
	case "ontem":
		back = 1
	case "anteontem":
		back = 2
	default:
		return time.Time{}, false
	}
	t := now().AddDate(0, 0, -back)
	return noon(t.Year(), t.Month(), t.Day()), true
}

func verbose(text string) (time.Time, bool) {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(strings.TrimSuffix(tokens[0], "º"))
	if err != nil {
		return time.Time{}, false
	}

	var month time.Month
	var year int
	for _, tok := range tokens[1:] {
		if month == 0 {
			name := StripAccents(strings.TrimSuffix(tok, "."))
			if len(name) >= 3 {
				if m, ok := monthPrefixes[name[:3]]; ok {
					month = m
					continue
				}
			}
		}
		if year == 0 && yearToken.MatchString(tok) {
			year, _ = strconv.Atoi(tok)
		}
	}
	if month == 0 || year == 0 {
		return time.Time{}, false
	}
	return valid(year, month, day)
}

func build(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	return valid(y, time.Month(m), d)
}

func valid(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := noon(year, month, day)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func fromSerial(serial float64) time.Time {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return EpochZero
	}
	ms := int64(math.Round((serial - serialOffsetDays) * 86400 * 1000))
	t := time.UnixMilli(ms).UTC()
	return noon(t.Year(), t.Month(), t.Day())
}

func noon(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
