package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateEmptyValuesYieldEpochZero(t *testing.T) {
	for _, v := range []any{"", nil, "null", "NULL", "   "} {
		assert.True(t, ParseDate(v).Equal(EpochZero), "value %v", v)
	}
}

func TestParseDateEquivalentForms(t *testing.T) {
	want := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

	forms := []any{
		"15/03/2024",
		"2024-03-15",
		"2024-3-15",
		"15 de mar de 2024",
		"15 de março de 2024",
		"15 de mar. de 2024",
		"15/03/24",
		"2024-03-15T03:00:00.000Z",
		"15/03/2024, há 2 horas",
		float64(45366),
		"45366",
	}
	for _, f := range forms {
		assert.Equal(t, want, ParseDate(f), "form %v", f)
	}
}

func TestParseDateSerialMatchesISO(t *testing.T) {
	for serial := 40000; serial < 47000; serial += 137 {
		day := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, serial)
		assert.Equal(t, ParseDate(day.Format("2006-01-02")), ParseDate(float64(serial)), "serial %d", serial)
	}
	assert.Equal(t, time.Date(1899, time.December, 30, 12, 0, 0, 0, time.UTC), ParseDate(float64(0)))
}

func TestParseDateTwoDigitYearPivot(t *testing.T) {
	assert.Equal(t, 2049, ParseDate("01/01/49").Year())
	assert.Equal(t, 1950, ParseDate("01/01/50").Year())
}

func TestParseDateMonthAbbreviations(t *testing.T) {
	assert.Equal(t, time.February, ParseDate("3 de fev. de 2023").Month())
	assert.Equal(t, time.February, ParseDate("3 de fev de 2023").Month())
	assert.Equal(t, time.December, ParseDate("25 de Dezembro de 2022").Month())
}

func TestParseDateInvalidDegradesSilently(t *testing.T) {
	for _, v := range []any{"abc", "31/02/2024", "2024-13-01", "10 de xyz de 2024", []int{1}} {
		assert.True(t, IsZeroDate(ParseDate(v)), "value %v", v)
	}
}

func TestParseDateRelativeWords(t *testing.T) {
	p := DateParser{Now: func() time.Time { return time.Date(2024, time.May, 10, 22, 0, 0, 0, time.UTC) }}

	assert.Equal(t, time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC), p.Parse("hoje"))
	assert.Equal(t, time.Date(2024, time.May, 9, 12, 0, 0, 0, time.UTC), p.Parse("Ontem, há 3 horas"))
	assert.Equal(t, time.Date(2024, time.May, 8, 12, 0, 0, 0, time.UTC), p.Parse("anteontem"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "", FormatDate(EpochZero))
	assert.Equal(t, "2024-03-15", FormatDate(ParseDate("15/03/2024")))
}
