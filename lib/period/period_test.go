package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnumerate(t *testing.T) {
	testCases := []struct {
		now      time.Time
		months   int
		expected []Period
	}{
		{
			now:    time.Date(2024, time.March, 17, 12, 0, 0, 0, time.UTC),
			months: 3,
			expected: []Period{
				{Year: 2024, Month: time.March},
				{Year: 2024, Month: time.February},
				{Year: 2024, Month: time.January},
			},
		},
		{
			now:    time.Date(2024, time.January, 31, 23, 59, 0, 0, time.UTC),
			months: 3,
			expected: []Period{
				{Year: 2024, Month: time.January},
				{Year: 2023, Month: time.December},
				{Year: 2023, Month: time.November},
			},
		},
		{
			now:      time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: []Period{{Year: 2020, Month: time.July}},
		},
		{
			now:      time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC),
			months:   0,
			expected: nil,
		},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Enumerate(test.now, test.months), "now=%s months=%d", test.now, test.months)
	}
}

func TestEnumerateSpansYears(t *testing.T) {
	periods := Enumerate(time.Date(2022, time.February, 10, 0, 0, 0, 0, time.UTC), 26)
	require.Len(t, periods, 26)
	require.Equal(t, Period{Year: 2022, Month: time.February}, periods[0])
	require.Equal(t, Period{Year: 2020, Month: time.January}, periods[25])

	for i := 1; i < len(periods); i++ {
		prev := time.Date(periods[i-1].Year, periods[i-1].Month, 1, 0, 0, 0, 0, time.UTC)
		cur := time.Date(periods[i].Year, periods[i].Month, 1, 0, 0, 0, 0, time.UTC)
		require.Equal(t, prev.AddDate(0, -1, 0), cur)
	}
}

func TestEnumerateIsRepeatable(t *testing.T) {
	now := time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)
	require.Equal(t, Enumerate(now, 12), Enumerate(now.Add(48*time.Hour), 12))
}

func TestPeriodFormatting(t *testing.T) {
	p := Period{Year: 2019, Month: time.September}
	require.Equal(t, "2019-09-01", p.ReportDate())
	require.Equal(t, "2019-09", p.String())
}
