package period

import (
	"fmt"
	"time"
)

// Period is a single monthly rating period.
type Period struct {
	Year  int
	Month time.Month
}

// ReportDate is the first day of the period, formatted the way the ratings site expects it.
func (p Period) ReportDate() string {
	return fmt.Sprintf("%04d-%02d-01", p.Year, int(p.Month))
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Enumerate returns the last `months` periods, starting at the month of now and going
// back one month at a time.
func Enumerate(now time.Time, months int) []Period {
	if months <= 0 {
		return nil
	}

	periods := make([]Period, months)
	for n := 0; n < months; n++ {
		// time.Date normalizes month 0 to december of the previous year, -1 to november, etc.
		t := time.Date(now.Year(), now.Month()-time.Month(n), 1, 0, 0, 0, 0, now.Location())
		periods[n] = Period{Year: t.Year(), Month: t.Month()}
	}
	return periods
}
