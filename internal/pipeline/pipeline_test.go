package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"fidescrape/internal/chrono"
	"fidescrape/internal/scrapers/fide"
	"fidescrape/internal/telemetry"
	"fidescrape/lib/period"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

type tournamentRow struct {
	name   string
	avg    int
	points string
	rounds int
}

func recordsDocument(t testing.TB, rows ...tournamentRow) *goquery.Document {
	var body strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&body, `<tr bgcolor="#CC9966"><td>%s</td><td>City</td><td>ENG</td><td>2024.01.01</td></tr>`, r.name)
		fmt.Fprintf(
			&body,
			`<tr bgcolor="#e6e6e6"><td>%d</td><td>2100</td><td>%s</td><td>%d</td><td>0</td><td>20</td><td>1.0</td><td></td></tr>`,
			r.avg, r.points, r.rounds,
		)
	}
	page := fmt.Sprintf(`<html><body>
<table class="contentpaneopen"><tr><td>Individual Calculations label.</td></tr></table>
<table class="contentpaneopen"><tr><td><table>%s</table></td></tr></table>
</body></html>`, body.String())

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

type fakeFetcher struct {
	reports map[period.Period]fide.Report
	errs    map[period.Period]error
	fetched []period.Period
}

func (f *fakeFetcher) Fetch(_ context.Context, playerId string, p period.Period) (fide.Report, error) {
	f.fetched = append(f.fetched, p)
	if err, ok := f.errs[p]; ok {
		return fide.Report{}, err
	}
	report, ok := f.reports[p]
	if !ok {
		return fide.Report{Kind: fide.ReportEmpty, Label: p.String()}, nil
	}
	return report, nil
}

var (
	jan2024 = period.Period{Year: 2024, Month: time.January}
	dec2023 = period.Period{Year: 2023, Month: time.December}
	nov2023 = period.Period{Year: 2023, Month: time.November}
)

func newTestPipeline(fetcher Fetcher) (*Pipeline, *chrono.FixedTime, *[]Event) {
	clock := chrono.NewFixedTime(time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC))
	var events []Event
	p := New(Options{
		Fetcher: fetcher,
		Time:    clock,
		Tel:     &telemetry.RecordingAPI{},
		Progress: func(e Event) {
			events = append(events, e)
		},
	})
	return p, clock, &events
}

func TestRun(t *testing.T) {
	fetcher := &fakeFetcher{
		reports: map[period.Period]fide.Report{
			jan2024: {
				Kind:  fide.ReportRecords,
				Label: "2024-Jan",
				Document: recordsDocument(t,
					tournamentRow{name: "Hastings", avg: 2000, points: "7", rounds: 9},
					tournamentRow{name: "Gibraltar", avg: 2200, points: "4.5", rounds: 9},
				),
			},
			nov2023: {
				Kind:     fide.ReportRecords,
				Label:    "2023-Nov",
				Document: recordsDocument(t, tournamentRow{name: "Isle of Man", avg: 2300, points: "3", rounds: 9}),
			},
		},
	}
	p, clock, events := newTestPipeline(fetcher)

	tournaments, err := p.Run(context.Background(), "2016192", 3)
	require.NoError(t, err)

	require.Equal(t, []period.Period{jan2024, dec2023, nov2023}, fetcher.fetched)

	require.Len(t, tournaments, 3)
	require.Equal(t, "Hastings", tournaments[0].Name)
	require.Equal(t, "2024-Jan", tournaments[0].RatingPeriod)
	require.Equal(t, 2220, tournaments[0].Performance)
	require.Equal(t, "Gibraltar", tournaments[1].Name)
	require.Equal(t, 2200, tournaments[1].Performance)
	require.Equal(t, "Isle of Man", tournaments[2].Name)
	require.Equal(t, "2023-Nov", tournaments[2].RatingPeriod)

	require.Equal(t, []time.Duration{DefaultThrottle, DefaultThrottle}, clock.Slept)

	require.Equal(t, []string{
		"scraping 2024-Jan...",
		"2023-12 no records",
		"scraping 2023-Nov...",
	}, eventLines(*events))
}

func TestRunReportIds(t *testing.T) {
	fetcher := &fakeFetcher{
		reports: map[period.Period]fide.Report{
			jan2024: {
				Kind:     fide.ReportRecords,
				Label:    "2024-Jan",
				Document: recordsDocument(t, tournamentRow{name: "Hastings", avg: 2000, points: "7", rounds: 9}),
			},
		},
	}
	tel := &telemetry.RecordingAPI{}
	p := New(Options{
		Fetcher: fetcher,
		Time:    chrono.NewFixedTime(time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)),
		Tel:     tel,
	})

	_, err := p.Run(context.Background(), "2016192", 2)
	require.NoError(t, err)

	var ids []string
	for _, r := range tel.Reports {
		ids = append(ids, r.Kind+" "+r.ID)
	}
	require.Equal(t, []string{
		"debug pipeline: " + report_pipeline_run,
		"debug pipeline: " + report_pipeline_parse,
		"count pipeline: " + report_pipeline_run,
	}, ids)
}

func eventLines(events []Event) []string {
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.String()
	}
	return lines
}

func TestRunNoRecords(t *testing.T) {
	p, clock, events := newTestPipeline(&fakeFetcher{})

	tournaments, err := p.Run(context.Background(), "2016192", 2)
	require.NoError(t, err)
	require.Empty(t, tournaments)
	require.Len(t, clock.Slept, 1)
	require.Len(t, *events, 2)
	require.Equal(t, EventNoRecords, (*events)[0].Kind)
}

func TestRunStopsOnParseFailure(t *testing.T) {
	broken := recordsDocument(t, tournamentRow{name: "Hastings", avg: 2000, points: "7", rounds: 9})
	broken.Find(`tr[bgcolor="#e6e6e6"]`).Remove()

	fetcher := &fakeFetcher{
		reports: map[period.Period]fide.Report{
			jan2024: {
				Kind:     fide.ReportRecords,
				Label:    "2024-Jan",
				Document: recordsDocument(t, tournamentRow{name: "Hastings", avg: 2000, points: "7", rounds: 9}),
			},
			dec2023: {Kind: fide.ReportRecords, Label: "2023-Dec", Document: broken},
		},
	}
	p, clock, _ := newTestPipeline(fetcher)

	tournaments, err := p.Run(context.Background(), "2016192", 3)

	var mismatch *fide.StructuralMismatchError
	require.True(t, errors.As(err, &mismatch), "got %v", err)
	require.Equal(t, 1, mismatch.Headers)
	require.Equal(t, 0, mismatch.Scores)

	// november is never fetched, the records before the failure are kept
	require.Equal(t, []period.Period{jan2024, dec2023}, fetcher.fetched)
	require.Len(t, tournaments, 1)
	require.Equal(t, "Hastings", tournaments[0].Name)

	// the throttle is honored after the failing period too
	require.Len(t, clock.Slept, 2)
}

func TestRunStopsOnFetchFailure(t *testing.T) {
	fetchErr := &fide.StatusError{Method: "GET", Url: "/individual_calculations.phtml", Status: 502}
	fetcher := &fakeFetcher{
		errs: map[period.Period]error{jan2024: fetchErr},
	}
	p, _, events := newTestPipeline(fetcher)

	tournaments, err := p.Run(context.Background(), "2016192", 12)
	require.ErrorIs(t, err, fetchErr)
	require.Empty(t, tournaments)
	require.Len(t, fetcher.fetched, 1)
	require.Empty(t, *events)
}

func TestRunCancelledDuringThrottle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := chrono.NewFixedTime(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC))
	fetcher := &fakeFetcher{}
	p := New(Options{
		Fetcher: fetcher,
		Time:    clock,
		Tel:     &telemetry.RecordingAPI{},
		Progress: func(Event) {
			cancel()
		},
	})

	_, err := p.Run(ctx, "2016192", 5)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, fetcher.fetched, 1)
}
