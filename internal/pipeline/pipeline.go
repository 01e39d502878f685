// Package pipeline walks the rating periods of a player from the most recent one
// backwards and collects the tournaments of every published report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"fidescrape/internal/assert"
	"fidescrape/internal/chrono"
	"fidescrape/internal/scrapers/fide"
	"fidescrape/internal/telemetry"
	"fidescrape/lib/period"
)

const DefaultThrottle = time.Second

const (
	report_pipeline_fetch = "pipeline.fetch"
	report_pipeline_parse = "pipeline.parse"
	report_pipeline_run   = "pipeline.run"
)

// Fetcher is the part of fide.Client the pipeline depends on.
type Fetcher interface {
	Fetch(ctx context.Context, playerId string, p period.Period) (fide.Report, error)
}

type EventKind int

const (
	EventScraping EventKind = iota
	EventNoRecords
)

// Event is emitted once per period that was fetched successfully, before its report
// is parsed.
type Event struct {
	Kind   EventKind
	Period period.Period
	Label  string
}

func (e Event) String() string {
	if e.Kind == EventNoRecords {
		return fmt.Sprintf("%s no records", e.Label)
	}
	return fmt.Sprintf("scraping %s...", e.Label)
}

type Options struct {
	Fetcher Fetcher
	Time    chrono.TimeAPI
	Tel     telemetry.API
	// Throttle is the pause between two periods, defaults to DefaultThrottle.
	Throttle time.Duration
	// Progress is optional.
	Progress func(Event)
}

type Pipeline struct {
	fetcher  Fetcher
	time     chrono.TimeAPI
	tel      telemetry.API
	throttle time.Duration
	progress func(Event)
}

func New(opts Options) *Pipeline {
	assert.NotNil(opts.Fetcher)
	assert.NotNil(opts.Time)
	assert.NotNil(opts.Tel)

	throttle := opts.Throttle
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(Event) {}
	}

	return &Pipeline{
		fetcher:  opts.Fetcher,
		time:     opts.Time,
		tel:      telemetry.NewScopedAPI("pipeline", opts.Tel),
		throttle: throttle,
		progress: progress,
	}
}

// Run collects the tournaments of the last `months` rating periods of a player, most
// recent period first and in report order within a period.
//
// The first failing period stops the run, the tournaments of the periods before it
// are returned alongside the error.
func (p *Pipeline) Run(ctx context.Context, playerId string, months int) ([]fide.Tournament, error) {
	assert.NotEmptyStr(playerId)

	periods := period.Enumerate(p.time.Now(), months)
	p.tel.ReportDebug(report_pipeline_run, playerId, len(periods))

	var result []fide.Tournament
	for i, rp := range periods {
		tournaments, err := p.scrapePeriod(ctx, playerId, rp)
		result = append(result, tournaments...)

		if i < len(periods)-1 {
			sleepErr := p.time.Sleep(ctx, p.throttle)
			if err == nil && sleepErr != nil {
				err = fmt.Errorf("throttle after %s: %w", rp, sleepErr)
			}
		}
		if err != nil {
			p.tel.ReportBroken(report_pipeline_run, err, playerId, rp.String())
			return result, err
		}
	}

	p.tel.ReportCount(report_pipeline_run, int64(len(result)))
	return result, nil
}

func (p *Pipeline) scrapePeriod(ctx context.Context, playerId string, rp period.Period) ([]fide.Tournament, error) {
	report, err := p.fetcher.Fetch(ctx, playerId, rp)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_fetch, err, rp.String())
		return nil, err
	}

	if report.Kind == fide.ReportEmpty {
		p.progress(Event{Kind: EventNoRecords, Period: rp, Label: report.Label})
		return nil, nil
	}

	p.progress(Event{Kind: EventScraping, Period: rp, Label: report.Label})
	tournaments, err := fide.ParseTournaments(report.Document, report.Label)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_parse, err, rp.String())
		return nil, fmt.Errorf("parse %s: %w", rp, err)
	}
	p.tel.ReportDebug(report_pipeline_parse, rp.String(), len(tournaments))

	return tournaments, nil
}
