package fide

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// Tournament is one rated event of an individual calculations report.
type Tournament struct {
	// RatingPeriod is the label printed in the report header.
	RatingPeriod      string
	Name              string
	City              string
	Country           string
	Date              string
	Points            decimal.Decimal
	Rounds            int
	AvgOpponentRating int
	RatingChange      decimal.Decimal
	Performance       int
}

type ReportKind int

const (
	// ReportRecords is a report with at least one calculated tournament.
	ReportRecords ReportKind = iota
	// ReportEmpty is a report for a period the player has no calculations in.
	ReportEmpty
)

func (k ReportKind) String() string {
	switch k {
	case ReportRecords:
		return "records"
	case ReportEmpty:
		return "empty"
	}
	return "unknown"
}

// Report is a fetched individual calculations page.
type Report struct {
	Kind  ReportKind
	Label string
	// Document is nil for empty reports.
	Document *goquery.Document
}
