package fide

import (
	"fmt"
	"strings"

	"fidescrape/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	NoRecordsSentinel = "No records found in individual calculations for this period."

	labelPrefix = "Individual Calculations "
)

// regions returns the period label region and the records region of a report page.
func regions(doc *goquery.Document) (label *goquery.Selection, records *goquery.Selection, err error) {
	tables := doc.Find("table.contentpaneopen")
	if tables.Length() < 2 {
		return nil, nil, fmt.Errorf(
			"%w: expected 2 content tables, found %d",
			ErrUnknownLayout, tables.Length(),
		)
	}
	return tables.Eq(0), tables.Eq(1), nil
}

// periodLabel turns "Individual Calculations 2024-03-01." into "2024-03-01", the site
// always terminates the header with one character of punctuation.
func periodLabel(sel *goquery.Selection) string {
	text := strings.Replace(htmlutil.FlatText(sel), labelPrefix, "", 1)
	text = strings.Trim(text, " \t")
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	return strings.TrimSpace(string(runes[:len(runes)-1]))
}

// ReadReport classifies a fetched report page as empty or having records.
func ReadReport(doc *goquery.Document) (Report, error) {
	labelRegion, recordsRegion, err := regions(doc)
	if err != nil {
		return Report{}, err
	}

	label := periodLabel(labelRegion)
	if strings.TrimSpace(htmlutil.FlatText(recordsRegion)) == NoRecordsSentinel {
		return Report{Kind: ReportEmpty, Label: label}, nil
	}
	return Report{Kind: ReportRecords, Label: label, Document: doc}, nil
}
