package fide

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("fidescrape.scrapers.fide")

const (
	report_client_login        = "client.login"
	report_client_fetch_report = "client.fetch-report"
	report_report_read         = "report.read"
)
