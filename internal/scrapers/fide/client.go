// client.go contains the logic for talking to the ratings site, every Fetch logs in
// with a fresh session so no state is shared between periods.

package fide

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"fidescrape/internal/assert"
	"fidescrape/internal/telemetry"
	"fidescrape/lib/period"
	"fidescrape/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl = "https://ratings.fide.com"

	loginPath  = "/login_action.php"
	reportPath = "/individual_calculations.phtml"
)

type ClientOptions struct {
	BaseUrl  string
	Username string
	Password string
	// Timeout of a single request, defaults to 30 seconds.
	Timeout time.Duration
	// RequestsPerSecond caps the requests of a single session, defaults to 2.
	RequestsPerSecond float64
	// CloudflareBypass wraps the transport with browser-like TLS and headers.
	CloudflareBypass bool
	// MessageOutput, when set, receives the full text of every HTTP exchange.
	MessageOutput restyutil.MessageOutput
}

type Client struct {
	baseUrl *url.URL
	opts    ClientOptions
	tel     telemetry.API
	// shared by every session so request ids keep counting across periods
	instrumentation *telemetry.RestyInstrumentation
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("fide scraper: parse base url: %w", err)
	}

	scoped := telemetry.NewScopedAPI("fide_scraper", tel)
	return &Client{
		baseUrl:         baseUrl,
		opts:            opts,
		tel:             scoped,
		instrumentation: telemetry.NewRestyInstrumentation(scoped, opts.MessageOutput),
	}, nil
}

func (c *Client) newSession() (*resty.Client, error) {
	httpClient := resty.New()
	httpClient.SetBaseURL(c.opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if c.opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.baseUrl.Hostname()))
	httpClient.SetTimeout(c.opts.Timeout)

	// max burst >= 2 so the login and report requests of a session are never dropped
	rateLimiter := rate.NewLimiter(rate.Limit(c.opts.RequestsPerSecond), 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	c.instrumentation.Instrument(httpClient)

	return httpClient, nil
}

func (c *Client) login(ctx context.Context, httpClient *resty.Client) error {
	res, err := httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"fd_user":     c.opts.Username,
			"fd_password": c.opts.Password,
		}).
		Post(loginPath)
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("login request: %w", err))
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}
	if res.IsError() {
		err := &StatusError{Method: res.Request.Method, Url: res.Request.URL, Status: res.StatusCode()}
		c.tel.ReportBroken(report_client_login, err)
		return fmt.Errorf("%w: %w", ErrLogin, err)
	}
	return nil
}

// ReportQuery returns the query string of the individual calculations report of
// a player for a rating period.
func ReportQuery(playerId string, p period.Period) string {
	return fmt.Sprintf(
		"idnumber=%s&rating_period=%s&t=0",
		url.QueryEscape(playerId),
		p.ReportDate(),
	)
}

// Fetch logs in and fetches the individual calculations report of a player for a
// rating period.
func (c *Client) Fetch(ctx context.Context, playerId string, p period.Period) (Report, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("player_id", playerId),
		attribute.String("rating_period", p.String()),
	)

	fetchError := func(err error) (Report, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch report")
		return Report{}, fmt.Errorf("fetch %s: %w", p, err)
	}

	httpClient, err := c.newSession()
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_report, fmt.Errorf("create session: %w", err))
		return fetchError(err)
	}

	err = c.login(ctx, httpClient)
	if err != nil {
		return fetchError(err)
	}

	endpoint := fmt.Sprintf("%s?%s", reportPath, ReportQuery(playerId, p))
	c.tel.ReportDebug(report_client_fetch_report, endpoint)

	res, err := httpClient.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_report,
			fmt.Errorf("fetch: %w", err),
			endpoint,
		)
		return fetchError(err)
	}
	if res.IsError() {
		err := &StatusError{Method: res.Request.Method, Url: res.Request.URL, Status: res.StatusCode()}
		c.tel.ReportBroken(report_client_fetch_report, err, endpoint)
		return fetchError(err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_report,
			fmt.Errorf("parse: %w", err),
			endpoint,
		)
		return fetchError(err)
	}

	report, err := ReadReport(doc)
	if err != nil {
		c.tel.ReportBroken(report_report_read, err, endpoint)
		return fetchError(err)
	}
	span.SetAttributes(attribute.String("report_kind", report.Kind.String()))

	return report, nil
}
