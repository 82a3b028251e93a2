// Package profiles scrapes company profile pages into structured
// records. It consumes the url lists produced by the sitemap stage.
package profiles

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"clutchintel/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("scrapers/profiles")

const browserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Service struct {
	Name       string `json:"name"`
	Percentage int    `json:"percentage"`
}

type Contact struct {
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

type Social struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Profile is one scraped company page. Fields the page did not
// surface stay zero; extraction is best effort against markup that
// changes without notice.
type Profile struct {
	URL            string    `json:"url"`
	CompanyName    string    `json:"company_name"`
	Tagline        string    `json:"tagline,omitempty"`
	Description    string    `json:"description,omitempty"`
	ReviewCount    int       `json:"review_count"`
	Rating         float64   `json:"rating"`
	MinProjectSize string    `json:"min_project_size,omitempty"`
	HourlyRate     string    `json:"hourly_rate,omitempty"`
	Employees      string    `json:"employees,omitempty"`
	YearFounded    string    `json:"year_founded,omitempty"`
	Location       string    `json:"location,omitempty"`
	Services       []Service `json:"services,omitempty"`
	Contact        Contact   `json:"contact"`
	Social         Social    `json:"social"`
	ScrapedAt      time.Time `json:"scraped_at"`
}

// Failure records one profile url that could not be scraped.
type Failure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

type ClientOptions struct {
	// defaults to 30s
	Timeout time.Duration
}

type Client struct {
	http *resty.Client
}

func NewClient(options ClientOptions) (*Client, error) {
	if options.Timeout <= 0 {
		options.Timeout = time.Second * 30
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("User-Agent", browserAgent)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	client.SetTimeout(options.Timeout)

	telemetry.InstrumentResty(client, "scrapers/profiles")

	return &Client{http: client}, nil
}

// Scrape fetches one profile page and extracts whatever company data
// it exposes.
func (c *Client) Scrape(ctx context.Context, url string) (Profile, error) {
	ctx, span := tracer.Start(ctx, "Scrape", trace.WithAttributes(
		attribute.String("url", url),
	))
	defer span.End()

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch profile page")
		return Profile{}, err
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := fmt.Errorf("fetch profile page: %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch profile page")
		return Profile{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse profile page")
		return Profile{}, err
	}

	profile := extract(ctx, doc, string(res.Body()), url)
	profile.ScrapedAt = time.Now()

	span.SetAttributes(attribute.String("company_name", profile.CompanyName))
	return profile, nil
}
