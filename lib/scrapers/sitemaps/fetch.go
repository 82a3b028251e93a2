package sitemaps

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http/cookiejar"
	"os"
	"strings"
	"time"

	"clutchintel/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

type FetcherOptions struct {
	// ordered list of header profiles to rotate through, defaults to
	// DefaultHeaderProfiles
	HeaderProfiles []HeaderProfile
	// per-fetch timeout, defaults to 30s
	Timeout time.Duration
	// extra attempts after the first, must be >= 0
	MaxRetries int
	// linear backoff unit between attempts, defaults to 2s
	BaseDelay time.Duration
}

type Fetcher struct {
	http *resty.Client
	opts FetcherOptions
}

func NewFetcher(opts FetcherOptions) (*Fetcher, error) {
	if len(opts.HeaderProfiles) == 0 {
		opts.HeaderProfiles = DefaultHeaderProfiles()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second * 2
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	client.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(client, "scrapers/sitemaps/http")

	return &Fetcher{
		http: client,
		opts: opts,
	}, nil
}

// Fetch performs a single attempt on a source with the given header
// profile. Classification of remote responses:
//
//	2xx with xml content        -> ok
//	403 or 429                  -> blocked
//	timed out connection/read   -> timeout
//	everything else             -> error
func (f *Fetcher) Fetch(ctx context.Context, src Source, profile HeaderProfile) FetchResult {
	if src.Kind == KindLocal {
		payload, err := os.ReadFile(src.Location)
		if err != nil {
			return FetchResult{Source: src, Status: StatusError, AttemptCount: 1, Err: err}
		}
		return FetchResult{Source: src, Status: StatusOk, Payload: payload, AttemptCount: 1}
	}

	res, err := f.http.R().
		SetContext(ctx).
		SetHeaders(profile).
		Get(src.Location)
	if err != nil {
		status := StatusError
		if isTimeout(err) {
			status = StatusTimeout
		}
		return FetchResult{Source: src, Status: status, AttemptCount: 1, Err: err}
	}

	code := res.StatusCode()
	switch {
	case code == 403 || code == 429:
		return FetchResult{
			Source: src, Status: StatusBlocked, AttemptCount: 1,
			Err: errors.New(res.Status()),
		}
	case code >= 200 && code < 300:
		if !isXMLResponse(res.Header().Get("Content-Type"), res.Body()) {
			return FetchResult{
				Source: src, Status: StatusError, AttemptCount: 1,
				Err: errors.New("response is not xml content"),
			}
		}
		return FetchResult{Source: src, Status: StatusOk, Payload: res.Body(), AttemptCount: 1}
	default:
		return FetchResult{
			Source: src, Status: StatusError, AttemptCount: 1,
			Err: errors.New(res.Status()),
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isXMLResponse(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "xml") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimLeft(body, " \t\r\n"), []byte("<?xml"))
}
