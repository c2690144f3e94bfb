package webpage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"tablescrape/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/html/charset"
)

// some servers reject requests that do not look like they come from a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Page is a fetched document with its body already decoded to UTF-8.
type Page struct {
	// URL is the final location after redirects.
	URL         string
	ContentType string
	Body        string
}

// StatusError is returned when the server answers with a status >= 400.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

type FetcherOptions struct {
	// defaults to DefaultUserAgent
	UserAgent string
	// 0 leaves the http client without a timeout
	Timeout time.Duration
	// routes requests through a transport that mimics a browser's
	// TLS handshake and default headers.
	CloudflareBypass bool
	// when set, full HTTP messages are dumped here while debug logging is on
	Output restyutil.InstrumentOutput
}

type Fetcher struct {
	http *resty.Client
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	client := resty.New()
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetHeader("User-Agent", userAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	restyutil.InstrumentClient(client, tracer, opts.Output)

	return &Fetcher{http: client}
}

// Fetch performs a single GET. Transport failures and error statuses are
// both returned as errors, the caller decides how loudly to report them.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Page, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := f.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return Page{}, fmt.Errorf("GET %s: %w", url, err)
	}
	if res.IsError() {
		err := &StatusError{
			URL:        url,
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
		}
		span.SetStatus(codes.Error, err.Error())
		return Page{}, err
	}

	raw := res.Body()
	fetchBytes.Add(ctx, int64(len(raw)))

	contentType := res.Header().Get("Content-Type")
	body, err := Decode(raw, contentType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode body")
		return Page{}, err
	}

	finalUrl := url
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}

	slog.DebugContext(
		ctx, "fetched page",
		"url", finalUrl,
		"status", res.StatusCode(),
		"content_type", contentType,
		"bytes", len(raw),
	)

	return Page{
		URL:         finalUrl,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// Decode converts a response body to UTF-8 using the charset declared in
// contentType, falling back to a BOM or <meta> declaration in the body and
// finally to UTF-8.
func Decode(body []byte, contentType string) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}
	return string(decoded), nil
}
