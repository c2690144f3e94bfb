package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"tablescrape/lib/restyutil"
	"tablescrape/lib/scrapers/htmltable"
	"tablescrape/lib/scrapers/webpage"
	"tablescrape/lib/spreadsheet"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) (webpage.Page, error)
}

type Parser interface {
	Parse(page webpage.Page) (*goquery.Document, error)
}

type ParserFunc func(page webpage.Page) (*goquery.Document, error)

func (f ParserFunc) Parse(page webpage.Page) (*goquery.Document, error) {
	return f(page)
}

type Outcome int

const (
	FetchFailed Outcome = iota
	Loaded
	TableNotFound
	Extracted
	Exported
)

func (o Outcome) String() string {
	switch o {
	case FetchFailed:
		return "fetch_failed"
	case Loaded:
		return "loaded"
	case TableNotFound:
		return "table_not_found"
	case Extracted:
		return "extracted"
	case Exported:
		return "exported"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is how far a run got. Fetch failures and missing tables are
// outcomes, not errors: they are reported on Out and nothing is written.
type Result struct {
	Outcome  Outcome
	FetchErr error
	Document *goquery.Document
	Grid     htmltable.Grid
	// classes resembling the configured one when the table was not found
	Suggestions []string
}

// Pipeline runs fetch -> parse -> locate -> extract -> export once.
// Fetcher, Parser and Exporter can be swapped independently.
type Pipeline struct {
	Config   Config
	Fetcher  Fetcher
	Parser   Parser
	Exporter spreadsheet.Exporter
	// receives the human readable status lines
	Out io.Writer
}

// New wires the default stages for cfg.
func New(cfg Config, out io.Writer) (*Pipeline, error) {
	opts := webpage.FetcherOptions{
		UserAgent:        cfg.UserAgent,
		Timeout:          time.Duration(cfg.Timeout) * time.Second,
		CloudflareBypass: cfg.CloudflareBypass,
	}
	if cfg.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			return nil, err
		}
		opts.Output = output
	}

	return &Pipeline{
		Config:  cfg,
		Fetcher: webpage.NewFetcher(opts),
		Parser:  ParserFunc(webpage.Parse),
		Exporter: spreadsheet.ForPath(cfg.OutputPath, spreadsheet.Options{
			SheetName: cfg.SheetName,
			HeaderRow: !cfg.NoHeader,
		}),
		Out: out,
	}, nil
}

func (p *Pipeline) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

// Load fetches and parses the configured page.
func (p *Pipeline) Load(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	page, err := p.Fetcher.Fetch(ctx, p.Config.URL)
	if err != nil {
		span.RecordError(err)
		slog.DebugContext(ctx, "fetch failed", "url", p.Config.URL, "err", err)
		fmt.Fprintf(p.out(), "Failed to fetch the web page: %s\n", err)
		return Result{Outcome: FetchFailed, FetchErr: err}, nil
	}

	doc, err := p.Parser.Parse(page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Result{}, fmt.Errorf("parse %s: %w", page.URL, err)
	}

	return Result{Outcome: Loaded, Document: doc}, nil
}

// Extract loads the page and pulls the configured table out of it.
func (p *Pipeline) Extract(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()

	result, err := p.Load(ctx)
	if err != nil || result.Outcome != Loaded {
		return result, err
	}

	table, ok := htmltable.Locate(ctx, result.Document, p.Config.TableClass)
	if !ok {
		fmt.Fprintln(p.out(), "Table not found.")
		result.Outcome = TableNotFound
		result.Suggestions = htmltable.Suggest(result.Document, p.Config.TableClass, 3)
		if len(result.Suggestions) > 0 {
			slog.InfoContext(
				ctx, "similar table classes exist",
				"class", p.Config.TableClass,
				"suggestions", result.Suggestions,
			)
		}
		return result, nil
	}
	fmt.Fprintln(p.out(), "Table found!")

	result.Grid = htmltable.Extract(ctx, table)
	result.Outcome = Extracted
	rowsExtracted.Add(ctx, int64(len(result.Grid)))
	slog.DebugContext(
		ctx, "table extracted",
		"class", p.Config.TableClass,
		"rows", len(result.Grid),
		"columns", result.Grid.Columns(),
	)
	span.SetAttributes(attribute.Int("rows", len(result.Grid)))

	return result, nil
}

// Run extracts the table and writes it to the configured output path.
// The returned error is only set for failures that should stop the
// process, like an unwritable destination.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	result, err := p.Extract(ctx)
	if err == nil && result.Outcome == Extracted {
		err = p.Exporter.Export(ctx, result.Grid, p.Config.OutputPath)
		if err == nil {
			result.Outcome = Exported
			fmt.Fprintf(p.out(), "Data has been exported to %s\n", p.Config.OutputPath)
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pipeline failed")
	}
	runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", result.Outcome.String()),
		attribute.Bool("error", err != nil),
	))
	return result, err
}
