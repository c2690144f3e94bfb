package webpage

import (
	"tablescrape/lib/telemetry"

	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("tablescrape.lib.scrapers.webpage")
var meter = telemetry.Meter("tablescrape.lib.scrapers.webpage")

var fetchBytes, _ = meter.Int64Counter(
	"tablescrape.fetch.bytes",
	metric.WithUnit("By"),
	metric.WithDescription("Size of fetched page bodies before decoding."),
)
