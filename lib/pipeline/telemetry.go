package pipeline

import (
	"tablescrape/lib/telemetry"

	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("tablescrape.lib.pipeline")
var meter = telemetry.Meter("tablescrape.lib.pipeline")

var rowsExtracted, _ = meter.Int64Counter(
	"tablescrape.pipeline.rows",
	metric.WithDescription("Rows extracted from located tables."),
)

var runs, _ = meter.Int64Counter(
	"tablescrape.pipeline.runs",
	metric.WithDescription("Pipeline runs by outcome."),
)
