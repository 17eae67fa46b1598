package library

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("services/library")
