package otel

import (
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "grocery-order"

var Tracer = otel.Tracer(
	serviceName,
	trace.WithInstrumentationAttributes(semconv.ServiceNameKey.String(serviceName)),
)
