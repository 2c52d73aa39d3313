package otel

import (
	"go.opentelemetry.io/otel"
)

const tracerName = "grocery-cart"

var Tracer = otel.Tracer(tracerName)
