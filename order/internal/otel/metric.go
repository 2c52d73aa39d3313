package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter(serviceName)

var (
	OrdersPlaced, _ = meter.Int64Counter(
		"grocery.orders.placed",
		metric.WithDescription("Orders committed by checkout"),
	)
	CheckoutFailures, _ = meter.Int64Counter(
		"grocery.checkout.failures",
		metric.WithDescription("Checkouts rolled back after the transaction started"),
	)
)
