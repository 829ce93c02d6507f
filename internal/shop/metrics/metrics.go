package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics instruments the cart and checkout coordination paths.
type Metrics struct {
	cartMutationsTotal       metric.Int64Counter
	checkoutSubmissionsTotal metric.Int64Counter
	checkoutDuration         metric.Float64Histogram
	paymentConfirmations     metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.cartMutationsTotal, err = meter.Int64Counter(
		"cart_mutations_total",
		metric.WithDescription("Total number of cart mutations by operation and status"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cart_mutations_total counter: %w", err)
	}

	m.checkoutSubmissionsTotal, err = meter.Int64Counter(
		"checkout_submissions_total",
		metric.WithDescription("Total number of checkout submissions"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_submissions_total counter: %w", err)
	}

	m.checkoutDuration, err = meter.Float64Histogram(
		"checkout_submission_duration_seconds",
		metric.WithDescription("Duration of checkout submissions from creation call to outcome"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create checkout_submission_duration histogram: %w", err)
	}

	m.paymentConfirmations, err = meter.Int64Counter(
		"payment_confirmations_total",
		metric.WithDescription("Payment confirmation outcomes by provider and status"),
		metric.WithUnit("{confirmation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create payment_confirmations_total counter: %w", err)
	}

	return m, nil
}

func (m *Metrics) RecordCartMutation(ctx context.Context, operation string, success bool) {
	m.cartMutationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", statusLabel(success)),
	))
}

func (m *Metrics) RecordCheckoutSubmission(ctx context.Context, provider string, success bool) {
	m.checkoutSubmissionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", statusLabel(success)),
	))
}

func (m *Metrics) RecordCheckoutDuration(ctx context.Context, durationSeconds float64) {
	m.checkoutDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordPaymentConfirmation(ctx context.Context, provider, status string) {
	m.paymentConfirmations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
