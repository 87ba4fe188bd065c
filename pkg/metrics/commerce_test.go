package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCommerceMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCommerceMetrics(reg)
	metrics.IncOrderAssembled("user")
	metrics.IncPaymentVerified("paid")
	metrics.IncPaymentReplay()
	metrics.AddCommissionCents("pending", 150)
	metrics.ObserveVerifyDuration(75 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "orders_assembled_total", "actor_kind", "user"); err != nil {
		t.Fatalf("fetch assembled: %v", err)
	} else if got != 1 {
		t.Fatalf("expected assembled=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "payments_verified_total", "outcome", "paid"); err != nil {
		t.Fatalf("fetch verified: %v", err)
	} else if got != 1 {
		t.Fatalf("expected verified=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "commission_cents_total", "status", "pending"); err != nil {
		t.Fatalf("fetch commission: %v", err)
	} else if got != 150 {
		t.Fatalf("expected commission=150, got %f", got)
	}

	replays := findMetricFamily(mfs, "payment_verify_replays_total")
	if replays == nil || len(replays.GetMetric()) == 0 {
		t.Fatal("expected replay counter to be exported")
	}
	if got := replays.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected replays=1, got %f", got)
	}

	duration := findMetricFamily(mfs, "payment_verify_duration_seconds")
	if duration == nil || len(duration.GetMetric()) == 0 {
		t.Fatal("expected duration histogram to be exported")
	}
	if got := duration.GetMetric()[0].GetHistogram().GetSampleSum(); got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestCommerceMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *CommerceMetrics
	metrics.IncOrderAssembled("guest")
	metrics.IncPaymentVerified("failed")
	metrics.IncPaymentReplay()
	metrics.AddCommissionCents("paid", 10)
	metrics.ObserveVerifyDuration(time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
