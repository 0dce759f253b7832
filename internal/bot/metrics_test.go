package bot

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPaymentOutcomeLabels(t *testing.T) {
	m := NewMetrics()

	// Every payment outcome the flow can reach gets its own series.
	m.PaymentsTotal.WithLabelValues("success").Inc()
	m.PaymentsTotal.WithLabelValues("failure").Inc()
	m.PaymentsTotal.WithLabelValues("cancelled").Inc()

	for _, result := range []string{"success", "failure", "cancelled"} {
		if got := testutil.ToFloat64(m.PaymentsTotal.WithLabelValues(result)); got != 1 {
			t.Errorf("payments_total{result=%q} = %v, want 1", result, got)
		}
	}
}
