package dao

import (
	"bytes"
	"errors"
	"github.com/VictoriaMetrics/metrics"
	"strings"
	"testing"
	"time"
)

func TestObserve(t *testing.T) {
	Observe("observe_test", time.Now(), nil)
	Observe("observe_test", time.Now(), errors.New("boom"))

	var buf bytes.Buffer
	metrics.WritePrometheus(&buf, false)
	out := buf.String()

	for _, want := range []string{
		`kvsolar_dao_calls_total{op="observe_test"} 2`,
		`kvsolar_dao_errors_total{op="observe_test"} 1`,
		`kvsolar_dao_duration_seconds_bucket{op="observe_test"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected metrics output to contain %s", want)
		}
	}
}
