package dao

import (
	"fmt"
	"github.com/VictoriaMetrics/metrics"
	"time"
)

// Observe records the duration and the outcome of a DAO operation.
// It is meant to be deferred with the start time of the operation:
//
//	defer func(start time.Time) { dao.Observe("sitegeo_insert", start, err) }(time.Now())
func Observe(op string, start time.Time, err error) {
	metrics.GetOrCreateHistogram(fmt.Sprintf(`kvsolar_dao_duration_seconds{op=%q}`, op)).UpdateDuration(start)
	metrics.GetOrCreateCounter(fmt.Sprintf(`kvsolar_dao_calls_total{op=%q}`, op)).Inc()
	if err != nil {
		metrics.GetOrCreateCounter(fmt.Sprintf(`kvsolar_dao_errors_total{op=%q}`, op)).Inc()
	}
}
