package metric

import (
	"context"
	"errors"
	"github.com/ValentinKolb/kvsolar/lib/keys"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"testing"
	"time"
)

const testSiteID = 1

func newTestDAO(t *testing.T) (*daoImpl, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewMetricDAO(client, keys.New("test")).(*daoImpl), mr
}

// insertReadings inserts one value per minute for the given number of minutes.
// The value of minute i is i, so the newest value is minutes-1.
func insertReadings(t *testing.T, d *daoImpl, start time.Time, minutes int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < minutes; i++ {
		ts := start.Add(time.Duration(i) * time.Minute)
		if err := d.InsertMetric(ctx, testSiteID, float64(i), model.MetricUnitWHGenerated, ts); err != nil {
			t.Fatalf("InsertMetric failed: %v", err)
		}
	}
}

func TestGetRecentTimeWindow(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDAO(t)

	const minutes = 72 * 60
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	insertReadings(t, d, start, minutes)
	newest := start.Add((minutes - 1) * time.Minute)

	for _, limit := range []int{1, 1440, 4200} {
		measurements, err := d.GetRecent(ctx, testSiteID, model.MetricUnitWHGenerated, newest, limit)
		if err != nil {
			t.Fatalf("GetRecent(limit=%d) failed: %v", limit, err)
		}
		if len(measurements) != limit {
			t.Fatalf("GetRecent(limit=%d) returned %d measurements", limit, len(measurements))
		}

		for i, m := range measurements {
			wantValue := float64(minutes - 1 - i)
			if m.Value != wantValue {
				t.Fatalf("limit=%d: measurement %d has value %v, want %v", limit, i, m.Value, wantValue)
			}
			wantTime := newest.Add(-time.Duration(i) * time.Minute)
			if !m.Timestamp.Equal(wantTime) {
				t.Fatalf("limit=%d: measurement %d has timestamp %v, want %v", limit, i, m.Timestamp, wantTime)
			}
		}
	}
}

func TestGetRecentMoreThanAvailable(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDAO(t)

	start := time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC)
	insertReadings(t, d, start, 120)

	measurements, err := d.GetRecent(ctx, testSiteID, model.MetricUnitWHGenerated, start.Add(119*time.Minute), 500)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(measurements) != 120 {
		t.Errorf("expected all 120 measurements, got %d", len(measurements))
	}
}

func TestGetRecentIgnoresLaterMinutes(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDAO(t)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	insertReadings(t, d, start, 60)

	// ask for the state at 12:29
	measurements, err := d.GetRecent(ctx, testSiteID, model.MetricUnitWHGenerated, start.Add(29*time.Minute), 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(measurements) != 10 || measurements[0].Value != 29 {
		t.Errorf("expected newest value 29, got %+v", measurements)
	}
}

func TestGetRecentLimit(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDAO(t)

	for _, limit := range []int{0, -1, MaxRecentLimit + 1} {
		_, err := d.GetRecent(ctx, testSiteID, model.MetricUnitWHGenerated, time.Now(), limit)
		if !errors.Is(err, store.ErrValidation) {
			t.Errorf("GetRecent(limit=%d): expected validation error, got %v", limit, err)
		}
	}
}

func TestInsertMetricReplacesMinute(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDAO(t)

	ts := time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC)
	_ = d.InsertMetric(ctx, testSiteID, 1, model.MetricUnitTempCelsius, ts)
	_ = d.InsertMetric(ctx, testSiteID, 2, model.MetricUnitTempCelsius, ts.Add(30*time.Second))

	measurements, err := d.GetRecent(ctx, testSiteID, model.MetricUnitTempCelsius, ts, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(measurements) != 1 || measurements[0].Value != 2 {
		t.Errorf("expected a single measurement with value 2, got %+v", measurements)
	}
}

func TestInsertReading(t *testing.T) {
	ctx := context.Background()
	d, mr := newTestDAO(t)

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	err := d.Insert(ctx, model.MeterReading{
		SiteID:      testSiteID,
		Timestamp:   ts,
		WhGenerated: 12.5,
		WhUsed:      4,
		TempC:       -3.25,
	})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	want := map[model.MetricUnit]float64{
		model.MetricUnitWHGenerated: 12.5,
		model.MetricUnitWHUsed:      4,
		model.MetricUnitTempCelsius: -3.25,
	}
	for unit, value := range want {
		measurements, err := d.GetRecent(ctx, testSiteID, unit, ts, 1)
		if err != nil {
			t.Fatalf("GetRecent(%s) failed: %v", unit, err)
		}
		if len(measurements) != 1 || measurements[0].Value != value {
			t.Errorf("%s: expected %v, got %+v", unit, value, measurements)
		}

		key := d.keys.DayMetricKey(testSiteID, string(unit), ts)
		if ttl := mr.TTL(key); ttl != Expiration {
			t.Errorf("%s: expected ttl %v, got %v", unit, Expiration, ttl)
		}
	}
}

func TestParseMember(t *testing.T) {
	m, err := parseMember(redis.Z{Member: "-1.5:42", Score: 42})
	if err != nil || m.value != -1.5 || m.minute != 42 {
		t.Errorf("unexpected member %+v, err=%v", m, err)
	}
	if _, err := parseMember(redis.Z{Member: "garbage", Score: 1}); err == nil {
		t.Error("expected error for member without minute")
	}
}
