package metric

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/kvsolar/lib/dao"
	"github.com/ValentinKolb/kvsolar/lib/keys"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/redis/go-redis/v9"
	"strconv"
	"strings"
	"time"
)

const (
	// Expiration is the lifetime of a day key after its last write
	Expiration = 14 * 24 * time.Hour
	// MaxRecentDays is the number of days GetRecent looks back at most
	MaxRecentDays = 30
	// MaxRecentLimit is the maximum number of measurements GetRecent returns
	MaxRecentLimit = MaxRecentDays * minutesPerDay

	minutesPerDay = 24 * 60
)

var (
	log = logger.GetLogger("dao")
)

type daoImpl struct {
	client redis.Cmdable
	keys   *keys.Generator
}

// NewMetricDAO creates a DAO for the per-minute metrics of all sites
func NewMetricDAO(client redis.Cmdable, keys *keys.Generator) dao.IMetricDAO {
	return &daoImpl{
		client: client,
		keys:   keys,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see dao/interface.go)
// --------------------------------------------------------------------------

func (d *daoImpl) Insert(ctx context.Context, reading model.MeterReading) (err error) {
	defer func(start time.Time) { dao.Observe("metric_insert", start, err) }(time.Now())

	_, err = d.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		d.queueMetric(ctx, pipe, reading.SiteID, reading.WhGenerated, model.MetricUnitWHGenerated, reading.Timestamp)
		d.queueMetric(ctx, pipe, reading.SiteID, reading.WhUsed, model.MetricUnitWHUsed, reading.Timestamp)
		d.queueMetric(ctx, pipe, reading.SiteID, reading.TempC, model.MetricUnitTempCelsius, reading.Timestamp)
		return nil
	})
	return store.Unavailable(err)
}

func (d *daoImpl) InsertMetric(ctx context.Context, siteID int64, value float64, unit model.MetricUnit, t time.Time) (err error) {
	defer func(start time.Time) { dao.Observe("metric_insert_metric", start, err) }(time.Now())

	_, err = d.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		d.queueMetric(ctx, pipe, siteID, value, unit, t)
		return nil
	})
	return store.Unavailable(err)
}

func (d *daoImpl) GetRecent(ctx context.Context, siteID int64, unit model.MetricUnit, t time.Time, limit int) (measurements []model.Measurement, err error) {
	defer func(start time.Time) { dao.Observe("metric_get_recent", start, err) }(time.Now())

	if limit < 1 || limit > MaxRecentLimit {
		return nil, store.NewValidationError("limit must be between 1 and %d, got %d", MaxRecentLimit, limit)
	}

	measurements = make([]model.Measurement, 0, limit)

	// the first day is bounded by the minute of t, all older days are read completely
	day := t.UTC()
	maxScore := strconv.Itoa(minuteOfDay(day))

	for days := 0; len(measurements) < limit && days <= MaxRecentDays; days++ {
		remaining := limit - len(measurements)

		zs, err := d.client.ZRevRangeByScoreWithScores(ctx, d.keys.DayMetricKey(siteID, string(unit), day), &redis.ZRangeBy{
			Min:   "-inf",
			Max:   maxScore,
			Count: int64(remaining),
		}).Result()
		if err != nil {
			return nil, store.Unavailable(err)
		}

		midnight := startOfDay(day)
		for _, z := range zs {
			m, err := parseMember(z)
			if err != nil {
				return nil, store.NewError(store.RetCInternalError, err.Error())
			}
			measurements = append(measurements, model.Measurement{
				SiteID:    siteID,
				Unit:      unit,
				Value:     m.value,
				Timestamp: midnight.Add(time.Duration(m.minute) * time.Minute),
			})
		}

		day = midnight.Add(-time.Minute)
		maxScore = "+inf"
	}

	log.Debugf("read %d recent %s measurements of site %d", len(measurements), unit, siteID)
	return measurements, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// queueMetric adds the commands storing a single value to a pipeline.
// A previous value of the same minute is replaced.
func (d *daoImpl) queueMetric(ctx context.Context, pipe redis.Pipeliner, siteID int64, value float64, unit model.MetricUnit, t time.Time) {
	key := d.keys.DayMetricKey(siteID, string(unit), t)
	minute := minuteOfDay(t.UTC())
	score := strconv.Itoa(minute)

	pipe.ZRemRangeByScore(ctx, key, score, score)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(minute),
		Member: formatMember(value, minute),
	})
	pipe.Expire(ctx, key, Expiration)
}

type member struct {
	value  float64
	minute int
}

// formatMember encodes a value and its minute. The minute keeps members of equal values unique.
func formatMember(value float64, minute int) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + ":" + strconv.Itoa(minute)
}

func parseMember(z redis.Z) (member, error) {
	s, _ := z.Member.(string)
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return member{}, fmt.Errorf("invalid metric member %q", s)
	}
	value, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return member{}, fmt.Errorf("invalid metric member %q: %w", s, err)
	}
	return member{value: value, minute: int(z.Score)}, nil
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
