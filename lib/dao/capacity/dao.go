package capacity

import (
	"context"
	"errors"
	"github.com/ValentinKolb/kvsolar/lib/dao"
	"github.com/ValentinKolb/kvsolar/lib/keys"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/redis/go-redis/v9"
	"strconv"
	"time"
)

var (
	log = logger.GetLogger("dao")
)

type daoImpl struct {
	client redis.Cmdable
	keys   *keys.Generator
}

// NewCapacityDAO creates a DAO for the capacity ranking sorted set
func NewCapacityDAO(client redis.Cmdable, keys *keys.Generator) dao.ICapacityDAO {
	return &daoImpl{
		client: client,
		keys:   keys,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see dao/interface.go)
// --------------------------------------------------------------------------

func (d *daoImpl) Update(ctx context.Context, reading model.MeterReading) (err error) {
	defer func(start time.Time) { dao.Observe("capacity_update", start, err) }(time.Now())
	return d.setScore(ctx, reading.SiteID, reading.ExcessCapacity())
}

func (d *daoImpl) SetScore(ctx context.Context, siteID int64, score float64) (err error) {
	defer func(start time.Time) { dao.Observe("capacity_set_score", start, err) }(time.Now())
	return d.setScore(ctx, siteID, score)
}

func (d *daoImpl) GetRank(ctx context.Context, siteID int64) (rank int64, found bool, err error) {
	defer func(start time.Time) { dao.Observe("capacity_get_rank", start, err) }(time.Now())

	rank, err = d.client.ZRevRank(ctx, d.keys.CapacityRankingKey(), member(siteID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, store.Unavailable(err)
	}
	return rank, true, nil
}

func (d *daoImpl) GetReport(ctx context.Context, limit int64) (report model.CapacityReport, err error) {
	defer func(start time.Time) { dao.Observe("capacity_get_report", start, err) }(time.Now())

	if limit <= 0 {
		return model.CapacityReport{}, store.NewValidationError("limit must be positive, got %d", limit)
	}

	key := d.keys.CapacityRankingKey()
	var highest, lowest *redis.ZSliceCmd
	_, err = d.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		highest = pipe.ZRevRangeWithScores(ctx, key, 0, limit-1)
		lowest = pipe.ZRangeWithScores(ctx, key, 0, limit-1)
		return nil
	})
	if err != nil {
		return model.CapacityReport{}, store.Unavailable(err)
	}

	if report.HighestCapacity, err = toSiteCapacities(highest.Val()); err != nil {
		return model.CapacityReport{}, err
	}
	if report.LowestCapacity, err = toSiteCapacities(lowest.Val()); err != nil {
		return model.CapacityReport{}, err
	}
	return report, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (d *daoImpl) setScore(ctx context.Context, siteID int64, score float64) error {
	err := d.client.ZAdd(ctx, d.keys.CapacityRankingKey(), redis.Z{
		Score:  score,
		Member: member(siteID),
	}).Err()
	if err != nil {
		return store.Unavailable(err)
	}
	log.Debugf("capacity of site %d set to %v", siteID, score)
	return nil
}

// member is the name of a site in the ranking
func member(siteID int64) string {
	return strconv.FormatInt(siteID, 10)
}

func toSiteCapacities(zs []redis.Z) ([]model.SiteCapacity, error) {
	out := make([]model.SiteCapacity, 0, len(zs))
	for _, z := range zs {
		m, _ := z.Member.(string)
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, store.NewError(store.RetCInternalError, "invalid member in capacity ranking: "+m)
		}
		out = append(out, model.SiteCapacity{SiteID: id, Capacity: z.Score})
	}
	return out, nil
}
