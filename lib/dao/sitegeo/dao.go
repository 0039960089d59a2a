package sitegeo

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/kvsolar/lib/codec"
	"github.com/ValentinKolb/kvsolar/lib/dao"
	"github.com/ValentinKolb/kvsolar/lib/keys"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/redis/go-redis/v9"
	"math"
	"strconv"
	"time"
)

const (
	// ExcessCapacityThreshold is the minimum capacity ranking score (inclusive) of a site with excess capacity
	ExcessCapacityThreshold = 0.2
	// TemporaryKeyTTL is the lifetime of the scratch keys of an excess capacity query
	TemporaryKeyTTL = 30 * time.Second

	maxLatitude = 85.05112878
)

var (
	log = logger.GetLogger("dao")
)

type daoImpl struct {
	client redis.Cmdable
	keys   *keys.Generator
	codec  codec.ISiteCodec
}

// NewSiteGeoDAO creates a site DAO backed by hashes and a geo index.
// The client is owned by the caller and must stay open while the DAO is used.
func NewSiteGeoDAO(client redis.Cmdable, keys *keys.Generator) dao.ISiteGeoDAO {
	return &daoImpl{
		client: client,
		keys:   keys,
		codec:  codec.NewSiteCodec(),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see dao/interface.go)
// --------------------------------------------------------------------------

func (d *daoImpl) Insert(ctx context.Context, site model.Site) (key string, err error) {
	defer func(start time.Time) { dao.Observe("sitegeo_insert", start, err) }(time.Now())

	if !site.HasCoordinate() {
		return "", store.NewValidationError("coordinate required")
	}
	if site.ID <= 0 {
		return "", store.NewValidationError("site id must be positive, got %d", site.ID)
	}
	if !indexable(*site.Coordinate) {
		return "", store.NewValidationError("coordinate (%v, %v) is outside of the indexable area", site.Coordinate.Lat, site.Coordinate.Lng)
	}

	key = d.keys.SiteHashKey(site.ID)

	fields := d.codec.Encode(site)
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	// hash first, then the geo index. there is no rollback if the second write fails.
	if err := d.client.HSet(ctx, key, values).Err(); err != nil {
		return "", store.Unavailable(err)
	}
	if err := d.client.GeoAdd(ctx, d.keys.SiteGeoKey(), &redis.GeoLocation{
		Name:      siteMember(site.ID),
		Longitude: site.Coordinate.Lng,
		Latitude:  site.Coordinate.Lat,
	}).Err(); err != nil {
		log.Warningf("site %d was stored without geo index entry: %v", site.ID, err)
		return "", store.Unavailable(err)
	}

	log.Debugf("inserted site %d at %s", site.ID, key)
	return key, nil
}

func (d *daoImpl) FindByID(ctx context.Context, id int64) (site model.Site, found bool, err error) {
	defer func(start time.Time) { dao.Observe("sitegeo_find_by_id", start, err) }(time.Now())

	fields, err := d.client.HGetAll(ctx, d.keys.SiteHashKey(id)).Result()
	if err != nil {
		return model.Site{}, false, store.Unavailable(err)
	}
	return d.codec.Decode(fields)
}

func (d *daoImpl) FindAll(ctx context.Context) (sites []model.Site, err error) {
	defer func(start time.Time) { dao.Observe("sitegeo_find_all", start, err) }(time.Now())

	members, err := d.client.ZRange(ctx, d.keys.SiteGeoKey(), 0, -1).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}
	return d.fetchSites(ctx, members)
}

func (d *daoImpl) FindByGeo(ctx context.Context, lat, lng, radius float64, unit model.GeoUnit) (sites []model.Site, err error) {
	defer func(start time.Time) { dao.Observe("sitegeo_find_by_geo", start, err) }(time.Now())

	unit, err = normalizeQuery(lat, lng, radius, unit)
	if err != nil {
		return nil, err
	}

	locations, err := d.client.GeoRadius(ctx, d.keys.SiteGeoKey(), lng, lat, &redis.GeoRadiusQuery{
		Radius: radius,
		Unit:   unit.String(),
	}).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}

	members := make([]string, 0, len(locations))
	for _, l := range locations {
		members = append(members, l.Name)
	}
	return d.fetchSites(ctx, members)
}

func (d *daoImpl) FindByGeoWithExcessCapacity(ctx context.Context, lat, lng, radius float64, unit model.GeoUnit) (sites []model.Site, err error) {
	defer func(start time.Time) { dao.Observe("sitegeo_find_by_geo_excess", start, err) }(time.Now())

	unit, err = normalizeQuery(lat, lng, radius, unit)
	if err != nil {
		return nil, err
	}

	// scratch keys are unique per call, concurrent queries never share them
	radiusKey := d.keys.TemporaryKey()
	rankedKey := d.keys.TemporaryKey()

	// one round trip: radius result -> radiusKey, radiusKey ∩ ranking -> rankedKey.
	// the weights make the ranking score the only part of the result score,
	// membership in radiusKey acts as a filter.
	_, err = d.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.GeoRadiusStore(ctx, d.keys.SiteGeoKey(), lng, lat, &redis.GeoRadiusQuery{
			Radius: radius,
			Unit:   unit.String(),
			Store:  radiusKey,
		})
		pipe.ZInterStore(ctx, rankedKey, &redis.ZStore{
			Keys:    []string{radiusKey, d.keys.CapacityRankingKey()},
			Weights: []float64{0, 1},
		})
		pipe.Expire(ctx, radiusKey, TemporaryKeyTTL)
		pipe.Expire(ctx, rankedKey, TemporaryKeyTTL)
		return nil
	})
	if err != nil {
		return nil, store.Unavailable(err)
	}

	members, err := d.client.ZRangeByScore(ctx, rankedKey, &redis.ZRangeBy{
		Min: strconv.FormatFloat(ExcessCapacityThreshold, 'f', -1, 64),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, store.Unavailable(err)
	}

	log.Debugf("%d sites with excess capacity within %v%s of (%v, %v)", len(members), radius, unit, lat, lng)
	return d.fetchSites(ctx, members)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// fetchSites reads the hashes of all members in one pipeline and decodes them in member order.
// Members without hash are skipped.
func (d *daoImpl) fetchSites(ctx context.Context, members []string) ([]model.Site, error) {
	sites := make([]model.Site, 0, len(members))
	if len(members) == 0 {
		return sites, nil
	}

	pipe := d.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			log.Warningf("skipping invalid site member %q in geo index", m)
			continue
		}
		cmds = append(cmds, pipe.HGetAll(ctx, d.keys.SiteHashKey(id)))
	}
	if len(cmds) == 0 {
		return sites, nil
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, store.Unavailable(err)
	}

	for _, cmd := range cmds {
		site, found, err := d.codec.Decode(cmd.Val())
		if err != nil {
			return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("%s: %v", cmd.Args()[1], err))
		}
		if !found {
			// geo index and hashes drifted apart, tolerate it
			log.Debugf("no hash for member %v", cmd.Args()[1])
			continue
		}
		sites = append(sites, site)
	}
	return sites, nil
}

// siteMember is the name of a site in the geo index and the capacity ranking
func siteMember(id int64) string {
	return strconv.FormatInt(id, 10)
}

// normalizeQuery checks the parameters of a radius query and returns the normalized unit
func normalizeQuery(lat, lng, radius float64, unit model.GeoUnit) (model.GeoUnit, error) {
	normalized, err := model.ParseGeoUnit(string(unit))
	if err != nil {
		return "", store.NewValidationError("%v", err)
	}
	if radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return "", store.NewValidationError("radius must be a finite, non-negative number, got %v", radius)
	}
	if !indexable(model.Coordinate{Lat: lat, Lng: lng}) {
		return "", store.NewValidationError("coordinate (%v, %v) is outside of the indexable area", lat, lng)
	}
	return normalized, nil
}

// indexable reports whether the geo index accepts the coordinate (EPSG:3857 limits)
func indexable(c model.Coordinate) bool {
	return c.Lat >= -maxLatitude && c.Lat <= maxLatitude && c.Lng >= -180 && c.Lng <= 180
}
