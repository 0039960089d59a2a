package dao

import (
	"context"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"time"
)

// --------------------------------------------------------------------------
// Interface Definitions
// --------------------------------------------------------------------------

// ISiteGeoDAO stores sites together with their position and answers radius queries.
// Lookups report absent sites with found == false (or by leaving them out of a result)
// instead of an error. Store failures are returned as *store.Error with code RetCStoreUnavailable.
type ISiteGeoDAO interface {
	// Insert stores the site hash and adds the site to the geo index.
	// The site must have a coordinate, otherwise a validation error is returned and nothing is written.
	// The two writes are not atomic, if the second one fails the hash is not rolled back.
	// Returns the key of the site hash.
	Insert(ctx context.Context, site model.Site) (key string, err error)
	// FindByID returns the site with the given id. The boolean return value indicates whether the site was found.
	FindByID(ctx context.Context, id int64) (site model.Site, found bool, err error)
	// FindAll returns all sites of the geo index in index order.
	FindAll(ctx context.Context) (sites []model.Site, err error)
	// FindByGeo returns all sites within radius of the given point.
	FindByGeo(ctx context.Context, lat, lng, radius float64, unit model.GeoUnit) (sites []model.Site, err error)
	// FindByGeoWithExcessCapacity returns all sites within radius of the given point
	// whose score in the capacity ranking is at least the excess capacity threshold.
	FindByGeoWithExcessCapacity(ctx context.Context, lat, lng, radius float64, unit model.GeoUnit) (sites []model.Site, err error)
}

// ICapacityDAO maintains the capacity ranking of all sites.
type ICapacityDAO interface {
	// Update sets the score of the reading's site to its excess capacity (generated - used).
	Update(ctx context.Context, reading model.MeterReading) (err error)
	// SetScore sets the score of a site directly.
	SetScore(ctx context.Context, siteID int64, score float64) (err error)
	// GetRank returns the 0-based rank of a site, the site with the highest score has rank 0.
	// The boolean return value indicates whether the site is ranked at all.
	GetRank(ctx context.Context, siteID int64) (rank int64, found bool, err error)
	// GetReport returns the limit sites with the highest and the limit sites with the lowest score.
	GetReport(ctx context.Context, limit int64) (report model.CapacityReport, err error)
}

// IMetricDAO stores per-minute measurements of the sites.
type IMetricDAO interface {
	// Insert stores all metrics of a meter reading.
	Insert(ctx context.Context, reading model.MeterReading) (err error)
	// InsertMetric stores a single value at the minute of t.
	InsertMetric(ctx context.Context, siteID int64, value float64, unit model.MetricUnit, t time.Time) (err error)
	// GetRecent returns up to limit measurements at or before t, newest first.
	GetRecent(ctx context.Context, siteID int64, unit model.MetricUnit, t time.Time, limit int) (measurements []model.Measurement, err error)
}
