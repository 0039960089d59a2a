package keys

import (
	"fmt"
	"github.com/google/uuid"
	"strconv"
	"strings"
	"time"
)

// Generator builds fully qualified store keys. All keys share the prefix of the
// generator, which isolates applications (and tests) using the same store.
// A Generator is immutable and safe for concurrent use.
type Generator struct {
	prefix string
}

// New creates a key generator for the given prefix. Surrounding colons are removed.
func New(prefix string) *Generator {
	return &Generator{prefix: strings.Trim(prefix, ":")}
}

// Prefix returns the namespace of all generated keys
func (g *Generator) Prefix() string {
	return g.prefix
}

// key joins the parts with ':' and prepends the prefix
func (g *Generator) key(parts ...string) string {
	return fmt.Sprintf("%s:%s", g.prefix, strings.Join(parts, ":"))
}

// --------------------------------------------------------------------------
// Site keys
// --------------------------------------------------------------------------

// SiteHashKey is the hash holding the fields of a single site
func (g *Generator) SiteHashKey(siteID int64) string {
	return g.key("sites", "info", strconv.FormatInt(siteID, 10))
}

// SiteGeoKey is the geo index of all sites
func (g *Generator) SiteGeoKey() string {
	return g.key("sites", "geo")
}

// CapacityRankingKey is the sorted set mapping site ids to their excess capacity
func (g *Generator) CapacityRankingKey() string {
	return g.key("sites", "capacity", "ranking")
}

// --------------------------------------------------------------------------
// Metric keys
// --------------------------------------------------------------------------

// DayMetricKey is the sorted set holding the minute values of one metric of one site on the (UTC) day of t
func (g *Generator) DayMetricKey(siteID int64, unit string, t time.Time) string {
	return g.key("metric", unit, strconv.FormatInt(siteID, 10), t.UTC().Format(time.DateOnly))
}

// --------------------------------------------------------------------------
// Scratch keys
// --------------------------------------------------------------------------

// TemporaryKey returns a new, globally unique key on every call
func (g *Generator) TemporaryKey() string {
	return g.key("tmp", uuid.NewString())
}
