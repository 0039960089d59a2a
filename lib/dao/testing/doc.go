// Package testing provides a shared test suite for dao.ISiteGeoDAO
// implementations and helpers to run DAOs against an in-process Redis.
//
// An implementation is tested by passing a Factory that returns fresh DAOs
// working on an isolated key space:
//
//	func TestSiteGeoDAO(t *testing.T) {
//	    daotesting.RunSiteGeoDAOTests(t, "sitegeo", func(t *testing.T) daotesting.Fixture {
//	        _, client := daotesting.NewMiniRedis(t)
//	        k := keys.New("test")
//	        return daotesting.Fixture{
//	            Sites:    sitegeo.NewSiteGeoDAO(client, k),
//	            Capacity: capacity.NewCapacityDAO(client, k),
//	        }
//	    })
//	}
//
// The suite covers insert validation, lookups of absent sites, completeness of
// FindAll, radius filtering in both distance units, the excess capacity
// threshold (intersection before filtering) and concurrent excess capacity
// queries with overlapping radii.
package testing
