package testing

import (
	"context"
	"errors"
	"fmt"
	"github.com/ValentinKolb/kvsolar/lib/dao"
	"github.com/ValentinKolb/kvsolar/lib/model"
	"github.com/ValentinKolb/kvsolar/lib/store"
	"reflect"
	"sort"
	"sync"
	"testing"
)

// Fixture bundles the DAOs under test. Every call of a Factory must return DAOs
// working on an empty, isolated key space.
type Fixture struct {
	Sites    dao.ISiteGeoDAO
	Capacity dao.ICapacityDAO
}

// Factory creates a new Fixture for a single test
type Factory func(t *testing.T) Fixture

// RunSiteGeoDAOTests runs the test suite for an ISiteGeoDAO implementation.
func RunSiteGeoDAOTests(t *testing.T, name string, factory Factory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Insert&FindByID", func(t *testing.T) {
			testInsertFindByID(t, factory(t))
		})

		t.Run("InsertValidation", func(t *testing.T) {
			testInsertValidation(t, factory(t))
		})

		t.Run("FindByIDNotFound", func(t *testing.T) {
			testFindByIDNotFound(t, factory(t))
		})

		t.Run("FindAll", func(t *testing.T) {
			testFindAll(t, factory(t))
		})

		t.Run("FindByGeo", func(t *testing.T) {
			testFindByGeo(t, factory(t))
		})

		t.Run("FindByGeoUnits", func(t *testing.T) {
			testFindByGeoUnits(t, factory(t))
		})

		t.Run("ExcessCapacity", func(t *testing.T) {
			testExcessCapacity(t, factory(t))
		})

		t.Run("ExcessCapacityRadiusFilter", func(t *testing.T) {
			testExcessCapacityRadiusFilter(t, factory(t))
		})

		t.Run("ConcurrentExcessCapacity", func(t *testing.T) {
			testConcurrentExcessCapacity(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Test data
// --------------------------------------------------------------------------

// Oakland is the center of most queries of the suite
var Oakland = model.Coordinate{Lat: 37.8044, Lng: -122.2712}

// TestSites returns sites at known positions. Distances from Oakland:
// Berkeley ~7 km, San Francisco ~13 km, San Jose ~62 km, Los Angeles ~540 km.
func TestSites() []model.Site {
	return []model.Site{
		{ID: 1, Panels: 10, Capacity: 4.5, City: "Oakland", State: "CA", Coordinate: &model.Coordinate{Lat: 37.8044, Lng: -122.2712}},
		{ID: 2, Panels: 4, Capacity: 1.25, City: "Berkeley", State: "CA", Coordinate: &model.Coordinate{Lat: 37.8716, Lng: -122.2727}},
		{ID: 3, Panels: 20, Capacity: 9.75, City: "San Francisco", State: "CA", Coordinate: &model.Coordinate{Lat: 37.7749, Lng: -122.4194}},
		{ID: 4, Panels: 7, Capacity: 3, City: "San Jose", State: "CA", Coordinate: &model.Coordinate{Lat: 37.3382, Lng: -121.8863}},
		{ID: 5, Panels: 12, Capacity: 6.5, City: "Los Angeles", State: "CA", Coordinate: &model.Coordinate{Lat: 34.0522, Lng: -118.2437}},
	}
}

// TestCapacityScores are the ranking scores used by the excess capacity tests.
// Site 2 sits exactly on the threshold, site 6 is ranked but has no site record.
var TestCapacityScores = map[int64]float64{
	1: 0.5,
	2: 0.2,
	3: 0.1,
	4: 1.0,
	5: -0.3,
	6: 0.9,
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func insertSites(t *testing.T, f Fixture, sites []model.Site) {
	t.Helper()
	for _, s := range sites {
		if _, err := f.Sites.Insert(context.Background(), s); err != nil {
			t.Fatalf("Insert(%d) failed: %v", s.ID, err)
		}
	}
}

func insertScores(t *testing.T, f Fixture) {
	t.Helper()
	for id, score := range TestCapacityScores {
		if err := f.Capacity.SetScore(context.Background(), id, score); err != nil {
			t.Fatalf("SetScore(%d) failed: %v", id, err)
		}
	}
}

// requireSites checks that got contains exactly the sites with the given ids, each equal to its original
func requireSites(t testing.TB, got []model.Site, ids ...int64) {
	t.Helper()

	originals := make(map[int64]model.Site)
	for _, s := range TestSites() {
		originals[s.ID] = s
	}

	gotIDs := make([]int64, 0, len(got))
	for _, s := range got {
		gotIDs = append(gotIDs, s.ID)
		if want, ok := originals[s.ID]; ok && !reflect.DeepEqual(s, want) {
			t.Errorf("site %d differs from the inserted site:\n got  %+v\n want %+v", s.ID, s, want)
		}
	}
	sort.Slice(gotIDs, func(i, j int) bool { return gotIDs[i] < gotIDs[j] })

	wantIDs := append([]int64{}, ids...)
	sort.Slice(wantIDs, func(i, j int) bool { return wantIDs[i] < wantIDs[j] })

	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("expected sites %v, got %v", wantIDs, gotIDs)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testInsertFindByID(t *testing.T, f Fixture) {
	ctx := context.Background()

	for _, site := range TestSites() {
		key, err := f.Sites.Insert(ctx, site)
		if err != nil {
			t.Fatalf("Insert(%d) failed: %v", site.ID, err)
		}
		if key == "" {
			t.Errorf("Insert(%d) returned an empty key", site.ID)
		}

		got, found, err := f.Sites.FindByID(ctx, site.ID)
		if err != nil {
			t.Fatalf("FindByID(%d) failed: %v", site.ID, err)
		}
		if !found {
			t.Fatalf("FindByID(%d) did not find the inserted site", site.ID)
		}
		if !reflect.DeepEqual(got, site) {
			t.Errorf("FindByID(%d):\n got  %+v\n want %+v", site.ID, got, site)
		}
	}
}

func testInsertValidation(t *testing.T, f Fixture) {
	ctx := context.Background()

	invalid := []model.Site{
		{ID: 1, Panels: 3, Capacity: 1.5},
		{ID: 0, Coordinate: &model.Coordinate{Lat: 1, Lng: 1}},
		{ID: 2, Coordinate: &model.Coordinate{Lat: 89, Lng: 1}},
	}

	for _, site := range invalid {
		_, err := f.Sites.Insert(ctx, site)
		if !errors.Is(err, store.ErrValidation) {
			t.Errorf("Insert(%+v): expected validation error, got %v", site, err)
		}

		_, found, err := f.Sites.FindByID(ctx, site.ID)
		if err != nil {
			t.Fatalf("FindByID failed: %v", err)
		}
		if found {
			t.Errorf("rejected site %d must not be stored", site.ID)
		}
	}

	all, err := f.Sites.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("rejected sites must not be indexed, got %v", all)
	}
}

func testFindByIDNotFound(t *testing.T, f Fixture) {
	site, found, err := f.Sites.FindByID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found {
		t.Errorf("expected not found, got %+v", site)
	}
}

func testFindAll(t *testing.T, f Fixture) {
	ctx := context.Background()

	all, err := f.Sites.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no sites in an empty store, got %d", len(all))
	}

	insertSites(t, f, TestSites())

	all, err = f.Sites.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	requireSites(t, all, 1, 2, 3, 4, 5)
}

func testFindByGeo(t *testing.T, f Fixture) {
	ctx := context.Background()
	insertSites(t, f, TestSites())

	cases := []struct {
		radius float64
		want   []int64
	}{
		{radius: 10, want: []int64{1, 2}},
		{radius: 20, want: []int64{1, 2, 3}},
		{radius: 100, want: []int64{1, 2, 3, 4}},
		{radius: 1000, want: []int64{1, 2, 3, 4, 5}},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%vkm", c.radius), func(t *testing.T) {
			sites, err := f.Sites.FindByGeo(ctx, Oakland.Lat, Oakland.Lng, c.radius, model.GeoUnitKilometers)
			if err != nil {
				t.Fatalf("FindByGeo failed: %v", err)
			}
			requireSites(t, sites, c.want...)
		})
	}

	t.Run("zero radius", func(t *testing.T) {
		sites, err := f.Sites.FindByGeo(ctx, 0, 0, 0, model.GeoUnitKilometers)
		if err != nil {
			t.Fatalf("FindByGeo failed: %v", err)
		}
		if len(sites) != 0 {
			t.Errorf("expected no sites, got %v", sites)
		}
	})

	t.Run("invalid unit", func(t *testing.T) {
		_, err := f.Sites.FindByGeo(ctx, Oakland.Lat, Oakland.Lng, 10, "parsec")
		if !errors.Is(err, store.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func testFindByGeoUnits(t *testing.T, f Fixture) {
	ctx := context.Background()
	insertSites(t, f, TestSites())

	// 10 miles ~ 16 km
	for _, unit := range []model.GeoUnit{"mi", "MI", "Miles"} {
		sites, err := f.Sites.FindByGeo(ctx, Oakland.Lat, Oakland.Lng, 10, unit)
		if err != nil {
			t.Fatalf("FindByGeo(%s) failed: %v", unit, err)
		}
		requireSites(t, sites, 1, 2, 3)
	}

	sites, err := f.Sites.FindByGeo(ctx, Oakland.Lat, Oakland.Lng, 10, "KM")
	if err != nil {
		t.Fatalf("FindByGeo(KM) failed: %v", err)
	}
	requireSites(t, sites, 1, 2)
}

func testExcessCapacity(t *testing.T, f Fixture) {
	ctx := context.Background()
	insertSites(t, f, TestSites())
	insertScores(t, f)

	// the radius covers all sites: only the score decides
	sites, err := f.Sites.FindByGeoWithExcessCapacity(ctx, Oakland.Lat, Oakland.Lng, 1000, model.GeoUnitKilometers)
	if err != nil {
		t.Fatalf("FindByGeoWithExcessCapacity failed: %v", err)
	}
	requireSites(t, sites, 1, 2, 4)

	// nothing within radius: empty intersection, no error
	sites, err = f.Sites.FindByGeoWithExcessCapacity(ctx, 0, 0, 1, model.GeoUnitKilometers)
	if err != nil {
		t.Fatalf("FindByGeoWithExcessCapacity failed: %v", err)
	}
	if len(sites) != 0 {
		t.Errorf("expected no sites, got %v", sites)
	}
}

func testExcessCapacityRadiusFilter(t *testing.T, f Fixture) {
	ctx := context.Background()
	insertSites(t, f, TestSites())
	insertScores(t, f)

	// San Jose (score 1.0) is outside of the radius and must not show up
	sites, err := f.Sites.FindByGeoWithExcessCapacity(ctx, Oakland.Lat, Oakland.Lng, 20, model.GeoUnitKilometers)
	if err != nil {
		t.Fatalf("FindByGeoWithExcessCapacity failed: %v", err)
	}
	requireSites(t, sites, 1, 2)
}

func testConcurrentExcessCapacity(t *testing.T, f Fixture) {
	ctx := context.Background()
	insertSites(t, f, TestSites())
	insertScores(t, f)

	sanJose := TestSites()[3].Coordinate

	queries := []struct {
		center model.Coordinate
		radius float64
		want   []int64
	}{
		{center: Oakland, radius: 20, want: []int64{1, 2}},
		{center: *sanJose, radius: 100, want: []int64{1, 2, 4}},
	}

	const rounds = 10

	var wg sync.WaitGroup
	errs := make(chan error, rounds*len(queries))

	for r := 0; r < rounds; r++ {
		for _, q := range queries {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sites, err := f.Sites.FindByGeoWithExcessCapacity(ctx, q.center.Lat, q.center.Lng, q.radius, model.GeoUnitKilometers)
				if err != nil {
					errs <- err
					return
				}
				ids := make([]int64, 0, len(sites))
				for _, s := range sites {
					ids = append(ids, s.ID)
				}
				sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
				if !reflect.DeepEqual(ids, q.want) {
					errs <- fmt.Errorf("query around (%v, %v): expected %v, got %v", q.center.Lat, q.center.Lng, q.want, ids)
				}
			}()
		}
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
