package codec

import (
	"github.com/ValentinKolb/kvsolar/lib/model"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// testSites creates a set of sites with different fields filled
func testSites() []model.Site {
	return []model.Site{
		// minimal site
		{ID: 1},

		// site with coordinate
		{
			ID:         2,
			Panels:     10,
			Capacity:   4.5,
			Coordinate: &model.Coordinate{Lat: 37.715375, Lng: -122.447761},
		},

		// site with all fields
		{
			ID:         3,
			Panels:     3,
			Capacity:   0.1 + 0.2,
			Address:    "100 Main St",
			City:       "Oakland",
			State:      "CA",
			PostalCode: "94577",
			Coordinate: &model.Coordinate{Lat: -33.8688, Lng: 151.2093},
		},

		// extreme values
		{
			ID:         math.MaxInt64,
			Panels:     -1,
			Capacity:   math.SmallestNonzeroFloat64,
			Coordinate: &model.Coordinate{Lat: 85.05112878, Lng: -180},
		},
	}
}

// TestSiteRoundTrip tests that sites can be encoded and decoded without loss
func TestSiteRoundTrip(t *testing.T) {
	c := NewSiteCodec()

	for _, site := range testSites() {
		fields := c.Encode(site)
		got, found, err := c.Decode(fields)
		if err != nil {
			t.Fatalf("Decode failed for site %d: %v", site.ID, err)
		}
		if !found {
			t.Fatalf("Decode reported not found for site %d", site.ID)
		}
		if !reflect.DeepEqual(got, site) {
			t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, site)
		}
	}
}

// TestSiteRoundTripRandom encodes and decodes random sites
func TestSiteRoundTripRandom(t *testing.T) {
	c := NewSiteCodec()
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		site := model.Site{
			ID:       rnd.Int63(),
			Panels:   rnd.Int63n(1000),
			Capacity: rnd.Float64() * 100,
			Coordinate: &model.Coordinate{
				Lat: rnd.Float64()*170 - 85,
				Lng: rnd.Float64()*360 - 180,
			},
		}
		got, _, err := c.Decode(c.Encode(site))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !reflect.DeepEqual(got, site) {
			t.Fatalf("round trip mismatch:\n got  %+v\n want %+v", got, site)
		}
	}
}

func TestEncodeFlattensCoordinate(t *testing.T) {
	c := NewSiteCodec()

	fields := c.Encode(model.Site{
		ID:         7,
		Panels:     2,
		Capacity:   1.5,
		Coordinate: &model.Coordinate{Lat: 1.25, Lng: -2.5},
	})

	want := map[string]string{
		"id":       "7",
		"panels":   "2",
		"capacity": "1.5",
		"lat":      "1.25",
		"lng":      "-2.5",
	}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("unexpected fields %v", fields)
	}

	fields = c.Encode(model.Site{ID: 8})
	if _, ok := fields["lat"]; ok {
		t.Error("site without coordinate must not have a lat field")
	}
	if _, ok := fields["coordinate"]; ok {
		t.Error("encoded site must not contain a nested coordinate")
	}
}

func TestDecode(t *testing.T) {
	c := NewSiteCodec()

	t.Run("not found sentinel", func(t *testing.T) {
		for _, fields := range []map[string]string{nil, {}} {
			_, found, err := c.Decode(fields)
			if err != nil || found {
				t.Errorf("expected found=false without error, got found=%v err=%v", found, err)
			}
		}
	})

	t.Run("partial coordinate", func(t *testing.T) {
		site, found, err := c.Decode(map[string]string{"id": "1", "lat": "1.5"})
		if err != nil || !found {
			t.Fatalf("unexpected result found=%v err=%v", found, err)
		}
		if site.Coordinate != nil {
			t.Error("coordinate must only be restored if lat and lng are present")
		}
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		site, _, err := c.Decode(map[string]string{"id": "1", "color": "blue"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if site.ID != 1 {
			t.Errorf("expected id 1, got %d", site.ID)
		}
	})

	t.Run("invalid number", func(t *testing.T) {
		_, _, err := c.Decode(map[string]string{"id": "1", "panels": "many"})
		if err == nil {
			t.Error("expected error for non-numeric panels")
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, _, err := c.Decode(map[string]string{"panels": "3"})
		if err == nil {
			t.Error("expected error for record without id")
		}
	})
}

func TestSchema(t *testing.T) {
	s := Schema{"n": FieldInt, "f": FieldFloat, "s": FieldString}

	if _, err := s.Format("n", "not an int"); err == nil {
		t.Error("expected type mismatch error")
	}
	if _, err := s.Format("unknown", 1); err == nil {
		t.Error("expected unknown field error")
	}
	if v, err := s.Format("f", 0.5); err != nil || v != "0.5" {
		t.Errorf("Format(f, 0.5) = %q, %v", v, err)
	}
	if v, err := s.Parse("n", "-12"); err != nil || v.(int64) != -12 {
		t.Errorf("Parse(n, -12) = %v, %v", v, err)
	}
	if v, err := s.Parse("s", "text"); err != nil || v.(string) != "text" {
		t.Errorf("Parse(s, text) = %v, %v", v, err)
	}
}
