package codec

import (
	"fmt"
	"github.com/ValentinKolb/kvsolar/lib/model"
)

// Field names of the site hash
const (
	FieldID         = "id"
	FieldPanels     = "panels"
	FieldCapacity   = "capacity"
	FieldAddress    = "address"
	FieldCity       = "city"
	FieldState      = "state"
	FieldPostalCode = "postalCode"
	FieldLat        = "lat"
	FieldLng        = "lng"
)

// SiteSchema is the schema of the site hash
var SiteSchema = Schema{
	FieldID:         FieldInt,
	FieldPanels:     FieldInt,
	FieldCapacity:   FieldFloat,
	FieldAddress:    FieldString,
	FieldCity:       FieldString,
	FieldState:      FieldString,
	FieldPostalCode: FieldString,
	FieldLat:        FieldFloat,
	FieldLng:        FieldFloat,
}

// NewSiteCodec creates a codec for the site hash using SiteSchema
func NewSiteCodec() ISiteCodec {
	return &siteCodecImpl{schema: SiteSchema}
}

type siteCodecImpl struct {
	schema Schema
}

// --------------------------------------------------------------------------
// Interface Methods (docu see codec.ISiteCodec)
// --------------------------------------------------------------------------

func (c *siteCodecImpl) Encode(site model.Site) map[string]string {
	values := map[string]interface{}{
		FieldID:       site.ID,
		FieldPanels:   site.Panels,
		FieldCapacity: site.Capacity,
	}

	// optional strings are only stored if set
	for field, v := range map[string]string{
		FieldAddress:    site.Address,
		FieldCity:       site.City,
		FieldState:      site.State,
		FieldPostalCode: site.PostalCode,
	} {
		if v != "" {
			values[field] = v
		}
	}

	// the coordinate is flattened into sibling fields
	if site.Coordinate != nil {
		values[FieldLat] = site.Coordinate.Lat
		values[FieldLng] = site.Coordinate.Lng
	}

	fields := make(map[string]string, len(values))
	for field, v := range values {
		s, err := c.schema.Format(field, v)
		if err != nil {
			// all values above are built from typed struct fields
			panic(err)
		}
		fields[field] = s
	}
	return fields
}

func (c *siteCodecImpl) Decode(fields map[string]string) (model.Site, bool, error) {
	if len(fields) == 0 {
		return model.Site{}, false, nil
	}

	if _, ok := fields[FieldID]; !ok {
		return model.Site{}, false, fmt.Errorf("site record without %q field", FieldID)
	}

	var (
		site           model.Site
		lat, lng       float64
		hasLat, hasLng bool
	)

	for field, raw := range fields {
		if _, known := c.schema[field]; !known {
			continue
		}
		v, err := c.schema.Parse(field, raw)
		if err != nil {
			return model.Site{}, false, fmt.Errorf("decode site: %w", err)
		}

		switch field {
		case FieldID:
			site.ID = v.(int64)
		case FieldPanels:
			site.Panels = v.(int64)
		case FieldCapacity:
			site.Capacity = v.(float64)
		case FieldAddress:
			site.Address = v.(string)
		case FieldCity:
			site.City = v.(string)
		case FieldState:
			site.State = v.(string)
		case FieldPostalCode:
			site.PostalCode = v.(string)
		case FieldLat:
			lat, hasLat = v.(float64), true
		case FieldLng:
			lng, hasLng = v.(float64), true
		}
	}

	// the coordinate is only restored if both parts are present
	if hasLat && hasLng {
		site.Coordinate = &model.Coordinate{Lat: lat, Lng: lng}
	}

	return site, true, nil
}
