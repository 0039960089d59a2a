package codec

import "github.com/ValentinKolb/kvsolar/lib/model"

// ISiteCodec is the interface for all site record codecs.
// It maps a site to the flat field map stored in a hash and back.
type ISiteCodec interface {
	// Encode flattens a site into field -> string value pairs.
	// The map contains no nested values and can be stored field by field.
	Encode(site model.Site) map[string]string
	// Decode restores a site from the fields of a hash.
	// An empty (or nil) map is the "not found" sentinel of the store:
	// found is false and no error is returned.
	Decode(fields map[string]string) (site model.Site, found bool, err error)
}
