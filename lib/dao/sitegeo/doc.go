// Package sitegeo implements dao.ISiteGeoDAO on top of Redis.
//
// Every site is stored twice:
//
//	<prefix>:sites:info:<id>   hash with the encoded site (see package codec)
//	<prefix>:sites:geo         geo set, member is the site id
//
// Radius queries run GEORADIUS on the geo set and fetch the matching hashes in
// a single pipeline. Members whose hash is missing are skipped.
//
// FindByGeoWithExcessCapacity combines the geo set with the capacity ranking
// maintained by package capacity:
//
//  1. GEORADIUS ... STORE writes the radius result to a temporary key
//  2. ZINTERSTORE with weights 0 and 1 keeps only the ranking score of the
//     sites within the radius
//  3. ZRANGEBYSCORE selects the sites with a score of at least
//     ExcessCapacityThreshold
//
// Steps 1 and 2 are sent as one pipeline. The temporary keys are unique per
// query and expire after TemporaryKeyTTL, so concurrent queries never see the
// intermediate results of each other.
//
// Insert writes the hash before the geo entry. If the geo write fails the hash
// is kept and the failure is logged; inserting the site again repairs it.
package sitegeo
