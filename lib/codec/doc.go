// Package codec maps sites to the flat string fields of a hash and back.
//
// The store represents every scalar as a string, so the codec is driven by an
// explicit Schema (field name -> FieldType) that is applied on every read and
// write: integers and floats are formatted on Encode and parsed on Decode.
// Floats are formatted with the shortest exact representation, which makes
// Decode(Encode(site)) reproduce the site exactly.
//
// The optional coordinate of a site is stored as the two sibling fields "lat"
// and "lng"; Decode restores it only if both fields are present.
package codec
