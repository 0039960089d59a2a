// Package capacity implements dao.ICapacityDAO.
//
// The capacity ranking is a single sorted set that maps every site id to its
// excess capacity (energy generated minus energy used by its latest meter
// reading). The sitegeo package intersects this set with radius results to
// find sites that can deliver energy to their neighbourhood.
package capacity
