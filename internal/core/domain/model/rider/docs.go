// Package rider implements the rider directory aggregate: each rider's
// availability state and last-known location. Availability changes happen
// both rider-initiated and as side effects of order lifecycle transitions.
package rider
