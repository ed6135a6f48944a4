// Package aggregates owns the transaction boundary and the compare-and-set
// guards that order placement, checkout and status transitions build on.
package aggregates
