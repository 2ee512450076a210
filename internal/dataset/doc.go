// Package dataset loads the recruitment snapshot and converts its label
// vocabulary ("Application Date", "Viewed By", "Days Open", ...) into the
// typed records of package types, once, at the boundary.
//
// Empty or absent stage fields become nil. A non-empty date that cannot be
// parsed fails the whole load with an error wrapping ErrMalformedDate, so
// bad data never reaches the analytics engine as a bogus duration.
package dataset
