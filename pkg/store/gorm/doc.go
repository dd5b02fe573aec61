// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Client secrets are sealed with the data key before they reach the
// database and opened again on lookup.
package gorm
