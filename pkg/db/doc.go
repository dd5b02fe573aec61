// Package db opens the PostgreSQL connection holding registered clients.
//
//	database, err := db.Connect(db.Config{})
//
// The URL defaults to DATABASE_URL.
package db
