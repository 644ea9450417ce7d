// Package mysql implements catalog.Session and catalog.SessionFactory over
// database/sql using github.com/go-sql-driver/mysql as the delegate
// driver. This is the concrete "wire-level database client" the catalog
// package's contract deliberately abstracts away.
package mysql
