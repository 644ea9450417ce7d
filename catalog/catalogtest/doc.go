// Package catalogtest provides hand-scripted catalog.Session and
// catalog.SessionFactory fakes for exercising the metadata fetcher's
// fallback and discovery logic without a real database.
package catalogtest
