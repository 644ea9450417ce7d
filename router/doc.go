// Package router implements the contract exposed to the dispatcher:
// given a replica-set name and a desired access mode, return an
// ordered list of candidate backend endpoints. Resolver is backed
// either by a live metadata cache (Cache) or by a fixed address list
// resolved once at startup (StaticList).
package router
