// Package memory provides in-memory repository implementations: keyed maps
// behind mutexes with copy-on-read semantics.
//
// They are the default backend when no DATABASE_URL is configured and the
// fakes used by service tests. All operations are atomic per key, matching
// the single-writer-per-entity model the services rely on.
package memory
