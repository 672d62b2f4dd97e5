// Package notify implements the notification center.
//
// Notifications form an append-only log read as a queue: every send or
// response event produces a new entry, entries are never deduplicated or
// deleted, and the only mutation ever applied is flipping is_read.
//
// Repository implementations live in repository/postgres and
// repository/memory.
package notify
