// Package status implements the campaign state tracker.
//
// Each club carries an independent sub-state per email stage
// (not_contacted -> email_sent -> positive/negative response) plus a single
// derived pipeline stage and a priority. Every send and every response emits
// a notification. Mutations are serialized per club; clubs never block each
// other.
//
// Repository implementations live in repository/postgres and
// repository/memory.
package status
