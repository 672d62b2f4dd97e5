// Package responses stores inbound replies durably and feeds them to the
// campaign state tracker.
//
// Replies arrive either from the Brevo event feed or from manual entry. The
// first reply recorded for a (club, stage, contact email) tuple wins: later
// duplicates are rejected with ErrDuplicateResponse so the original is never
// silently overwritten.
package responses
