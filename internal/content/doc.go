// Package content generates and tracks the personalized outreach emails.
//
// For each (club, stage) pair the service pulls the matching research
// section from the cache, asks the content model for a short personalized
// fragment, renders the stage's Liquid template around it, and stores the
// result as a single EmailRecord. Regenerating or resending overwrites the
// record in place; at most one email exists per (club, stage).
package content
