package domain

// Club identifies an organization being researched and contacted.
//
// Name is the primary key for every entity in the system. Keys are
// exact-match and case-sensitive: no normalization of case, whitespace, or
// punctuation is performed. Two spellings of the same club are two clubs.
type Club struct {
	Name    string `json:"club_name" db:"club_name"`
	Country string `json:"country" db:"country"`
	Website string `json:"website" db:"website"`
}
