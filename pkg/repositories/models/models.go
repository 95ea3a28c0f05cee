package models

import "time"

// Profile is a player's ledger record.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Points     int64  `json:"points"`
	Level      int    `json:"level"`
	Experience int64  `json:"experience"`
	// LastCheckIn is the zero time when the player never checked in.
	LastCheckIn time.Time `json:"last_check_in,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Clone returns a copy of the profile that is safe to mutate.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
