package domain

// User is the account row. Profile management is owned elsewhere; this core
// reads identity/email and maintains the dispute counter consumed by the
// auto-flag policy.
type User struct {
	ID           int32  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"is_admin"`
	DisputeCount int32  `json:"dispute_count"`
}
