package models

import "time"

// User is a wallet first seen by the service. The row exists for bookkeeping
// and referential integrity; the service performs no authentication beyond
// wallet address validation.
type User struct {
	WalletAddress string
	Username      string
	Email         string
	CreatedAt     time.Time
}
