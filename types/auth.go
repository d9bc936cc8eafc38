// Package types
package types

type Role string

const (
	// RoleAdmin may kill proposals, set the mint rate and use the
	// emergency burn/disburse paths.
	RoleAdmin Role = "admin"
	// RoleOracleAdmin manages the beneficiary allowlist and reviews proofs.
	RoleOracleAdmin Role = "oracle-admin"
	// RoleEngine is the only role allowed to queue timelocked transfers.
	RoleEngine Role = "engine"
)

// AuthContext carries caller identity and granted roles into every
// operation. There is no implicit admin singleton.
type AuthContext struct {
	Caller string `json:"caller"`
	Roles  []Role `json:"roles"`
}

func (a AuthContext) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
