// Package types
package types

const (
	defaultLimit = 25
	MaximumLimit = 100
)

type Pagination struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

func (f *Pagination) Sanitize() {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	} else if f.Limit > MaximumLimit {
		f.Limit = MaximumLimit
	}
}
