// Package types
package types

// Beneficiary is an allowlist row. DetailPointer references an off-chain
// document and is stored verbatim, never resolved here.
type Beneficiary struct {
	Address       string `json:"address" bson:"address"`
	DetailPointer string `json:"detailPointer" bson:"detailPointer"`
	Approved      bool   `json:"approved" bson:"approved"`
	ApprovedTime  int64  `json:"approvedTime,omitempty" bson:"approvedTime"`
	RevokedTime   int64  `json:"revokedTime,omitempty" bson:"revokedTime"`
}
