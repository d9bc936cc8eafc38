// Package api
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo"

	"github.com/civicfund/quadfund-backend/types"
)

var (
	OK             = EchoResponse{StatusCode: http.StatusOK, Code: 1000, Msg: "Success"}
	InternalServer = EchoResponse{StatusCode: http.StatusInternalServerError, Code: 1100, Msg: "Server busy..."}
	Invalid        = EchoResponse{StatusCode: http.StatusBadRequest, Code: 1101, Msg: "Bad request"}
	Unauthorized   = EchoResponse{StatusCode: http.StatusUnauthorized, Code: 401, Msg: "Unauthorized"}
)

type EchoResponse struct {
	StatusCode int         `json:"-"`
	Code       int         `json:"code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data,omitempty"`
}

func (r *EchoResponse) SetData(data interface{}) *EchoResponse {
	r.Data = data
	return r
}

func (r *EchoResponse) Build(c echo.Context) error {
	return c.JSON(r.StatusCode, r)
}

var errStatus = map[error]int{
	types.ErrUnauthorized:            http.StatusForbidden,
	types.ErrUnauthorizedBeneficiary: http.StatusForbidden,
	types.ErrNotOwner:                http.StatusForbidden,

	types.ErrProposalNotFound:   http.StatusNotFound,
	types.ErrTimelockNotFound:   http.StatusNotFound,
	types.ErrSubmissionNotFound: http.StatusNotFound,
	types.ErrMilestoneNotFound:  http.StatusNotFound,

	types.ErrAlreadyExecuted:      http.StatusConflict,
	types.ErrAlreadyApproved:      http.StatusConflict,
	types.ErrAlreadyProcessed:     http.StatusConflict,
	types.ErrAlreadyInTargetState: http.StatusConflict,
	types.ErrNotExpired:           http.StatusConflict,

	types.ErrInvalidMilestones:        http.StatusBadRequest,
	types.ErrInvalidVotes:             http.StatusBadRequest,
	types.ErrProposalNotValid:         http.StatusBadRequest,
	types.ErrProposalFullyFunded:      http.StatusBadRequest,
	types.ErrPriorMilestoneUnverified: http.StatusBadRequest,
	types.ErrInsufficientCredits:      http.StatusBadRequest,
	types.ErrInsufficientFunds:        http.StatusBadRequest,
	types.ErrZeroMintRate:             http.StatusBadRequest,
	types.ErrZeroDeposit:              http.StatusBadRequest,
	types.ErrDirectDepositNotAllowed:  http.StatusBadRequest,
	types.ErrEtaTooSoon:               http.StatusBadRequest,
	types.ErrNotYetDue:                http.StatusBadRequest,
	types.ErrTimelockExpired:          http.StatusBadRequest,
	types.ErrInvalidProofPointer:      http.StatusBadRequest,
}

// FromErr maps domain sentinel errors onto response envelopes; anything
// unrecognized is treated as a server fault and hides the detail.
func FromErr(err error) *EchoResponse {
	for sentinel, status := range errStatus {
		if errors.Is(err, sentinel) {
			return &EchoResponse{StatusCode: status, Code: 1101, Msg: sentinel.Error()}
		}
	}
	resp := InternalServer
	return &resp
}
