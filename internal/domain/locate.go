package domain

import (
	"fmt"
	"time"
)

// RejectCode is the closed set of business reject codes returned to
// callers. Rejections are normal outcomes, not faults; every rejection
// is terminal for its request and the caller may resubmit.
type RejectCode string

const (
	CodeRegulatoryBlock       RejectCode = "ERR-204-FAIL"
	CodeSettlementRisk        RejectCode = "ERR-SETTLE-JP"
	CodeInsufficientLiquidity RejectCode = "ERR-LIQ-001"
)

// Rejection explains a REJECT outcome with a machine code and a
// human-readable reason.
type Rejection struct {
	Code   RejectCode
	Reason string
}

// RegulatoryBlock builds the rejection for a restricted ticker ordered
// without a confirmed pre-borrow.
func RegulatoryBlock(ticker string) *Rejection {
	return &Rejection{
		Code:   CodeRegulatoryBlock,
		Reason: fmt.Sprintf("REGULATORY BLOCK: %s is on the Threshold List (Rule 204).", ticker),
	}
}

// SettlementRisk builds the rejection for a JP-settlement order without
// a confirmed pre-borrow.
func SettlementRisk() *Rejection {
	return &Rejection{
		Code:   CodeSettlementRisk,
		Reason: "SETTLEMENT RISK: Japanese T+2 requires confirmed Pre-Borrow.",
	}
}

// InsufficientLiquidity builds the rejection for a request exceeding the
// summed lendable quantity for the ticker.
func InsufficientLiquidity(requested, found int64) *Rejection {
	return &Rejection{
		Code:   CodeInsufficientLiquidity,
		Reason: fmt.Sprintf("INSUFFICIENT LIQUIDITY: Requested %d, Found %d.", requested, found),
	}
}

// OrderRequest is a proposed short-sale order submitted to the gatekeeper.
// The service layer validates fields and case-normalizes the ticker before
// the engine sees it.
type OrderRequest struct {
	Ticker    string
	Quantity  int64
	Region    Region
	PreBorrow bool
}

// Outcome is the result of one gatekeeper pass. A PASS carries the locate
// id and allocation sources; a REJECT carries a non-nil Rejection and
// nothing else.
type Outcome struct {
	Passed    bool
	LocateID  string
	Sources   []string
	Rejection *Rejection
}

// LocateRecord is the immutable proof of one successful allocation.
// Once appended to the ledger it is never mutated or removed.
type LocateRecord struct {
	Time     time.Time
	LocateID string
	Ticker   string
	Quantity int64
	Sources  []string
}
