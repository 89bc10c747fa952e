// Package token encodes and decodes the compact action tokens that carry
// buyer and operator decisions across the transport round trip.
//
// Control tokens are short colon-delimited ASCII strings bounded by the
// transport's callback-data limit (64 bytes). The two operator free-text
// command forms share the same wire shape but travel as plain messages;
// their trailing argument may itself contain the delimiter and is rejoined
// verbatim rather than split further.
package token

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/netkeyhq/netkey-bot/internal/errs"
)

// Verbs understood by Decode.
const (
	verbPlan     = "plan"
	verbApprove  = "approve"
	verbReject   = "reject"
	verbJoined   = "joined"
	verbCheckSub = "check_sub"
	verbDeliver  = "config"
	verbReason   = "علت"
)

// Action is a decoded token. The concrete type tags the verb.
type Action interface{ action() }

// SelectPlan is a buyer choosing a plan from the catalog keyboard.
type SelectPlan struct{ PlanID string }

// Approve is an operator approving a buyer's receipt.
type Approve struct{ BuyerID int64 }

// Reject is an operator rejecting a buyer's receipt.
type Reject struct{ BuyerID int64 }

// Joined is a buyer asking for a membership re-check after joining.
type Joined struct{}

// CheckSub is the alternate re-check verb emitted by older keyboards.
// Handled identically to Joined; kept distinct so re-encoding preserves the verb.
type CheckSub struct{}

// Deliver is the operator free-text form handing a credential link to a buyer.
type Deliver struct {
	BuyerID int64
	Link    string
}

// RejectReason is the operator free-text form explaining a rejection.
type RejectReason struct {
	BuyerID int64
	Reason  string
}

func (SelectPlan) action()   {}
func (Approve) action()      {}
func (Reject) action()       {}
func (Joined) action()       {}
func (CheckSub) action()     {}
func (Deliver) action()      {}
func (RejectReason) action() {}

// Decode parses a token into its Action. It never panics on arbitrary input:
// an unknown verb, a missing positional argument, or a non-numeric identity
// maps to errs.ErrMalformedToken and the caller drops the event.
func Decode(s string) (Action, error) {
	parts := strings.Split(s, ":")
	switch parts[0] {
	case verbPlan:
		if len(parts) < 2 || parts[1] == "" {
			return nil, fmt.Errorf("%s: missing plan id: %w", verbPlan, errs.ErrMalformedToken)
		}
		return SelectPlan{PlanID: parts[1]}, nil
	case verbApprove:
		id, err := buyerArg(parts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", verbApprove, err)
		}
		return Approve{BuyerID: id}, nil
	case verbReject:
		id, err := buyerArg(parts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", verbReject, err)
		}
		return Reject{BuyerID: id}, nil
	case verbJoined:
		return Joined{}, nil
	case verbCheckSub:
		return CheckSub{}, nil
	case verbDeliver:
		id, rest, err := trailingArgs(parts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", verbDeliver, err)
		}
		return Deliver{BuyerID: id, Link: rest}, nil
	case verbReason:
		id, rest, err := trailingArgs(parts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", verbReason, err)
		}
		return RejectReason{BuyerID: id, Reason: rest}, nil
	default:
		return nil, fmt.Errorf("verb %q: %w", parts[0], errs.ErrMalformedToken)
	}
}

// Encode renders an Action back to its wire form. Decode(Encode(a)) == a for
// every well-formed a.
func Encode(a Action) string {
	switch v := a.(type) {
	case SelectPlan:
		return verbPlan + ":" + v.PlanID
	case Approve:
		return verbApprove + ":" + strconv.FormatInt(v.BuyerID, 10)
	case Reject:
		return verbReject + ":" + strconv.FormatInt(v.BuyerID, 10)
	case Joined:
		return verbJoined
	case CheckSub:
		return verbCheckSub
	case Deliver:
		return verbDeliver + ":" + strconv.FormatInt(v.BuyerID, 10) + ":" + v.Link
	case RejectReason:
		return verbReason + ":" + strconv.FormatInt(v.BuyerID, 10) + ":" + v.Reason
	default:
		return ""
	}
}

// buyerArg extracts a single numeric identity argument.
func buyerArg(parts []string) (int64, error) {
	if len(parts) < 2 || parts[1] == "" {
		return 0, fmt.Errorf("missing buyer id: %w", errs.ErrMalformedToken)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("buyer id %q: %w", parts[1], errs.ErrMalformedToken)
	}
	return id, nil
}

// trailingArgs extracts a numeric identity plus the verbatim remainder.
// The remainder is rejoined so embedded delimiters survive untouched.
func trailingArgs(parts []string) (int64, string, error) {
	if len(parts) < 3 {
		return 0, "", fmt.Errorf("missing arguments: %w", errs.ErrMalformedToken)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("buyer id %q: %w", parts[1], errs.ErrMalformedToken)
	}
	return id, strings.Join(parts[2:], ":"), nil
}
