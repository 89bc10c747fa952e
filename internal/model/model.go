// Package model defines domain values shared by the workflow, gate, and composer layers.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Plan is a purchasable subscription plan. Immutable once loaded from
// configuration; ID is unique within one catalog.
type Plan struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Price       decimal.Decimal `yaml:"price"`
	Description string          `yaml:"description"`
}

// UnmarshalYAML decodes a plan, routing the price through decimal's string
// parser: the YAML decoder has no native hook for decimal values.
func (p *Plan) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Price       string `yaml:"price"`
		Description string `yaml:"description"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return fmt.Errorf("plan %q price: %w", raw.ID, err)
	}
	*p = Plan{ID: raw.ID, Name: raw.Name, Price: price, Description: raw.Description}
	return nil
}

// Channel identifies a chat group the buyer must be a member of before
// using buyer-facing features.
type Channel struct {
	Handle string `yaml:"handle"` // with or without leading @
	Title  string `yaml:"title"`  // human label for join buttons
}

// MemberStatus is the membership state reported by the lookup collaborator.
type MemberStatus int

const (
	StatusUnknown MemberStatus = iota
	StatusCreator
	StatusAdministrator
	StatusMember
	StatusRestricted
	StatusLeft
	StatusKicked
)

// Satisfied reports whether the status counts as "in the group" for gating.
// Unknown is not satisfied: lookup failures fail closed.
func (s MemberStatus) Satisfied() bool {
	switch s {
	case StatusCreator, StatusAdministrator, StatusMember, StatusRestricted:
		return true
	default:
		return false
	}
}

// ReceiptSubmission is the ephemeral record of a buyer sending payment evidence.
type ReceiptSubmission struct {
	BuyerID       int64
	Username      string
	AttachmentRef string
	SubmittedAt   time.Time
}

// ReviewPackage is everything the operator needs to decide on one receipt.
// Plan is a value copy taken at submission time; later selection or catalog
// changes must not alter an in-flight review.
type ReviewPackage struct {
	BuyerID    int64
	Username   string
	Attachment []byte
	Plan       Plan
}

// DecisionKind is an operator verdict on a receipt.
type DecisionKind int

const (
	DecisionApprove DecisionKind = iota + 1
	DecisionReject
)

// Decision is a parsed operator verdict naming its target buyer.
type Decision struct {
	Kind    DecisionKind
	BuyerID int64
}

// RejectionReason is the operator's follow-up after a reject decision.
// Reason is preserved byte-for-byte, delimiters included.
type RejectionReason struct {
	BuyerID int64
	Reason  string
}

// DeliveryInstruction is the operator's follow-up after an approve decision.
// CredentialLink is preserved byte-for-byte (connection links embed ':' and '@').
type DeliveryInstruction struct {
	BuyerID        int64
	CredentialLink string
}
