// Package gate implements the membership-based authorization check that
// gates buyer-facing features.
package gate

import (
	"context"

	"go.uber.org/zap"

	"github.com/netkeyhq/netkey-bot/internal/model"
	"github.com/netkeyhq/netkey-bot/internal/transport"
)

// Verdict is the outcome of one point-in-time gate evaluation.
type Verdict int

const (
	Allowed Verdict = iota
	Denied
)

// Gate evaluates whether an actor may use buyer-facing features. It holds
// no per-actor state: every call re-queries membership, so a verdict is
// valid only for the event that triggered it.
type Gate struct {
	lookup   transport.MembershipLookup
	required []model.Channel
	bypass   map[int64]struct{}
	log      *zap.Logger
}

// New builds a gate. bypassIDs (the operator among them) skip every group
// requirement.
func New(lookup transport.MembershipLookup, required []model.Channel, bypassIDs []int64, log *zap.Logger) *Gate {
	bypass := make(map[int64]struct{}, len(bypassIDs))
	for _, id := range bypassIDs {
		bypass[id] = struct{}{}
	}
	return &Gate{
		lookup:   lookup,
		required: append([]model.Channel(nil), required...),
		bypass:   bypass,
		log:      log,
	}
}

// Evaluate applies the gate rules in order: bypass identity, empty
// requirement set, then one membership lookup per required group. A lookup
// error or a non-member status marks the group unsatisfied — the gate fails
// closed, never open. The returned channels are the unsatisfied groups for
// the join prompt; empty on Allowed.
func (g *Gate) Evaluate(ctx context.Context, actorID int64) (Verdict, []model.Channel) {
	if _, ok := g.bypass[actorID]; ok {
		return Allowed, nil
	}
	if len(g.required) == 0 {
		return Allowed, nil
	}

	var unsatisfied []model.Channel
	for _, ch := range g.required {
		status, err := g.lookup.Status(ctx, ch.Handle, actorID)
		if err != nil {
			g.log.Warn("membership lookup failed",
				zap.String("channel", ch.Handle),
				zap.Int64("actor", actorID),
				zap.Error(err),
			)
			unsatisfied = append(unsatisfied, ch)
			continue
		}
		if !status.Satisfied() {
			unsatisfied = append(unsatisfied, ch)
		}
	}
	if len(unsatisfied) > 0 {
		return Denied, unsatisfied
	}
	return Allowed, nil
}
