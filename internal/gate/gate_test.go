package gate

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/netkeyhq/netkey-bot/internal/model"
	"github.com/netkeyhq/netkey-bot/internal/transport"
)

type fakeLookup struct {
	statuses map[string]model.MemberStatus
	errs     map[string]error
	calls    int
}

var _ transport.MembershipLookup = (*fakeLookup)(nil)

func (f *fakeLookup) Status(_ context.Context, handle string, _ int64) (model.MemberStatus, error) {
	f.calls++
	if err, ok := f.errs[handle]; ok {
		return model.StatusUnknown, err
	}
	return f.statuses[handle], nil
}

var channels = []model.Channel{
	{Handle: "@one", Title: "One"},
	{Handle: "@two", Title: "Two"},
}

func TestGate_OperatorBypassesEverything(t *testing.T) {
	t.Parallel()
	lookup := &fakeLookup{errs: map[string]error{"@one": errors.New("down"), "@two": errors.New("down")}}
	g := New(lookup, channels, []int64{99}, zaptest.NewLogger(t))

	verdict, missing := g.Evaluate(context.Background(), 99)
	if verdict != Allowed || missing != nil {
		t.Fatalf("bypass id: want Allowed, got %v missing=%v", verdict, missing)
	}
	if lookup.calls != 0 {
		t.Fatalf("bypass must not query membership, got %d calls", lookup.calls)
	}
}

func TestGate_EmptyRequirementsAllowAnyone(t *testing.T) {
	t.Parallel()
	lookup := &fakeLookup{}
	g := New(lookup, nil, []int64{99}, zaptest.NewLogger(t))

	verdict, _ := g.Evaluate(context.Background(), 12345)
	if verdict != Allowed {
		t.Fatalf("no required groups: want Allowed, got %v", verdict)
	}
	if lookup.calls != 0 {
		t.Fatalf("no lookups expected, got %d", lookup.calls)
	}
}

func TestGate_AllSatisfied(t *testing.T) {
	t.Parallel()
	lookup := &fakeLookup{statuses: map[string]model.MemberStatus{
		"@one": model.StatusMember,
		"@two": model.StatusAdministrator,
	}}
	g := New(lookup, channels, []int64{99}, zaptest.NewLogger(t))

	verdict, missing := g.Evaluate(context.Background(), 7)
	if verdict != Allowed || len(missing) != 0 {
		t.Fatalf("want Allowed, got %v missing=%v", verdict, missing)
	}
}

func TestGate_NonMemberDenied(t *testing.T) {
	t.Parallel()
	for _, status := range []model.MemberStatus{model.StatusLeft, model.StatusKicked, model.StatusUnknown} {
		lookup := &fakeLookup{statuses: map[string]model.MemberStatus{
			"@one": model.StatusMember,
			"@two": status,
		}}
		g := New(lookup, channels, []int64{99}, zaptest.NewLogger(t))

		verdict, missing := g.Evaluate(context.Background(), 7)
		if verdict != Denied {
			t.Fatalf("status %v: want Denied", status)
		}
		if len(missing) != 1 || missing[0].Handle != "@two" {
			t.Fatalf("status %v: want @two unsatisfied, got %v", status, missing)
		}
	}
}

func TestGate_LookupFailureFailsClosed(t *testing.T) {
	t.Parallel()
	lookup := &fakeLookup{
		statuses: map[string]model.MemberStatus{"@one": model.StatusMember},
		errs:     map[string]error{"@two": errors.New("api timeout")},
	}
	g := New(lookup, channels, []int64{99}, zaptest.NewLogger(t))

	verdict, missing := g.Evaluate(context.Background(), 7)
	if verdict != Denied {
		t.Fatalf("lookup failure must deny, got %v", verdict)
	}
	if len(missing) != 1 || missing[0].Handle != "@two" {
		t.Fatalf("want @two unsatisfied, got %v", missing)
	}
}

func TestGate_EvaluateIsPointInTime(t *testing.T) {
	t.Parallel()
	lookup := &fakeLookup{statuses: map[string]model.MemberStatus{
		"@one": model.StatusLeft,
		"@two": model.StatusMember,
	}}
	g := New(lookup, channels, []int64{99}, zaptest.NewLogger(t))
	ctx := context.Background()

	v1, _ := g.Evaluate(ctx, 7)
	v2, _ := g.Evaluate(ctx, 7)
	if v1 != v2 {
		t.Fatalf("verdict changed with no state change: %v then %v", v1, v2)
	}

	// No caching either: joining between calls flips the verdict.
	lookup.statuses["@one"] = model.StatusMember
	v3, _ := g.Evaluate(ctx, 7)
	if v3 != Allowed {
		t.Fatalf("after joining: want Allowed, got %v", v3)
	}
}
