// Package workflow routes inbound chat events through the access gate and
// the per-buyer purchase state machine, producing outbound messages via the
// transport collaborators.
//
// Per-buyer state is implicit: Unverified → Verified → PlanChosen →
// AwaitingReview → {Approved, Rejected}, with Rejected looping back to
// PlanChosen. The only stored piece is the plan selection; everything else
// is derived from the event being handled.
package workflow

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/netkeyhq/netkey-bot/internal/catalog"
	"github.com/netkeyhq/netkey-bot/internal/compose"
	"github.com/netkeyhq/netkey-bot/internal/errs"
	"github.com/netkeyhq/netkey-bot/internal/gate"
	"github.com/netkeyhq/netkey-bot/internal/model"
	"github.com/netkeyhq/netkey-bot/internal/selection"
	"github.com/netkeyhq/netkey-bot/internal/token"
	"github.com/netkeyhq/netkey-bot/internal/transport"
)

// ReceiptArchive persists evidence bytes for the operator's bookkeeping.
// Archival is best-effort: a failed save is logged and the review proceeds.
type ReceiptArchive interface {
	Save(buyerID int64, data []byte) (string, error)
}

// Settings are the deployment-specific knobs that used to be separate code
// variants: which catalog is on offer, who the operator is, and whether an
// approval click messages the buyer directly.
type Settings struct {
	OperatorID            int64
	CatalogSelector       string
	NotifyBuyerOnApproval bool
}

// Deps are the collaborators the dispatcher drives.
type Deps struct {
	Catalog     *catalog.Catalog
	Selections  *selection.Cache
	Gate        *gate.Gate
	Composer    *compose.Composer
	Messenger   transport.Messenger
	Attachments transport.AttachmentSource
	Receipts    ReceiptArchive
	RenderQR    func(link string) ([]byte, error)
	Log         *zap.Logger
}

// Dispatcher owns the workflow state machine. Both entry points isolate
// failures per event: a panic or error in one handler is logged and the
// next event processes normally.
type Dispatcher struct {
	cfg  Settings
	deps Deps
}

// New wires a dispatcher.
func New(cfg Settings, deps Deps) *Dispatcher {
	return &Dispatcher{cfg: cfg, deps: deps}
}

// HandleMessage processes one inbound text or attachment message.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg transport.Message) {
	defer d.recoverEvent("message", msg.ActorID)

	if verdict, missing := d.deps.Gate.Evaluate(ctx, msg.ActorID); verdict == gate.Denied {
		text, opts := d.deps.Composer.JoinPrompt(missing)
		d.sendText(ctx, msg.ChatID, text, opts)
		return
	}

	isOperator := msg.ActorID == d.cfg.OperatorID

	if msg.AttachmentRef != "" {
		d.handleReceipt(ctx, msg)
		return
	}

	if isOperator && d.handleOperatorText(ctx, msg.Text) {
		return
	}

	switch ResolveIntent(msg.Text) {
	case IntentStart:
		if isOperator {
			d.sendText(ctx, msg.ChatID, d.deps.Composer.OperatorGreeting(), nil)
			return
		}
		text, opts := d.deps.Composer.Welcome()
		d.sendText(ctx, msg.ChatID, text, opts)
	case IntentBuy:
		text, opts := d.deps.Composer.PlanOptions(d.listPlans())
		d.sendText(ctx, msg.ChatID, text, opts)
	case IntentSupport:
		d.sendText(ctx, msg.ChatID, d.deps.Composer.SupportInfo(), nil)
	case IntentDownloads:
		text, opts := d.deps.Composer.DownloadsInfo()
		d.sendText(ctx, msg.ChatID, text, opts)
	default:
		// Unrecognized chatter gets no reply.
	}
}

// HandleControl processes one inbound control click.
func (d *Dispatcher) HandleControl(ctx context.Context, act transport.ControlAction) {
	defer d.recoverEvent("control", act.ActorID)

	action, err := token.Decode(act.Token)
	if err != nil {
		// Malformed tokens are dropped with no outbound message.
		d.deps.Log.Warn("malformed control token",
			zap.String("token", act.Token),
			zap.Int64("actor", act.ActorID),
			zap.Error(err),
		)
		return
	}

	// Membership re-checks must run even for actors the gate currently
	// denies; everything else is gated first.
	switch action.(type) {
	case token.Joined, token.CheckSub:
		d.handleRecheck(ctx, act)
		d.answer(ctx, act)
		return
	}

	if verdict, missing := d.deps.Gate.Evaluate(ctx, act.ActorID); verdict == gate.Denied {
		text, opts := d.deps.Composer.JoinPrompt(missing)
		d.sendText(ctx, act.ChatID, text, opts)
		d.answer(ctx, act)
		return
	}

	switch v := action.(type) {
	case token.SelectPlan:
		d.handleSelectPlan(ctx, act, v.PlanID)
	case token.Approve:
		d.handleDecision(ctx, act, model.Decision{Kind: model.DecisionApprove, BuyerID: v.BuyerID})
	case token.Reject:
		d.handleDecision(ctx, act, model.Decision{Kind: model.DecisionReject, BuyerID: v.BuyerID})
	default:
		// Free-text verbs have no business arriving as controls.
		d.deps.Log.Warn("unexpected control verb",
			zap.String("token", act.Token),
			zap.Int64("actor", act.ActorID),
		)
	}
	d.answer(ctx, act)
}

// handleOperatorText parses the two operator free-text command forms.
// It returns false for anything else so ordinary intents still resolve.
func (d *Dispatcher) handleOperatorText(ctx context.Context, text string) bool {
	if !strings.HasPrefix(text, "config:") && !strings.HasPrefix(text, "علت:") {
		return false
	}
	action, err := token.Decode(text)
	if err != nil {
		d.deps.Log.Warn("malformed operator command", zap.Error(err))
		return true
	}
	switch v := action.(type) {
	case token.RejectReason:
		d.handleRejectReason(ctx, model.RejectionReason{BuyerID: v.BuyerID, Reason: v.Reason})
	case token.Deliver:
		d.handleDeliver(ctx, model.DeliveryInstruction{BuyerID: v.BuyerID, CredentialLink: v.Link})
	}
	return true
}

// handleReceipt pairs evidence with the cached selection and ships the
// review package to the operator. Without a selection the buyer is sent
// back to plan choice and the attachment is discarded, never queued.
func (d *Dispatcher) handleReceipt(ctx context.Context, msg transport.Message) {
	sub := model.ReceiptSubmission{
		BuyerID:       msg.ActorID,
		Username:      msg.Username,
		AttachmentRef: msg.AttachmentRef,
		SubmittedAt:   time.Now().UTC(),
	}

	plan, ok := d.deps.Selections.Get(sub.BuyerID)
	if !ok {
		text, opts := d.deps.Composer.PlanOptionsAgain(d.listPlans())
		d.sendText(ctx, msg.ChatID, text, opts)
		return
	}

	data, err := d.deps.Attachments.Fetch(ctx, sub.AttachmentRef)
	if err != nil {
		d.deps.Log.Error("fetch receipt attachment",
			zap.Int64("buyer", sub.BuyerID),
			zap.String("ref", sub.AttachmentRef),
			zap.Error(err),
		)
		return
	}
	if _, err := d.deps.Receipts.Save(sub.BuyerID, data); err != nil {
		d.deps.Log.Error("archive receipt", zap.Int64("buyer", sub.BuyerID), zap.Error(err))
	}

	pkg := model.ReviewPackage{
		BuyerID:    sub.BuyerID,
		Username:   sub.Username,
		Attachment: data,
		Plan:       plan, // value copy: later selection changes do not touch this review
	}
	caption, opts := d.deps.Composer.ReviewPackage(pkg)
	d.sendPhoto(ctx, d.cfg.OperatorID, pkg.Attachment, caption, opts)
	d.sendText(ctx, msg.ChatID, d.deps.Composer.ReceiptAck(), nil)
}

// handleSelectPlan caches the chosen plan last-write-wins. Unknown plan ids
// change nothing and stay silent toward the buyer.
func (d *Dispatcher) handleSelectPlan(ctx context.Context, act transport.ControlAction, planID string) {
	plan, err := d.deps.Catalog.Find(d.cfg.CatalogSelector, planID)
	if err != nil {
		d.deps.Log.Warn("plan selection ignored",
			zap.String("plan", planID),
			zap.Int64("actor", act.ActorID),
			zap.Error(err),
		)
		return
	}
	d.deps.Selections.Put(act.ActorID, plan)
	d.sendText(ctx, act.ChatID, d.deps.Composer.PaymentInstructions(plan), nil)
}

// handleDecision routes an operator verdict. Decisions are accepted as-is:
// there is no pending-review lookup, no replay guard, and no follow-up
// timeout; re-issuing a decision is cheap and human-paced.
func (d *Dispatcher) handleDecision(ctx context.Context, act transport.ControlAction, dec model.Decision) {
	switch dec.Kind {
	case model.DecisionApprove:
		text, opts := d.deps.Composer.ApproveFollowUpPrompt(dec.BuyerID)
		d.sendText(ctx, act.ActorID, text, opts)
		if d.cfg.NotifyBuyerOnApproval {
			notice, nopts := d.deps.Composer.ApprovalNotice(dec.BuyerID)
			d.sendText(ctx, dec.BuyerID, notice, nopts)
		}
	case model.DecisionReject:
		text, opts := d.deps.Composer.RejectFollowUpPrompt(dec.BuyerID)
		d.sendText(ctx, act.ActorID, text, opts)
	}
}

// handleRejectReason forwards the verbatim reason to the buyer and confirms
// to the operator.
func (d *Dispatcher) handleRejectReason(ctx context.Context, r model.RejectionReason) {
	text, opts := d.deps.Composer.RejectionNotice(r)
	d.sendText(ctx, r.BuyerID, text, opts)
	conf, copts := d.deps.Composer.RejectionRecorded(r)
	d.sendText(ctx, d.cfg.OperatorID, conf, copts)
}

// handleDeliver renders the credential QR and hands both to the buyer.
func (d *Dispatcher) handleDeliver(ctx context.Context, ins model.DeliveryInstruction) {
	png, err := d.deps.RenderQR(ins.CredentialLink)
	if err != nil {
		d.deps.Log.Error("render credential qr", zap.Int64("buyer", ins.BuyerID), zap.Error(err))
		return
	}
	caption, opts := d.deps.Composer.DeliveryCaption(ins.CredentialLink)
	d.sendPhoto(ctx, ins.BuyerID, png, caption, opts)
	done, dopts := d.deps.Composer.DeliveryDone()
	d.sendText(ctx, d.cfg.OperatorID, done, dopts)
}

// handleRecheck re-runs the gate after a join claim.
func (d *Dispatcher) handleRecheck(ctx context.Context, act transport.ControlAction) {
	verdict, missing := d.deps.Gate.Evaluate(ctx, act.ActorID)
	if verdict == gate.Allowed {
		text, opts := d.deps.Composer.MembershipConfirmed()
		d.sendText(ctx, act.ChatID, text, opts)
		return
	}
	text, opts := d.deps.Composer.JoinPrompt(missing)
	d.sendText(ctx, act.ChatID, text, opts)
}

// listPlans reads the active catalog, degrading to an empty list when the
// selector names no section.
func (d *Dispatcher) listPlans() []model.Plan {
	plans, err := d.deps.Catalog.List(d.cfg.CatalogSelector)
	if err != nil && !errors.Is(err, errs.ErrCatalogMissing) {
		d.deps.Log.Error("list plans", zap.Error(err))
	} else if err != nil {
		d.deps.Log.Warn("catalog selector missing", zap.String("selector", d.cfg.CatalogSelector))
	}
	return plans
}

// sendText sends and logs; a failed send abandons that step only.
func (d *Dispatcher) sendText(ctx context.Context, chatID int64, text string, opts *transport.SendOptions) {
	if err := d.deps.Messenger.SendText(ctx, chatID, text, opts); err != nil {
		d.deps.Log.Warn("send text failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (d *Dispatcher) sendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, opts *transport.SendOptions) {
	if err := d.deps.Messenger.SendPhoto(ctx, chatID, photo, caption, opts); err != nil {
		d.deps.Log.Warn("send photo failed", zap.Int64("chat", chatID), zap.Error(err))
	}
}

func (d *Dispatcher) answer(ctx context.Context, act transport.ControlAction) {
	if err := d.deps.Messenger.AnswerControl(ctx, act.ActionRef); err != nil {
		d.deps.Log.Warn("answer control failed", zap.Error(err))
	}
}

// recoverEvent keeps one bad event from taking down the loop.
func (d *Dispatcher) recoverEvent(kind string, actorID int64) {
	if r := recover(); r != nil {
		d.deps.Log.Error("panic while processing event",
			zap.String("kind", kind),
			zap.Int64("actor", actorID),
			zap.Any("reason", r),
			zap.ByteString("stack", debug.Stack()),
		)
	}
}
