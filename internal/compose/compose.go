// Package compose builds every outbound message of the workflow: buyer
// prompts, the operator review package, and the decision follow-ups. It is
// a stateless formatting layer; the same inputs always produce the same
// message and controls.
package compose

import (
	"fmt"
	"strings"

	"github.com/netkeyhq/netkey-bot/internal/config"
	"github.com/netkeyhq/netkey-bot/internal/model"
	"github.com/netkeyhq/netkey-bot/internal/token"
	"github.com/netkeyhq/netkey-bot/internal/transport"
)

// Main menu button labels. The dispatcher matches inbound text against
// these to resolve buyer intents.
const (
	MenuBuy       = "💵 خرید کانفیگ"
	MenuSupport   = "👨‍💻 پشتیبانی"
	MenuDownloads = "📩 دانلود نرم افزارها"
)

// Composer renders workflow messages. Payment destinations come from
// configuration; everything else is fixed deployment copy.
type Composer struct {
	payment config.Payment
}

// New returns a composer for the given payment destinations.
func New(payment config.Payment) *Composer {
	return &Composer{payment: payment}
}

// MainMenu is the persistent buyer keyboard.
func (c *Composer) MainMenu() *transport.ReplyMenu {
	return &transport.ReplyMenu{
		Rows: [][]string{
			{MenuBuy},
			{MenuSupport, MenuDownloads},
		},
		Placeholder: "لطفا یکی از گزینه های زیر را انتخاب کنید 👇",
	}
}

// Welcome greets a new buyer and shows the main menu.
func (c *Composer) Welcome() (string, *transport.SendOptions) {
	text := "🌟 به بات نت‌کی خوش اومدی! از منوی زیر یکی از گزینه‌ها رو انتخاب کن:"
	return text, &transport.SendOptions{Menu: c.MainMenu()}
}

// OperatorGreeting greets the operator on /start.
func (c *Composer) OperatorGreeting() string {
	return "🌸✨\nهمکار عزیز، پشتیبان محترم نت‌کی\nبه بات پشتیبانی خوش اومدی ☺️❤️\nامیدوارم تجربه‌ای راحت و سریع داشته باشی 🙌"
}

// PlanOptions lists the purchasable plans with one selection control each.
func (c *Composer) PlanOptions(plans []model.Plan) (string, *transport.SendOptions) {
	text := "همراه گرامی نت کی 🌹\nتعرفه‌های نت‌کی خدمتتون ارسال شد.\nلطفاً یکی از طرح‌ها رو انتخاب بفرمایید تا همکاران ما در نت کی در سریع‌ترین زمان فعال‌سازی طرح شما رو انجام بدن."
	return text, &transport.SendOptions{Controls: planControls(plans)}
}

// PlanOptionsAgain re-prompts a buyer whose receipt arrived without a selection.
func (c *Composer) PlanOptionsAgain(plans []model.Plan) (string, *transport.SendOptions) {
	text := "همراه گرامی نت کی 🌹\nسپاس از پرداخت تون 🙏\nلطفا انتخاب کنید که رسید ارسالی بابت کدام یکی از طرح های ماست سپس مجددا رسید رو ارسال کنید."
	return text, &transport.SendOptions{Controls: planControls(plans)}
}

func planControls(plans []model.Plan) [][]transport.Control {
	rows := make([][]transport.Control, 0, len(plans))
	for _, p := range plans {
		rows = append(rows, []transport.Control{{
			Label: fmt.Sprintf("%s - %s هزار تومان", p.Name, p.Price.String()),
			Token: token.Encode(token.SelectPlan{PlanID: p.ID}),
		}})
	}
	return rows
}

// PaymentInstructions confirms the chosen plan and tells the buyer where to pay.
func (c *Composer) PaymentInstructions(plan model.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ طرح انتخابی شما: %s.\n\n", plan.Description)
	fmt.Fprintf(&b, "💳 لطفاً مبلغ %s هزار تومان را جهت تکمیل فرایند به کارت زیر واریز فرمایید و رسید را ارسال کنید:\n\n%s\n", plan.Price.String(), c.payment.CardNumber)
	if c.payment.WalletAddress != "" {
		fmt.Fprintf(&b, "\n🪙 پرداخت با ولت نیز ممکن است:\n%s\n", c.payment.WalletAddress)
	}
	b.WriteString("\n⚠️ نکته مهم:\nانتخاب طرح به معنی نهایی شدن آن نیست. شما می‌توانید هر تعداد بار طرح خود را تغییر دهید.\nتا زمانی که رسید پرداخت ارسال نشود، آخرین طرح انتخابی شما به عنوان طرح فعال در نظر گرفته می‌شود.")
	return b.String()
}

// JoinPrompt asks the actor to join the unsatisfied channels, with one link
// per channel and a re-check control.
func (c *Composer) JoinPrompt(channels []model.Channel) (string, *transport.SendOptions) {
	rows := make([][]transport.Control, 0, len(channels)+1)
	for _, ch := range channels {
		rows = append(rows, []transport.Control{{
			Label: ch.Title,
			URL:   "https://t.me/" + strings.TrimPrefix(ch.Handle, "@"),
		}})
	}
	rows = append(rows, []transport.Control{{
		Label: "✅ عضو شدم",
		Token: token.Encode(token.Joined{}),
	}})
	text := "برای استفاده از ربات، لطفاً ابتدا در کانال‌های زیر عضو شوید و سپس روی دکمه «عضو شدم» بزنید 📢"
	return text, &transport.SendOptions{Controls: rows}
}

// MembershipConfirmed acknowledges a successful re-check and restores the menu.
func (c *Composer) MembershipConfirmed() (string, *transport.SendOptions) {
	return "✅ عضویت شما تأیید شد!", &transport.SendOptions{Menu: c.MainMenu()}
}

// ReceiptAck thanks the buyer for a received receipt.
func (c *Composer) ReceiptAck() string {
	return "🙏 با تشکر از اعتماد شما\n📩 رسید با موفقیت دریافت شد.\nلطفاً تا تأیید نهایی توسط همکاران عزیز ما در نت‌کی شکیبا باشید 🌸"
}

// ReviewPackage renders the operator review caption and decision controls.
func (c *Composer) ReviewPackage(pkg model.ReviewPackage) (string, *transport.SendOptions) {
	username := pkg.Username
	if username == "" {
		username = "ندارد"
	}
	var b strings.Builder
	b.WriteString("🧾 درخواست بررسی رسید\n\n")
	b.WriteString("👤 مشخصات کاربر\n")
	fmt.Fprintf(&b, "• شناسه تلگرام (کد رهگیری): %d\n", pkg.BuyerID)
	fmt.Fprintf(&b, "• نام کاربری: %s\n\n", username)
	b.WriteString("📦 طرح انتخابی\n")
	fmt.Fprintf(&b, "• %s\n", pkg.Plan.Description)
	fmt.Fprintf(&b, "• مبلغ: %s هزار تومان\n\n", pkg.Plan.Price.String())
	b.WriteString("📌 نکات مهم\n")
	b.WriteString("1) مبلغ درج‌شده در رسید باید دقیقاً با مبلغ طرح یکسان باشد.\n")
	fmt.Fprintf(&b, "2) لینک اتصال را بر اساس شناسه تلگرام کاربر تولید کنید: [<code>%d</code>]", pkg.BuyerID)

	controls := [][]transport.Control{{
		{Label: "تایید", Token: token.Encode(token.Approve{BuyerID: pkg.BuyerID})},
		{Label: "رد", Token: token.Encode(token.Reject{BuyerID: pkg.BuyerID})},
	}}
	return b.String(), &transport.SendOptions{HTML: true, Controls: controls}
}

// ApproveFollowUpPrompt asks the operator for the delivery follow-up message.
func (c *Composer) ApproveFollowUpPrompt(buyerID int64) (string, *transport.SendOptions) {
	text := fmt.Sprintf("✅ <b>همکار گرامی</b>\nرسید توسط شما تأیید شد.\n\n📌 لطفاً لینک کاربر را با فرمت زیر ارسال کنید:\nconfig:[telegramId]:[configLink]\n\n🆔 <code>%d</code>", buyerID)
	return text, &transport.SendOptions{HTML: true}
}

// ApprovalNotice tells the buyer the receipt was approved. Sent only in
// deployments configured to notify on approval.
func (c *Composer) ApprovalNotice(buyerID int64) (string, *transport.SendOptions) {
	text := fmt.Sprintf("✅ <b>کاربر گرامی</b>، رسید شما توسط همکاران ما در <b>نت‌کی</b> تأیید شد.\n\n⏳ تا لحظاتی دیگر <b>کانفیگ</b> شما ارسال خواهد شد.\n\n🆘 در صورت بروز هرگونه مشکل یا درخواست، با ارسال <b>کُد رهگیری</b> با همکاران ما در <b>نت‌کی</b> در ارتباط باشید.\n\n💻 پشتیبانی نت‌کی: <code>@NetKeySupport</code>\n🆔 کُد رهگیری: <code>%d</code>", buyerID)
	return text, &transport.SendOptions{HTML: true}
}

// RejectFollowUpPrompt asks the operator for the rejection-reason follow-up.
func (c *Composer) RejectFollowUpPrompt(buyerID int64) (string, *transport.SendOptions) {
	text := fmt.Sprintf("⚠️ <b>همکار گرامی</b>\nرسیدی که <b>رد</b> کردید با موفقیت ثبت شد.\n\n📝 لطفاً <b>علت رد</b> را با فرمت زیر ارسال کنید:\n<code>علت:[userId]:[دلیل رد رسید]</code>\n\n📌 لطفاً در دسترس باشید؛ ممکن است کاربر با <b>کُد رهگیری</b> برای پیگیری به شما مراجعه کند.\n\n🆔 <code>%d</code>", buyerID)
	return text, &transport.SendOptions{HTML: true}
}

// RejectionNotice delivers the verbatim rejection reason to the buyer.
func (c *Composer) RejectionNotice(r model.RejectionReason) (string, *transport.SendOptions) {
	text := fmt.Sprintf("⚠️ <b>کاربر گرامی</b>، رسید شما توسط همکاران ما در <b>نت‌کی</b> <b>رد شد</b>.\n\n📝 <b>علت رد:</b>\n%s\n\n🔁 لطفاً پس از اصلاح، رسید صحیح را ارسال کنید یا در صورت تمایل طرح دیگری را انتخاب نمایید.\n\n💻 پشتیبانی نت‌کی: \n@NetKeySupport\n\n🆔 کد رهگیری: \n<code>%d</code>", r.Reason, r.BuyerID)
	return text, &transport.SendOptions{HTML: true}
}

// RejectionRecorded confirms to the operator that the reason went out.
func (c *Composer) RejectionRecorded(r model.RejectionReason) (string, *transport.SendOptions) {
	text := fmt.Sprintf("⚠️ <b>همکار گرامی</b>\nردِ رسید ثبت شد و به کاربر اطلاع داده شد.\n\n📝 <b>علت رد:</b> %s\n\n📌 لطفاً در دسترس باشید؛ احتمال دارد کاربر با <b>کد رهگیری</b> مراجعه کند.\nممنون از پیگیری‌تون 🙏\n\n🆔 <code>%d</code>", r.Reason, r.BuyerID)
	return text, &transport.SendOptions{HTML: true}
}

// DeliveryCaption captions the QR photo carrying the credential link.
func (c *Composer) DeliveryCaption(link string) (string, *transport.SendOptions) {
	text := fmt.Sprintf("🙏 <b>با تشکر از اعتماد شما</b>\n\n📸 برای اتصال، <b>QR</b> را اسکن کنید یا از لینک زیر استفاده کنید:\n<code>%s</code>\n\n🤝 در صورت داشتن <b>مشکل</b> یا <b>درخواست</b>، با همکاران ما در بخش <b>پشتیبانی</b> در ارتباط باشید:\n<a href=\"https://t.me/NetKeySupport\">@NetKeySupport</a>", link)
	return text, &transport.SendOptions{HTML: true}
}

// DeliveryDone confirms to the operator that the credential reached the buyer.
func (c *Composer) DeliveryDone() (string, *transport.SendOptions) {
	text := "✅ <b>تسک انجام شد</b>!\n\nلینک کاربر ارسال و تحویل شد. دمت گرم ✌️❤️\nاگه موردی بود خبر بده."
	return text, &transport.SendOptions{HTML: true}
}

// SupportInfo is the support contact card.
func (c *Composer) SupportInfo() string {
	return "👨‍💻 پشتیبانی نت‌کی\nبرای ارتباط سریع: @NetKeySupport\nایمیل: netkey.v2ray@gmail.com\n\n📝 لطفاً هنگام پیام این موارد را بفرستید:\n• شماره پیگیری\n• طرح انتخابی\n• توضیح کوتاه مشکل/درخواست\nتا سریع‌تر رسیدگی کنیم 🙏"
}

// DownloadsInfo lists the official client downloads per platform.
func (c *Composer) DownloadsInfo() (string, *transport.SendOptions) {
	text := "📥 <b>دانلود نرم‌افزارهای اتصال</b>\nلطفاً با توجه به دستگاه‌تون یکی از گزینه‌های زیر رو انتخاب کنید. لینک‌ها <b>رسمی</b> هستند.\n\n🤖 اندروید   🖥️ ویندوز/لینوکس   🍎 آیفون/مک\n"
	rows := [][]transport.Control{
		{{Label: "🤖 اندروید | NPV Tunnel", URL: "https://play.google.com/store/apps/details?id=com.napsternetlabs.napsternetv"}},
		{{Label: "🤖 اندروید | HiddifyNG", URL: "https://play.google.com/store/apps/details?id=ang.hiddify.com"}},
		{{Label: "🤖 اندروید | v2rayNG", URL: "https://play.google.com/store/apps/details?id=dev.hexasoftware.v2box"}},
		{{Label: "🖥️ ویندوز/لینوکس | Hiddify (Releases)", URL: "https://github.com/hiddify/hiddify-app/releases"}},
		{{Label: "🖥️ ویندوز/لینوکس | Nekoray (Releases)", URL: "https://github.com/Matsuridayo/nekoray/releases"}},
		{{Label: "🖥️ ویندوز/لینوکس | v2rayN (Releases)", URL: "https://github.com/2dust/v2rayN/releases"}},
		{{Label: "🐧 لینوکس | v2rayA (Releases)", URL: "https://github.com/v2rayA/v2rayA/releases"}},
		{{Label: "🍎 مک/آیفون | NPV Tunnel", URL: "https://apps.apple.com/app/npv-tunnel/id1629465476"}},
		{{Label: "🍎 مک/آیفون | Hiddify", URL: "https://apps.apple.com/app/hiddify-proxy-vpn/id6596777532"}},
		{{Label: "🍎 مک/آیفون | V2Box", URL: "https://apps.apple.com/app/v2box-v2ray-client/id6446814690"}},
	}
	return text, &transport.SendOptions{HTML: true, Controls: rows}
}
