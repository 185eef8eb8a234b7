package notification

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cashapp-gateway/internal/config"
	"cashapp-gateway/internal/logger"
	"cashapp-gateway/internal/order"

	"github.com/matcornic/hermes/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Hook adds content before the order table of an order email. It returns
// an empty string when it has nothing to add.
type Hook func(o *order.Order, sentToAdmin, plainText bool) string

// Mailer delivers messages. *gomail.Dialer implements it.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Settings struct {
	From       string
	AdminEmail string
	ShopName   string
	StoreURL   string
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		From:       cfg.MailFrom,
		AdminEmail: cfg.AdminEmail,
		ShopName:   cfg.ShopName,
		StoreURL:   cfg.StoreURL,
	}
}

// NewSMTPMailer returns nil when SMTP is not configured.
func NewSMTPMailer(cfg *config.Config) Mailer {
	if !cfg.MailEnabled() {
		return nil
	}
	return gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
}

// Dispatcher builds and sends order emails. A nil mailer discards messages.
type Dispatcher struct {
	mailer   Mailer
	settings Settings
	h        hermes.Hermes

	mu    sync.RWMutex
	hooks []Hook
}

func NewDispatcher(mailer Mailer, settings Settings) *Dispatcher {
	return &Dispatcher{
		mailer:   mailer,
		settings: settings,
		h: hermes.Hermes{
			Product: hermes.Product{
				Name:      settings.ShopName,
				Link:      settings.StoreURL,
				Copyright: fmt.Sprintf("Copyright © %s. All rights reserved.", settings.ShopName),
			},
		},
	}
}

// RegisterBeforeOrderTable adds a hook run for every order email, in
// registration order.
func (d *Dispatcher) RegisterBeforeOrderTable(h Hook) {
	if h == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, h)
}

// SendCustomerOrder emails the order confirmation to the customer.
func (d *Dispatcher) SendCustomerOrder(ctx context.Context, o *order.Order) error {
	return d.send(ctx, "SendCustomerOrder", o.CustomerEmail, d.customerSubject(o), d.orderEmail(o, false))
}

// SendAdminNewOrder emails the new order notice to the shop admin.
func (d *Dispatcher) SendAdminNewOrder(ctx context.Context, o *order.Order) error {
	return d.send(ctx, "SendAdminNewOrder", d.settings.AdminEmail, d.adminSubject(o), d.orderEmail(o, true))
}

func (d *Dispatcher) send(ctx context.Context, method, to, subject string, email hermes.Email) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notification"),
		zap.String("method", method),
		zap.String("subject", subject),
	)

	if to == "" {
		log.Warn("email has no recipient")
		return ErrNoRecipient
	}

	m, err := d.message(to, subject, email)
	if err != nil {
		log.Error("failed to compose email", zap.Error(err))
		return err
	}

	if d.mailer == nil {
		log.Info("mail is not configured, discarding email", zap.String("to", to))
		return nil
	}

	if err := d.mailer.DialAndSend(m); err != nil {
		log.Error("failed to send email", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedSend, err)
	}

	log.Info("email sent", zap.String("to", to))
	return nil
}

func (d *Dispatcher) message(to, subject string, email hermes.Email) (*gomail.Message, error) {
	htmlBody, err := d.h.GenerateHTML(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedCompose, err)
	}
	plainBody, err := d.h.GeneratePlainText(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedCompose, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.settings.From)
	m.SetHeader("Reply-To", d.settings.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)
	return m, nil
}

func (d *Dispatcher) customerSubject(o *order.Order) string {
	return fmt.Sprintf("Your %s order #%d has been received", d.settings.ShopName, o.ID)
}

func (d *Dispatcher) adminSubject(o *order.Order) string {
	return fmt.Sprintf("[%s] New order #%d", d.settings.ShopName, o.ID)
}

// orderEmail lays out an order email: greeting, hook output, item table and
// totals. Hooks are asked for plain text; hermes escapes it for the HTML part.
func (d *Dispatcher) orderEmail(o *order.Order, sentToAdmin bool) hermes.Email {
	body := hermes.Body{
		Signature: "Thanks",
		Outros:    []string{fmt.Sprintf("Thanks for shopping with %s.", d.settings.ShopName)},
	}
	if sentToAdmin {
		body.Title = fmt.Sprintf("New order #%d", o.ID)
		body.Intros = []string{fmt.Sprintf("You have received an order from %s.", o.CustomerName)}
		body.Outros = nil
	} else {
		body.Name = o.CustomerName
		body.Intros = []string{
			fmt.Sprintf("Thank you for your order. It is now %s.", strings.ToLower(o.Status.Label())),
		}
	}

	body.Intros = append(body.Intros, d.hookParagraphs(o, sentToAdmin)...)
	body.Table = itemTable(o)
	body.Dictionary = []hermes.Entry{
		{Key: "Order", Value: fmt.Sprintf("#%d", o.ID)},
		{Key: "Payment method", Value: o.PaymentMethod},
		{Key: "Total", Value: money(o.Total, o.Currency)},
	}

	return hermes.Email{Body: body}
}

func (d *Dispatcher) hookParagraphs(o *order.Order, sentToAdmin bool) []string {
	d.mu.RLock()
	hooks := append([]Hook(nil), d.hooks...)
	d.mu.RUnlock()

	var out []string
	for _, h := range hooks {
		text := strings.TrimSpace(h(o, sentToAdmin, true))
		if text == "" {
			continue
		}
		for _, p := range strings.Split(text, "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func itemTable(o *order.Order) hermes.Table {
	rows := make([][]hermes.Entry, 0, len(o.Items))
	for _, it := range o.Items {
		rows = append(rows, []hermes.Entry{
			{Key: "Item", Value: it.Name},
			{Key: "Quantity", Value: fmt.Sprintf("%d", it.Quantity)},
			{Key: "Price", Value: money(it.Subtotal(), o.Currency)},
		})
	}
	return hermes.Table{
		Data: rows,
		Columns: hermes.Columns{
			CustomWidth:     map[string]string{"Item": "60%"},
			CustomAlignment: map[string]string{"Quantity": "center", "Price": "right"},
		},
	}
}

func money(amount float64, currency string) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%.2f %s", amount, currency)
}
