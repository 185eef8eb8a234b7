package notification

import (
	"context"
	"errors"
	"testing"

	"cashapp-gateway/internal/config"
	"cashapp-gateway/internal/order"

	"github.com/matcornic/hermes/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeMailer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func testSettings() Settings {
	return Settings{
		From:       "shop@example.com",
		AdminEmail: "admin@example.com",
		ShopName:   "Corner Shop",
		StoreURL:   "https://shop.example.com",
	}
}

func testOrder() *order.Order {
	return &order.Order{
		ID:            42,
		CustomerName:  "Sam",
		CustomerEmail: "sam@example.com",
		Currency:      "USD",
		Total:         25,
		PaymentMethod: "cashapp",
		Status:        order.StatusOnHold,
		Items: []order.OrderItem{
			{Name: "Mug", Quantity: 2, Price: 12.5},
		},
	}
}

type hookCall struct {
	sentToAdmin bool
	plainText   bool
}

func TestSendCustomerOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("IncludesHookOutput", func(t *testing.T) {
		mailer := &fakeMailer{}
		d := NewDispatcher(mailer, testSettings())

		var calls []hookCall
		d.RegisterBeforeOrderTable(func(o *order.Order, sentToAdmin, plainText bool) string {
			calls = append(calls, hookCall{sentToAdmin, plainText})
			return "Pay via $cashtag\n\nUse order 42 as the note\n"
		})

		require.NoError(t, d.SendCustomerOrder(ctx, testOrder()))
		require.Len(t, mailer.sent, 1)

		m := mailer.sent[0]
		assert.Equal(t, []string{"sam@example.com"}, m.GetHeader("To"))
		assert.Equal(t, []string{"shop@example.com"}, m.GetHeader("From"))
		assert.Equal(t, []string{"Your Corner Shop order #42 has been received"}, m.GetHeader("Subject"))
		// One call while composing the email.
		assert.Equal(t, []hookCall{{sentToAdmin: false, plainText: true}}, calls)
	})

	t.Run("NoRecipient", func(t *testing.T) {
		mailer := &fakeMailer{}
		d := NewDispatcher(mailer, testSettings())
		o := testOrder()
		o.CustomerEmail = ""

		assert.ErrorIs(t, d.SendCustomerOrder(ctx, o), ErrNoRecipient)
		assert.Empty(t, mailer.sent)
	})

	t.Run("SendFailure", func(t *testing.T) {
		d := NewDispatcher(&fakeMailer{err: errors.New("smtp: 421")}, testSettings())
		assert.ErrorIs(t, d.SendCustomerOrder(ctx, testOrder()), ErrFailedSend)
	})

	t.Run("NilMailerDiscards", func(t *testing.T) {
		d := NewDispatcher(nil, testSettings())
		assert.NoError(t, d.SendCustomerOrder(ctx, testOrder()))
	})
}

func TestSendAdminNewOrder(t *testing.T) {
	ctx := context.Background()
	mailer := &fakeMailer{}
	d := NewDispatcher(mailer, testSettings())

	var calls []hookCall
	d.RegisterBeforeOrderTable(func(o *order.Order, sentToAdmin, plainText bool) string {
		calls = append(calls, hookCall{sentToAdmin, plainText})
		if sentToAdmin {
			return ""
		}
		return "Pay via $cashtag"
	})

	require.NoError(t, d.SendAdminNewOrder(ctx, testOrder()))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"admin@example.com"}, mailer.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"[Corner Shop] New order #42"}, mailer.sent[0].GetHeader("Subject"))
	assert.Equal(t, []hookCall{{sentToAdmin: true, plainText: true}}, calls)
}

func TestOrderEmail(t *testing.T) {
	d := NewDispatcher(nil, testSettings())
	d.RegisterBeforeOrderTable(func(o *order.Order, sentToAdmin, _ bool) string {
		if sentToAdmin {
			return ""
		}
		return "Pay via $cashtag\n\nUse order 42 as the note\n"
	})
	d.RegisterBeforeOrderTable(nil)

	t.Run("Customer", func(t *testing.T) {
		email := d.orderEmail(testOrder(), false)

		assert.Equal(t, "Sam", email.Body.Name)
		assert.Equal(t, []string{
			"Thank you for your order. It is now on hold.",
			"Pay via $cashtag",
			"Use order 42 as the note",
		}, email.Body.Intros)

		require.Len(t, email.Body.Table.Data, 1)
		assert.Equal(t, "Mug", email.Body.Table.Data[0][0].Value)
		assert.Equal(t, "2", email.Body.Table.Data[0][1].Value)
		assert.Equal(t, "25.00 USD", email.Body.Table.Data[0][2].Value)
		assert.Contains(t, email.Body.Dictionary, hermes.Entry{Key: "Total", Value: "25.00 USD"})
	})

	t.Run("Admin", func(t *testing.T) {
		email := d.orderEmail(testOrder(), true)

		assert.Equal(t, "New order #42", email.Body.Title)
		assert.Equal(t, []string{"You have received an order from Sam."}, email.Body.Intros)
	})

	t.Run("Renders", func(t *testing.T) {
		html, err := d.h.GenerateHTML(d.orderEmail(testOrder(), false))
		require.NoError(t, err)
		assert.Contains(t, html, "Pay via $cashtag")
		assert.Contains(t, html, "Mug")

		text, err := d.h.GeneratePlainText(d.orderEmail(testOrder(), false))
		require.NoError(t, err)
		assert.Contains(t, text, "Pay via $cashtag")
	})
}

func TestNewSMTPMailer(t *testing.T) {
	assert.Nil(t, NewSMTPMailer(&config.Config{}))

	m := NewSMTPMailer(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 587, MailFrom: "shop@example.com"})
	dialer, ok := m.(*gomail.Dialer)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com", dialer.Host)
	assert.Equal(t, 587, dialer.Port)
}

func TestSettingsFromConfig(t *testing.T) {
	s := SettingsFromConfig(&config.Config{MailFrom: "a@b.c", AdminEmail: "admin@b.c", ShopName: "B", StoreURL: "https://b.c"})
	assert.Equal(t, Settings{From: "a@b.c", AdminEmail: "admin@b.c", ShopName: "B", StoreURL: "https://b.c"}, s)
}
