package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/listing/domain"
	"gopkg.in/gomail.v2"
)

// Sender delivers prepared messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer notifies admin console operators about new listings.
type SMTPMailer struct {
	sender Sender
	from   string
	admins []string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return NewWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, cfg.AdminEmails)
}

func NewWithSender(s Sender, from string, admins []string) *SMTPMailer {
	return &SMTPMailer{sender: s, from: from, admins: admins}
}

// NotifyListingCreated mails every admin address. With no admins it does nothing.
func (m *SMTPMailer) NotifyListingCreated(_ context.Context, l *domain.Listing) error {
	if len(m.admins) == 0 {
		return nil
	}
	if err := m.sender.DialAndSend(m.listingCreatedMessage(l)); err != nil {
		return fmt.Errorf("send listing notification: %w", err)
	}
	return nil
}

func (m *SMTPMailer) listingCreatedMessage(l *domain.Listing) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.admins...)
	msg.SetHeader("Subject", fmt.Sprintf("New %s listing: %s", l.Category, l.Title))

	var b strings.Builder
	fmt.Fprintf(&b, "A new %s listing was posted.\n\n", l.Category)
	fmt.Fprintf(&b, "ID: %s\nTitle: %s\nContact: %s\n", l.ID, l.Title, l.Contact)
	if l.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", l.Location)
	}
	if l.Price != nil {
		fmt.Fprintf(&b, "Price: %.2f\n", *l.Price)
	}
	msg.SetBody("text/plain", b.String())
	return msg
}
