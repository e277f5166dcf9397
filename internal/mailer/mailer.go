package mailer

import (
	"fmt"
	"net"
	"sort"

	"github.com/yourusername/adminserver/internal/config"
	"gopkg.in/gomail.v2"
)

// Sender delivers a plain-text email. A delivery failure must surface to the
// caller; the flows built on top treat it as a hard failure.
type Sender interface {
	Send(to, subject, body string) error
}

// MXRecord represents a mail exchange record with its priority
type MXRecord struct {
	Host     string
	Priority uint16
}

// SMTPSender sends mail through a configured relay, or straight to the
// recipient domain's MX hosts when no relay host is configured.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// NewSMTPSender creates a sender from SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if s.cfg.Host != "" {
		d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.User, s.cfg.Password)
		return d.DialAndSend(m)
	}

	return s.sendDirect(m, domainOf(to))
}

// sendDirect delivers to the recipient domain's MX servers in priority order.
func (s *SMTPSender) sendDirect(m *gomail.Message, domain string) error {
	mxRecords, err := lookupMXRecords(domain)
	if err != nil {
		return err
	}

	var lastError error
	for _, mx := range mxRecords {
		d := gomail.NewDialer(mx.Host, 25, "", "")
		d.SSL = false
		d.Auth = nil

		if err := d.DialAndSend(m); err == nil {
			return nil
		} else {
			lastError = err
		}
	}

	if lastError != nil {
		return lastError
	}
	return fmt.Errorf("no MX records for %s", domain)
}

// lookupMXRecords finds and sorts MX records for a domain
func lookupMXRecords(domain string) ([]MXRecord, error) {
	mxs, err := net.LookupMX(domain)
	if err != nil {
		return nil, err
	}

	records := make([]MXRecord, len(mxs))
	for i, mx := range mxs {
		records[i] = MXRecord{
			Host:     mx.Host,
			Priority: mx.Pref,
		}
	}

	// lower value = higher priority
	sort.Slice(records, func(i, j int) bool {
		return records[i].Priority < records[j].Priority
	})

	return records, nil
}

func domainOf(email string) string {
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			return email[i+1:]
		}
	}
	return email
}

// SendOTP delivers a one-time code to an email address.
func SendOTP(s Sender, to, code string) error {
	return s.Send(to, "Your OTP Code", fmt.Sprintf("Your OTP code is %s", code))
}

// SendInvitation delivers a signed invitation link to a registered address.
func SendInvitation(s Sender, to, link string) error {
	body := fmt.Sprintf("You have been invited. Follow the link to continue:\n\n%s\n\nThis link expires in 1 hour.", link)
	return s.Send(to, "Your Invitation", body)
}
