package mailer

import (
	"fmt"
	"html"
	"strings"

	"gapguard-be/internal/entity"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendGapDigest(toEmail string, gaps []*entity.Gap) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// SendGapDigest mails the user their current non-valid gaps. Content
// coming from the database is escaped before it lands in HTML.
func (s *emailService) SendGapDigest(toEmail string, gaps []*entity.Gap) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "GapGuard: Compliance Gaps Detected")

	var items strings.Builder
	for _, gap := range gaps {
		daysLeft := ""
		if gap.DaysLeft != nil {
			daysLeft = fmt.Sprintf(" (%d days left)", *gap.DaysLeft)
		}
		items.WriteString(fmt.Sprintf(
			"<li><b>%s</b>: <span style='color:red'>%s</span>%s</li>",
			html.EscapeString(gap.RequiredDocType),
			html.EscapeString(gap.Status),
			daysLeft,
		))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your Daily GapGuard Digest</h2>
			<p>Here are your current compliance gaps:</p>
			<ul>%s</ul>
			<p>Please log in to GapGuard to resolve them.</p>
		</div>
	`, items.String())

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send digest to %s: %w", toEmail, err)
	}
	return nil
}
