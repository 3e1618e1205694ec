// ==============================================================================
// REPORT DELIVERY - internal/pipeline/email.go
// ==============================================================================
package pipeline

import (
	"context"
	"fmt"

	"verid/internal/domain"
	"verid/internal/gateway"
	"verid/internal/session"
	"verid/pkg/mailer"
)

// GatewayEmailSender delivers the report through the send-profile-email
// service, identifying the sending user by header.
type GatewayEmailSender struct {
	client *gateway.Client
}

func NewGatewayEmailSender(client *gateway.Client) *GatewayEmailSender {
	return &GatewayEmailSender{client: client}
}

func (s *GatewayEmailSender) SendReport(ctx context.Context, sess session.Context, profile *domain.CanonicalProfile, draft *domain.Draft, pdf []byte) error {
	var attachment *gateway.EmailAttachment
	if len(pdf) > 0 {
		attachment = &gateway.EmailAttachment{
			Content:     base64Attachment(pdf),
			Filename:    reportFilename(draft),
			ContentType: "application/pdf",
		}
	}
	return s.client.SendProfileEmail(ctx, sess.Email, draft.FullName, profile, attachment)
}

// SMTPEmailSender delivers the report directly over SMTP.
type SMTPEmailSender struct {
	mailer *mailer.Mailer
}

func NewSMTPEmailSender(m *mailer.Mailer) *SMTPEmailSender {
	return &SMTPEmailSender{mailer: m}
}

func (s *SMTPEmailSender) SendReport(ctx context.Context, sess session.Context, profile *domain.CanonicalProfile, draft *domain.Draft, pdf []byte) error {
	subject := fmt.Sprintf("Verification report for %s", draft.FullName)
	body := fmt.Sprintf("<p>Hello %s,</p><p>The verification report for <b>%s</b> is attached.</p>",
		sess.Username, draft.FullName)

	var attachments []mailer.Attachment
	if len(pdf) > 0 {
		attachments = append(attachments, mailer.Attachment{
			Filename:    reportFilename(draft),
			ContentType: "application/pdf",
			Content:     pdf,
		})
	}
	return s.mailer.SendWithAttachments(sess.Email, subject, body, attachments)
}

func reportFilename(draft *domain.Draft) string {
	return fmt.Sprintf("verification-report-%s.pdf", sanitizeFilename(draft.FullName))
}

func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "profile"
	}
	return string(out)
}
