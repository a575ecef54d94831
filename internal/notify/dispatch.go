package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"loan-journey-workers/internal/common/logger"
)

// Notification types delivered outside the journey screens.
const (
	TypeOfferSelected         = "offer_selected"
	TypeLenderApproved        = "lender_approved"
	TypeLenderRejected        = "lender_rejected"
	TypeDisbursementSubmitted = "disbursement_submitted"
	TypeLoanDisbursed         = "loan_disbursed"
)

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

var (
	ErrTemplateNotFound = errors.New("NOTIFICATION_TEMPLATE_NOT_FOUND")
	ErrSendFailed       = errors.New("NOTIFICATION_SEND_FAILED")
)

// Template is a subject/body pair with {{placeholder}} fields.
type Template struct {
	Subject string
	Body    string
}

var defaultTemplates = map[string]Template{
	TypeOfferSelected: {
		Subject: "Your loan offer from {{lender}}",
		Body:    "You selected the {{lender}} offer for application {{applicationId}}. You'll be contacted by our team shortly.",
	},
	TypeLenderApproved: {
		Subject: "Your loan has been approved",
		Body:    "Good news! Application {{applicationId}} has been approved. Please review and sign your loan agreement.",
	},
	TypeLenderRejected: {
		Subject: "Update on your loan application",
		Body:    "We're sorry, application {{applicationId}} could not be approved at this time.",
	},
	TypeDisbursementSubmitted: {
		Subject: "Disbursement request submitted",
		Body:    "Your loan will be disbursed within 2-3 business days. Reference: {{applicationId}}.",
	},
	TypeLoanDisbursed: {
		Subject: "Loan {{loanId}} disbursed",
		Body:    "{{amount}} has been credited to account {{accountNumber}}. Your first EMI of {{emi}} is due on {{firstEmiDate}}.",
	},
}

// EmailSender and SMSSender are satisfied by the senders in common/aws.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

type SMSSender interface {
	Send(ctx context.Context, phone, message string) (string, error)
}

// Message addresses one notification to a recipient.
type Message struct {
	Type  string
	Email string
	Phone string
	Data  map[string]interface{}
}

// Receipt reports what was delivered.
type Receipt struct {
	Status    string
	EmailSent bool
	SMSSent   bool
	MessageID string
}

// Dispatcher renders templates and hands them to the configured channels.
// A nil sender disables its channel.
type Dispatcher struct {
	email     EmailSender
	sms       SMSSender
	templates map[string]Template
	logger    logger.Logger
}

func NewDispatcher(email EmailSender, sms SMSSender, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		email:     email,
		sms:       sms,
		templates: defaultTemplates,
		logger:    log,
	}
}

func (d *Dispatcher) Send(ctx context.Context, msg Message) (*Receipt, error) {
	tmpl, ok := d.templates[msg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, msg.Type)
	}

	subject := Render(tmpl.Subject, msg.Data)
	body := Render(tmpl.Body, msg.Data)
	receipt := &Receipt{Status: StatusDisabled}

	if d.email != nil && msg.Email != "" {
		id, err := d.email.Send(ctx, msg.Email, subject, body)
		if err != nil {
			d.logger.Error("email send failed", map[string]interface{}{
				"error": err.Error(),
				"type":  msg.Type,
			})
			receipt.Status = StatusFailed
			return receipt, fmt.Errorf("%w: %v", ErrSendFailed, err)
		}
		receipt.EmailSent = true
		receipt.MessageID = id
	}

	if d.sms != nil && msg.Phone != "" {
		id, err := d.sms.Send(ctx, msg.Phone, body)
		if err != nil {
			d.logger.Error("SMS send failed", map[string]interface{}{
				"error": err.Error(),
				"type":  msg.Type,
			})
			receipt.Status = StatusFailed
			return receipt, fmt.Errorf("%w: %v", ErrSendFailed, err)
		}
		receipt.SMSSent = true
		if receipt.MessageID == "" {
			receipt.MessageID = id
		}
	}

	if receipt.EmailSent || receipt.SMSSent {
		receipt.Status = StatusSent
	}
	return receipt, nil
}

// Render substitutes {{key}} placeholders from data in one pass and drops
// those without a value. Substituted text is never expanded again.
func Render(tmpl string, data map[string]interface{}) string {
	var b strings.Builder
	rest := tmpl
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end == -1 {
			break
		}
		b.WriteString(rest[:start])
		if v, ok := data[rest[start+2:start+2+end]]; ok && v != nil {
			fmt.Fprintf(&b, "%v", v)
		}
		rest = rest[start+2+end+2:]
	}
	b.WriteString(rest)
	return b.String()
}
