package notification

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"
	"time"
)

// Kind identifies a notification template
type Kind string

const (
	KindVerification        Kind = "verification"
	KindPaymentConfirmation Kind = "payment_confirmation"
)

// Message is a rendered email
type Message struct {
	Kind    Kind
	To      string
	Subject string
	HTML    string
}

var verificationTemplate = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="text-align: center;">Email Verification</h2>
  <p>Thank you for registering with Society Management System.</p>
  <p>Your verification code is:</p>
  <p style="text-align: center; font-size: 32px; font-weight: bold; letter-spacing: 5px;">{{.Code}}</p>
  <p style="text-align: center;">Enter this code on the verification page to complete your registration.</p>
  <p style="font-size: 12px; text-align: center;">Best regards,<br>Society Management Team</p>
</div>`))

var paymentTemplate = template.Must(template.New("payment").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="text-align: center;">Payment Confirmed</h2>
  <p>Your maintenance payment has been received successfully.</p>
  <table style="width: 100%;">
    <tr><td><strong>Amount:</strong></td><td style="text-align: right;">&#8377;{{.Amount}}</td></tr>
    <tr><td><strong>Period:</strong></td><td style="text-align: right;">{{.Month}} {{.Year}}</td></tr>
    <tr><td><strong>Date:</strong></td><td style="text-align: right;">{{.Date}}</td></tr>
  </table>
  <p style="text-align: center; font-weight: bold;">Thank you for your timely payment!</p>
  <p style="font-size: 12px; text-align: center;">Best regards,<br>Society Management Team</p>
</div>`))

// VerificationMessage renders the email carrying a registration verification code
func VerificationMessage(to, code string) (Message, error) {
	body, err := render(verificationTemplate, struct{ Code string }{code})
	if err != nil {
		return Message{}, err
	}
	return Message{
		Kind:    KindVerification,
		To:      to,
		Subject: "Email Verification - Society Management System",
		HTML:    body,
	}, nil
}

// PaymentConfirmationMessage renders the receipt sent after a bill is paid
func PaymentConfirmationMessage(to string, amount float64, month string, year int, paidAt time.Time) (Message, error) {
	data := struct {
		Amount string
		Month  string
		Year   int
		Date   string
	}{
		Amount: formatAmount(amount),
		Month:  capitalize(month),
		Year:   year,
		Date:   paidAt.Format("02 Jan 2006"),
	}

	body, err := render(paymentTemplate, data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Kind:    KindPaymentConfirmation,
		To:      to,
		Subject: "Payment Confirmation - Society Management System",
		HTML:    body,
	}, nil
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
