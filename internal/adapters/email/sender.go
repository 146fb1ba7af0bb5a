package email

import (
	"bytes"
	"context"
	"html/template"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address; providers fall back to their configured default
	Subject string
	HTML    string
	Text    string // plain-text alternative
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<p>Hi {{.Name}},</p>
<p>Welcome to AURA GYM! Your {{.Role}} account is ready.</p>
<p><a href="{{.LoginURL}}">Sign in</a> to open your dashboard.</p>`))

// Welcome builds the message sent after a successful signup.
// PRE: to is a normalized address
// POST: Returns a request with HTML and text bodies; name falls back to the address
func Welcome(to, name, role, baseURL string) (SendRequest, error) {
	if name == "" {
		name = to
	}
	data := struct {
		Name, Role, LoginURL string
	}{name, role, baseURL + "/login"}

	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, data); err != nil {
		return SendRequest{}, err
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Welcome to AURA GYM",
		HTML:    buf.String(),
		Text:    "Hi " + name + ", welcome to AURA GYM! Your " + role + " account is ready. Sign in at " + data.LoginURL,
	}, nil
}
