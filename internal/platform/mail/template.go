package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// ConfirmationPath is the frontend route that consumes confirmation tokens.
const ConfirmationPath = "/auth/register_confirm"

const confirmationSubject = "Confirm your email address"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; line-height: 1.5;">
    <h2>Welcome to FitLog</h2>
    <p>Please confirm that this address belongs to you by following the link below.</p>
    <p><a href="{{.ConfirmationURL}}">Confirm my email</a></p>
    <p>If the button does not work, copy this address into your browser:<br>{{.ConfirmationURL}}</p>
    <p>The link expires in {{.ExpiresIn}}. If you did not request it, you can ignore this message.</p>
    <p><a href="{{.FrontendURL}}">FitLog</a></p>
  </body>
</html>
`))

// ConfirmationURL builds the link a user follows to confirm an email.
func ConfirmationURL(frontendURL, token string) (string, error) {
	base, err := url.Parse(strings.TrimRight(frontendURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid frontend url: %w", err)
	}
	base.Path += ConfirmationPath
	base.RawQuery = url.Values{"token": {token}}.Encode()
	return base.String(), nil
}

// ConfirmationMessage renders the confirmation email sent after
// registration and after an email change.
func ConfirmationMessage(to, frontendURL, token, expiresIn string) (Message, error) {
	if to == "" {
		return Message{}, ErrNoRecipient
	}
	link, err := ConfirmationURL(frontendURL, token)
	if err != nil {
		return Message{}, err
	}

	var body bytes.Buffer
	err = confirmationTemplate.Execute(&body, struct {
		ConfirmationURL string
		FrontendURL     string
		ExpiresIn       string
	}{link, frontendURL, expiresIn})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render confirmation email: %w", err)
	}

	return Message{To: to, Subject: confirmationSubject, HTMLBody: body.String()}, nil
}
