package email

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfiguredServiceLogsLinkInsteadOfSending(t *testing.T) {
	var buf bytes.Buffer
	svc := NewEmailService(SMTPConfig{Host: "smtp.example.org", Port: 587}, zerolog.New(&buf))

	link := "https://alumni.example.org/invite/claim?code=abc"
	require.NoError(t, svc.SendInviteEmail("grad@example.org", "Grad", link))
	require.NoError(t, svc.SendMagicLinkEmail("grad@example.org", "https://alumni.example.org/auth/callback?token=t"))
	require.NoError(t, svc.SendDecisionEmail("grad@example.org", "Grad", false, "missing year"))

	out := buf.String()
	assert.Contains(t, out, "invite/claim?code=abc")
	assert.Contains(t, out, "auth/callback?token=t")
	assert.Equal(t, 3, strings.Count(out, "SMTP credentials not configured"))
}

func TestBuildMessageHeadersAreStable(t *testing.T) {
	svc := &EmailServiceImpl{config: SMTPConfig{FromName: "Alumni", FromEmail: "no-reply@example.org"}}
	msg := string(svc.buildMessage("grad@example.org", "Hello", "<p>x</p>"))

	assert.True(t, strings.HasPrefix(msg, "Content-Type: text/html; charset=UTF-8\r\nFrom: Alumni <no-reply@example.org>\r\n"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>x</p>"))
}

func TestButtonEscapesLink(t *testing.T) {
	out := button(`https://x.example/?a=1&b="2"`, "Go")
	assert.Contains(t, out, `https://x.example/?a=1&amp;b=&#34;2&#34;`)
	assert.NotContains(t, out, `b="2"`)
}
