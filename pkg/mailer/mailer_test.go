package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMailerRecordsMessages(t *testing.T) {
	m := NewMemoryMailer()

	require.NoError(t, m.Send(context.Background(), RideAcceptedEmail("p@example.com", "r1", "Halifax", "Truro", "2024-05-01")))

	sent := m.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "p@example.com", sent[0].To)
	assert.Contains(t, sent[0].Body, "r1")
	assert.Contains(t, sent[0].Body, "Halifax")
}

func TestMemoryMailerRejectsEmptyRecipient(t *testing.T) {
	m := NewMemoryMailer()

	err := m.Send(context.Background(), &Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Empty(t, m.Sent())
}

func TestMemoryMailerFailure(t *testing.T) {
	m := NewMemoryMailer()
	m.FailWith(errors.New("smtp down"))

	assert.Error(t, m.Send(context.Background(), VerificationEmail("a@b.co", "http://x")))
	m.FailWith(nil)
	assert.NoError(t, m.Send(context.Background(), VerificationEmail("a@b.co", "http://x")))
}

func TestValidateRejectsHeaderInjection(t *testing.T) {
	msg := &Message{To: "a@b.co\r\nBcc: evil@x.io", Subject: "hi"}
	assert.Error(t, msg.Validate())
}

func TestSMTPMailerComposesMessage(t *testing.T) {
	m := NewSMTPMailer(&SMTPConfig{Host: "smtp.test", Port: 587, FromEmail: "noreply@easyride.app", FromName: "EasyRide"})

	var gotAddr string
	var gotTo []string
	var gotBody string
	m.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), &Message{To: "p@example.com", Subject: "Hello", Body: "Body text"}))
	assert.Equal(t, "smtp.test:587", gotAddr)
	assert.Equal(t, []string{"p@example.com"}, gotTo)
	assert.True(t, strings.HasPrefix(gotBody, "From: EasyRide <noreply@easyride.app>\r\n"))
	assert.Contains(t, gotBody, "\r\n\r\nBody text")
}

func TestSMTPMailerHonoursContext(t *testing.T) {
	m := NewSMTPMailer(&SMTPConfig{Host: "smtp.test", Port: 25, FromEmail: "noreply@easyride.app"})
	block := make(chan struct{})
	defer close(block)
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		<-block
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Send(ctx, &Message{To: "p@example.com"}), context.DeadlineExceeded)
}
