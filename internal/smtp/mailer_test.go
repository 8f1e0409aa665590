package smtp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

type fakeClient struct {
	failures int
	calls    int
	sent     []*mail.Msg
}

func (c *fakeClient) DialAndSend(msgs ...*mail.Msg) error {
	c.calls++
	if c.calls <= c.failures {
		return errors.New("connection refused")
	}
	c.sent = append(c.sent, msgs...)
	return nil
}

func registrationData() map[string]any {
	return map[string]any{
		"BaseURL":       "http://localhost",
		"Name":          "Ama Mensah",
		"MemberID":      int64(12),
		"ChildrenCount": 2,
		"ParentsCount":  1,
		"RegisteredAt":  time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSendRendersTemplates(t *testing.T) {
	client := &fakeClient{}
	mailer := NewMailerWithClient(client, "registry@example.org")

	patterns := []string{"member-registration.tmpl"}
	err := mailer.Send("ama@example.com", registrationData(), patterns...)
	require.NoError(t, err)

	require.Len(t, client.sent, 1)
	assert.Equal(t, []string{"member-registration.tmpl"}, patterns)

	msg := client.sent[0]
	assert.Equal(t, []string{"Your membership registration was received"}, msg.GetGenHeader(mail.HeaderSubject))

	var body bytes.Buffer
	_, err = msg.WriteTo(&body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), "2 children")
	assert.Contains(t, body.String(), "01 May 2024")
}

func TestSendRetries(t *testing.T) {
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 2 * time.Second })

	client := &fakeClient{failures: 2}
	mailer := NewMailerWithClient(client, "registry@example.org")

	require.NoError(t, mailer.Send("ama@example.com", registrationData(), "member-registration.tmpl"))
	assert.Equal(t, 3, client.calls)

	client = &fakeClient{failures: 3}
	mailer = NewMailerWithClient(client, "registry@example.org")

	assert.Error(t, mailer.Send("ama@example.com", registrationData(), "member-registration.tmpl"))
	assert.Equal(t, 3, client.calls)
}

func TestSendRejectsBadRecipient(t *testing.T) {
	mailer := NewMailerWithClient(&fakeClient{}, "registry@example.org")

	assert.Error(t, mailer.Send("not an address", registrationData(), "member-registration.tmpl"))
}
