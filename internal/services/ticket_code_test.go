package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketCodecRoundTrip(t *testing.T) {
	codec := NewTicketCodec("test-secret")
	eventID, orderID, ticketID := uuid.New(), uuid.New(), uuid.New()

	payload := codec.Payload(eventID, orderID, ticketID, "alice@example.com")
	assert.Contains(t, payload, "event:"+eventID.String())
	assert.Contains(t, payload, "attendee:alice@example.com")

	got, err := codec.Verify(payload)
	require.NoError(t, err)
	assert.Equal(t, ticketID, got)
}

func TestTicketCodecRejectsTampering(t *testing.T) {
	codec := NewTicketCodec("test-secret")
	payload := codec.Payload(uuid.New(), uuid.New(), uuid.New(), "alice@example.com")

	tampered := strings.Replace(payload, "alice@example.com", "mallory@example.com", 1)
	_, err := codec.Verify(tampered)
	assert.Error(t, err)
}

func TestTicketCodecRejectsWrongSecret(t *testing.T) {
	payload := NewTicketCodec("secret-a").Payload(uuid.New(), uuid.New(), uuid.New(), "a@b.c")

	_, err := NewTicketCodec("secret-b").Verify(payload)
	assert.Error(t, err)
}

func TestTicketCodecRejectsGarbage(t *testing.T) {
	codec := NewTicketCodec("test-secret")

	for _, payload := range []string{"", "not a payload", "event:nope;order:nope;ticket:nope;attendee:x;signature:y"} {
		_, err := codec.Verify(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}

func TestNewTicketNo(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		ticketNo := NewTicketNo()
		assert.True(t, strings.HasPrefix(ticketNo, "TKT-"))
		assert.False(t, seen[ticketNo], "duplicate ticket number %s", ticketNo)
		seen[ticketNo] = true
	}
}
