//go:build unit

package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"omiam-waitlist/internal/domain/waitlist"
	"omiam-waitlist/internal/infra/transport"
	"omiam-waitlist/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outbound() shared.OutboundMessage {
	return shared.OutboundMessage{
		RecordID:   uuid.New(),
		EntryID:    uuid.New(),
		Channel:    waitlist.NotificationSMS,
		Category:   "availability",
		TemplateID: "waitlist-availability",
		Recipient:  "+33612345678",
		Content:    "Votre table est prête",
		CreatedAt:  time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestLogTransport(t *testing.T) {
	t.Run("writes one structured line per message", func(t *testing.T) {
		var buf bytes.Buffer
		tr := transport.NewLogTransport(slog.New(slog.NewJSONHandler(&buf, nil)))
		msg := outbound()

		require.NoError(t, tr.Deliver(context.Background(), msg))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "notification delivered", line["msg"])
		assert.Equal(t, msg.RecordID.String(), line["record_id"])
		assert.Equal(t, "sms", line["channel"])
		assert.Equal(t, "+33612345678", line["recipient"])
		assert.NotContains(t, buf.String(), msg.Content)
		assert.Equal(t, "log", tr.Name())
	})

	t.Run("cancelled context is not delivered", func(t *testing.T) {
		var buf bytes.Buffer
		tr := transport.NewLogTransport(slog.New(slog.NewJSONHandler(&buf, nil)))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := tr.Deliver(ctx, outbound())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, buf.Len())
	})
}
