package notification

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/notification"
)

type recordingSender struct {
	mu   sync.Mutex
	sent map[int64][]string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(map[int64][]string)}
}

func (r *recordingSender) Send(chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[chatID] = append(r.sent[chatID], text)
	return nil
}

func (r *recordingSender) count(chatID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent[chatID])
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("queued messages are delivered before close returns", func(t *testing.T) {
		sender := newRecordingSender()
		svc := NewNotificationService(sender, 0, Config{})

		for i := 0; i < 10; i++ {
			require.NoError(t, svc.Queue(ctx, notification.Notification{
				ChatID:  42,
				Kind:    notification.KindCheckInConfirmed,
				Message: "Checked in.",
			}))
		}
		svc.Close()

		assert.Equal(t, 10, sender.count(42))
	})

	t.Run("zero chat id is dropped", func(t *testing.T) {
		sender := newRecordingSender()
		svc := NewNotificationService(sender, 0, Config{})

		require.NoError(t, svc.Queue(ctx, notification.Notification{ChatID: 0, Message: "nobody"}))
		svc.Close()

		assert.Empty(t, sender.sent)
	})

	t.Run("admin pushes go to the admin chat", func(t *testing.T) {
		sender := newRecordingSender()
		svc := NewNotificationService(sender, 99, Config{})

		require.NoError(t, svc.QueueAdmin(ctx, notification.KindPendingDigest, "3 items waiting"))
		svc.Close()

		assert.Equal(t, 1, sender.count(99))
	})

	t.Run("admin pushes disabled without a chat id", func(t *testing.T) {
		sender := newRecordingSender()
		svc := NewNotificationService(sender, 0, Config{})

		require.NoError(t, svc.QueueAdmin(ctx, notification.KindPendingDigest, "3 items waiting"))
		svc.Close()

		assert.Empty(t, sender.sent)
	})

	t.Run("full queue sends inline instead of dropping", func(t *testing.T) {
		sender := newRecordingSender()
		svc := NewNotificationService(sender, 0, Config{WorkerCount: 1, QueueSize: 1})

		for i := 0; i < 50; i++ {
			require.NoError(t, svc.Queue(ctx, notification.Notification{
				ChatID:  42,
				Message: "spill",
			}))
		}
		svc.Close()

		assert.Equal(t, 50, sender.count(42))
	})
}
