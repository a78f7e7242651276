package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/staffdesk/staffdesk-backend-go/internal/domain/notification"
)

// Sender is the outbound chat-platform edge, satisfied by platform.Client.
type Sender interface {
	Send(chatID int64, text string) error
}

// Config holds notification dispatcher configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type service struct {
	sender      Sender
	adminChatID int64
	config      Config

	queue  chan notification.Notification
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewNotificationService starts the background send workers. adminChatID
// is the destination for QueueAdmin; zero disables admin pushes.
func NewNotificationService(sender Sender, adminChatID int64, cfg Config) notification.Service {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		sender:      sender,
		adminChatID: adminChatID,
		config:      cfg,
		queue:       make(chan notification.Notification, cfg.QueueSize),
		stopCh:      make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)

	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case n := <-s.queue:
			s.send(id, n)
		case <-s.stopCh:
			// Drain what was queued before shutdown.
			for {
				select {
				case n := <-s.queue:
					s.send(id, n)
				default:
					return
				}
			}
		}
	}
}

func (s *service) send(workerID int, n notification.Notification) {
	if n.ChatID == 0 {
		return
	}
	if err := s.sender.Send(n.ChatID, n.Message); err != nil {
		slog.Warn("failed to send notification",
			"worker", workerID, "chat_id", n.ChatID, "kind", n.Kind, "error", err)
	}
}

// Queue implements notification.Service.
func (s *service) Queue(ctx context.Context, n notification.Notification) error {
	select {
	case s.queue <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, send inline rather than drop.
		s.send(-1, n)
		return nil
	}
}

// QueueAdmin implements notification.Service.
func (s *service) QueueAdmin(ctx context.Context, kind notification.Kind, message string) error {
	if s.adminChatID == 0 {
		return nil
	}
	return s.Queue(ctx, notification.Notification{
		ChatID:  s.adminChatID,
		Kind:    kind,
		Message: message,
	})
}

// Close implements notification.Service.
func (s *service) Close() {
	close(s.stopCh)
	s.wg.Wait()
}
