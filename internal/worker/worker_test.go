package worker_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"paraverse/internal/queue"
	"paraverse/internal/worker"
)

// =============================================================================
// Mock Implementations
// =============================================================================

// MockMailer records sent mails instead of talking to an SMTP relay.
type MockMailer struct {
	mu    sync.Mutex
	sent  []sentMail
	fails map[string]error // per-recipient failure injection
}

type sentMail struct {
	To    string
	Token string
}

func NewMockMailer() *MockMailer {
	return &MockMailer{fails: make(map[string]error)}
}

func (m *MockMailer) FailFor(to string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fails[to] = err
}

func (m *MockMailer) SendPasswordReset(to, resetToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fails[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, sentMail{To: to, Token: resetToken})
	return nil
}

func (m *MockMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]sentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// =============================================================================
// Handler Unit Tests
// =============================================================================

func TestHandler_ResetRequested(t *testing.T) {
	mailer := NewMockMailer()
	handler := worker.NewHandler(mailer)

	event := queue.NewResetRequestedEvent("alice@example.com", "tok-123")
	if err := handler.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sent := mailer.Sent()
	if len(sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(sent))
	}
	if sent[0].To != "alice@example.com" || sent[0].Token != "tok-123" {
		t.Errorf("sent = %+v, want alice@example.com/tok-123", sent[0])
	}
}

func TestHandler_ResetRequested_MissingFields(t *testing.T) {
	handler := worker.NewHandler(NewMockMailer())

	event := queue.MailEvent{Type: queue.EventResetRequested}
	if err := handler.HandleEvent(context.Background(), event); err == nil {
		t.Error("expected error for event without email and token")
	}
}

func TestHandler_UnknownEventType(t *testing.T) {
	handler := worker.NewHandler(NewMockMailer())

	event := queue.MailEvent{Type: "bogus"}
	if err := handler.HandleEvent(context.Background(), event); err == nil {
		t.Error("expected error for unknown event type")
	}
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)
	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx := context.Background()
	client.FlushDB(ctx)
	client.Close()
}

// =============================================================================
// Integration Tests
// =============================================================================

// TestMailPipelineEndToEnd publishes reset events and verifies the worker
// manager consumes them and the mails go out.
func TestMailPipelineEndToEnd(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)
	mailer := NewMockMailer()

	manager := worker.NewManager(consumer, worker.NewHandler(mailer), worker.ManagerConfig{
		WorkerCount:  2,
		BatchSize:    10,
		BlockTimeout: 200 * time.Millisecond,
	})
	if err := manager.Start(ctx); err != nil {
		t.Fatalf("failed to start manager: %v", err)
	}
	defer manager.Stop()

	const eventCount = 5
	for i := 0; i < eventCount; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		event := queue.NewResetRequestedEvent(email, fmt.Sprintf("tok-%d", i))
		if _, err := publisher.Publish(ctx, queue.StreamMail, event); err != nil {
			t.Fatalf("failed to publish: %v", err)
		}
	}

	// Wait for the workers to drain the stream
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(mailer.Sent()) == eventCount {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	sent := mailer.Sent()
	if len(sent) != eventCount {
		t.Fatalf("sent %d mails, want %d", len(sent), eventCount)
	}

	seen := make(map[string]bool)
	for _, mail := range sent {
		if seen[mail.To] {
			t.Errorf("mail to %s delivered twice", mail.To)
		}
		seen[mail.To] = true
	}
}

// TestMailPipelineFailedSendIsAcked verifies that a failing recipient does
// not wedge the stream: the message is acked and later events still flow.
func TestMailPipelineFailedSendIsAcked(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	ctx := context.Background()
	publisher := queue.NewPublisher(client)
	consumer := queue.NewConsumer(client)

	mailer := NewMockMailer()
	mailer.FailFor("broken@example.com", fmt.Errorf("mailbox unavailable"))

	manager := worker.NewManager(consumer, worker.NewHandler(mailer), worker.ManagerConfig{
		WorkerCount:  1,
		BatchSize:    10,
		BlockTimeout: 200 * time.Millisecond,
	})
	if err := manager.Start(ctx); err != nil {
		t.Fatalf("failed to start manager: %v", err)
	}
	defer manager.Stop()

	if _, err := publisher.Publish(ctx, queue.StreamMail, queue.NewResetRequestedEvent("broken@example.com", "tok-a")); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}
	if _, err := publisher.Publish(ctx, queue.StreamMail, queue.NewResetRequestedEvent("fine@example.com", "tok-b")); err != nil {
		t.Fatalf("failed to publish: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(mailer.Sent()) == 1 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	sent := mailer.Sent()
	if len(sent) != 1 || sent[0].To != "fine@example.com" {
		t.Fatalf("sent = %+v, want only fine@example.com", sent)
	}

	// The failed message must be acked, not left pending
	time.Sleep(300 * time.Millisecond)
	pending, err := client.XPending(ctx, queue.StreamMail, queue.ConsumerGroupMail).Result()
	if err != nil {
		t.Fatalf("failed to read pending: %v", err)
	}
	if pending.Count != 0 {
		t.Errorf("pending count = %d, want 0", pending.Count)
	}
}
