package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/ports"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.MailJob
	err  error
	done chan struct{}
}

func (m *recordingMailer) Send(_ context.Context, job ports.MailJob) error {
	m.mu.Lock()
	m.sent = append(m.sent, job)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.err
}

func (m *recordingMailer) delivered() []ports.MailJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.MailJob(nil), m.sent...)
}

func TestMailDispatcher_DeliversEnqueuedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{done: make(chan struct{}, 8)}
	d := NewMailDispatcher(4, mailer, zerolog.Nop())
	d.Start(ctx)

	jobs := []ports.MailJob{
		{To: "a@example.com", Subject: "one"},
		{To: "b@example.com", Subject: "two"},
		{To: "c@example.com", Subject: "three"},
	}
	for _, job := range jobs {
		d.Enqueue(job)
	}

	for range jobs {
		select {
		case <-mailer.done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
	if got := len(mailer.delivered()); got != len(jobs) {
		t.Fatalf("delivered %d jobs, want %d", got, len(jobs))
	}
}

func TestMailDispatcher_ShardingIsStablePerRecipient(t *testing.T) {
	d := NewMailDispatcher(4, &recordingMailer{}, zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 100; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard moved: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard %d out of range", first)
	}
}

func TestMailDispatcher_DeliveryFailureIsSwallowed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{err: errors.New("sendgrid: 503"), done: make(chan struct{}, 1)}
	d := NewMailDispatcher(1, mailer, zerolog.Nop())
	d.Start(ctx)

	// Enqueue must not block or panic on a failing mailer.
	d.Enqueue(ports.MailJob{To: "a@example.com", Subject: "reset"})

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never attempted delivery")
	}
}
