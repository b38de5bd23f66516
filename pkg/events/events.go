package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

// Handler receives the raw JSON payload of a published event. Handlers run
// detached from the publishing request: cancellation of the request context
// must not cancel an in-flight handler.
type Handler func(ctx context.Context, data []byte)

type Bus interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Subscribe(subject string, handler Handler) error
	Close() error
}

// Subjects
const (
	RegistrationCreated  = "registration.created"
	RegistrationAccepted = "registration.accepted"
)

type RegistrationCreatedEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	City        string `json:"city"`
}

type RegistrationAcceptedEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

type NATSBus struct {
	conn *nats.Conn
}

func NewNATSBus(url string) (*NATSBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSBus{conn: conn}, nil
}

func (n *NATSBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSBus) Subscribe(subject string, handler Handler) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(context.Background(), msg.Data)
	})
	return err
}

func (n *NATSBus) Close() error {
	n.conn.Close()
	return nil
}

// MemoryBus is an in-process Bus used when no NATS URL is configured and in
// tests. Handlers run in their own goroutine with a background context so a
// publish never blocks, matching the NATS delivery model.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
	closed   bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string][]Handler)}
}

func (b *MemoryBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	for _, h := range b.handlers[subject] {
		h := h
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			h(context.Background(), payload)
		}()
	}
	return nil
}

func (b *MemoryBus) Subscribe(subject string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	return nil
}

// Close waits for in-flight handlers to finish.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
	return nil
}
