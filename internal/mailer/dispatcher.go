// Package mailer delivers outbound mail off the request path.
package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/storefront-identity/internal/logger"
	"github.com/dtroode/storefront-identity/internal/model"
)

const (
	defaultQueueSize   = 128
	defaultWorkers     = 2
	defaultSendTimeout = 10 * time.Second
)

// Dispatcher queues mail in a bounded channel drained by a fixed worker pool.
type Dispatcher struct {
	sender      model.MailSender
	logger      *logger.Logger
	queue       chan model.Mail
	workers     int
	sendTimeout time.Duration

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	started sync.Once
}

// NewDispatcher creates a Dispatcher. Non-positive sizes use defaults.
func NewDispatcher(sender model.MailSender, logger *logger.Logger, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Dispatcher{
		sender:      sender,
		logger:      logger,
		queue:       make(chan model.Mail, queueSize),
		workers:     workers,
		sendTimeout: defaultSendTimeout,
	}
}

// Start launches the workers. They stop once ctx is done or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	d.started.Do(func() {
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.work(ctx, i)
		}
	})
}

// Dispatch enqueues mail without blocking. A full or stopped queue drops it.
func (d *Dispatcher) Dispatch(mail model.Mail) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Mailer: dispatcher stopped, mail dropped", "to", mail.To, "subject", mail.Subject)
		return
	}

	select {
	case d.queue <- mail:
	default:
		d.logger.Warn("Mailer: queue is full, mail dropped", "to", mail.To, "subject", mail.Subject)
	}
}

// Stop closes the queue and waits for the workers to drain it or for ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case mail, ok := <-d.queue:
			if !ok {
				return
			}
			d.send(ctx, id, mail)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, id int, mail model.Mail) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, mail); err != nil {
		d.logger.Error("Mailer: failed to send mail", "worker", id, "to", mail.To, "subject", mail.Subject, "error", err)
		return
	}

	d.logger.Debug("Mailer: mail sent", "worker", id, "to", mail.To, "subject", mail.Subject)
}
