package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campussutras/campus-api/internal/core/domain"
	"github.com/campussutras/campus-api/internal/core/ports"
)

const (
	defaultWorkers     = 4
	defaultBuffer      = 256
	defaultSendTimeout = 30 * time.Second
)

// Renderer turns a notification into a deliverable message.
type Renderer interface {
	Render(n domain.Notification) (ports.MailMessage, error)
}

// Observer receives delivery events, typically to feed metrics.
type Observer interface {
	Dropped(t domain.MailTemplate)
	Delivered(t domain.MailTemplate, err error)
	QueueDepth(n int)
}

type nopObserver struct{}

func (nopObserver) Dropped(domain.MailTemplate)          {}
func (nopObserver) Delivered(domain.MailTemplate, error) {}
func (nopObserver) QueueDepth(int)                       {}

// Config sizes the dispatcher. Zero values fall back to defaults.
type Config struct {
	Workers     int
	Buffer      int
	SendTimeout time.Duration
}

// Dispatcher delivers notifications on a fixed set of workers. Notifications
// are sharded by recipient so mail to one address is sent in order.
// Notify never blocks: when a shard is full the notification is dropped.
type Dispatcher struct {
	workers     []chan domain.Notification
	renderer    Renderer
	sender      ports.MailSender
	observer    Observer
	sendTimeout time.Duration
	log         zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. A nil observer disables observation.
func NewDispatcher(cfg Config, renderer Renderer, sender ports.MailSender, observer Observer, log zerolog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if observer == nil {
		observer = nopObserver{}
	}

	d := &Dispatcher{
		workers:     make([]chan domain.Notification, cfg.Workers),
		renderer:    renderer,
		sender:      sender,
		observer:    observer,
		sendTimeout: cfg.SendTimeout,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, cfg.Buffer)
	}
	return d
}

// Start launches all worker goroutines. Sends derive their context from ctx.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Notify queues n for delivery. It implements ports.Notifier.
func (d *Dispatcher) Notify(n domain.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(n, "dispatcher stopped")
		return
	}

	select {
	case d.workers[d.shardIndex(n.To)] <- n:
		d.observer.QueueDepth(d.depth())
	default:
		d.drop(n, "queue full")
	}
}

// Shutdown stops accepting notifications and waits for queued ones to be
// sent, or for ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
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

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) depth() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
}

func (d *Dispatcher) drop(n domain.Notification, reason string) {
	d.observer.Dropped(n.Template)
	d.log.Warn().
		Str("template", string(n.Template)).
		Str("reason", reason).
		Msg("notification dropped")
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	for n := range ch {
		d.observer.QueueDepth(d.depth())
		err := d.deliver(ctx, n)
		d.observer.Delivered(n.Template, err)
		if err != nil {
			d.log.Error().Err(err).
				Str("template", string(n.Template)).
				Int("worker_id", id).
				Msg("notification delivery failed")
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification) error {
	msg, err := d.renderer.Render(n)
	if err != nil {
		return err
	}
	if msg.To == "" {
		return errors.New("notification has no recipient")
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	return d.sender.Send(sendCtx, msg)
}
