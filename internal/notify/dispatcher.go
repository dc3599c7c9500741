package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/domain"
	"github.com/fremdrift-as/inquiry-api/internal/repository"
)

const (
	defaultQueueSize   = 256
	defaultMaxAttempts = 3
	defaultRetryDelay  = 2 * time.Second
)

// Dispatcher fans out new-inquiry notifications to admins who have opted
// in. Delivery runs on a background worker so the creating request never
// waits on SMTP, and a failed delivery never fails the create.
type Dispatcher struct {
	mailer      Mailer
	userRepo    *repository.UserRepository
	logger      *zap.Logger
	maxAttempts int
	retryDelay  time.Duration

	queue chan *domain.Inquiry
	wg    sync.WaitGroup

	mu         sync.Mutex
	deadLetter []deadLetter
}

// deadLetter is a delivery that exhausted its retry budget
type deadLetter struct {
	Message   *Message
	FailedAt  time.Time
	LastError string
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithMaxAttempts overrides the per-delivery retry budget
func WithMaxAttempts(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxAttempts = n
		}
	}
}

// WithRetryDelay overrides the pause between delivery attempts
func WithRetryDelay(delay time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if delay >= 0 {
			d.retryDelay = delay
		}
	}
}

// NewDispatcher creates a dispatcher. Call Start before enqueueing.
func NewDispatcher(mailer Mailer, userRepo *repository.UserRepository, logger *zap.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		mailer:      mailer,
		userRepo:    userRepo,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
		queue:       make(chan *domain.Inquiry, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the background delivery worker
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for inquiry := range d.queue {
			d.process(inquiry)
		}
	}()
}

// Stop closes the queue and waits for in-flight deliveries to finish, up
// to the context deadline.
func (d *Dispatcher) Stop(ctx context.Context) error {
	close(d.queue)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification dispatcher shutdown: %w", ctx.Err())
	}
}

// InquiryCreated enqueues notifications for a newly created inquiry. The
// call never blocks: when the queue is full the event is dropped with a
// log entry.
func (d *Dispatcher) InquiryCreated(inquiry *domain.Inquiry) {
	select {
	case d.queue <- inquiry:
	default:
		d.logger.Warn("notification queue full, dropping inquiry notification",
			zap.String("inquiryID", inquiry.ID.String()),
			zap.String("caseNumber", inquiry.CaseNumber))
	}
}

// DeadLetterCount returns the number of deliveries awaiting redrive
func (d *Dispatcher) DeadLetterCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.deadLetter)
}

// Redrive re-attempts every dead-lettered delivery. Deliveries that fail
// again go back on the dead-letter list. Called periodically by the
// scheduler.
func (d *Dispatcher) Redrive(ctx context.Context) (delivered, remaining int) {
	d.mu.Lock()
	pending := d.deadLetter
	d.deadLetter = nil
	d.mu.Unlock()

	for _, entry := range pending {
		if err := d.deliver(ctx, entry.Message); err != nil {
			d.addDeadLetter(entry.Message, err)
			remaining++
			continue
		}
		delivered++
	}

	if delivered > 0 || remaining > 0 {
		d.logger.Info("redrove dead-lettered notifications",
			zap.Int("delivered", delivered),
			zap.Int("remaining", remaining))
	}
	return delivered, remaining
}

func (d *Dispatcher) process(inquiry *domain.Inquiry) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	recipients, err := d.userRepo.ListNotificationRecipients(ctx)
	if err != nil {
		d.logger.Error("failed to list notification recipients",
			zap.String("inquiryID", inquiry.ID.String()),
			zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		d.logger.Debug("no notification recipients opted in",
			zap.String("inquiryID", inquiry.ID.String()))
		return
	}

	subject, body := buildInquiryMail(inquiry)
	for _, recipient := range recipients {
		msg := &Message{To: recipient.Email, Subject: subject, Body: body}
		if err := d.deliver(ctx, msg); err != nil {
			d.logger.Warn("inquiry notification delivery failed, dead-lettering",
				zap.String("inquiryID", inquiry.ID.String()),
				zap.String("recipient", recipient.Email),
				zap.Int("attempts", d.maxAttempts),
				zap.Error(err))
			d.addDeadLetter(msg, err)
		}
	}
}

// deliver attempts one message up to maxAttempts times
func (d *Dispatcher) deliver(ctx context.Context, msg *Message) error {
	var lastErr error
	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if lastErr = d.mailer.Send(ctx, msg); lastErr == nil {
			return nil
		}
		if attempt < d.maxAttempts {
			select {
			case <-time.After(d.retryDelay):
			case <-ctx.Done():
				return fmt.Errorf("delivery cancelled: %w", ctx.Err())
			}
		}
	}
	return lastErr
}

func (d *Dispatcher) addDeadLetter(msg *Message, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deadLetter = append(d.deadLetter, deadLetter{
		Message:   msg,
		FailedAt:  time.Now(),
		LastError: err.Error(),
	})
}

func buildInquiryMail(inquiry *domain.Inquiry) (subject, body string) {
	subject = fmt.Sprintf("Ny henvendelse: %s (%s)", inquiry.CompanyName, inquiry.CaseNumber)
	body = fmt.Sprintf(
		"Det har kommet inn en ny henvendelse.\n\n"+
			"Saksnummer: %s\n"+
			"Bedrift: %s\n"+
			"Kontaktperson: %s\n"+
			"E-post: %s\n"+
			"Produkt: %s\n\n"+
			"%s\n",
		inquiry.CaseNumber,
		inquiry.CompanyName,
		inquiry.ContactName,
		inquiry.ContactEmail,
		inquiry.ProductTitle,
		inquiry.ProductDescription,
	)
	return subject, body
}
