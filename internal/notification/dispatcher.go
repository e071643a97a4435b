package notification

import (
	"context"
	"sync"
	"time"

	"society-be-svc/internal/metrics"
	"society-be-svc/internal/models"
	"society-be-svc/pkg/logger"
)

//go:generate mockgen -destination=mocks/mock_notifier.go -package=mocks society-be-svc/internal/notification Notifier

// Notifier queues user-facing emails. Calls never block and never fail the caller.
type Notifier interface {
	NotifyVerification(email, code string)
	NotifyPaymentConfirmation(email string, bill *models.MaintenanceBill)
}

const sendTimeout = 30 * time.Second

// Dispatcher delivers messages on a background worker fed by a bounded queue.
// When the queue is full new messages are dropped with a warning.
type Dispatcher struct {
	sender Sender
	logger *logger.Logger
	queue  chan Message
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher starts a dispatcher with the given queue capacity
func NewDispatcher(sender Sender, log *logger.Logger, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}

	d := &Dispatcher{
		sender: sender,
		logger: log,
		queue:  make(chan Message, queueSize),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// NotifyVerification queues the verification code email
func (d *Dispatcher) NotifyVerification(email, code string) {
	msg, err := VerificationMessage(email, code)
	if err != nil {
		d.logger.WithError(err).Error("Failed to render verification email")
		return
	}
	d.enqueue(msg)
}

// NotifyPaymentConfirmation queues the payment receipt for a paid bill
func (d *Dispatcher) NotifyPaymentConfirmation(email string, bill *models.MaintenanceBill) {
	paidAt := time.Now()
	if bill.PaidDate != nil {
		paidAt = *bill.PaidDate
	}

	msg, err := PaymentConfirmationMessage(email, bill.Amount, bill.Month, bill.Year, paidAt)
	if err != nil {
		d.logger.WithError(err).Error("Failed to render payment confirmation email")
		return
	}
	d.enqueue(msg)
}

// Close stops accepting messages and waits until queued ones are delivered
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) enqueue(msg Message) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "dropped").Inc()
		d.logger.WithField("kind", msg.Kind).Warn("Notification dispatcher closed, message dropped")
		return
	}

	select {
	case d.queue <- msg:
	default:
		metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "dropped").Inc()
		d.logger.WithFields(map[string]interface{}{
			"kind": msg.Kind,
			"to":   msg.To,
		}).Warn("Notification queue full, message dropped")
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := d.sender.Send(ctx, msg)
		cancel()

		if err != nil {
			metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "failed").Inc()
			d.logger.WithError(err).WithFields(map[string]interface{}{
				"kind": msg.Kind,
				"to":   msg.To,
			}).Error("Failed to send notification email")
			continue
		}

		metrics.NotificationsTotal.WithLabelValues(string(msg.Kind), "sent").Inc()
		d.logger.WithFields(map[string]interface{}{
			"kind": msg.Kind,
			"to":   msg.To,
		}).Info("Notification email sent")
	}
}
