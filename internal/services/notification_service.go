// internal/services/notification_service.go
package services

import (
	"fmt"
	"net/smtp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/procurehub/orders-backend/internal/config"
	"github.com/procurehub/orders-backend/internal/models"
)

// NotificationService decouples email delivery from the request path. Core
// operations enqueue events on a buffered channel; a single worker drains it
// and sends. Delivery failures are logged and dropped — they never propagate
// back to, or block, registration and order flows.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config

	events chan notificationEvent
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

type notificationEvent struct {
	Recipient string
	Subject   string
	Body      string
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	queueSize := cfg.Import.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}
	return &NotificationService{
		db:     db,
		config: cfg,
		events: make(chan notificationEvent, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (s *NotificationService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case event := <-s.events:
				s.deliver(event)
			case <-s.done:
				// Drain whatever is queued before exiting.
				for {
					select {
					case event := <-s.events:
						s.deliver(event)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop shuts the worker down after draining the queue.
func (s *NotificationService) Stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *NotificationService) enqueue(event notificationEvent) {
	select {
	case s.events <- event:
	default:
		logrus.WithFields(logrus.Fields{
			"recipient": event.Recipient,
			"subject":   event.Subject,
		}).Warn("Notification queue full, dropping event")
	}
}

// NotifyRegistration emails the new account its confirmation token.
func (s *NotificationService) NotifyRegistration(user *models.User, verificationToken string) {
	s.enqueue(notificationEvent{
		Recipient: user.Email,
		Subject:   "Confirm your email",
		Body: fmt.Sprintf("Hello %s,\n\nConfirm your email with this token:\n\n%s\n",
			user.Username, verificationToken),
	})
}

// NotifyOrderConfirmed emails the customer and every affected partner.
func (s *NotificationService) NotifyOrderConfirmed(order *models.ConfirmedOrder) {
	var customer models.User
	if err := s.db.First(&customer, "id = ?", order.UserID).Error; err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("Failed to load customer for order notification")
		return
	}

	s.enqueue(notificationEvent{
		Recipient: customer.Email,
		Subject:   "Thank you for your order",
		Body: fmt.Sprintf("Hello %s,\n\nYour order %s with %d item(s) has been confirmed.\nShipping to: %s, %s %s via %s.\n",
			customer.Username, order.ID, len(order.Lines), order.Address, order.City, order.Index, order.Carrier),
	})

	for _, partner := range s.partnersForOrder(order) {
		s.enqueue(notificationEvent{
			Recipient: partner.Email,
			Subject:   "New order received",
			Body: fmt.Sprintf("Hello %s,\n\nOrder %s contains items from your shop. See your partner orders view for details.\n",
				partner.Username, order.ID),
		})
	}
}

func (s *NotificationService) partnersForOrder(order *models.ConfirmedOrder) []models.User {
	shopIDs := make([]uuid.UUID, 0, len(order.Lines))
	seen := make(map[uuid.UUID]bool, len(order.Lines))
	for _, line := range order.Lines {
		if !seen[line.ShopID] {
			seen[line.ShopID] = true
			shopIDs = append(shopIDs, line.ShopID)
		}
	}
	if len(shopIDs) == 0 {
		return nil
	}

	var partners []models.User
	err := s.db.
		Where("id IN (?)", s.db.Model(&models.Shop{}).Select("user_id").Where("id IN ?", shopIDs)).
		Find(&partners).Error
	if err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Warn("Failed to load partners for order notification")
		return nil
	}
	return partners
}

func (s *NotificationService) deliver(event notificationEvent) {
	if s.config.Email.SMTPUsername == "" {
		logrus.WithFields(logrus.Fields{
			"recipient": event.Recipient,
			"subject":   event.Subject,
		}).Debug("SMTP not configured, skipping notification")
		return
	}

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.config.Email.FromName, s.config.Email.FromEmail),
		fmt.Sprintf("To: %s", event.Recipient),
		fmt.Sprintf("Subject: %s", event.Subject),
		"",
		event.Body,
	}, "\r\n")

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort

	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{event.Recipient}, []byte(msg)); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"recipient": event.Recipient,
			"subject":   event.Subject,
		}).Error("Failed to send notification email")
	}
}
