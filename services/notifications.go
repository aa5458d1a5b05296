package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"darkom-server/models"
	"darkom-server/utils"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService records notifications and dispatches best-effort
// emails to hosts. Every method is fire-and-forget from the booking
// flow's perspective: failures are logged, never surfaced, and never
// roll back a booking.
type NotificationService struct {
	db     *gorm.DB
	mailer *mailjet.Client
	sender string
}

// NewNotificationService builds the service. The mailer is optional;
// without Mailjet credentials only the in-DB notification row is
// written.
func NewNotificationService(db *gorm.DB) *NotificationService {
	svc := &NotificationService{
		db:     db,
		sender: os.Getenv("MAILJET_SENDER"),
	}
	pub := os.Getenv("MAILJET_API_KEY")
	priv := os.Getenv("MAILJET_SECRET_KEY")
	if pub != "" && priv != "" {
		svc.mailer = mailjet.NewMailjetClient(pub, priv)
	}
	return svc
}

// NotifyReservationCreated records a notification for the property's
// host and emails them about the new booking.
func (ns *NotificationService) NotifyReservationCreated(reservation *models.Reservation, property *PropertySnapshot) {
	payload, _ := json.Marshal(map[string]interface{}{
		"reservationID": reservation.ID,
		"reference":     reservation.Reference,
		"propertyRef":   property.Ref,
		"checkIn":       utils.FormatDate(reservation.CheckIn),
		"checkOut":      utils.FormatDate(reservation.CheckOut),
		"status":        reservation.Status,
	})

	notification := models.Notification{
		UserID:  property.HostID,
		Type:    "reservation_created",
		Title:   "Nouvelle réservation",
		Message: fmt.Sprintf("%s a demandé %s du %s au %s", reservation.CustomerName, property.Title, utils.FormatDate(reservation.CheckIn), utils.FormatDate(reservation.CheckOut)),
		RefType: "reservation",
		RefID:   reservation.ID,
		Payload: datatypes.JSON(payload),
	}
	if err := ns.db.Create(&notification).Error; err != nil {
		log.Printf("notifications: failed to record reservation notification: %v", err)
		return
	}

	ns.emailHost(property.HostID, notification.Title, notification.Message)
}

// NotifyReservationCancelled records a cancellation notification for
// the host.
func (ns *NotificationService) NotifyReservationCancelled(reservation *models.Reservation, property *PropertySnapshot, reason string) {
	notification := models.Notification{
		UserID:  property.HostID,
		Type:    "reservation_cancelled",
		Title:   "Réservation annulée",
		Message: fmt.Sprintf("La réservation de %s pour %s a été annulée (%s)", reservation.CustomerName, property.Title, reason),
		RefType: "reservation",
		RefID:   reservation.ID,
	}
	if err := ns.db.Create(&notification).Error; err != nil {
		log.Printf("notifications: failed to record cancellation notification: %v", err)
	}
}

func (ns *NotificationService) emailHost(hostID uint, subject, body string) {
	if ns.mailer == nil || ns.sender == "" {
		return
	}

	var host models.User
	if err := ns.db.First(&host, hostID).Error; err != nil {
		log.Printf("notifications: host %d not found: %v", hostID, err)
		return
	}
	if host.Email == "" {
		return
	}

	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: ns.sender,
					Name:  "Darkom",
				},
				To: &mailjet.RecipientsV31{
					mailjet.RecipientV31{
						Email: host.Email,
						Name:  host.FirstName + " " + host.LastName,
					},
				},
				Subject:  subject,
				TextPart: body,
			},
		},
	}

	start := time.Now()
	if _, err := ns.mailer.SendMailV31(&messages); err != nil {
		log.Printf("notifications: email to host %d failed after %s: %v", hostID, time.Since(start), err)
	}
}
