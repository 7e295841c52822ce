package domain

type NotificationType string

const (
	NotificationRentalApproved  NotificationType = "RENTAL_APPROVED"
	NotificationRentalRejected  NotificationType = "RENTAL_REJECTED"
	NotificationRentalExpired   NotificationType = "RENTAL_EXPIRED"
	NotificationDisputeCreated  NotificationType = "DISPUTE_CREATED"
	NotificationDisputeResolved NotificationType = "DISPUTE_RESOLVED"
)

type Notification struct {
	ID        int32            `json:"id"`
	UserID    int32            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID int32            `json:"related_id"`
	IsRead    bool             `json:"is_read"`
	CreatedOn string           `json:"created_on"`
}
