package models

// Role identifies which kind of portal user a connection or token belongs to.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// NotificationType selects the visual treatment of a toast on the client.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
)

// Notification is the unit of delivery pushed to connected clients. The
// sender never stamps an id or timestamp; the receiving client does that
// at arrival time.
type Notification struct {
	Type    NotificationType `json:"type,omitempty"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Link    string           `json:"link,omitempty"`
}

// Socket event names exchanged over the notification channel.
const (
	EventJoin         = "join"
	EventNotification = "notification"
)

// SocketEvent is the JSON envelope for every frame on the notification
// channel, in either direction.
type SocketEvent struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// JoinPayload is the client->server request to associate the connection
// with the identity room for (UserType, UserID).
type JoinPayload struct {
	UserID   int  `json:"userId"`
	UserType Role `json:"userType"`
}
