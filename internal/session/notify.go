package session

// NotificationType names a host callback
type NotificationType string

const (
	NotifyPlayerMoved    NotificationType = "playerMoved"
	NotifyBallMoved      NotificationType = "ballMoved"
	NotifyPlayerSelected NotificationType = "playerSelected"
	NotifyLineCreated    NotificationType = "lineCreated"
	NotifyLineRemoved    NotificationType = "lineRemoved"
	NotifyUndo           NotificationType = "undo"
	NotifyLog            NotificationType = "log"
	NotifyNodeCommitted  NotificationType = "nodeCommitted"
	NotifyNodeRestored   NotificationType = "nodeRestored"
)

// Notification is a callback event streamed to the host
type Notification struct {
	Type NotificationType `json:"type"`
	Data any              `json:"data,omitempty"`
}

// PlayerMove is the payload of NotifyPlayerMoved
type PlayerMove struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}
