package event

import "github.com/kegwatch/kegwatch/internal/models"

type AddEventInput struct {
	Event *models.SystemEvent
}

type HasKegEventInput struct {
	KegID string
	Kind  models.EventKind
}

type HasSessionEventInput struct {
	SessionID string
	Kind      models.EventKind
}

type HasSessionUserEventInput struct {
	SessionID string
	UserID    string
	Kind      models.EventKind
}

type ListRecentEventsInput struct {
	Limit int
}

type ListRecentEventsOutput struct {
	Events []*models.SystemEvent
}
