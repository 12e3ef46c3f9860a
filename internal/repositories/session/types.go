package session

import "github.com/kegwatch/kegwatch/internal/models"

type SaveSessionInput struct {
	Session *models.DrinkingSession
}

type GetSessionInput struct {
	SessionID string
}

type GetLatestSessionInput struct {
}

type GetLatestSessionOutput struct {
	// Session is nil when no sessions exist
	Session *models.DrinkingSession
}

type DeleteSessionInput struct {
	SessionID string
}
