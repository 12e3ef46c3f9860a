package keg

import "github.com/kegwatch/kegwatch/internal/models"

type SaveKegInput struct {
	Keg *models.Keg
}

type GetKegInput struct {
	KegID string
}

type SaveTapInput struct {
	Tap *models.Tap
}

type GetTapInput struct {
	TapID string
}

type ListTapsInput struct {
}

type ListTapsOutput struct {
	Taps []*models.Tap
}
