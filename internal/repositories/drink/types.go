package drink

import "github.com/kegwatch/kegwatch/internal/models"

type AddDrinkInput struct {
	Drink *models.Drink
}

type GetDrinkInput struct {
	DrinkID string
}

type UpdateDrinkInput struct {
	Drink *models.Drink
}

type RemoveDrinkInput struct {
	Drink *models.Drink
}

type GetDrinksForSessionInput struct {
	SessionID string
}

type GetDrinksForSessionOutput struct {
	Drinks []*models.Drink
}

type GetDrinksForKegInput struct {
	KegID string
}

type GetDrinksForKegOutput struct {
	Drinks []*models.Drink
}
