package models

// Beverage describes what is inside a keg. Reference data only; the
// accounting engine never inspects it.
type Beverage struct {
	// Name is the beverage name
	Name string `json:"name"`

	// Producer is the brewery or producer name
	Producer string `json:"producer,omitempty"`

	// Style is the beverage style
	Style string `json:"style,omitempty"`
}
