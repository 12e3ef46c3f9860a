package kegsize

// KegSize identifies a standard keg container type
type KegSize string

const (
	// HalfBarrel is a full-size US keg
	HalfBarrel KegSize = "half-barrel"

	// QuarterBarrel is a US pony keg
	QuarterBarrel KegSize = "quarter-barrel"

	// EuroHalfBarrel is a 50 liter European keg
	EuroHalfBarrel KegSize = "euro-half-barrel"

	// SixthBarrel is a US sixtel
	SixthBarrel KegSize = "sixth-barrel"

	// Corny is a Cornelius home-brew keg
	Corny KegSize = "corny"

	// Other is a non-standard container; full volume must be set explicitly
	Other KegSize = "other"
)

// volumes holds the full volume in milliliters for each standard size
var volumes = map[KegSize]float64{
	HalfBarrel:     58673.9,
	QuarterBarrel:  29336.9,
	EuroHalfBarrel: 50000.0,
	SixthBarrel:    19570.6,
	Corny:          18927.1,
	Other:          0,
}

// descriptions holds the display name for each size
var descriptions = map[KegSize]string{
	HalfBarrel:     "Half Barrel (15.5 gal)",
	QuarterBarrel:  "Quarter Barrel (7.75 gal)",
	EuroHalfBarrel: "European Half Barrel (50 L)",
	SixthBarrel:    "Sixth Barrel (5.17 gal)",
	Corny:          "Corny Keg (5 gal)",
	Other:          "Other",
}

// VolumeML returns the full volume in milliliters for a keg size.
// Unknown sizes and Other return 0; callers must supply an explicit volume.
func VolumeML(size KegSize) float64 {
	return volumes[size]
}

// Description returns the display name for a keg size
func Description(size KegSize) string {
	if d, ok := descriptions[size]; ok {
		return d
	}
	return string(size)
}

// IsValid reports whether size is a known keg size
func IsValid(size KegSize) bool {
	_, ok := volumes[size]
	return ok
}
