package model

// Availability describes how easy a substitute is to find
type Availability string

const (
	AvailabilityCommon    Availability = "common"
	AvailabilitySpecialty Availability = "specialty"
)

// Substitution lists the alternatives suggested for one original ingredient
type Substitution struct {
	Original     string        `json:"original"`
	Alternatives []Alternative `json:"alternatives"`
}

// Alternative is a single suggested replacement
type Alternative struct {
	Substitute   string       `json:"substitute"`
	Ratio        string       `json:"ratio"`
	Notes        string       `json:"notes"`
	Availability Availability `json:"availability"`
	DietaryTags  []string     `json:"dietaryTags"`
}
