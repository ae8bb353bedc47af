package enums

import "fmt"

// AnimalType identifies the animal a share is cut from.
type AnimalType string

const (
	AnimalTypeBeef AnimalType = "beef"
	AnimalTypePork AnimalType = "pork"
)

var validAnimalTypes = []AnimalType{
	AnimalTypeBeef,
	AnimalTypePork,
}

// String implements fmt.Stringer.
func (a AnimalType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AnimalType.
func (a AnimalType) IsValid() bool {
	for _, candidate := range validAnimalTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnimalType converts raw input into an AnimalType.
func ParseAnimalType(value string) (AnimalType, error) {
	for _, candidate := range validAnimalTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid animal type %q", value)
}
