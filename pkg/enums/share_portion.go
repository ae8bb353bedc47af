package enums

import "fmt"

// SharePortion is the fraction of an animal a listing sells.
type SharePortion string

const (
	SharePortionEighth  SharePortion = "1/8"
	SharePortionQuarter SharePortion = "1/4"
	SharePortionHalf    SharePortion = "1/2"
	SharePortionThree   SharePortion = "3/4"
	SharePortionWhole   SharePortion = "whole"
)

var validSharePortions = []SharePortion{
	SharePortionEighth,
	SharePortionQuarter,
	SharePortionHalf,
	SharePortionThree,
	SharePortionWhole,
}

// String implements fmt.Stringer.
func (s SharePortion) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SharePortion.
func (s SharePortion) IsValid() bool {
	for _, candidate := range validSharePortions {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSharePortion converts raw input into a SharePortion.
func ParseSharePortion(value string) (SharePortion, error) {
	for _, candidate := range validSharePortions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid share portion %q", value)
}
