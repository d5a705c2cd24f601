package rules

import "strings"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Orientation string

const (
	OrientationHeterosexual Orientation = "heterosexual"
	OrientationHomosexual   Orientation = "homosexual"
	OrientationBisexual     Orientation = "bisexual"
)

// Target is one eligible (gender, orientations) pairing. An empty Gender matches any gender.
type Target struct {
	Gender       Gender
	Orientations []Orientation
}

func NormalizeGender(raw string) (Gender, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m", "man", "masculino", "hombre":
		return GenderMale, true
	case "female", "f", "woman", "femenino", "mujer":
		return GenderFemale, true
	default:
		return "", false
	}
}

func NormalizeOrientation(raw string) (Orientation, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "heterosexual", "hetero", "straight":
		return OrientationHeterosexual, true
	case "homosexual", "gay", "lesbian":
		return OrientationHomosexual, true
	case "bisexual", "bi", "ambos", "both":
		return OrientationBisexual, true
	default:
		return "", false
	}
}

func (g Gender) Opposite() Gender {
	switch g {
	case GenderMale:
		return GenderFemale
	case GenderFemale:
		return GenderMale
	default:
		return ""
	}
}

// EligibleTargets returns the pairings a user of the given gender and orientation may be shown.
// ok is false for unknown combinations, which carry no restriction.
func EligibleTargets(gender Gender, orientation Orientation) ([]Target, bool) {
	if gender.Opposite() == "" {
		return nil, false
	}

	switch orientation {
	case OrientationHeterosexual:
		return []Target{
			{Gender: gender.Opposite(), Orientations: []Orientation{OrientationHeterosexual, OrientationBisexual}},
		}, true
	case OrientationHomosexual:
		return []Target{
			{Gender: gender, Orientations: []Orientation{OrientationHomosexual, OrientationBisexual}},
		}, true
	case OrientationBisexual:
		return []Target{
			{Gender: gender.Opposite(), Orientations: []Orientation{OrientationHeterosexual}},
			{Gender: gender, Orientations: []Orientation{OrientationHomosexual}},
			{Orientations: []Orientation{OrientationBisexual}},
		}, true
	default:
		return nil, false
	}
}

// Compatible applies EligibleTargets to a single candidate.
func Compatible(gender Gender, orientation Orientation, candidateGender Gender, candidateOrientation Orientation) bool {
	targets, ok := EligibleTargets(gender, orientation)
	if !ok {
		return true
	}
	for _, target := range targets {
		if target.Gender != "" && target.Gender != candidateGender {
			continue
		}
		for _, o := range target.Orientations {
			if o == candidateOrientation {
				return true
			}
		}
	}
	return false
}
