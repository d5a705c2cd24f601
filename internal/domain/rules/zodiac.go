package rules

import (
	"fmt"
	"strings"
	"time"
)

const BirthDateLayout = "2006-01-02"

// zodiacStarts lists the first day of each sign in calendar order.
var zodiacStarts = []struct {
	month time.Month
	day   int
	sign  string
}{
	{time.January, 20, "Acuario"},
	{time.February, 19, "Piscis"},
	{time.March, 21, "Aries"},
	{time.April, 20, "Tauro"},
	{time.May, 21, "Géminis"},
	{time.June, 21, "Cáncer"},
	{time.July, 23, "Leo"},
	{time.August, 23, "Virgo"},
	{time.September, 23, "Libra"},
	{time.October, 23, "Escorpio"},
	{time.November, 22, "Sagitario"},
	{time.December, 22, "Capricornio"},
}

// ZodiacFromBirthdate maps a birth date to the western zodiac sign label shown on profiles.
func ZodiacFromBirthdate(d time.Time) string {
	if d.IsZero() {
		return ""
	}

	m, day := d.Month(), d.Day()
	sign := "Capricornio"
	for _, start := range zodiacStarts {
		if m > start.month || (m == start.month && day >= start.day) {
			sign = start.sign
		}
	}
	return sign
}

func ParseBirthDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if len(raw) > len(BirthDateLayout) {
		raw = raw[:len(BirthDateLayout)]
	}
	d, err := time.Parse(BirthDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse birth date: %w", err)
	}
	return d, nil
}

// AgeAt returns full years elapsed between birth and now. Zero birth yields 0.
func AgeAt(birth, now time.Time) int {
	if birth.IsZero() || now.Before(birth) {
		return 0
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
