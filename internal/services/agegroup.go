package services

import (
	"strconv"
	"strings"
)

// Age bands used by the backend to select an age-appropriate question set.
const (
	AgeBandToddler = "2-5"
	AgeBandChild   = "5-12"
	AgeBandTeen    = "12-16"
	AgeBandAdult   = "16+"
)

var ageBands = []string{AgeBandToddler, AgeBandChild, AgeBandTeen, AgeBandAdult}

// AgeBands lists the four bands in ascending order.
func AgeBands() []string { return append([]string(nil), ageBands...) }

func IsAgeBand(s string) bool {
	for _, b := range ageBands {
		if b == s {
			return true
		}
	}
	return false
}

// AgeGroup maps an age in years to its band. Ages below two have no band.
func AgeGroup(age int) (string, bool) {
	switch {
	case age >= 2 && age < 5:
		return AgeBandToddler, true
	case age >= 5 && age < 12:
		return AgeBandChild, true
	case age >= 12 && age < 16:
		return AgeBandTeen, true
	case age >= 16:
		return AgeBandAdult, true
	default:
		return "", false
	}
}

// AgeGroupFromInput parses the raw age field. A leading integer is accepted
// ("7 years" is 7); anything else has no band.
func AgeGroupFromInput(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && (s[end] == '-' || s[end] == '+')) {
		end++
	}
	age, err := strconv.Atoi(s[:end])
	if err != nil {
		return "", false
	}
	return AgeGroup(age)
}
