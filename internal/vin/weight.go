package vin

import (
	"regexp"
	"strconv"
	"strings"
)

// Matches the first pounds figure in a GVWR description such as
// "Class 3: 10,001 - 14,000 lb".
var weightPattern = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*)\s*lb`)

// ExtractWeight parses the first integer pounds value from a free-text
// gross-weight-rating description. Ranges report their first bound. Returns
// nil when the text is empty or contains no pounds figure.
func ExtractWeight(gvwrText string) *int {
	if strings.TrimSpace(gvwrText) == "" {
		return nil
	}

	match := weightPattern.FindStringSubmatch(gvwrText)
	if match == nil {
		return nil
	}

	pounds, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
	if err != nil {
		return nil
	}

	return &pounds
}
