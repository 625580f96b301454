package models

import "strings"

// Industries is the fixed list a company profile may choose from.
var Industries = []string{
	"Technology",
	"Finance",
	"Healthcare",
	"Manufacturing",
	"Retail",
	"Education",
	"Consulting",
	"Real Estate",
	"Marketing",
	"Logistics",
	"Energy",
	"Other",
}

// NormalizeIndustry returns the canonical spelling of s, matched
// case-insensitively, and whether it is in Industries.
func NormalizeIndustry(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, i := range Industries {
		if strings.EqualFold(i, s) {
			return i, true
		}
	}
	return "", false
}
