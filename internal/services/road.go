package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var roadSuffixes = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"av":        "ave",
	"road":      "rd",
	"drive":     "dr",
	"lane":      "ln",
	"boulevard": "blvd",
	"court":     "ct",
	"place":     "pl",
	"terrace":   "ter",
	"circle":    "cir",
	"parkway":   "pkwy",
	"highway":   "hwy",
	"way":       "way",
}

var unitDesignators = map[string]struct{}{
	"apt":   {},
	"unit":  {},
	"suite": {},
	"ste":   {},
	"lot":   {},
}

var roadTitle = cases.Title(language.English)

// RoadFromAddress extracts a normalized road key from a street address,
// e.g. "123 Oak Street, Springfield" -> "oak st". It returns "" when the
// address carries no usable road token.
func RoadFromAddress(address string) string {
	first, _, _ := strings.Cut(address, ",")
	words := strings.Fields(strings.ToLower(first))

	// Leading house numbers: "123", "12a", "12-14", "1/2". Ordinals ("5th") are road names.
	for len(words) > 0 && isHouseNumber(words[0]) {
		words = words[1:]
	}

	out := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		w := strings.TrimFunc(words[i], func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '#'
		})
		if w == "" {
			continue
		}
		if strings.HasPrefix(w, "#") {
			break
		}
		if _, ok := unitDesignators[w]; ok {
			break
		}
		if canon, ok := roadSuffixes[w]; ok {
			w = canon
		}
		out = append(out, w)
	}

	return strings.Join(out, " ")
}

// DisplayRoad renders a normalized road key for presentation ("oak st" -> "Oak St").
func DisplayRoad(key string) string {
	return roadTitle.String(key)
}

// roadSimilarity scores two normalized road keys in [0,1]: 1 when identical,
// the token Jaccard index otherwise, and 0 when either is unknown.
func roadSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	ta := strings.Fields(a)
	tb := strings.Fields(b)

	set := make(map[string]uint8, len(ta)+len(tb))
	for _, t := range ta {
		set[t] |= 1
	}
	for _, t := range tb {
		set[t] |= 2
	}

	inter := 0
	for _, v := range set {
		if v == 3 {
			inter++
		}
	}

	return float64(inter) / float64(len(set))
}

func isHouseNumber(w string) bool {
	w = strings.TrimRight(w, ".,")
	if w == "" || !unicode.IsDigit(rune(w[0])) {
		return false
	}

	digits := strings.TrimLeftFunc(w, unicode.IsDigit)
	switch digits {
	case "st", "nd", "rd", "th":
		return false
	}
	return true
}
