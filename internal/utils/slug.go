package utils

import (
	"regexp"
	"strings"
)

var accentReplacer = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
	"œ", "oe", "æ", "ae",
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalise un nom en slug URL : minuscules, accents retirés,
// tout le reste remplacé par des tirets.
func Slugify(text string) string {
	s := strings.ToLower(text)
	s = accentReplacer.Replace(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
