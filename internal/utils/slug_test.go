package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Monture Horizon":        "monture-horizon",
		"Lunettes de Soleil Été": "lunettes-de-soleil-ete",
		"Cœur d'Açaï":            "coeur-d-acai",
		"  espaces  multiples  ": "espaces-multiples",
		"Prix: 129,90 €":         "prix-129-90",
		"déjà-un-slug":           "deja-un-slug",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, Slugify(input), "input: %q", input)
	}
}

func TestSlugifyEmpty(t *testing.T) {
	assert.Equal(t, "", Slugify(""))
	assert.Equal(t, "", Slugify("!!!"))
}
