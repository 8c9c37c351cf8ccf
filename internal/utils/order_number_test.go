package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	n := GenerateOrderNumber(42, now)
	assert.True(t, IsOrderNumber(n), "numéro mal formé: %s", n)
	assert.Contains(t, n, "VO-2026-0042-")
}

func TestGenerateOrderNumberLargeSequence(t *testing.T) {
	now := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)

	// La séquence déborde les 4 chiffres sans tronquer
	n := GenerateOrderNumber(123456, now)
	assert.True(t, IsOrderNumber(n))
	assert.Contains(t, n, "-123456-")
}

func TestGenerateOrderNumberSuffixVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[GenerateOrderNumber(1, now)] = true
	}
	// Le suffixe aléatoire doit produire des numéros différents pour une
	// même séquence (c'est lui qui absorbe les collisions de retry)
	assert.Greater(t, len(seen), 1)
}

func TestIsOrderNumber(t *testing.T) {
	valid := []string{"VO-2026-0001-ABC", "VO-2025-99999-Z9Z"}
	for _, n := range valid {
		assert.True(t, IsOrderNumber(n), n)
	}

	invalid := []string{
		"",
		"VO-2026-0001",        // pas de suffixe
		"XX-2026-0001-ABC",    // mauvais préfixe
		"VO-26-0001-ABC",      // année courte
		"VO-2026-001-ABC",     // séquence trop courte
		"vo-2026-0001-abc",    // minuscules
		"VO-2026-0001-ABCD",   // suffixe trop long
	}
	for _, n := range invalid {
		assert.False(t, IsOrderNumber(n), n)
	}
}
