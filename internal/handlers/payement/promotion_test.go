package payement

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromotionUpdatesPartialBody(t *testing.T) {
	// Désactivation seule : aucune autre colonne ne doit apparaître
	// dans la clause SET
	inactive := false
	updates, values := buildPromotionUpdates(promotionUpdateRequest{IsActive: &inactive})

	require.Len(t, updates, 1)
	assert.Equal(t, "is_active = ?", updates[0])
	require.Len(t, values, 1)
	assert.Equal(t, false, values[0])
}

func TestBuildPromotionUpdatesAllFields(t *testing.T) {
	name := "Soldes d'été"
	description := "Remise estivale"
	discountType := "percentage"
	discountValue := 15.0
	active := true
	startsAt := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	endsAt := time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
	minAmount := 100.0

	updates, values := buildPromotionUpdates(promotionUpdateRequest{
		Name:           &name,
		Description:    &description,
		DiscountType:   &discountType,
		DiscountValue:  &discountValue,
		IsActive:       &active,
		StartsAt:       &startsAt,
		EndsAt:         &endsAt,
		MinOrderAmount: &minAmount,
	})

	require.Len(t, updates, 8)
	require.Len(t, values, 8)
	clause := strings.Join(updates, ", ")
	assert.Contains(t, clause, "name = ?")
	assert.Contains(t, clause, "discount_value = ?")
	assert.Contains(t, clause, "min_order_amount = ?")
}

func TestBuildPromotionUpdatesEmptyBody(t *testing.T) {
	updates, values := buildPromotionUpdates(promotionUpdateRequest{})
	assert.Empty(t, updates)
	assert.Empty(t, values)
}

func TestCentAmount(t *testing.T) {
	// Montants que float64 stocke juste en dessous de leur valeur
	// décimale : une troncature rendrait un centime de moins
	assert.Equal(t, int64(29), centAmount(0.29))
	assert.Equal(t, int64(57), centAmount(0.57))
	assert.Equal(t, int64(113), centAmount(1.13))

	assert.Equal(t, int64(0), centAmount(0))
	assert.Equal(t, int64(690), centAmount(6.90))
	assert.Equal(t, int64(27900), centAmount(279.00))
}

func TestCentAmountNeverLosesACent(t *testing.T) {
	// Balayage de tous les montants à deux décimales jusqu'à 100 €
	for cents := int64(1); cents <= 10000; cents++ {
		total := float64(cents) / 100
		require.Equal(t, cents, centAmount(total), "montant %.2f", total)
	}
}
