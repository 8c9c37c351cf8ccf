package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePromoCode(t *testing.T) {
	assert.Equal(t, "SOLEIL20", NormalizePromoCode("  soleil20 "))
	assert.Equal(t, "BIENVENUE", NormalizePromoCode("Bienvenue"))
}

func TestEvaluateValidPromo(t *testing.T) {
	promo := Promotion{
		Code:          "SOLEIL20",
		Name:          "Offre solaire",
		DiscountType:  DiscountPercentage,
		DiscountValue: 20,
	}
	v := promo.Evaluate(100.00, time.Now())

	assert.True(t, v.IsValid)
	assert.Equal(t, "SOLEIL20", v.Code)
	assert.Equal(t, DiscountPercentage, v.DiscountType)
	assert.Equal(t, 20.0, v.DiscountValue)
}

func TestEvaluateNotStarted(t *testing.T) {
	starts := time.Now().Add(24 * time.Hour)
	promo := Promotion{Code: "NOEL", StartsAt: &starts}

	v := promo.Evaluate(100.00, time.Now())
	assert.False(t, v.IsValid)
	assert.Equal(t, PromoNotStarted, v.Reason)
}

func TestEvaluateExpired(t *testing.T) {
	ends := time.Now().Add(-time.Hour)
	promo := Promotion{Code: "ETE", EndsAt: &ends}

	v := promo.Evaluate(100.00, time.Now())
	assert.False(t, v.IsValid)
	assert.Equal(t, PromoExpired, v.Reason)
}

func TestEvaluateMinimumNotMet(t *testing.T) {
	minimum := 150.00
	promo := Promotion{Code: "GROS", MinOrderAmount: &minimum}

	v := promo.Evaluate(149.99, time.Now())
	assert.False(t, v.IsValid)
	assert.Equal(t, PromoMinimumNotMet, v.Reason)
	assert.Contains(t, v.ErrorMessage, "150.00")

	// Pile au minimum : valide
	assert.True(t, promo.Evaluate(150.00, time.Now()).IsValid)
}

func TestEvaluateWindowBounds(t *testing.T) {
	now := time.Now()
	starts := now.Add(-time.Hour)
	ends := now.Add(time.Hour)
	promo := Promotion{Code: "FENETRE", StartsAt: &starts, EndsAt: &ends}

	assert.True(t, promo.Evaluate(50.00, now).IsValid)
}
