package pricing

import (
	"testing"

	"visionnaire_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func cartItem(unitPrice float64, quantity int, lensPrice float64) models.CartItem {
	item := models.CartItem{UnitPrice: unitPrice, Quantity: quantity}
	if lensPrice > 0 {
		item.Lens = &models.LensSelection{
			TypeOption: &models.LensChoice{OptionID: "type", Price: lensPrice},
		}
	}
	return item
}

func TestSubtotal(t *testing.T) {
	items := []models.CartItem{
		cartItem(129.00, 1, 90.00), // monture + verres
		cartItem(45.50, 2, 0),      // solaire sans correction
	}
	assert.Equal(t, 310.00, Subtotal(items))
}

func TestSubtotalEmptyCart(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestShippingBoutiqueAlwaysFree(t *testing.T) {
	assert.Equal(t, 0.0, Shipping(models.DeliveryBoutique, 10.00))
	assert.Equal(t, 0.0, Shipping(models.DeliveryBoutique, 500.00))
}

func TestShippingDomicile(t *testing.T) {
	assert.Equal(t, ShippingCost, Shipping(models.DeliveryDomicile, 149.99))
	assert.Equal(t, 0.0, Shipping(models.DeliveryDomicile, 150.00))
	assert.Equal(t, 0.0, Shipping(models.DeliveryDomicile, 300.00))
}

func TestDiscountPercentage(t *testing.T) {
	assert.Equal(t, 20.00, Discount(models.DiscountPercentage, 10, 200.00))
	assert.Equal(t, 29.99, Discount(models.DiscountPercentage, 10, 299.90))
}

func TestDiscountFixedClampedToBase(t *testing.T) {
	assert.Equal(t, 15.00, Discount(models.DiscountFixed, 15, 200.00))
	// Une remise fixe supérieure au montant est plafonnée
	assert.Equal(t, 30.00, Discount(models.DiscountFixed, 50, 30.00))
}

func TestDiscountDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, Discount(models.DiscountPercentage, 10, 0))
	assert.Equal(t, 0.0, Discount(models.DiscountFixed, 0, 100))
	assert.Equal(t, 0.0, Discount("inconnu", 10, 100))
}

func TestComputeWithoutPromo(t *testing.T) {
	items := []models.CartItem{cartItem(99.00, 1, 0)}
	totals := Compute(items, models.DeliveryDomicile, nil)

	assert.Equal(t, 99.00, totals.Subtotal)
	assert.Equal(t, ShippingCost, totals.ShippingCost)
	assert.Equal(t, 0.0, totals.DiscountAmount)
	assert.Equal(t, 105.90, totals.Total)
}

func TestComputeFreeShippingWithPromo(t *testing.T) {
	items := []models.CartItem{cartItem(200.00, 1, 0)}
	promo := &models.Promotion{DiscountType: models.DiscountPercentage, DiscountValue: 10}
	totals := Compute(items, models.DeliveryDomicile, promo)

	// Le seuil de gratuité s'évalue sur le sous-total avant remise
	assert.Equal(t, 0.0, totals.ShippingCost)
	assert.Equal(t, 20.00, totals.DiscountAmount)
	assert.Equal(t, 180.00, totals.Total)
}

func TestComputeTotalNeverNegative(t *testing.T) {
	promo := &models.Promotion{DiscountType: models.DiscountFixed, DiscountValue: 500}
	totals := ComputeFromSubtotal(30.00, models.DeliveryBoutique, promo)

	assert.Equal(t, 30.00, totals.DiscountAmount)
	assert.Equal(t, 0.0, totals.Total)
}

func TestOrderSubtotal(t *testing.T) {
	items := []models.OrderItem{
		{UnitPrice: 129.00, LensOptionsPrice: 90.00, Quantity: 1},
		{UnitPrice: 45.50, Quantity: 2},
	}
	assert.Equal(t, 310.00, OrderSubtotal(items))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 10.01, Round(10.006))
	assert.Equal(t, 10.0, Round(10.0049))
	// Le classique des flottants : 0.1+0.2
	assert.Equal(t, 0.3, Round(0.1+0.2))
}

func TestVATBreakdown(t *testing.T) {
	net, vat := VATBreakdown(120.00)
	assert.Equal(t, 100.00, net)
	assert.Equal(t, 20.00, vat)
}
