// Package pricing calcule les montants d'un panier : sous-total, frais
// de port, remise et total. Tout est pur — les handlers rechargent les
// prix catalogue puis délèguent ici, sans jamais faire confiance à un
// montant envoyé par le client.
package pricing

import (
	"math"

	"visionnaire_back_end/internal/models"
)

const (
	// Livraison à domicile : forfait sous le seuil, offerte au-delà.
	ShippingCost          = 6.90
	FreeShippingThreshold = 150.00

	// TVA française sur l'optique, incluse dans les prix TTC stockés.
	VATRate = 0.20
)

// Round arrondit au centime.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Subtotal : Σ (monture + verres) × quantité.
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LinePrice() * float64(item.Quantity)
	}
	return Round(total)
}

// Shipping : 0 pour un retrait en boutique ou un sous-total au-dessus du
// seuil, sinon le forfait.
func Shipping(deliveryMethod string, subtotal float64) float64 {
	if deliveryMethod == models.DeliveryBoutique {
		return 0
	}
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return ShippingCost
}

// Discount calcule la remise d'une promotion sur un montant. Une remise
// fixe est plafonnée au montant lui-même; le résultat n'est jamais
// négatif.
func Discount(discountType string, discountValue, base float64) float64 {
	if base <= 0 || discountValue <= 0 {
		return 0
	}
	var discount float64
	switch discountType {
	case models.DiscountPercentage:
		discount = base * (discountValue / 100)
	case models.DiscountFixed:
		discount = math.Min(discountValue, base)
	default:
		return 0
	}
	return Round(discount)
}

// Totals regroupe les montants calculés pour une commande.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	ShippingCost   float64 `json:"shipping_cost"`
	DiscountAmount float64 `json:"discount_amount"`
	Total          float64 `json:"total"`
}

// Compute dérive tous les montants d'un panier. promo peut être nil
// (pas de code appliqué). total = subtotal − discount + shipping,
// arrondi au centime, jamais négatif.
func Compute(items []models.CartItem, deliveryMethod string, promo *models.Promotion) Totals {
	return ComputeFromSubtotal(Subtotal(items), deliveryMethod, promo)
}

// OrderSubtotal : même calcul que Subtotal, sur des lignes de commande
// déjà re-tarifées.
func OrderSubtotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return Round(total)
}

// ComputeFromSubtotal dérive port, remise et total d'un sous-total déjà
// établi.
func ComputeFromSubtotal(subtotal float64, deliveryMethod string, promo *models.Promotion) Totals {
	shipping := Shipping(deliveryMethod, subtotal)

	var discount float64
	if promo != nil {
		discount = Discount(promo.DiscountType, promo.DiscountValue, subtotal)
	}

	total := Round(subtotal - discount + shipping)
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:       subtotal,
		ShippingCost:   shipping,
		DiscountAmount: discount,
		Total:          total,
	}
}

// VATBreakdown extrait le HT et la TVA d'un montant TTC (taux fixe 20 %
// inclus dans les prix stockés).
func VATBreakdown(gross float64) (net, vat float64) {
	net = Round(gross / (1 + VATRate))
	vat = Round(gross - net)
	return net, vat
}
