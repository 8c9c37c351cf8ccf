package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocql/gocql"
)

// Types de remise
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Raisons de rejet d'un code promo, exposées telles quelles au front
// pour afficher un message actionnable.
const (
	PromoNotFound      = "not_found"
	PromoNotStarted    = "not_started"
	PromoExpired       = "expired"
	PromoMinimumNotMet = "minimum_not_met"
)

type Promotion struct {
	ID             gocql.UUID `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description,omitempty"`
	Code           string     `json:"code,omitempty"`
	DiscountType   string     `json:"discount_type"`
	DiscountValue  float64    `json:"discount_value"`
	IsActive       bool       `json:"is_active"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	MinOrderAmount *float64   `json:"min_order_amount,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type PromotionValidation struct {
	IsValid       bool    `json:"is_valid"`
	Reason        string  `json:"reason,omitempty"`
	ErrorMessage  string  `json:"error_message,omitempty"`
	Code          string  `json:"code,omitempty"`
	Name          string  `json:"name,omitempty"`
	DiscountType  string  `json:"discount_type,omitempty"`
	DiscountValue float64 `json:"discount_value,omitempty"`
}

// NormalizePromoCode : les codes sont saisis sans casse, stockés en
// majuscules.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Evaluate vérifie la fenêtre d'activité et le montant minimum à
// l'instant donné. Le montant de la remise n'est jamais repris du
// client : l'appelant le recalcule via pricing.Discount.
func (p Promotion) Evaluate(orderTotal float64, now time.Time) PromotionValidation {
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return PromotionValidation{
			IsValid:      false,
			Reason:       PromoNotStarted,
			ErrorMessage: "Ce code promo n'est pas encore actif",
		}
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return PromotionValidation{
			IsValid:      false,
			Reason:       PromoExpired,
			ErrorMessage: "Ce code promo a expiré",
		}
	}
	if p.MinOrderAmount != nil && orderTotal < *p.MinOrderAmount {
		return PromotionValidation{
			IsValid:      false,
			Reason:       PromoMinimumNotMet,
			ErrorMessage: fmt.Sprintf("Montant minimum de commande : %.2f€", *p.MinOrderAmount),
		}
	}
	return PromotionValidation{
		IsValid:       true,
		Code:          p.Code,
		Name:          p.Name,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
	}
}
