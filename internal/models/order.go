package models

import (
	"errors"
	"time"

	"github.com/gocql/gocql"
)

// Statuts du cycle de vie d'une commande
const (
	StatusEnAttentePaiement      = "en_attente_paiement"
	StatusPayee                  = "payee"
	StatusOrdonnanceEnValidation = "ordonnance_en_validation"
	StatusOrdonnanceValidee      = "ordonnance_validee"
	StatusOrdonnanceRefusee      = "ordonnance_refusee"
	StatusEnFabrication          = "en_fabrication"
	StatusExpediee               = "expediee"
	StatusPreteEnBoutique        = "prete_en_boutique"
	StatusLivree                 = "livree"
	StatusAnnulee                = "annulee"
)

// Modes de livraison et de paiement
const (
	DeliveryDomicile = "domicile"
	DeliveryBoutique = "boutique"

	PaymentStripe = "stripe"
	PaymentAlma   = "alma"
)

var ErrInvalidTransition = errors.New("transition de statut non autorisée")

// nextStatuses : transitions autorisées depuis chaque statut. livree et
// annulee sont terminaux.
var nextStatuses = map[string][]string{
	StatusEnAttentePaiement:      {StatusPayee, StatusAnnulee},
	StatusPayee:                  {StatusOrdonnanceEnValidation, StatusEnFabrication, StatusAnnulee},
	StatusOrdonnanceEnValidation: {StatusOrdonnanceValidee, StatusOrdonnanceRefusee},
	StatusOrdonnanceValidee:      {StatusEnFabrication},
	StatusOrdonnanceRefusee:      {StatusOrdonnanceEnValidation, StatusAnnulee},
	StatusEnFabrication:          {StatusExpediee, StatusPreteEnBoutique},
	StatusExpediee:               {StatusLivree},
	StatusPreteEnBoutique:        {StatusLivree},
	StatusLivree:                 {},
	StatusAnnulee:                {},
}

func IsValidStatus(status string) bool {
	_, ok := nextStatuses[status]
	return ok
}

// NextStatuses retourne les statuts atteignables depuis le statut
// courant (ce que l'interface admin doit proposer).
func NextStatuses(current string) []string {
	next, ok := nextStatuses[current]
	if !ok {
		return nil
	}
	out := make([]string, len(next))
	copy(out, next)
	return out
}

// CanTransition vérifie la table des transitions. L'opération serveur
// doit toujours repasser par ici, même si l'interface n'a proposé que
// des cibles valides (défense contre un client périmé).
func CanTransition(current, target string) bool {
	for _, s := range nextStatuses[current] {
		if s == target {
			return true
		}
	}
	return false
}

func IsTerminalStatus(status string) bool {
	next, ok := nextStatuses[status]
	return ok && len(next) == 0
}

type Order struct {
	ID             gocql.UUID `json:"id"`
	OrderNumber    string     `json:"order_number"`
	ProfileID      string     `json:"profile_id"`
	Status         string     `json:"status"`
	DeliveryMethod string     `json:"delivery_method"`
	PaymentMethod  string     `json:"payment_method"`
	Subtotal       float64    `json:"subtotal"`
	ShippingCost   float64    `json:"shipping_cost"`
	DiscountAmount float64    `json:"discount_amount"`
	Total          float64    `json:"total"`
	PromoCode      string     `json:"promo_code,omitempty"`

	StripePaymentIntentID string `json:"stripe_payment_intent_id,omitempty"`
	AlmaPaymentID         string `json:"alma_payment_id,omitempty"`

	ShippingFirstName  string `json:"shipping_first_name,omitempty"`
	ShippingLastName   string `json:"shipping_last_name,omitempty"`
	ShippingStreet     string `json:"shipping_street,omitempty"`
	ShippingStreet2    string `json:"shipping_street_2,omitempty"`
	ShippingCity       string `json:"shipping_city,omitempty"`
	ShippingPostalCode string `json:"shipping_postal_code,omitempty"`
	ShippingCountry    string `json:"shipping_country,omitempty"`

	BillingStreet     string `json:"billing_street,omitempty"`
	BillingCity       string `json:"billing_city,omitempty"`
	BillingPostalCode string `json:"billing_postal_code,omitempty"`

	TrackingNumber string    `json:"tracking_number,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Items   []OrderItem          `json:"items,omitempty"`
	History []OrderStatusHistory `json:"history,omitempty"`
}

// OrderItem fige le nom du produit, la variante et le prix unitaire au
// moment de la commande. Seul prescription_validated est mutable ensuite.
type OrderItem struct {
	ID                 gocql.UUID `json:"id"`
	OrderID            gocql.UUID `json:"order_id"`
	VariantID          gocql.UUID `json:"variant_id"`
	ProductName        string     `json:"product_name"`
	VariantInfo        string     `json:"variant_info,omitempty"`
	Quantity           int        `json:"quantity"`
	UnitPrice          float64    `json:"unit_price"`
	LensType           string     `json:"lens_type,omitempty"`
	LensOptionsSummary string     `json:"lens_options_summary,omitempty"`
	LensOptionsPrice   float64    `json:"lens_options_price"`
	PrescriptionURL    string     `json:"prescription_url,omitempty"`
	// nil = en attente, true = validée, false = refusée
	PrescriptionValidated *bool         `json:"prescription_validated,omitempty"`
	PrescriptionData      *Prescription `json:"prescription_data,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
}

// LineTotal : (monture + verres) × quantité.
func (i OrderItem) LineTotal() float64 {
	return (i.UnitPrice + i.LensOptionsPrice) * float64(i.Quantity)
}

type OrderStatusHistory struct {
	ID        gocql.UUID `json:"id"`
	OrderID   gocql.UUID `json:"order_id"`
	Status    string     `json:"status"`
	Comment   string     `json:"comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// OrderStatusLabel retourne le libellé français d'un statut.
func OrderStatusLabel(status string) string {
	labels := map[string]string{
		StatusEnAttentePaiement:      "En attente de paiement",
		StatusPayee:                  "Payée",
		StatusOrdonnanceEnValidation: "Ordonnance en validation",
		StatusOrdonnanceValidee:      "Ordonnance validée",
		StatusOrdonnanceRefusee:      "Ordonnance refusée",
		StatusEnFabrication:          "En fabrication",
		StatusExpediee:               "Expédiée",
		StatusPreteEnBoutique:        "Prête en boutique",
		StatusLivree:                 "Livrée",
		StatusAnnulee:                "Annulée",
	}
	if l, ok := labels[status]; ok {
		return l
	}
	return status
}
