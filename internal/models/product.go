package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Catégories et genres du catalogue optique
const (
	CategoryVue    = "vue"
	CategorySoleil = "soleil"
	CategorySki    = "ski"
	CategorySport  = "sport"
	CategoryEnfant = "enfant"

	GenderHomme  = "homme"
	GenderFemme  = "femme"
	GenderMixte  = "mixte"
	GenderEnfant = "enfant"
)

var ProductCategories = []string{CategoryVue, CategorySoleil, CategorySki, CategorySport, CategoryEnfant}

var ProductGenders = []string{GenderHomme, GenderFemme, GenderMixte, GenderEnfant}

func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

func IsValidGender(gender string) bool {
	for _, g := range ProductGenders {
		if g == gender {
			return true
		}
	}
	return false
}

// RequiresPrescription : seules les lunettes de vue passent par la
// validation d'ordonnance.
func RequiresPrescription(category string) bool {
	return category == CategoryVue
}

type Product struct {
	ID                   gocql.UUID  `json:"id"`
	Name                 string      `json:"name"`
	Slug                 string      `json:"slug"`
	Description          string      `json:"description,omitempty"`
	Category             string      `json:"category"`
	Gender               string      `json:"gender"`
	BrandID              *gocql.UUID `json:"brand_id,omitempty"`
	BasePrice            float64     `json:"base_price"`
	IsActive             bool        `json:"is_active"`
	IsFeatured           bool        `json:"is_featured"`
	RequiresPrescription bool        `json:"requires_prescription"`
	FrameShape           string      `json:"frame_shape,omitempty"`
	FrameMaterial        string      `json:"frame_material,omitempty"`
	FrameColor           string      `json:"frame_color,omitempty"`
	MetaTitle            string      `json:"meta_title,omitempty"`
	MetaDescription      string      `json:"meta_description,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

type ProductVariant struct {
	ID            gocql.UUID `json:"id"`
	ProductID     gocql.UUID `json:"product_id"`
	SKU           string     `json:"sku,omitempty"`
	ColorName     string     `json:"color_name"`
	ColorHex      string     `json:"color_hex,omitempty"`
	Size          string     `json:"size,omitempty"`
	PriceOverride *float64   `json:"price_override,omitempty"`
	StockQuantity int        `json:"stock_quantity"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UnitPrice retourne le prix applicable à la variante : le price_override
// s'il existe, sinon le prix de base du produit.
func (v ProductVariant) UnitPrice(basePrice float64) float64 {
	if v.PriceOverride != nil {
		return *v.PriceOverride
	}
	return basePrice
}

type Brand struct {
	ID          gocql.UUID `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	LogoURL     string     `json:"logo_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Catégories d'options de verres
const (
	LensCategoryType          = "type"
	LensCategoryTraitement    = "traitement"
	LensCategoryAmincissement = "amincissement"
)

type LensOption struct {
	ID          gocql.UUID `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"`
	IsActive    bool       `json:"is_active"`
	SortOrder   int        `json:"sort_order"`
	CreatedAt   time.Time  `json:"created_at"`
}

func IsValidLensCategory(category string) bool {
	return category == LensCategoryType ||
		category == LensCategoryTraitement ||
		category == LensCategoryAmincissement
}

type StockMovement struct {
	ID        gocql.UUID  `json:"id"`
	VariantID gocql.UUID  `json:"variant_id"`
	Type      string      `json:"type"` // "restock", "adjustment", "sale", "return"
	Quantity  int         `json:"quantity"`
	PrevStock int         `json:"prev_stock"`
	NewStock  int         `json:"new_stock"`
	Reason    string      `json:"reason"`
	OrderID   *gocql.UUID `json:"order_id,omitempty"`
	UserID    string      `json:"user_id"`
	CreatedAt time.Time   `json:"created_at"`
}

// CategoryLabel retourne le libellé français d'une catégorie.
func CategoryLabel(category string) string {
	labels := map[string]string{
		CategoryVue:    "Lunettes de vue",
		CategorySoleil: "Lunettes de soleil",
		CategorySki:    "Masques de ski",
		CategorySport:  "Sport",
		CategoryEnfant: "Enfant",
	}
	if l, ok := labels[category]; ok {
		return l
	}
	return category
}

func GenderLabel(gender string) string {
	labels := map[string]string{
		GenderHomme:  "Homme",
		GenderFemme:  "Femme",
		GenderMixte:  "Mixte",
		GenderEnfant: "Enfant",
	}
	if l, ok := labels[gender]; ok {
		return l
	}
	return gender
}
