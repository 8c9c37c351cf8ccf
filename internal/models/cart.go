package models

// LensSelection est la configuration de verres attachée à une ligne du
// panier : un type, zéro ou plusieurs traitements, au plus un
// amincissement. Les noms et prix sont figés au moment de la sélection.
type LensSelection struct {
	LensType      string       `json:"lens_type,omitempty"` // "unifocaux", "progressifs", "mi-distance", "sans-correction"
	TypeOption    *LensChoice  `json:"type_option,omitempty"`
	Traitements   []LensChoice `json:"traitements,omitempty"`
	Amincissement *LensChoice  `json:"amincissement,omitempty"`
}

type LensChoice struct {
	OptionID string  `json:"option_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
}

// TotalPrice additionne le prix de toutes les options sélectionnées.
func (s *LensSelection) TotalPrice() float64 {
	if s == nil {
		return 0
	}
	var total float64
	if s.TypeOption != nil {
		total += s.TypeOption.Price
	}
	for _, t := range s.Traitements {
		total += t.Price
	}
	if s.Amincissement != nil {
		total += s.Amincissement.Price
	}
	return total
}

// Prescription : correction saisie manuellement par œil, ou fichier
// téléversé (URL opaque MinIO). Les deux modes sont exclusifs côté UI
// mais le modèle accepte les deux.
type Prescription struct {
	RightEye          *EyeCorrection `json:"right_eye,omitempty"`
	LeftEye           *EyeCorrection `json:"left_eye,omitempty"`
	PupillaryDistance *float64       `json:"pupillary_distance,omitempty"`
	FileURL           string         `json:"file_url,omitempty"`
}

type EyeCorrection struct {
	Sphere   float64  `json:"sphere"`
	Cylinder *float64 `json:"cylinder,omitempty"`
	Axis     *int     `json:"axis,omitempty"`
	Addition *float64 `json:"addition,omitempty"`
}

type CartItem struct {
	VariantID            string         `json:"variant_id"`
	ProductID            string         `json:"product_id"`
	ProductName          string         `json:"product_name"`
	ProductSlug          string         `json:"product_slug"`
	BrandName            string         `json:"brand_name,omitempty"`
	ColorName            string         `json:"color_name"`
	Size                 string         `json:"size,omitempty"`
	ImageURL             string         `json:"image_url,omitempty"`
	UnitPrice            float64        `json:"unit_price"`
	Quantity             int            `json:"quantity"`
	Lens                 *LensSelection `json:"lens,omitempty"`
	Prescription         *Prescription  `json:"prescription,omitempty"`
	RequiresPrescription bool           `json:"requires_prescription"`
}

// LinePrice : prix unitaire de la monture + options de verres.
func (i CartItem) LinePrice() float64 {
	return i.UnitPrice + i.Lens.TotalPrice()
}

// SameConfiguration indique si deux lignes portent la même variante et
// la même configuration de verres (auquel cas un ajout fusionne les
// quantités au lieu de créer une deuxième ligne).
func (i CartItem) SameConfiguration(other CartItem) bool {
	if i.VariantID != other.VariantID {
		return false
	}
	return lensKey(i.Lens) == lensKey(other.Lens)
}

func lensKey(s *LensSelection) string {
	if s == nil {
		return ""
	}
	key := s.LensType
	if s.TypeOption != nil {
		key += "|" + s.TypeOption.OptionID
	}
	for _, t := range s.Traitements {
		key += "|" + t.OptionID
	}
	if s.Amincissement != nil {
		key += "|" + s.Amincissement.OptionID
	}
	return key
}

// AddCartItem fusionne l'item sur une ligne existante de même
// configuration, sinon l'ajoute en fin de panier.
func AddCartItem(cart []CartItem, item CartItem) []CartItem {
	for i := range cart {
		if cart[i].SameConfiguration(item) {
			cart[i].Quantity += item.Quantity
			return cart
		}
	}
	return append(cart, item)
}

// UpdateCartQuantity fixe la quantité d'une ligne. Une quantité < 1 est
// ignorée : la suppression passe par RemoveCartItem, jamais par une
// décrémentation.
func UpdateCartQuantity(cart []CartItem, variantID string, quantity int) []CartItem {
	if quantity < 1 {
		return cart
	}
	for i := range cart {
		if cart[i].VariantID == variantID {
			cart[i].Quantity = quantity
			break
		}
	}
	return cart
}

// RemoveCartItem retire toutes les lignes portant la variante.
func RemoveCartItem(cart []CartItem, variantID string) []CartItem {
	out := make([]CartItem, 0, len(cart))
	for _, item := range cart {
		if item.VariantID != variantID {
			out = append(out, item)
		}
	}
	return out
}
