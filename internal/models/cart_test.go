package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lensUnifocaux() *LensSelection {
	return &LensSelection{
		LensType:   "unifocaux",
		TypeOption: &LensChoice{OptionID: "opt-unifocaux", Name: "Unifocaux", Price: 90},
		Traitements: []LensChoice{
			{OptionID: "opt-antireflet", Name: "Anti-reflet", Price: 30},
		},
	}
}

func TestAddCartItemMergesSameConfiguration(t *testing.T) {
	cart := AddCartItem(nil, CartItem{VariantID: "v1", Quantity: 1, Lens: lensUnifocaux()})
	cart = AddCartItem(cart, CartItem{VariantID: "v1", Quantity: 2, Lens: lensUnifocaux()})

	assert.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)
}

func TestAddCartItemDifferentLensesStaySeparate(t *testing.T) {
	other := lensUnifocaux()
	other.Traitements = nil

	cart := AddCartItem(nil, CartItem{VariantID: "v1", Quantity: 1, Lens: lensUnifocaux()})
	cart = AddCartItem(cart, CartItem{VariantID: "v1", Quantity: 1, Lens: other})

	assert.Len(t, cart, 2)
}

func TestAddCartItemDifferentVariants(t *testing.T) {
	cart := AddCartItem(nil, CartItem{VariantID: "v1", Quantity: 1})
	cart = AddCartItem(cart, CartItem{VariantID: "v2", Quantity: 1})

	assert.Len(t, cart, 2)
}

func TestUpdateCartQuantity(t *testing.T) {
	cart := []CartItem{{VariantID: "v1", Quantity: 1}}

	cart = UpdateCartQuantity(cart, "v1", 4)
	assert.Equal(t, 4, cart[0].Quantity)

	// Quantité < 1 ignorée, la suppression est une opération distincte
	cart = UpdateCartQuantity(cart, "v1", 0)
	assert.Equal(t, 4, cart[0].Quantity)

	// Variante inconnue : panier inchangé
	cart = UpdateCartQuantity(cart, "v9", 2)
	assert.Equal(t, 4, cart[0].Quantity)
}

func TestRemoveCartItem(t *testing.T) {
	cart := []CartItem{
		{VariantID: "v1", Quantity: 1},
		{VariantID: "v2", Quantity: 2},
	}

	cart = RemoveCartItem(cart, "v1")
	assert.Len(t, cart, 1)
	assert.Equal(t, "v2", cart[0].VariantID)

	// Suppression idempotente
	cart = RemoveCartItem(cart, "v1")
	assert.Len(t, cart, 1)
}

func TestLinePrice(t *testing.T) {
	item := CartItem{UnitPrice: 129.00, Lens: lensUnifocaux()}
	assert.Equal(t, 249.00, item.LinePrice())

	bare := CartItem{UnitPrice: 45.50}
	assert.Equal(t, 45.50, bare.LinePrice())
}

func TestLensSelectionTotalPrice(t *testing.T) {
	var none *LensSelection
	assert.Equal(t, 0.0, none.TotalPrice())

	full := &LensSelection{
		TypeOption:    &LensChoice{Price: 90},
		Traitements:   []LensChoice{{Price: 30}, {Price: 25}},
		Amincissement: &LensChoice{Price: 60},
	}
	assert.Equal(t, 205.0, full.TotalPrice())
}
