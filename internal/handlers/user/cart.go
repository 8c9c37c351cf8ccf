package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Durée de vie d'un panier inactif dans Redis
const cartTTL = 30 * 24 * time.Hour

var errOptionInvalide = errors.New("option de verres invalide ou indisponible")

func cartKey(userID string) string {
	return "cart:" + userID
}

func loadCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	data, err := database.Redis.Get(ctx, cartKey(userID)).Result()
	if err != nil || data == "" {
		return []models.CartItem{}, nil
	}
	var cart []models.CartItem
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func saveCart(ctx context.Context, userID string, cart []models.CartItem) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return database.Redis.Set(ctx, cartKey(userID), data, cartTTL).Err()
}

func cartTotal(cart []models.CartItem) float64 {
	var total float64
	for _, item := range cart {
		total += item.LinePrice() * float64(item.Quantity)
	}
	return total
}

//
// 🟢 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	cart, err := loadCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cart, "total": cartTotal(cart)})
}

//
// 🟢 POST /api/cart/items
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		VariantID    string                `json:"variant_id"`
		Quantity     int                   `json:"quantity"`
		Lens         *models.LensSelection `json:"lens,omitempty"`
		Prescription *models.Prescription  `json:"prescription,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	variantID, err := uuid.Parse(input.VariantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Variante + produit depuis ScyllaDB : le client n'envoie jamais de prix
	var (
		productUUID   gocql.UUID
		colorName     string
		size          string
		priceOverride *float64
		stockQuantity int
		variantActive bool
	)
	pricingQuery, err := database.QueryVariantPricing(gocql.UUID(variantID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}
	err = pricingQuery.Scan(&productUUID, &colorName, &size, &priceOverride, &stockQuantity, &variantActive)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}
	if !variantActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette variante n'est plus disponible"})
		return
	}

	var (
		name, slug, category string
		basePrice            float64
		productActive        bool
		brandID              *gocql.UUID
	)
	err = session.Query(`SELECT name, slug, category, base_price, is_active, brand_id
		FROM products WHERE id = ?`, productUUID).Scan(
		&name, &slug, &category, &basePrice, &productActive, &brandID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if !productActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ce produit n'est plus disponible"})
		return
	}

	brandName := ""
	if brandID != nil {
		session.Query(`SELECT name FROM brands WHERE id = ?`, *brandID).Scan(&brandName)
	}

	// Tarif des verres refait côté serveur depuis lens_options
	lens, err := repriceLensSelection(session, input.Lens)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unitPrice := basePrice
	if priceOverride != nil {
		unitPrice = *priceOverride
	}

	item := models.CartItem{
		VariantID:            input.VariantID,
		ProductID:            productUUID.String(),
		ProductName:          name,
		ProductSlug:          slug,
		BrandName:            brandName,
		ColorName:            colorName,
		Size:                 size,
		UnitPrice:            unitPrice,
		Quantity:             input.Quantity,
		Lens:                 lens,
		Prescription:         input.Prescription,
		RequiresPrescription: models.RequiresPrescription(category),
	}

	ctx := c.Request.Context()
	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	cart = models.AddCartItem(cart, item)

	if err := saveCart(ctx, userID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cart, "total": cartTotal(cart)})
}

// repriceLensSelection remplace les prix envoyés par le client par ceux
// de la table lens_options. Une option inconnue ou inactive rejette la
// sélection entière.
func repriceLensSelection(session *gocql.Session, lens *models.LensSelection) (*models.LensSelection, error) {
	if lens == nil {
		return nil, nil
	}

	reprice := func(choice *models.LensChoice, expectedCategory string) error {
		optionID, err := uuid.Parse(choice.OptionID)
		if err != nil {
			return errOptionInvalide
		}
		var (
			name, category string
			price          float64
			isActive       bool
		)
		err = session.Query(`SELECT name, category, price, is_active FROM lens_options WHERE id = ?`,
			gocql.UUID(optionID)).Scan(&name, &category, &price, &isActive)
		if err != nil || !isActive || category != expectedCategory {
			return errOptionInvalide
		}
		choice.Name = name
		choice.Price = price
		return nil
	}

	out := &models.LensSelection{LensType: lens.LensType}
	if lens.TypeOption != nil {
		choice := *lens.TypeOption
		if err := reprice(&choice, models.LensCategoryType); err != nil {
			return nil, err
		}
		out.TypeOption = &choice
	}
	for _, t := range lens.Traitements {
		choice := t
		if err := reprice(&choice, models.LensCategoryTraitement); err != nil {
			return nil, err
		}
		out.Traitements = append(out.Traitements, choice)
	}
	if lens.Amincissement != nil {
		choice := *lens.Amincissement
		if err := reprice(&choice, models.LensCategoryAmincissement); err != nil {
			return nil, err
		}
		out.Amincissement = &choice
	}
	return out, nil
}

//
// 🟡 PUT /api/cart/items
//
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		VariantID string `json:"variant_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.VariantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide : utilisez la suppression pour retirer un article"})
		return
	}

	ctx := c.Request.Context()
	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	cart = models.UpdateCartQuantity(cart, input.VariantID, input.Quantity)

	if err := saveCart(ctx, userID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cart, "total": cartTotal(cart)})
}

//
// 🔴 DELETE /api/cart/items/:variantId
//
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	variantID := c.Param("variantId")
	if variantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante requis"})
		return
	}

	ctx := c.Request.Context()
	cart, err := loadCart(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	cart = models.RemoveCartItem(cart, variantID)

	if err := saveCart(ctx, userID, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cart, "total": cartTotal(cart)})
}

//
// 🔴 DELETE /api/cart/clear
//
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	database.Redis.Del(c.Request.Context(), cartKey(userID))
	c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}, "total": 0})
}
