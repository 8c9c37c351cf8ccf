package product

import (
	"log"
	"net/http"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// loadVariants lit les variantes d'un produit. includeInactive sert aux
// parcours admin (et à la cascade de suppression).
func loadVariants(productID gocql.UUID, includeInactive bool) ([]models.ProductVariant, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	variants := []models.ProductVariant{}
	iter := session.Query(`SELECT id, product_id, sku, color_name, color_hex, size, price_override,
		stock_quantity, is_active, created_at
		FROM product_variants WHERE product_id = ? ALLOW FILTERING`, productID).Iter()
	for {
		var v models.ProductVariant
		if !iter.Scan(&v.ID, &v.ProductID, &v.SKU, &v.ColorName, &v.ColorHex, &v.Size,
			&v.PriceOverride, &v.StockQuantity, &v.IsActive, &v.CreatedAt) {
			break
		}
		if !includeInactive && !v.IsActive {
			continue
		}
		variants = append(variants, v)
	}
	return variants, iter.Close()
}

//
// 🟢 GET /api/products/:id/variants
//
func ListVariants(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	variants, err := loadVariants(gocql.UUID(productID), false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture variantes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"variants": variants, "count": len(variants)})
}

// 🟢 POST /api/admin/products/:id/variants
func CreateVariant(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		SKU           string   `json:"sku"`
		ColorName     string   `json:"color_name" binding:"required"`
		ColorHex      string   `json:"color_hex"`
		Size          string   `json:"size"`
		PriceOverride *float64 `json:"price_override"`
		StockQuantity int      `json:"stock_quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if req.StockQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock négatif interdit"})
		return
	}
	if req.PriceOverride != nil && *req.PriceOverride <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix spécifique doit être positif"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Le produit parent doit exister
	var productName string
	if err := session.Query(`SELECT name FROM products WHERE id = ?`, gocql.UUID(productID)).Scan(&productName); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	v := models.ProductVariant{
		ID:            gocql.UUID(uuid.New()),
		ProductID:     gocql.UUID(productID),
		SKU:           req.SKU,
		ColorName:     req.ColorName,
		ColorHex:      req.ColorHex,
		Size:          req.Size,
		PriceOverride: req.PriceOverride,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
		CreatedAt:     time.Now(),
	}

	err = session.Query(`INSERT INTO product_variants (id, product_id, sku, color_name, color_hex, size,
		price_override, stock_quantity, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.ProductID, v.SKU, v.ColorName, v.ColorHex, v.Size,
		v.PriceOverride, v.StockQuantity, v.IsActive, v.CreatedAt).Exec()
	if err != nil {
		log.Printf("❌ Erreur création variante: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création variante"})
		return
	}

	log.Printf("✅ Variante créée pour %s: %s %s", productName, v.ColorName, v.Size)
	c.JSON(http.StatusCreated, gin.H{"variant": v})
}

// 🟡 PUT /api/admin/variants/:variantId
func UpdateVariant(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	var req struct {
		SKU           string   `json:"sku"`
		ColorName     string   `json:"color_name" binding:"required"`
		ColorHex      string   `json:"color_hex"`
		Size          string   `json:"size"`
		PriceOverride *float64 `json:"price_override"`
		IsActive      *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if req.PriceOverride != nil && *req.PriceOverride <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix spécifique doit être positif"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing models.ProductVariant
	err = session.Query(`SELECT id, product_id, is_active FROM product_variants WHERE id = ?`,
		gocql.UUID(variantID)).Scan(&existing.ID, &existing.ProductID, &existing.IsActive)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
		return
	}

	isActive := existing.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	err = session.Query(`UPDATE product_variants SET sku = ?, color_name = ?, color_hex = ?, size = ?,
		price_override = ?, is_active = ? WHERE id = ?`,
		req.SKU, req.ColorName, req.ColorHex, req.Size,
		req.PriceOverride, isActive, gocql.UUID(variantID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour variante"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Variante mise à jour"})
}

// 🔴 DELETE /api/admin/variants/:variantId
func DeleteVariant(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM product_variants WHERE id = ?`, gocql.UUID(variantID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression variante"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Variante supprimée"})
}
