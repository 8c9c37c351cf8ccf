package product

import (
	"log"
	"net/http"
	"time"

	"visionnaire_back_end/internal/cache"
	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/services"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

func scanProduct(iterScan func(...interface{}) bool, p *models.Product) bool {
	return iterScan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Category, &p.Gender,
		&p.BrandID, &p.BasePrice, &p.IsActive, &p.IsFeatured, &p.RequiresPrescription,
		&p.FrameShape, &p.FrameMaterial, &p.FrameColor, &p.MetaTitle, &p.MetaDescription,
		&p.CreatedAt, &p.UpdatedAt)
}

const productColumns = `id, name, slug, description, category, gender, brand_id, base_price,
	is_active, is_featured, requires_prescription, frame_shape, frame_material, frame_color,
	meta_title, meta_description, created_at, updated_at`

//
// 🟢 GET /api/products
//
func ListProducts(c *gin.Context) {
	category := c.Query("category")
	gender := c.Query("gender")

	if category != "" && !models.IsValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie invalide"})
		return
	}
	if gender != "" && !models.IsValidGender(gender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Genre invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	products := []models.Product{}
	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()
	for {
		var p models.Product
		if !scanProduct(iter.Scan, &p) {
			break
		}
		if !p.IsActive {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if gender != "" && p.Gender != gender && p.Gender != models.GenderMixte {
			continue
		}
		products = append(products, p)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catalogue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

//
// 🟢 GET /api/products/:id — fiche complète avec variantes
//
func GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	// Cache d'abord
	if cached := cache.GetProductFromCache(productID.String()); cached != nil {
		variants, _ := loadVariants(gocql.UUID(productID), false)
		c.JSON(http.StatusOK, gin.H{"product": cached, "variants": variants})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE id = ?`,
		gocql.UUID(productID)).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Category, &p.Gender,
		&p.BrandID, &p.BasePrice, &p.IsActive, &p.IsFeatured, &p.RequiresPrescription,
		&p.FrameShape, &p.FrameMaterial, &p.FrameColor, &p.MetaTitle, &p.MetaDescription,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	cache.SetProductCache(p)

	variants, err := loadVariants(p.ID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture variantes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p, "variants": variants})
}

//
// 🟢 GET /api/products/slug/:slug
//
func GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug manquant"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT `+productColumns+` FROM products WHERE slug = ? ALLOW FILTERING`, slug).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Category, &p.Gender,
		&p.BrandID, &p.BasePrice, &p.IsActive, &p.IsFeatured, &p.RequiresPrescription,
		&p.FrameShape, &p.FrameMaterial, &p.FrameColor, &p.MetaTitle, &p.MetaDescription,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil || !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	variants, err := loadVariants(p.ID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture variantes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": p, "variants": variants})
}

// ================== ADMIN ==================

// 🟢 POST /api/admin/products
func CreateProduct(c *gin.Context) {
	var req struct {
		Name            string   `json:"name" binding:"required"`
		Description     string   `json:"description"`
		Category        string   `json:"category" binding:"required"`
		Gender          string   `json:"gender" binding:"required"`
		BrandID         string   `json:"brand_id"`
		BasePrice       float64  `json:"base_price" binding:"required"`
		IsFeatured      bool     `json:"is_featured"`
		FrameShape      string   `json:"frame_shape"`
		FrameMaterial   string   `json:"frame_material"`
		FrameColor      string   `json:"frame_color"`
		MetaTitle       string   `json:"meta_title"`
		MetaDescription string   `json:"meta_description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if !models.IsValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie invalide"})
		return
	}
	if !models.IsValidGender(req.Gender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Genre invalide"})
		return
	}
	if req.BasePrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix de base doit être positif"})
		return
	}

	var brandID *gocql.UUID
	if req.BrandID != "" {
		bid, err := uuid.Parse(req.BrandID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID marque invalide"})
			return
		}
		gocqlID := gocql.UUID(bid)
		brandID = &gocqlID
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p := models.Product{
		ID:                   gocql.UUID(uuid.New()),
		Name:                 req.Name,
		Slug:                 utils.Slugify(req.Name),
		Description:          req.Description,
		Category:             req.Category,
		Gender:               req.Gender,
		BrandID:              brandID,
		BasePrice:            req.BasePrice,
		IsActive:             true,
		IsFeatured:           req.IsFeatured,
		RequiresPrescription: models.RequiresPrescription(req.Category),
		FrameShape:           req.FrameShape,
		FrameMaterial:        req.FrameMaterial,
		FrameColor:           req.FrameColor,
		MetaTitle:            req.MetaTitle,
		MetaDescription:      req.MetaDescription,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	err = session.Query(`INSERT INTO products (id, name, slug, description, category, gender, brand_id, base_price,
		is_active, is_featured, requires_prescription, frame_shape, frame_material, frame_color,
		meta_title, meta_description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Slug, p.Description, p.Category, p.Gender, p.BrandID, p.BasePrice,
		p.IsActive, p.IsFeatured, p.RequiresPrescription, p.FrameShape, p.FrameMaterial, p.FrameColor,
		p.MetaTitle, p.MetaDescription, p.CreatedAt, p.UpdatedAt).Exec()
	if err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	services.IndexProduct(p)
	log.Printf("✅ Produit créé: %s (%s)", p.Name, p.ID)

	c.JSON(http.StatusCreated, gin.H{"product": p})
}

// 🟡 PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req struct {
		Name            string   `json:"name" binding:"required"`
		Description     string   `json:"description"`
		Category        string   `json:"category" binding:"required"`
		Gender          string   `json:"gender" binding:"required"`
		BrandID         string   `json:"brand_id"`
		BasePrice       float64  `json:"base_price" binding:"required"`
		IsActive        *bool    `json:"is_active"`
		IsFeatured      bool     `json:"is_featured"`
		FrameShape      string   `json:"frame_shape"`
		FrameMaterial   string   `json:"frame_material"`
		FrameColor      string   `json:"frame_color"`
		MetaTitle       string   `json:"meta_title"`
		MetaDescription string   `json:"meta_description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if !models.IsValidCategory(req.Category) || !models.IsValidGender(req.Gender) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie ou genre invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existingSlug string
	if err := session.Query(`SELECT slug FROM products WHERE id = ?`, gocql.UUID(productID)).Scan(&existingSlug); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	var brandID *gocql.UUID
	if req.BrandID != "" {
		bid, err := uuid.Parse(req.BrandID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID marque invalide"})
			return
		}
		gocqlID := gocql.UUID(bid)
		brandID = &gocqlID
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p := models.Product{
		ID:                   gocql.UUID(productID),
		Name:                 req.Name,
		Slug:                 utils.Slugify(req.Name),
		Description:          req.Description,
		Category:             req.Category,
		Gender:               req.Gender,
		BrandID:              brandID,
		BasePrice:            req.BasePrice,
		IsActive:             isActive,
		IsFeatured:           req.IsFeatured,
		RequiresPrescription: models.RequiresPrescription(req.Category),
		FrameShape:           req.FrameShape,
		FrameMaterial:        req.FrameMaterial,
		FrameColor:           req.FrameColor,
		MetaTitle:            req.MetaTitle,
		MetaDescription:      req.MetaDescription,
		UpdatedAt:            time.Now(),
	}

	err = session.Query(`UPDATE products SET name = ?, slug = ?, description = ?, category = ?, gender = ?, brand_id = ?, base_price = ?,
		is_active = ?, is_featured = ?, requires_prescription = ?, frame_shape = ?, frame_material = ?, frame_color = ?,
		meta_title = ?, meta_description = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Slug, p.Description, p.Category, p.Gender, p.BrandID, p.BasePrice,
		p.IsActive, p.IsFeatured, p.RequiresPrescription, p.FrameShape, p.FrameMaterial, p.FrameColor,
		p.MetaTitle, p.MetaDescription, p.UpdatedAt, p.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	if p.IsActive {
		services.IndexProduct(p)
	} else {
		services.RemoveProductFromIndex(p.ID.String())
	}

	c.JSON(http.StatusOK, gin.H{"product": p})
}

// 🔴 DELETE /api/admin/products/:id — suppression définitive, variantes
// comprises
func DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Cascade sur les variantes du produit
	variants, err := loadVariants(gocql.UUID(productID), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture variantes"})
		return
	}
	for _, v := range variants {
		if err := session.Query(`DELETE FROM product_variants WHERE id = ?`, v.ID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression variantes"})
			return
		}
	}

	if err := session.Query(`DELETE FROM products WHERE id = ?`, gocql.UUID(productID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	services.RemoveProductFromIndex(productID.String())

	log.Printf("🗑️ Produit supprimé: %s (%d variantes)", productID, len(variants))
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé", "variants_deleted": len(variants)})
}
