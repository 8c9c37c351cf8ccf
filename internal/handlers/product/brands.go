package product

import (
	"net/http"
	"sort"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// 🟢 GET /api/brands
func ListBrands(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	brands := []models.Brand{}
	iter := session.Query(`SELECT id, name, slug, description, logo_url, is_active, sort_order, created_at, updated_at
		FROM brands`).Iter()
	for {
		var b models.Brand
		if !iter.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.LogoURL,
			&b.IsActive, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt) {
			break
		}
		if !b.IsActive {
			continue
		}
		brands = append(brands, b)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture marques"})
		return
	}

	sort.Slice(brands, func(i, j int) bool {
		if brands[i].SortOrder != brands[j].SortOrder {
			return brands[i].SortOrder < brands[j].SortOrder
		}
		return brands[i].Name < brands[j].Name
	})

	c.JSON(http.StatusOK, gin.H{"brands": brands, "count": len(brands)})
}

// 🟢 POST /api/admin/brands
func CreateBrand(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		LogoURL     string `json:"logo_url"`
		SortOrder   int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	b := models.Brand{
		ID:          gocql.UUID(uuid.New()),
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		LogoURL:     req.LogoURL,
		IsActive:    true,
		SortOrder:   req.SortOrder,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	err = session.Query(`INSERT INTO brands (id, name, slug, description, logo_url, is_active, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Slug, b.Description, b.LogoURL, b.IsActive, b.SortOrder, b.CreatedAt, b.UpdatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création marque"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"brand": b})
}

// 🟡 PUT /api/admin/brands/:id
func UpdateBrand(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID marque invalide"})
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		LogoURL     string `json:"logo_url"`
		IsActive    *bool  `json:"is_active"`
		SortOrder   int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existingActive bool
	if err := session.Query(`SELECT is_active FROM brands WHERE id = ?`, gocql.UUID(brandID)).Scan(&existingActive); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Marque introuvable"})
		return
	}

	isActive := existingActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	err = session.Query(`UPDATE brands SET name = ?, slug = ?, description = ?, logo_url = ?, is_active = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		req.Name, utils.Slugify(req.Name), req.Description, req.LogoURL, isActive, req.SortOrder, time.Now(),
		gocql.UUID(brandID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour marque"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marque mise à jour"})
}

// 🔴 DELETE /api/admin/brands/:id
func DeleteBrand(c *gin.Context) {
	brandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID marque invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM brands WHERE id = ?`, gocql.UUID(brandID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression marque"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marque supprimée"})
}
