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

//
// 🟢 GET /api/lens-options — la liste publique des options de verres,
// groupée par catégorie et triée par sort_order
//
func ListLensOptions(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	options := []models.LensOption{}
	iter := session.Query(`SELECT id, name, slug, description, category, price, is_active, sort_order, created_at
		FROM lens_options`).Iter()
	for {
		var o models.LensOption
		if !iter.Scan(&o.ID, &o.Name, &o.Slug, &o.Description, &o.Category, &o.Price,
			&o.IsActive, &o.SortOrder, &o.CreatedAt) {
			break
		}
		if !o.IsActive {
			continue
		}
		options = append(options, o)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture options de verres"})
		return
	}

	sort.Slice(options, func(i, j int) bool {
		if options[i].Category != options[j].Category {
			return options[i].Category < options[j].Category
		}
		return options[i].SortOrder < options[j].SortOrder
	})

	grouped := map[string][]models.LensOption{}
	for _, o := range options {
		grouped[o.Category] = append(grouped[o.Category], o)
	}

	c.JSON(http.StatusOK, gin.H{"lens_options": grouped})
}

// 🟢 POST /api/admin/lens-options
func CreateLensOption(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Category    string  `json:"category" binding:"required"`
		Price       float64 `json:"price"`
		SortOrder   int     `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if !models.IsValidLensCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie d'option invalide (type, traitement ou amincissement)"})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix négatif interdit"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	o := models.LensOption{
		ID:          gocql.UUID(uuid.New()),
		Name:        req.Name,
		Slug:        utils.Slugify(req.Name),
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		IsActive:    true,
		SortOrder:   req.SortOrder,
		CreatedAt:   time.Now(),
	}

	err = session.Query(`INSERT INTO lens_options (id, name, slug, description, category, price, is_active, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Slug, o.Description, o.Category, o.Price, o.IsActive, o.SortOrder, o.CreatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création option de verres"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lens_option": o})
}

// 🟡 PUT /api/admin/lens-options/:id
func UpdateLensOption(c *gin.Context) {
	optionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID option invalide"})
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		IsActive    *bool   `json:"is_active"`
		SortOrder   int     `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prix négatif interdit"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existingActive bool
	if err := session.Query(`SELECT is_active FROM lens_options WHERE id = ?`, gocql.UUID(optionID)).Scan(&existingActive); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Option de verres introuvable"})
		return
	}

	isActive := existingActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	err = session.Query(`UPDATE lens_options SET name = ?, slug = ?, description = ?, price = ?, is_active = ?, sort_order = ?
		WHERE id = ?`,
		req.Name, utils.Slugify(req.Name), req.Description, req.Price, isActive, req.SortOrder,
		gocql.UUID(optionID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour option de verres"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option de verres mise à jour"})
}

// 🔴 DELETE /api/admin/lens-options/:id
func DeleteLensOption(c *gin.Context) {
	optionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID option invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM lens_options WHERE id = ?`, gocql.UUID(optionID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression option de verres"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Option de verres supprimée"})
}
