package product

import (
	"net/http"
	"strings"

	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// 🟢 GET /api/products/search?q=...&category=...&gender=...
func SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre de recherche manquant"})
		return
	}
	if len(query) > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recherche trop longue"})
		return
	}

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

	results, err := services.SearchProducts(query, category, gender)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur du moteur de recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
