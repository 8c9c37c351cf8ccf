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

const stockUpdateRetries = 3

// 🟡 PUT /api/admin/variants/:variantId/stock
//
// Deux modes : "restock" ajoute la quantité au stock courant,
// "adjustment" fixe le stock à une valeur absolue (inventaire).
// La mise à jour est conditionnée sur le stock lu pour éviter les
// écritures concurrentes perdues.
func UpdateStock(c *gin.Context) {
	variantID, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID variante invalide"})
		return
	}

	var req struct {
		Type     string `json:"type" binding:"required"`
		Quantity int    `json:"quantity"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if req.Type != "restock" && req.Type != "adjustment" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de mouvement invalide (restock ou adjustment)"})
		return
	}
	if req.Type == "restock" && req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité de réassort doit être positive"})
		return
	}
	if req.Type == "adjustment" && req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock négatif interdit"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	userID := c.GetString("user_id")

	for attempt := 0; attempt < stockUpdateRetries; attempt++ {
		var prevStock int
		err = session.Query(`SELECT stock_quantity FROM product_variants WHERE id = ?`,
			gocql.UUID(variantID)).Scan(&prevStock)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variante introuvable"})
			return
		}

		newStock := req.Quantity
		if req.Type == "restock" {
			newStock = prevStock + req.Quantity
		}

		applied, err := session.Query(`UPDATE product_variants SET stock_quantity = ?
			WHERE id = ? IF stock_quantity = ?`,
			newStock, gocql.UUID(variantID), prevStock).MapScanCAS(map[string]interface{}{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour stock"})
			return
		}
		if !applied {
			// Le stock a bougé entre la lecture et l'écriture, on rejoue
			continue
		}

		movement := models.StockMovement{
			ID:        gocql.UUID(uuid.New()),
			VariantID: gocql.UUID(variantID),
			Type:      req.Type,
			Quantity:  req.Quantity,
			PrevStock: prevStock,
			NewStock:  newStock,
			Reason:    req.Reason,
			UserID:    userID,
			CreatedAt: time.Now(),
		}
		err = session.Query(`INSERT INTO stock_movements (id, variant_id, type, quantity, prev_stock, new_stock, reason, user_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			movement.ID, movement.VariantID, movement.Type, movement.Quantity,
			movement.PrevStock, movement.NewStock, movement.Reason, movement.UserID, movement.CreatedAt).Exec()
		if err != nil {
			log.Printf("⚠️ Stock mis à jour mais mouvement non enregistré: %v", err)
		}

		log.Printf("📦 Stock %s variante %s: %d → %d (%s)", req.Type, variantID, prevStock, newStock, userID)
		c.JSON(http.StatusOK, gin.H{
			"variant_id": variantID,
			"prev_stock": prevStock,
			"new_stock":  newStock,
			"movement":   movement,
		})
		return
	}

	c.JSON(http.StatusConflict, gin.H{"error": "Conflit de mise à jour du stock, réessayez"})
}

// 🟢 GET /api/admin/variants/:variantId/movements
func ListStockMovements(c *gin.Context) {
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

	movements := []models.StockMovement{}
	iter := session.Query(`SELECT id, variant_id, type, quantity, prev_stock, new_stock, reason, order_id, user_id, created_at
		FROM stock_movements WHERE variant_id = ? ALLOW FILTERING`, gocql.UUID(variantID)).Iter()
	for {
		var m models.StockMovement
		if !iter.Scan(&m.ID, &m.VariantID, &m.Type, &m.Quantity, &m.PrevStock, &m.NewStock,
			&m.Reason, &m.OrderID, &m.UserID, &m.CreatedAt) {
			break
		}
		movements = append(movements, m)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture mouvements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements, "count": len(movements)})
}
