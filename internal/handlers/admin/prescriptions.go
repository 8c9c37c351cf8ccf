package admin

import (
	"net/http"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

func itemRequiresPrescription(item models.OrderItem) bool {
	return item.PrescriptionURL != "" || item.PrescriptionData != nil
}

// 🟡 PUT /api/admin/orders/:id/items/:itemId/prescription
//
// Décision sur l'ordonnance d'une ligne de commande. Une ordonnance en
// attente (null) passe à validée ou refusée, jamais l'inverse : pour
// revenir sur un refus, le client renvoie une nouvelle ordonnance.
func ValidatePrescription(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID ligne de commande invalide"})
		return
	}

	var req struct {
		Validated *bool  `json:"validated" binding:"required"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if !*req.Validated && req.Comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un commentaire est requis pour refuser une ordonnance"})
		return
	}

	order, err := database.LoadOrder(gocql.UUID(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	var target *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == gocql.UUID(itemID) {
			target = &order.Items[i]
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ligne de commande introuvable"})
		return
	}
	if !itemRequiresPrescription(*target) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette ligne ne comporte pas d'ordonnance"})
		return
	}
	if target.PrescriptionValidated != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Cette ordonnance a déjà été traitée",
			"reason": "invalid_transition",
		})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE order_items SET prescription_validated = ? WHERE order_id = ? AND id = ?`,
		req.Validated, order.ID, target.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour ordonnance"})
		return
	}
	target.PrescriptionValidated = req.Validated

	// Répercussion sur le statut de la commande
	if order.Status == models.StatusOrdonnanceEnValidation {
		if !*req.Validated {
			if err := applyStatusChange(order, models.StatusOrdonnanceRefusee, req.Comment, ""); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
				return
			}
		} else if allPrescriptionsValidated(order.Items) {
			if err := applyStatusChange(order, models.StatusOrdonnanceValidee, "Toutes les ordonnances validées", ""); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":     order.ID,
		"item_id":      target.ID,
		"validated":    *req.Validated,
		"order_status": order.Status,
	})
}

func allPrescriptionsValidated(items []models.OrderItem) bool {
	for _, item := range items {
		if !itemRequiresPrescription(item) {
			continue
		}
		if item.PrescriptionValidated == nil || !*item.PrescriptionValidated {
			return false
		}
	}
	return true
}
