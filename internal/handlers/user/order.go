package user

import (
	"net/http"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

//
// 🟢 GET /api/orders/mine
//
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	orders := []gin.H{}
	iter := session.Query(`SELECT id, order_number, status, delivery_method, payment_method, total, tracking_number, created_at
		FROM orders WHERE profile_id = ? ALLOW FILTERING`, userID).Iter()

	var (
		id                                            gocql.UUID
		orderNumber, status, delivery, payment, track string
		total                                         float64
		createdAt                                     time.Time
	)
	for iter.Scan(&id, &orderNumber, &status, &delivery, &payment, &total, &track, &createdAt) {
		orders = append(orders, gin.H{
			"id":              id.String(),
			"order_number":    orderNumber,
			"status":          status,
			"status_label":    models.OrderStatusLabel(status),
			"delivery_method": delivery,
			"payment_method":  payment,
			"total":           total,
			"tracking_number": track,
			"created_at":      createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

//
// 🟢 GET /api/orders/:id
//
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := database.LoadOrder(gocql.UUID(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	// Une commande n'est visible que par son propriétaire (l'admin passe
	// par les routes back office)
	if order.ProfileID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Commande non autorisée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":         order,
		"status_label":  models.OrderStatusLabel(order.Status),
		"next_statuses": models.NextStatuses(order.Status),
	})
}
