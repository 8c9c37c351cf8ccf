package admin

import (
	"log"
	"net/http"
	"time"

	"visionnaire_back_end/internal/cache"
	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// 🟢 GET /api/admin/orders?status=...
func ListOrders(c *gin.Context) {
	statusFilter := c.Query("status")
	if statusFilter != "" && !models.IsValidStatus(statusFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	orders := []gin.H{}
	iter := session.Query(`SELECT id, order_number, profile_id, status, delivery_method, payment_method,
		subtotal, shipping_cost, discount_amount, total, tracking_number, created_at
		FROM orders`).Iter()
	for {
		var (
			id                                  gocql.UUID
			orderNumber, profileID, status      string
			deliveryMethod, paymentMethod       string
			subtotal, shipping, discount, total float64
			trackingNumber                      string
			createdAt                           time.Time
		)
		if !iter.Scan(&id, &orderNumber, &profileID, &status, &deliveryMethod, &paymentMethod,
			&subtotal, &shipping, &discount, &total, &trackingNumber, &createdAt) {
			break
		}
		if statusFilter != "" && status != statusFilter {
			continue
		}
		orders = append(orders, gin.H{
			"id":              id,
			"order_number":    orderNumber,
			"profile_id":      profileID,
			"status":          status,
			"status_label":    models.OrderStatusLabel(status),
			"delivery_method": deliveryMethod,
			"payment_method":  paymentMethod,
			"subtotal":        subtotal,
			"shipping_cost":   shipping,
			"discount_amount": discount,
			"total":           total,
			"tracking_number": trackingNumber,
			"created_at":      createdAt,
		})
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// 🟢 GET /api/admin/orders/:id
func GetOrder(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{
		"order":         order,
		"status_label":  models.OrderStatusLabel(order.Status),
		"next_statuses": models.NextStatuses(order.Status),
	})
}

// applyStatusChange écrit le nouveau statut et la ligne d'historique
// dans un batch loggé, puis envoie l'e-mail client selon le statut.
func applyStatusChange(order *models.Order, newStatus, comment, trackingNumber string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	now := time.Now()
	batch := session.NewBatch(gocql.LoggedBatch)
	if trackingNumber != "" {
		batch.Query(`UPDATE orders SET status = ?, tracking_number = ?, updated_at = ? WHERE id = ?`,
			newStatus, trackingNumber, now, order.ID)
	} else {
		batch.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
			newStatus, now, order.ID)
	}
	batch.Query(`INSERT INTO order_status_history (order_id, id, status, comment, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		order.ID, gocql.TimeUUID(), newStatus, comment, now)
	if err := session.ExecuteBatch(batch); err != nil {
		return err
	}

	log.Printf("📋 Commande %s: %s → %s", order.OrderNumber, order.Status, newStatus)
	order.Status = newStatus
	if trackingNumber != "" {
		order.TrackingNumber = trackingNumber
	}

	notifyStatusChange(*order, newStatus, comment)
	return nil
}

// notifyStatusChange envoie l'e-mail de suivi quand le statut le
// justifie. L'envoi est asynchrone pour ne jamais bloquer la réponse.
func notifyStatusChange(order models.Order, newStatus, comment string) {
	user, err := cache.GetUserFromCache(order.ProfileID)
	if err != nil || user == nil {
		log.Printf("⚠️ Client introuvable pour la commande %s, e-mail non envoyé", order.OrderNumber)
		return
	}

	var subject, html string
	switch newStatus {
	case models.StatusExpediee:
		subject, html = utils.GenerateOrderShippedHTML(order, user.FirstName)
	case models.StatusPreteEnBoutique:
		subject, html = utils.GenerateOrderReadyHTML(order, user.FirstName)
	case models.StatusOrdonnanceRefusee:
		subject, html = utils.GeneratePrescriptionRefusedHTML(order, user.FirstName, comment)
	default:
		return
	}

	email := user.Email
	go func() {
		if err := utils.SendEmail(email, subject, html, nil, ""); err != nil {
			log.Printf("❌ Erreur envoi e-mail statut commande: %v", err)
		}
	}()
}

// 🟡 PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var req struct {
		Status         string `json:"status" binding:"required"`
		Comment        string `json:"comment"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu"})
		return
	}

	order, err := database.LoadOrder(gocql.UUID(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error":         "Transition de statut non autorisée",
			"reason":        "invalid_transition",
			"current":       order.Status,
			"requested":     req.Status,
			"next_statuses": models.NextStatuses(order.Status),
		})
		return
	}

	if req.Status == models.StatusExpediee && req.TrackingNumber == "" && order.TrackingNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Numéro de suivi requis pour l'expédition"})
		return
	}

	if err := applyStatusChange(order, req.Status, req.Comment, req.TrackingNumber); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":      order.ID,
		"status":        order.Status,
		"status_label":  models.OrderStatusLabel(order.Status),
		"next_statuses": models.NextStatuses(order.Status),
	})
}

// 🟡 PUT /api/admin/orders/:id/tracking
//
// Poser un numéro de suivi sur une commande payée ou en fabrication la
// fait passer automatiquement en expédiée.
func SetTrackingNumber(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var req struct {
		TrackingNumber string `json:"tracking_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	order, err := database.LoadOrder(gocql.UUID(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	// Sur une commande déjà expédiée on corrige juste le numéro
	if order.Status == models.StatusExpediee {
		session, err := database.GetOrdersSession()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}
		if err := session.Query(`UPDATE orders SET tracking_number = ?, updated_at = ? WHERE id = ?`,
			req.TrackingNumber, time.Now(), order.ID).Exec(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour numéro de suivi"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": order.ID, "status": order.Status, "tracking_number": req.TrackingNumber})
		return
	}

	if !models.CanTransition(order.Status, models.StatusExpediee) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "La commande ne peut pas être expédiée depuis son statut actuel",
			"reason":  "invalid_transition",
			"current": order.Status,
		})
		return
	}

	if err := applyStatusChange(order, models.StatusExpediee, "Numéro de suivi: "+req.TrackingNumber, req.TrackingNumber); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":        order.ID,
		"status":          order.Status,
		"status_label":    models.OrderStatusLabel(order.Status),
		"tracking_number": req.TrackingNumber,
	})
}
