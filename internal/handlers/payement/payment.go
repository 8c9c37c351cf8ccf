package payement

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
)

// centAmount convertit un montant en euros vers des centimes entiers.
// Une troncature perdrait un centime sur les totaux que float64 stocke
// juste en dessous de leur valeur décimale (0,29 € → 28).
func centAmount(total float64) int64 {
	return int64(math.Round(total * 100))
}

// ✅ Crée un PaymentIntent Stripe pour une commande en attente de paiement
func CreatePaymentIntent(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		OrderID string `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var (
		profileID, orderNumber, status string
		total                          float64
	)
	err = session.Query(`SELECT profile_id, order_number, status, total FROM orders WHERE id = ?`,
		gocql.UUID(orderID)).Scan(&profileID, &orderNumber, &status, &total)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if profileID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Commande non autorisée"})
		return
	}
	if status != models.StatusEnAttentePaiement {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cette commande n'est plus en attente de paiement"})
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(centAmount(total)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_id":     req.OrderID,
			"order_number": orderNumber,
			"user_id":      userID,
			"email":        email,
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du paiement"})
		return
	}

	session.Query(`UPDATE orders SET stripe_payment_intent_id = ?, updated_at = ? WHERE id = ?`,
		intent.ID, time.Now(), gocql.UUID(orderID)).Exec()

	log.Printf("💳 PaymentIntent créé : %s (%.2f€) pour commande %s", intent.ID, total, orderNumber)

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
		"paymentId":    intent.ID,
	})
}

// ✅ Webhook Stripe
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)

	if event.Type == "payment_intent.succeeded" {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			log.Println("❌ Erreur décodage PaymentIntent:", err)
			c.Status(http.StatusOK)
			return
		}

		orderID := pi.Metadata["order_id"]
		if orderID == "" {
			log.Println("⚠️ PaymentIntent sans order_id en métadonnées")
			c.Status(http.StatusOK)
			return
		}

		if err := markOrderPaid(orderID, "Paiement Stripe confirmé"); err != nil {
			log.Printf("❌ Passage en payee échoué pour %s: %v", orderID, err)
		}
	}

	c.Status(http.StatusOK)
}

// markOrderPaid fait passer la commande en payee avec sa ligne
// d'historique, en un batch logged. Idempotent : une commande déjà payée
// est ignorée.
func markOrderPaid(orderID, comment string) error {
	oid, err := uuid.Parse(orderID)
	if err != nil {
		return err
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	var status string
	if err := session.Query(`SELECT status FROM orders WHERE id = ?`, gocql.UUID(oid)).Scan(&status); err != nil {
		return err
	}

	if status == models.StatusPayee {
		log.Printf("🔁 Commande %s déjà payée, webhook ignoré", orderID)
		return nil
	}
	if !models.CanTransition(status, models.StatusPayee) {
		return models.ErrInvalidTransition
	}

	now := time.Now()
	batch := session.NewBatch(gocql.LoggedBatch)
	batch.Query(`UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		models.StatusPayee, now, gocql.UUID(oid))
	batch.Query(`INSERT INTO order_status_history (order_id, id, status, comment, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		gocql.UUID(oid), gocql.TimeUUID(), models.StatusPayee, comment, now)

	if err := session.ExecuteBatch(batch); err != nil {
		return err
	}

	log.Printf("✅ Commande %s passée en payee (%s)", orderID, comment)
	return nil
}
