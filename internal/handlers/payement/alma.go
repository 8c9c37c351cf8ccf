package payement

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Alma n'a pas de SDK Go : client REST minimal sur leur API paiements.

func almaBaseURL() string {
	if url := os.Getenv("ALMA_API_URL"); url != "" {
		return url
	}
	return "https://api.getalma.eu"
}

var almaHTTPClient = &http.Client{Timeout: 10 * time.Second}

func almaRequest(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, almaBaseURL()+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Alma-Auth "+os.Getenv("ALMA_API_KEY"))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return almaHTTPClient.Do(req)
}

// ✅ POST /api/payments/alma — crée un paiement en plusieurs fois
func CreateAlmaPayment(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		OrderID           string `json:"order_id" binding:"required"`
		InstallmentsCount int    `json:"installments_count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	if req.InstallmentsCount == 0 {
		req.InstallmentsCount = 3
	}
	if req.InstallmentsCount != 2 && req.InstallmentsCount != 3 && req.InstallmentsCount != 4 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nombre d'échéances invalide (2, 3 ou 4)"})
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

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:5173"
	}

	payload := map[string]interface{}{
		"payment": map[string]interface{}{
			"purchase_amount":    centAmount(total),
			"installments_count": req.InstallmentsCount,
			"return_url":         frontendURL + "/commande/confirmation?numero=" + orderNumber,
			"ipn_callback_url":   baseURL + "/api/payments/alma/ipn",
			"custom_data": map[string]string{
				"order_id":     req.OrderID,
				"order_number": orderNumber,
			},
		},
	}

	resp, err := almaRequest(http.MethodPost, "/v1/payments", payload)
	if err != nil {
		log.Println("❌ Erreur appel Alma:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du paiement Alma"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("❌ Alma a renvoyé %d: %s", resp.StatusCode, string(body))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du paiement Alma"})
		return
	}

	var almaPayment struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&almaPayment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Réponse Alma invalide"})
		return
	}

	session.Query(`UPDATE orders SET alma_payment_id = ?, updated_at = ? WHERE id = ?`,
		almaPayment.ID, time.Now(), gocql.UUID(orderID)).Exec()

	log.Printf("💳 Paiement Alma créé : %s (%.2f€ en %dx) pour commande %s",
		almaPayment.ID, total, req.InstallmentsCount, orderNumber)

	c.JSON(http.StatusOK, gin.H{
		"payment_id":  almaPayment.ID,
		"payment_url": almaPayment.URL,
	})
}

// ✅ POST /api/payments/alma/ipn — notification serveur à serveur d'Alma.
// Le statut annoncé n'est jamais cru sur parole : on relit le paiement
// chez Alma avant de passer la commande en payee.
func AlmaIPN(c *gin.Context) {
	paymentID := c.Query("pid")
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pid manquant"})
		return
	}

	resp, err := almaRequest(http.MethodGet, "/v1/payments/"+paymentID, nil)
	if err != nil {
		log.Println("❌ Erreur vérification paiement Alma:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification Alma"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paiement Alma introuvable"})
		return
	}

	var payment struct {
		ID         string `json:"id"`
		State      string `json:"state"`
		CustomData struct {
			OrderID     string `json:"order_id"`
			OrderNumber string `json:"order_number"`
		} `json:"custom_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Réponse Alma invalide"})
		return
	}

	log.Printf("📥 IPN Alma reçu : paiement %s, état %s, commande %s",
		payment.ID, payment.State, payment.CustomData.OrderNumber)

	if payment.State != "in_progress" && payment.State != "paid" {
		c.JSON(http.StatusOK, gin.H{"message": "État ignoré"})
		return
	}

	if payment.CustomData.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id absent des custom_data"})
		return
	}

	comment := fmt.Sprintf("Paiement Alma confirmé (%s)", payment.ID)
	if err := markOrderPaid(payment.CustomData.OrderID, comment); err != nil {
		log.Printf("❌ Passage en payee échoué pour %s: %v", payment.CustomData.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commande mise à jour"})
}
