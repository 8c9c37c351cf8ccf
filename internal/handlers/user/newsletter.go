package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

//
// 🟢 POST /api/newsletter/subscribe — formulaire public, protégé par
// Turnstile
//
func SubscribeNewsletter(c *gin.Context) {
	var input struct {
		Email          string `json:"email" binding:"required"`
		TurnstileToken string `json:"turnstile_token"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis"})
		return
	}

	if err := utils.VerifyTurnstile(c.Request.Context(), input.TurnstileToken, c.ClientIP()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vérification anti-robot échouée"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	applied, err := session.Query(`INSERT INTO newsletter_subscribers (email, subscribed_at) VALUES (?, ?) IF NOT EXISTS`,
		email, time.Now()).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur inscription newsletter"})
		return
	}

	if applied {
		log.Printf("✅ Nouvel abonné newsletter : %s", email)
		go func(email string) {
			subject, html := utils.GenerateWelcomeEmailHTML("")
			if err := utils.SendEmail(email, subject, html, nil, ""); err != nil {
				log.Printf("⚠️ Email newsletter non envoyé à %s: %v", email, err)
			}
		}(email)
	}

	// Réponse identique que l'email soit nouveau ou déjà inscrit
	c.JSON(http.StatusOK, gin.H{"message": "Inscription confirmée"})
}

//
// 🔴 DELETE /api/newsletter/unsubscribe
//
func UnsubscribeNewsletter(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := session.Query(`DELETE FROM newsletter_subscribers WHERE email = ?`, email).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désinscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Désinscription confirmée"})
}
