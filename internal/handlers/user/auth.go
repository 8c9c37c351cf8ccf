package user

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"
	"strings"
	"time"

	"visionnaire_back_end/internal/cache"
	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// ================== AUTH LOCALE ==================

func CreateUser(c *gin.Context) {
	var input struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email invalide"})
		return
	}
	if len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le mot de passe doit contenir au moins 8 caractères"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	userID := gocql.UUID(uuid.New())
	now := time.Now()

	// Réservation de l'email en LWT : deux inscriptions simultanées sur
	// le même email ne peuvent pas passer toutes les deux
	applied, err := session.Query(
		`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		input.Email, userID).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec cet email existe déjà"})
		return
	}

	insertQuery, err := database.QueryInsertUser(
		userID, input.Email, hashedPassword, input.FirstName, input.LastName,
		input.Phone, models.RoleClient, "local", now, now)
	if err == nil {
		err = insertQuery.Exec()
	}
	if err != nil {
		session.Query(`DELETE FROM users_by_email WHERE email = ?`, input.Email).Exec()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	user := models.User{
		ID:        userID.String(),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Role:      models.RoleClient,
		Provider:  "local",
	}

	// Email de bienvenue en arrière-plan, l'inscription n'attend pas le SMTP
	go func(u models.User) {
		subject, html := utils.GenerateWelcomeEmailHTML(u.FirstName)
		if err := utils.SendEmail(u.Email, subject, html, nil, ""); err != nil {
			log.Printf("⚠️ Email de bienvenue non envoyé à %s: %v", u.Email, err)
		}
	}(user)

	token, _ := utils.GenerateJWT(user)
	c.JSON(http.StatusCreated, gin.H{
		"token":      token,
		"userId":     user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
	})
}

func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	emailQuery, err := database.QueryUserIDByEmail(input.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userID gocql.UUID
	if err := emailQuery.Scan(&userID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	authQuery, err := database.QueryUserAuthByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var (
		email, password, firstName, lastName, phone, role, provider string
	)
	err = authQuery.Scan(&email, &password, &firstName, &lastName, &phone, &role, &provider)
	if err != nil || !utils.VerifyPassword(input.Password, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	user := models.User{
		ID:        userID.String(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Role:      role,
		Provider:  provider,
	}

	token, _ := utils.GenerateJWT(user)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"userId":     user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
	})
}

func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":     user.ID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"phone":      user.Phone,
		"role":       user.Role,
		"provider":   user.Provider,
	})
}

func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var input struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`UPDATE users SET first_name = ?, last_name = ?, phone = ?, updated_at = ? WHERE user_id = ?`,
		input.FirstName, input.LastName, input.Phone, time.Now(), gocql.UUID(uid)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	cache.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Profil mis à jour"})
}

// ================== MOT DE PASSE OUBLIÉ ==================

func ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email requis"})
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	// Réponse identique que l'email existe ou non
	respond := func() {
		c.JSON(http.StatusOK, gin.H{"message": "Si un compte existe avec cet email, un lien de réinitialisation a été envoyé"})
	}

	session, err := database.GetUsersSession()
	if err != nil {
		respond()
		return
	}

	var userID gocql.UUID
	if err := session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, input.Email).Scan(&userID); err != nil {
		respond()
		return
	}

	var firstName string
	session.Query(`SELECT first_name FROM users WHERE user_id = ?`, userID).Scan(&firstName)

	resetToken := generateRandomToken()
	err = database.Redis.Set(c.Request.Context(), "password_reset:"+resetToken, userID.String(), time.Hour).Err()
	if err != nil {
		respond()
		return
	}

	go func(email, name, token string) {
		subject, html := utils.GeneratePasswordResetHTML(name, token)
		if err := utils.SendEmail(email, subject, html, nil, ""); err != nil {
			log.Printf("⚠️ Email de réinitialisation non envoyé à %s: %v", email, err)
		}
	}(input.Email, firstName, resetToken)

	respond()
}

func ResetPassword(c *gin.Context) {
	var input struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token et mot de passe requis"})
		return
	}
	if len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le mot de passe doit contenir au moins 8 caractères"})
		return
	}

	ctx := c.Request.Context()
	userID, err := database.Redis.Get(ctx, "password_reset:"+input.Token).Result()
	if err != nil || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lien expiré ou invalide"})
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lien expiré ou invalide"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réinitialisation"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`UPDATE users SET password = ?, updated_at = ? WHERE user_id = ?`,
		hashedPassword, time.Now(), gocql.UUID(uid)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réinitialisation"})
		return
	}

	database.Redis.Del(ctx, "password_reset:"+input.Token)
	cache.InvalidateUserCache(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Mot de passe réinitialisé avec succès"})
}

func generateRandomToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
