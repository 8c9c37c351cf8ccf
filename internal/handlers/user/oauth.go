package user

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
)

// ================== AUTH SOCIALE (WEB) ==================

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	redirectURL := c.Query("redirect_url")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	callbackURL := baseURL + "/api/auth/" + provider + "/callback"

	switch provider {
	case "google":
		goth.UseProviders(google.New(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			callbackURL,
		))
	case "facebook":
		goth.UseProviders(facebook.New(
			os.Getenv("FACEBOOK_CLIENT_ID"),
			os.Getenv("FACEBOOK_CLIENT_SECRET"),
			callbackURL,
		))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider non supporté"})
		return
	}

	ctx := context.Background()
	state := generateRandomToken()
	if redirectURL != "" {
		_ = database.Redis.Set(ctx, "oauth_redirect:"+state, redirectURL, 10*time.Minute).Err()
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	q.Set("state", state)
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur OAuth %s: %v", provider, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification échouée"})
		return
	}

	user, err := findOrCreateOAuthUser(provider, gothUser.UserID, gothUser.Email, gothUser.FirstName, gothUser.LastName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	handleOAuthRedirect(c, user, state)
}

// findOrCreateOAuthUser rattache le compte OAuth à un compte existant par
// email, ou en crée un nouveau.
func findOrCreateOAuthUser(provider, providerID, email, firstName, lastName string) (models.User, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return models.User{}, err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	emailQuery, err := database.QueryUserIDByEmail(email)
	if err != nil {
		return models.User{}, err
	}

	var userID gocql.UUID
	err = emailQuery.Scan(&userID)
	if err == nil {
		// Compte existant : fusion du provider
		var (
			pw, fn, ln, phone, role, prov string
		)
		if err := session.Query(`SELECT password, first_name, last_name, phone, role, provider
			FROM users WHERE user_id = ?`, userID).Scan(&pw, &fn, &ln, &phone, &role, &prov); err != nil {
			return models.User{}, err
		}
		if prov != provider {
			session.Query(`UPDATE users SET provider = ?, provider_id = ?, updated_at = ? WHERE user_id = ?`,
				provider, providerID, time.Now(), userID).Exec()
			log.Printf("🔄 Compte existant fusionné avec provider %s : %s", provider, email)
		}
		return models.User{
			ID: userID.String(), Email: email,
			FirstName: fn, LastName: ln, Phone: phone,
			Role: role, Provider: provider,
		}, nil
	}

	// Nouveau compte OAuth
	userID = gocql.UUID(uuid.New())
	now := time.Now()

	prev := map[string]interface{}{}
	applied, err := session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		email, userID).MapScanCAS(prev)
	if err != nil {
		return models.User{}, err
	}
	if !applied {
		if existingID, ok := prev["user_id"].(gocql.UUID); ok {
			userID = existingID
		}
	} else {
		err = session.Query(`INSERT INTO users (user_id, email, password, first_name, last_name, phone, role, provider, provider_id, created_at, updated_at)
			VALUES (?, ?, '', ?, ?, '', ?, ?, ?, ?, ?)`,
			userID, email, firstName, lastName, models.RoleClient, provider, providerID, now, now).Exec()
		if err != nil {
			return models.User{}, err
		}
		log.Printf("🆕 Utilisateur OAuth créé (%s) : %s", provider, email)
	}

	return models.User{
		ID: userID.String(), Email: email,
		FirstName: firstName, LastName: lastName,
		Role: models.RoleClient, Provider: provider,
	}, nil
}

func handleOAuthRedirect(c *gin.Context, user models.User, state string) {
	ctx := context.Background()
	token, _ := utils.GenerateJWT(user)

	redirectURI, _ := database.Redis.Get(ctx, "oauth_redirect:"+state).Result()
	database.Redis.Del(ctx, "oauth_redirect:"+state)

	if redirectURI == "" {
		redirectURI = os.Getenv("FRONTEND_URL")
		if redirectURI == "" {
			redirectURI = "http://localhost:5173"
		}
	}

	allowed := []string{
		"http://localhost:5173",
		"http://localhost:3000",
		"https://visionnaires.fr",
		"https://www.visionnaires.fr",
	}
	valid := false
	for _, o := range allowed {
		if strings.HasPrefix(redirectURI, o) {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Redirect url non autorisé"})
		return
	}

	sep := "?"
	if strings.Contains(redirectURI, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusTemporaryRedirect, redirectURI+sep+"token="+url.QueryEscape(token))
}
