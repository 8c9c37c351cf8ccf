package cache

import (
	"context"
	"encoding/json"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var (
		email, password, firstName, lastName, phone, role, provider string
	)

	err = session.Query(`SELECT email, password, first_name, last_name, phone, role, provider
		FROM users WHERE user_id = ?`, gocql.UUID(uid)).Scan(
		&email, &password, &firstName, &lastName, &phone, &role, &provider)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Role:      role,
		Provider:  provider,
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// GetProductFromCache récupère un produit complet depuis Redis, ou nil
// en cas de miss (le handler charge alors depuis ScyllaDB et remplit le
// cache via SetProductCache).
func GetProductFromCache(productID string) *models.Product {
	ctx := context.Background()
	data, err := database.Redis.Get(ctx, "product:"+productID).Result()
	if err != nil {
		return nil
	}
	var product models.Product
	if json.Unmarshal([]byte(data), &product) != nil {
		return nil
	}
	return &product
}

// SetProductCache met un produit en cache
func SetProductCache(product models.Product) {
	ctx := context.Background()
	jsonData, _ := json.Marshal(product)
	database.Redis.Set(ctx, "product:"+product.ID.String(), jsonData, ProductCacheTTL)
}

// InvalidateProductCache invalide le cache d'un produit après une
// modification admin
func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID)
}
