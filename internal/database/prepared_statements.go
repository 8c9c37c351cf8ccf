package database

import (
	"log"

	"github.com/gocql/gocql"
)

// Requêtes chaudes partagées entre handlers. gocql prépare chaque
// statement une fois par session : centraliser le texte ici évite les
// copies divergentes dans les handlers.
const (
	stmtUserIDByEmail = `SELECT user_id FROM users_by_email WHERE email = ?`

	stmtUserAuthByID = `SELECT email, password, first_name, last_name, phone, role, provider
		FROM users WHERE user_id = ?`

	stmtInsertUser = `INSERT INTO users (user_id, email, password, first_name, last_name, phone, role, provider, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmtVariantPricing = `SELECT product_id, color_name, size, price_override, stock_quantity, is_active
		FROM product_variants WHERE id = ?`
)

// InitPreparedStatements vérifie au démarrage que les sessions portant
// les requêtes chaudes sont joignables, pour échouer tôt plutôt qu'au
// premier checkout.
func InitPreparedStatements() {
	if _, err := GetUsersSession(); err != nil {
		log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
		return
	}
	if _, err := GetProductsSession(); err != nil {
		log.Printf("⚠️ Prepared statements catalogue indisponibles: %v", err)
		return
	}
	log.Println("✅ Prepared statements initialisés")
}

// QueryUserIDByEmail résout l'id utilisateur depuis l'email (login,
// rattachement OAuth).
func QueryUserIDByEmail(email string) (*gocql.Query, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, err
	}
	return session.Query(stmtUserIDByEmail, email), nil
}

// QueryUserAuthByID lit les colonnes d'authentification d'un
// utilisateur.
func QueryUserAuthByID(userID gocql.UUID) (*gocql.Query, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, err
	}
	return session.Query(stmtUserAuthByID, userID), nil
}

// QueryInsertUser insère la ligne utilisateur. La réservation de
// l'email passe par le LWT sur users_by_email, pas par cette requête.
func QueryInsertUser(args ...interface{}) (*gocql.Query, error) {
	session, err := GetUsersSession()
	if err != nil {
		return nil, err
	}
	return session.Query(stmtInsertUser, args...), nil
}

// QueryVariantPricing lit prix/stock d'une variante, sur le chemin du
// panier et du checkout.
func QueryVariantPricing(variantID gocql.UUID) (*gocql.Query, error) {
	session, err := GetProductsSession()
	if err != nil {
		return nil, err
	}
	return session.Query(stmtVariantPricing, variantID), nil
}
