package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// L'ordre des colonnes de ces requêtes est celui des Scan côté
// handlers : un réordonnancement silencieux casserait le checkout et le
// login.
func TestHotStatementColumnOrder(t *testing.T) {
	assert.True(t, strings.HasPrefix(stmtVariantPricing,
		"SELECT product_id, color_name, size, price_override, stock_quantity, is_active"))

	assert.True(t, strings.HasPrefix(stmtUserAuthByID,
		"SELECT email, password, first_name, last_name, phone, role, provider"))

	assert.True(t, strings.HasPrefix(stmtUserIDByEmail, "SELECT user_id FROM users_by_email"))

	// L'insert utilisateur ne touche jamais users_by_email : la
	// réservation d'email reste un LWT
	assert.Contains(t, stmtInsertUser, "INSERT INTO users ")
	assert.NotContains(t, stmtInsertUser, "users_by_email")
	assert.NotContains(t, stmtInsertUser, "IF NOT EXISTS")
}
