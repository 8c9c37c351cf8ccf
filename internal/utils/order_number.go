package utils

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"time"
)

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var orderNumberPattern = regexp.MustCompile(`^VO-\d{4}-\d{4,}-[A-Z0-9]{3}$`)

// GenerateOrderNumber produit un numéro de commande lisible de la forme
// VO-2026-0042-X7K : année, séquence, suffixe aléatoire. L'unicité
// réelle est garantie par l'insertion IF NOT EXISTS dans
// orders_by_number — en cas de collision l'appelant regénère.
func GenerateOrderNumber(seq int64, now time.Time) string {
	suffix := make([]byte, 3)
	random := make([]byte, 3)
	_, _ = rand.Read(random)
	for i, b := range random {
		suffix[i] = orderNumberAlphabet[int(b)%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("VO-%d-%04d-%s", now.Year(), seq, suffix)
}

// IsOrderNumber vérifie le format d'un numéro de commande.
func IsOrderNumber(s string) bool {
	return orderNumberPattern.MatchString(s)
}
