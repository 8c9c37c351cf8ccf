package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// Getenv retourne la variable d'environnement ou la valeur par défaut.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// PromoStrict : quand un code promo fourni au checkout échoue à la
// re-validation serveur, la commande est par défaut créée sans remise.
// PROMO_STRICT=true fait échouer le checkout à la place.
func PromoStrict() bool {
	return os.Getenv("PROMO_STRICT") == "true"
}
