package user

import (
	"log"
	"net/http"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

//
// --- HANDLERS ADRESSES ---
//

// clearDefaultAddress retire le marqueur par défaut des adresses du
// profil avant d'en désigner une autre. Un seul défaut à la fois.
func clearDefaultAddress(session *gocql.Session, profileID string) {
	iter := session.Query(`SELECT address_id, is_default FROM addresses WHERE profile_id = ?`, profileID).Iter()
	var addressID gocql.UUID
	var isDefault bool
	for iter.Scan(&addressID, &isDefault) {
		if !isDefault {
			continue
		}
		if err := session.Query(`UPDATE addresses SET is_default = false WHERE profile_id = ? AND address_id = ?`,
			profileID, addressID).Exec(); err != nil {
			log.Printf("⚠️ Adresse par défaut non réinitialisée pour %s: %v", profileID, err)
		}
	}
	_ = iter.Close()
}

// 🟢 GET /api/addresses/mine
func ListMyAddresses(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	results := []models.Address{}
	iter := session.Query(`SELECT address_id, label, first_name, last_name, street, street_2, postal_code, city, country, is_default
		FROM addresses WHERE profile_id = ?`, userID).Iter()

	var (
		addressID                                 gocql.UUID
		label, firstName, lastName                string
		street, street2, postalCode, city, country string
		isDefault                                 bool
	)
	for iter.Scan(&addressID, &label, &firstName, &lastName, &street, &street2, &postalCode, &city, &country, &isDefault) {
		results = append(results, models.Address{
			ID:         addressID.String(),
			ProfileID:  userID,
			Label:      label,
			FirstName:  firstName,
			LastName:   lastName,
			Street:     street,
			Street2:    street2,
			PostalCode: postalCode,
			City:       city,
			Country:    country,
			IsDefault:  isDefault,
		})
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture adresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": results})
}

// 🟢 POST /api/addresses
func CreateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	var input struct {
		Label      string `json:"label"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		Street     string `json:"street"`
		Street2    string `json:"street_2"`
		PostalCode string `json:"postal_code"`
		City       string `json:"city"`
		Country    string `json:"country"`
		IsDefault  bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	addr := models.ShippingAddress{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Street:     input.Street,
		PostalCode: input.PostalCode,
		City:       input.City,
		Country:    input.Country,
	}
	if !addr.IsComplete() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse incomplète : prénom, nom, rue, code postal, ville et pays sont requis"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	addressID := gocql.UUID(uuid.New())
	if input.IsDefault {
		clearDefaultAddress(session, userID)
	}
	err = session.Query(`INSERT INTO addresses (profile_id, address_id, label, first_name, last_name, street, street_2, postal_code, city, country, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, addressID, input.Label, input.FirstName, input.LastName,
		input.Street, input.Street2, input.PostalCode, input.City, input.Country,
		input.IsDefault, time.Now()).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création adresse"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"address_id": addressID.String()})
}

// 🟡 PUT /api/addresses/:id
func UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	var input struct {
		Label      string `json:"label"`
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		Street     string `json:"street"`
		Street2    string `json:"street_2"`
		PostalCode string `json:"postal_code"`
		City       string `json:"city"`
		Country    string `json:"country"`
		IsDefault  bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if input.IsDefault {
		clearDefaultAddress(session, userID)
	}

	// La clé de partition est profile_id : un client ne peut toucher que
	// ses propres adresses
	err = session.Query(`UPDATE addresses SET label = ?, first_name = ?, last_name = ?, street = ?, street_2 = ?, postal_code = ?, city = ?, country = ?, is_default = ?
		WHERE profile_id = ? AND address_id = ?`,
		input.Label, input.FirstName, input.LastName, input.Street, input.Street2,
		input.PostalCode, input.City, input.Country, input.IsDefault,
		userID, gocql.UUID(addressID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour adresse"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse mise à jour"})
}

// 🔴 DELETE /api/addresses/:id
func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`DELETE FROM addresses WHERE profile_id = ? AND address_id = ?`,
		userID, gocql.UUID(addressID)).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression adresse"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse supprimée"})
}
