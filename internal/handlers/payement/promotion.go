package payement

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// loadPromotionByCode lit une promotion depuis ks_orders.promotions. Une
// promotion inconnue ou désactivée est traitée comme introuvable.
func loadPromotionByCode(code string) (*models.Promotion, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var (
		id             gocql.UUID
		name           string
		description    string
		discountType   string
		discountValue  float64
		isActive       bool
		startsAt       *time.Time
		endsAt         *time.Time
		minOrderAmount *float64
		createdAt      time.Time
	)
	err = session.Query(`SELECT id, name, description, discount_type, discount_value, is_active, starts_at, ends_at, min_order_amount, created_at
		FROM promotions WHERE code = ?`, code).Scan(
		&id, &name, &description, &discountType, &discountValue, &isActive, &startsAt, &endsAt, &minOrderAmount, &createdAt)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	if !isActive {
		return nil, nil
	}

	return &models.Promotion{
		ID:             id,
		Name:           name,
		Description:    description,
		Code:           code,
		DiscountType:   discountType,
		DiscountValue:  discountValue,
		IsActive:       isActive,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		MinOrderAmount: minOrderAmount,
		CreatedAt:      createdAt,
	}, nil
}

// evaluatePromo normalise le code, charge la promotion et l'évalue sur
// le sous-total fourni.
func evaluatePromo(code string, orderTotal float64) (*models.Promotion, models.PromotionValidation, error) {
	normalized := models.NormalizePromoCode(code)

	promo, err := loadPromotionByCode(normalized)
	if err != nil {
		return nil, models.PromotionValidation{}, err
	}
	if promo == nil {
		return nil, models.PromotionValidation{
			IsValid:      false,
			Reason:       models.PromoNotFound,
			ErrorMessage: "Code promo invalide",
		}, nil
	}

	validation := promo.Evaluate(orderTotal, time.Now())
	if !validation.IsValid {
		return nil, validation, nil
	}
	return promo, validation, nil
}

//
// 🟢 POST /api/promotions/validate
//
func ValidatePromoCode(c *gin.Context) {
	var req struct {
		Code       string  `json:"code" binding:"required"`
		OrderTotal float64 `json:"order_total"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code promo requis"})
		return
	}

	_, validation, err := evaluatePromo(req.Code, req.OrderTotal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification du code promo"})
		return
	}

	if !validation.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"is_valid": false,
			"reason":   validation.Reason,
			"error":    validation.ErrorMessage,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_valid":       true,
		"code":           validation.Code,
		"name":           validation.Name,
		"discount_type":  validation.DiscountType,
		"discount_value": validation.DiscountValue,
	})
}

// ================== ADMIN ==================

// 🟢 POST /api/admin/promotions
func CreatePromotion(c *gin.Context) {
	var req struct {
		Name           string     `json:"name" binding:"required"`
		Description    string     `json:"description"`
		Code           string     `json:"code" binding:"required"`
		DiscountType   string     `json:"discount_type" binding:"required"`
		DiscountValue  float64    `json:"discount_value" binding:"required"`
		StartsAt       *time.Time `json:"starts_at"`
		EndsAt         *time.Time `json:"ends_at"`
		MinOrderAmount *float64   `json:"min_order_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if req.DiscountType != models.DiscountPercentage && req.DiscountType != models.DiscountFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de remise invalide"})
		return
	}
	if req.DiscountType == models.DiscountPercentage && (req.DiscountValue <= 0 || req.DiscountValue > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pourcentage doit être entre 1 et 100"})
		return
	}
	if req.DiscountType == models.DiscountFixed && req.DiscountValue <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant fixe doit être positif"})
		return
	}

	code := models.NormalizePromoCode(req.Code)

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	promoID := gocql.UUID(uuid.New())
	applied, err := session.Query(`INSERT INTO promotions (code, id, name, description, discount_type, discount_value, is_active, starts_at, ends_at, min_order_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, true, ?, ?, ?, ?) IF NOT EXISTS`,
		code, promoID, req.Name, req.Description, req.DiscountType, req.DiscountValue,
		req.StartsAt, req.EndsAt, req.MinOrderAmount, time.Now()).MapScanCAS(map[string]interface{}{})
	if err != nil {
		log.Printf("❌ Erreur création promotion: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la promotion"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce code promo existe déjà"})
		return
	}

	log.Printf("✅ Promotion créée: %s (%s %.2f)", code, req.DiscountType, req.DiscountValue)
	c.JSON(http.StatusCreated, gin.H{"id": promoID.String(), "code": code})
}

// 🟢 GET /api/admin/promotions
func ListPromotions(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	promotions := []models.Promotion{}
	iter := session.Query(`SELECT code, id, name, description, discount_type, discount_value, is_active, starts_at, ends_at, min_order_amount, created_at
		FROM promotions`).Iter()

	var (
		code, name, description, discountType string
		id                                    gocql.UUID
		discountValue                         float64
		isActive                              bool
		startsAt, endsAt                      *time.Time
		minOrderAmount                        *float64
		createdAt                             time.Time
	)
	for iter.Scan(&code, &id, &name, &description, &discountType, &discountValue, &isActive, &startsAt, &endsAt, &minOrderAmount, &createdAt) {
		promo := models.Promotion{
			ID:            id,
			Name:          name,
			Description:   description,
			Code:          code,
			DiscountType:  discountType,
			DiscountValue: discountValue,
			IsActive:      isActive,
			CreatedAt:     createdAt,
		}
		if startsAt != nil {
			t := *startsAt
			promo.StartsAt = &t
		}
		if endsAt != nil {
			t := *endsAt
			promo.EndsAt = &t
		}
		if minOrderAmount != nil {
			m := *minOrderAmount
			promo.MinOrderAmount = &m
		}
		promotions = append(promotions, promo)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture promotions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"promotions": promotions})
}

type promotionUpdateRequest struct {
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	DiscountType   *string    `json:"discount_type"`
	DiscountValue  *float64   `json:"discount_value"`
	IsActive       *bool      `json:"is_active"`
	StartsAt       *time.Time `json:"starts_at"`
	EndsAt         *time.Time `json:"ends_at"`
	MinOrderAmount *float64   `json:"min_order_amount"`
}

// buildPromotionUpdates construit la clause SET depuis les seuls champs
// fournis : un body partiel ne touche pas aux autres colonnes.
func buildPromotionUpdates(req promotionUpdateRequest) ([]string, []interface{}) {
	updates := []string{}
	values := []interface{}{}

	if req.Name != nil {
		updates = append(updates, "name = ?")
		values = append(values, *req.Name)
	}
	if req.Description != nil {
		updates = append(updates, "description = ?")
		values = append(values, *req.Description)
	}
	if req.DiscountType != nil {
		updates = append(updates, "discount_type = ?")
		values = append(values, *req.DiscountType)
	}
	if req.DiscountValue != nil {
		updates = append(updates, "discount_value = ?")
		values = append(values, *req.DiscountValue)
	}
	if req.IsActive != nil {
		updates = append(updates, "is_active = ?")
		values = append(values, *req.IsActive)
	}
	if req.StartsAt != nil {
		updates = append(updates, "starts_at = ?")
		values = append(values, *req.StartsAt)
	}
	if req.EndsAt != nil {
		updates = append(updates, "ends_at = ?")
		values = append(values, *req.EndsAt)
	}
	if req.MinOrderAmount != nil {
		updates = append(updates, "min_order_amount = ?")
		values = append(values, *req.MinOrderAmount)
	}

	return updates, values
}

// 🟡 PUT /api/admin/promotions/:code
func UpdatePromotion(c *gin.Context) {
	code := models.NormalizePromoCode(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code promo requis"})
		return
	}

	var req promotionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if req.DiscountType != nil && *req.DiscountType != models.DiscountPercentage && *req.DiscountType != models.DiscountFixed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de remise invalide"})
		return
	}

	updates, values := buildPromotionUpdates(req)
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune mise à jour fournie"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// La promotion peut être désactivée : on vérifie l'existence brute
	var id gocql.UUID
	if err := session.Query(`SELECT id FROM promotions WHERE code = ?`, code).Scan(&id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promotion introuvable"})
		return
	}

	values = append(values, code)
	query := fmt.Sprintf("UPDATE promotions SET %s WHERE code = ?", strings.Join(updates, ", "))
	if err := session.Query(query, values...).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour promotion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promotion mise à jour", "code": code})
}

// 🔴 DELETE /api/admin/promotions/:code
func DeletePromotion(c *gin.Context) {
	code := models.NormalizePromoCode(c.Param("code"))
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code promo requis"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	err = session.Query(`DELETE FROM promotions WHERE code = ?`, code).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression promotion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Promotion supprimée"})
}
