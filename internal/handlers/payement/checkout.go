package payement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"visionnaire_back_end/internal/cache"
	"visionnaire_back_end/internal/config"
	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/pricing"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Quantité maximale par ligne de commande
const maxQuantityPerLine = 10

// Tentatives de réservation d'un numéro de commande avant abandon
const orderNumberRetries = 5

// CreateOrder transforme le panier Redis en commande. Les prix sont
// recalculés depuis le catalogue, jamais repris du panier tel quel.
func CreateOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	var req struct {
		DeliveryMethod  string                  `json:"delivery_method" binding:"required"`
		PaymentMethod   string                  `json:"payment_method" binding:"required"`
		ShippingAddress models.ShippingAddress  `json:"shipping_address"`
		BillingStreet   string                  `json:"billing_street"`
		BillingCity     string                  `json:"billing_city"`
		BillingPostal   string                  `json:"billing_postal_code"`
		PromoCode       string                  `json:"promo_code"`
		Notes           string                  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "reason": "validation_error"})
		return
	}

	if req.DeliveryMethod != models.DeliveryDomicile && req.DeliveryMethod != models.DeliveryBoutique {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mode de livraison invalide", "reason": "validation_error"})
		return
	}
	if req.PaymentMethod != models.PaymentStripe && req.PaymentMethod != models.PaymentAlma {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mode de paiement invalide", "reason": "validation_error"})
		return
	}

	// Adresse complète obligatoire pour une livraison à domicile
	if req.DeliveryMethod == models.DeliveryDomicile && !req.ShippingAddress.IsComplete() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Adresse de livraison incomplète : prénom, nom, rue, code postal, ville et pays sont requis",
			"reason": "validation_error",
		})
		return
	}

	// 1. Panier depuis Redis
	ctx := context.Background()
	cartData, err := database.Redis.Get(ctx, "cart:"+userID).Result()
	if err != nil || cartData == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide", "reason": "validation_error"})
		return
	}

	var cartItems []models.CartItem
	if err := json.Unmarshal([]byte(cartData), &cartItems); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if len(cartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide", "reason": "validation_error"})
		return
	}

	for _, item := range cartItems {
		if item.Quantity < 1 || item.Quantity > maxQuantityPerLine {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  fmt.Sprintf("Quantité invalide pour %s : entre 1 et %d", item.ProductName, maxQuantityPerLine),
				"reason": "validation_error",
			})
			return
		}
	}

	// 2. Re-dérivation des prix depuis le catalogue
	items, err := buildOrderItems(cartItems)
	if err != nil {
		var rejet *rejetCommande
		if errors.As(err, &rejet) {
			c.JSON(rejet.Status, gin.H{"error": rejet.Message, "reason": rejet.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification du catalogue"})
		return
	}

	// 3. Re-validation du code promo côté serveur
	subtotal := pricing.OrderSubtotal(items)

	var appliedPromo *models.Promotion
	promoCode := ""
	if req.PromoCode != "" {
		promo, validation, err := evaluatePromo(req.PromoCode, subtotal)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification du code promo"})
			return
		}
		if validation.IsValid {
			appliedPromo = promo
			promoCode = validation.Code
		} else if config.PromoStrict() {
			c.JSON(http.StatusBadRequest, gin.H{"error": validation.ErrorMessage, "reason": validation.Reason})
			return
		} else {
			// Promo invalide ignorée, la commande passe sans remise
			log.Printf("⚠️ Code promo %s rejeté (%s), commande créée sans remise", req.PromoCode, validation.Reason)
		}
	}

	totals := pricing.ComputeFromSubtotal(subtotal, req.DeliveryMethod, appliedPromo)

	// 4. Réservation d'un numéro de commande unique
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	orderID := gocql.UUID(uuid.New())
	orderNumber, err := reserveOrderNumber(ctx, ordersSession, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du numéro de commande"})
		return
	}

	// 5. Commande + lignes + historique initial en un batch logged
	now := time.Now()
	batch := ordersSession.NewBatch(gocql.LoggedBatch)

	batch.Query(`INSERT INTO orders (id, order_number, profile_id, status, delivery_method, payment_method,
		subtotal, shipping_cost, discount_amount, total, promo_code,
		shipping_first_name, shipping_last_name, shipping_street, shipping_street_2, shipping_city, shipping_postal_code, shipping_country,
		billing_street, billing_city, billing_postal_code, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderID, orderNumber, userID, models.StatusEnAttentePaiement, req.DeliveryMethod, req.PaymentMethod,
		totals.Subtotal, totals.ShippingCost, totals.DiscountAmount, totals.Total, promoCode,
		req.ShippingAddress.FirstName, req.ShippingAddress.LastName, req.ShippingAddress.Street,
		req.ShippingAddress.Street2, req.ShippingAddress.City, req.ShippingAddress.PostalCode, req.ShippingAddress.Country,
		req.BillingStreet, req.BillingCity, req.BillingPostal, req.Notes, now, now)

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		item.ID = gocql.UUID(uuid.New())
		item.OrderID = orderID
		item.CreatedAt = now
		orderItems = append(orderItems, item)

		prescriptionJSON := ""
		if item.PrescriptionData != nil {
			if data, err := json.Marshal(item.PrescriptionData); err == nil {
				prescriptionJSON = string(data)
			}
		}

		batch.Query(`INSERT INTO order_items (order_id, id, variant_id, product_name, variant_info, quantity, unit_price,
			lens_type, lens_options_summary, lens_options_price, prescription_url, prescription_validated, prescription_data, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			orderID, item.ID, item.VariantID, item.ProductName, item.VariantInfo, item.Quantity, item.UnitPrice,
			item.LensType, item.LensOptionsSummary, item.LensOptionsPrice, item.PrescriptionURL,
			item.PrescriptionValidated, prescriptionJSON, now)
	}

	batch.Query(`INSERT INTO order_status_history (order_id, id, status, comment, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		orderID, gocql.TimeUUID(), models.StatusEnAttentePaiement, "Commande créée", now)

	if err := ordersSession.ExecuteBatch(batch); err != nil {
		log.Printf("❌ Erreur insertion commande %s: %v", orderNumber, err)
		ordersSession.Query(`DELETE FROM orders_by_number WHERE order_number = ?`, orderNumber).Exec()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	log.Printf("✅ Commande %s créée (%d lignes, %.2f€) pour %s", orderNumber, len(orderItems), totals.Total, userID)

	// 6. Sauvegarde de l'adresse sur le profil si elle est nouvelle
	if req.DeliveryMethod == models.DeliveryDomicile {
		go saveAddressIfNew(userID, req.ShippingAddress)
	}

	// 7. Panier vidé après la commande
	if err := database.Redis.Del(ctx, "cart:"+userID).Err(); err == nil {
		log.Printf("🧹 Panier supprimé Redis pour %s", userID)
	}

	// 8. Email de confirmation, sans bloquer la réponse
	order := models.Order{
		ID:             orderID,
		OrderNumber:    orderNumber,
		ProfileID:      userID,
		Status:         models.StatusEnAttentePaiement,
		DeliveryMethod: req.DeliveryMethod,
		PaymentMethod:  req.PaymentMethod,
		Subtotal:       totals.Subtotal,
		ShippingCost:   totals.ShippingCost,
		DiscountAmount: totals.DiscountAmount,
		Total:          totals.Total,
		PromoCode:      promoCode,
		TrackingNumber: "",
		CreatedAt:      now,
		UpdatedAt:      now,
		Items:          orderItems,
	}

	go func(order models.Order, email string) {
		firstName := ""
		if u, err := cache.GetUserFromCache(order.ProfileID); err == nil {
			firstName = u.FirstName
		}
		subject, html := utils.GenerateOrderConfirmationHTML(order, firstName)
		if err := utils.SendEmail(email, subject, html, nil, ""); err != nil {
			log.Printf("⚠️ Email de confirmation non envoyé pour %s: %v", order.OrderNumber, err)
		}
	}(order, email)

	c.JSON(http.StatusCreated, gin.H{
		"order_id":     orderID.String(),
		"order_number": orderNumber,
		"status":       models.StatusEnAttentePaiement,
		"subtotal":     totals.Subtotal,
		"shipping":     totals.ShippingCost,
		"discount":     totals.DiscountAmount,
		"total":        totals.Total,
	})
}

// rejetCommande porte un refus métier jusqu'au handler avec son statut
// HTTP et sa raison machine.
type rejetCommande struct {
	Status  int
	Reason  string
	Message string
}

func (r *rejetCommande) Error() string { return r.Message }

// buildOrderItems refait chaque ligne depuis le catalogue : variante
// active, produit actif, prix et options de verres re-tarifés.
func buildOrderItems(cartItems []models.CartItem) ([]models.OrderItem, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(cartItems))
	for _, cartItem := range cartItems {
		variantID, err := uuid.Parse(cartItem.VariantID)
		if err != nil {
			return nil, &rejetCommande{http.StatusBadRequest, "validation_error", "ID variante invalide: " + cartItem.VariantID}
		}

		var (
			productUUID   gocql.UUID
			colorName     string
			size          string
			priceOverride *float64
			stockQuantity int
			variantActive bool
		)
		pricingQuery, err := database.QueryVariantPricing(gocql.UUID(variantID))
		if err != nil {
			return nil, err
		}
		err = pricingQuery.Scan(&productUUID, &colorName, &size, &priceOverride, &stockQuantity, &variantActive)
		if err != nil {
			return nil, &rejetCommande{http.StatusNotFound, "not_found", "Variante introuvable: " + cartItem.VariantID}
		}
		if !variantActive {
			return nil, &rejetCommande{http.StatusBadRequest, "validation_error", "La variante " + cartItem.ProductName + " n'est plus disponible"}
		}

		var (
			name, category string
			basePrice      float64
			productActive  bool
		)
		err = session.Query(`SELECT name, category, base_price, is_active FROM products WHERE id = ?`,
			productUUID).Scan(&name, &category, &basePrice, &productActive)
		if err != nil || !productActive {
			return nil, &rejetCommande{http.StatusBadRequest, "validation_error", "Le produit " + cartItem.ProductName + " n'est plus disponible"}
		}

		unitPrice := basePrice
		if priceOverride != nil {
			unitPrice = *priceOverride
		}

		lensSummary, lensPrice, lensType, err := repriceLens(session, cartItem.Lens)
		if err != nil {
			return nil, &rejetCommande{http.StatusBadRequest, "validation_error", "Option de verres invalide ou indisponible"}
		}

		variantInfo := colorName
		if size != "" {
			variantInfo += " / " + size
		}

		item := models.OrderItem{
			VariantID:          gocql.UUID(variantID),
			ProductName:        name,
			VariantInfo:        variantInfo,
			Quantity:           cartItem.Quantity,
			UnitPrice:          unitPrice,
			LensType:           lensType,
			LensOptionsSummary: lensSummary,
			LensOptionsPrice:   lensPrice,
			PrescriptionData:   cartItem.Prescription,
		}
		if cartItem.Prescription != nil && cartItem.Prescription.FileURL != "" {
			item.PrescriptionURL = cartItem.Prescription.FileURL
		}
		items = append(items, item)
	}

	return items, nil
}

// repriceLens re-tarife la sélection de verres depuis lens_options et en
// fait le résumé texte figé sur la ligne de commande.
func repriceLens(session *gocql.Session, lens *models.LensSelection) (summary string, total float64, lensType string, err error) {
	if lens == nil {
		return "", 0, "", nil
	}

	var parts []string
	add := func(optionID, expectedCategory string) error {
		oid, err := uuid.Parse(optionID)
		if err != nil {
			return fmt.Errorf("option invalide")
		}
		var (
			name, category string
			price          float64
			isActive       bool
		)
		err = session.Query(`SELECT name, category, price, is_active FROM lens_options WHERE id = ?`,
			gocql.UUID(oid)).Scan(&name, &category, &price, &isActive)
		if err != nil || !isActive || category != expectedCategory {
			return fmt.Errorf("option invalide")
		}
		parts = append(parts, name)
		total += price
		return nil
	}

	if lens.TypeOption != nil {
		if err := add(lens.TypeOption.OptionID, models.LensCategoryType); err != nil {
			return "", 0, "", err
		}
	}
	for _, t := range lens.Traitements {
		if err := add(t.OptionID, models.LensCategoryTraitement); err != nil {
			return "", 0, "", err
		}
	}
	if lens.Amincissement != nil {
		if err := add(lens.Amincissement.OptionID, models.LensCategoryAmincissement); err != nil {
			return "", 0, "", err
		}
	}

	summary = ""
	for i, p := range parts {
		if i > 0 {
			summary += ", "
		}
		summary += p
	}
	return summary, total, lens.LensType, nil
}

// reserveOrderNumber tire un numéro VO-<année>-<seq>-<suffixe> et le
// réserve en LWT sur orders_by_number. Collision improbable mais gérée
// par un nouveau tirage.
func reserveOrderNumber(ctx context.Context, session *gocql.Session, orderID gocql.UUID) (string, error) {
	year := time.Now().Year()

	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		seq, err := database.Redis.Incr(ctx, fmt.Sprintf("order_seq:%d", year)).Result()
		if err != nil {
			return "", err
		}

		orderNumber := utils.GenerateOrderNumber(seq, time.Now())

		applied, err := session.Query(`INSERT INTO orders_by_number (order_number, order_id) VALUES (?, ?) IF NOT EXISTS`,
			orderNumber, orderID).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return "", err
		}
		if applied {
			return orderNumber, nil
		}
		log.Printf("⚠️ Numéro de commande %s déjà pris, nouveau tirage", orderNumber)
	}

	return "", fmt.Errorf("impossible de réserver un numéro de commande après %d tentatives", orderNumberRetries)
}

// saveAddressIfNew enregistre l'adresse de livraison sur le profil si
// elle n'y figure pas déjà.
func saveAddressIfNew(userID string, addr models.ShippingAddress) {
	session, err := database.GetUsersSession()
	if err != nil {
		return
	}

	iter := session.Query(`SELECT street, postal_code, city FROM addresses WHERE profile_id = ?`, userID).Iter()
	var street, postalCode, city string
	for iter.Scan(&street, &postalCode, &city) {
		if street == addr.Street && postalCode == addr.PostalCode && city == addr.City {
			iter.Close()
			return
		}
	}
	iter.Close()

	err = session.Query(`INSERT INTO addresses (profile_id, address_id, label, first_name, last_name, street, street_2, postal_code, city, country, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, gocql.UUID(uuid.New()), "Livraison", addr.FirstName, addr.LastName,
		addr.Street, addr.Street2, addr.PostalCode, addr.City, addr.Country,
		false, time.Now()).Exec()
	if err == nil {
		log.Printf("✅ Adresse de livraison ajoutée au profil %s", userID)
	}
}
