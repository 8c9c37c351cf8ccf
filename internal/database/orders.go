package database

import (
	"encoding/json"

	"visionnaire_back_end/internal/models"

	"github.com/gocql/gocql"
)

// LoadOrder lit une commande complète : en-tête, lignes et historique.
// Retourne gocql.ErrNotFound si l'id est inconnu.
func LoadOrder(orderID gocql.UUID) (*models.Order, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, err
	}

	order := models.Order{ID: orderID}
	err = session.Query(`SELECT order_number, profile_id, status, delivery_method, payment_method,
		subtotal, shipping_cost, discount_amount, total, promo_code,
		stripe_payment_intent_id, alma_payment_id,
		shipping_first_name, shipping_last_name, shipping_street, shipping_street_2, shipping_city, shipping_postal_code, shipping_country,
		billing_street, billing_city, billing_postal_code,
		tracking_number, notes, created_at, updated_at
		FROM orders WHERE id = ?`, orderID).Scan(
		&order.OrderNumber, &order.ProfileID, &order.Status, &order.DeliveryMethod, &order.PaymentMethod,
		&order.Subtotal, &order.ShippingCost, &order.DiscountAmount, &order.Total, &order.PromoCode,
		&order.StripePaymentIntentID, &order.AlmaPaymentID,
		&order.ShippingFirstName, &order.ShippingLastName, &order.ShippingStreet, &order.ShippingStreet2,
		&order.ShippingCity, &order.ShippingPostalCode, &order.ShippingCountry,
		&order.BillingStreet, &order.BillingCity, &order.BillingPostalCode,
		&order.TrackingNumber, &order.Notes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	items, err := LoadOrderItems(orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	history, err := LoadOrderHistory(orderID)
	if err != nil {
		return nil, err
	}
	order.History = history

	return &order, nil
}

// LoadOrderItems lit les lignes d'une commande.
func LoadOrderItems(orderID gocql.UUID) ([]models.OrderItem, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, err
	}

	items := []models.OrderItem{}
	iter := session.Query(`SELECT id, variant_id, product_name, variant_info, quantity, unit_price,
		lens_type, lens_options_summary, lens_options_price, prescription_url, prescription_validated, prescription_data, created_at
		FROM order_items WHERE order_id = ?`, orderID).Iter()

	for {
		item := models.OrderItem{OrderID: orderID}
		var prescriptionJSON string
		if !iter.Scan(&item.ID, &item.VariantID, &item.ProductName, &item.VariantInfo, &item.Quantity, &item.UnitPrice,
			&item.LensType, &item.LensOptionsSummary, &item.LensOptionsPrice, &item.PrescriptionURL,
			&item.PrescriptionValidated, &prescriptionJSON, &item.CreatedAt) {
			break
		}
		if prescriptionJSON != "" {
			var prescription models.Prescription
			if json.Unmarshal([]byte(prescriptionJSON), &prescription) == nil {
				item.PrescriptionData = &prescription
			}
		}
		items = append(items, item)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadOrderHistory lit l'historique de statuts, du plus ancien au plus
// récent (clustering sur TimeUUID).
func LoadOrderHistory(orderID gocql.UUID) ([]models.OrderStatusHistory, error) {
	session, err := GetOrdersSession()
	if err != nil {
		return nil, err
	}

	history := []models.OrderStatusHistory{}
	iter := session.Query(`SELECT id, status, comment, created_at
		FROM order_status_history WHERE order_id = ?`, orderID).Iter()

	for {
		entry := models.OrderStatusHistory{OrderID: orderID}
		if !iter.Scan(&entry.ID, &entry.Status, &entry.Comment, &entry.CreatedAt) {
			break
		}
		history = append(history, entry)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return history, nil
}
