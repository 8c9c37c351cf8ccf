package invoice

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"visionnaire_back_end/internal/cache"
	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// loadInvoiceOrder charge la commande et vérifie que le demandeur est
// le propriétaire ou un admin. La facture n'existe que pour une
// commande payée (ou plus avancée).
func loadInvoiceOrder(c *gin.Context) (*models.Order, *models.User, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return nil, nil, false
	}

	order, err := database.LoadOrder(gocql.UUID(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return nil, nil, false
	}

	userID := c.GetString("user_id")
	role := c.GetString("role")
	if role != "admin" && order.ProfileID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé à cette facture", "reason": "forbidden"})
		return nil, nil, false
	}

	if order.Status == models.StatusEnAttentePaiement || order.Status == models.StatusAnnulee {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune facture disponible pour cette commande"})
		return nil, nil, false
	}

	user, err := cache.GetUserFromCache(order.ProfileID)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture client"})
		return nil, nil, false
	}

	return order, user, true
}

func buildInvoicePDF(order models.Order, user models.User) ([]byte, error) {
	data := utils.BuildInvoiceData(order, user)

	sepaQR := ""
	iban := os.Getenv("SHOP_IBAN")
	bic := os.Getenv("SHOP_BIC")
	if iban != "" && bic != "" {
		qr, err := utils.GenerateSepaQR(iban, bic, utils.ShopName, data.SepaReference, order.Total)
		if err != nil {
			log.Printf("⚠️ QR SEPA non généré pour %s: %v", order.OrderNumber, err)
		} else {
			sepaQR = qr
		}
	}

	return utils.GenerateInvoicePDF(data, sepaQR)
}

// 🟢 GET /api/orders/:id/invoice — le PDF de facture
func GetInvoice(c *gin.Context) {
	order, user, ok := loadInvoiceOrder(c)
	if !ok {
		return
	}

	pdf, err := buildInvoicePDF(*order, *user)
	if err != nil {
		log.Printf("❌ Erreur génération facture %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération de la facture"})
		return
	}

	filename := fmt.Sprintf("facture_%s.pdf", order.OrderNumber)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// 🟢 POST /api/orders/:id/invoice/send — envoie la facture par e-mail
func SendInvoice(c *gin.Context) {
	order, user, ok := loadInvoiceOrder(c)
	if !ok {
		return
	}

	pdf, err := buildInvoicePDF(*order, *user)
	if err != nil {
		log.Printf("❌ Erreur génération facture %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération de la facture"})
		return
	}

	subject, html := utils.GenerateInvoiceEmailHTML(*order, user.FirstName)
	filename := fmt.Sprintf("facture_%s.pdf", order.OrderNumber)
	email := user.Email
	go func() {
		if err := utils.SendEmail(email, subject, html, pdf, filename); err != nil {
			log.Printf("❌ Erreur envoi facture %s: %v", filename, err)
		}
	}()

	c.JSON(http.StatusOK, gin.H{"message": "Facture envoyée par e-mail", "order_number": order.OrderNumber})
}
