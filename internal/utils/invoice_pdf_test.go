package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"visionnaire_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() models.Order {
	return models.Order{
		OrderNumber:        "VO-2026-0042-X7K",
		Subtotal:           310.00,
		ShippingCost:       0,
		DiscountAmount:     31.00,
		Total:              279.00,
		ShippingStreet:     "12 rue de la République",
		ShippingCity:       "Lyon",
		ShippingPostalCode: "69002",
		CreatedAt:          time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{
				ProductName:        "Monture Horizon",
				VariantInfo:        "Écaille / M",
				Quantity:           1,
				UnitPrice:          129.00,
				LensOptionsPrice:   90.00,
				LensOptionsSummary: "Unifocaux, Anti-reflet",
			},
		},
	}
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "129,00 €", FormatPrice(129.00))
	assert.Equal(t, "6,90 €", FormatPrice(6.90))
	assert.Equal(t, "0,00 €", FormatPrice(0))
}

func TestBuildInvoiceDataIsDeterministic(t *testing.T) {
	order := sampleOrder()
	profile := models.User{FirstName: "Claire", LastName: "Dubois", Email: "claire@example.fr"}

	first := BuildInvoiceData(order, profile)
	second := BuildInvoiceData(order, profile)
	assert.Equal(t, first, second)
}

func TestBuildInvoiceDataAmounts(t *testing.T) {
	data := BuildInvoiceData(sampleOrder(), models.User{FirstName: "Claire", LastName: "Dubois"})

	assert.Equal(t, "VO-2026-0042-X7K", data.InvoiceNumber)
	assert.Equal(t, "14 mars 2026", data.IssueDate)
	// HT/TVA extraits du TTC à 20 %
	assert.Equal(t, "258,33 €", data.SubtotalHT)
	assert.Equal(t, "51,67 €", data.TVA)
	assert.Equal(t, "-31,00 €", data.Discount)
	assert.Empty(t, data.Shipping) // port offert, ligne absente
	assert.Equal(t, "279,00 €", data.TotalTTC)
	assert.Equal(t, "FACT-VO-2026-0042-X7K", data.SepaReference)
}

func TestBuildInvoiceDataBilledToPrecedence(t *testing.T) {
	order := sampleOrder()

	// Adresse de livraison par défaut
	data := BuildInvoiceData(order, models.User{FirstName: "Claire", LastName: "Dubois"})
	assert.Equal(t, "Claire Dubois", data.BilledToName)
	require.Len(t, data.BilledToLines, 2)
	assert.Equal(t, "12 rue de la République", data.BilledToLines[0])
	assert.Equal(t, "69002 Lyon", data.BilledToLines[1])

	// L'adresse de facturation prime quand elle existe
	order.BillingStreet = "3 place Bellecour"
	order.BillingCity = "Lyon"
	order.BillingPostalCode = "69002"
	data = BuildInvoiceData(order, models.User{FirstName: "Claire"})
	assert.Equal(t, "3 place Bellecour", data.BilledToLines[0])

	// Profil sans nom
	data = BuildInvoiceData(order, models.User{})
	assert.Equal(t, "Client", data.BilledToName)
}

func TestBuildInvoiceDataLineDescription(t *testing.T) {
	data := BuildInvoiceData(sampleOrder(), models.User{})

	require.Len(t, data.Lines, 1)
	line := data.Lines[0]
	assert.Contains(t, line.Description, "Monture Horizon")
	assert.Contains(t, line.Description, "Unifocaux")
	assert.Equal(t, "1", line.Quantity)
	assert.Equal(t, "219,00 €", line.UnitPrice)
	assert.Equal(t, "219,00 €", line.LineTotal)
}

func TestBuildInvoiceDataTruncatesLongDescriptions(t *testing.T) {
	order := sampleOrder()
	order.Items[0].ProductName = strings.Repeat("é", 80)

	data := BuildInvoiceData(order, models.User{})
	require.Len(t, data.Lines, 1)
	assert.Equal(t, invoiceDescriptionWidth, len([]rune(data.Lines[0].Description)))
}

func TestGenerateSepaQR(t *testing.T) {
	qr, err := GenerateSepaQR("FR7630006000011234567890189", "AGRIFRPP",
		ShopName, "FACT-VO-2026-0042-X7K", 279.00)
	require.NoError(t, err)
	assert.NotEmpty(t, qr)
}

func TestGenerateInvoicePDF(t *testing.T) {
	data := BuildInvoiceData(sampleOrder(), models.User{FirstName: "Claire", LastName: "Dubois"})

	pdf, err := GenerateInvoicePDF(data, "")
	require.NoError(t, err)
	// En-tête du format PDF
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestGenerateInvoicePDFIsByteIdentical(t *testing.T) {
	order := sampleOrder()
	profile := models.User{FirstName: "Claire", LastName: "Dubois", Email: "claire@example.fr"}

	first, err := GenerateInvoicePDF(BuildInvoiceData(order, profile), "")
	require.NoError(t, err)

	// Deux rendus à des instants différents doivent produire exactement
	// les mêmes octets : les dates internes du PDF sont celles de la
	// commande, pas celles de l'horloge.
	time.Sleep(1100 * time.Millisecond)
	second, err := GenerateInvoicePDF(BuildInvoiceData(order, profile), "")
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "les octets du PDF diffèrent entre deux générations")
}

func TestPinPDFDates(t *testing.T) {
	issuedAt := time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)
	raw := []byte("<< /CreationDate (D:20260830221504) /ModDate (D:20260830221505) >>")

	pinned := pinPDFDates(raw, issuedAt)
	assert.Equal(t, "<< /CreationDate (D:20260314103000) /ModDate (D:20260314103000) >>", string(pinned))
	// Même longueur : les offsets xref du document restent valides
	assert.Equal(t, len(raw), len(pinned))
}
