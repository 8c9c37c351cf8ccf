package utils

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/pricing"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
	"github.com/skip2/go-qrcode"
)

// Identité de la boutique, imprimée en en-tête de chaque facture.
const (
	ShopName    = "Visionnaire Opticiens"
	ShopAddress = "44 Cours Franklin Roosevelt"
	ShopCity    = "69006 Lyon"
	ShopCountry = "France"
	ShopPhone   = "+33 4 78 52 62 22"
	ShopEmail   = "contact@visionnaires.fr"
)

// Largeur maximale d'une description de ligne sur la facture.
const invoiceDescriptionWidth = 45

// InvoiceData est la représentation intermédiaire d'une facture :
// uniquement des valeurs dérivées des données de la commande, sans
// horloge ni aléa, pour que deux générations successives soient
// identiques.
type InvoiceData struct {
	InvoiceNumber string
	IssueDate     string
	IssuedAt      time.Time

	BilledToName  string
	BilledToLines []string
	BilledToEmail string

	Lines []InvoiceLine

	SubtotalHT string
	TVA        string
	Discount   string // vide si pas de remise
	Shipping   string // vide si retrait boutique ou port offert
	TotalTTC   string

	SepaReference string
	SepaAmount    float64
}

type InvoiceLine struct {
	Description string
	Quantity    string
	UnitPrice   string
	LineTotal   string
}

// FormatPrice formate un montant en euros à la française.
func FormatPrice(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	return strings.Replace(s, ".", ",", 1) + " €"
}

// BuildInvoiceData assemble la facture depuis la commande, ses lignes et
// le profil du client. Fonction pure : mêmes entrées, même résultat.
func BuildInvoiceData(order models.Order, profile models.User) InvoiceData {
	data := InvoiceData{
		InvoiceNumber: order.OrderNumber,
		IssueDate:     formatInvoiceDate(order.CreatedAt),
		IssuedAt:      order.CreatedAt,
		BilledToEmail: profile.Email,
		SepaReference: "FACT-" + order.OrderNumber,
		SepaAmount:    order.Total,
	}

	// Bloc "Facturé à" : adresse de facturation si présente, sinon
	// adresse de livraison, sinon juste "Client".
	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if name == "" {
		name = "Client"
	}
	data.BilledToName = name

	street := order.BillingStreet
	city := order.BillingCity
	postalCode := order.BillingPostalCode
	if street == "" {
		street = order.ShippingStreet
		city = order.ShippingCity
		postalCode = order.ShippingPostalCode
	}
	if street != "" {
		data.BilledToLines = append(data.BilledToLines, street)
	}
	if postalCode != "" && city != "" {
		data.BilledToLines = append(data.BilledToLines, postalCode+" "+city)
	}

	for _, item := range order.Items {
		description := item.ProductName
		if item.VariantInfo != "" {
			description += " — " + item.VariantInfo
		}
		if item.LensOptionsSummary != "" {
			description += " (" + item.LensOptionsSummary + ")"
		}
		if runes := []rune(description); len(runes) > invoiceDescriptionWidth {
			description = string(runes[:invoiceDescriptionWidth])
		}
		unitPrice := item.UnitPrice + item.LensOptionsPrice
		data.Lines = append(data.Lines, InvoiceLine{
			Description: description,
			Quantity:    fmt.Sprintf("%d", item.Quantity),
			UnitPrice:   FormatPrice(unitPrice),
			LineTotal:   FormatPrice(item.LineTotal()),
		})
	}

	// TVA 20 % incluse dans les prix TTC stockés
	ht, tva := pricing.VATBreakdown(order.Subtotal)
	data.SubtotalHT = FormatPrice(ht)
	data.TVA = FormatPrice(tva)
	if order.DiscountAmount > 0 {
		data.Discount = "-" + FormatPrice(order.DiscountAmount)
	}
	if order.ShippingCost > 0 {
		data.Shipping = FormatPrice(order.ShippingCost)
	}
	data.TotalTTC = FormatPrice(order.Total)

	return data
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

func formatInvoiceDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// GenerateSepaQR génère un QR SEPA (EPC) en base64, imprimé sur la
// facture pour payer par virement.
func GenerateSepaQR(iban, bic, name, ref string, amount float64) (string, error) {
	sepa := fmt.Sprintf(`BCD
001
1
SCT
%s
%s
%s
EUR%.2f
%s`, bic, name, iban, amount, ref)

	png, err := qrcode.Encode(sepa, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// GenerateInvoicePDF rend la facture en PDF (A4, une page). Le rendu ne
// dépend que d'InvoiceData et du QR fournis.
func GenerateInvoicePDF(data InvoiceData, sepaQRBase64 string) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	darkGray := color.Color{Red: 26, Green: 26, Blue: 26}
	mediumGray := color.Color{Red: 102, Green: 102, Blue: 102}

	// En-tête : boutique à gauche, numéro de facture à droite
	m.Row(12, func() {
		m.Col(8, func() {
			m.Text(strings.ToUpper(ShopName), props.Text{
				Size:  18,
				Style: consts.Bold,
				Color: darkGray,
			})
		})
		m.Col(4, func() {
			m.Text("FACTURE", props.Text{
				Size:  14,
				Style: consts.Bold,
				Color: darkGray,
				Align: consts.Right,
			})
		})
	})

	m.Row(6, func() {
		m.Col(8, func() {
			m.Text(ShopAddress, props.Text{Size: 9, Color: mediumGray})
		})
		m.Col(4, func() {
			m.Text(data.InvoiceNumber, props.Text{Size: 10, Color: mediumGray, Align: consts.Right})
		})
	})
	m.Row(5, func() {
		m.Col(8, func() {
			m.Text(ShopCity+", "+ShopCountry, props.Text{Size: 9, Color: mediumGray})
		})
	})
	m.Row(5, func() {
		m.Col(8, func() {
			m.Text("Tél: "+ShopPhone+" — "+ShopEmail, props.Text{Size: 9, Color: mediumGray})
		})
	})

	m.Row(6, func() {})

	// Bloc client + date
	m.Row(5, func() {
		m.Col(6, func() {
			m.Text("Facturé à :", props.Text{Size: 9, Style: consts.Bold, Color: darkGray})
		})
		m.Col(6, func() {
			m.Text("Date de facture : "+data.IssueDate, props.Text{Size: 9, Color: mediumGray, Align: consts.Right})
		})
	})
	m.Row(5, func() {
		m.Col(8, func() {
			m.Text(data.BilledToName, props.Text{Size: 10, Style: consts.Bold, Color: darkGray})
		})
	})
	for _, line := range data.BilledToLines {
		addressLine := line
		m.Row(5, func() {
			m.Col(8, func() {
				m.Text(addressLine, props.Text{Size: 9, Color: mediumGray})
			})
		})
	}
	if data.BilledToEmail != "" {
		m.Row(5, func() {
			m.Col(8, func() {
				m.Text(data.BilledToEmail, props.Text{Size: 9, Color: mediumGray})
			})
		})
	}

	m.Row(8, func() {})

	// Tableau des articles
	m.Row(7, func() {
		m.Col(7, func() {
			m.Text("Description", props.Text{Size: 9, Style: consts.Bold, Color: darkGray})
		})
		m.Col(1, func() {
			m.Text("Qté", props.Text{Size: 9, Style: consts.Bold, Color: darkGray, Align: consts.Right})
		})
		m.Col(2, func() {
			m.Text("Prix unit.", props.Text{Size: 9, Style: consts.Bold, Color: darkGray, Align: consts.Right})
		})
		m.Col(2, func() {
			m.Text("Total", props.Text{Size: 9, Style: consts.Bold, Color: darkGray, Align: consts.Right})
		})
	})
	m.Line(0.5)

	for _, line := range data.Lines {
		l := line
		m.Row(6, func() {
			m.Col(7, func() {
				m.Text(l.Description, props.Text{Size: 9, Color: darkGray})
			})
			m.Col(1, func() {
				m.Text(l.Quantity, props.Text{Size: 9, Color: darkGray, Align: consts.Right})
			})
			m.Col(2, func() {
				m.Text(l.UnitPrice, props.Text{Size: 9, Color: darkGray, Align: consts.Right})
			})
			m.Col(2, func() {
				m.Text(l.LineTotal, props.Text{Size: 9, Color: darkGray, Align: consts.Right})
			})
		})
	}

	m.Line(0.5)
	m.Row(4, func() {})

	totalRow := func(label, value string, bold bool) {
		style := consts.Normal
		if bold {
			style = consts.Bold
		}
		m.Row(6, func() {
			m.Col(8, func() {
				m.Text(label, props.Text{Size: 9, Style: style, Color: mediumGray, Align: consts.Right})
			})
			m.Col(4, func() {
				m.Text(value, props.Text{Size: 9, Style: style, Color: darkGray, Align: consts.Right})
			})
		})
	}

	totalRow("Sous-total HT :", data.SubtotalHT, false)
	totalRow("TVA (20%) :", data.TVA, false)
	if data.Discount != "" {
		totalRow("Remise :", data.Discount, false)
	}
	if data.Shipping != "" {
		totalRow("Frais de port :", data.Shipping, false)
	}
	totalRow("TOTAL TTC :", data.TotalTTC, true)

	// QR SEPA pour paiement par virement
	if sepaQRBase64 != "" {
		m.Row(8, func() {})
		m.Row(30, func() {
			m.Col(3, func() {
				_ = m.Base64Image(sepaQRBase64, consts.Png, props.Rect{
					Center:  false,
					Percent: 90,
				})
			})
			m.Col(9, func() {
				m.Text("Règlement par virement : scannez ce QR code avec votre application bancaire.",
					props.Text{Size: 8, Color: mediumGray, Top: 10})
			})
		})
	}

	m.Row(10, func() {
		m.Col(12, func() {
			m.Text("Merci pour votre confiance.", props.Text{Size: 9, Color: mediumGray})
		})
	})

	buf, err := m.Output()
	if err != nil {
		return nil, err
	}
	return pinPDFDates(buf.Bytes(), data.IssuedAt), nil
}

// gofpdf tamponne /CreationDate et /ModDate avec l'horloge au moment du
// rendu, ce qui casse l'idempotence de la facture.
var pdfDateField = regexp.MustCompile(`/(CreationDate|ModDate) \(D:\d{14}`)

// pinPDFDates remplace les dates internes du PDF par la date de la
// commande. Le remplacement conserve la longueur des champs, les offsets
// de la table xref restent donc valides.
func pinPDFDates(raw []byte, issuedAt time.Time) []byte {
	stamp := issuedAt.UTC().Format("20060102150405")
	return pdfDateField.ReplaceAll(raw, []byte("/${1} (D:"+stamp))
}
