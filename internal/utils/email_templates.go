package utils

import (
	"fmt"
	"os"

	"visionnaire_back_end/internal/models"
)

func frontendURL() string {
	url := os.Getenv("FRONTEND_URL")
	if url == "" {
		url = "https://visionnaires.fr"
	}
	return url
}

func emailLayout(title, inner string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse; background-color: #f5f5f5;">
        <tr>
            <td style="padding: 40px 20px;">
                <table role="presentation" style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; box-shadow: 0 4px 6px rgba(0,0,0,0.1);">
%s
                    <tr>
                        <td style="padding: 25px 30px; background-color: #f8f9fa; border-radius: 0 0 12px 12px; text-align: center;">
                            <p style="margin: 0; color: #999999; font-size: 13px;">
                                %s — %s, %s<br>
                                Tél : %s
                            </p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>`, title, inner, ShopName, ShopAddress, ShopCity, ShopPhone)
}

func emailHeader(title, subtitle string) string {
	return fmt.Sprintf(`
                    <tr>
                        <td style="background: linear-gradient(135deg, #1a2a4a 0%%, #3a5a8a 100%%); padding: 40px 30px; text-align: center; border-radius: 12px 12px 0 0;">
                            <h1 style="margin: 0; color: #ffffff; font-size: 26px; font-weight: 700;">%s</h1>
                            <p style="margin: 12px 0 0 0; color: #ffffff; font-size: 16px; opacity: 0.95;">%s</p>
                        </td>
                    </tr>`, title, subtitle)
}

// GenerateWelcomeEmailHTML : email de bienvenue après inscription.
func GenerateWelcomeEmailHTML(firstName string) (subject, html string) {
	subject = "👓 Bienvenue chez Visionnaire Opticiens !"

	inner := emailHeader("👓 Bienvenue !", "Bonjour "+firstName) + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 25px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Merci d'avoir créé votre compte chez <strong>%s</strong>, votre opticien à Lyon.
                            </p>
                            <p style="margin: 0 0 30px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Découvrez nos montures de vue et solaires, configurez vos verres en ligne et suivez vos commandes depuis votre espace client.
                            </p>
                            <table role="presentation" style="width: 100%%; margin: 30px 0;">
                                <tr>
                                    <td style="text-align: center;">
                                        <a href="%s/catalogue" style="display: inline-block; padding: 16px 40px; background-color: #1a2a4a; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600; font-size: 16px;">
                                            Découvrir le catalogue
                                        </a>
                                    </td>
                                </tr>
                            </table>
                        </td>
                    </tr>`, ShopName, frontendURL())

	return subject, emailLayout("Bienvenue", inner)
}

// GenerateOrderConfirmationHTML : récapitulatif envoyé à la création de
// la commande.
func GenerateOrderConfirmationHTML(order models.Order, firstName string) (subject, html string) {
	subject = fmt.Sprintf("✅ Commande %s confirmée", order.OrderNumber)

	itemsHTML := ""
	for _, item := range order.Items {
		name := item.ProductName
		if item.VariantInfo != "" {
			name += " — " + item.VariantInfo
		}
		if item.LensOptionsSummary != "" {
			name += "<br><span style=\"color: #888888; font-size: 13px;\">" + item.LensOptionsSummary + "</span>"
		}
		itemsHTML += fmt.Sprintf(`
                                <tr>
                                    <td style="padding: 10px; border-bottom: 1px solid #eeeeee; color: #333333;">%s</td>
                                    <td style="padding: 10px; border-bottom: 1px solid #eeeeee; text-align: center; color: #333333;">%d</td>
                                    <td style="padding: 10px; border-bottom: 1px solid #eeeeee; text-align: right; color: #333333;">%s</td>
                                </tr>`, name, item.Quantity, FormatPrice(item.LineTotal()))
	}

	totalsHTML := fmt.Sprintf(`
                                <tr>
                                    <td colspan="2" style="padding: 8px 10px; text-align: right; color: #666666;">Sous-total</td>
                                    <td style="padding: 8px 10px; text-align: right; color: #333333;">%s</td>
                                </tr>`, FormatPrice(order.Subtotal))
	if order.DiscountAmount > 0 {
		totalsHTML += fmt.Sprintf(`
                                <tr>
                                    <td colspan="2" style="padding: 8px 10px; text-align: right; color: #666666;">Remise (%s)</td>
                                    <td style="padding: 8px 10px; text-align: right; color: #2e7d32;">-%s</td>
                                </tr>`, order.PromoCode, FormatPrice(order.DiscountAmount))
	}
	shippingLabel := "Offerts"
	if order.ShippingCost > 0 {
		shippingLabel = FormatPrice(order.ShippingCost)
	}
	if order.DeliveryMethod == models.DeliveryBoutique {
		shippingLabel = "Retrait en boutique"
	}
	totalsHTML += fmt.Sprintf(`
                                <tr>
                                    <td colspan="2" style="padding: 8px 10px; text-align: right; color: #666666;">Livraison</td>
                                    <td style="padding: 8px 10px; text-align: right; color: #333333;">%s</td>
                                </tr>
                                <tr>
                                    <td colspan="2" style="padding: 12px 10px; text-align: right; color: #333333; font-weight: 700; font-size: 17px;">Total TTC</td>
                                    <td style="padding: 12px 10px; text-align: right; color: #333333; font-weight: 700; font-size: 17px;">%s</td>
                                </tr>`, shippingLabel, FormatPrice(order.Total))

	inner := emailHeader("✅ Merci pour votre commande !", "Commande "+order.OrderNumber) + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 25px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Bonjour %s,<br>
                                Nous avons bien reçu votre commande. Vous trouverez le récapitulatif ci-dessous.
                            </p>
                            <table role="presentation" style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
                                <thead>
                                    <tr style="background-color: #f0f0f0;">
                                        <th style="padding: 10px; text-align: left; color: #333333;">Article</th>
                                        <th style="padding: 10px; text-align: center; color: #333333;">Qté</th>
                                        <th style="padding: 10px; text-align: right; color: #333333;">Total</th>
                                    </tr>
                                </thead>
                                <tbody>%s
                                </tbody>
                            </table>
                            <table role="presentation" style="width: 100%%; border-collapse: collapse;">%s
                            </table>
                            <table role="presentation" style="width: 100%%; margin: 30px 0 0 0;">
                                <tr>
                                    <td style="text-align: center;">
                                        <a href="%s/compte/commandes" style="display: inline-block; padding: 14px 36px; background-color: #1a2a4a; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600;">
                                            Suivre ma commande
                                        </a>
                                    </td>
                                </tr>
                            </table>
                        </td>
                    </tr>`, firstName, itemsHTML, totalsHTML, frontendURL())

	return subject, emailLayout("Confirmation de commande", inner)
}

// GenerateOrderShippedHTML : envoyé au passage en statut expediee.
func GenerateOrderShippedHTML(order models.Order, firstName string) (subject, html string) {
	subject = fmt.Sprintf("📦 Votre commande %s a été expédiée", order.OrderNumber)

	trackingHTML := ""
	if order.TrackingNumber != "" {
		trackingHTML = fmt.Sprintf(`
                            <table role="presentation" style="width: 100%%; margin: 20px 0;">
                                <tr>
                                    <td style="padding: 20px; background-color: #f8f9fa; border-radius: 8px; text-align: center;">
                                        <p style="margin: 0 0 8px 0; color: #666666; font-size: 14px;">Numéro de suivi</p>
                                        <p style="margin: 0; color: #1a2a4a; font-size: 20px; font-weight: 700; letter-spacing: 1px;">%s</p>
                                    </td>
                                </tr>
                            </table>`, order.TrackingNumber)
	}

	inner := emailHeader("📦 Commande expédiée !", "Commande "+order.OrderNumber) + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 20px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Bonjour %s,<br>
                                Bonne nouvelle : votre commande vient d'être expédiée et sera bientôt chez vous.
                            </p>%s
                        </td>
                    </tr>`, firstName, trackingHTML)

	return subject, emailLayout("Commande expédiée", inner)
}

// GenerateOrderReadyHTML : retrait en boutique disponible.
func GenerateOrderReadyHTML(order models.Order, firstName string) (subject, html string) {
	subject = fmt.Sprintf("🏪 Votre commande %s est prête en boutique", order.OrderNumber)

	inner := emailHeader("🏪 C'est prêt !", "Commande "+order.OrderNumber) + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 20px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Bonjour %s,<br>
                                Votre commande vous attend en boutique. Passez la récupérer quand vous voulez aux horaires d'ouverture.
                            </p>
                            <table role="presentation" style="width: 100%%; margin: 20px 0;">
                                <tr>
                                    <td style="padding: 20px; background-color: #f8f9fa; border-radius: 8px;">
                                        <p style="margin: 0; color: #333333; font-size: 15px; line-height: 1.6;">
                                            <strong>%s</strong><br>
                                            %s<br>
                                            %s
                                        </p>
                                    </td>
                                </tr>
                            </table>
                            <p style="margin: 0; color: #666666; font-size: 14px;">
                                Pensez à vous munir d'une pièce d'identité.
                            </p>
                        </td>
                    </tr>`, firstName, ShopName, ShopAddress, ShopCity)

	return subject, emailLayout("Commande prête", inner)
}

// GeneratePrescriptionRefusedHTML : l'ordonnance transmise n'a pas pu
// être validée, le client doit en fournir une nouvelle.
func GeneratePrescriptionRefusedHTML(order models.Order, firstName, comment string) (subject, html string) {
	subject = fmt.Sprintf("⚠️ Ordonnance à revoir — commande %s", order.OrderNumber)

	commentHTML := ""
	if comment != "" {
		commentHTML = fmt.Sprintf(`
                            <table role="presentation" style="width: 100%%; margin: 20px 0;">
                                <tr>
                                    <td style="padding: 20px; background-color: #fff3e0; border-radius: 8px;">
                                        <p style="margin: 0; color: #e65100; font-size: 15px; line-height: 1.6;">%s</p>
                                    </td>
                                </tr>
                            </table>`, comment)
	}

	inner := emailHeader("⚠️ Ordonnance à revoir", "Commande "+order.OrderNumber) + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 20px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Bonjour %s,<br>
                                Notre opticien n'a pas pu valider l'ordonnance transmise avec votre commande.
                            </p>%s
                            <p style="margin: 20px 0 0 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Merci de nous transmettre une ordonnance valide depuis votre espace client, ou de nous contacter au %s.
                            </p>
                        </td>
                    </tr>`, firstName, commentHTML, ShopPhone)

	return subject, emailLayout("Ordonnance à revoir", inner)
}

// GenerateAppointmentConfirmationHTML : confirmation de rendez-vous au
// client.
func GenerateAppointmentConfirmationHTML(appointment models.Appointment, firstName, dateLabel, timeLabel string) (subject, html string) {
	subject = "📅 Votre rendez-vous est confirmé"

	inner := emailHeader("📅 Rendez-vous confirmé", models.AppointmentReasonLabel(appointment.Type)) + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 20px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Bonjour %s,<br>
                                Votre rendez-vous en boutique est confirmé.
                            </p>
                            <table role="presentation" style="width: 100%%; margin: 20px 0;">
                                <tr>
                                    <td style="padding: 20px; background-color: #f8f9fa; border-radius: 8px; text-align: center;">
                                        <p style="margin: 0 0 8px 0; color: #1a2a4a; font-size: 20px; font-weight: 700;">%s à %s</p>
                                        <p style="margin: 0; color: #666666; font-size: 14px;">%s — %s, %s</p>
                                    </td>
                                </tr>
                            </table>
                            <p style="margin: 0; color: #666666; font-size: 14px;">
                                En cas d'empêchement, vous pouvez annuler depuis votre espace client ou nous appeler au %s.
                            </p>
                        </td>
                    </tr>`, firstName, dateLabel, timeLabel, ShopName, ShopAddress, ShopCity, ShopPhone)

	return subject, emailLayout("Rendez-vous confirmé", inner)
}

// GenerateAppointmentShopNotificationHTML : notification interne envoyée
// à la boutique quand un créneau est réservé.
func GenerateAppointmentShopNotificationHTML(appointment models.Appointment, clientName, clientEmail, clientPhone, dateLabel, timeLabel string) (subject, html string) {
	subject = fmt.Sprintf("🗓️ Nouveau RDV : %s le %s à %s", models.AppointmentReasonLabel(appointment.Type), dateLabel, timeLabel)

	notesHTML := ""
	if appointment.Notes != "" {
		notesHTML = fmt.Sprintf(`
                            <p style="margin: 15px 0 0 0; color: #666666; font-size: 14px;"><strong>Note du client :</strong> %s</p>`, appointment.Notes)
	}

	inner := emailHeader("🗓️ Nouveau rendez-vous", dateLabel+" à "+timeLabel) + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 15px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                <strong>Motif :</strong> %s<br>
                                <strong>Client :</strong> %s<br>
                                <strong>Email :</strong> %s<br>
                                <strong>Téléphone :</strong> %s
                            </p>%s
                        </td>
                    </tr>`, models.AppointmentReasonLabel(appointment.Type), clientName, clientEmail, clientPhone, notesHTML)

	return subject, emailLayout("Nouveau rendez-vous", inner)
}

// GeneratePasswordResetHTML : lien de réinitialisation de mot de passe.
func GeneratePasswordResetHTML(firstName, resetToken string) (subject, html string) {
	subject = "🔑 Réinitialisation de votre mot de passe"
	resetLink := fmt.Sprintf("%s/reinitialiser-mot-de-passe?token=%s", frontendURL(), resetToken)

	inner := emailHeader("🔑 Mot de passe oublié ?", "Pas de panique") + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 25px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Bonjour %s,<br>
                                Vous avez demandé la réinitialisation de votre mot de passe. Cliquez sur le bouton ci-dessous pour en choisir un nouveau.
                            </p>
                            <table role="presentation" style="width: 100%%; margin: 30px 0;">
                                <tr>
                                    <td style="text-align: center;">
                                        <a href="%s" style="display: inline-block; padding: 16px 40px; background-color: #1a2a4a; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: 600; font-size: 16px;">
                                            Réinitialiser mon mot de passe
                                        </a>
                                    </td>
                                </tr>
                            </table>
                            <p style="margin: 0; color: #999999; font-size: 13px;">
                                Ce lien expire dans 1 heure. Si vous n'êtes pas à l'origine de cette demande, ignorez cet email.
                            </p>
                        </td>
                    </tr>`, firstName, resetLink)

	return subject, emailLayout("Réinitialisation du mot de passe", inner)
}

// GenerateInvoiceEmailHTML : accompagne l'envoi de la facture PDF.
func GenerateInvoiceEmailHTML(order models.Order, firstName string) (subject, html string) {
	subject = fmt.Sprintf("🧾 Votre facture %s", order.OrderNumber)

	inner := emailHeader("🧾 Votre facture", "Commande "+order.OrderNumber) + fmt.Sprintf(`
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 20px 0; color: #333333; font-size: 16px; line-height: 1.6;">
                                Bonjour %s,<br>
                                Veuillez trouver en pièce jointe la facture de votre commande <strong>%s</strong>, d'un montant de <strong>%s</strong>.
                            </p>
                            <p style="margin: 0; color: #666666; font-size: 14px;">
                                Vous pouvez aussi la retrouver à tout moment dans votre espace client.
                            </p>
                        </td>
                    </tr>`, firstName, order.OrderNumber, FormatPrice(order.Total))

	return subject, emailLayout("Votre facture", inner)
}
