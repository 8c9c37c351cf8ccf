package rendezvous

import (
	"log"
	"net/http"
	"os"
	"time"

	"visionnaire_back_end/internal/cache"
	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

func slotLabels(slot models.AppointmentSlot) (dateLabel, timeLabel string) {
	d, err := time.Parse(slotDateLayout, slot.Date)
	if err != nil {
		return slot.Date, slot.StartTime
	}
	return d.Format("02/01/2006"), slot.StartTime + " - " + slot.EndTime
}

// 🟢 POST /api/rendezvous — réserve un créneau
//
// La réservation passe par une écriture conditionnelle sur le créneau :
// deux clients qui visent le même créneau ne peuvent pas gagner tous
// les deux.
func BookAppointment(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		SlotID string `json:"slot_id" binding:"required"`
		Type   string `json:"type" binding:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if !models.IsValidAppointmentType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de rendez-vous invalide"})
		return
	}

	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID créneau invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var slot models.AppointmentSlot
	err = session.Query(`SELECT id, date, start_time, end_time, is_available, created_at
		FROM appointment_slots WHERE id = ?`, gocql.UUID(slotID)).Scan(
		&slot.ID, &slot.Date, &slot.StartTime, &slot.EndTime, &slot.IsAvailable, &slot.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Créneau introuvable"})
		return
	}

	// Réservation atomique du créneau
	applied, err := session.Query(`UPDATE appointment_slots SET is_available = false
		WHERE id = ? IF is_available = true`, slot.ID).MapScanCAS(map[string]interface{}{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur réservation créneau"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce créneau vient d'être réservé, choisissez-en un autre"})
		return
	}

	appointment := models.Appointment{
		ID:        gocql.UUID(uuid.New()),
		SlotID:    slot.ID,
		ProfileID: userID,
		Type:      req.Type,
		Status:    models.AppointmentConfirmee,
		Notes:     req.Notes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = session.Query(`INSERT INTO appointments (id, slot_id, profile_id, type, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		appointment.ID, appointment.SlotID, appointment.ProfileID, appointment.Type,
		appointment.Status, appointment.Notes, appointment.CreatedAt, appointment.UpdatedAt).Exec()
	if err != nil {
		// On relâche le créneau pris juste avant
		if relErr := session.Query(`UPDATE appointment_slots SET is_available = true WHERE id = ?`, slot.ID).Exec(); relErr != nil {
			log.Printf("❌ Créneau %s non relâché après échec de réservation: %v", slot.ID, relErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création rendez-vous"})
		return
	}

	log.Printf("📅 Rendez-vous %s réservé: %s %s (%s)", appointment.ID, slot.Date, slot.StartTime, req.Type)

	// Confirmations client et boutique
	if user, err := cache.GetUserFromCache(userID); err == nil && user != nil {
		dateLabel, timeLabel := slotLabels(slot)
		clientSubject, clientHTML := utils.GenerateAppointmentConfirmationHTML(appointment, user.FirstName, dateLabel, timeLabel)
		shopSubject, shopHTML := utils.GenerateAppointmentShopNotificationHTML(appointment,
			user.FirstName+" "+user.LastName, user.Email, user.Phone, dateLabel, timeLabel)
		clientEmail := user.Email
		go func() {
			if err := utils.SendEmail(clientEmail, clientSubject, clientHTML, nil, ""); err != nil {
				log.Printf("❌ Erreur envoi confirmation rendez-vous: %v", err)
			}
			if err := utils.SendEmail(utils.ShopEmail, shopSubject, shopHTML, nil, ""); err != nil {
				log.Printf("❌ Erreur envoi notification boutique: %v", err)
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": appointment, "slot": slot})
}

// 🟢 GET /api/rendezvous — les rendez-vous du client connecté
func GetMyAppointments(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	appointments := []gin.H{}
	iter := session.Query(`SELECT id, slot_id, profile_id, type, status, notes, created_at, updated_at
		FROM appointments WHERE profile_id = ? ALLOW FILTERING`, userID).Iter()
	for {
		var a models.Appointment
		if !iter.Scan(&a.ID, &a.SlotID, &a.ProfileID, &a.Type, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt) {
			break
		}

		entry := gin.H{
			"appointment": a,
			"type_label":  models.AppointmentReasonLabel(a.Type),
		}
		var slot models.AppointmentSlot
		if err := session.Query(`SELECT id, date, start_time, end_time, is_available, created_at
			FROM appointment_slots WHERE id = ?`, a.SlotID).Scan(
			&slot.ID, &slot.Date, &slot.StartTime, &slot.EndTime, &slot.IsAvailable, &slot.CreatedAt); err == nil {
			entry["slot"] = slot
		}
		appointments = append(appointments, entry)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture rendez-vous"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments, "count": len(appointments)})
}

// 🔴 DELETE /api/rendezvous/:id — annule et relâche le créneau
func CancelAppointment(c *gin.Context) {
	userID := c.GetString("user_id")

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID rendez-vous invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var a models.Appointment
	err = session.Query(`SELECT id, slot_id, profile_id, type, status, notes, created_at, updated_at
		FROM appointments WHERE id = ?`, gocql.UUID(appointmentID)).Scan(
		&a.ID, &a.SlotID, &a.ProfileID, &a.Type, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rendez-vous introuvable"})
		return
	}

	role := c.GetString("role")
	if a.ProfileID != userID && role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Ce rendez-vous ne vous appartient pas", "reason": "forbidden"})
		return
	}
	if a.Status != models.AppointmentConfirmee {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce rendez-vous ne peut plus être annulé"})
		return
	}

	if err := session.Query(`UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?`,
		models.AppointmentAnnulee, time.Now(), a.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur annulation rendez-vous"})
		return
	}

	if err := session.Query(`UPDATE appointment_slots SET is_available = true WHERE id = ?`, a.SlotID).Exec(); err != nil {
		log.Printf("⚠️ Créneau %s non relâché après annulation: %v", a.SlotID, err)
	}

	log.Printf("📅 Rendez-vous %s annulé", a.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Rendez-vous annulé"})
}

// 🟢 GET /api/admin/rendezvous — vue d'ensemble pour la boutique
func ListAppointments(c *gin.Context) {
	statusFilter := c.Query("status")

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	appointments := []models.Appointment{}
	iter := session.Query(`SELECT id, slot_id, profile_id, type, status, notes, created_at, updated_at
		FROM appointments`).Iter()
	for {
		var a models.Appointment
		if !iter.Scan(&a.ID, &a.SlotID, &a.ProfileID, &a.Type, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt) {
			break
		}
		if statusFilter != "" && a.Status != statusFilter {
			continue
		}
		appointments = append(appointments, a)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture rendez-vous"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appointments": appointments, "count": len(appointments)})
}

// 🟢 POST /api/rendezvous/demande — formulaire public, protégé par
// Turnstile. La demande part par e-mail à la boutique, le client reçoit
// un accusé.
func RequestAppointment(c *gin.Context) {
	var req struct {
		FirstName      string `json:"first_name" binding:"required"`
		LastName       string `json:"last_name" binding:"required"`
		Email          string `json:"email" binding:"required,email"`
		Phone          string `json:"phone"`
		Reason         string `json:"reason" binding:"required"`
		PreferredDate  string `json:"preferred_date"`
		Message        string `json:"message"`
		TurnstileToken string `json:"turnstile_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if !models.IsValidAppointmentType(req.Reason) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Motif de rendez-vous invalide"})
		return
	}

	if err := utils.VerifyTurnstile(c.Request.Context(), req.TurnstileToken, c.ClientIP()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vérification anti-robot échouée"})
		return
	}

	request := models.AppointmentRequest{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Reason:        req.Reason,
		PreferredDate: req.PreferredDate,
		Message:       req.Message,
	}

	shopTo := os.Getenv("SHOP_NOTIFICATION_EMAIL")
	if shopTo == "" {
		shopTo = utils.ShopEmail
	}

	placeholder := models.Appointment{Type: request.Reason, Status: models.AppointmentConfirmee}
	dateLabel := request.PreferredDate
	if dateLabel == "" {
		dateLabel = "à convenir"
	}

	clientSubject, clientHTML := utils.GenerateAppointmentConfirmationHTML(placeholder, request.FirstName, dateLabel, "à confirmer")
	shopSubject, shopHTML := utils.GenerateAppointmentShopNotificationHTML(placeholder,
		request.FirstName+" "+request.LastName, request.Email, request.Phone, dateLabel, "à confirmer")

	go func() {
		if err := utils.SendEmail(request.Email, clientSubject, clientHTML, nil, ""); err != nil {
			log.Printf("❌ Erreur envoi accusé demande de rendez-vous: %v", err)
		}
		if err := utils.SendEmail(shopTo, shopSubject, shopHTML, nil, ""); err != nil {
			log.Printf("❌ Erreur envoi demande de rendez-vous à la boutique: %v", err)
		}
	}()

	log.Printf("📅 Demande de rendez-vous reçue: %s (%s)", request.Email, request.Reason)
	c.JSON(http.StatusOK, gin.H{"message": "Demande envoyée, nous revenons vers vous rapidement"})
}
