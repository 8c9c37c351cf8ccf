package rendezvous

import (
	"net/http"
	"sort"
	"time"

	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

const slotDateLayout = "2006-01-02"

// 🟢 GET /api/rendezvous/slots?from=AAAA-MM-JJ&to=AAAA-MM-JJ
//
// Seuls les créneaux encore disponibles sont exposés au public.
func ListAvailableSlots(c *gin.Context) {
	from := c.DefaultQuery("from", time.Now().Format(slotDateLayout))
	to := c.DefaultQuery("to", time.Now().AddDate(0, 0, 30).Format(slotDateLayout))

	if _, err := time.Parse(slotDateLayout, from); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date de début invalide (AAAA-MM-JJ)"})
		return
	}
	if _, err := time.Parse(slotDateLayout, to); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date de fin invalide (AAAA-MM-JJ)"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	slots := []models.AppointmentSlot{}
	iter := session.Query(`SELECT id, date, start_time, end_time, is_available, created_at
		FROM appointment_slots`).Iter()
	for {
		var s models.AppointmentSlot
		if !iter.Scan(&s.ID, &s.Date, &s.StartTime, &s.EndTime, &s.IsAvailable, &s.CreatedAt) {
			break
		}
		if !s.IsAvailable || s.Date < from || s.Date > to {
			continue
		}
		slots = append(slots, s)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture créneaux"})
		return
	}

	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].StartTime < slots[j].StartTime
	})

	c.JSON(http.StatusOK, gin.H{"slots": slots, "count": len(slots)})
}

// 🟢 POST /api/admin/rendezvous/slots
func CreateSlot(c *gin.Context) {
	var req struct {
		Date      string `json:"date" binding:"required"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	if _, err := time.Parse(slotDateLayout, req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Date invalide (AAAA-MM-JJ)"})
		return
	}
	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Heure de début invalide (HH:MM)"})
		return
	}
	if _, err := time.Parse("15:04", req.EndTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Heure de fin invalide (HH:MM)"})
		return
	}
	if req.EndTime <= req.StartTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "L'heure de fin doit suivre l'heure de début"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	slot := models.AppointmentSlot{
		ID:          gocql.UUID(uuid.New()),
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
		CreatedAt:   time.Now(),
	}

	err = session.Query(`INSERT INTO appointment_slots (id, date, start_time, end_time, is_available, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		slot.ID, slot.Date, slot.StartTime, slot.EndTime, slot.IsAvailable, slot.CreatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création créneau"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"slot": slot})
}

// 🔴 DELETE /api/admin/rendezvous/slots/:id
//
// Un créneau déjà réservé ne peut pas être supprimé : il faut d'abord
// annuler le rendez-vous.
func DeleteSlot(c *gin.Context) {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID créneau invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var isAvailable bool
	if err := session.Query(`SELECT is_available FROM appointment_slots WHERE id = ?`,
		gocql.UUID(slotID)).Scan(&isAvailable); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Créneau introuvable"})
		return
	}
	if !isAvailable {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce créneau est réservé, annulez d'abord le rendez-vous"})
		return
	}

	if err := session.Query(`DELETE FROM appointment_slots WHERE id = ?`, gocql.UUID(slotID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression créneau"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Créneau supprimé"})
}
