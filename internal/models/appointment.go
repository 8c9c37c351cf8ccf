package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts et motifs de rendez-vous
const (
	AppointmentConfirmee = "confirmee"
	AppointmentAnnulee   = "annulee"
	AppointmentTerminee  = "terminee"

	AppointmentExamenVue  = "examen_vue"
	AppointmentEssayage   = "essayage"
	AppointmentAjustement = "ajustement"
	AppointmentConseil    = "conseil"
)

func IsValidAppointmentType(t string) bool {
	switch t {
	case AppointmentExamenVue, AppointmentEssayage, AppointmentAjustement, AppointmentConseil:
		return true
	}
	return false
}

type AppointmentSlot struct {
	ID          gocql.UUID `json:"id"`
	Date        string     `json:"date"` // AAAA-MM-JJ
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	IsAvailable bool       `json:"is_available"`
	CreatedAt   time.Time  `json:"created_at"`
}

type Appointment struct {
	ID        gocql.UUID `json:"id"`
	SlotID    gocql.UUID `json:"slot_id"`
	ProfileID string     `json:"profile_id"`
	Type      string     `json:"type"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AppointmentRequest : demande publique (sans compte) envoyée par le
// formulaire de prise de contact.
type AppointmentRequest struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Reason        string `json:"reason"`
	PreferredDate string `json:"preferred_date,omitempty"`
	Message       string `json:"message,omitempty"`
}

func AppointmentReasonLabel(reason string) string {
	labels := map[string]string{
		AppointmentExamenVue:  "Examen de vue",
		AppointmentEssayage:   "Essayage",
		AppointmentAjustement: "Ajustement",
		AppointmentConseil:    "Conseil",
	}
	if l, ok := labels[reason]; ok {
		return l
	}
	return reason
}
