package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionNominalFlow(t *testing.T) {
	// Parcours type d'une commande avec ordonnance livrée à domicile
	steps := []struct{ from, to string }{
		{StatusEnAttentePaiement, StatusPayee},
		{StatusPayee, StatusOrdonnanceEnValidation},
		{StatusOrdonnanceEnValidation, StatusOrdonnanceValidee},
		{StatusOrdonnanceValidee, StatusEnFabrication},
		{StatusEnFabrication, StatusExpediee},
		{StatusExpediee, StatusLivree},
	}
	for _, step := range steps {
		assert.True(t, CanTransition(step.from, step.to), "%s → %s", step.from, step.to)
	}
}

func TestCanTransitionBoutiqueFlow(t *testing.T) {
	assert.True(t, CanTransition(StatusEnFabrication, StatusPreteEnBoutique))
	assert.True(t, CanTransition(StatusPreteEnBoutique, StatusLivree))
}

func TestCanTransitionPrescriptionRefusal(t *testing.T) {
	assert.True(t, CanTransition(StatusOrdonnanceEnValidation, StatusOrdonnanceRefusee))
	// Nouvelle ordonnance soumise après refus
	assert.True(t, CanTransition(StatusOrdonnanceRefusee, StatusOrdonnanceEnValidation))
	assert.True(t, CanTransition(StatusOrdonnanceRefusee, StatusAnnulee))
}

func TestCanTransitionRejectsSkips(t *testing.T) {
	assert.False(t, CanTransition(StatusEnAttentePaiement, StatusExpediee))
	assert.False(t, CanTransition(StatusPayee, StatusLivree))
	assert.False(t, CanTransition(StatusOrdonnanceEnValidation, StatusEnFabrication))
	// Pas de retour en arrière
	assert.False(t, CanTransition(StatusExpediee, StatusEnFabrication))
	assert.False(t, CanTransition(StatusPayee, StatusEnAttentePaiement))
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, IsTerminalStatus(StatusLivree))
	assert.True(t, IsTerminalStatus(StatusAnnulee))
	assert.False(t, IsTerminalStatus(StatusExpediee))

	assert.Empty(t, NextStatuses(StatusLivree))
	assert.Empty(t, NextStatuses(StatusAnnulee))
	assert.False(t, CanTransition(StatusLivree, StatusAnnulee))
	assert.False(t, CanTransition(StatusAnnulee, StatusEnAttentePaiement))
}

func TestNextStatusesReturnsCopy(t *testing.T) {
	first := NextStatuses(StatusPayee)
	first[0] = "corrompu"
	assert.NotContains(t, NextStatuses(StatusPayee), "corrompu")
}

func TestNextStatusesUnknownStatus(t *testing.T) {
	assert.Nil(t, NextStatuses("inexistant"))
	assert.False(t, IsValidStatus("inexistant"))
	assert.True(t, IsValidStatus(StatusPayee))
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{UnitPrice: 129.00, LensOptionsPrice: 90.00, Quantity: 2}
	assert.Equal(t, 438.00, item.LineTotal())
}

func TestOrderStatusLabel(t *testing.T) {
	assert.Equal(t, "En attente de paiement", OrderStatusLabel(StatusEnAttentePaiement))
	assert.Equal(t, "Prête en boutique", OrderStatusLabel(StatusPreteEnBoutique))
	// Statut inconnu rendu tel quel
	assert.Equal(t, "mystere", OrderStatusLabel("mystere"))
}
