package user

import (
	"net/http"
	"path"
	"strings"
	"time"

	"visionnaire_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// Taille maximale d'une ordonnance téléversée
const maxPrescriptionSize = 10 << 20 // 10 Mo

//
// 🟢 POST /api/prescriptions/upload
//
func UploadPrescription(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier manquant"})
		return
	}

	if file.Size > maxPrescriptionSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier trop volumineux (10 Mo maximum)"})
		return
	}

	ext := strings.ToLower(path.Ext(file.Filename))
	switch ext {
	case ".pdf", ".jpg", ".jpeg", ".png", ".heic":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format non supporté : PDF, JPG, PNG ou HEIC"})
		return
	}

	objectPath, err := services.UploadPrescription(c.Request.Context(), userID, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur envoi du fichier"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file_url": objectPath})
}

//
// 🟢 GET /api/prescriptions/signed-url?path=...
//
func GetPrescriptionURL(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	objectPath := c.Query("path")
	if objectPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chemin du fichier requis"})
		return
	}

	// Un client n'accède qu'à ses propres ordonnances, l'admin à toutes
	if role != "admin" && !strings.HasPrefix(objectPath, "ordonnances/"+userID+"/") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès non autorisé"})
		return
	}

	signedURL, err := services.GenerateSignedURL(c.Request.Context(), objectPath, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du lien"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": signedURL})
}
