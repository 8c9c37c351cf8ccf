package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"visionnaire_back_end/internal/database"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

func bucket() string {
	b := os.Getenv("MINIO_BUCKET")
	if b == "" {
		b = "visionnaire-fichiers"
	}
	return b
}

// UploadFile envoie un fichier multipart dans MinIO sous le préfixe
// donné (ex: "produits", "ordonnances") et retourne le chemin objet.
func UploadFile(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	// Nom unique pour éviter les collisions entre clients
	objectName := prefix + "/" + uuid.NewString() + path.Ext(file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket(), objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return objectName, nil
}

// UploadPrescription stocke une ordonnance sous le préfixe privé du
// client. Jamais servi en public, uniquement via URL signée.
func UploadPrescription(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	return UploadFile(ctx, "ordonnances/"+userID, file)
}

// GenerateSignedURL génère une URL de lecture temporaire sur un objet.
// Accepte aussi une URL complète historique, dont seul le chemin est gardé.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	key := objectPath
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		if u, err := url.Parse(key); err == nil {
			key = strings.TrimPrefix(u.Path, "/"+bucket()+"/")
			key = strings.TrimPrefix(key, "/")
		}
	}

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket(), key, duration, url.Values{})
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

// DeleteFile supprime un objet (nettoyage des images produit retirées)
func DeleteFile(ctx context.Context, objectPath string) error {
	if database.MinIO == nil {
		return fmt.Errorf("MinIO non initialisé")
	}
	return database.MinIO.RemoveObject(ctx, bucket(), objectPath, minio.RemoveObjectOptions{})
}
