package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"visionnaire_back_end/internal/config"
	"visionnaire_back_end/internal/database"
	"visionnaire_back_end/internal/models"
	"visionnaire_back_end/internal/services"
	"visionnaire_back_end/internal/utils"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Importe un catalogue CSV : une ligne par variante, les produits sont
// dédupliqués par slug. Colonnes attendues (avec en-tête) :
//
//	name;description;category;gender;brand;base_price;frame_shape;
//	frame_material;frame_color;color_name;color_hex;size;sku;stock;
//	price_override;image_path
func main() {
	csvPath := flag.String("csv", "", "chemin du fichier CSV du catalogue")
	imageDir := flag.String("images", "", "dossier contenant les images référencées par le CSV (optionnel)")
	dryRun := flag.Bool("dry-run", false, "parse et valide sans écrire")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("❌ Usage: import -csv catalogue.csv [-images ./images] [-dry-run]")
	}

	config.Load()
	database.ConnectDatabases()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("❌ Ouverture du CSV: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		log.Fatalf("❌ Lecture de l'en-tête: %v", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"name", "category", "gender", "base_price", "color_name"} {
		if _, ok := cols[required]; !ok {
			log.Fatalf("❌ Colonne requise absente du CSV: %s", required)
		}
	}

	imp := &importer{
		cols:      cols,
		imageDir:  *imageDir,
		dryRun:    *dryRun,
		brands:    map[string]gocql.UUID{},
		products:  map[string]gocql.UUID{},
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Printf("⚠️ Ligne %d illisible, ignorée: %v", line, err)
			imp.skipped++
			continue
		}
		if err := imp.importRow(record); err != nil {
			log.Printf("⚠️ Ligne %d ignorée: %v", line, err)
			imp.skipped++
		}
	}

	log.Printf("✅ Import terminé: %d produits, %d variantes, %d lignes ignorées",
		len(imp.products), imp.variants, imp.skipped)
}

type importer struct {
	cols     map[string]int
	imageDir string
	dryRun   bool

	brands   map[string]gocql.UUID
	products map[string]gocql.UUID
	variants int
	skipped  int
}

func (imp *importer) field(record []string, name string) string {
	i, ok := imp.cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (imp *importer) importRow(record []string) error {
	name := imp.field(record, "name")
	category := imp.field(record, "category")
	gender := imp.field(record, "gender")

	if name == "" {
		return fmt.Errorf("nom de produit vide")
	}
	if !models.IsValidCategory(category) {
		return fmt.Errorf("catégorie inconnue %q", category)
	}
	if !models.IsValidGender(gender) {
		return fmt.Errorf("genre inconnu %q", gender)
	}

	basePrice, err := parsePrice(imp.field(record, "base_price"))
	if err != nil || basePrice <= 0 {
		return fmt.Errorf("prix de base invalide %q", imp.field(record, "base_price"))
	}

	var brandID *gocql.UUID
	if brandName := imp.field(record, "brand"); brandName != "" {
		id, err := imp.ensureBrand(brandName)
		if err != nil {
			return err
		}
		brandID = &id
	}

	productID, err := imp.ensureProduct(record, name, category, gender, basePrice, brandID)
	if err != nil {
		return err
	}

	return imp.insertVariant(record, productID)
}

func (imp *importer) ensureBrand(name string) (gocql.UUID, error) {
	slug := utils.Slugify(name)
	if id, ok := imp.brands[slug]; ok {
		return id, nil
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return gocql.UUID{}, err
	}

	var existing gocql.UUID
	err = session.Query(`SELECT id FROM brands WHERE slug = ? ALLOW FILTERING`, slug).Scan(&existing)
	if err == nil {
		imp.brands[slug] = existing
		return existing, nil
	}

	id := gocql.UUID(uuid.New())
	if !imp.dryRun {
		err = session.Query(`INSERT INTO brands (id, name, slug, description, logo_url, is_active, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, '', '', true, 0, ?, ?)`,
			id, name, slug, time.Now(), time.Now()).Exec()
		if err != nil {
			return gocql.UUID{}, fmt.Errorf("création marque %s: %w", name, err)
		}
		log.Printf("🏷️ Marque créée: %s", name)
	}
	imp.brands[slug] = id
	return id, nil
}

func (imp *importer) ensureProduct(record []string, name, category, gender string, basePrice float64, brandID *gocql.UUID) (gocql.UUID, error) {
	slug := utils.Slugify(name)
	if id, ok := imp.products[slug]; ok {
		return id, nil
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return gocql.UUID{}, err
	}

	var existing gocql.UUID
	err = session.Query(`SELECT id FROM products WHERE slug = ? ALLOW FILTERING`, slug).Scan(&existing)
	if err == nil {
		imp.products[slug] = existing
		return existing, nil
	}

	p := models.Product{
		ID:                   gocql.UUID(uuid.New()),
		Name:                 name,
		Slug:                 slug,
		Description:          imp.field(record, "description"),
		Category:             category,
		Gender:               gender,
		BrandID:              brandID,
		BasePrice:            basePrice,
		IsActive:             true,
		RequiresPrescription: models.RequiresPrescription(category),
		FrameShape:           imp.field(record, "frame_shape"),
		FrameMaterial:        imp.field(record, "frame_material"),
		FrameColor:           imp.field(record, "frame_color"),
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}

	if !imp.dryRun {
		err = session.Query(`INSERT INTO products (id, name, slug, description, category, gender, brand_id, base_price,
			is_active, is_featured, requires_prescription, frame_shape, frame_material, frame_color,
			meta_title, meta_description, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, false, ?, ?, ?, ?, '', '', ?, ?)`,
			p.ID, p.Name, p.Slug, p.Description, p.Category, p.Gender, p.BrandID, p.BasePrice,
			p.IsActive, p.RequiresPrescription, p.FrameShape, p.FrameMaterial, p.FrameColor,
			p.CreatedAt, p.UpdatedAt).Exec()
		if err != nil {
			return gocql.UUID{}, fmt.Errorf("création produit %s: %w", name, err)
		}

		services.IndexProduct(p)
		if imagePath := imp.field(record, "image_path"); imagePath != "" && imp.imageDir != "" {
			imp.uploadImage(p.ID, imagePath)
		}
		log.Printf("👓 Produit créé: %s", name)
	}

	imp.products[slug] = p.ID
	return p.ID, nil
}

func (imp *importer) insertVariant(record []string, productID gocql.UUID) error {
	colorName := imp.field(record, "color_name")
	if colorName == "" {
		return fmt.Errorf("couleur de variante vide")
	}

	stock := 0
	if s := imp.field(record, "stock"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return fmt.Errorf("stock invalide %q", s)
		}
		stock = n
	}

	var priceOverride *float64
	if s := imp.field(record, "price_override"); s != "" {
		p, err := parsePrice(s)
		if err != nil || p <= 0 {
			return fmt.Errorf("prix spécifique invalide %q", s)
		}
		priceOverride = &p
	}

	if imp.dryRun {
		imp.variants++
		return nil
	}

	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	err = session.Query(`INSERT INTO product_variants (id, product_id, sku, color_name, color_hex, size,
		price_override, stock_quantity, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, true, ?)`,
		gocql.UUID(uuid.New()), productID, imp.field(record, "sku"), colorName,
		imp.field(record, "color_hex"), imp.field(record, "size"),
		priceOverride, stock, time.Now()).Exec()
	if err != nil {
		return fmt.Errorf("création variante: %w", err)
	}

	imp.variants++
	return nil
}

func (imp *importer) uploadImage(productID gocql.UUID, imagePath string) {
	localPath := filepath.Join(imp.imageDir, imagePath)
	if _, err := os.Stat(localPath); err != nil {
		log.Printf("⚠️ Image introuvable: %s", localPath)
		return
	}

	bucket := os.Getenv("MINIO_BUCKET")
	if bucket == "" {
		bucket = "visionnaire-fichiers"
	}

	objectName := "produits/" + productID.String() + "/" + filepath.Base(imagePath)
	_, err := database.MinIO.FPutObject(context.Background(), bucket, objectName, localPath,
		minio.PutObjectOptions{})
	if err != nil {
		log.Printf("⚠️ Upload image %s: %v", imagePath, err)
		return
	}
	log.Printf("🖼️ Image envoyée: %s", objectName)
}

// parsePrice accepte "149.90" et "149,90".
func parsePrice(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
