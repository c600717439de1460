package wardrobe

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/stylist"
	"github.com/zuriwear/zuri-backend/utils"
)

const collectionName = "wardrobes"

// wardrobeCollection is the slice of the Mongo collection API the
// service touches. Nil means the shared client's real collection;
// tests substitute an in-memory one.
type wardrobeCollection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// Service owns wardrobe ingestion and queries. Metadata extraction and
// image storage are delegated to the injected stylist and store.
type Service struct {
	DBName  string
	Stylist *stylist.Stylist
	Store   stylist.ImageStore
	Coll    wardrobeCollection
}

func NewService(dbName string, st *stylist.Stylist, store stylist.ImageStore) *Service {
	return &Service{DBName: dbName, Stylist: st, Store: store}
}

func (s *Service) collection() wardrobeCollection {
	if s.Coll != nil {
		return s.Coll
	}
	return utils.GetCollection(s.DBName, collectionName)
}

// UploadFile is one inbound wardrobe image.
type UploadFile struct {
	Filename string
	MimeType string
	Data     []byte
}

// BatchResult summarizes an ingestion batch. Skipped counts duplicate
// images; failures are logged and excluded from Processed.
type BatchResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

// MismatchedImage reports an upload whose garments did not match the
// requested category. The image stays in storage so the client can
// force-upload it without re-sending bytes.
type MismatchedImage struct {
	Filename            string           `json:"filename"`
	ImageKey            string           `json:"imageKey"`
	ImageURL            string           `json:"imageUrl"`
	ImageHash           string           `json:"imageHash"`
	Reason              string           `json:"reason"`
	SuggestedCategories []string         `json:"suggestedCategories"`
	Metadata            []models.Garment `json:"metadata"`
}

// Ingest processes one image: fingerprint, duplicate check, metadata
// extraction, upload, and a conditional append to the wardrobe.
func (s *Service) Ingest(ctx context.Context, userID primitive.ObjectID, file UploadFile) (processed, skipped bool, err error) {
	hash, err := stylist.Fingerprint(file.Data)
	if err != nil {
		return false, false, err
	}

	dup, err := s.hashExists(ctx, userID, hash)
	if err != nil {
		return false, false, err
	}
	if dup {
		log.Printf("Image %s already exists, skipping...", file.Filename)
		return false, true, nil
	}

	garments, err := s.Stylist.ExtractGarmentMetadata(ctx, file.Data, file.MimeType)
	if err != nil {
		return false, false, fmt.Errorf("failed to extract metadata for %s: %w", file.Filename, err)
	}

	key, err := s.uploadImage(ctx, userID, hash, file)
	if err != nil {
		return false, false, err
	}

	return s.appendImage(ctx, userID, key, hash, garments)
}

// IngestBatch runs Ingest over a set of files, continuing past
// individual failures.
func (s *Service) IngestBatch(ctx context.Context, userID primitive.ObjectID, files []UploadFile) BatchResult {
	result := BatchResult{Total: len(files)}
	for _, file := range files {
		processed, skipped, err := s.Ingest(ctx, userID, file)
		if err != nil {
			log.Printf("Error processing file %s: %v", file.Filename, err)
			continue
		}
		if processed {
			result.Processed++
		}
		if skipped {
			result.Skipped++
		}
	}
	return result
}

// IngestByCategory ingests only garments matching the requested
// category and reports mismatches back instead of storing them.
func (s *Service) IngestByCategory(ctx context.Context, userID primitive.ObjectID, category string, files []UploadFile) (BatchResult, []MismatchedImage) {
	result := BatchResult{Total: len(files)}
	var mismatched []MismatchedImage

	for _, file := range files {
		hash, err := stylist.Fingerprint(file.Data)
		if err != nil {
			log.Printf("Error fingerprinting %s: %v", file.Filename, err)
			continue
		}

		dup, err := s.hashExists(ctx, userID, hash)
		if err != nil {
			log.Printf("Error checking duplicate for %s: %v", file.Filename, err)
			continue
		}
		if dup {
			result.Skipped++
			continue
		}

		garments, err := s.Stylist.ExtractGarmentMetadata(ctx, file.Data, file.MimeType)
		if err != nil {
			log.Printf("Metadata extraction failed for %s: %v", file.Filename, err)
			continue
		}

		key, err := s.uploadImage(ctx, userID, hash, file)
		if err != nil {
			log.Printf("Upload failed for %s: %v", file.Filename, err)
			continue
		}

		var valid []models.Garment
		suggested := map[string]bool{}
		for _, g := range garments {
			if g.Category == category {
				valid = append(valid, g)
			}
			suggested[g.Category] = true
		}

		if len(valid) == 0 {
			url, _ := s.Store.PresignURL(ctx, key)
			var categories []string
			for c := range suggested {
				categories = append(categories, c)
			}
			sort.Strings(categories)
			mismatched = append(mismatched, MismatchedImage{
				Filename:            file.Filename,
				ImageKey:            key,
				ImageURL:            url,
				ImageHash:           hash,
				Reason:              fmt.Sprintf("No garment matched category %q", category),
				SuggestedCategories: categories,
				Metadata:            garments,
			})
			continue
		}

		processed, skipped, err := s.appendImage(ctx, userID, key, hash, valid)
		if err != nil {
			log.Printf("Error saving %s: %v", file.Filename, err)
			continue
		}
		if processed {
			result.Processed++
		}
		if skipped {
			result.Skipped++
		}
	}

	return result, mismatched
}

// ForceEntry is a previously-mismatched image the user chose to keep.
type ForceEntry struct {
	ImageKey  string           `json:"imageKey"`
	ImageHash string           `json:"imageHash"`
	Metadata  []models.Garment `json:"metadata"`
}

// ForceUpload appends mismatched images after the user overrides the
// category check. Entries that turn out invalid or duplicate have
// their stored image deleted.
func (s *Service) ForceUpload(ctx context.Context, userID primitive.ObjectID, entries []ForceEntry) BatchResult {
	result := BatchResult{Total: len(entries)}
	for _, entry := range entries {
		var valid []models.Garment
		for _, g := range entry.Metadata {
			g.Normalize()
			if g.Valid() {
				valid = append(valid, g)
			}
		}

		if entry.ImageKey == "" || entry.ImageHash == "" || len(valid) == 0 {
			if entry.ImageKey != "" {
				if err := s.Store.Delete(ctx, entry.ImageKey); err != nil {
					log.Printf("Failed to delete invalid force-upload image %s: %v", entry.ImageKey, err)
				}
			}
			continue
		}

		processed, skipped, err := s.appendImage(ctx, userID, entry.ImageKey, entry.ImageHash, valid)
		if err != nil {
			log.Printf("Error force-uploading %s: %v", entry.ImageKey, err)
			continue
		}
		if skipped {
			result.Skipped++
			if err := s.Store.Delete(ctx, entry.ImageKey); err != nil {
				log.Printf("Failed to delete duplicate image %s: %v", entry.ImageKey, err)
			}
		}
		if processed {
			result.Processed++
		}
	}
	return result
}

func (s *Service) uploadImage(ctx context.Context, userID primitive.ObjectID, hash string, file UploadFile) (string, error) {
	ext := "jpg"
	if strings.Contains(file.MimeType, "png") {
		ext = "png"
	}
	key := fmt.Sprintf("wardrobe/%s/%s.%s", userID.Hex(), hash, ext)
	if _, err := s.Store.UploadBytes(ctx, file.Data, key, file.MimeType); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", file.Filename, err)
	}
	return key, nil
}

func (s *Service) hashExists(ctx context.Context, userID primitive.ObjectID, hash string) (bool, error) {
	err := s.collection().FindOne(ctx, bson.M{
		"userId":                    userID,
		"uploadedImages.imageHash": hash,
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// appendImage performs the conditional write that enforces per-user
// fingerprint uniqueness. The filter excludes wardrobes already
// containing the hash, so a concurrent duplicate insert collides with
// the unique userId index instead of writing a second entry.
func (s *Service) appendImage(ctx context.Context, userID primitive.ObjectID, key, hash string, garments []models.Garment) (processed, skipped bool, err error) {
	for i := range garments {
		if garments[i].ID.IsZero() {
			garments[i].ID = primitive.NewObjectID()
		}
	}

	now := time.Now()
	entry := models.UploadedImage{
		ID:        primitive.NewObjectID(),
		ImageKey:  key,
		ImageHash: hash,
		Garments:  garments,
		CreatedAt: now,
	}

	filter := bson.M{
		"userId":                    userID,
		"uploadedImages.imageHash": bson.M{"$ne": hash},
	}
	update := bson.M{
		"$push":        bson.M{"uploadedImages": entry},
		"$inc":         bson.M{"totalGarments": len(garments)},
		"$set":         bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	res, err := s.collection().UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the race: another request committed the same hash
			// between our check and this write.
			return false, true, nil
		}
		return false, false, err
	}
	if res.ModifiedCount == 0 && res.UpsertedCount == 0 {
		return false, true, nil
	}
	return true, false, nil
}

func (s *Service) load(ctx context.Context, userID primitive.ObjectID) (*models.Wardrobe, error) {
	var w models.Wardrobe
	err := s.collection().FindOne(ctx, bson.M{"userId": userID}).Decode(&w)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func garmentRef(image models.UploadedImage, g models.Garment) models.GarmentRef {
	return models.GarmentRef{
		ImageID:   image.ID,
		GarmentID: g.ID,
		ItemName:  g.ItemName,
		Category:  g.Category,
		Occasion:  g.Occasion,
		ImageKey:  image.ImageKey,
		CreatedAt: image.CreatedAt,
	}
}

func sortImagesByNewest(images []models.UploadedImage) []models.UploadedImage {
	sorted := make([]models.UploadedImage, len(images))
	copy(sorted, images)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// GarmentsByCategory lists the user's garments in one category, newest
// image first. The pseudo-category "Recent" returns everything.
func (s *Service) GarmentsByCategory(ctx context.Context, userID primitive.ObjectID, category string) ([]models.GarmentRef, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil || len(w.UploadedImages) == 0 {
		return nil, nil
	}

	var refs []models.GarmentRef
	for _, image := range sortImagesByNewest(w.UploadedImages) {
		for _, g := range image.Garments {
			if category == "Recent" || g.Category == category {
				refs = append(refs, garmentRef(image, g))
			}
		}
	}
	return refs, nil
}

// GarmentsForOccasion flattens the wardrobe into the selector's input:
// garments tagged with the occasion, newest image first.
func (s *Service) GarmentsForOccasion(ctx context.Context, userID primitive.ObjectID, occasion string) ([]models.GarmentRef, error) {
	if occasion == "" {
		return nil, nil
	}
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, nil
	}

	var refs []models.GarmentRef
	for _, image := range sortImagesByNewest(w.UploadedImages) {
		for _, g := range image.Garments {
			for _, tag := range g.Occasion {
				if tag == occasion {
					refs = append(refs, garmentRef(image, g))
					break
				}
			}
		}
	}
	return refs, nil
}

// FilterParams are the comma-split multi-select filters of the
// wardrobe browse screen. Nil slices mean "no constraint".
type FilterParams struct {
	Categories []string
	Colors     []string
	Fabrics    []string
	Occasions  []string
	Seasons    []string
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(set, values []string) bool {
	for _, v := range values {
		if contains(set, v) {
			return true
		}
	}
	return false
}

// Filter returns the garments matching every supplied filter.
func (s *Service) Filter(ctx context.Context, userID primitive.ObjectID, params FilterParams) ([]models.GarmentRef, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w == nil || len(w.UploadedImages) == 0 {
		return nil, nil
	}

	var refs []models.GarmentRef
	for _, image := range w.UploadedImages {
		for _, g := range image.Garments {
			match := (params.Categories == nil || contains(params.Categories, g.Category)) &&
				(params.Fabrics == nil || contains(params.Fabrics, g.Fabric)) &&
				(params.Colors == nil || contains(params.Colors, g.Color.Name)) &&
				(params.Occasions == nil || intersects(params.Occasions, g.Occasion)) &&
				(params.Seasons == nil || intersects(params.Seasons, g.Season))
			if match {
				refs = append(refs, garmentRef(image, g))
			}
		}
	}
	return refs, nil
}

// CategoryCounts tallies garments per category plus a total.
func (s *Service) CategoryCounts(ctx context.Context, userID primitive.ObjectID) (map[string]int, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{"All": 0}
	for _, category := range models.GarmentCategories {
		counts[category] = 0
	}
	if w == nil {
		return counts, nil
	}
	for _, image := range w.UploadedImages {
		for _, g := range image.Garments {
			counts[g.Category]++
			counts["All"]++
		}
	}
	return counts, nil
}

// GarmentDetails returns one garment with its parent image.
func (s *Service) GarmentDetails(ctx context.Context, userID, garmentID primitive.ObjectID) (*models.Garment, *models.UploadedImage, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if w == nil {
		return nil, nil, nil
	}
	for i := range w.UploadedImages {
		image := &w.UploadedImages[i]
		for j := range image.Garments {
			if image.Garments[j].ID == garmentID {
				return &image.Garments[j], image, nil
			}
		}
	}
	return nil, nil, nil
}

// GarmentUpdate carries the mutable garment fields; nil means leave
// the field unchanged.
type GarmentUpdate struct {
	ItemName *string              `json:"itemName"`
	Category *string              `json:"category"`
	Color    *models.GarmentColor `json:"color"`
	Fabric   *string              `json:"fabric"`
	Occasion []string             `json:"occasion"`
	Season   []string             `json:"season"`
}

// UpdateGarment applies a partial update to one garment in place.
func (s *Service) UpdateGarment(ctx context.Context, userID, garmentID primitive.ObjectID, upd GarmentUpdate) (*models.Garment, error) {
	g, image, err := s.GarmentDetails(ctx, userID, garmentID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}

	if upd.ItemName != nil {
		g.ItemName = *upd.ItemName
	}
	if upd.Category != nil {
		g.Category = *upd.Category
	}
	if upd.Color != nil {
		g.Color = *upd.Color
	}
	if upd.Fabric != nil {
		g.Fabric = *upd.Fabric
	}
	if upd.Occasion != nil {
		g.Occasion = upd.Occasion
	}
	if upd.Season != nil {
		g.Season = upd.Season
	}
	g.Normalize()
	if !g.Valid() {
		return nil, fmt.Errorf("update produces an invalid garment")
	}

	_, err = s.collection().UpdateOne(ctx,
		bson.M{"userId": userID, "uploadedImages._id": image.ID},
		bson.M{"$set": bson.M{
			"uploadedImages.$.garments": image.Garments,
			"updatedAt":                 time.Now(),
		}},
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGarment removes one garment. Deleting the last garment of an
// image removes the image entry and its hosted copy.
func (s *Service) DeleteGarment(ctx context.Context, userID, garmentID primitive.ObjectID) (bool, error) {
	w, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	if w == nil {
		return false, nil
	}

	for i := range w.UploadedImages {
		image := &w.UploadedImages[i]
		var remaining []models.Garment
		found := false
		for _, g := range image.Garments {
			if g.ID == garmentID {
				found = true
				continue
			}
			remaining = append(remaining, g)
		}
		if !found {
			continue
		}

		if len(remaining) == 0 {
			if err := s.Store.Delete(ctx, image.ImageKey); err != nil {
				log.Printf("Failed to delete wardrobe image %s: %v", image.ImageKey, err)
			}
			_, err = s.collection().UpdateOne(ctx,
				bson.M{"userId": userID},
				bson.M{
					"$pull": bson.M{"uploadedImages": bson.M{"_id": image.ID}},
					"$inc":  bson.M{"totalGarments": -1},
					"$set":  bson.M{"updatedAt": time.Now()},
				},
			)
		} else {
			_, err = s.collection().UpdateOne(ctx,
				bson.M{"userId": userID, "uploadedImages._id": image.ID},
				bson.M{
					"$set": bson.M{
						"uploadedImages.$.garments": remaining,
						"updatedAt":                 time.Now(),
					},
					"$inc": bson.M{"totalGarments": -1},
				},
			)
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}
