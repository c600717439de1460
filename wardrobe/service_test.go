package wardrobe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/stylist"
)

// scriptedModel answers every call with the same text.
type scriptedModel struct {
	mu    sync.Mutex
	reply string
	calls int
}

func (m *scriptedModel) Generate(ctx context.Context, model string, cfg *stylist.GenConfig, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(m.reply)}},
		}},
	}, nil
}

func (m *scriptedModel) Close() error { return nil }

type memStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	deletes []string
}

func newMemStore() *memStore {
	return &memStore{uploads: make(map[string][]byte)}
}

func (s *memStore) UploadBytes(ctx context.Context, data []byte, objectKey, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[objectKey] = data
	return objectKey, nil
}

func (s *memStore) Delete(ctx context.Context, objectKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, objectKey)
	return nil
}

func (s *memStore) PresignURL(ctx context.Context, objectKey string) (string, error) {
	return "https://img.test/" + objectKey, nil
}

// fakeWardrobes is an in-memory stand-in for the wardrobes collection.
// It honors the hash-excluding filter the way the real collection does:
// a filter miss plus upsert collides with the unique userId index.
type fakeWardrobes struct {
	mu     sync.Mutex
	doc    *models.Wardrobe
	dupKey bool
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{
		{Code: 11000, Message: "E11000 duplicate key error"},
	}}
}

func (f *fakeWardrobes) hasHashLocked(hash string) bool {
	if f.doc == nil {
		return false
	}
	for _, img := range f.doc.UploadedImages {
		if img.ImageHash == hash {
			return true
		}
	}
	return false
}

func (f *fakeWardrobes) FindOne(ctx context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.doc == nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	m := filter.(bson.M)
	if hash, ok := m["uploadedImages.imageHash"].(string); ok && !f.hasHashLocked(hash) {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(f.doc, nil, nil)
}

func (f *fakeWardrobes) UpdateOne(ctx context.Context, filter, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dupKey {
		f.dupKey = false
		return nil, duplicateKeyErr()
	}

	m := filter.(bson.M)
	upd := update.(bson.M)
	push, ok := upd["$push"].(bson.M)
	if !ok {
		return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
	}
	entry := push["uploadedImages"].(models.UploadedImage)

	if ne, ok := m["uploadedImages.imageHash"].(bson.M); ok {
		if hash, ok := ne["$ne"].(string); ok && f.hasHashLocked(hash) {
			return nil, duplicateKeyErr()
		}
	}

	upserted := f.doc == nil
	if upserted {
		f.doc = &models.Wardrobe{UserID: m["userId"].(primitive.ObjectID)}
	}
	f.doc.UploadedImages = append(f.doc.UploadedImages, entry)
	f.doc.TotalGarments += len(entry.Garments)
	if upserted {
		return &mongo.UpdateResult{UpsertedCount: 1}, nil
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

const garmentMetadata = `[
  {
    "itemName": "Linen Shirt",
    "category": "Tops",
    "color": {"name": "White", "hex": "#FFFFFF"},
    "fabric": "Linen",
    "occasion": ["casual", "work"],
    "season": ["Summer"]
  }
]`

func validGarment() models.Garment {
	return models.Garment{
		ItemName: "Silk Saree",
		Category: "Ethnic",
		Color:    models.GarmentColor{Name: "Emerald", Hex: "#0A6847"},
		Fabric:   "Silk",
	}
}

func TestSortImagesByNewest(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	images := []models.UploadedImage{
		{ImageKey: "old", CreatedAt: base},
		{ImageKey: "newest", CreatedAt: base.Add(48 * time.Hour)},
		{ImageKey: "middle", CreatedAt: base.Add(24 * time.Hour)},
	}

	sorted := sortImagesByNewest(images)

	assert.Equal(t, "newest", sorted[0].ImageKey)
	assert.Equal(t, "middle", sorted[1].ImageKey)
	assert.Equal(t, "old", sorted[2].ImageKey)
	// Input order is left alone.
	assert.Equal(t, "old", images[0].ImageKey)
}

func TestGarmentRef(t *testing.T) {
	image := models.UploadedImage{
		ID:        primitive.NewObjectID(),
		ImageKey:  "uploads/u/abc",
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	g := models.Garment{
		ID:       primitive.NewObjectID(),
		ItemName: "Linen Shirt",
		Category: "Tops",
		Occasion: []string{"Casual", "Brunch"},
	}

	ref := garmentRef(image, g)

	assert.Equal(t, image.ID, ref.ImageID)
	assert.Equal(t, g.ID, ref.GarmentID)
	assert.Equal(t, "Linen Shirt", ref.ItemName)
	assert.Equal(t, "Tops", ref.Category)
	assert.Equal(t, []string{"Casual", "Brunch"}, ref.Occasion)
	assert.Equal(t, "uploads/u/abc", ref.ImageKey)
	assert.Equal(t, image.CreatedAt, ref.CreatedAt)
}

func TestContains(t *testing.T) {
	set := []string{"Cotton", "Silk"}
	assert.True(t, contains(set, "Silk"))
	assert.False(t, contains(set, "silk"))
	assert.False(t, contains(nil, "Silk"))
}

func TestIntersects(t *testing.T) {
	set := []string{"Summer", "Spring"}
	assert.True(t, intersects(set, []string{"Winter", "Spring"}))
	assert.False(t, intersects(set, []string{"Winter"}))
	assert.False(t, intersects(set, nil))
}

func TestIngestDeduplicatesByFingerprint(t *testing.T) {
	model := &scriptedModel{reply: garmentMetadata}
	store := newMemStore()
	coll := &fakeWardrobes{}
	svc := NewService("testdb", stylist.New(model, store), store)
	svc.Coll = coll

	userID := primitive.NewObjectID()
	file := UploadFile{Filename: "shirt.jpg", MimeType: "image/jpeg", Data: []byte("shirt-bytes")}

	processed, skipped, err := svc.Ingest(context.Background(), userID, file)
	require.NoError(t, err)
	assert.True(t, processed)
	assert.False(t, skipped)
	require.NotNil(t, coll.doc)
	require.Len(t, coll.doc.UploadedImages, 1)
	assert.Equal(t, 1, coll.doc.TotalGarments)
	assert.Equal(t, 1, model.calls)
	assert.Len(t, store.uploads, 1)

	processed, skipped, err = svc.Ingest(context.Background(), userID, file)
	require.NoError(t, err)
	assert.False(t, processed)
	assert.True(t, skipped)

	// The duplicate neither re-enters the list nor re-runs extraction
	// or the upload.
	assert.Len(t, coll.doc.UploadedImages, 1)
	assert.Equal(t, 1, model.calls)
	assert.Len(t, store.uploads, 1)
}

func TestAppendImageLostRaceSkips(t *testing.T) {
	coll := &fakeWardrobes{dupKey: true}
	svc := &Service{Coll: coll}

	processed, skipped, err := svc.appendImage(context.Background(), primitive.NewObjectID(),
		"wardrobe/u/h.jpg", "h", []models.Garment{validGarment()})
	require.NoError(t, err)
	assert.False(t, processed)
	assert.True(t, skipped)
}

func TestForceUploadDuplicateDeletesImage(t *testing.T) {
	store := newMemStore()
	coll := &fakeWardrobes{doc: &models.Wardrobe{
		UserID:         primitive.NewObjectID(),
		UploadedImages: []models.UploadedImage{{ImageKey: "k1", ImageHash: "h"}},
	}}
	svc := &Service{Store: store, Coll: coll}

	res := svc.ForceUpload(context.Background(), coll.doc.UserID, []ForceEntry{
		{ImageKey: "k2", ImageHash: "h", Metadata: []models.Garment{validGarment()}},
	})

	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Processed)
	// The hosted copy of the rejected duplicate is cleaned up.
	assert.Equal(t, []string{"k2"}, store.deletes)
	assert.Len(t, coll.doc.UploadedImages, 1)
}
