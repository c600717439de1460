package stylist

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zuriwear/zuri-backend/models"
)

// Stylist runs the outfit generation pipeline. All external
// collaborators are injected so every stage is testable in isolation.
type Stylist struct {
	Model ModelClient
	Store ImageStore

	// Now drives the wardrobe rotation. Defaults to time.Now.
	Now func() time.Time
}

func New(model ModelClient, store ImageStore) *Stylist {
	return &Stylist{Model: model, Store: store, Now: time.Now}
}

func (s *Stylist) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ErrInvalidItems is returned when the validator rejects the uploaded
// images as non-fashion items. The uploads have already been removed
// from storage by the time this surfaces.
type ErrInvalidItems struct {
	Message string
}

func (e *ErrInvalidItems) Error() string { return e.Message }

// RecommendRequest is one styling request: the occasion, optional
// free-text styling notes, up to four slot images, and the garments of
// the user's wardrobe for the occasion filter.
type RecommendRequest struct {
	UserID        string
	Occasion      string
	Description   string
	Images        [4]SlotImage
	WardrobeItems []models.GarmentRef
	Profile       models.BodyProfile
}

// RecommendResponse aggregates whatever the pipeline stages produced.
// Analysis is nil when the analyzer stage failed; Critique carries the
// validator's text verdict.
type RecommendResponse struct {
	Results       []ImageResult          `json:"results"`
	Critique      string                 `json:"critique,omitempty"`
	PerfectMatch  bool                   `json:"isPerfectMatch"`
	Suitability   map[string]Suitability `json:"suitabilityDetails,omitempty"`
	ImageAnalysis *Analysis              `json:"imageAnalysis"`
}

// Recommend runs the full pipeline: validate the uploads, style a
// wardrobe match, compose the uploads onto a model, generate fresh
// suggestions, then analyze the results. Every stage after validation
// is best-effort; a failing stage degrades its contribution instead of
// aborting the run.
func (s *Stylist) Recommend(ctx context.Context, req RecommendRequest) (*RecommendResponse, error) {
	if req.Occasion == "" {
		return nil, fmt.Errorf("occasion is required")
	}
	provided := 0
	for _, img := range req.Images {
		if img.Present() {
			provided++
		}
	}
	if provided == 0 {
		return nil, fmt.Errorf("no images provided")
	}

	validation, err := s.ValidateOutfit(ctx, req.Images, req.Occasion, req.Profile)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, &ErrInvalidItems{Message: validation.InvalidItemsMessage}
	}

	var results []ImageResult

	// Wardrobe image first: occasion filter then time rotation.
	matches := FilterByOccasion(req.WardrobeItems, req.Occasion)
	var wardrobeResult *ImageResult
	if selected := SelectWardrobeItem(matches, s.now); selected != nil {
		r := s.StyleWardrobeItem(ctx, *selected, req.Occasion, req.Description, req.Profile, req.UserID)
		wardrobeResult = &r
		if r.ImageURL != nil {
			results = append(results, r)
		}
	}

	// Compose the user's own validated items onto a model.
	composed := s.ComposeModelImage(ctx, req.Images, validation.BadSlotIndices, req.Occasion, req.Description, req.Profile, req.UserID)
	if composed.ImageURL != nil {
		results = append(results, composed)
	}

	// Fewer fresh generations when the wardrobe already contributed.
	aiCount := 2
	if wardrobeResult != nil && wardrobeResult.ImageURL != nil {
		aiCount = 1
	}
	for _, r := range s.GenerateSuggestions(ctx, req.Occasion, aiCount, req.Description, req.Profile, req.UserID) {
		if r.ImageURL != nil {
			results = append(results, r)
		}
	}

	// Bad slot images feed the analyzer as counter-examples. They live
	// in storage until the analyzer has seen them.
	var badURLs []string
	for _, key := range validation.BadImageKeys {
		if url, err := s.Store.PresignURL(ctx, key); err == nil {
			badURLs = append(badURLs, url)
		} else {
			badURLs = append(badURLs, key)
		}
	}

	analysis, err := s.AnalyzeImages(ctx, results, badURLs, req.Occasion)
	if err != nil {
		log.Printf("Error analyzing images: %v", err)
		analysis = nil
	}

	return &RecommendResponse{
		Results:       results,
		Critique:      validation.Critique,
		PerfectMatch:  validation.PerfectMatch,
		Suitability:   validation.Suitability,
		ImageAnalysis: analysis,
	}, nil
}

// RecommendForOccasion runs the pipeline without slot uploads: wardrobe
// selection, fresh generations, then analysis. Used by the occasion
// styling endpoint where the user picks an occasion instead of
// uploading an outfit.
func (s *Stylist) RecommendForOccasion(ctx context.Context, req RecommendRequest) (*RecommendResponse, error) {
	if req.Occasion == "" {
		return nil, fmt.Errorf("occasion is required")
	}

	var results []ImageResult

	matches := FilterByOccasion(req.WardrobeItems, req.Occasion)
	var wardrobeResult *ImageResult
	if selected := SelectWardrobeItem(matches, s.now); selected != nil {
		r := s.StyleWardrobeItem(ctx, *selected, req.Occasion, req.Description, req.Profile, req.UserID)
		wardrobeResult = &r
		if r.ImageURL != nil {
			results = append(results, r)
		}
	}

	// This flow has no uploads to compose, so it leans harder on fresh
	// generations than the upload flow does.
	aiCount := 3
	if wardrobeResult != nil && wardrobeResult.ImageURL != nil {
		aiCount = 2
	}
	for _, r := range s.GenerateSuggestions(ctx, req.Occasion, aiCount, req.Description, req.Profile, req.UserID) {
		if r.ImageURL != nil {
			results = append(results, r)
		}
	}

	analysis, err := s.AnalyzeImages(ctx, results, nil, req.Occasion)
	if err != nil {
		log.Printf("Error analyzing images: %v", err)
		analysis = nil
	}

	return &RecommendResponse{
		Results:       results,
		ImageAnalysis: analysis,
	}, nil
}
