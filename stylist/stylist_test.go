package stylist

import (
	"context"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
)

// fakeModel plays back scripted responses in call order.
type fakeModel struct {
	mu        sync.Mutex
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	models    []string
}

func (f *fakeModel) Generate(ctx context.Context, model string, cfg *GenConfig, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	f.models = append(f.models, model)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return textResponse(""), nil
}

func (f *fakeModel) Close() error { return nil }

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(text)}},
		}},
	}
}

// fakeStore records uploads and deletes in memory.
type fakeStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	deletes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string][]byte)}
}

func (f *fakeStore) UploadBytes(ctx context.Context, data []byte, objectKey, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[objectKey] = data
	return objectKey, nil
}

func (f *fakeStore) Delete(ctx context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, objectKey)
	return nil
}

func (f *fakeStore) PresignURL(ctx context.Context, objectKey string) (string, error) {
	return "https://img.test/" + objectKey, nil
}

func newTestStylist(model ModelClient, store ImageStore, at time.Time) *Stylist {
	return &Stylist{Model: model, Store: store, Now: func() time.Time { return at }}
}
