package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AddToLogMessage appends one line to a handler's log accumulator. Each
// handler builds its whole log in a strings.Builder and flushes it once
// in a defer, so a request's lines stay contiguous in the output.
func AddToLogMessage(b *strings.Builder, line string) {
	if b.Len() == b.Cap() {
		b.Grow(len(line))
	}
	b.WriteString(line)
	b.WriteString(";")
	b.WriteString("\n")
}

// RespondJSON writes payload as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already out; nothing left to do but log it.
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

// RespondError writes a JSON error body and records the message on the
// handler's log accumulator. A nil logger prints straight to stdout.
func RespondError(w http.ResponseWriter, logger *strings.Builder, message string, status int) {
	if logger != nil {
		AddToLogMessage(logger, message)
	} else {
		fmt.Println("[Error]", message)
	}
	RespondJSON(w, status, map[string]string{"error": message})
}

// PresignImageURLs maps stored object keys to presigned URLs. Entries
// that are already absolute URLs (external images, previously signed
// links) pass through unchanged, and a signing failure falls back to
// the raw key rather than dropping the entry.
func PresignImageURLs(ctx context.Context, images []string) []string {
	var urls []string
	for _, img := range images {
		if strings.HasPrefix(img, "http") {
			urls = append(urls, img)
			continue
		}
		if url, err := GetPresignedURL(ctx, img); err == nil {
			urls = append(urls, url)
		} else {
			urls = append(urls, img)
		}
	}
	return urls
}

// LatencyMiddleware logs the duration of each request
func LatencyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		fmt.Printf("[LATENCY] %s %s - %v\n", r.Method, r.URL.Path, duration)
	})
}
