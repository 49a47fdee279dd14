package imagegen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("sk-test")
	cfg.BaseURL = srv.URL + "/v1"

	c := NewClient(openai.NewClientWithConfig(cfg))
	c.retryDelay = time.Millisecond
	return c
}

func imagesResponse(w http.ResponseWriter, b64s ...string) {
	type item struct {
		B64JSON string `json:"b64_json"`
	}
	data := make([]item, len(b64s))
	for i, b := range b64s {
		data[i] = item{B64JSON: b}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"created": 1,
		"data":    data,
	})
}

func TestGenerateReturnsImages(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["prompt"] != "a duck" {
			t.Errorf("prompt = %v", body["prompt"])
		}
		if _, ok := body["size"]; ok {
			t.Error("size=auto must be omitted from the request")
		}
		imagesResponse(w, "aGk=", "eW8=")
	})

	images, err := c.Generate(context.Background(), Request{
		Prompt:       "a duck",
		Model:        "gpt-image-1",
		N:            2,
		Size:         "auto",
		Quality:      "high",
		Background:   "opaque",
		OutputFormat: "png",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(images) != 2 || images[0] != "aGk=" || images[1] != "eW8=" {
		t.Fatalf("images = %v", images)
	}
}

func TestGenerateRetriesOnServerError(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
			return
		}
		imagesResponse(w, "aGk=")
	})

	images, err := c.Generate(context.Background(), Request{Prompt: "p", Model: "gpt-image-1", N: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(images) != 1 {
		t.Errorf("images = %v", images)
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad prompt"}}`))
	})

	if _, err := c.Generate(context.Background(), Request{Prompt: "p", Model: "gpt-image-1", N: 1}); err == nil {
		t.Fatal("want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 400)", attempts)
	}
}

func TestGenerateGivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	})

	if _, err := c.Generate(context.Background(), Request{Prompt: "p", Model: "gpt-image-1", N: 1}); err == nil {
		t.Fatal("want error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantErr bool
	}{
		{"empty", "", true},
		{"at the limit", strings.Repeat("a", MaxPromptChars), false},
		{"over the limit", strings.Repeat("a", MaxPromptChars+1), true},
		// 32,000 four-byte runes are 128,000 bytes but still within limit.
		{"multibyte at the limit", strings.Repeat("🦆", MaxPromptChars), false},
		{"multibyte over the limit", strings.Repeat("🦆", MaxPromptChars+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrompt(tt.prompt)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrompt() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
