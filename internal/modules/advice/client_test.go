package advice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/symnote/core/internal/models"
	"github.com/symnote/core/internal/modules/settings"
	"github.com/symnote/core/internal/pkg/secret"
	"go.uber.org/zap"
)

func TestSanitizeModel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultModel},
		{"   ", DefaultModel},
		{"o3", DefaultModel},
		{"O3-Mini", DefaultModel},
		{"gpt-o3", DefaultModel},
		{"gpt-4o-mini", "gpt-4o-mini"},
		{"gpt-4.1", "gpt-4.1"},
		{" my-custom-model ", "my-custom-model"},
	}
	for _, tt := range tests {
		if got := SanitizeModel(tt.in); got != tt.want {
			t.Errorf("SanitizeModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func newTestClient(t *testing.T, endpoint string) (*Client, *secret.Store) {
	t.Helper()
	store, err := secret.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open secret store: %v", err)
	}
	return &Client{
		secrets:    store,
		logger:     zap.NewNop(),
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}, store
}

func setKey(t *testing.T, store *secret.Store, key string) {
	t.Helper()
	if err := store.Set(secret.KeyAPICredential, &key); err != nil {
		t.Fatalf("set credential: %v", err)
	}
}

func TestGetAdvice_NoCredentialBeforeNetwork(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	for _, entries := range [][]models.EntryModel{nil, {{Severity: 5}}} {
		_, err := client.GetAdvice(context.Background(), entries, Options{}, nil)
		if !errors.Is(err, ErrNoAPIKey) {
			t.Errorf("want ErrNoAPIKey, got %v", err)
		}
	}
	if _, err := client.GetShortAdvice(context.Background(), nil, 3, TonePolite, nil); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("want ErrNoAPIKey from GetShortAdvice, got %v", err)
	}

	if hits.Load() != 0 {
		t.Errorf("credential check must precede any network attempt, server saw %d requests", hits.Load())
	}
}

func TestGetAdvice_Success(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "rest and hydrate"}},
			},
		})
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	setKey(t, store, "sk-test")

	cfg := settings.Default()
	cfg.AIModel = "o3" // denylisted, must be sanitized in the payload

	entries := []models.EntryModel{{Severity: 4, Text: "tired"}}
	text, err := client.GetAdvice(context.Background(), entries, Options{}, &cfg)
	if err != nil {
		t.Fatalf("GetAdvice failed: %v", err)
	}
	if text != "rest and hydrate" {
		t.Errorf("want first choice content, got %q", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("want bearer credential, got %q", gotAuth)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("denylisted model must be sanitized, payload used %q", gotReq.Model)
	}
	if gotReq.Temperature != 0.2 {
		t.Errorf("want temperature 0.2, got %v", gotReq.Temperature)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("want system+user messages, got %+v", gotReq.Messages)
	}
}

func TestGetAdvice_CustomSystemPrompt(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	setKey(t, store, "sk-test")

	cfg := settings.Default()
	cfg.AISystemPrompt = "respond in haiku"

	if _, err := client.GetAdvice(context.Background(), nil, Options{}, &cfg); err != nil {
		t.Fatalf("GetAdvice failed: %v", err)
	}
	if gotReq.Messages[0].Content != "respond in haiku" {
		t.Errorf("want custom system prompt, got %q", gotReq.Messages[0].Content)
	}
}

func TestGetAdvice_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	setKey(t, store, "sk-bad")

	_, err := client.GetAdvice(context.Background(), nil, Options{}, nil)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("want ErrInvalidResponse for non-2xx, got %v", err)
	}
}

func TestGetAdvice_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	setKey(t, store, "sk-test")

	_, err := client.GetAdvice(context.Background(), nil, Options{}, nil)
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("want ErrInvalidResponse for undecodable body, got %v", err)
	}
}

func TestGetAdvice_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	setKey(t, store, "sk-test")

	text, err := client.GetAdvice(context.Background(), nil, Options{}, nil)
	if err != nil {
		t.Fatalf("valid shape with no choices must not error: %v", err)
	}
	if text != "" {
		t.Errorf("want empty string, got %q", text)
	}
}
