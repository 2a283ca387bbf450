package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"gapguard-be/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(serverURL string) *GeminiProvider {
	return &GeminiProvider{
		ApiKey:  "test-key",
		BaseURL: serverURL,
		Model:   "text-embedding-004",
		Client:  &http.Client{Timeout: 5 * time.Second},
		Backoff: time.Millisecond,
	}
}

func embeddingJSON(dim int) []byte {
	values := make([]float32, dim)
	for i := range values {
		values[i] = 0.1
	}
	body, _ := json.Marshal(EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: values},
	})
	return body
}

func TestGeminiProvider_Generate(t *testing.T) {
	var gotTaskType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotTaskType = req.TaskType
		w.Write(embeddingJSON(Dimension))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	res, err := provider.Generate(context.Background(), "some chunk text", TaskTypeDocument)
	require.NoError(t, err)
	assert.Len(t, res.Embedding.Values, Dimension)
	assert.Equal(t, TaskTypeDocument, gotTaskType)
}

func TestGeminiProvider_RejectsEmptyInput(t *testing.T) {
	provider := newTestProvider("http://unused")
	_, err := provider.Generate(context.Background(), "   ", TaskTypeQuery)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindEmbedding))
}

func TestGeminiProvider_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(embeddingJSON(Dimension))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	res, err := provider.Generate(context.Background(), "retry me", TaskTypeDocument)
	require.NoError(t, err)
	assert.Len(t, res.Embedding.Values, Dimension)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeminiProvider_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	_, err := provider.Generate(context.Background(), "never succeeds", TaskTypeDocument)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindEmbedding))
	assert.Equal(t, int32(maxAttempts), calls.Load())
}

func TestGeminiProvider_DoesNotRetryAuthFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	_, err := provider.Generate(context.Background(), "bad key", TaskTypeDocument)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeminiProvider_RejectsMissingVector(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"embedding":{"values":[]}}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL)
	_, err := provider.Generate(context.Background(), "malformed", TaskTypeDocument)
	require.Error(t, err)
	// Malformed body is not a transient condition.
	assert.Equal(t, int32(1), calls.Load())
}
