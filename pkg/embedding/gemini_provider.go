package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gapguard-be/internal/apperror"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1"
	defaultGeminiModel   = "text-embedding-004"

	maxAttempts      = 3
	initialBackoff   = 500 * time.Millisecond
	defaultHTTPLimit = 30 * time.Second
)

type GeminiProvider struct {
	ApiKey  string
	BaseURL string
	Model   string
	Client  *http.Client
	Backoff time.Duration
}

func NewGeminiProvider(apiKey string) EmbeddingProvider {
	return &GeminiProvider{
		ApiKey:  apiKey,
		BaseURL: defaultGeminiBaseURL,
		Model:   defaultGeminiModel,
		Client: &http.Client{
			Timeout: defaultHTTPLimit,
		},
	}
}

// Generate calls the Gemini embedContent endpoint. Transient failures
// (network errors, timeouts, 5xx, 429) are retried with doubling delay
// up to maxAttempts; auth and validation failures are not.
func (p *GeminiProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.New(apperror.KindEmbedding, "cannot embed empty text")
	}

	geminiReq := EmbeddingRequest{
		Model: p.Model,
		Content: EmbeddingRequestContent{
			Parts: []EmbeddingRequestContentPart{
				{Text: text},
			},
		},
		TaskType: taskType,
	}
	geminiReqJson, err := json.Marshal(geminiReq)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindEmbedding, "marshal embedding request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:embedContent", p.BaseURL, p.Model)

	backoff := p.Backoff
	if backoff <= 0 {
		backoff = initialBackoff
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, apperror.Wrap(apperror.KindEmbedding, "embedding cancelled", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		res, retryable, err := p.doRequest(ctx, endpoint, geminiReqJson)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, apperror.Wrap(apperror.KindEmbedding,
		fmt.Sprintf("embedding failed after %d attempts", maxAttempts), lastErr)
}

func (p *GeminiProvider) doRequest(ctx context.Context, endpoint string, body []byte) (*EmbeddingResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, false, apperror.Wrap(apperror.KindEmbedding, "create embedding request", err)
	}

	req.Header.Set("x-goog-api-key", p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		// Network errors and timeouts are transient.
		return nil, true, apperror.Wrap(apperror.KindEmbedding, "embedding backend unreachable", err)
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, true, apperror.Wrap(apperror.KindEmbedding, "read embedding response", err)
	}

	if res.StatusCode != http.StatusOK {
		retryable := res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests
		return nil, retryable, apperror.New(apperror.KindEmbedding,
			fmt.Sprintf("error from gemini response, code %d, body %s", res.StatusCode, string(resByte)))
	}

	var resEmbedding EmbeddingResponse
	if err := json.Unmarshal(resByte, &resEmbedding); err != nil {
		return nil, false, apperror.Wrap(apperror.KindEmbedding, "unmarshal embedding response", err)
	}
	if len(resEmbedding.Embedding.Values) == 0 {
		return nil, false, apperror.New(apperror.KindEmbedding, "embedding response missing vector")
	}

	return &resEmbedding, false, nil
}
