package extractor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gapguard-be/internal/apperror"
)

const ocrPrompt = "Extract all readable text from this document. " +
	"Return only the raw text content, preserving the original reading order. " +
	"Do not add commentary, headers, or formatting of your own."

// GeminiVisionExtractor sends the file inline to a Gemini multimodal
// model and treats the generated text as the OCR result.
type GeminiVisionExtractor struct {
	ApiKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewGeminiVisionExtractor(apiKey string) TextExtractor {
	return &GeminiVisionExtractor{
		ApiKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com/v1",
		Model:   "gemini-1.5-flash",
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type visionInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type visionPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *visionInlineData `json:"inline_data,omitempty"`
}

type visionContent struct {
	Parts []visionPart `json:"parts"`
}

type visionRequest struct {
	Contents []visionContent `json:"contents"`
}

type visionCandidate struct {
	Content visionContent `json:"content"`
}

type visionResponse struct {
	Candidates []visionCandidate `json:"candidates"`
}

func (e *GeminiVisionExtractor) ExtractText(ctx context.Context, fileURL string, mimeType string) (string, error) {
	fileBytes, err := fetchFile(ctx, e.Client, fileURL)
	if err != nil {
		return "", err
	}

	payload := visionRequest{
		Contents: []visionContent{
			{
				Parts: []visionPart{
					{Text: ocrPrompt},
					{InlineData: &visionInlineData{
						MimeType: mimeType,
						Data:     base64.StdEncoding.EncodeToString(fileBytes),
					}},
				},
			},
		},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "marshal ocr request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", e.BaseURL, e.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "create ocr request", err)
	}
	req.Header.Set("x-goog-api-key", e.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := e.Client.Do(req)
	if err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "ocr backend unreachable", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "read ocr response", err)
	}

	if res.StatusCode != http.StatusOK {
		return "", apperror.New(apperror.KindExtraction,
			fmt.Sprintf("ocr status error, got status %d with response body %s", res.StatusCode, string(resBody)))
	}

	var visionRes visionResponse
	if err := json.Unmarshal(resBody, &visionRes); err != nil {
		return "", apperror.Wrap(apperror.KindExtraction, "unmarshal ocr response", err)
	}
	if len(visionRes.Candidates) == 0 || len(visionRes.Candidates[0].Content.Parts) == 0 {
		return "", apperror.New(apperror.KindExtraction, "ocr response has no candidates")
	}

	var sb bytes.Buffer
	for _, part := range visionRes.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
