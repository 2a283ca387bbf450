package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gapguard-be/pkg/llm"
)

const classifyPromptTemplate = `You are a document classification assistant.
Given the file name and extracted text of a user-uploaded document, identify:
1. "doc_category": a short lowercase label for the document type (e.g. "passport", "visa", "insurance", "contract", "invoice"). Use "other" if unsure.
2. "expiry_date": the document's expiry or renewal date in YYYY-MM-DD format, or null if the document has none.

Respond with ONLY a JSON object, no markdown fences, no commentary:
{"doc_category": "...", "expiry_date": "YYYY-MM-DD" or null}

File name: %s

Document text (may be truncated):
%s`

// Only this much text goes to the model; classification does not need
// the whole document.
const maxClassifyTextLen = 4000

// Classification is the model's verdict on a document.
type Classification struct {
	DocCategory string
	ExpiryDate  *time.Time
}

type Classifier interface {
	Classify(ctx context.Context, fileName string, text string) (*Classification, error)
}

type LLMClassifier struct {
	provider llm.LLMProvider
}

func NewLLMClassifier(provider llm.LLMProvider) Classifier {
	return &LLMClassifier{provider: provider}
}

type classifyResult struct {
	DocCategory string  `json:"doc_category"`
	ExpiryDate  *string `json:"expiry_date"`
}

func (c *LLMClassifier) Classify(ctx context.Context, fileName string, text string) (*Classification, error) {
	if len(text) > maxClassifyTextLen {
		text = text[:maxClassifyTextLen]
	}

	prompt := fmt.Sprintf(classifyPromptTemplate, fileName, text)
	raw, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("classification call: %w", err)
	}

	result, err := parseClassification(raw)
	if err != nil {
		return nil, fmt.Errorf("classification parse: %w", err)
	}
	return result, nil
}

// parseClassification tolerates markdown fences and surrounding prose,
// since models do not always follow the output instructions.
func parseClassification(raw string) (*Classification, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var parsed classifyResult
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		return nil, err
	}

	category := strings.ToLower(strings.TrimSpace(parsed.DocCategory))
	if category == "" {
		category = "other"
	}

	classification := &Classification{DocCategory: category}
	if parsed.ExpiryDate != nil && *parsed.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", *parsed.ExpiryDate)
		if err != nil {
			// An unparseable date is dropped, not fatal; the category
			// alone is still useful.
			return classification, nil
		}
		classification.ExpiryDate = &expiry
	}
	return classification, nil
}
