package classifier

import (
	"context"
	"testing"
	"time"

	"gapguard-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) > 0 {
		s.prompts = append(s.prompts, history[len(history)-1].Content)
	}
	return s.response, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func TestClassify_ParsesPlainJSON(t *testing.T) {
	stub := &stubLLM{response: `{"doc_category": "passport", "expiry_date": "2027-03-01"}`}
	c := NewLLMClassifier(stub)

	result, err := c.Classify(context.Background(), "passport.pdf", "Passport of John Example")
	require.NoError(t, err)
	assert.Equal(t, "passport", result.DocCategory)
	require.NotNil(t, result.ExpiryDate)
	assert.Equal(t, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), *result.ExpiryDate)
}

func TestClassify_ParsesFencedJSON(t *testing.T) {
	stub := &stubLLM{response: "```json\n{\"doc_category\": \"Visa\", \"expiry_date\": null}\n```"}
	c := NewLLMClassifier(stub)

	result, err := c.Classify(context.Background(), "visa.pdf", "Visa grant notice")
	require.NoError(t, err)
	assert.Equal(t, "visa", result.DocCategory)
	assert.Nil(t, result.ExpiryDate)
}

func TestClassify_DropsUnparseableDate(t *testing.T) {
	stub := &stubLLM{response: `{"doc_category": "insurance", "expiry_date": "next spring"}`}
	c := NewLLMClassifier(stub)

	result, err := c.Classify(context.Background(), "policy.pdf", "Policy document")
	require.NoError(t, err)
	assert.Equal(t, "insurance", result.DocCategory)
	assert.Nil(t, result.ExpiryDate)
}

func TestClassify_EmptyCategoryDefaultsToOther(t *testing.T) {
	stub := &stubLLM{response: `{"doc_category": "", "expiry_date": null}`}
	c := NewLLMClassifier(stub)

	result, err := c.Classify(context.Background(), "scan.png", "blurry scan")
	require.NoError(t, err)
	assert.Equal(t, "other", result.DocCategory)
}

func TestClassify_ErrorsOnNonJSONOutput(t *testing.T) {
	stub := &stubLLM{response: "I cannot classify this document."}
	c := NewLLMClassifier(stub)

	_, err := c.Classify(context.Background(), "scan.png", "text")
	assert.Error(t, err)
}

func TestClassify_TruncatesLongText(t *testing.T) {
	stub := &stubLLM{response: `{"doc_category": "contract", "expiry_date": null}`}
	c := NewLLMClassifier(stub)

	long := make([]byte, maxClassifyTextLen*2)
	for i := range long {
		long[i] = 'a'
	}
	_, err := c.Classify(context.Background(), "contract.docx", string(long))
	require.NoError(t, err)
	require.Len(t, stub.prompts, 1)
	assert.Less(t, len(stub.prompts[0]), maxClassifyTextLen+1000)
}
