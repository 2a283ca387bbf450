package service

import (
	"context"
	"strings"
	"testing"

	"gapguard-be/internal/apperror"
	"gapguard-be/internal/constant"
	"gapguard-be/internal/dto"
	"gapguard-be/internal/entity"
	"gapguard-be/internal/repository/contract"
	"gapguard-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatbotFixture(uow *fakeUow) (IChatbotService, *fakeEmbedder, *fakeLLM) {
	emb := &fakeEmbedder{}
	model := &fakeLLM{response: "Your policy covers water damage."}
	svc := NewChatbotService(&fakeFactory{uow: uow}, emb, model, nopLogger{})
	return svc, emb, model
}

func ownedSessionFixture(uow *fakeUow, userId uuid.UUID) *entity.ChatSession {
	session := &entity.ChatSession{Id: uuid.New(), UserId: userId, Title: "Unnamed session"}
	uow.sessions.findOneFn = func(specs ...specification.Specification) (*entity.ChatSession, error) {
		return session, nil
	}
	return session
}

func TestSendChatScopesRetrievalToUser(t *testing.T) {
	uow := newFakeUow()
	svc, emb, model := newChatbotFixture(uow)
	userId := uuid.New()
	session := ownedSessionFixture(uow, userId)

	uow.chunks.searchFn = func(_ []float32, _ int, _ uuid.UUID, _ float64) ([]*contract.ScoredDocumentChunk, error) {
		return []*contract.ScoredDocumentChunk{
			{Chunk: &entity.DocumentChunk{Content: "Coverage includes water damage."}, Similarity: 0.9},
		}, nil
	}

	res, err := svc.SendChat(context.Background(), userId, &dto.SendChatRequest{
		SessionId: session.Id,
		Question:  "Does my policy cover water damage?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your policy covers water damage.", res.Answer)

	require.Len(t, uow.chunks.searchCalls, 1)
	call := uow.chunks.searchCalls[0]
	assert.Equal(t, userId, call.userId)
	assert.Equal(t, retrievalTopK, call.limit)
	assert.Equal(t, retrievalThreshold, call.threshold)

	// The question was embedded as a query and the retrieved excerpt
	// made it into the prompt.
	assert.Equal(t, []string{"RETRIEVAL_QUERY"}, emb.taskTypes)
	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "Coverage includes water damage.")
}

func TestSendChatPersistsBothTurnsInOrder(t *testing.T) {
	uow := newFakeUow()
	svc, _, _ := newChatbotFixture(uow)
	userId := uuid.New()
	session := ownedSessionFixture(uow, userId)

	uow.chunks.searchFn = func(_ []float32, _ int, _ uuid.UUID, _ float64) ([]*contract.ScoredDocumentChunk, error) {
		return []*contract.ScoredDocumentChunk{
			{Chunk: &entity.DocumentChunk{Content: "excerpt"}, Similarity: 0.8},
		}, nil
	}

	_, err := svc.SendChat(context.Background(), userId, &dto.SendChatRequest{
		SessionId: session.Id,
		Question:  "What does it say?",
	})
	require.NoError(t, err)

	require.Len(t, uow.messages.created, 2)
	userMsg, modelMsg := uow.messages.created[0], uow.messages.created[1]
	assert.Equal(t, constant.ChatMessageRoleUser, userMsg.Role)
	assert.Equal(t, "What does it say?", userMsg.Content)
	assert.Equal(t, constant.ChatMessageRoleModel, modelMsg.Role)
	assert.True(t, modelMsg.CreatedAt.After(userMsg.CreatedAt))

	// First exchange names the session after the question.
	require.Len(t, uow.sessions.updated, 1)
	assert.Equal(t, "What does it say?", uow.sessions.updated[0].Title)
}

func TestSendChatNoRelevantChunksSkipsModel(t *testing.T) {
	uow := newFakeUow()
	svc, _, model := newChatbotFixture(uow)
	userId := uuid.New()
	session := ownedSessionFixture(uow, userId)

	res, err := svc.SendChat(context.Background(), userId, &dto.SendChatRequest{
		SessionId: session.Id,
		Question:  "Anything about my visa?",
	})
	require.NoError(t, err)

	assert.Equal(t, noRelevantInfoAnswer, res.Answer)
	assert.Empty(t, model.prompts)
	// The honest refusal is still part of the transcript.
	require.Len(t, uow.messages.created, 2)
	assert.Equal(t, noRelevantInfoAnswer, uow.messages.created[1].Content)
}

func TestSendChatRejectsForeignSession(t *testing.T) {
	uow := newFakeUow()
	svc, emb, _ := newChatbotFixture(uow)

	_, err := svc.SendChat(context.Background(), uuid.New(), &dto.SendChatRequest{
		SessionId: uuid.New(),
		Question:  "hello",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, emb.texts)
}

func TestSendChatKeepsCustomTitle(t *testing.T) {
	uow := newFakeUow()
	svc, _, _ := newChatbotFixture(uow)
	userId := uuid.New()
	session := ownedSessionFixture(uow, userId)
	session.Title = "Visa questions"

	_, err := svc.SendChat(context.Background(), userId, &dto.SendChatRequest{
		SessionId: session.Id,
		Question:  "When does it expire?",
	})
	require.NoError(t, err)
	assert.Empty(t, uow.sessions.updated)
}

func TestDeleteSessionRemovesMessagesFirst(t *testing.T) {
	uow := newFakeUow()
	svc, _, _ := newChatbotFixture(uow)
	userId := uuid.New()
	session := ownedSessionFixture(uow, userId)

	err := svc.DeleteSession(context.Background(), userId, &dto.DeleteSessionRequest{SessionId: session.Id})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{session.Id}, uow.messages.deletedBySession)
	assert.Equal(t, []uuid.UUID{session.Id}, uow.sessions.deleted)
}

func TestCreateSessionDefaults(t *testing.T) {
	uow := newFakeUow()
	svc, _, _ := newChatbotFixture(uow)
	userId := uuid.New()

	res, err := svc.CreateSession(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, uow.sessions.created, 1)
	assert.Equal(t, res.Id, uow.sessions.created[0].Id)
	assert.Equal(t, userId, uow.sessions.created[0].UserId)
	assert.Equal(t, "Unnamed session", uow.sessions.created[0].Title)
}

func TestSessionTitleTruncation(t *testing.T) {
	long := strings.Repeat("q", 80)
	assert.Len(t, sessionTitleFrom(long), 50)
	assert.Equal(t, "short", sessionTitleFrom("  short  "))
}
