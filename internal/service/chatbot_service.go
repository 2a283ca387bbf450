package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gapguard-be/internal/apperror"
	"gapguard-be/internal/constant"
	"gapguard-be/internal/dto"
	"gapguard-be/internal/entity"
	"gapguard-be/internal/pkg/logger"
	"gapguard-be/internal/repository/specification"
	"gapguard-be/internal/repository/unitofwork"
	"gapguard-be/pkg/embedding"
	"gapguard-be/pkg/llm"

	"github.com/google/uuid"
)

const (
	// retrievalTopK chunks at or above retrievalThreshold similarity
	// form the answer context.
	retrievalTopK      = 5
	retrievalThreshold = 0.3

	noRelevantInfoAnswer = "I could not find any relevant information in your documents to answer that. " +
		"Try uploading the document you are asking about, or rephrase the question."

	answerPromptTemplate = `You are GapGuard's document assistant. Answer the user's question using ONLY the excerpts from their uploaded documents below. If the excerpts do not contain the answer, say so plainly. Be concise.

Document excerpts:
%s

Question: %s`
)

type IChatbotService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error
}

type chatbotService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	log               logger.ILogger
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		log:               log,
	}
}

func (cs *chatbotService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     "Unnamed session",
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "create chat session", err)
	}

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (cs *chatbotService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "list chat sessions", err)
	}

	res := make([]*dto.GetAllSessionsResponse, len(sessions))
	for i, session := range sessions {
		res[i] = &dto.GetAllSessionsResponse{
			Id:        session.Id,
			Title:     session.Title,
			CreatedAt: session.CreatedAt,
			UpdatedAt: session.UpdatedAt,
		}
	}
	return res, nil
}

func (cs *chatbotService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.ownedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "load chat history", err)
	}

	res := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, msg := range messages {
		res[i] = &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
	}
	return res, nil
}

// SendChat answers a question from the caller's own document chunks.
// Retrieval is scoped to the user at the query level, so another
// user's chunks can never appear in the context.
func (cs *chatbotService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.ownedSession(ctx, uow, userId, request.SessionId)
	if err != nil {
		return nil, err
	}

	queryRes, err := cs.embeddingProvider.Generate(ctx, request.Question, embedding.TaskTypeQuery)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindEmbedding, "embed question", err)
	}

	scored, err := uow.DocumentChunkRepository().SearchSimilarWithScore(
		ctx, queryRes.Embedding.Values, retrievalTopK, userId, retrievalThreshold)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "search chunks", err)
	}

	var answer string
	if len(scored) == 0 {
		// Answer honestly instead of letting the model fabricate one.
		answer = noRelevantInfoAnswer
	} else {
		var contextParts []string
		for _, sc := range scored {
			contextParts = append(contextParts, sc.Chunk.Content)
		}
		prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(contextParts, "\n---\n"), request.Question)

		answer, err = cs.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.2))
		if err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "generate answer", err)
		}
	}

	now := time.Now()
	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       request.Question,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "store question", err)
	}

	modelMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleModel,
		Content:       answer,
		CreatedAt:     now.Add(time.Millisecond),
	}
	if err := uow.ChatMessageRepository().Create(ctx, modelMessage); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "store answer", err)
	}

	if session.Title == "Unnamed session" {
		session.Title = sessionTitleFrom(request.Question)
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			cs.log.Warn("chatbot", "failed to rename session", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	return &dto.SendChatResponse{
		SessionId: session.Id,
		Answer:    answer,
	}, nil
}

func (cs *chatbotService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.ownedSession(ctx, uow, userId, request.SessionId)
	if err != nil {
		return err
	}

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return apperror.Wrap(apperror.KindPersistence, "delete session messages", err)
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return apperror.Wrap(apperror.KindPersistence, "delete session", err)
	}
	return nil
}

func (cs *chatbotService) ownedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "find chat session", err)
	}
	if session == nil {
		return nil, apperror.Validation("chat session not found")
	}
	return session, nil
}

func sessionTitleFrom(question string) string {
	title := strings.TrimSpace(question)
	if len(title) > 50 {
		title = title[:50]
	}
	return title
}
