package service

import (
	"context"
	"sync"

	"gapguard-be/internal/entity"
	"gapguard-be/internal/repository/contract"
	"gapguard-be/internal/repository/specification"
	"gapguard-be/internal/repository/unitofwork"
	"gapguard-be/pkg/classifier"
	"gapguard-be/pkg/embedding"
	"gapguard-be/pkg/llm"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// In-memory stand-ins for the persistence layer. Each fake records
// what was written and delegates reads to overridable functions.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUow struct {
	docs     *fakeDocumentRepo
	chunks   *fakeChunkRepo
	rules    *fakeRuleRepo
	gaps     *fakeGapRepo
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	rate     *fakeRateRepo

	begins    int
	commits   int
	rollbacks int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		docs:     &fakeDocumentRepo{},
		chunks:   &fakeChunkRepo{},
		rules:    &fakeRuleRepo{},
		gaps:     &fakeGapRepo{},
		sessions: &fakeSessionRepo{},
		messages: &fakeMessageRepo{},
		rate:     &fakeRateRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { u.begins++; return nil }
func (u *fakeUow) Commit() error                   { u.commits++; return nil }
func (u *fakeUow) Rollback() error                 { u.rollbacks++; return nil }

func (u *fakeUow) DocumentRepository() contract.DocumentRepository           { return u.docs }
func (u *fakeUow) DocumentChunkRepository() contract.DocumentChunkRepository { return u.chunks }
func (u *fakeUow) ChecklistRuleRepository() contract.ChecklistRuleRepository { return u.rules }
func (u *fakeUow) GapRepository() contract.GapRepository                     { return u.gaps }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository     { return u.sessions }
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository     { return u.messages }
func (u *fakeUow) RateLimitRepository() contract.RateLimitRepository         { return u.rate }

type fakeDocumentRepo struct {
	upserted      []*entity.Document
	updated       []*entity.Document
	statusUpdates []string
	deleted       []uuid.UUID

	findOneFn func(specs ...specification.Specification) (*entity.Document, error)
	findAllFn func(specs ...specification.Specification) ([]*entity.Document, error)
}

func (r *fakeDocumentRepo) Upsert(ctx context.Context, doc *entity.Document) error {
	r.upserted = append(r.upserted, doc)
	return nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	r.updated = append(r.updated, doc)
	return nil
}

func (r *fakeDocumentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	if r.findOneFn != nil {
		return r.findOneFn(specs...)
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	if r.findAllFn != nil {
		return r.findAllFn(specs...)
	}
	return nil, nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type searchCall struct {
	limit     int
	userId    uuid.UUID
	threshold float64
}

type fakeChunkRepo struct {
	created      []*entity.DocumentChunk
	deletedByDoc []uuid.UUID
	createErr    error

	searchFn    func(embedding []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredDocumentChunk, error)
	searchCalls []searchCall
}

func (r *fakeChunkRepo) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, chunk)
	return nil
}

func (r *fakeChunkRepo) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk) error {
	r.created = append(r.created, chunks...)
	return nil
}

func (r *fakeChunkRepo) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	r.deletedByDoc = append(r.deletedByDoc, documentId)
	return nil
}

func (r *fakeChunkRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	return nil, nil
}

func (r *fakeChunkRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *fakeChunkRepo) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, userId uuid.UUID, threshold float64) ([]*contract.ScoredDocumentChunk, error) {
	r.searchCalls = append(r.searchCalls, searchCall{limit: limit, userId: userId, threshold: threshold})
	if r.searchFn != nil {
		return r.searchFn(emb, limit, userId, threshold)
	}
	return nil, nil
}

type fakeRuleRepo struct {
	created     []*entity.ChecklistRule
	createdBulk []*entity.ChecklistRule
	updated     []*entity.ChecklistRule
	deleted     []uuid.UUID

	findOneFn func(specs ...specification.Specification) (*entity.ChecklistRule, error)
	findAllFn func(specs ...specification.Specification) ([]*entity.ChecklistRule, error)
}

func (r *fakeRuleRepo) Create(ctx context.Context, rule *entity.ChecklistRule) error {
	r.created = append(r.created, rule)
	return nil
}

func (r *fakeRuleRepo) CreateBulk(ctx context.Context, rules []*entity.ChecklistRule) error {
	r.createdBulk = append(r.createdBulk, rules...)
	return nil
}

func (r *fakeRuleRepo) Update(ctx context.Context, rule *entity.ChecklistRule) error {
	r.updated = append(r.updated, rule)
	return nil
}

func (r *fakeRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeRuleRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChecklistRule, error) {
	if r.findOneFn != nil {
		return r.findOneFn(specs...)
	}
	return nil, nil
}

func (r *fakeRuleRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChecklistRule, error) {
	if r.findAllFn != nil {
		return r.findAllFn(specs...)
	}
	return nil, nil
}

type fakeGapRepo struct {
	mu           sync.Mutex
	upserts      []*entity.Gap
	upsertErr    error
	deletedUsers []uuid.UUID

	findAllFn func(specs ...specification.Specification) ([]*entity.Gap, error)
}

func (r *fakeGapRepo) Upsert(ctx context.Context, gap *entity.Gap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts = append(r.upserts, gap)
	return nil
}

func (r *fakeGapRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Gap, error) {
	if r.findAllFn != nil {
		return r.findAllFn(specs...)
	}
	return nil, nil
}

func (r *fakeGapRepo) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedUsers = append(r.deletedUsers, userId)
	return nil
}

type fakeSessionRepo struct {
	created []*entity.ChatSession
	updated []*entity.ChatSession
	deleted []uuid.UUID

	findOneFn func(specs ...specification.Specification) (*entity.ChatSession, error)
	findAllFn func(specs ...specification.Specification) ([]*entity.ChatSession, error)
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.created = append(r.created, session)
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.ChatSession) error {
	r.updated = append(r.updated, session)
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	if r.findOneFn != nil {
		return r.findOneFn(specs...)
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	if r.findAllFn != nil {
		return r.findAllFn(specs...)
	}
	return nil, nil
}

type fakeMessageRepo struct {
	created          []*entity.ChatMessage
	deletedBySession []uuid.UUID
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *entity.ChatMessage) error {
	r.created = append(r.created, msg)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	return nil, nil
}

func (r *fakeMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.deletedBySession = append(r.deletedBySession, sessionId)
	return nil
}

type fakeRateRepo struct {
	recorded int
	err      error
}

func (r *fakeRateRepo) RecordRequest(ctx context.Context, userId uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	r.recorded++
	return nil
}

// Fakes for the external dependencies.

type fakeExtractor struct {
	text string
	err  error

	urls  []string
	mimes []string
}

func (e *fakeExtractor) ExtractText(ctx context.Context, fileURL, mimeType string) (string, error) {
	e.urls = append(e.urls, fileURL)
	e.mimes = append(e.mimes, mimeType)
	return e.text, e.err
}

type fakeEmbedder struct {
	vector []float32
	// failAt fails the nth call, 1-based. Zero never fails.
	failAt   int
	failWith error

	texts     []string
	taskTypes []string
}

func (e *fakeEmbedder) Generate(ctx context.Context, text, taskType string) (*embedding.EmbeddingResponse, error) {
	e.texts = append(e.texts, text)
	e.taskTypes = append(e.taskTypes, taskType)
	if e.failAt > 0 && len(e.texts) == e.failAt {
		return nil, e.failWith
	}
	vec := e.vector
	if vec == nil {
		vec = []float32{0.1, 0.2, 0.3}
	}
	res := &embedding.EmbeddingResponse{}
	res.Embedding.Values = vec
	return res, nil
}

type fakeClassifier struct {
	res *classifier.Classification
	err error
}

func (c *fakeClassifier) Classify(ctx context.Context, fileName string, text string) (*classifier.Classification, error) {
	return c.res, c.err
}

type fakeLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *fakeLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allowed, l.err
}

type publishedMessage struct {
	topic string
	msg   *message.Message
}

type fakePublisher struct {
	published []publishedMessage
	err       error
}

func (p *fakePublisher) Publish(topic string, messages ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	for _, msg := range messages {
		p.published = append(p.published, publishedMessage{topic: topic, msg: msg})
	}
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (l *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) > 0 {
		l.prompts = append(l.prompts, history[len(history)-1].Content)
	}
	return l.response, l.err
}

func (l *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	l.prompts = append(l.prompts, prompt)
	return l.response, l.err
}
