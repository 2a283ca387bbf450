package unitofwork

import (
	"context"

	"gapguard-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	DocumentRepository() contract.DocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
	ChecklistRuleRepository() contract.ChecklistRuleRepository
	GapRepository() contract.GapRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	RateLimitRepository() contract.RateLimitRepository
}
