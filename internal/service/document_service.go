package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gapguard-be/internal/apperror"
	"gapguard-be/internal/constant"
	"gapguard-be/internal/dto"
	"gapguard-be/internal/entity"
	"gapguard-be/internal/pkg/logger"
	"gapguard-be/internal/repository/specification"
	"gapguard-be/internal/repository/unitofwork"
	"gapguard-be/pkg/chunker"
	"gapguard-be/pkg/classifier"
	"gapguard-be/pkg/embedding"
	"gapguard-be/pkg/events"
	"gapguard-be/pkg/extractor"
	pktNats "gapguard-be/pkg/nats"
	"gapguard-be/pkg/ratelimit"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IDocumentService interface {
	ProcessDocument(ctx context.Context, userId uuid.UUID, request *dto.ProcessDocumentRequest) (*dto.ProcessDocumentResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error)
	Get(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error
}

type documentService struct {
	uowFactory        unitofwork.RepositoryFactory
	textExtractor     extractor.TextExtractor
	embeddingProvider embedding.EmbeddingProvider
	docClassifier     classifier.Classifier
	limiter           ratelimit.Limiter
	publisher         message.Publisher
	natsPub           *pktNats.Publisher
	processedTopic    string
	log               logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	textExtractor extractor.TextExtractor,
	embeddingProvider embedding.EmbeddingProvider,
	docClassifier classifier.Classifier,
	limiter ratelimit.Limiter,
	publisher message.Publisher,
	natsPub *pktNats.Publisher,
	processedTopic string,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:        uowFactory,
		textExtractor:     textExtractor,
		embeddingProvider: embeddingProvider,
		docClassifier:     docClassifier,
		limiter:           limiter,
		publisher:         publisher,
		natsPub:           natsPub,
		processedTopic:    processedTopic,
		log:               log,
	}
}

// ProcessDocument runs the full ingestion pipeline. The document stays
// in "processing" on any failure after the upsert; it flips to "valid"
// only after every chunk has been embedded and stored.
func (ds *documentService) ProcessDocument(ctx context.Context, userId uuid.UUID, request *dto.ProcessDocumentRequest) (*dto.ProcessDocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	// Rate limit before any paid work.
	allowed, err := ds.limiter.Allow(ctx, fmt.Sprintf("process:%s", userId))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "rate limit check", err)
	}
	if !allowed {
		return nil, apperror.RateLimited(
			"Rate limit exceeded. Maximum %d requests per %d hours.",
			ratelimit.DefaultLimit, int(ratelimit.DefaultWindow.Hours()))
	}
	// Usage mirror in the DB is best effort only.
	if err := uow.RateLimitRepository().RecordRequest(ctx, userId); err != nil {
		ds.log.Warn("document", "failed to record rate limit usage", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}

	if err := ds.validateFileSize(request.FileType, request.FileSize); err != nil {
		return nil, err
	}

	// Same name with a different declared type means the caller is
	// about to silently reclassify an existing record.
	existing, err := uow.DocumentRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByFileName{FileName: request.FileName},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "check existing document", err)
	}
	if existing != nil && existing.FileType != request.FileType {
		return nil, apperror.Conflict(
			`File type conflict: a file named "%s" already exists with type "%s". Please rename your file or delete the existing one.`,
			request.FileName, existing.FileType)
	}

	// Upsert on (user_id, file_name): a re-upload refreshes metadata
	// and resets the status.
	doc := &entity.Document{
		Id:       uuid.New(),
		UserId:   userId,
		FileName: request.FileName,
		FileUrl:  request.FileUrl,
		FileType: request.FileType,
		FileSize: request.FileSize,
		Status:   constant.DocumentStatusProcessing,
	}
	if err := uow.DocumentRepository().Upsert(ctx, doc); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "upsert document", err)
	}

	documentText, err := ds.textExtractor.ExtractText(ctx, request.FileUrl, request.FileType)
	if err != nil {
		ds.log.Error("document", "text extraction failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		return nil, err
	}

	if len(strings.TrimSpace(documentText)) < constant.MinExtractedTextLen {
		return nil, apperror.New(apperror.KindContent,
			fmt.Sprintf(`No readable text found in "%s". Please ensure the file contains text content and try again.`, request.FileName))
	}

	// Category and expiry inference is useful but not load bearing for
	// retrieval; a failed classification leaves both unset.
	if classification, err := ds.docClassifier.Classify(ctx, request.FileName, documentText); err != nil {
		ds.log.Warn("document", "classification failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
	} else {
		doc.DocCategory = &classification.DocCategory
		doc.ExpiryDate = classification.ExpiryDate
		if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
			return nil, apperror.Wrap(apperror.KindPersistence, "store classification", err)
		}
	}

	textChunks := chunker.ChunkText(documentText, chunker.DefaultChunkSize, chunker.DefaultOverlap)
	if len(textChunks) == 0 {
		return nil, apperror.New(apperror.KindContent,
			fmt.Sprintf(`No readable text found in "%s". Please ensure the file contains text content and try again.`, request.FileName))
	}

	// A re-upload replaces the chunk set wholesale.
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "clear previous chunks", err)
	}

	for i, chunkContent := range textChunks {
		res, err := ds.embeddingProvider.Generate(ctx, chunkContent, embedding.TaskTypeDocument)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindEmbedding,
				fmt.Sprintf("embed chunk %d of %d", i, len(textChunks)), err)
		}

		chunk := &entity.DocumentChunk{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			UserId:         userId,
			ChunkIndex:     i,
			Content:        chunkContent,
			EmbeddingValue: res.Embedding.Values,
		}
		if err := uow.DocumentChunkRepository().Create(ctx, chunk); err != nil {
			return nil, apperror.Wrap(apperror.KindPersistence,
				fmt.Sprintf("store chunk %d of %d", i, len(textChunks)), err)
		}
	}

	// All chunks stored; only now does the document become trustworthy.
	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, constant.DocumentStatusValid); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "mark document valid", err)
	}

	ds.publishProcessed(ctx, userId, doc.Id)

	ds.log.Info("document", "document processed", map[string]interface{}{
		"document_id": doc.Id.String(),
		"chunks":      len(textChunks),
	})

	return &dto.ProcessDocumentResponse{DocumentId: doc.Id}, nil
}

func (ds *documentService) validateFileSize(fileType string, fileSize int64) error {
	if fileSize <= 0 {
		return nil // declared size is optional
	}

	isDocx := fileType == constant.MimeTypeDocx
	maxSize := int64(constant.MaxFileSizePdfImage)
	typeName := "PDF/Image"
	if isDocx {
		maxSize = constant.MaxFileSizeDocx
		typeName = "DOCX"
	}

	if fileSize > maxSize {
		return apperror.TooLarge(
			"File too large. Maximum %s file size is %dMB, but received %dMB.",
			typeName, maxSize/1024/1024, fileSize/1024/1024)
	}
	return nil
}

func (ds *documentService) publishProcessed(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) {
	payload, err := json.Marshal(dto.PublishDocumentProcessedMessage{
		UserId:     userId,
		DocumentId: documentId,
	})
	if err != nil {
		ds.log.Error("document", "marshal processed event", map[string]interface{}{"error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := ds.publisher.Publish(ds.processedTopic, msg); err != nil {
		// Gap recomputation can still be triggered manually.
		ds.log.Error("document", "publish processed event", map[string]interface{}{
			"document_id": documentId.String(),
			"error":       err.Error(),
		})
	}

	ds.publishExternal(ctx, events.NewDocumentProcessed(userId, documentId))
}

// publishExternal mirrors lifecycle events onto the NATS bus for
// out-of-process consumers. Delivery is best effort.
func (ds *documentService) publishExternal(ctx context.Context, event events.Event) {
	if ds.natsPub == nil {
		return
	}
	if err := ds.natsPub.Publish(ctx, event); err != nil {
		ds.log.Warn("document", "failed to publish external event", map[string]interface{}{
			"event_type": event.EventType(),
			"error":      err.Error(),
		})
	}
}

func (ds *documentService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "list documents", err)
	}

	res := make([]*dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		res[i] = toDocumentResponse(doc)
	}
	return res, nil
}

func (ds *documentService) Get(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) (*dto.DocumentResponse, error) {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "find document", err)
	}
	if doc == nil {
		return nil, apperror.Validation("document not found")
	}
	return toDocumentResponse(doc), nil
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:          doc.Id,
		FileName:    doc.FileName,
		FileUrl:     doc.FileUrl,
		FileType:    doc.FileType,
		FileSize:    doc.FileSize,
		Status:      doc.Status,
		DocCategory: doc.DocCategory,
		ExpiryDate:  doc.ExpiryDate,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// Delete removes the document and its chunks. Gaps referencing it are
// corrected on the next recomputation.
func (ds *documentService) Delete(ctx context.Context, userId uuid.UUID, documentId uuid.UUID) error {
	uow := ds.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return apperror.Wrap(apperror.KindPersistence, "find document", err)
	}
	if doc == nil {
		return apperror.Validation("document not found")
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.Wrap(apperror.KindPersistence, "begin delete", err)
	}
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		_ = uow.Rollback()
		return apperror.Wrap(apperror.KindPersistence, "delete chunks", err)
	}
	if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
		_ = uow.Rollback()
		return apperror.Wrap(apperror.KindPersistence, "delete document", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.Wrap(apperror.KindPersistence, "commit delete", err)
	}

	ds.publishExternal(ctx, events.NewDocumentDeleted(userId, doc.Id))

	ds.log.Info("document", "document deleted", map[string]interface{}{
		"document_id": doc.Id.String(),
	})
	return nil
}
