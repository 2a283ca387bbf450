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
	"gapguard-be/pkg/llm"

	"github.com/google/uuid"
)

// maxRuleSuggestions caps how many new suggested rules one call may add.
const maxRuleSuggestions = 3

const suggestionPromptTemplate = `You are an expert compliance assistant for GapGuard. Analyze the document categories a user has already provided and suggest a STRICTLY DEDUPLICATED, SHORT checklist of the most essential, unique, non-overlapping related documents they might still need.

Rules:
1. No semantic duplicates of each other or of the user's existing categories. Pick ONE canonical name per requirement.
2. Use the most common, standard official name for each document type.
3. Return a JSON object with a single key "suggestions": an array of objects, each with "rule_name" and "reason".
4. MAXIMUM %d suggestions total. Return fewer rather than padding with duplicates.
5. Do NOT add explanations outside the JSON object.

The user already has documents in these categories:
%s`

type IRuleService interface {
	Create(ctx context.Context, userId uuid.UUID, request *dto.CreateRuleRequest) (*dto.RuleResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.RuleResponse, error)
	Update(ctx context.Context, userId uuid.UUID, request *dto.UpdateRuleRequest) (*dto.RuleResponse, error)
	Approve(ctx context.Context, userId uuid.UUID, ruleId uuid.UUID) (*dto.RuleResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, ruleId uuid.UUID) error
	SuggestRules(ctx context.Context, userId uuid.UUID) (*dto.SuggestRulesResponse, error)
}

type ruleService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewRuleService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IRuleService {
	return &ruleService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		log:         log,
	}
}

func (rs *ruleService) Create(ctx context.Context, userId uuid.UUID, request *dto.CreateRuleRequest) (*dto.RuleResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	rule := &entity.ChecklistRule{
		Id:               uuid.New(),
		UserId:           userId,
		Name:             request.Name,
		Status:           constant.RuleStatusActive,
		RequiredDocTypes: request.RequiredDocTypes,
	}
	if err := uow.ChecklistRuleRepository().Create(ctx, rule); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "create rule", err)
	}
	return toRuleResponse(rule), nil
}

func (rs *ruleService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.RuleResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	rules, err := uow.ChecklistRuleRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "list rules", err)
	}

	res := make([]*dto.RuleResponse, len(rules))
	for i, rule := range rules {
		res[i] = toRuleResponse(rule)
	}
	return res, nil
}

// Update also serves approving or rejecting a suggested rule by
// switching its status.
func (rs *ruleService) Update(ctx context.Context, userId uuid.UUID, request *dto.UpdateRuleRequest) (*dto.RuleResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	rule, err := rs.ownedRule(ctx, uow, userId, request.Id)
	if err != nil {
		return nil, err
	}

	rule.Name = request.Name
	rule.Status = request.Status
	rule.RequiredDocTypes = request.RequiredDocTypes
	if err := uow.ChecklistRuleRepository().Update(ctx, rule); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "update rule", err)
	}
	return toRuleResponse(rule), nil
}

// Approve promotes a suggested rule into the active checklist.
// Rejection is just deletion.
func (rs *ruleService) Approve(ctx context.Context, userId uuid.UUID, ruleId uuid.UUID) (*dto.RuleResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	rule, err := rs.ownedRule(ctx, uow, userId, ruleId)
	if err != nil {
		return nil, err
	}
	if rule.Status != constant.RuleStatusSuggested {
		return nil, apperror.Validation("rule is not awaiting approval")
	}

	rule.Status = constant.RuleStatusActive
	if err := uow.ChecklistRuleRepository().Update(ctx, rule); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "approve rule", err)
	}
	return toRuleResponse(rule), nil
}

func (rs *ruleService) Delete(ctx context.Context, userId uuid.UUID, ruleId uuid.UUID) error {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	rule, err := rs.ownedRule(ctx, uow, userId, ruleId)
	if err != nil {
		return err
	}
	if err := uow.ChecklistRuleRepository().Delete(ctx, rule.Id); err != nil {
		return apperror.Wrap(apperror.KindPersistence, "delete rule", err)
	}
	return nil
}

type suggestionPayload struct {
	Suggestions []struct {
		RuleName string `json:"rule_name"`
		Reason   string `json:"reason"`
	} `json:"suggestions"`
}

// SuggestRules asks the model for missing document requirements based
// on the categories the user already has, deduplicates them against
// existing rules, and stores at most maxRuleSuggestions of them with
// status "suggested" pending user approval.
func (rs *ruleService) SuggestRules(ctx context.Context, userId uuid.UUID) (*dto.SuggestRulesResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.Classified{},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "load documents", err)
	}

	categories := uniqueCategories(docs)
	if len(categories) == 0 {
		return &dto.SuggestRulesResponse{Suggestions: []dto.RuleResponse{}}, nil
	}

	categoriesJson, _ := json.Marshal(categories)
	prompt := fmt.Sprintf(suggestionPromptTemplate, maxRuleSuggestions, string(categoriesJson))
	raw, err := rs.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "rule suggestion call", err)
	}

	payload, err := parseSuggestions(raw)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "rule suggestion parse", err)
	}

	existingRules, err := uow.ChecklistRuleRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "load existing rules", err)
	}
	existingNames := make(map[string]bool, len(existingRules))
	for _, rule := range existingRules {
		existingNames[strings.ToLower(strings.TrimSpace(rule.Name))] = true
	}

	var toInsert []*entity.ChecklistRule
	for _, s := range payload.Suggestions {
		name := strings.TrimSpace(s.RuleName)
		if name == "" || existingNames[strings.ToLower(name)] {
			continue
		}
		existingNames[strings.ToLower(name)] = true

		reason := s.Reason
		toInsert = append(toInsert, &entity.ChecklistRule{
			Id:     uuid.New(),
			UserId: userId,
			Name:   name,
			Status: constant.RuleStatusSuggested,
			// The rule's own name is a sensible default requirement.
			RequiredDocTypes: []string{strings.ToLower(name)},
			Reason:           &reason,
		})
		if len(toInsert) == maxRuleSuggestions {
			break
		}
	}

	if len(toInsert) == 0 {
		return &dto.SuggestRulesResponse{Suggestions: []dto.RuleResponse{}}, nil
	}

	if err := uow.ChecklistRuleRepository().CreateBulk(ctx, toInsert); err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "store suggestions", err)
	}

	rs.log.Info("rule", "rules suggested", map[string]interface{}{
		"user_id": userId.String(),
		"count":   len(toInsert),
	})

	suggestions := make([]dto.RuleResponse, len(toInsert))
	for i, rule := range toInsert {
		suggestions[i] = *toRuleResponse(rule)
	}
	return &dto.SuggestRulesResponse{Suggestions: suggestions}, nil
}

func (rs *ruleService) ownedRule(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, ruleId uuid.UUID) (*entity.ChecklistRule, error) {
	rule, err := uow.ChecklistRuleRepository().FindOne(ctx,
		specification.ByID{ID: ruleId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindPersistence, "find rule", err)
	}
	if rule == nil {
		return nil, apperror.Validation("rule not found")
	}
	return rule, nil
}

func parseSuggestions(raw string) (*suggestionPayload, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func uniqueCategories(docs []*entity.Document) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, doc := range docs {
		if doc.DocCategory == nil {
			continue
		}
		category := strings.TrimSpace(*doc.DocCategory)
		if category == "" || seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	return categories
}

func toRuleResponse(rule *entity.ChecklistRule) *dto.RuleResponse {
	return &dto.RuleResponse{
		Id:               rule.Id,
		Name:             rule.Name,
		Status:           rule.Status,
		RequiredDocTypes: rule.RequiredDocTypes,
		Reason:           rule.Reason,
		CreatedAt:        rule.CreatedAt,
		UpdatedAt:        rule.UpdatedAt,
	}
}
