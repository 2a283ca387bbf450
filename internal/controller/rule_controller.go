package controller

import (
	"gapguard-be/internal/apperror"
	"gapguard-be/internal/dto"
	"gapguard-be/internal/pkg/serverutils"
	"gapguard-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IRuleController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Suggest(ctx *fiber.Ctx) error
}

type ruleController struct {
	ruleService service.IRuleService
}

func NewRuleController(ruleService service.IRuleService) IRuleController {
	return &ruleController{
		ruleService: ruleService,
	}
}

func (c *ruleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/rule/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Put(":id", c.Update)
	h.Post(":id/approve", c.Approve)
	h.Delete(":id", c.Delete)
	h.Post("suggest", c.Suggest)
}

func (c *ruleController) Create(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ruleService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create rule", res))
}

func (c *ruleController) List(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.ruleService.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get rules", res))
}

func (c *ruleController) Update(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	ruleId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid rule id")
	}

	var req dto.UpdateRuleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = ruleId
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ruleService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update rule", res))
}

func (c *ruleController) Approve(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	ruleId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid rule id")
	}

	res, err := c.ruleService.Approve(ctx.Context(), userId, ruleId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success approve rule", res))
}

func (c *ruleController) Delete(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	ruleId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid rule id")
	}

	if err := c.ruleService.Delete(ctx.Context(), userId, ruleId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete rule", nil))
}

func (c *ruleController) Suggest(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.ruleService.SuggestRules(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success suggest rules", res))
}
