package controller

import (
	"gapguard-be/internal/pkg/serverutils"
	"gapguard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGapController interface {
	RegisterRoutes(r fiber.Router)
	Recompute(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type gapController struct {
	gapService service.IGapService
}

func NewGapController(gapService service.IGapService) IGapController {
	return &gapController{
		gapService: gapService,
	}
}

func (c *gapController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/gap/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("recompute", c.Recompute)
	h.Get("", c.List)
}

func (c *gapController) Recompute(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.gapService.RecomputeGaps(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Gaps recomputed", res))
}

func (c *gapController) List(ctx *fiber.Ctx) error {
	userId, err := requestUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.gapService.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get gaps", res))
}
