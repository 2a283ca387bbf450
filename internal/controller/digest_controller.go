package controller

import (
	"crypto/subtle"

	"gapguard-be/internal/pkg/serverutils"
	"gapguard-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDigestController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
}

// digestController exposes the digest run to schedulers. It is guarded
// by a shared service token instead of a user JWT because the run
// spans all users.
type digestController struct {
	digestService service.IDigestService
	serviceToken  string
}

func NewDigestController(digestService service.IDigestService, serviceToken string) IDigestController {
	return &digestController{
		digestService: digestService,
		serviceToken:  serviceToken,
	}
}

func (c *digestController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/digest/v1")
	h.Post("run", c.Run)
}

func (c *digestController) Run(ctx *fiber.Ctx) error {
	token := ctx.Get("X-Service-Token")
	if c.serviceToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(c.serviceToken)) != 1 {
		return ctx.Status(fiber.StatusUnauthorized).
			JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid service token"))
	}

	if err := c.digestService.RunDailyDigest(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Digest run complete", nil))
}
