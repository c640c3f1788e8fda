package controller

import (
	"schoolhub-be/internal/dto"
	"schoolhub-be/internal/pkg/serverutils"
	"schoolhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ITenantController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Reload(ctx *fiber.Ctx) error
	GetSettings(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
	ResetSettings(ctx *fiber.Ctx) error
	GetFeature(ctx *fiber.Ctx) error
	ToggleFeature(ctx *fiber.Ctx) error
	Theme(ctx *fiber.Ctx) error
}

type tenantController struct {
	service service.ITenantService
	auth    fiber.Handler
}

func NewTenantController(service service.ITenantService, auth fiber.Handler) ITenantController {
	return &tenantController{service: service, auth: auth}
}

func (c *tenantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tenant")
	h.Use(c.auth)
	h.Get("", c.Show)
	h.Post("/reload", c.Reload)
	h.Get("/settings", c.GetSettings)
	h.Put("/settings", c.UpdateSettings)
	h.Post("/settings/reset", c.ResetSettings)
	h.Get("/features/:key", c.GetFeature)
	h.Put("/features/:key", c.ToggleFeature)
	h.Get("/theme", c.Theme)
}

func (c *tenantController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.Context(ctx.UserContext(), userId)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get tenant", res))
}

func (c *tenantController) Reload(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.Reload(ctx.UserContext(), userId)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reload tenant", res))
}

func (c *tenantController) GetSettings(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.GetSettings(ctx.UserContext(), userId)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get settings", res))
}

func (c *tenantController) UpdateSettings(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req dto.TenantSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateSettings(ctx.UserContext(), userId, &req)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update settings", res))
}

func (c *tenantController) ResetSettings(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.ResetSettings(ctx.UserContext(), userId)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset settings", res))
}

func (c *tenantController) GetFeature(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.GetFeature(ctx.UserContext(), userId, ctx.Params("key"))
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get feature", res))
}

func (c *tenantController) ToggleFeature(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req dto.ToggleFeatureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ToggleFeature(ctx.UserContext(), userId, ctx.Params("key"), *req.Enabled)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update feature", res))
}

func (c *tenantController) Theme(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.Theme(ctx.UserContext(), userId)
	if err != nil {
		return respondError(ctx, err)
	}

	if ctx.Accepts(fiber.MIMETextPlain, fiber.MIMEApplicationJSON) == fiber.MIMETextPlain {
		ctx.Set(fiber.HeaderContentType, "text/css; charset=utf-8")
		return ctx.SendString(res.CSS)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get theme", res))
}
