package controller

import (
	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/dto"
	"schoolhub-be/internal/pkg/serverutils"
	"schoolhub-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOnboardingController interface {
	RegisterRoutes(r fiber.Router)
	State(ctx *fiber.Ctx) error
	UpdateStep(ctx *fiber.Ctx) error
	Next(ctx *fiber.Ctx) error
	Back(ctx *fiber.Ctx) error
	ApplyPreset(ctx *fiber.Ctx) error
}

type onboardingController struct {
	service service.IOnboardingService
	auth    fiber.Handler
}

func NewOnboardingController(service service.IOnboardingService, auth fiber.Handler) IOnboardingController {
	return &onboardingController{service: service, auth: auth}
}

func (c *onboardingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/onboarding")
	h.Use(c.auth)
	h.Get("", c.State)
	h.Put("/step", c.UpdateStep)
	h.Post("/next", c.Next)
	h.Post("/back", c.Back)
	h.Post("/preset/:name", c.ApplyPreset)
}

func (c *onboardingController) State(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.State(ctx.UserContext(), userId)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get onboarding", res))
}

func (c *onboardingController) UpdateStep(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req dto.OnboardingStepRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.service.UpdateStep(ctx.UserContext(), userId, &req)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update onboarding", res))
}

func (c *onboardingController) Next(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.Next(ctx.UserContext(), userId)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success advance onboarding", res))
}

func (c *onboardingController) Back(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	res, err := c.service.Back(ctx.UserContext(), userId)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success go back", res))
}

func (c *onboardingController) ApplyPreset(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	name := ctx.Params("name")
	if _, err := constant.Preset(name); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	res, err := c.service.ApplyPreset(ctx.UserContext(), userId, name)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success apply preset", res))
}
