package controller

import (
	"errors"

	"schoolhub-be/internal/pkg/serverutils"
	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/service"
	"schoolhub-be/pkg/onboarding"
	"schoolhub-be/pkg/settings"
	"schoolhub-be/pkg/tenant"

	"github.com/gofiber/fiber/v2"
)

const (
	ReasonOnboardingRequired = "ONBOARDING_REQUIRED"
	ReasonResolutionFailed   = "RESOLUTION_FAILED"
	ReasonInvalid            = "VALIDATION_FAILED"
	ReasonDuplicateSlug      = "DUPLICATE_SLUG"
	ReasonSaveInProgress     = "SAVE_IN_PROGRESS"
	ReasonAlreadyOnboarded   = "ALREADY_ONBOARDED"
	ReasonUpdateFailed       = "UPDATE_FAILED"
)

// respondError answers the tenant domain errors. Anything it does not know
// goes to the fiber error handler.
func respondError(ctx *fiber.Ctx, err error) error {
	var (
		resErr   *tenant.ResolutionError
		stepErr  *onboarding.StepError
		draftErr *settings.ValidationError
		updErr   *tenant.UpdateError
	)

	switch {
	case errors.Is(err, tenant.ErrNotFound), errors.Is(err, tenant.ErrNoTenant):
		return reason(ctx, fiber.StatusNotFound, ReasonOnboardingRequired, "Tenant onboarding required")

	case errors.As(err, &resErr):
		return reason(ctx, fiber.StatusServiceUnavailable, ReasonResolutionFailed, "Could not load your school, please retry")

	case errors.As(err, &stepErr):
		return fields(ctx, "Step "+stepErr.Step.String()+" is incomplete", stepErr.Fields)

	case errors.As(err, &draftErr):
		return fields(ctx, "Settings are invalid", draftErr.Fields)

	case errors.Is(err, settings.ErrSaveInProgress):
		return reason(ctx, fiber.StatusConflict, ReasonSaveInProgress, "A save is already in progress")

	case errors.Is(err, service.ErrAlreadyOnboarded), errors.Is(err, onboarding.ErrCompleted):
		return reason(ctx, fiber.StatusConflict, ReasonAlreadyOnboarded, "Onboarding is already complete")

	case errors.As(err, &updErr):
		switch {
		case tenant.IsValidation(err):
			return reason(ctx, fiber.StatusUnprocessableEntity, ReasonInvalid, updErr.Error())
		case errors.Is(err, contract.ErrDuplicateKey):
			return reason(ctx, fiber.StatusConflict, ReasonDuplicateSlug, "That school slug is already taken")
		default:
			return reason(ctx, fiber.StatusBadGateway, ReasonUpdateFailed, "Could not save changes, please retry")
		}
	}
	return err
}

func reason(ctx *fiber.Ctx, code int, r, msg string) error {
	return ctx.Status(code).JSON(serverutils.ReasonResponse(code, r, msg))
}

func fields(ctx *fiber.Ctx, msg string, f map[string]string) error {
	resp := serverutils.ReasonResponse(fiber.StatusUnprocessableEntity, ReasonInvalid, msg)
	resp.Errors = f
	return ctx.Status(fiber.StatusUnprocessableEntity).JSON(resp)
}
