// FILE: internal/mapper/tenant_mapper.go
// Mapper for Tenant / Profile entity <-> model conversion
package mapper

import (
	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/model"
)

type TenantMapper struct{}

func NewTenantMapper() *TenantMapper {
	return &TenantMapper{}
}

func (m *TenantMapper) ToEntity(model *model.Tenant) *entity.Tenant {
	if model == nil {
		return nil
	}
	return &entity.Tenant{
		Id:                model.Id,
		Slug:              model.Slug,
		Name:              model.Name,
		Status:            entity.TenantStatus(model.Status),
		Plan:              entity.TenantPlan(model.Plan),
		PrimaryColor:      model.PrimaryColor,
		SecondaryColor:    model.SecondaryColor,
		AccentColor:       model.AccentColor,
		FontFamily:        model.FontFamily,
		Address:           model.Address,
		Email:             model.Email,
		Phone:             model.Phone,
		Timezone:          model.Timezone,
		Language:          model.Language,
		Currency:          model.Currency,
		SubscriptionStart: model.SubscriptionStart,
		SubscriptionEnd:   model.SubscriptionEnd,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func (m *TenantMapper) ToModel(entity *entity.Tenant) *model.Tenant {
	if entity == nil {
		return nil
	}
	return &model.Tenant{
		Id:                entity.Id,
		Slug:              entity.Slug,
		Name:              entity.Name,
		Status:            string(entity.Status),
		Plan:              string(entity.Plan),
		PrimaryColor:      entity.PrimaryColor,
		SecondaryColor:    entity.SecondaryColor,
		AccentColor:       entity.AccentColor,
		FontFamily:        entity.FontFamily,
		Address:           entity.Address,
		Email:             entity.Email,
		Phone:             entity.Phone,
		Timezone:          entity.Timezone,
		Language:          entity.Language,
		Currency:          entity.Currency,
		SubscriptionStart: entity.SubscriptionStart,
		SubscriptionEnd:   entity.SubscriptionEnd,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
	}
}

// PatchColumns converts a patch into the column map sent to UPDATE.
// Only the fields present in the patch appear.
func (m *TenantMapper) PatchColumns(patch entity.TenantPatch) map[string]interface{} {
	cols := make(map[string]interface{})
	if patch.Name != nil {
		cols["name"] = *patch.Name
	}
	if patch.Status != nil {
		cols["status"] = string(*patch.Status)
	}
	if patch.Plan != nil {
		cols["plan"] = string(*patch.Plan)
	}
	if patch.PrimaryColor != nil {
		cols["primary_color"] = *patch.PrimaryColor
	}
	if patch.SecondaryColor != nil {
		cols["secondary_color"] = *patch.SecondaryColor
	}
	if patch.AccentColor != nil {
		cols["accent_color"] = *patch.AccentColor
	}
	if patch.FontFamily != nil {
		cols["font_family"] = *patch.FontFamily
	}
	if patch.Address != nil {
		cols["address"] = *patch.Address
	}
	if patch.Email != nil {
		cols["email"] = *patch.Email
	}
	if patch.Phone != nil {
		cols["phone"] = *patch.Phone
	}
	if patch.Timezone != nil {
		cols["timezone"] = *patch.Timezone
	}
	if patch.Language != nil {
		cols["language"] = *patch.Language
	}
	if patch.Currency != nil {
		cols["currency"] = *patch.Currency
	}
	if patch.SubscriptionStart != nil {
		cols["subscription_start"] = *patch.SubscriptionStart
	}
	if patch.SubscriptionEnd != nil {
		cols["subscription_end"] = *patch.SubscriptionEnd
	}
	return cols
}

func (m *TenantMapper) ProfileToEntity(model *model.Profile) *entity.Profile {
	if model == nil {
		return nil
	}
	return &entity.Profile{
		UserId:    model.UserId,
		TenantId:  model.TenantId,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
