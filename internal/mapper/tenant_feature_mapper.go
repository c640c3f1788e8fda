// FILE: internal/mapper/tenant_feature_mapper.go
// Mapper for TenantFeature entity <-> model conversion
package mapper

import (
	"bytes"
	"encoding/json"

	"schoolhub-be/internal/entity"
	"schoolhub-be/internal/model"

	"gorm.io/datatypes"
)

type TenantFeatureMapper struct{}

func NewTenantFeatureMapper() *TenantFeatureMapper {
	return &TenantFeatureMapper{}
}

func (m *TenantFeatureMapper) ToEntity(model *model.TenantFeature) *entity.TenantFeature {
	if model == nil {
		return nil
	}
	config, ok := DecodeConfig(model.Config)
	return &entity.TenantFeature{
		Id:              model.Id,
		TenantId:        model.TenantId,
		FeatureKey:      model.FeatureKey,
		IsEnabled:       model.IsEnabled,
		Config:          config,
		ConfigMalformed: !ok,
		CreatedAt:       model.CreatedAt,
	}
}

func (m *TenantFeatureMapper) ToModel(entity *entity.TenantFeature) *model.TenantFeature {
	if entity == nil {
		return nil
	}
	return &model.TenantFeature{
		Id:         entity.Id,
		TenantId:   entity.TenantId,
		FeatureKey: entity.FeatureKey,
		IsEnabled:  entity.IsEnabled,
		Config:     EncodeConfig(entity.Config),
		CreatedAt:  entity.CreatedAt,
	}
}

func (m *TenantFeatureMapper) ToEntities(models []*model.TenantFeature) []*entity.TenantFeature {
	entities := make([]*entity.TenantFeature, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}

// DecodeConfig parses a stored config. Empty or null input is a valid empty
// object. Anything that is not a JSON object yields {} and ok=false.
func DecodeConfig(raw []byte) (config map[string]interface{}, ok bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]interface{}{}, true
	}
	var decoded interface{}
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return map[string]interface{}{}, false
	}
	obj, isObject := decoded.(map[string]interface{})
	if !isObject {
		return map[string]interface{}{}, false
	}
	return obj, true
}

// EncodeConfig always produces a JSON object.
func EncodeConfig(config map[string]interface{}) datatypes.JSON {
	if len(config) == 0 {
		return datatypes.JSON("{}")
	}
	data, err := json.Marshal(config)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(data)
}
