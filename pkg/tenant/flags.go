package tenant

import (
	"schoolhub-be/internal/constant"
	"schoolhub-be/internal/entity"
)

// FeatureFlags answers feature questions against the store's current
// snapshot. A key without a row is disabled. It never fetches.
type FeatureFlags struct {
	store *Store
}

func NewFeatureFlags(store *Store) *FeatureFlags {
	return &FeatureFlags{store: store}
}

func (f *FeatureFlags) IsEnabled(key constant.FeatureKey) bool {
	row, ok := f.store.current().index[string(key)]
	return ok && row.IsEnabled
}

// Config returns a copy of the row config, or {} when there is no row or the
// stored config was malformed.
func (f *FeatureFlags) Config(key constant.FeatureKey) map[string]interface{} {
	row, ok := f.store.current().index[string(key)]
	if !ok || row.ConfigMalformed || row.Config == nil {
		return map[string]interface{}{}
	}
	return entity.CloneConfig(row.Config)
}

// EnabledKeys lists the enabled catalog keys in catalog order.
func (f *FeatureFlags) EnabledKeys() []constant.FeatureKey {
	snap := f.store.current()
	keys := make([]constant.FeatureKey, 0, len(snap.features))
	for _, key := range f.store.deps.Catalog {
		if row, ok := snap.index[string(key)]; ok && row.IsEnabled {
			keys = append(keys, key)
		}
	}
	return keys
}
