package model

import (
	"fmt"

	"gorm.io/gorm"
)

// SetupSQL creates the enum types AutoMigrate cannot express. Each statement is idempotent.
var SetupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'tenant_status') THEN CREATE TYPE tenant_status AS ENUM ('active', 'suspended', 'trial'); END IF; END $$;`,
	`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'tenant_plan') THEN CREATE TYPE tenant_plan AS ENUM ('basic', 'premium', 'enterprise'); END IF; END $$;`,
}

func Models() []interface{} {
	return []interface{}{
		&Tenant{},
		&Profile{},
		&TenantFeature{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, sql := range SetupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup sql: %w", err)
		}
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
