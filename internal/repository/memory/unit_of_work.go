package memory

import (
	"context"
	"fmt"

	"schoolhub-be/internal/repository/contract"
	"schoolhub-be/internal/repository/unitofwork"
)

type RepositoryFactory struct {
	db *Database
}

func NewRepositoryFactory(db *Database) unitofwork.RepositoryFactory {
	return &RepositoryFactory{db: db}
}

func (f *RepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{db: f.db}
}

type UnitOfWork struct {
	db *Database
	tx *state
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.db.txMu.Lock()
	u.db.mu.RLock()
	u.tx = u.db.live.clone()
	u.db.mu.RUnlock()
	return nil
}

func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	u.db.mu.Lock()
	u.db.live = u.tx
	u.db.mu.Unlock()
	u.tx = nil
	u.db.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	u.tx = nil
	u.db.txMu.Unlock()
	return nil
}

func (u *UnitOfWork) scope() scope {
	if u.tx != nil {
		return txScope{st: u.tx}
	}
	return liveScope{db: u.db}
}

func (u *UnitOfWork) TenantRepository() contract.TenantRepository {
	return &tenantRepository{scope: u.scope()}
}

func (u *UnitOfWork) TenantFeatureRepository() contract.TenantFeatureRepository {
	return &tenantFeatureRepository{scope: u.scope()}
}

func (u *UnitOfWork) ProfileRepository() contract.ProfileRepository {
	return &profileRepository{scope: u.scope()}
}
