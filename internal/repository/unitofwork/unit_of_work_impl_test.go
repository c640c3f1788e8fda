package unitofwork

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockFactory(t *testing.T) (RepositoryFactory, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewRepositoryFactory(db), mock
}

func TestUnitOfWork_BeginRollback(t *testing.T) {
	factory, mock := setupMockFactory(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	assert.Error(t, uow.Begin(ctx), "nested begin must fail")
	require.NoError(t, uow.Rollback())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_BeginCommit(t *testing.T) {
	factory, mock := setupMockFactory(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.Commit())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_CommitWithoutBegin(t *testing.T) {
	factory, _ := setupMockFactory(t)
	uow := factory.NewUnitOfWork(context.Background())

	assert.Error(t, uow.Commit())
	assert.Error(t, uow.Rollback())
}
