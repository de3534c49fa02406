package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"clinicrm/internal/app/crm/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// RoleRepositoryTestSuite тестовый suite для PostgreSQL repository
type RoleRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  RoleRepository
	sqlDB *sql.DB
}

func TestRoleRepositorySuite(t *testing.T) {
	suite.Run(t, new(RoleRepositoryTestSuite))
}

func (s *RoleRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewRoleRepository(s.db)
}

func (s *RoleRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== GetByID Tests =====================

func (s *RoleRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()

	roleRows := sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "manager")
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE id = $1`)).
		WithArgs(5, 1).
		WillReturnRows(roleRows)

	// Preload разрешений
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "role_permissions" WHERE "role_permissions"."role_id" = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "permission_id"}))

	// Act
	role, err := s.repo.GetByID(ctx, 5)

	// Assert
	s.NoError(err)
	s.NotNil(role)
	s.Equal(5, role.ID)
	s.Equal("manager", role.Name)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RoleRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE id = $1`)).
		WithArgs(42, 1).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	role, err := s.repo.GetByID(ctx, 42)

	// Assert
	s.Nil(role)
	s.ErrorIs(err, ErrNotFound)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Create Tests =====================

func (s *RoleRepositoryTestSuite) TestCreate_WithPermissions() {
	ctx := context.Background()
	role := &entity.Role{Name: "manager"}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "roles"`)).
		WithArgs("manager").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "role_permissions"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Create(ctx, role, []int{1, 2})

	// Assert
	s.NoError(err)
	s.Equal(5, role.ID)

	s.NoError(s.mock.ExpectationsWereMet())
}

// Несуществующий permission id откатывает транзакцию целиком
func (s *RoleRepositoryTestSuite) TestCreate_UnknownPermission() {
	ctx := context.Background()
	role := &entity.Role{Name: "manager"}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "roles"`)).
		WithArgs("manager").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "role_permissions"`)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_role_permissions_permission"})
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Create(ctx, role, []int{999})

	// Assert
	s.ErrorIs(err, ErrForeignKey)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RoleRepositoryTestSuite) TestCreate_DuplicateName() {
	ctx := context.Background()
	role := &entity.Role{Name: "manager"}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "roles"`)).
		WithArgs("manager").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_roles_name"})
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Create(ctx, role, nil)

	// Assert
	s.ErrorIs(err, ErrDuplicate)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Update Tests =====================

func (s *RoleRepositoryTestSuite) TestUpdate_NameOnly() {
	ctx := context.Background()
	role := &entity.Role{ID: 5, Name: "renamed"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "roles" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act: nil означает "набор разрешений не трогать"
	err := s.repo.Update(ctx, role, nil)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RoleRepositoryTestSuite) TestUpdate_ReplacePermissions() {
	ctx := context.Background()
	role := &entity.Role{ID: 5, Name: "manager"}
	permissions := []int{3, 4}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "roles" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "role_permissions"`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "role_permissions"`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Update(ctx, role, &permissions)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RoleRepositoryTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()
	role := &entity.Role{ID: 42, Name: "ghost"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "roles" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Update(ctx, role, nil)

	// Assert
	s.ErrorIs(err, ErrNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Delete Tests =====================

func (s *RoleRepositoryTestSuite) TestDelete_Success() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE id = $1`)).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "manager"))
	// Preload разрешений удаляемой роли для ответа
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "role_permissions" WHERE "role_permissions"."role_id" = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "permission_id"}))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "user_roles" WHERE role_id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "role_permissions"`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "roles"`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	role, err := s.repo.Delete(ctx, 5)

	// Assert
	s.NoError(err)
	s.Require().NotNil(role)
	s.Equal(5, role.ID)
	s.Equal("manager", role.Name)
	s.NoError(s.mock.ExpectationsWereMet())
}

// Назначенная пользователям роль не удаляется,
// проверка и удаление идут в одной транзакции
func (s *RoleRepositoryTestSuite) TestDelete_AssignedToUsers() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE id = $1`)).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(5, "manager"))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "role_permissions" WHERE "role_permissions"."role_id" = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "permission_id"}))
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "user_roles" WHERE role_id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	s.mock.ExpectRollback()

	// Act
	role, err := s.repo.Delete(ctx, 5)

	// Assert
	s.Nil(role)
	var assigned *RoleAssignedError
	s.Require().True(errors.As(err, &assigned))
	s.Equal(int64(3), assigned.Count)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RoleRepositoryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "roles" WHERE id = $1`)).
		WithArgs(42, 1).
		WillReturnError(gorm.ErrRecordNotFound)
	s.mock.ExpectRollback()

	// Act
	role, err := s.repo.Delete(ctx, 42)

	// Assert
	s.Nil(role)
	s.ErrorIs(err, ErrNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== CountByIDs Tests =====================

func (s *RoleRepositoryTestSuite) TestCountByIDs() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "roles" WHERE id IN ($1,$2)`)).
		WithArgs(1, 999).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Act
	count, err := s.repo.CountByIDs(ctx, []int{1, 999})

	// Assert
	s.NoError(err)
	s.Equal(int64(1), count)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== NewRoleRepository Tests =====================

func TestNewRoleRepository(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	// Act
	repo := NewRoleRepository(db)

	// Assert
	assert.NotNil(t, repo)
}
