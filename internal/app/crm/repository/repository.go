package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicrm/internal/app/crm/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate - нарушение уникального ограничения (23505)
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey - нарушение внешнего ключа (23503),
	// например несуществующий permission id при создании роли
	ErrForeignKey = errors.New("referenced record does not exist")
)

// RoleAssignedError возвращается при попытке удалить роль,
// которая еще назначена пользователям
type RoleAssignedError struct {
	Count int64
}

func (e *RoleAssignedError) Error() string {
	return fmt.Sprintf("role is assigned to %d user(s)", e.Count)
}

// translateDBError переводит коды ошибок PostgreSQL в доменные ошибки репозитория
func translateDBError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", ErrForeignKey, pgErr.ConstraintName)
		}
	}
	return err
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User, roleIDs []int) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetWithAuthorization(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, user *entity.User, roleIDs *[]int) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int, search string) ([]entity.User, int64, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role, permissionIDs []int) error
	GetByID(ctx context.Context, id int) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	List(ctx context.Context) ([]entity.Role, error)
	Update(ctx context.Context, role *entity.Role, permissionIDs *[]int) error
	Delete(ctx context.Context, id int) (*entity.Role, error)
	CountUsers(ctx context.Context, roleID int) (int64, error)
	CountByIDs(ctx context.Context, ids []int) (int64, error)
	EnsurePermissions(ctx context.Context, roleID int, permissionIDs []int) error
}

type PermissionRepository interface {
	List(ctx context.Context, offset, limit int) ([]entity.Permission, int64, error)
	ListAll(ctx context.Context) ([]entity.Permission, error)
	EnsureCatalog(ctx context.Context, names []string) error
}

type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int, search string) ([]entity.Lead, int64, error)
}

type LeadActivityRepository interface {
	Create(ctx context.Context, activity *entity.LeadActivity) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.LeadActivity, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]entity.LeadActivity, error)
}

type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	List(ctx context.Context) ([]entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DoctorRepository interface {
	Create(ctx context.Context, doctor *entity.Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	List(ctx context.Context) ([]entity.Doctor, error)
	Update(ctx context.Context, doctor *entity.Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type FollowUpRepository interface {
	Create(ctx context.Context, followUp *entity.FollowUp) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FollowUp, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]entity.FollowUp, error)
	ListDue(ctx context.Context, before time.Time, limit int) ([]entity.FollowUp, error)
	Update(ctx context.Context, followUp *entity.FollowUp) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.ActivityComment) error
	GetByID(ctx context.Context, id string) (*entity.ActivityComment, error)
	ListByActivity(ctx context.Context, activityID string) ([]entity.ActivityComment, error)
	Delete(ctx context.Context, activityID, id string) error
}
