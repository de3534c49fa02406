package service

import (
	"context"

	"clinicrm/internal/app/crm/entity"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
	// TTL токенов в секундах, для Max-Age cookie
	AccessTokenDuration() int
	RefreshTokenDuration() int
}

type UserServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateUserRequest) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *entity.FilterQuery) (*entity.UserPage, error)
}

type RoleServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateRoleRequest) (*entity.Role, error)
	GetByID(ctx context.Context, id int) (*entity.Role, error)
	List(ctx context.Context) ([]entity.Role, error)
	Update(ctx context.Context, id int, req *entity.UpdateRoleRequest) (*entity.Role, error)
	Delete(ctx context.Context, id int) (*entity.Role, error)
}

type PermissionServiceInterface interface {
	List(ctx context.Context, page, limit int) (*entity.PermissionPage, error)
}

type LeadServiceInterface interface {
	Create(ctx context.Context, actorID uuid.UUID, req *entity.CreateLeadRequest) (*entity.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req *entity.UpdateLeadRequest) (*entity.Lead, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	List(ctx context.Context, filter *entity.FilterQuery) (*entity.LeadPage, error)
	ListActivity(ctx context.Context, leadID uuid.UUID) ([]entity.LeadActivity, error)
}

type BranchServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateBranchRequest) (*entity.Branch, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	List(ctx context.Context) ([]entity.Branch, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateBranchRequest) (*entity.Branch, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type DoctorServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateDoctorRequest) (*entity.Doctor, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	List(ctx context.Context) ([]entity.Doctor, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateDoctorRequest) (*entity.Doctor, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FollowUpServiceInterface interface {
	Create(ctx context.Context, req *entity.CreateFollowUpRequest) (*entity.FollowUp, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.FollowUp, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]entity.FollowUp, error)
	Update(ctx context.Context, id uuid.UUID, req *entity.UpdateFollowUpRequest) (*entity.FollowUp, error)
	Delete(ctx context.Context, id uuid.UUID) error
	PublishDueReminders(ctx context.Context) (int, error)
}

type CommentServiceInterface interface {
	Create(ctx context.Context, authorID uuid.UUID, activityID string, req *entity.CreateCommentRequest) (*entity.ActivityComment, error)
	ListByActivity(ctx context.Context, activityID string) ([]entity.ActivityComment, error)
	Delete(ctx context.Context, activityID, id string) error
}

// MessagePublisher - абстракция Kafka-продюсера для сервисов и тестов
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
