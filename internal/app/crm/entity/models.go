package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission представляет атомарное разрешение (например, lead:create).
// Каталог разрешений наполняется только сидом и не меняется через API
type Permission struct {
	ID   int    `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
}

func (Permission) TableName() string {
	return "permissions"
}

// Role представляет именованный набор разрешений
type Role struct {
	ID          int          `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions"`
}

func (Role) TableName() string {
	return "roles"
}

// RolePermission - связь роль-разрешение.
// Набор полностью заменяется при обновлении роли (delete-all + insert-all)
type RolePermission struct {
	RoleID       int `json:"role_id" gorm:"primaryKey"`
	PermissionID int `json:"permission_id" gorm:"primaryKey"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// User представляет пользователя системы
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"` // не возвращаем в JSON
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
	Profile      *Profile  `json:"profile,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Roles        []Role    `json:"roles,omitempty" gorm:"many2many:user_roles"`
}

func (User) TableName() string {
	return "users"
}

// PermissionNames возвращает эффективный набор разрешений пользователя:
// объединение разрешений всех его ролей, без дубликатов.
// У пользователя без ролей набор пуст
func (u *User) PermissionNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, role := range u.Roles {
		for _, p := range role.Permissions {
			if _, ok := seen[p.Name]; ok {
				continue
			}
			seen[p.Name] = struct{}{}
			names = append(names, p.Name)
		}
	}
	return names
}

// Profile - профиль пользователя (1:1, создается вместе с пользователем)
type Profile struct {
	ID         int       `json:"-" gorm:"primaryKey"`
	UserID     uuid.UUID `json:"-" gorm:"type:uuid;uniqueIndex;not null"`
	FirstName  string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName   string    `json:"last_name" gorm:"type:varchar(100)"`
	Phone      string    `json:"phone,omitempty" gorm:"type:varchar(50)"`
	AvatarPath string    `json:"avatar_path,omitempty" gorm:"type:varchar(255)"`
}

func (Profile) TableName() string {
	return "profiles"
}

// UserRole - связь пользователь-роль.
// Набор полностью заменяется при обновлении пользователя,
// зеркально семантике RolePermission
type UserRole struct {
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	RoleID int       `json:"role_id" gorm:"primaryKey"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// Branch представляет филиал клиники
type Branch struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	Address   string    `json:"address" gorm:"type:varchar(500)"`
	Phone     string    `json:"phone" gorm:"type:varchar(50)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Branch) TableName() string {
	return "branches"
}

// Doctor представляет врача, привязанного к филиалу
type Doctor struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Speciality string    `json:"speciality" gorm:"type:varchar(255)"`
	Phone      string    `json:"phone" gorm:"type:varchar(50)"`
	BranchID   uuid.UUID `json:"branch_id" gorm:"type:uuid;not null"`
	Branch     *Branch   `json:"branch,omitempty"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Doctor) TableName() string {
	return "doctors"
}

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead представляет лид (потенциального пациента)
type Lead struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"type:varchar(255);not null"`
	Email     string     `json:"email" gorm:"type:varchar(255)"`
	Phone     string     `json:"phone" gorm:"type:varchar(50)"`
	Source    string     `json:"source" gorm:"type:varchar(100)"`
	Status    LeadStatus `json:"status" gorm:"type:varchar(50);not null;default:'new'"`
	BranchID  *uuid.UUID `json:"branch_id,omitempty" gorm:"type:uuid"`
	DoctorID  *uuid.UUID `json:"doctor_id,omitempty" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Lead) TableName() string {
	return "leads"
}

// LeadActivity - запись журнала действий по лиду.
// Создается сервисом при каждой мутации лида, только чтение через API
type LeadActivity struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	LeadID      uuid.UUID `json:"lead_id" gorm:"type:uuid;not null;index"`
	ActorID     uuid.UUID `json:"actor_id" gorm:"type:uuid;not null"`
	Action      string    `json:"action" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (LeadActivity) TableName() string {
	return "lead_activities"
}

// FollowUp - запланированный повторный контакт по лиду
type FollowUp struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	LeadID    uuid.UUID `json:"lead_id" gorm:"type:uuid;not null;index"`
	DueAt     time.Time `json:"due_at" gorm:"not null;index"`
	Note      string    `json:"note" gorm:"type:varchar(500)"`
	Done      bool      `json:"done" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (FollowUp) TableName() string {
	return "follow_ups"
}

// ActivityComment - свободный комментарий к активности лида.
// Хранится в MongoDB
type ActivityComment struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ActivityID string             `json:"activity_id" bson:"activity_id"`
	AuthorID   string             `json:"author_id" bson:"author_id"`
	Body       string             `json:"body" bson:"body"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// LeadEvent - событие изменения лида для Kafka
type LeadEvent struct {
	EventType string     `json:"event_type"` // LEAD_CREATED, LEAD_UPDATED, LEAD_DELETED
	LeadID    uuid.UUID  `json:"lead_id"`
	Name      string     `json:"name"`
	Status    LeadStatus `json:"status"`
	ActorID   uuid.UUID  `json:"actor_id"`
	Timestamp time.Time  `json:"timestamp"`
}

const (
	EventTypeLeadCreated = "LEAD_CREATED"
	EventTypeLeadUpdated = "LEAD_UPDATED"
	EventTypeLeadDeleted = "LEAD_DELETED"
)

// FollowUpReminderEvent - напоминание о наступившем follow-up для Kafka
type FollowUpReminderEvent struct {
	EventType  string    `json:"event_type"` // FOLLOW_UP_DUE
	FollowUpID uuid.UUID `json:"follow_up_id"`
	LeadID     uuid.UUID `json:"lead_id"`
	DueAt      time.Time `json:"due_at"`
	Note       string    `json:"note"`
	Timestamp  time.Time `json:"timestamp"`
}

const EventTypeFollowUpDue = "FOLLOW_UP_DUE"
