package entity

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest - запрос на вход
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginUser - публичная часть пользователя в ответе на логин
type LoginUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Profile   *Profile  `json:"profile,omitempty"`
}

// LoginResponse - ответ на успешный вход.
// Токены дублируются в теле ответа, основной транспорт - cookie
type LoginResponse struct {
	User  LoginUser `json:"user"`
	Token TokenPair `json:"token"`
}

// CreateRoleRequest - запрос на создание роли
type CreateRoleRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Permissions []int  `json:"permissions"`
}

// UpdateRoleRequest - запрос на обновление роли.
// Отсутствующее поле permissions означает "не менять",
// пустой список - "очистить набор"
type UpdateRoleRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Permissions *[]int  `json:"permissions,omitempty"`
}

// CreateUserRequest - запрос на создание пользователя
type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Phone     string `json:"phone,omitempty"`
	Roles     []int  `json:"roles" validate:"required,min=1"`
}

// UpdateUserRequest - запрос на обновление пользователя.
// Семантика поля roles та же, что у permissions в UpdateRoleRequest
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
	Roles     *[]int  `json:"roles,omitempty"`
}

// CreateLeadRequest - запрос на создание лида
type CreateLeadRequest struct {
	Name     string     `json:"name" validate:"required,min=2"`
	Email    string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string     `json:"phone,omitempty"`
	Source   string     `json:"source,omitempty"`
	BranchID *uuid.UUID `json:"branchId,omitempty"`
	DoctorID *uuid.UUID `json:"doctorId,omitempty"`
}

// UpdateLeadRequest - запрос на обновление лида
type UpdateLeadRequest struct {
	Name     *string     `json:"name,omitempty" validate:"omitempty,min=2"`
	Email    *string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string     `json:"phone,omitempty"`
	Source   *string     `json:"source,omitempty"`
	Status   *LeadStatus `json:"status,omitempty"`
	BranchID *uuid.UUID  `json:"branchId,omitempty"`
	DoctorID *uuid.UUID  `json:"doctorId,omitempty"`
}

// CreateBranchRequest - запрос на создание филиала
type CreateBranchRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// UpdateBranchRequest - запрос на обновление филиала
type UpdateBranchRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

// CreateDoctorRequest - запрос на создание врача
type CreateDoctorRequest struct {
	Name       string    `json:"name" validate:"required,min=2"`
	Speciality string    `json:"speciality,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	BranchID   uuid.UUID `json:"branchId" validate:"required"`
}

// UpdateDoctorRequest - запрос на обновление врача
type UpdateDoctorRequest struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=2"`
	Speciality *string    `json:"speciality,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	BranchID   *uuid.UUID `json:"branchId,omitempty"`
}

// CreateFollowUpRequest - запрос на создание follow-up
type CreateFollowUpRequest struct {
	LeadID uuid.UUID `json:"leadId" validate:"required"`
	DueAt  time.Time `json:"dueAt" validate:"required"`
	Note   string    `json:"note,omitempty"`
}

// UpdateFollowUpRequest - запрос на обновление follow-up
type UpdateFollowUpRequest struct {
	DueAt *time.Time `json:"dueAt,omitempty"`
	Note  *string    `json:"note,omitempty"`
	Done  *bool      `json:"done,omitempty"`
}

// CreateCommentRequest - запрос на создание комментария к активности
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// FilterQuery - параметры пагинации и поиска
type FilterQuery struct {
	Page   int    `form:"page,default=1" validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
	Search string `form:"search"`
}

// Offset возвращает смещение для текущей страницы
func (f *FilterQuery) Offset() int {
	return (f.Page - 1) * f.Limit
}

// PaginationMeta - метаданные пагинации
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPaginationMeta собирает метаданные по общему количеству записей
func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// PermissionPage - страница каталога разрешений
type PermissionPage struct {
	Records []Permission   `json:"records"`
	Meta    PaginationMeta `json:"meta"`
}

// UserPage - страница списка пользователей
type UserPage struct {
	Records []User         `json:"records"`
	Meta    PaginationMeta `json:"meta"`
}

// LeadPage - страница списка лидов
type LeadPage struct {
	Records []Lead         `json:"records"`
	Meta    PaginationMeta `json:"meta"`
}
