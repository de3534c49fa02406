package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserExists          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrRoleExists          = errors.New("role with this name already exists")
	ErrRoleNotFound        = errors.New("role not found")
	ErrPermissionNotFound  = errors.New("permission not found")
	ErrLeadNotFound        = errors.New("lead not found")
	ErrActivityNotFound    = errors.New("lead activity not found")
	ErrBranchExists        = errors.New("branch with this name already exists")
	ErrBranchNotFound      = errors.New("branch not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrFollowUpNotFound    = errors.New("follow-up not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrValidation          = errors.New("validation error")
)

// RoleAssignedError возвращается при попытке удалить роль,
// которая еще назначена пользователям. Count попадает в тело ответа
type RoleAssignedError struct {
	Count int64
}

func (e *RoleAssignedError) Error() string {
	return fmt.Sprintf("role is assigned to %d user(s)", e.Count)
}
