package util

// Каталог разрешений в формате resource:action.
// Наполняется в БД только сидом; API каталога read-only
const (
	PermissionLeadCreate = "lead:create"
	PermissionLeadRead   = "lead:read"
	PermissionLeadUpdate = "lead:update"
	PermissionLeadDelete = "lead:delete"

	PermissionUserRead   = "user:read"
	PermissionUserCreate = "user:create"
	PermissionUserUpdate = "user:update"
	PermissionUserDelete = "user:delete"

	PermissionPermissionRead = "permission:read"

	PermissionRoleRead   = "role:read"
	PermissionRoleCreate = "role:create"
	PermissionRoleUpdate = "role:update"
	PermissionRoleDelete = "role:delete"

	PermissionBranchRead   = "branch:read"
	PermissionBranchCreate = "branch:create"
	PermissionBranchUpdate = "branch:update"
	PermissionBranchDelete = "branch:delete"

	PermissionDoctorRead   = "doctor:read"
	PermissionDoctorCreate = "doctor:create"
	PermissionDoctorUpdate = "doctor:update"
	PermissionDoctorDelete = "doctor:delete"

	PermissionCommentRead   = "lead_activity_comment:read"
	PermissionCommentCreate = "lead_activity_comment:create"
	PermissionCommentUpdate = "lead_activity_comment:update"
	PermissionCommentDelete = "lead_activity_comment:delete"

	PermissionFollowUpRead   = "follow_up:read"
	PermissionFollowUpCreate = "follow_up:create"
	PermissionFollowUpUpdate = "follow_up:update"
	PermissionFollowUpDelete = "follow_up:delete"
)

// SuperAdminRoleName - имя root-роли, владеющей всеми разрешениями.
// Роль создается сидом, bootstrap только использует её
const SuperAdminRoleName = "SUPER ADMIN"

// AllPermissions возвращает полный каталог разрешений для сида
func AllPermissions() []string {
	return []string{
		PermissionLeadCreate, PermissionLeadRead, PermissionLeadUpdate, PermissionLeadDelete,
		PermissionUserRead, PermissionUserCreate, PermissionUserUpdate, PermissionUserDelete,
		PermissionPermissionRead,
		PermissionRoleRead, PermissionRoleCreate, PermissionRoleUpdate, PermissionRoleDelete,
		PermissionBranchRead, PermissionBranchCreate, PermissionBranchUpdate, PermissionBranchDelete,
		PermissionDoctorRead, PermissionDoctorCreate, PermissionDoctorUpdate, PermissionDoctorDelete,
		PermissionCommentRead, PermissionCommentCreate, PermissionCommentUpdate, PermissionCommentDelete,
		PermissionFollowUpRead, PermissionFollowUpCreate, PermissionFollowUpUpdate, PermissionFollowUpDelete,
	}
}
