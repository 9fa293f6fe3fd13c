package user

type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditOwnProfile Permission = "profile.edit_own"

	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"

	// Work Plans
	PermissionWorkPlanViewOwn Permission = "workplan.view_own"
	PermissionWorkPlanCreate  Permission = "workplan.create"
	PermissionWorkPlanReview  Permission = "workplan.review"

	// Intelligence / Reports
	PermissionSalesIntelligence Permission = "intelligence.view"
	PermissionManagementReports Permission = "reports.manage"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionWorkPlanViewOwn,
		PermissionWorkPlanCreate,
		PermissionWorkPlanReview,
		PermissionSalesIntelligence,
		PermissionManagementReports,
		PermissionUserManage,
	},
	RoleManager: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionWorkPlanViewOwn,
		PermissionWorkPlanCreate,
		PermissionWorkPlanReview,
		PermissionSalesIntelligence,
		PermissionManagementReports,
	},
	RoleUser: {
		PermissionViewOwnProfile,
		PermissionEditOwnProfile,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionWorkPlanViewOwn,
		PermissionWorkPlanCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
