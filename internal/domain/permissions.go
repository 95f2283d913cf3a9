package domain

// Permission is a granular action a role may perform.
type Permission string

const (
	// Profile management
	PermViewOwnProfile Permission = "view_own_profile"
	PermEditOwnProfile Permission = "edit_own_profile"

	// Plan viewing
	PermViewOwnPlans Permission = "view_own_plans"

	// Trainer permissions
	PermCreateWorkoutPlans Permission = "create_workout_plans"
	PermViewClientProfiles Permission = "view_client_profiles"
	PermManageClients      Permission = "manage_clients"
	PermViewOwnClients     Permission = "view_own_clients"

	// Nutritionist permissions
	PermCreateNutritionPlans Permission = "create_nutrition_plans"

	// Admin permissions
	PermAssignRoles  Permission = "assign_roles"
	PermRemoveRoles  Permission = "remove_roles"
	PermViewAllUsers Permission = "view_all_users"
	PermDeleteUsers  Permission = "delete_users"
)

// PermissionSet is a set of permissions keyed by membership.
type PermissionSet map[Permission]struct{}

func newPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds p.
func (s PermissionSet) Contains(p Permission) bool {
	_, ok := s[p]
	return ok
}

var clientPermissions = newPermissionSet(
	PermViewOwnProfile,
	PermEditOwnProfile,
	PermViewOwnPlans,
)

var trainerPermissions = newPermissionSet(
	PermViewOwnProfile,
	PermEditOwnProfile,
	PermViewOwnPlans,
	PermCreateWorkoutPlans,
	PermViewClientProfiles,
	PermManageClients,
	PermViewOwnClients,
)

var nutritionistPermissions = newPermissionSet(
	PermViewOwnProfile,
	PermEditOwnProfile,
	PermViewOwnPlans,
	PermCreateNutritionPlans,
	PermViewClientProfiles,
	PermManageClients,
	PermViewOwnClients,
)

// Admins hold every permission.
var adminPermissions = newPermissionSet(
	PermViewOwnProfile,
	PermEditOwnProfile,
	PermViewOwnPlans,
	PermCreateWorkoutPlans,
	PermViewClientProfiles,
	PermManageClients,
	PermViewOwnClients,
	PermCreateNutritionPlans,
	PermAssignRoles,
	PermRemoveRoles,
	PermViewAllUsers,
	PermDeleteUsers,
)

// RolePermissions is the static mapping from each role to its permission set.
var RolePermissions = map[Role]PermissionSet{
	RoleClient:       clientPermissions,
	RoleTrainer:      trainerPermissions,
	RoleNutritionist: nutritionistPermissions,
	RoleAdmin:        adminPermissions,
}

// PermissionsForRoles unions the permission sets of all given roles.
// Unknown roles contribute nothing.
func PermissionsForRoles(roles []Role) PermissionSet {
	union := make(PermissionSet)
	for _, role := range roles {
		for p := range RolePermissions[role] {
			union[p] = struct{}{}
		}
	}
	return union
}

// HasPermission reports whether any of the user's roles grants the permission.
func (u *User) HasPermission(p Permission) bool {
	for _, role := range u.Roles {
		if RolePermissions[role].Contains(p) {
			return true
		}
	}
	return false
}
