// Package authz implements the role/permission model: a static table
// mapping each role to module→action grants, a numeric role hierarchy for
// coarse minimum-level gating, and delegation rules for NGO admins
// granting permissions to manager accounts.
//
// All checks are pure functions of (role, module, action, optional per-user
// permission list): no hidden state, no I/O, safe to call on every request.
// Unknown roles and modules fail closed.
package authz

import "strings"

// CheckPermission reports whether a role may perform action on module.
//
// The check passes when any of the following holds:
//   - userPerms contains the wildcard "*" (legacy superadmin shortcut)
//   - userPerms contains the action itself (delegated grant, independent
//     of the role table)
//   - the role's table grants the action, or the wildcard, for the module
//
// Any combination not explicitly present returns false. It never panics or
// errors for unknown input.
func CheckPermission(role, module, action string, userPerms []string) bool {
	for _, p := range userPerms {
		if p == Wildcard || p == action {
			return true
		}
	}

	mods, ok := permissions[normalize(role)]
	if !ok {
		return false
	}
	actions, ok := mods[module]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == Wildcard || a == action {
			return true
		}
	}
	return false
}

// RoleLevel returns the hierarchy level for a role. Unknown roles get -1 so
// they fail every non-negative threshold.
func RoleLevel(role string) int {
	info, ok := Hierarchy[normalize(role)]
	if !ok {
		return -1
	}
	return info.Level
}

// HasMinLevel reports whether the role's level meets the threshold.
func HasMinLevel(role string, threshold int) bool {
	return RoleLevel(role) >= threshold
}

// CanDelegateToRole reports whether fromRole may delegate permissions to
// toRole: the delegator must have CanDelegate set and the target role must
// appear in its delegatable list.
func CanDelegateToRole(fromRole, toRole string) bool {
	info, ok := Hierarchy[normalize(fromRole)]
	if !ok || !info.CanDelegate {
		return false
	}
	to := normalize(toRole)
	for _, r := range info.DelegatableRoles {
		if r == to {
			return true
		}
	}
	return false
}

// RoleHasAction reports whether the role's table grants the action on at
// least one module. Used to keep a delegated permission set a subset of
// what the delegator itself holds.
func RoleHasAction(role, action string) bool {
	mods, ok := permissions[normalize(role)]
	if !ok {
		return false
	}
	for _, actions := range mods {
		for _, a := range actions {
			if a == Wildcard || a == action {
				return true
			}
		}
	}
	return false
}

// ValidateDelegation checks a proposed delegated permission set against the
// delegator's own grants. It returns the first permission the delegator
// does not hold, or "" when the whole set is delegable.
func ValidateDelegation(delegatorRole string, delegatorPerms, grant []string) string {
	for _, p := range grant {
		if p == Wildcard {
			// Only a wildcard holder can hand out the wildcard.
			if !containsWildcard(delegatorPerms) && normalize(delegatorRole) != RoleSuperAdmin {
				return p
			}
			continue
		}
		if RoleHasAction(delegatorRole, p) {
			continue
		}
		held := false
		for _, own := range delegatorPerms {
			if own == Wildcard || own == p {
				held = true
				break
			}
		}
		if !held {
			return p
		}
	}
	return ""
}

func containsWildcard(perms []string) bool {
	for _, p := range perms {
		if p == Wildcard {
			return true
		}
	}
	return false
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
