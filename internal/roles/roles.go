// Package roles implements role-based permission checks.
//
// The permission table is static and total: every role the system uses has
// an entry. Checks are pure functions with no I/O, safe for concurrent use.
package roles

import (
	"github.com/sohayok/sohayok/internal/core"
)

// permissionTable maps each role to the capabilities it holds. admin holds
// the wildcard, which satisfies any check.
var permissionTable = map[core.Role][]core.Capability{
	core.RoleFriend: {
		core.CapAskQuestions,
		core.CapRequestHelp,
		core.CapEntertainment,
	},
	core.RoleStudent: {
		core.CapAskQuestions,
		core.CapRequestHelp,
		core.CapEntertainment,
	},
	core.RoleTeacher: {
		core.CapAskQuestions,
		core.CapRequestHelp,
		core.CapEntertainment,
		core.CapTakePhotos,
		core.CapStudentInfo,
		core.CapMovement,
	},
	core.RolePrincipal: {
		core.CapAskQuestions,
		core.CapRequestHelp,
		core.CapEntertainment,
		core.CapTakePhotos,
		core.CapStudentInfo,
		core.CapMovement,
		core.CapReports,
		core.CapSystemControl,
	},
	core.RoleAdmin: {
		core.CapAll,
	},
}

// requiredCapability maps intent kinds to the capability a caller must hold
// before the handler is invoked. Kinds absent from the map are ungated.
var requiredCapability = map[core.IntentKind]core.Capability{
	core.IntentQuestion:      core.CapAskQuestions,
	core.IntentSearch:        core.CapAskQuestions,
	core.IntentEntertainment: core.CapEntertainment,
	core.IntentCameraCapture: core.CapTakePhotos,
	core.IntentMovement:      core.CapMovement,
}

// Allowed reports whether the role holds the capability. Unknown roles hold
// nothing.
func Allowed(role core.Role, capability core.Capability) bool {
	caps, ok := permissionTable[role]
	if !ok {
		return false
	}
	for _, c := range caps {
		if c == core.CapAll || c == capability {
			return true
		}
	}
	return false
}

// Required returns the capability gating an intent kind, or "" when the kind
// is ungated.
func Required(kind core.IntentKind) core.Capability {
	return requiredCapability[kind]
}

// Known reports whether the role has a permission table entry.
func Known(role core.Role) bool {
	_, ok := permissionTable[role]
	return ok
}

// All returns the roles in the permission table.
func All() []core.Role {
	out := make([]core.Role, 0, len(permissionTable))
	for role := range permissionTable {
		out = append(out, role)
	}
	return out
}
