// internal/app/system/authz/roles.go
package authz

// Canonical role names. Exactly one role per user at a time; the set is
// fixed at compile time.
const (
	RoleSuperAdmin = "super_admin"
	RoleNGOAdmin   = "ngo_admin"
	RoleNGOManager = "ngo_manager"
	RoleVolunteer  = "volunteer"
	RoleDonor      = "donor"
	RoleCitizen    = "citizen"
	RolePublic     = "public"
)

// Module names used as the unit of permission granularity. The module set
// is open: an unknown module key yields "no access" rather than an error.
const (
	ModuleNGOs          = "ngos"
	ModulePrograms      = "programs"
	ModuleDonations     = "donations"
	ModuleVolunteers    = "volunteers"
	ModuleGrants        = "grants"
	ModuleCertificates  = "certificates"
	ModuleEmergency     = "emergency"
	ModuleAnnouncements = "announcements"
	ModuleNotifications = "notifications"
	ModuleContent       = "content"
	ModuleUsers         = "users"
	ModuleManagers      = "managers"
	ModuleDashboard     = "dashboard"
)

// Common action verbs. Domain-specific verbs (disburse, approve, respond,
// verify, assign, ...) are plain strings established per route.
const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Wildcard grants every action on a module (or, in a user's delegated
// permission list, every permission outright).
const Wildcard = "*"

// RoleInfo describes a role's place in the hierarchy: a numeric level for
// coarse minimum-level gating, and its delegation rights. The hierarchy is
// independent of the permission table.
type RoleInfo struct {
	Level            int
	CanDelegate      bool
	DelegatableRoles []string
}

// Hierarchy is the single canonical role hierarchy, populated at compile
// time and never mutated.
var Hierarchy = map[string]RoleInfo{
	RoleSuperAdmin: {Level: 100, CanDelegate: true, DelegatableRoles: []string{RoleNGOAdmin, RoleNGOManager}},
	RoleNGOAdmin:   {Level: 50, CanDelegate: true, DelegatableRoles: []string{RoleNGOManager}},
	RoleNGOManager: {Level: 30},
	RoleVolunteer:  {Level: 20},
	RoleDonor:      {Level: 10},
	RoleCitizen:    {Level: 5},
	RolePublic:     {Level: 0},
}

// permissions is the single canonical permission table:
// role → module → allowed actions. Built once at startup, read-only after.
var permissions = map[string]map[string][]string{
	RoleSuperAdmin: {
		ModuleNGOs:          {Wildcard},
		ModulePrograms:      {Wildcard},
		ModuleDonations:     {Wildcard},
		ModuleVolunteers:    {Wildcard},
		ModuleGrants:        {Wildcard},
		ModuleCertificates:  {Wildcard},
		ModuleEmergency:     {Wildcard},
		ModuleAnnouncements: {Wildcard},
		ModuleNotifications: {Wildcard},
		ModuleContent:       {Wildcard},
		ModuleUsers:         {Wildcard},
		ModuleManagers:      {Wildcard},
		ModuleDashboard:     {Wildcard},
	},
	RoleNGOAdmin: {
		ModuleNGOs:          {ActionRead, ActionUpdate},
		ModulePrograms:      {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ModuleDonations:     {ActionRead},
		ModuleVolunteers:    {ActionRead, "approve", "reject"},
		ModuleGrants:        {ActionCreate, ActionRead},
		ModuleCertificates:  {ActionCreate, ActionRead},
		ModuleEmergency:     {ActionRead, "respond", "resolve"},
		ModuleAnnouncements: {ActionCreate, ActionRead, ActionUpdate, "submit"},
		ModuleNotifications: {ActionRead, ActionUpdate},
		ModuleContent:       {ActionRead, ActionUpdate},
		ModuleManagers:      {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
		ModuleDashboard:     {ActionRead},
	},
	RoleNGOManager: {
		ModuleNGOs:          {ActionRead},
		ModulePrograms:      {ActionRead},
		ModuleDonations:     {ActionRead},
		ModuleVolunteers:    {ActionRead},
		ModuleCertificates:  {ActionRead},
		ModuleEmergency:     {ActionRead},
		ModuleAnnouncements: {ActionRead},
		ModuleNotifications: {ActionRead, ActionUpdate},
		ModuleDashboard:     {ActionRead},
	},
	RoleVolunteer: {
		ModulePrograms:      {ActionRead},
		ModuleVolunteers:    {ActionCreate, ActionRead, "withdraw", "log_hours"},
		ModuleCertificates:  {ActionRead},
		ModuleAnnouncements: {ActionRead},
		ModuleNotifications: {ActionRead, ActionUpdate},
		ModuleDashboard:     {ActionRead},
	},
	RoleDonor: {
		ModulePrograms:      {ActionRead},
		ModuleDonations:     {ActionCreate, ActionRead},
		ModuleCertificates:  {ActionRead},
		ModuleAnnouncements: {ActionRead},
		ModuleNotifications: {ActionRead, ActionUpdate},
		ModuleDashboard:     {ActionRead},
	},
	RoleCitizen: {
		ModulePrograms:      {ActionRead},
		ModuleEmergency:     {ActionCreate, ActionRead},
		ModuleAnnouncements: {ActionRead},
		ModuleNotifications: {ActionRead, ActionUpdate},
	},
	RolePublic: {
		ModulePrograms:      {ActionRead},
		ModuleAnnouncements: {ActionRead},
		ModuleCertificates:  {ActionRead},
	},
}
