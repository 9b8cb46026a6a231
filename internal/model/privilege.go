package model

// Privilege codes carried in the access token. Accounts and role
// assignment are managed by the identity service.
const (
	PrivilegeProductionView     = "production:view"
	PrivilegeProductionCreate   = "production:create"
	PrivilegeProductionExecute  = "production:execute"
	PrivilegeProductionComplete = "production:complete"
)

// ProductionPrivileges lists every code this service checks.
var ProductionPrivileges = []string{
	PrivilegeProductionView,
	PrivilegeProductionCreate,
	PrivilegeProductionExecute,
	PrivilegeProductionComplete,
}
