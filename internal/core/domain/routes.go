package domain

// Well-known navigation targets.
const (
	RouteRoot           = "/"
	RouteEquipment      = "/equipment"
	RouteAdminDashboard = "/admin/dashboard"
	AdminRoutePrefix    = "/admin"
)
