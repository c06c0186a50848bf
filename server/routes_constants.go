package server

const (
	RouteLogin    = "/auth/login"
	RouteLogout   = "/auth/logout"
	RouteSession  = "/auth/session"
	RouteRegister = "/auth/register"
)
