package handlers

import "coachhub/middleware"

// HandlerBundle groups the endpoint handlers wired into the router.
type HandlerBundle struct {
	Auth *middleware.Authenticator

	Users        *UserHandler
	Clients      *ClientHandler
	Plans        *PlanHandler
	Appointments *AppointmentHandler
	CheckIns     *CheckInHandler
	Analytics    *AnalyticsHandler
	Socket       *SocketHandler

	// MaxRequestsPerMin caps requests per client IP; zero uses the limiter's default.
	MaxRequestsPerMin int
}
