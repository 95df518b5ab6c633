// Package router wires the HTTP surface. Registration is split by concern
// so main can hand each group the handler and middleware it needs.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/handler"
	"github.com/iliyamo/railway-reservation/internal/middleware"
)

// RegisterHealth exposes the liveness probe.
func RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires registration, login and phone OTP verification.
// otpLimit is the rate limiter applied to the OTP endpoints; the protected
// /api/users/me route demonstrates the issued access tokens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, otpLimit echo.MiddlewareFunc) {
	users := e.Group("/api/users")
	users.POST("/register", a.Register)
	users.POST("/login", a.Login)
	users.GET("/by_email", a.UserByEmail)

	passenger := e.Group("/api/passenger", otpLimit)
	passenger.POST("/send_otp", a.SendOTP)
	passenger.POST("/verify_otp", a.VerifyOTP)

	me := e.Group("/api/users/me")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.Use(middleware.RequireRole("passenger", "admin"))
	me.GET("", a.Me)
}

// RegisterTrains wires train listings (response-cached), the admin create
// route and live tracking.
func RegisterTrains(e *echo.Echo, t *handler.TrainHandler, tr *handler.TrackingHandler, cache echo.MiddlewareFunc) {
	e.GET("/api/trains", t.List, cache)
	e.GET("/api/trains/:train_id", t.Get, cache)
	e.POST("/api/admin/trains", t.Create)
	e.GET("/api/tracking/:train_id", tr.Get)
}

// RegisterCoaches wires coach listing/creation and seat-map reads/writes.
func RegisterCoaches(e *echo.Echo, s *handler.SeatMapHandler) {
	e.GET("/api/trains/:train_id/coaches", s.ListCoaches)
	e.POST("/api/trains/:train_id/coaches", s.CreateCoach)
	e.GET("/api/trains/:train_id/coaches/:coach_number/seatmap", s.GetSeatMap)
	e.POST("/api/trains/:train_id/coaches/:coach_number/seatmap", s.UpdateSeatMap)
}

// RegisterBookings wires the booking lifecycle: create, single-seat lock,
// cancel, per-user and admin listings, and the destructive wipe.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler) {
	e.POST("/api/bookings", b.Create)
	e.POST("/api/bookings/lock", b.Lock)
	e.GET("/api/bookings/all", b.ListAll)
	e.GET("/api/bookings/:user_id", b.ListByUser)
	e.POST("/api/bookings/:booking_id/cancel", b.Cancel)
	e.POST("/api/admin/bookings/clear", b.Clear)
}

// RegisterQuotas wires the quota ledger.
func RegisterQuotas(e *echo.Echo, q *handler.QuotaHandler) {
	e.GET("/api/quotas/:train_id/:coach_number", q.Get)
	e.POST("/api/quotas/:train_id/:coach_number", q.Update)
}

// RegisterLive wires coach positions and alerts.
func RegisterLive(e *echo.Echo, p *handler.PositionHandler, a *handler.AlertHandler) {
	e.GET("/api/coach_positions/:train_id", p.Get)
	e.POST("/api/coach_positions/:train_id/:coach_number", p.Update)

	e.POST("/api/alerts/route_deviation", a.CreateRouteDeviation)
	e.POST("/api/admin/alerts", a.CreateAdmin)
	e.GET("/api/alerts", a.List)
	e.GET("/api/alerts/:train_id", a.ListByTrain)
}
