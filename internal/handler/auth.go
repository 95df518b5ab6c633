package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/railway-reservation/internal/config"
	"github.com/iliyamo/railway-reservation/internal/model"
	"github.com/iliyamo/railway-reservation/internal/otp"
	"github.com/iliyamo/railway-reservation/internal/repository"
	"github.com/iliyamo/railway-reservation/internal/utils"
)

// UserStore is the slice of user persistence the auth endpoints need.
// *repository.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error)
	CreateWithPhone(ctx context.Context, name, phone, role string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByPhone(ctx context.Context, phone string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AuthHandler bundles dependencies for registration, login and phone OTP
// verification. Phone is nil when the verification provider is not
// configured; the OTP endpoints then report 500.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
	Phone otp.Verifier
}

func NewAuthHandler(cfg config.Config, users UserStore, phone otp.Verifier) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Phone: phone}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpReq struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

// Register creates a passenger account. The password is stored only as a
// bcrypt hash. A duplicate email yields 409 and no second user row.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	for _, f := range []struct{ name, value string }{
		{"name", req.Name}, {"email", req.Email}, {"password", req.Password},
	} {
		if strings.TrimSpace(f.value) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required field: " + f.name})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, strings.TrimSpace(req.Name), req.Email, req.Password, "passenger", h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "User with this email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, "passenger", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user_id": uid,
		"access":  access,
	})
}

// Login verifies email/password and returns the user's identity plus an
// access token. Unknown email and wrong password are indistinguishable.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user_id": u.ID,
		"name":    u.Name,
		"role":    u.Role,
		"access":  access,
	})
}

// UserByEmail resolves an email to a user id (frontend helper).
func (h *AuthHandler) UserByEmail(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": u.ID})
}

// SendOTP asks the verification provider to deliver a code to the phone.
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req otpReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Phone) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Phone number required for OTP"})
	}
	if h.Phone == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Verification service not configured"})
	}

	status, err := h.Phone.SendCode(c.Request().Context(), strings.TrimSpace(req.Phone))
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to send OTP"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "OTP sent to phone number",
		"status":  status,
	})
}

// VerifyOTP checks the code with the provider. An approved check logs the
// passenger in, creating the account on first verification.
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req otpReq
	if err := c.Bind(&req); err != nil || req.Phone == "" || req.OTP == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Phone number and OTP required"})
	}
	if h.Phone == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Verification service not configured"})
	}

	approved, err := h.Phone.CheckCode(c.Request().Context(), req.Phone, req.OTP)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "Failed to verify OTP"})
	}
	if !approved {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid OTP"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	u, err := h.Users.GetByPhone(ctx, req.Phone)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		uid, err := h.Users.CreateWithPhone(ctx, "Passenger", req.Phone, "passenger")
		switch {
		case errors.Is(err, repository.ErrPhoneExists):
			// Lost a race with a concurrent verification; the account exists now.
			if u, err = h.Users.GetByPhone(ctx, req.Phone); err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
			}
		case err != nil:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		default:
			u = model.User{ID: uid, Role: "passenger"}
		}
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Phone number verified successfully",
		"user_id": u.ID,
		"role":    u.Role,
		"access":  access,
	})
}

// Me echoes the authenticated identity extracted by the JWT middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"role":    c.Get("role"),
	})
}
