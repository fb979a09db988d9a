package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/config"
	"github.com/fixthevideo/studio-api/internal/middleware"
	"github.com/fixthevideo/studio-api/internal/repository"
	"github.com/fixthevideo/studio-api/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.  Customers and
// admins live in separate tables; the JWT role claim tells them apart.
type AuthHandler struct {
	Cfg       *config.Config
	Customers *repository.CustomerRepo
	Admins    *repository.AdminRepo
	Tokens    *repository.TokenRepo
}

func NewAuthHandler(cfg *config.Config, c *repository.CustomerRepo, a *repository.AdminRepo, t *repository.TokenRepo) *AuthHandler {
	if cfg == nil || c == nil || a == nil || t == nil {
		panic("auth handler: nil dependency")
	}
	return &AuthHandler{Cfg: cfg, Customers: c, Admins: a, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type accountPart struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
type authResp struct {
	Account accountPart `json:"account"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

// issuePair signs an access token and stores a fresh refresh token for
// the subject, returning both for the response body.
func (h *AuthHandler) issuePair(ctx context.Context, email, role string) (tokenPart, tokenPart, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, email, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	if err := h.Tokens.Store(ctx, email, role, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return tokenPart{}, tokenPart{}, err
	}
	return tokenPart{Token: access.Token, Expires: access.Exp},
		tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, nil // raw back to client
}

// Register creates a customer account and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/name/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	cust, err := h.Customers.Create(ctx, req.Email, strings.TrimSpace(req.Name), hash)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	access, refresh, err := h.issuePair(ctx, cust.Email, middleware.RoleCustomer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusCreated, authResp{
		Account: accountPart{Email: cust.Email, Name: cust.Name, Role: middleware.RoleCustomer},
		Access:  access,
		Refresh: refresh,
	})
}

// Login verifies a customer and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cust, err := h.Customers.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(cust.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, refresh, err := h.issuePair(ctx, cust.Email, middleware.RoleCustomer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		Account: accountPart{Email: cust.Email, Name: cust.Name, Role: middleware.RoleCustomer},
		Access:  access,
		Refresh: refresh,
	})
}

// AdminRegister creates an operator account.  The account stays
// unapproved until a super admin approves it, so it cannot log in yet.
func (h *AuthHandler) AdminRegister(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/name/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash failed"})
	}
	admin, err := h.Admins.Create(ctx, req.Email, strings.TrimSpace(req.Name), hash)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"email":    admin.Email,
		"name":     admin.Name,
		"approved": admin.IsApproved,
		"message":  "account created; awaiting approval",
	})
}

// AdminLogin verifies an operator account.  Unapproved accounts are
// rejected with 403 even when the password is correct.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	admin, err := h.Admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(admin.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !admin.IsApproved {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	access, refresh, err := h.issuePair(ctx, admin.Email, middleware.RoleAdmin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		Account: accountPart{Email: admin.Email, Name: admin.Name, Role: middleware.RoleAdmin},
		Access:  access,
		Refresh: refresh,
	})
}

// Refresh rotates a refresh token: the presented token is revoked and
// a fresh pair is issued for its subject.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash := utils.HashRefreshRaw(req.RefreshToken)
	tok, err := h.Tokens.Validate(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rotate failed"})
	}

	name := tok.Subject
	if tok.Role == middleware.RoleCustomer {
		if cust, err := h.Customers.GetByEmail(ctx, tok.Subject); err == nil {
			name = cust.Name
		}
	} else if admin, err := h.Admins.GetByEmail(ctx, tok.Subject); err == nil {
		name = admin.Name
	}

	access, refresh, err := h.issuePair(ctx, tok.Subject, tok.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue tokens failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		Account: accountPart{Email: tok.Subject, Name: name, Role: tok.Role},
		Access:  access,
		Refresh: refresh,
	})
}

// Logout revokes the presented refresh token.  Revoking an unknown
// token still answers 200 so clients can always clear local state.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated account's identity and profile.
func (h *AuthHandler) Me(c echo.Context) error {
	email := middleware.Subject(c)
	role, _ := c.Get("role").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch role {
	case middleware.RoleAdmin:
		admin, err := h.Admins.GetByEmail(ctx, email)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"email": admin.Email, "name": admin.Name,
			"role": role, "adminRole": admin.Role,
		})
	default:
		cust, err := h.Customers.GetByEmail(ctx, email)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"email": cust.Email, "name": cust.Name, "role": middleware.RoleCustomer,
		})
	}
}
