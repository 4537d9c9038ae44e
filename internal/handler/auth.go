package handler

import (
    "context"      // provides context with cancellation for DB calls
    "database/sql" // SQL database interactions
    "net/http"     // HTTP status codes and primitives
    "strings"      // string manipulation utilities
    "time"         // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/movie-ticket-platform/internal/config"     // app configuration
    "github.com/iliyamo/movie-ticket-platform/internal/repository" // DB repositories
    "github.com/iliyamo/movie-ticket-platform/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg       config.Config
    Customers *repository.CustomerRepo
    Blacklist *repository.BlacklistRepo
}

func NewAuthHandler(cfg config.Config, customers *repository.CustomerRepo, blacklist *repository.BlacklistRepo) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Customers: customers, Blacklist: blacklist}
}

// ----- DTOs -----

type registerReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
    FullName string `json:"full_name"`
    Phone    string `json:"phone"`
}
type loginReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type customerPart struct {
    ID       uint64 `json:"id"`
    Email    string `json:"email"`
    FullName string `json:"full_name"`
}
type authResp struct {
    Customer customerPart `json:"customer"`
    Access   tokenPart    `json:"access"`
}

// Register creates a customer account and returns a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    if req.Email == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cid, err := h.Customers.Create(ctx, req.Email, req.Password, strings.TrimSpace(req.FullName), strings.TrimSpace(req.Phone), h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrEmailExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create customer failed"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, cid, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }

    return c.JSON(http.StatusCreated, authResp{
        Customer: customerPart{ID: cid, Email: req.Email, FullName: strings.TrimSpace(req.FullName)},
        Access:   tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Login verifies credentials and returns a fresh token.
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
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if !utils.VerifyPassword(cust.PasswordHash, req.Password) {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
    }

    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, cust.ID, h.Cfg.AccessTTLMin)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
    }

    return c.JSON(http.StatusOK, authResp{
        Customer: customerPart{ID: cust.ID, Email: cust.Email, FullName: cust.FullName},
        Access:   tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Logout blacklists the presented token's JTI for the remainder of its
// lifetime so it can no longer be used even though the signature stays
// valid.  Requires JWTAuth middleware.
func (h *AuthHandler) Logout(c echo.Context) error {
    jti, _ := c.Get("jti").(string)
    exp, _ := c.Get("token_exp").(time.Time)
    if jti != "" && h.Blacklist != nil {
        if err := h.Blacklist.Revoke(c.Request().Context(), jti, time.Until(exp)); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated customer's profile.
func (h *AuthHandler) Me(c echo.Context) error {
    cid, err := getCustomerID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cust, err := h.Customers.GetByID(ctx, cid)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":        cust.ID,
        "email":     cust.Email,
        "full_name": cust.FullName,
        "phone":     cust.Phone,
    })
}
