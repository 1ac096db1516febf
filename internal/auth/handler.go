// bytesByHarsh | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bytesByHarsh/go-backend-template/internal/config"
	"github.com/bytesByHarsh/go-backend-template/internal/core"
	"github.com/bytesByHarsh/go-backend-template/internal/middleware"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type Handler struct {
	service *Service
	cookies config.JWTConfig
}

func NewHandler(service *Service, cfg config.JWTConfig) *Handler {
	return &Handler{
		service: service,
		cookies: cfg,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/logout", h.Logout)
		})
	})
}

// Login authenticates form credentials and establishes the session: both
// tokens become cookies and the access token is also returned in the body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		core.BadRequest(w, "invalid form body")
		return
	}

	identifier := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if identifier == "" || password == "" {
		core.BadRequest(w, "username and password are required")
		return
	}

	tokens, err := h.service.Login(r.Context(), identifier, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(
				w,
				core.UnauthorizedError("Wrong username, email or password."),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.setSessionCookie(w, accessTokenCookie, tokens.AccessToken)
	h.setSessionCookie(w, refreshTokenCookie, tokens.RefreshToken)

	core.OK(w, TokenResponse{
		AccessToken: tokens.AccessToken,
		TokenType:   "bearer",
	})
}

// Refresh reads the refresh token from its cookie and mints a new access
// token. The refresh cookie is left untouched; there is no rotation.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		core.JSONError(w, core.UnauthorizedError("Refresh token missing."))
		return
	}

	tokens, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if isTokenError(err) {
			core.JSONError(
				w,
				core.UnauthorizedError("Invalid refresh token."),
			)
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, TokenResponse{
		AccessToken: tokens.AccessToken,
		TokenType:   "bearer",
	})
}

// Logout blacklists the presented access token and tears down both session
// cookies. The route sits behind the authenticator, so the token has already
// passed full verification by the time it is revoked.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	raw := middleware.ExtractToken(r)
	if raw == "" {
		core.JSONError(w, core.UnauthorizedError("Invalid token."))
		return
	}

	if err := h.service.Logout(r.Context(), raw); err != nil {
		if isTokenError(err) {
			core.JSONError(w, core.UnauthorizedError("Invalid token."))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.clearSessionCookie(w, accessTokenCookie)
	h.clearSessionCookie(w, refreshTokenCookie)

	core.OK(w, MessageResponse{Message: "Logged out successfully"})
}

func (h *Handler) setSessionCookie(
	w http.ResponseWriter,
	name, value string,
) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.CookieDomain,
		MaxAge:   h.cookies.CookieMaxAge,
		Secure:   h.cookies.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookies.CookieDomain,
		MaxAge:   -1,
		Secure:   h.cookies.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func isTokenError(err error) bool {
	return errors.Is(err, core.ErrTokenExpired) ||
		errors.Is(err, core.ErrTokenRevoked) ||
		errors.Is(err, core.ErrTokenInvalid)
}
