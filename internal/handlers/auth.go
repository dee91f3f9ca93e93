package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	applog "mealplanner/internal/log"
	"mealplanner/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionUserIDKey        = "auth:user:id"
	sessionUserEmailKey     = "auth:user:email"
	sessionUserNameKey      = "auth:user:name"
)

var (
	errInvalidCredentials = errors.New("invalid email or password")
	errNoSessionUser      = errors.New("authentication required")
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID             uint   `json:"_id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	UnitPreference string `json:"unit_preference"`
	PrimaryDiet    string `json:"primary_diet"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		UnitPreference: string(user.Preference()),
		PrimaryDiet:    user.PrimaryDiet,
	}
}

// Login verifies JSON credentials and starts an authenticated session.
func Login(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling login request", "method", r.Method)

	if sessionManager == nil || users == nil {
		applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasUsers", users != nil)
		writeJSONError(w, r, http.StatusServiceUnavailable, "authentication not available")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		applog.Debug(r.Context(), "failed to decode login request", "error", err)
		writeJSONError(w, r, http.StatusBadRequest, "invalid login request")
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		writeJSONError(w, r, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := authenticate(r, email, req.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			applog.Debug(r.Context(), "authentication failed", "email", strings.ToLower(email))
			writeJSONError(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		applog.Error(r.Context(), "failed to authenticate user", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "unable to sign in")
		return
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session", "error", err)
		writeJSONError(w, r, http.StatusInternalServerError, "unable to sign in")
		return
	}

	applog.Info(r.Context(), "user signed in", "user_id", user.ID)
	writeJSON(w, r, http.StatusOK, newUserResponse(user))
}

func authenticate(r *http.Request, email, password string) (*models.User, error) {
	user, err := users.FindUserByEmail(r.Context(), email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return user, nil
}

func establishSession(r *http.Request, user *models.User) error {
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}
	if err := sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionAuthenticatedKey, true)
	sessionManager.Put(r.Context(), sessionUserIDKey, int(user.ID))
	sessionManager.Put(r.Context(), sessionUserEmailKey, user.Email)
	sessionManager.Put(r.Context(), sessionUserNameKey, user.Name)
	return nil
}

// RequireAuthentication rejects requests without an active session.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			applog.Debug(r.Context(), "unauthenticated request rejected", "path", r.URL.Path)
			writeJSONError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logout destroys the current session.
func Logout(w http.ResponseWriter, r *http.Request) {
	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
			writeJSONError(w, r, http.StatusInternalServerError, "unable to sign out")
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionAuthenticatedKey) && sessionManager.GetInt(r.Context(), sessionUserIDKey) > 0
}

func currentUserID(r *http.Request) (uint, bool) {
	if sessionManager == nil {
		return 0, false
	}
	id := sessionManager.GetInt(r.Context(), sessionUserIDKey)
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// currentUser reloads the session user so preference changes apply
// without signing in again.
func currentUser(r *http.Request) (*models.User, error) {
	id, ok := currentUserID(r)
	if !ok {
		return nil, errNoSessionUser
	}
	user, err := users.GetUser(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errNoSessionUser
	}
	return user, nil
}
