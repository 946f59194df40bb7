package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/cors"

	"github.com/shubham03062002/ChillScreen-Backend/internal/domain"
	"github.com/shubham03062002/ChillScreen-Backend/internal/repository"
	"github.com/shubham03062002/ChillScreen-Backend/internal/service/auth"
	"github.com/shubham03062002/ChillScreen-Backend/internal/service/lists"
	"github.com/shubham03062002/ChillScreen-Backend/internal/service/profile"
	"github.com/shubham03062002/ChillScreen-Backend/pkg/config"
)

// basePath prefixes every user-facing route.
const basePath = "/api/v1/user"

const healthCheckTimeout = 2 * time.Second

// Router wires HTTP endpoints to services. The CORS allow-list wraps the
// whole mux, so origin policy applies before any handler runs.
type Router struct {
	mux      *http.ServeMux
	handler  http.Handler
	logger   *slog.Logger
	auth     auth.Service
	lists    lists.Service
	profile  profile.Service
	cfg      config.APIConfig
	dbHealth func(context.Context) error
}

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, listsSvc lists.Service, profileSvc profile.Service, cfg config.APIConfig, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		logger:   logger,
		auth:     authSvc,
		lists:    listsSvc,
		profile:  profileSvc,
		cfg:      cfg,
		dbHealth: dbHealth,
	}
	r.register()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.handler = corsHandler.Handler(r.mux)
	return r
}

// ServeHTTP delegates to the CORS-wrapped mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/", r.audit(r.handleRoot))
	r.mux.HandleFunc("/healthz", r.audit(r.handleHealthz))
	r.mux.HandleFunc(basePath+"/register", r.audit(r.handleRegister))
	r.mux.HandleFunc(basePath+"/login", r.audit(r.handleLogin))
	r.mux.HandleFunc(basePath+"/addtofav", r.audit(r.requireAuth(r.handleAddItem(domain.Favourites))))
	r.mux.HandleFunc(basePath+"/addtowatch", r.audit(r.requireAuth(r.handleAddItem(domain.Watchlist))))
	r.mux.HandleFunc(basePath+"/rmfav", r.audit(r.requireAuth(r.handleRemoveItem(domain.Favourites))))
	r.mux.HandleFunc(basePath+"/rmwatch", r.audit(r.requireAuth(r.handleRemoveItem(domain.Watchlist))))
	r.mux.HandleFunc(basePath+"/getfav", r.audit(r.requireAuth(r.handleGetList(domain.Favourites))))
	r.mux.HandleFunc(basePath+"/getwatch", r.audit(r.requireAuth(r.handleGetList(domain.Watchlist))))
	r.mux.HandleFunc(basePath+"/getuser", r.audit(r.requireAuth(r.handleGetUser)))
}

func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		r.notFound(w)
		return
	}
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "API is running...")
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Name     string `json:"name"`
		Surname  string `json:"surname"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	err := r.auth.Register(req.Context(), auth.RegisterInput{
		Name:     payload.Name,
		Surname:  payload.Surname,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
	})
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		writeMessage(w, http.StatusBadRequest, "All fields are required")
	case errors.Is(err, auth.ErrUserExists):
		writeMessage(w, http.StatusBadRequest, "User already exists")
	case err != nil:
		writeMessage(w, http.StatusInternalServerError, err.Error())
	default:
		writeMessage(w, http.StatusCreated, "Signup successful")
	}
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
	case err != nil:
		writeMessage(w, http.StatusInternalServerError, err.Error())
	default:
		// Cookie-only transport: the body never carries the token.
		r.setSessionCookie(w, token)
		writeMessage(w, http.StatusOK, "Login successful")
	}
}

func (r *Router) handleAddItem(list domain.ListName) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPut {
			r.methodNotAllowed(w)
			return
		}
		userID, ok := userIDFromContext(req.Context())
		if !ok {
			r.authContextMissing(w, req)
			return
		}
		body, err := io.ReadAll(req.Body)
		if err != nil || !json.Valid(bytes.TrimSpace(body)) {
			writeMessage(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := r.lists.Add(req.Context(), userID, list, json.RawMessage(bytes.TrimSpace(body)))
		switch {
		case errors.Is(err, lists.ErrMissingItemID):
			writeMessage(w, http.StatusBadRequest, "Movie ID is required")
		case errors.Is(err, repository.ErrDuplicateItem):
			writeMessage(w, http.StatusBadRequest, "Already in "+string(list))
		case errors.Is(err, repository.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		case err != nil:
			writeMessage(w, http.StatusInternalServerError, err.Error())
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"message":    "Added to " + string(list),
				string(list): updated,
			})
		}
	}
}

func (r *Router) handleRemoveItem(list domain.ListName) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPut {
			r.methodNotAllowed(w)
			return
		}
		userID, ok := userIDFromContext(req.Context())
		if !ok {
			r.authContextMissing(w, req)
			return
		}
		var payload struct {
			ID any `json:"id"`
		}
		dec := json.NewDecoder(req.Body)
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := r.lists.Remove(req.Context(), userID, list, payload.ID)
		switch {
		case errors.Is(err, lists.ErrMissingItemID):
			writeMessage(w, http.StatusBadRequest, "Movie ID is required")
		case errors.Is(err, repository.ErrItemNotFound):
			writeMessage(w, http.StatusNotFound, "Movie not found in "+string(list))
		case errors.Is(err, repository.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		case err != nil:
			writeMessage(w, http.StatusInternalServerError, err.Error())
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"message":    "Removed from " + string(list),
				string(list): updated,
			})
		}
	}
}

func (r *Router) handleGetList(list domain.ListName) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			r.methodNotAllowed(w)
			return
		}
		userID, ok := userIDFromContext(req.Context())
		if !ok {
			r.authContextMissing(w, req)
			return
		}
		items, err := r.lists.Get(req.Context(), userID, list)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (r *Router) handleGetUser(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	userID, ok := userIDFromContext(req.Context())
	if !ok {
		r.authContextMissing(w, req)
		return
	}
	projection, err := r.profile.Get(req.Context(), userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case err != nil:
		writeMessage(w, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, http.StatusOK, projection)
	}
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{"status": "down", "error": err.Error()}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// setSessionCookie delivers the session token. SameSite=None allows the
// cross-site frontend to send it back; Secure is flipped on in production.
func (r *Router) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     r.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.cfg.Production(),
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(r.cfg.SessionTTL / time.Second),
	})
}

// authContextMissing fires only if a guarded handler is reached without the
// middleware having resolved an identity, which is a wiring bug.
func (r *Router) authContextMissing(w http.ResponseWriter, req *http.Request) {
	r.logger.Error("auth context missing", "path", req.URL.Path)
	writeMessage(w, http.StatusInternalServerError, "authorization context missing")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeMessage(w, http.StatusNotFound, "not found")
}

// audit logs one line per request with status and timing.
func (r *Router) audit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		r.logger.Info("http request", fields...)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func clientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
