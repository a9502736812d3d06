// Package devauth is a local stand-in for the auth and data hosts. It issues real
// JWT pairs, rotates refresh tokens and guards a couple of sample data routes,
// so the proxy can be exercised end to end without the production backends.
package devauth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vitistack/authproxy/pkg/auth"
	"github.com/vitistack/authproxy/pkg/auth/jwt"
	"github.com/vitistack/authproxy/pkg/persistence/store/memory"
	"github.com/vitistack/authproxy/pkg/rest/middleware"
	"github.com/vitistack/authproxy/pkg/rest/request"
	"github.com/vitistack/authproxy/pkg/rest/response"
)

type Server struct {
	issuer   *jwt.TokenIssuer
	users    *UserRepo
	sessions *sessions
	logger   *slog.Logger
}

type credentialsBody struct {
	User     string   `json:"user"`
	Password string   `json:"password"`
	Role     jwt.Role `json:"role,omitempty"`
}

func NewServer(secret []byte, opts ...serverOption) (*Server, error) {
	cfg := defaultServerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	users, err := NewUserRepo(memory.NewStore[User](), cfg.passwordCost)
	if err != nil {
		return nil, err
	}

	issuer := jwt.NewTokenIssuer(secret)

	return &Server{
		issuer: issuer,
		users:  users,
		sessions: &sessions{
			store:      memory.NewStore[session](),
			issuer:     issuer,
			accessTTL:  cfg.accessTTL,
			refreshTTL: cfg.refreshTTL,
			now:        cfg.now,
		},
		logger: cfg.logger,
	}, nil
}

// Users exposes the account repository, for seeding.
func (s *Server) Users() *UserRepo {
	return s.users
}

func (s *Server) Handler() http.Handler {
	logged := middleware.Chain(
		middleware.WithRequestID(),
		middleware.WithIncomingRequestLogging(s.logger),
	)
	withAccess := middleware.Chain(
		logged,
		auth.WithTokenValidation(s.issuer, jwt.AccessToken, s.logger),
		s.requireSession,
	)

	mux := http.NewServeMux()
	mux.HandleFunc(POST_LOGIN, logged(s.login))
	mux.HandleFunc(POST_REGISTER, logged(s.register))
	mux.HandleFunc(POST_REFRESH, logged(s.refresh))
	mux.HandleFunc(POST_LOGOUT, withAccess(s.logout))
	mux.HandleFunc(GET_ME, withAccess(s.me))
	mux.HandleFunc(GET_ITEMS, withAccess(s.items))
	return mux
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := request.JSONDECODE(r.Body, &body); err != nil {
		response.Err(w, response.ErrInvalidInput, "unable to parse credentials")
		return
	}

	user, err := s.users.Authenticate(body.User, body.Password)
	if err != nil {
		s.logger.Debug("login rejected", slog.String("user", body.User))
		response.JSON(w, http.StatusUnauthorized, jwt.Errors[jwt.ErrUnAuthorized])
		return
	}

	pair, err := s.sessions.open(user)
	if err != nil {
		s.logger.Error("unable to open session", slog.String("reason", err.Error()))
		response.Err(w, response.ErrInternalError, "")
		return
	}

	s.logger.Info("user logged in", slog.String("user", user.Name))
	response.JSON(w, http.StatusOK, struct {
		tokenPair
		User User `json:"user"`
	}{pair, user})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := request.JSONDECODE(r.Body, &body); err != nil {
		response.Err(w, response.ErrInvalidInput, "unable to parse registration")
		return
	}

	switch body.Role {
	case "", jwt.USER, jwt.ADMIN:
	default:
		response.Err(w, response.ErrInvalidInput, "unknown role: "+string(body.Role))
		return
	}

	user, err := s.users.Register(body.User, body.Password, body.Role)
	switch {
	case errors.Is(err, ErrInvalidUser):
		response.Err(w, response.ErrInvalidInput, err.Error())
		return
	case errors.Is(err, ErrUserExists):
		response.Err(w, response.ErrConflict, err.Error())
		return
	case err != nil:
		s.logger.Error("unable to register user", slog.String("reason", err.Error()))
		response.Err(w, response.ErrInternalError, "")
		return
	}

	s.logger.Info("user registered", slog.String("user", user.Name), slog.String("role", string(user.Role)))
	response.JSON(w, http.StatusCreated, map[string]User{"user": user})
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := auth.BearerToken(r)
	if !ok {
		response.JSON(w, http.StatusUnauthorized, jwt.Errors[jwt.ErrUnAuthorized])
		return
	}

	claims, err := s.issuer.Verify(token, jwt.RefreshToken)
	if err != nil {
		s.logger.Debug("refresh rejected", slog.String("reason", err.Error()))
		response.JSON(w, http.StatusUnauthorized, jwt.Errors[jwt.ErrUnAuthorized])
		return
	}

	pair, err := s.sessions.rotate(claims)
	if errors.Is(err, ErrSessionRevoked) {
		response.JSON(w, http.StatusForbidden, jwt.Errors[jwt.ErrForbidden])
		return
	}
	if err != nil {
		s.logger.Error("unable to rotate session", slog.String("reason", err.Error()))
		response.Err(w, response.ErrInternalError, "")
		return
	}

	s.logger.Debug("session rotated", slog.String("user", claims.Subject))
	response.JSON(w, http.StatusCreated, pair)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	if err := s.sessions.close(claims.ID); err != nil {
		s.logger.Error("unable to close session", slog.String("reason", err.Error()))
		response.Err(w, response.ErrInternalError, "")
		return
	}

	s.logger.Info("user logged out", slog.String("user", claims.Subject))
	response.JSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())
	response.JSON(w, http.StatusOK, User{Name: claims.Subject, Role: claims.Role})
}

func (s *Server) items(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	items := []string{"report-q1", "report-q2"}
	if claims.Role == jwt.ADMIN {
		items = append(items, "audit-log")
	}
	response.JSON(w, http.StatusOK, map[string][]string{"items": items})
}

// requireSession rejects access tokens whose session was closed or rotated away.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok || !s.sessions.active(claims.ID) {
			response.JSON(w, http.StatusUnauthorized, jwt.Errors[jwt.ErrUnAuthorized])
			return
		}
		next.ServeHTTP(w, r)
	}
}
