package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sensible-care/sensible-push-server/apierr"
	"github.com/sensible-care/sensible-push-server/domain"
	"github.com/sensible-care/sensible-push-server/httpserver"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Success   bool        `json:"success"`
	UserToken string      `json:"userToken"`
	User      domain.User `json:"user"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
}

func (s *auth) registerRoutes(r gin.IRouter) {
	g := r.Group("/api/auth")
	g.POST("/signup", httpserver.Handle(s.metric, "auth.signup", s.handleSignup))
	g.POST("/login", httpserver.Handle(s.metric, "auth.login", s.handleLogin))
	g.GET("/userinfo", s.Middleware(), httpserver.Handle(s.metric, "auth.userinfo", s.handleUserInfo))
	g.GET("/userinfoById", s.Middleware(), httpserver.Handle(s.metric, "auth.userinfoById", s.handleUserInfoById))
}

func (s *auth) handleSignup(c *gin.Context) (int, any, error) {
	var req signupRequest
	if err := httpserver.Bind(c, &req); err != nil {
		return 0, nil, err
	}
	user, token, err := s.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, sessionResponse{Success: true, UserToken: token, User: user}, nil
}

func (s *auth) handleLogin(c *gin.Context) (int, any, error) {
	var req loginRequest
	if err := httpserver.Bind(c, &req); err != nil {
		return 0, nil, err
	}
	user, token, err := s.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, sessionResponse{Success: true, UserToken: token, User: user}, nil
}

func (s *auth) handleUserInfo(c *gin.Context) (int, any, error) {
	user, err := s.userRepo.GetById(c.Request.Context(), UserId(c))
	if err != nil {
		return 0, nil, err
	}
	return http.StatusOK, userResponse{Success: true, User: user}, nil
}

func (s *auth) handleUserInfoById(c *gin.Context) (int, any, error) {
	id := c.Query("id")
	if id == "" {
		return 0, nil, apierr.ErrInvalidRequest
	}
	user, err := s.userRepo.GetById(c.Request.Context(), id)
	if err != nil {
		return 0, nil, err
	}
	// other users only see the public profile
	return http.StatusOK, gin.H{"success": true, "user": user.Profile()}, nil
}
