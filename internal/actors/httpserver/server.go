package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rbroggi/accountd/internal/core/model"
	"github.com/rbroggi/accountd/internal/core/usecase"
)

// signupUsecase is the consumer-side view of the registration pipeline.
type signupUsecase interface {
	// SignUp runs the registration pipeline.
	SignUp(ctx context.Context, args model.SignUpArgs) (*model.SignUpResponse, error)
}

// auditorUsecase is the consumer-side view of the auditor.
type auditorUsecase interface {
	// Log assembles and emits the audit record for a completed request.
	Log(ctx context.Context, status int, rc usecase.RequestContext)
}

// ServerArgs are the mandatory args to instantiate the Server.
type ServerArgs struct {
	// Signup is the registration usecase.
	Signup signupUsecase

	// Auditor is the request auditor.
	Auditor auditorUsecase
}

// NewServer creates a new Server with its routes registered.
func NewServer(args ServerArgs) *Server {
	server := &Server{signup: args.Signup, auditor: args.Auditor}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), Audit(args.Auditor))
	engine.GET("/healthz", server.healthz)
	engine.POST("/auth/sign-up", server.signUp)
	server.engine = engine

	return server
}

// Server exposes the registration pipeline over HTTP and audits every
// request through its middleware chain.
type Server struct {
	engine  *gin.Engine
	signup  signupUsecase
	auditor auditorUsecase
}

// Handler returns the http.Handler serving the routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// signUpForm is the sign-up input. The binding tags are the upstream schema
// validation: the pipeline behind it only re-validates uniqueness.
type signUpForm struct {
	Nickname string `json:"nickname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Terms    bool   `json:"terms" binding:"required"`
}

func (s *Server) signUp(c *gin.Context) {
	var form signUpForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid sign-up input"})
		return
	}

	resp, err := s.signup.SignUp(c.Request.Context(), model.SignUpArgs{
		Nickname: form.Nickname,
		Email:    form.Email,
		Password: form.Password,
		Terms:    form.Terms,
	})
	if err != nil {
		var fieldErr *model.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"field":   fieldErr.Field,
				"message": fieldErr.Message,
			})
			return
		}
		// opaque to the client; detail was already logged by the usecase
		c.Set(ScopeError, "sign-up failed")
		c.Set(ScopeErrorID, uuid.NewString())
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Account was not able to be created."})
		return
	}

	cookie := resp.Cookie
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookie.Name,
		Value:    cookie.Value,
		Path:     cookie.Path,
		MaxAge:   cookie.MaxAge,
		HttpOnly: cookie.HTTPOnly,
		Secure:   cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	c.Set(ScopeUser, resp.User.Email)
	c.Set(ScopeUserID, resp.User.ID.String())
	c.Set(ScopeTrack, "event=sign_up,outcome=ok")
	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully. You are now logged in."})
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Ok"})
}
