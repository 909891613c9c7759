package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	mailer      services.OTPMailer
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, mailer services.OTPMailer) *AuthHandler {
	if mailer == nil {
		mailer = services.NewLogOTPMailer(log)
	}
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService, mailer: mailer}
}

// POST /register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := ah.authService.Register(dbcOf(c), req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": u})
}

// POST /login
// body: { "email": "...", "password": "..." }
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	token, u, err := ah.authService.Login(dbcOf(c), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(ah.authService.GetAccessTTL().Seconds()),
		"user":         u,
	})
}

// POST /otp
// The code goes out by email; the response never carries it.
func (ah *AuthHandler) IssueOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}
	code, err := ah.authService.IssueOTP(dbcOf(c), req.Email)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := ah.mailer.SendOTP(c.Request.Context(), req.Email, code, ah.authService.GetOTPTTL()); err != nil {
		ah.log.Error("OTP delivery failed", "error", err)
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true, "expires_in": int(ah.authService.GetOTPTTL().Seconds())})
}

// POST /otp/verify
func (ah *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := ah.authService.VerifyOTP(dbcOf(c), req.Email, req.Code); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
