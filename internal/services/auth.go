package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	dbpkg "github.com/yungbote/usr-annotation-backend/internal/data/db"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	repouser "github.com/yungbote/usr-annotation-backend/internal/data/repos/user"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/ctxutil"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
)

const minPasswordLength = 8

type RegisterInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

type AuthService interface {
	Register(dbc dbctx.Context, in RegisterInput) (*types.User, error)
	// Login checks credentials and returns a signed access token.
	Login(dbc dbctx.Context, email, password string) (string, *types.User, error)
	// Actor resolves a token to the caller's current id and role.
	Actor(dbc dbctx.Context, token string) (user.Actor, error)
	SetContextFromToken(ctx context.Context, token string) (context.Context, error)
	IssueOTP(dbc dbctx.Context, email string) (string, error)
	VerifyOTP(dbc dbctx.Context, email, code string) error
	GetAccessTTL() time.Duration
	GetOTPTTL() time.Duration
}

type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
	otpTTL       time.Duration
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	otpTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		otpTTL:       otpTTL,
		now:          time.Now,
	}
}

func unauthorized(reason string) error {
	return fmt.Errorf("%s: %w", reason, apperrors.ErrUnauthorized)
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) GetOTPTTL() time.Duration { return as.otpTTL }

func (as *authService) Register(dbc dbctx.Context, in RegisterInput) (*types.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = repouser.NormalizeEmail(in.Email)
	in.Organization = strings.TrimSpace(in.Organization)

	v := apperrors.NewValidation()
	required(v, "name", in.Name)
	required(v, "email", in.Email)
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		v.Add("email %q is malformed", in.Email)
	}
	if len(in.Password) < minPasswordLength {
		v.Add("password must be at least %d characters", minPasswordLength)
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var out *types.User
	err = inTx(as.db, dbc, func(inner dbctx.Context) error {
		exists, err := as.userRepo.EmailExists(inner, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.NewConflict(fmt.Sprintf("email %s is already registered", in.Email))
		}
		created, err := as.userRepo.Create(inner, []*types.User{{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: string(hash),
			Organization: in.Organization,
			Role:         user.RolePending,
			Status:       user.StatusPending,
		}})
		if err != nil {
			return dbpkg.TranslateError(err, fmt.Sprintf("email %s is already registered", in.Email))
		}
		out = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("Registered user", "user_id", out.ID)
	return out, nil
}

func (as *authService) Login(dbc dbctx.Context, email, password string) (string, *types.User, error) {
	u, err := as.userRepo.GetByEmail(read(dbc), email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return "", nil, unauthorized("invalid email or password")
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, unauthorized("invalid email or password")
	}
	if u.Status == user.StatusSuspended {
		as.log.Warn("Suspended user attempted login", "user_id", u.ID)
		return "", nil, unauthorized("account is suspended")
	}
	tok, err := as.generateAccessToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return tok, u, nil
}

func (as *authService) generateAccessToken(u *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) parseToken(tokenString string) (uint, error) {
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return 0, unauthorized("invalid token")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, unauthorized("invalid token subject")
	}
	return uint(id), nil
}

// Actor reloads the user so role changes and suspensions apply to live tokens.
func (as *authService) Actor(dbc dbctx.Context, tokenString string) (user.Actor, error) {
	id, err := as.parseToken(tokenString)
	if err != nil {
		return user.Actor{}, err
	}
	u, err := as.userRepo.GetByID(read(dbc), id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return user.Actor{}, unauthorized("token user no longer exists")
	}
	if err != nil {
		return user.Actor{}, err
	}
	if u.Status == user.StatusSuspended {
		return user.Actor{}, unauthorized("account is suspended")
	}
	return u.Actor(), nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	actor, err := as.Actor(dbctx.Context{Ctx: ctx}, tokenString)
	if err != nil {
		return ctx, err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: actor.UserID, Role: string(actor.Role)}), nil
}

func (as *authService) IssueOTP(dbc dbctx.Context, email string) (string, error) {
	u, err := as.userRepo.GetByEmail(read(dbc), email)
	if err != nil {
		return "", err
	}
	code, err := newOTP()
	if err != nil {
		return "", err
	}
	exp := as.now().Add(as.otpTTL).UTC()
	if err := as.userRepo.UpdateFields(read(dbc), u.ID, map[string]interface{}{
		"otp":            code,
		"otp_expiration": exp,
	}); err != nil {
		return "", err
	}
	as.log.Debug("Issued OTP", "user_id", u.ID, "expires_at", exp)
	return code, nil
}

func (as *authService) VerifyOTP(dbc dbctx.Context, email, code string) error {
	u, err := as.userRepo.GetByEmail(read(dbc), email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return unauthorized("invalid code")
	}
	if err != nil {
		return err
	}
	if u.OTP == "" || u.OTPExpiration == nil {
		return unauthorized("no code was issued")
	}
	if as.now().After(*u.OTPExpiration) {
		return unauthorized("code expired")
	}
	if subtle.ConstantTimeCompare([]byte(u.OTP), []byte(strings.TrimSpace(code))) != 1 {
		return unauthorized("invalid code")
	}
	return as.userRepo.UpdateFields(read(dbc), u.ID, map[string]interface{}{
		"otp":            "",
		"otp_expiration": nil,
	})
}

func newOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
