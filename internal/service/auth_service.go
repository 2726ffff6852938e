package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-embroidery/internal/config"
	"github.com/bitfantasy/nimo-embroidery/internal/entity"
	"github.com/bitfantasy/nimo-embroidery/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 邮箱或密码错误
var ErrInvalidCredentials = errors.New("邮箱或密码错误")

// AuthService 登录认证。refresh token 的 jti 存 redis，登出即作废。
type AuthService struct {
	userRepo *repository.UserRepository
	rdb      *redis.Client
	cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{userRepo: userRepo, rdb: rdb, cfg: cfg}
}

type LoginResult struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *entity.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.issueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, jti, err := s.issueRefreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, "token:refresh:"+jti, user.ID, s.cfg.JWT.RefreshTokenExpire).Err(); err != nil {
		return nil, fmt.Errorf("保存刷新令牌失败: %w", err)
	}

	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// Refresh 校验 refresh token 并换发 access token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return "", ErrInvalidCredentials
	}

	userID, err := s.rdb.Get(ctx, "token:refresh:"+jti).Result()
	if err != nil {
		return "", ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	return s.issueAccessToken(user)
}

// Logout 作废 refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return
	}
	if jti, _ := claims["jti"].(string); jti != "" {
		s.rdb.Del(ctx, "token:refresh:"+jti)
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// Register 创建用户（管理员操作）
func (s *AuthService) Register(req RegisterRequest) (*entity.User, error) {
	role := req.Role
	if role == "" {
		role = entity.RoleOperator
	}
	switch role {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleOperator:
	default:
		return nil, fmt.Errorf("%w: 角色 %s", ErrInvalidStatus, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("生成密码哈希失败: %w", err)
	}
	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueAccessToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"uid":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"iss":   s.cfg.JWT.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.Secret))
}

func (s *AuthService) issueRefreshToken(user *entity.User) (string, string, error) {
	now := time.Now()
	jti := uuid.New().String()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"jti": jti,
		"iss": s.cfg.JWT.Issuer,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.JWT.RefreshTokenExpire).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	return signed, jti, err
}
