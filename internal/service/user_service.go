package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"ai-portal-go/internal/analytics"
	"ai-portal-go/internal/model"
	"ai-portal-go/internal/repository"
	"ai-portal-go/pkg/apperr"
	"ai-portal-go/pkg/hash"
	"ai-portal-go/pkg/log"
	"ai-portal-go/pkg/token"
)

// RegisterInput 是注册所需的信息。
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// ProfileUpdate 是可修改的个人资料字段，nil 表示不修改。
type ProfileUpdate struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=255"`
}

// UserService 接口定义了所有与用户相关的业务操作。
type UserService interface {
	Register(in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string, meta ClientMeta) (*token.Pair, error)
	RefreshToken(refreshToken string) (*token.Pair, error)
	Logout(ctx context.Context, accessToken string) error
	Authenticate(ctx context.Context, accessToken string) (*model.User, *token.CustomClaims, error)
	GetProfile(userID uint) (*model.User, error)
	UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error)
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

// userService 是 UserService 接口的实现。
type userService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtManager *token.JWTManager
	activities ActivityService
}

// NewUserService 创建一个新的 UserService 实例。
func NewUserService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtManager *token.JWTManager, activities ActivityService) UserService {
	return &userService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
		activities: activities,
	}
}

// ensureUnique 检查用户名和邮箱未被其他用户占用，selfID 为当前用户（注册时为 0）。
func (s *userService) ensureUnique(username, email string, selfID uint) error {
	if username != "" {
		existing, err := s.userRepo.FindByUsername(username)
		if err == nil && existing.ID != selfID {
			return apperr.Conflict("用户名已存在")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if email != "" {
		existing, err := s.userRepo.FindByEmail(email)
		if err == nil && existing.ID != selfID {
			return apperr.Conflict("邮箱已被注册")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

// Register 处理用户注册的业务逻辑。
func (s *userService) Register(in RegisterInput) (*model.User, error) {
	if err := s.ensureUnique(in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashedPassword,
		FullName: in.FullName,
		Role:     model.RoleUser,
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	log.Infof("[UserService] 用户注册成功, username: %s, id: %d", user.Username, user.ID)
	return user, nil
}

// Login 校验凭证并签发令牌对，同时更新最后登录时间并记录登录活动。
func (s *userService) Login(ctx context.Context, username, password string, meta ClientMeta) (*token.Pair, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("用户名或密码错误")
		}
		return nil, err
	}
	if !hash.CheckPasswordHash(password, user.Password) {
		return nil, apperr.Unauthorized("用户名或密码错误")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("账户已被禁用")
	}

	pair, err := s.jwtManager.GeneratePair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}

	if err := s.userRepo.TouchLastLogin(user.ID, time.Now()); err != nil {
		log.Errorf("[UserService] 更新最后登录时间失败, user: %d, error: %v", user.ID, err)
	}
	recordQuietly(ctx, s.activities, user.ID, analytics.ActivityLogin, "", meta)
	return pair, nil
}

// RefreshToken 使用有效的 refresh token 换取新的令牌对。
func (s *userService) RefreshToken(refreshToken string) (*token.Pair, error) {
	claims, err := s.jwtManager.VerifyTyped(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, apperr.Unauthorized("无效的刷新令牌")
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("无效的刷新令牌")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("账户已被禁用")
	}
	return s.jwtManager.GeneratePair(user.ID, user.Username, user.Role)
}

// Logout 将 access token 加入 Redis 黑名单，过期时间为其剩余有效期。
func (s *userService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.jwtManager.VerifyToken(accessToken)
	if err != nil {
		return apperr.Unauthorized("无效的令牌")
	}
	return s.tokenRepo.Blacklist(ctx, accessToken, time.Until(claims.ExpiresAt.Time))
}

// Authenticate 校验 access token 并返回对应的启用用户。
func (s *userService) Authenticate(ctx context.Context, accessToken string) (*model.User, *token.CustomClaims, error) {
	claims, err := s.jwtManager.VerifyTyped(accessToken, token.TypeAccess)
	if err != nil {
		return nil, nil, apperr.Unauthorized("无效或已过期的 token")
	}

	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("查询 token 黑名单失败: %w", err)
	}
	if blacklisted {
		return nil, nil, apperr.Unauthorized("token 已注销")
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Unauthorized("用户不存在")
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperr.Unauthorized("账户已被禁用")
	}
	return user, claims, nil
}

// GetProfile 根据用户 ID 获取用户详细信息。
func (s *userService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, "用户不存在")
	}
	return user, nil
}

// UpdateProfile 按白名单字段更新个人资料，用户名和邮箱需保持唯一。
func (s *userService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFound(err, "用户不存在")
	}

	var username, email string
	if update.Username != nil && *update.Username != user.Username {
		username = *update.Username
	}
	if update.Email != nil && *update.Email != user.Email {
		email = *update.Email
	}
	if err := s.ensureUnique(username, email, user.ID); err != nil {
		return nil, err
	}

	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}
	return user, nil
}

// ChangePassword 校验旧密码后更新为新密码。
func (s *userService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return notFound(err, "用户不存在")
	}
	if !hash.CheckPasswordHash(oldPassword, user.Password) {
		return apperr.Validation("旧密码错误")
	}
	hashed, err := hash.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}
	user.Password = hashed
	return s.userRepo.Update(user)
}
