package service

import (
	"apex_tracker_backend/internal/config"
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/internal/repository"
	"apex_tracker_backend/internal/util"
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// GoogleIdentity Google ID Token 校验通过后取出的用户信息
type GoogleIdentity struct {
	Email   string
	Name    string
	Picture string
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config

	// 时钟和 Google 校验可注入，测试里替换
	now               func() time.Time
	verifyGoogleToken func(ctx context.Context, credential string) (*GoogleIdentity, error)
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	s := &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
	s.now = time.Now
	s.verifyGoogleToken = s.verifyGoogleIDToken
	return s
}

func (s *AuthService) Register(user *model.User) (string, error) {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return "", util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user.Password = string(hashedPassword)

	if err := s.UserRepo.Create(user); err != nil {
		return "", err
	}

	// 注册不算登录，连续登录天数由之后的登录流程维护
	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// Login 密码登录。认证通过后更新连续登录天数（每次认证恰好一次），
// 返回令牌和更新后的用户。
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	// 仅 Google 登录的账号没有密码哈希，这里同样会比较失败
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	user, err = s.updateLoginStreak(user)
	if err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GoogleLogin 校验 Google 签发的 ID Token，按邮箱 upsert 用户，
// 然后走和密码登录一样的连续登录逻辑。
func (s *AuthService) GoogleLogin(ctx context.Context, credential string) (string, *model.User, error) {
	identity, err := s.verifyGoogleToken(ctx, credential)
	if err != nil {
		return "", nil, err
	}

	user, err := s.UserRepo.FindByEmail(identity.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &model.User{
			Name:       identity.Name,
			Email:      identity.Email,
			ProfilePic: identity.Picture,
		}
		if err := s.UserRepo.Create(user); err != nil {
			return "", nil, err
		}
	} else if err != nil {
		return "", nil, err
	} else {
		// 资料可能有变化，同步姓名；头像只在 Google 给了新值时覆盖
		user.Name = identity.Name
		if identity.Picture != "" {
			user.ProfilePic = identity.Picture
		}
		if err := s.UserRepo.Update(user); err != nil {
			return "", nil, err
		}
	}

	user, err = s.updateLoginStreak(user)
	if err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// updateLoginStreak 读-算-写更新连续登录天数。写入以读取时的
// last_login_date 为条件，并发认证互相覆盖时条件落空；重读后重试一次，
// 再失败返回冲突（同一天的并发登录在重试时会幂等命中）。
func (s *AuthService) updateLoginStreak(user *model.User) (*model.User, error) {
	for attempt := 0; attempt < 2; attempt++ {
		newStreak, today := NextStreak(user.LastLoginDate, s.now(), user.Streak)

		ok, err := s.UserRepo.UpdateStreakCAS(user.ID, user.LastLoginDate, newStreak, today)
		if err != nil {
			return nil, err
		}
		if ok {
			user.Streak = newStreak
			user.LastLoginDate = today
			return user, nil
		}

		user, err = s.UserRepo.FindByID(user.ID)
		if err != nil {
			return nil, err
		}
	}
	return nil, util.ErrConflict
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil
	}
	return user
}

func (s *AuthService) verifyGoogleIDToken(ctx context.Context, credential string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, credential, s.Cfg.Google.ClientID)
	if err != nil {
		return nil, err
	}

	identity := &GoogleIdentity{}
	if v, ok := payload.Claims["email"].(string); ok {
		identity.Email = v
	}
	if v, ok := payload.Claims["name"].(string); ok {
		identity.Name = v
	}
	if v, ok := payload.Claims["picture"].(string); ok {
		identity.Picture = v
	}
	if identity.Email == "" {
		return nil, errors.New("google token has no email claim")
	}
	return identity, nil
}
