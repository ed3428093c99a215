package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/bbyas22/QRcode/internal/infrastructure/config"
)

// SessionLifetime 管理员会话有效期
const SessionLifetime = time.Hour

// 会话校验错误
var (
	ErrSessionMissing = errors.New("session missing")
	ErrSessionInvalid = errors.New("session invalid")
	ErrSessionExpired = errors.New("session expired")
)

// AdminSession 管理员会话：登录标记与登录时间
type AdminSession struct {
	LoggedIn  bool
	LoginTime time.Time
}

// sessionClaims 写入签名 cookie 的会话内容
type sessionClaims struct {
	AdminLoggedIn bool   `json:"admin_logged_in"`
	LoginTime     string `json:"login_time"`
	jwt.RegisteredClaims
}

// InterfaceSessionService 管理员会话服务接口
type InterfaceSessionService interface {
	Issue() (string, error)
	Validate(token string) (*AdminSession, error)
}

// SessionService 用 HMAC 签名的 JWT 作为会话 cookie 的值，过期在每次请求时检查
type SessionService struct {
	secretKey string
	issuer    string
	now       func() time.Time
}

// NewSessionService 创建会话服务
func NewSessionService(cfg *config.Config) *SessionService {
	return &SessionService{
		secretKey: cfg.SessionSecret,
		issuer:    "qrcode-service",
		now:       time.Now,
	}
}

// WithClock 替换时间来源
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// 1 Issue 以当前时间签发会话
func (s *SessionService) Issue() (string, error) {
	return s.IssueAt(s.now())
}

// 2 IssueAt 以指定登录时间签发会话
func (s *SessionService) IssueAt(loginTime time.Time) (string, error) {
	claims := &sessionClaims{
		AdminLoggedIn: true,
		LoginTime:     loginTime.Format(time.RFC3339Nano),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// 3 Validate 校验签名、登录标记与登录时间，超过有效期返回 ErrSessionExpired
func (s *SessionService) Validate(tokenString string) (*AdminSession, error) {
	if tokenString == "" {
		return nil, ErrSessionMissing
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}

	if !claims.AdminLoggedIn || claims.LoginTime == "" {
		return nil, ErrSessionInvalid
	}

	loginTime, err := time.Parse(time.RFC3339Nano, claims.LoginTime)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	if s.now().Sub(loginTime) > SessionLifetime {
		return nil, ErrSessionExpired
	}

	return &AdminSession{LoggedIn: true, LoginTime: loginTime}, nil
}
