package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zeebo/errs"
)

var ErrToken = errs.Class("jwt")

var ErrRefreshToken = errors.New("refresh token can not be used as access token")

type Config struct {
	TokenExpire        time.Duration `help:"token有效期" default:"2h"`
	RefreshTokenExpire time.Duration `help:"refresh token有效期" default:"168h"`
	Key                string        `help:"签名key,为空时不校验报表接口" default:""`
	Issuer             string        `help:"签发者" default:"report"`
}

// TokenPayload token携带的用户信息
type TokenPayload struct {
	UserId   int64  `json:"uid"`
	Username string `json:"username"`
}

type claims struct {
	TokenPayload
	Refresh bool `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

type Jwt struct {
	config Config
	method jwt.SigningMethod
}

func NewJwt(conf Config) *Jwt {
	return &Jwt{config: conf, method: jwt.SigningMethodHS256}
}

// CreateToken 返回 token 和过期时间戳
func (j *Jwt) CreateToken(payload TokenPayload) (string, int64, error) {
	return j.create(payload, j.config.TokenExpire, false)
}

// CreateRefreshToken 返回 refresh token 和过期时间戳
func (j *Jwt) CreateRefreshToken(payload TokenPayload) (string, int64, error) {
	return j.create(payload, j.config.RefreshTokenExpire, true)
}

// ValidateToken 校验 access token
func (j *Jwt) ValidateToken(token string) (*TokenPayload, error) {
	c, err := j.parse(token)
	if err != nil {
		return nil, err
	}
	if c.Refresh {
		return nil, ErrToken.Wrap(ErrRefreshToken)
	}
	return &c.TokenPayload, nil
}

// Refresh 用 refresh token 换新的 access token
func (j *Jwt) Refresh(refreshToken string) (string, int64, error) {
	c, err := j.parse(refreshToken)
	if err != nil {
		return "", 0, err
	}
	if !c.Refresh {
		return "", 0, ErrToken.New("not a refresh token")
	}
	return j.CreateToken(c.TokenPayload)
}

func (j *Jwt) create(payload TokenPayload, expire time.Duration, refresh bool) (string, int64, error) {
	now := time.Now()
	exp := now.Add(expire)
	c := claims{
		TokenPayload: payload,
		Refresh:      refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(j.method, c).SignedString([]byte(j.config.Key))
	if err != nil {
		return "", 0, ErrToken.Wrap(err)
	}
	return s, exp.Unix(), nil
}

func (j *Jwt) parse(token string) (*claims, error) {
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.config.Key), nil
	}, jwt.WithValidMethods([]string{j.method.Alg()}), jwt.WithIssuer(j.config.Issuer))
	if err != nil {
		return nil, ErrToken.Wrap(err)
	}
	return c, nil
}
