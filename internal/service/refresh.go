package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"van-market/internal/cache"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidRefreshToken 更新憑證不存在、已撤銷或已過期
var ErrInvalidRefreshToken = errors.New("invalid refresh token")

var randRead = rand.Read

const refreshKeyPrefix = "refresh:"

// RefreshService 管理不透明的更新憑證。
// 憑證為隨機位元組，僅存在於 Redis，有效期滿自動失效；
// 與存取令牌分離，令牌驗證失敗不可用它換發。
type RefreshService struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewRefreshService(c cache.Cache, ttl time.Duration) *RefreshService {
	return &RefreshService{cache: c, ttl: ttl}
}

// Issue 產生新的更新憑證並綁定使用者
func (s *RefreshService) Issue(ctx context.Context, userID int) (string, error) {
	buf := make([]byte, 32)
	if _, err := randRead(buf); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	if err := s.cache.Set(ctx, refreshKeyPrefix+token, strconv.Itoa(userID), s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Validate 驗證更新憑證並回傳綁定的使用者 ID
func (s *RefreshService) Validate(ctx context.Context, token string) (int, error) {
	val, err := s.cache.Get(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrInvalidRefreshToken
		}
		return 0, err
	}
	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, ErrInvalidRefreshToken
	}
	return userID, nil
}

// Revoke 撤銷更新憑證；不存在時視為已撤銷
func (s *RefreshService) Revoke(ctx context.Context, token string) error {
	return s.cache.Del(ctx, refreshKeyPrefix+token).Err()
}
