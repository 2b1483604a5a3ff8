package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"lumina-chat/internal/domain"

	"github.com/google/uuid"
)

// CDNSigner issues ImageKit-style authentication parameters: a one-time
// token, a unix expiry, and an HMAC-SHA1 signature of token+expire under
// the service's private key. Stateless; the CDN verifies the signature on
// its side.
type CDNSigner struct {
	privateKey []byte
	ttl        time.Duration

	// now is swappable for tests.
	now func() time.Time
}

func NewCDNSigner(privateKey string, ttl time.Duration) (*CDNSigner, error) {
	if privateKey == "" {
		return nil, errors.New("cdn private key is required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &CDNSigner{
		privateKey: []byte(privateKey),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (s *CDNSigner) Issue(ctx context.Context) (domain.UploadCredentials, error) {
	token := uuid.New().String()
	expire := s.now().Add(s.ttl).Unix()

	mac := hmac.New(sha1.New, s.privateKey)
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	signature := hex.EncodeToString(mac.Sum(nil))

	return domain.UploadCredentials{
		Token:     token,
		Expire:    expire,
		Signature: signature,
	}, nil
}
