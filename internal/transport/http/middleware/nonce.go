package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/linkanalyzer-service/internal/transport/http/response"
)

const HeaderNonce = "X-WP-Nonce"

// Nonces issues and verifies admin action nonces.
// Format: <random>.<exp_unix>.<sig>, sig = HMAC-SHA256(uid.random.exp).
type Nonces struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewNonces(secret string, ttl time.Duration) *Nonces {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Nonces{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a nonce bound to uid and its expiry.
func (n *Nonces) Issue(uid string) (string, time.Time) {
	exp := n.now().Add(n.ttl).Truncate(time.Second)
	payload := fmt.Sprintf("%s.%d", uuid.NewString(), exp.Unix())
	return payload + "." + n.sign(uid, payload), exp
}

// Verify reports whether nonce was issued to uid and has not expired.
func (n *Nonces) Verify(uid, nonce string) bool {
	parts := strings.SplitN(nonce, ".", 3)
	if len(parts) != 3 || uid == "" {
		return false
	}

	exp, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || n.now().Unix() > exp {
		return false
	}

	payload := parts[0] + "." + parts[1]
	return hmac.Equal([]byte(parts[2]), []byte(n.sign(uid, payload)))
}

func (n *Nonces) sign(uid, payload string) string {
	mac := hmac.New(sha256.New, n.secret)
	mac.Write([]byte(uid + "." + payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// RequireNonce checks X-WP-Nonce on state-changing requests. It must run after
// RequireAdmin so the caller's uid is known.
func (n *Nonces) RequireNonce(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if !n.Verify(UserID(r), r.Header.Get(HeaderNonce)) {
			response.WriteError(w, r, domain.ErrInvalidNonce())
			return
		}
		next.ServeHTTP(w, r)
	})
}
