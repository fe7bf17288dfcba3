package auth

import (
	"strings"

	"github.com/rhuss/restapp/pkg/api"
)

// BearerToken returns the token of an "Authorization: Bearer <token>"
// header. ok is false when the header is missing or names another
// scheme. The scheme is matched case-insensitively; the token may be
// empty.
func BearerToken(req *api.Request) (token string, ok bool) {
	scheme, rest, found := strings.Cut(req.Header("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
