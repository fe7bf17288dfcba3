package noop

import (
	"context"
	"testing"

	"github.com/rhuss/restapp/pkg/api"
	"github.com/rhuss/restapp/pkg/auth"
)

func TestAuthenticate(t *testing.T) {
	a := &Authenticator{}
	headers := map[string]string{"Authorization": "Bearer ignored"}
	result := a.Authenticate(context.Background(), api.NewRequest(api.MethodGet, "/", "", headers, nil))

	if result.Decision != auth.Yes {
		t.Fatalf("Decision = %v, want yes", result.Decision)
	}
	if result.Identity.Subject != auth.AnonymousSubject {
		t.Errorf("Subject = %q, want %q", result.Identity.Subject, auth.AnonymousSubject)
	}
	if len(result.Identity.Scopes) != 0 {
		t.Errorf("Scopes = %v, want none", result.Identity.Scopes)
	}
}
