package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhuss/restapp/pkg/api"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	admin := Reject(http.StatusUnauthorized, "admins only")

	require.NoError(t, r.Register("admin", admin))

	got, ok := r.Lookup("admin")
	require.True(t, ok)
	assert.Equal(t, admin, got)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("admin", Reject(http.StatusUnauthorized, "x")))

	err := r.Register("admin", Reject(http.StatusUnauthorized, "y"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrDuplicateMiddleware))
	assert.True(t, api.IsConfigError(err))
}

func TestRegistryRejectsEmpty(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register("", Reject(http.StatusUnauthorized, "x")))
	assert.Error(t, r.Register("admin", nil))
	assert.Error(t, r.Register("admin", Func(nil)))
	_, ok := r.Lookup("admin")
	assert.False(t, ok)
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("zeta", Reject(http.StatusTeapot, "")))
	require.NoError(t, r.Register("alpha", Reject(http.StatusTeapot, "")))

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}
