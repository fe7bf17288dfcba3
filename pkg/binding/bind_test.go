package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhuss/restapp/pkg/api"
)

type animal struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

const animalSchema = `{
  "type": "object",
  "required": ["name", "age"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "age": {"type": "integer", "minimum": 0}
  }
}`

func request(body string, queries map[string]string) *api.Request {
	return api.NewRequest(api.MethodPost, "/", body, nil, queries)
}

func prepare(t *testing.T, bindings ...Binding) []Binding {
	t.Helper()
	prepared, err := Prepare(bindings)
	require.NoError(t, err)
	return prepared
}

func TestBindQueryCoercion(t *testing.T) {
	bindings := prepare(t, Query("age"), Query("ratio"), Query("ok"), Query("name"))
	req := request("", map[string]string{"age": "42", "ratio": "3.14", "ok": "true", "name": "Rex"})

	args, err := Bind(req, bindings)
	require.NoError(t, err)

	age, ok := args.Int(0)
	assert.True(t, ok)
	assert.Equal(t, int64(42), age)

	ratio, ok := args.Float(1)
	assert.True(t, ok)
	assert.Equal(t, 3.14, ratio)

	flag, ok := args.Bool(2)
	assert.True(t, ok)
	assert.True(t, flag)

	assert.Equal(t, KindString, args.Value(3).Kind)
	assert.Equal(t, "Rex", args.String(3))
}

func TestBindCollectsAllMissing(t *testing.T) {
	bindings := prepare(t, Query("a"), Query("present"), Query("b"))
	req := request("", map[string]string{"present": "1"})

	_, err := Bind(req, bindings)

	var missing *MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"a", "b"}, missing.Names)
	assert.Equal(t, "Missing query parameters: a, b", err.Error())
}

func TestBindSingleMissing(t *testing.T) {
	_, err := Bind(request("", nil), prepare(t, Query("age")))

	require.Error(t, err)
	assert.Equal(t, "Missing query parameters: age", err.Error())
}

func TestBindBody(t *testing.T) {
	bindings := prepare(t, Body[animal]())

	args, err := Bind(request(`{"name":"Dog","age":12}`, nil), bindings)
	require.NoError(t, err)

	got, ok := BodyAs[animal](args, 0)
	require.True(t, ok)
	assert.Equal(t, animal{Name: "Dog", Age: 12}, got)
}

func TestBindInvalidBody(t *testing.T) {
	bindings := prepare(t, Body[animal]())

	_, err := Bind(request(`{"name":`, nil), bindings)

	assert.True(t, errors.Is(err, ErrInvalidBody))
}

func TestBindBodyFailureWinsOverMissingQuery(t *testing.T) {
	bindings := prepare(t, Query("missing"), Body[animal]())

	_, err := Bind(request("not json", nil), bindings)

	assert.True(t, errors.Is(err, ErrInvalidBody))
	var missing *MissingError
	assert.False(t, errors.As(err, &missing))
}

func TestBindBodySchema(t *testing.T) {
	bindings := prepare(t, BodyWithSchema[animal](animalSchema))

	args, err := Bind(request(`{"name":"Cat","age":3}`, nil), bindings)
	require.NoError(t, err)
	got, _ := BodyAs[animal](args, 0)
	assert.Equal(t, "Cat", got.Name)

	_, err = Bind(request(`{"name":"Cat","age":-1}`, nil), bindings)
	assert.True(t, errors.Is(err, ErrInvalidBody))

	_, err = Bind(request(`{"age":3}`, nil), bindings)
	assert.True(t, errors.Is(err, ErrInvalidBody))

	_, err = Bind(request(`garbage`, nil), bindings)
	assert.True(t, errors.Is(err, ErrInvalidBody))
}

func TestPrepareRejectsMultipleBodies(t *testing.T) {
	_, err := Prepare([]Binding{Body[animal](), Query("x"), Body[animal]()})

	assert.True(t, errors.Is(err, api.ErrMultipleBodies))
}

func TestPrepareRejectsInvalidBindings(t *testing.T) {
	tests := []struct {
		name     string
		bindings []Binding
	}{
		{"empty query name", []Binding{Query("")}},
		{"body without decoder", []Binding{{Source: SourceBody}}},
		{"unknown source", []Binding{{Source: Source(9), Name: "x"}}},
		{"invalid schema", []Binding{BodyWithSchema[animal](`{"type": 12}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.bindings)
			assert.True(t, errors.Is(err, api.ErrInvalidBinding), "got %v", err)
		})
	}
}

func TestArgsAccessorsOutOfRange(t *testing.T) {
	var args Args

	assert.Equal(t, Value{}, args.Value(3))
	_, ok := args.Int(0)
	assert.False(t, ok)
	_, ok = BodyAs[animal](args, 0)
	assert.False(t, ok)
}

func TestArgsFloatWidensInt(t *testing.T) {
	args := Args{Coerce("5")}

	f, ok := args.Float(0)
	assert.True(t, ok)
	assert.Equal(t, 5.0, f)
}

func TestBindingString(t *testing.T) {
	assert.Equal(t, "query:age", Query("age").String())
	assert.Equal(t, "body", Body[animal]().String())
}
