package validation

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Fullname string `json:"fullname" validate:"notblank"`
	Password string `json:"password" validate:"required,pwd"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	v := newValidator()
	err := v.Struct(registerInput{Username: "a!", Email: "nope", Fullname: "   ", Password: "short"})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be 3-30 letters, digits, '_' or '.'", details["username"])
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "is required", details["fullname"])
	assert.Equal(t, "must be 8-72 characters", details["password"])
}

func TestValidInputPasses(t *testing.T) {
	v := newValidator()
	err := v.Struct(registerInput{Username: "chai_code", Email: "a@b.io", Fullname: "Chai", Password: "password123"})
	assert.NoError(t, err)
}

func TestToDetailsPayloadErrors(t *testing.T) {
	var dst map[string]any
	syntaxErr := json.Unmarshal([]byte("{"), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(&json.SyntaxError{}))
	assert.NotNil(t, ToDetails(syntaxErr))

	tooLarge := &http.MaxBytesError{Limit: 16 << 10}
	assert.Equal(t, "must not exceed 16384 bytes", ToDetails(tooLarge)["payload"])

	assert.Nil(t, ToDetails(nil))
}
