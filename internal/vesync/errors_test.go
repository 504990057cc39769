package vesync

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsAndCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
		code int
		msg  string
	}{
		{"missing header", MissingHeader("tk"), KindValidation, CodeValidation, "Missing required header: tk"},
		{"undefined fields", UndefinedFields([]string{"a", "b"}), KindValidation, CodeValidation, "Undefined fields in request: a, b"},
		{"missing field", MissingField("uuid"), KindValidation, CodeValidation, "Missing required field: uuid"},
		{"wrong type", WrongType("pageNo"), KindValidation, CodeValidation, "Field pageNo must be of type str"},
		{"missing device id", MissingDeviceID(), KindDeviceNotFound, CodeDeviceNotFound, "Device ID not found in request"},
		{"device not found", DeviceNotFound("abc"), KindDeviceNotFound, CodeDeviceNotFound, "Device not found: abc"},
		{"no spec", NoSpec("Core200S"), KindDeviceNotFound, CodeDeviceNotFound, "No spec found for model: Core200S"},
		{"no handler", NoHandler("X1"), KindDispatch, CodeDispatch, "No handler configured for model: X1"},
		{"invalid account", InvalidAccountID(), KindAuth, CodeInvalidAuth, MsgInvalidAccountID},
		{"invalid token", InvalidToken(), KindAuth, CodeInvalidAuth, MsgInvalidToken},
		{"invalid credentials", InvalidCredentials(), KindAuth, CodeInvalidCredentials, MsgInvalidCredentials},
		{"missing email", MissingEmail(), KindValidation, CodeIllegalArgument, MsgIllegalArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.msg, tt.err.Msg)
		})
	}
}

func TestErrorUnwrapsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", DeviceNotFound("abc"))

	var verr *Error
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, KindDeviceNotFound, verr.Kind)
	assert.Contains(t, err.Error(), "device_not_found: Device not found: abc (code 2)")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "validation", KindValidation.String())
	assert.Equal(t, "auth", KindAuth.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
