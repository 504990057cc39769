package vesync

import (
	"fmt"
	"strings"
)

// Kind classifies request failures.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindDeviceNotFound
	KindAuth
	KindDispatch
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDeviceNotFound:
		return "device_not_found"
	case KindAuth:
		return "auth"
	case KindDispatch:
		return "dispatch"
	default:
		return "unknown"
	}
}

// Error is a request-scoped failure that renders as a VeSync envelope with a
// nonzero code. It never aborts the server.
type Error struct {
	Kind Kind
	Code int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (code %d)", e.Kind, e.Msg, e.Code)
}

func validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Msg: fmt.Sprintf(format, args...)}
}

// MissingHeader reports a required header absent from the request.
func MissingHeader(name string) *Error {
	return validation("Missing required header: %s", name)
}

// UndefinedFields reports body fields the operation spec does not declare.
func UndefinedFields(names []string) *Error {
	return validation("Undefined fields in request: %s", strings.Join(names, ", "))
}

// InvalidBody reports a body that is not a JSON object.
func InvalidBody() *Error {
	return validation("Request body must be a JSON object")
}

// MissingField reports a declared field absent from the body.
func MissingField(name string) *Error {
	return validation("Missing required field: %s", name)
}

// WrongType reports a declared field that is not a string.
func WrongType(name string) *Error {
	return validation("Field %s must be of type str", name)
}

// MissingDeviceID reports a request that carries no device identifier at all.
func MissingDeviceID() *Error {
	return &Error{Kind: KindDeviceNotFound, Code: CodeDeviceNotFound, Msg: "Device ID not found in request"}
}

// DeviceNotFound reports an identifier that maps to no registered model.
func DeviceNotFound(id string) *Error {
	return &Error{Kind: KindDeviceNotFound, Code: CodeDeviceNotFound, Msg: "Device not found: " + id}
}

// NoSpec reports a registered model without an operation spec.
func NoSpec(model string) *Error {
	return &Error{Kind: KindDeviceNotFound, Code: CodeDeviceNotFound, Msg: "No spec found for model: " + model}
}

// NoHandler reports a model no family responder recognises.
func NoHandler(model string) *Error {
	return &Error{Kind: KindDispatch, Code: CodeDispatch, Msg: "No handler configured for model: " + model}
}

// InvalidAccountID reports an account id that is not the mock account. It
// shares its code with InvalidToken; only the message tells them apart.
func InvalidAccountID() *Error {
	return &Error{Kind: KindAuth, Code: CodeInvalidAuth, Msg: MsgInvalidAccountID}
}

// InvalidToken reports a token that is not the mock token.
func InvalidToken() *Error {
	return &Error{Kind: KindAuth, Code: CodeInvalidAuth, Msg: MsgInvalidToken}
}

// InvalidCredentials reports a login with an unknown email or wrong password.
func InvalidCredentials() *Error {
	return &Error{Kind: KindAuth, Code: CodeInvalidCredentials, Msg: MsgInvalidCredentials}
}

// MissingEmail reports a login without an email.
func MissingEmail() *Error {
	return &Error{Kind: KindValidation, Code: CodeIllegalArgument, Msg: MsgIllegalArgument}
}

// MissingPassword reports a login without a password.
func MissingPassword() *Error {
	return &Error{Kind: KindValidation, Code: CodeIllegalArgument, Msg: MsgIllegalArgument}
}
