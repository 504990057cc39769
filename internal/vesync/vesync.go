// Package vesync holds the fixed mock account values, the vendor error codes the
// twin mirrors, and the typed error every request-path failure is reported as.
package vesync

// Mock session shared by every successful login.
const (
	MockAccountID = "mock_account_id"
	MockToken     = "mock_token"
)

// Only credential pair the login endpoint accepts. The password is the hex MD5
// digest of "test123", which is what client libraries send.
const (
	ValidEmail    = "test@example.com"
	ValidPassword = "cc03e747a6afbbcbf8be7668acfebee5"
)

// Vendor error codes and messages, matching what the real cloud API returns.
const (
	CodeSuccess            = 0
	CodeInvalidCredentials = -11202022
	CodeIllegalArgument    = -11000022
	CodeInvalidAuth        = -11300011

	MsgSuccess            = "request success"
	MsgInvalidCredentials = "the account does not exist"
	MsgIllegalArgument    = "illegal argument"
	MsgInvalidToken       = "invalid token"
	MsgInvalidAccountID   = "invalid account id"
)

// Codes for failures the vendor never documents. Client libraries only test for
// code == 0, so these just need to be nonzero and distinct per kind.
const (
	CodeValidation     = 1
	CodeDeviceNotFound = 2
	CodeDispatch       = 3
)

// Common headers every VeSync client sends.
const (
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"
)

// CommonHeaders are required on every request regardless of the operation spec.
var CommonHeaders = []string{HeaderContentType, HeaderUserAgent}

// Body and header field spellings the twin recognises.
const (
	FieldAccountID = "accountid" // compared case-insensitively
	FieldToken     = "token"
	FieldTk        = "tk"
)

// TokenFields lists the accepted token spellings, compared exactly.
var TokenFields = []string{FieldToken, FieldTk}
