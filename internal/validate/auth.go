package validate

import (
	"net/http"
	"slices"
	"strings"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	"github.com/wondertwin-ai/twin-vesync/internal/vesync"
)

// Auth compares the session fields op declares against the mock session. The
// account id field name matches case-insensitively, token spellings exactly.
// Declared fields absent from the request are not checked; an operation that
// declares none passes.
func Auth(h http.Header, body map[string]any, op *catalog.OperationSpec) error {
	if op == nil {
		return nil
	}

	var accountIDs, tokens []any
	for _, name := range op.Headers.Names() {
		vals := h.Values(name)
		if len(vals) == 0 {
			continue
		}
		switch {
		case isAccountID(name):
			accountIDs = append(accountIDs, vals[0])
		case isToken(name):
			tokens = append(tokens, vals[0])
		}
	}
	for _, name := range op.Body.Names() {
		v, ok := body[name]
		if !ok {
			continue
		}
		switch {
		case isAccountID(name):
			accountIDs = append(accountIDs, v)
		case isToken(name):
			tokens = append(tokens, v)
		}
	}

	for _, v := range accountIDs {
		if v != vesync.MockAccountID {
			return vesync.InvalidAccountID()
		}
	}
	for _, v := range tokens {
		if v != vesync.MockToken {
			return vesync.InvalidToken()
		}
	}
	return nil
}

func isAccountID(name string) bool {
	return strings.EqualFold(name, vesync.FieldAccountID)
}

func isToken(name string) bool {
	return slices.Contains(vesync.TokenFields, name)
}

// Account is the result of a successful login.
type Account struct {
	AccountID      string `json:"accountID"`
	Token          string `json:"token"`
	NickName       string `json:"nickName"`
	AvatarIcon     string `json:"avatarIcon"`
	AcceptLanguage string `json:"acceptLanguage"`
	GDPRStatus     bool   `json:"gdprStatus"`
	TermsStatus    bool   `json:"termsStatus"`
	PrivacyStatus  bool   `json:"privacyStatus"`
	UserType       int    `json:"userType"`
}

// Login checks a credential pair against the single mock account. password is
// the hex MD5 digest the client sends.
func Login(email, password string) (Account, error) {
	if email == "" {
		return Account{}, vesync.MissingEmail()
	}
	if password == "" {
		return Account{}, vesync.MissingPassword()
	}
	if email != vesync.ValidEmail || password != vesync.ValidPassword {
		return Account{}, vesync.InvalidCredentials()
	}
	return Account{
		AccountID:      vesync.MockAccountID,
		Token:          vesync.MockToken,
		NickName:       "Mock User",
		AcceptLanguage: "en",
		GDPRStatus:     true,
		TermsStatus:    true,
		PrivacyStatus:  true,
		UserType:       1,
	}, nil
}

// Registry is the lookup side of the device registry.
type Registry interface {
	Lookup(id string) (model string, ok bool)
}

var storedIDFields = []string{"deviceId", "uuid", "cid"}

// StoredIDs checks that every device id a device-list body carries, at its
// root or inside deviceList entries, is registered.
func StoredIDs(reg Registry, body map[string]any) error {
	ids := collectIDs(body)
	if list, ok := body["deviceList"].([]any); ok {
		for _, entry := range list {
			if m, ok := entry.(map[string]any); ok {
				ids = append(ids, collectIDs(m)...)
			}
		}
	}
	for _, v := range ids {
		id, _ := v.(string)
		if _, ok := reg.Lookup(id); !ok || id == "" {
			return vesync.DeviceNotFound(id)
		}
	}
	return nil
}

func collectIDs(m map[string]any) []any {
	var ids []any
	for _, key := range storedIDFields {
		if v, ok := m[key]; ok {
			ids = append(ids, v)
		}
	}
	return ids
}
