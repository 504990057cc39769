package api

import (
	"net/http"
	"time"

	"github.com/wondertwin-ai/twin-vesync/internal/catalog"
	"github.com/wondertwin-ai/twin-vesync/internal/respond"
	"github.com/wondertwin-ai/twin-vesync/internal/store"
	"github.com/wondertwin-ai/twin-vesync/internal/validate"
)

// Metrics family label for account-level endpoints.
const familyAccount = "account"

// Page the device list always reports; the twin never paginates.
const (
	listPageNo   = 1
	listPageSize = 100
)

// deviceList is the result of the device-list endpoint.
type deviceList struct {
	Total    int                  `json:"total"`
	PageSize int                  `json:"pageSize"`
	PageNo   int                  `json:"pageNo"`
	List     []store.ListedDevice `json:"list"`
}

// Login handles POST /cloud/v1/user/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	defer h.metrics.Timing(time.Now(), "login")

	body, err := decodeBody(r)
	if err != nil {
		h.fail(w, r, familyAccount, err)
		return
	}

	op, _ := h.catalog.Account(catalog.OpLogin)
	if err := validate.Headers(r.Header, op); err != nil {
		h.fail(w, r, familyAccount, err)
		return
	}
	if err := validate.Fields(body, op); err != nil {
		h.fail(w, r, familyAccount, err)
		return
	}
	if err := validate.RequiredFields(body, op, true); err != nil {
		h.fail(w, r, familyAccount, err)
		return
	}

	email, _ := body["email"].(string)
	password, _ := body["password"].(string)
	account, err := validate.Login(email, password)
	if err != nil {
		h.fail(w, r, familyAccount, err)
		return
	}

	h.logger.Info("login", "account_id", account.AccountID)
	h.reply(w, familyAccount, respond.Success(account))
}

// ListDevices handles POST /cloud/v{1,2}/deviceManaged/devices.
func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	defer h.metrics.Timing(time.Now(), "devices")

	body, err := decodeBody(r)
	if err != nil {
		h.fail(w, r, familyAccount, err)
		return
	}

	op, _ := h.catalog.Account(catalog.OpGetDevices)
	checks := []func() error{
		func() error { return validate.StoredIDs(h.store, body) },
		func() error { return validate.Auth(r.Header, body, op) },
		func() error { return validate.Headers(r.Header, op) },
		func() error { return validate.Fields(body, op) },
		func() error { return validate.RequiredFields(body, op, true) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			h.fail(w, r, familyAccount, err)
			return
		}
	}

	devices := h.store.Listing()
	h.reply(w, familyAccount, respond.Success(deviceList{
		Total:    len(devices),
		PageSize: listPageSize,
		PageNo:   listPageNo,
		List:     devices,
	}))
}
