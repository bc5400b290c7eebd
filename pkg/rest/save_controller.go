package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mailclip/mailclip/pkg/dispatch"
	"github.com/mailclip/mailclip/pkg/record"
	"github.com/mailclip/mailclip/pkg/rest/model"
	"github.com/mailclip/mailclip/pkg/server/web"
)

// SaveMailV1 accepts a mail submission and persists it as a page.
func SaveMailV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	sub := record.MailSubmission{}
	if err := json.NewDecoder(req.Body).Decode(&sub); err != nil {
		return web.RenderError(w, http.StatusBadRequest, "malformed submission: "+err.Error())
	}

	result, err := ctx.Dispatcher.SaveMail(req.Context(), sub)
	if err != nil {
		return renderSaveError(w, err)
	}
	return web.RenderJSON(w, result)
}

// SaveBillV1 accepts a bill submission and persists it as a page.
func SaveBillV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	sub := record.BillSubmission{}
	if err := json.NewDecoder(req.Body).Decode(&sub); err != nil {
		return web.RenderError(w, http.StatusBadRequest, "malformed submission: "+err.Error())
	}

	result, err := ctx.Dispatcher.SaveBill(req.Context(), sub)
	if err != nil {
		return renderSaveError(w, err)
	}
	return web.RenderJSON(w, result)
}

// MailOptionsV1 returns the mail collection's select vocabulary, wrapped in
// an options field.  Lookup failures have already degraded to an empty map by
// this point.
func MailOptionsV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	return web.RenderJSON(w,
		model.JSONOptionsV1{Options: ctx.Dispatcher.MailOptions(req.Context())})
}

// BillOptionsV1 returns the bill collection's select vocabulary.
func BillOptionsV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) error {
	return web.RenderJSON(w,
		model.JSONOptionsV1{Options: ctx.Dispatcher.BillOptions(req.Context())})
}

// renderSaveError maps save failures onto response codes: configuration
// problems are the operator's to fix, anything else is an upstream failure.
func renderSaveError(w http.ResponseWriter, err error) error {
	var confErr *dispatch.ConfigError
	if errors.As(err, &confErr) {
		return web.RenderError(w, http.StatusPreconditionFailed, confErr.Error())
	}
	return web.RenderError(w, http.StatusBadGateway, err.Error())
}
