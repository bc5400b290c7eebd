// Package rest implements the HTTP API used by the capture clients.
package rest

import (
	"github.com/gorilla/mux"
	"github.com/mailclip/mailclip/pkg/server/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes populates the routes for the REST interface.
func SetupRoutes(r *mux.Router) {
	r.Path("/api/save-mail").Handler(
		web.Handler(SaveMailV1)).Name("SaveMailV1").Methods("POST")
	r.Path("/api/save-bill").Handler(
		web.Handler(SaveBillV1)).Name("SaveBillV1").Methods("POST")
	r.Path("/api/options").Handler(
		web.Handler(MailOptionsV1)).Name("MailOptionsV1").Methods("GET")
	r.Path("/api/bill-options").Handler(
		web.Handler(BillOptionsV1)).Name("BillOptionsV1").Methods("GET")
	r.Path("/api/monitor/saves").Handler(
		web.Handler(MonitorSavesV1)).Name("MonitorSavesV1").Methods("GET")

	r.Path("/metrics").Handler(promhttp.Handler()).Name("Metrics").Methods("GET")
}
