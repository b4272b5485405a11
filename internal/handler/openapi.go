package handler

import (
	"net/http"

	"github.com/Sucrepapii/Vadtrans-sub000/spec"
)

// serveOpenAPI returns the embedded API description. Serving it from the
// binary keeps the published contract in sync with the running code.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
