package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathUUID binds the {name} path parameter as a UUID the same way generated
// OpenAPI servers do. On failure it writes a 400 and returns false.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeErrorBody(w, http.StatusBadRequest, "invalid_parameter", "invalid "+name+": "+err.Error())
		return openapi_types.UUID{}, false
	}
	return id, true
}

// pathString binds a string path parameter, percent-decoding it.
func pathString(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeErrorBody(w, http.StatusBadRequest, "invalid_parameter", "invalid "+name+": "+err.Error())
		return "", false
	}
	return v, true
}

// queryString binds an optional form-style query parameter. Absent → "".
func queryString(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		writeErrorBody(w, http.StatusBadRequest, "invalid_parameter", "invalid "+name+": "+err.Error())
		return "", false
	}
	if v == nil {
		return "", true
	}
	return *v, true
}
