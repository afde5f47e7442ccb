package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/accountdesk/ecode"
)

// Exception is a failed reply: an HTTP status, a business code, and for
// validation failures the per-field messages.
type Exception struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func newResponse(status, code int, message string, errs ...any) *Exception {
	e := &Exception{Status: status, Code: code, Message: message}
	if len(errs) > 0 {
		e.Errors = errs[0]
	}
	return e
}

// Success replies 200 with data.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode replies with statusCode and data. A string, or no data at
// all, is sent as {"message": ...}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var body any = map[string]string{"message": "ok"}
	if len(data) > 0 && data[0] != nil {
		body = data[0]
		if msg, ok := body.(string); ok {
			body = map[string]string{"message": msg}
		}
	}
	writeJSON(w, statusCode, body)
}

// Fail replies with e. A nil e is an internal server error.
func Fail(w http.ResponseWriter, e *Exception) {
	if e == nil {
		e = InternalServer(ecode.Text(ecode.ServerErr))
	}
	out := *e
	if out.Status == 0 {
		out.Status = http.StatusBadRequest
	}
	if out.Code == 0 {
		out.Code = ecode.RequestErr
	}
	if out.Message == "" {
		out.Message = ecode.Text(out.Code)
	}
	writeJSON(w, out.Status, &out)
}

func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(res)
}
