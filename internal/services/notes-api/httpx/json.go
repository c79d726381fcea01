package httpx

import (
	"errors"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var marshaler = &runtime.JSONBuiltin{}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	b, err := marshaler.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"` + MsgInternal + `"}`))
		return
	}
	w.Header().Set("Content-Type", marshaler.ContentType(v))
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// WriteError writes err as an APIError. Unclassified errors are logged and
// reported as a 500 without their text.
func WriteError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	ae := AsAPIError(err)
	if ae.Status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	WriteJSON(w, ae.Status, ae)
}

func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"message": msg})
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := marshaler.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return BadRequest("Request body is required.")
		}
		return BadRequest("Invalid request body.")
	}
	return nil
}
