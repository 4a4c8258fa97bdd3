// Package bind decodes request bodies into input structs and runs their
// validation rules in one step.
package bind

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/petpalace/petpalace/pkg/validate"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// ErrValidation is returned by JSON when the decoded struct fails its
// validate tags. The field messages travel alongside in the second return.
var ErrValidation = errors.New("validation failed")

// JSON decodes the request body into dest and validates it. On a malformed
// body it returns a decode error with a nil field map; on rule failures it
// returns ErrValidation plus the per-field messages.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		return nil, err
	}

	if errs := validate.Struct(dest); len(errs) > 0 {
		return errs, ErrValidation
	}
	return nil, nil
}

// Query reads a single query parameter with a fallback.
func Query(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}
