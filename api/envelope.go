package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/jrsteele09/go-tasks/internal/errors"
	"github.com/rs/zerolog/log"
)

var (
	errUnauthorized       = apperrors.New(http.StatusUnauthorized, "Unauthorized")
	errInvalidCredentials = apperrors.New(http.StatusUnauthorized, "Invalid credentials")
	errUserExists         = apperrors.New(http.StatusConflict, "User already exists")
	errInvalidInput       = apperrors.New(http.StatusBadRequest, "Invalid request body")
	errUnknownProcedure   = apperrors.New(http.StatusNotFound, "Unknown procedure")
	errMethodNotAllowed   = apperrors.New(http.StatusMethodNotAllowed, "Procedures must be called with POST")
	errInternal           = apperrors.New(http.StatusInternalServerError, "Internal server error")
)

// Void is the result of procedures that return nothing. It encodes as null.
type Void struct{}

func (Void) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// TaskID is the input of the single task procedures. It accepts a bare number,
// a numeric string or {"id": n}.
type TaskID int

func (id *TaskID) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*id = TaskID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*id = TaskID(n)
		return nil
	}
	var wrapped struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	*id = TaskID(wrapped.ID)
	return nil
}

type dataEnvelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error apperrors.Error `json:"error"`
}

// procedure adapts a typed procedure body to the JSON envelope
func procedure[In, Out any](fn func(w http.ResponseWriter, r *http.Request, in In) (Out, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in In
		if err := decodeInput(r, &in); err != nil {
			writeError(w, errInvalidInput)
			return
		}
		out, err := fn(w, r, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dataEnvelope{Data: out})
	}
}

// decodeInput reads the request body into in. An empty body leaves in at its zero value.
func decodeInput(r *http.Request, in any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, in)
}

func writeError(w http.ResponseWriter, err error) {
	var coded apperrors.Error
	if !apperrors.As(err, &coded) {
		coded = apperrors.New(apperrors.Code(err), http.StatusText(apperrors.Code(err)))
	}
	writeJSON(w, coded.Code, errorEnvelope{Error: coded})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}
