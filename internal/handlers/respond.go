package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	templpkg "github.com/a-h/templ"
	"github.com/shopspring/decimal"

	applog "keyiflimasa/internal/log"
	"keyiflimasa/internal/pricing"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func renderComponent(w http.ResponseWriter, r *http.Request, component templpkg.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	return decoder.Decode(dst)
}

// flexAmount accepts 12.5, "12.5" and "12,50" alike.
type flexAmount struct {
	decimal.Decimal
	set bool
}

func (f *flexAmount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}
		value, err := pricing.ParseAmount(text)
		if err != nil {
			return fmt.Errorf("invalid amount %q", text)
		}
		f.Decimal, f.set = value, true
		return nil
	}
	value, err := decimal.NewFromString(string(trimmed))
	if err != nil {
		return fmt.Errorf("invalid amount %s", trimmed)
	}
	f.Decimal, f.set = value, true
	return nil
}

// resourcePath splits the path below prefix into its id and the remaining
// segments. An empty id means the collection itself.
func resourcePath(path, prefix string) (string, []string) {
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" {
		return "", nil
	}
	segments := strings.Split(rest, "/")
	return segments[0], segments[1:]
}

var errInvalidID = errors.New("invalid identifier")

func parseID(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}
