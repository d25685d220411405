package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/omni/timeout-syncer/logging"
)

func JSON(w http.ResponseWriter, r *http.Request, status int, res interface{}) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	if pretty, _ := strconv.ParseBool(r.URL.Query().Get("pretty")); pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(res); err != nil {
		Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func Error(w http.ResponseWriter, r *http.Request, err error) {
	logging.LoggerFromContext(r.Context()).WithError(err).Error("request handling failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
