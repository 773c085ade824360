package health

import (
	"io"
	"net/http"
)

// Liveness reports that the process is running. It always answers 200 "ALIVE".
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ALIVE")
}
