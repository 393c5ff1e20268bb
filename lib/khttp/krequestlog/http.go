package krequestlog

import (
	"net/http"
	"time"

	"github.com/dunice-shabanov/passport-youtube/lib/khttp"
)

// statusWriter records the status code and size of a response.
type statusWriter struct {
	http.ResponseWriter
	status int
	length int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	n, err := sw.ResponseWriter.Write(b)
	sw.length += n
	return n, err
}

// NewHandler returns a new http.Handler that logs requests.
func NewHandler(next http.Handler, mods ...Modifier) http.Handler {
	opts := NewOptions(mods...)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		method := r.Method
		origin := khttp.ClientOrigin(r)

		if opts.LogStart {
			opts.Printer("HTTP START origin=%s method=%s path=%s", origin, method, path)
		}

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		if !opts.LogEnd {
			return
		}

		duration := time.Since(start)
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}

		if opts.Format == FormatApache {
			// minimal apache combined style
			opts.Printer("%s - - [%s] \"%s %s %s\" %d %d \"%s\" \"%s\" %v",
				origin,
				start.Format("02/Jan/2006:15:04:05 -0700"),
				method, r.URL.RequestURI(), r.Proto,
				status, sw.length,
				r.Referer(), r.UserAgent(),
				duration,
			)
		} else {
			opts.Printer("HTTP END origin=%s method=%s path=%s status=%d size=%d duration=%v", origin, method, path, status, sw.length, duration)
		}
	})
}
