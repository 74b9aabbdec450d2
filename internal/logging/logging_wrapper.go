package logging

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// LoggingWrapper adapts a handler that reports failure through its error
// return. A fresh LogData is created per request.
func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		logData.AddData("requestID", middleware.GetReqID(req.Context()))
		log.Infof("Handler.%v.Start", loggingName)

		endTimer := logData.AddTiming("duration")
		err := handler(w, req.WithContext(WithLogData(req.Context(), logData)), logData)
		endTimer()
		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware is the chi counterpart of LoggingWrapper for handlers that do
// not return errors. The route is not matched yet when the request starts,
// so the Start line names the method and path; the final line names the
// matched route pattern. Responses with a 5xx status are logged at error
// level.
func Middleware(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logData := NewLogData(log)
			logData.AddData("requestID", middleware.GetReqID(req.Context()))
			logData.AddData("method", req.Method)

			log.Infof("Handler.%v.Start", req.Method+" "+req.URL.Path)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			endTimer := logData.AddTiming("duration")
			next.ServeHTTP(rec, req.WithContext(WithLogData(req.Context(), logData)))
			endTimer()

			loggingName := routeName(req)
			logData.AddData("status", rec.status)
			if rec.status >= http.StatusInternalServerError {
				logData.Log().Errorf("Handler.%v.Error", loggingName)
				return
			}
			logData.Log().Infof("Handler.%v.Complete", loggingName)
		})
	}
}

func routeName(req *http.Request) string {
	if rc := chi.RouteContext(req.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return req.URL.Path
}
