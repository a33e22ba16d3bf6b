package handler

import (
	"net/http"
	"sync"

	"charter/config"
	"charter/di"
	"charter/shared/logger"
	transport "charter/transport/http"
)

var (
	server     *transport.HTTP
	serverOnce sync.Once
)

// Handler serves the API from a serverless function. The dependency graph is built on the
// first invocation and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	serverOnce.Do(func() {
		logger.InitLogger()
		logger.SetLogLevel(config.Get())

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
