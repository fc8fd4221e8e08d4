package http

import (
	"net/http"

	"github.com/AlibekovAA/tada/internal/common/logger"
)

func HealthHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("health check request")
		WriteText(w, http.StatusOK, "ok")
	}
}
