package weather

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	commonhttp "github.com/AlibekovAA/tada/internal/common/http"
	"github.com/AlibekovAA/tada/internal/common/logger"
)

type Handler struct {
	service    *Service
	errHandler *commonhttp.ErrorHandler
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, errHandler: commonhttp.NewErrorHandler(log)}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/humidity", h.humidity)
	r.Get("/temp", h.temperature)
}

func (h *Handler) humidity(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Humidity)
}

func (h *Handler) temperature(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Temperature)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, lookup func(context.Context, string) (string, error)) {
	text, err := lookup(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	commonhttp.WriteText(w, http.StatusOK, text)
}
