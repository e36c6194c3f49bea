package webui

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/jgoulah/energydash/internal/charts"
	"github.com/jgoulah/energydash/internal/dashboard"
)

//go:embed templates/*.html
var templatesFS embed.FS

// sectionOf maps a triggering element to the section to return to
var sectionOf = map[string]string{
	dashboard.ButtonAddAppliance:    dashboard.PageAppliances,
	dashboard.ButtonRemoveAppliance: dashboard.PageAppliances,
	dashboard.ButtonPredict:         dashboard.PagePredict,
	dashboard.ButtonChatSend:        dashboard.PageChat,
	dashboard.InputChat:             dashboard.PageChat,
}

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	page     *Page
	board    *charts.Board
	registry *dashboard.Registry
	logger   *zap.Logger
	tmpl     *template.Template
}

// NewRouter creates the chi router for the dashboard
func NewRouter(page *Page, board *charts.Board, registry *dashboard.Registry, logger *zap.Logger) http.Handler {
	h := &Handlers{
		page:     page,
		board:    board,
		registry: registry,
		logger:   logger,
	}

	funcMap := template.FuncMap{
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"navID": dashboard.NavElement,
	}
	h.tmpl = template.Must(template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html"))

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/", h.handleDashboard)
	r.Get("/pages/{name}", h.handleNavigate)
	r.Post("/events/{element}/{event}", h.handleEvent)
	r.Get("/charts/{file}", h.handleChart)
	r.Get("/api/state", h.handleState)

	return r
}

// dashboardData is the template context
type dashboardData struct {
	Snapshot
	Pages  []string
	Charts map[string]string // canvas -> chart instance ID
}

func (h *Handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	// Mirrors the page-load handler of a browser client
	if err := h.registry.Dispatch(r.Context(), "page", "load", nil); err != nil && !dashboard.IsAlerted(err) {
		h.logger.Warn("page load", zap.Error(err))
	}

	data := dashboardData{
		Snapshot: h.page.Snapshot(true),
		Pages:    dashboard.Pages,
		Charts:   make(map[string]string),
	}
	for _, canvas := range h.board.Canvases() {
		if c, ok := h.board.Get(canvas); ok {
			data.Charts[canvas] = c.ID
		}
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "dashboard.html", data); err != nil {
		h.logger.Error("Failed to render dashboard", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handlers) handleNavigate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !slices.Contains(dashboard.Pages, name) {
		http.NotFound(w, r)
		return
	}
	h.dispatch(w, r, dashboard.NavElement(name), "click", nil, name)
}

func (h *Handlers) handleEvent(w http.ResponseWriter, r *http.Request) {
	element := chi.URLParam(r, "element")
	event := chi.URLParam(r, "event")
	if !h.registry.Has(element, event) {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := dashboard.Inputs{}
	for key, values := range r.PostForm {
		if len(values) > 0 {
			in[key] = values[0]
		}
	}
	h.page.RememberInputs(in)

	section := sectionOf[element]
	if page, ok := dashboard.PageFromNav(element); ok {
		section = page
	}
	h.dispatch(w, r, element, event, in, section)
}

// dispatch runs an action and sends the browser back to the page, or returns
// the new state to JSON clients
func (h *Handlers) dispatch(w http.ResponseWriter, r *http.Request, element, event string, in dashboard.Inputs, section string) {
	err := h.registry.Dispatch(r.Context(), element, event, in)
	switch {
	case errors.Is(err, dashboard.ErrNoHandler):
		http.NotFound(w, r)
		return
	case err != nil && !dashboard.IsAlerted(err):
		h.logger.Error("dispatching event", zap.String("element", element), zap.String("event", event), zap.Error(err))
		h.page.Alert(err.Error())
	}

	if wantsJSON(r) {
		writeJSON(w, h.page.Snapshot(true), h.logger)
		return
	}
	target := "/"
	if section != "" {
		target += "#" + section
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handlers) handleChart(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	canvas, ext, ok := strings.Cut(file, ".")
	if !ok {
		http.NotFound(w, r)
		return
	}
	c, live := h.board.Get(canvas)
	if !live {
		http.NotFound(w, r)
		return
	}

	switch ext {
	case "png":
		var buf bytes.Buffer
		if err := charts.RenderPNG(&buf, c, 0, 0); err != nil {
			h.logger.Warn("rendering chart", zap.String("canvas", canvas), zap.Error(err))
			http.Error(w, "chart unavailable", http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(buf.Bytes())
	case "json":
		writeJSON(w, c.ChartJS(), h.logger)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handlers) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.page.Snapshot(false), h.logger)
}

// requestLogger logs each request with zap
func (h *Handlers) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}
