package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/veya/analytics-dashboard/pkg/format"
	"github.com/veya/analytics-dashboard/pkg/server/middleware"
	"github.com/veya/analytics-dashboard/pkg/server/sessions"
	"github.com/veya/analytics-dashboard/pkg/services/livestream"
	"github.com/veya/analytics-dashboard/pkg/services/shell"
	"github.com/veya/analytics-dashboard/pkg/viewmodel"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultLoadTimeout = 10 * time.Second

	staleListNotice = "The event list was refreshed. Select the event again."
)

type Config struct {
	// PageRefresh is how often the live page reloads itself. Zero disables it.
	PageRefresh time.Duration
	// LoadTimeout bounds how long the live page waits for the first response.
	LoadTimeout time.Duration
	Location    *time.Location
}

type Handler struct {
	pages  map[string]*template.Template
	config Config
}

type tabLink struct {
	Title  string
	Href   string
	Active bool
}

type page struct {
	Title    string
	Subtitle string
	Tabs     []tabLink
	Dark     bool
	Refresh  int
	Live     *viewmodel.LivePage
	Columns  []string
	Reports  *viewmodel.ReportsPage
	NotFound string
	Notice   string
}

func NewHandler(config Config) (*Handler, error) {
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.LoadTimeout <= 0 {
		config.LoadTimeout = defaultLoadTimeout
	}

	funcs := template.FuncMap{
		"eventClass": func(c format.Color) string {
			return "event-" + string(c)
		},
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"live", "reports"} {
		t, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = t
	}

	return &Handler{pages: pages, config: config}, nil
}

// Mount registers the dashboard pages on r. Every page expects the
// session middleware to run first.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", h.Index)
	r.Route("/live", func(r chi.Router) {
		r.Get("/", h.Live)
		r.Post("/pause", h.Pause)
		r.Post("/resume", h.Resume)
		r.Post("/refresh", h.Refresh)
		r.Get("/events/{index}", h.EventDetail)
	})
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.Reports)
		r.Get("/{id}", h.Report)
	})
	r.Post("/theme", h.Theme)
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/live", http.StatusFound)
}

func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Switch(shell.TabLiveStream)
	if stream := sess.Shell.LiveStream(); stream != nil {
		stream.CloseDetail()
	}
	h.renderLive(w, r, sess, http.StatusOK, "")
}

func (h *Handler) EventDetail(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Switch(shell.TabLiveStream)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	stream := sess.Shell.LiveStream()
	if err == nil && stream != nil {
		h.waitLoaded(r.Context(), stream)
		err = selectEvent(stream, r.URL.Query().Get("v"), index)
	}
	if errors.Is(err, livestream.ErrStaleList) {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("event link refers to a replaced list")
		h.renderLive(w, r, sess, http.StatusConflict, staleListNotice)
		return
	}
	if err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("event detail not available")
		h.renderLive(w, r, sess, http.StatusNotFound, "")
		return
	}
	h.renderLive(w, r, sess, http.StatusOK, "")
}

func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	h.liveAction(w, r, func(s liveStream) { s.Pause() })
}

func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	h.liveAction(w, r, func(s liveStream) { s.Resume() })
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.liveAction(w, r, func(s liveStream) { s.Refresh() })
}

func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	sess.Switch(shell.TabReports)
	view := sess.Shell.Reports()
	view.Back()
	view.Activate(ctx)

	h.renderReports(w, r, sess, viewmodel.NewReportsPage(view.Snapshot()), "", http.StatusOK)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	sess.Switch(shell.TabReports)
	view := sess.Shell.Reports()
	view.Activate(ctx)

	id := chi.URLParam(r, "id")
	report, found := view.Find(id)
	if !found {
		view.Back()
		h.renderReports(w, r, sess, viewmodel.NewReportsPage(view.Snapshot()),
			fmt.Sprintf("Report %q not found", id), http.StatusNotFound)
		return
	}

	view.Load(ctx, report)
	h.renderReports(w, r, sess, viewmodel.NewReportsPage(view.Snapshot()), "", http.StatusOK)
}

func (h *Handler) Theme(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Shell.ToggleTheme()

	target := "/" + sess.Shell.Tab().Slug()
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode health status")
	}
}

// selectEvent checks the list generation carried by the link when there is one.
func selectEvent(stream *livestream.Stream, generation string, index int) error {
	if generation == "" {
		return stream.Select(index)
	}
	gen, err := strconv.ParseUint(generation, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid list generation %q: %w", generation, err)
	}
	return stream.SelectIn(gen, index)
}

type liveStream interface {
	Pause()
	Resume()
	Refresh()
}

func (h *Handler) liveAction(w http.ResponseWriter, r *http.Request, action func(liveStream)) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Switch(shell.TabLiveStream)
	if stream := sess.Shell.LiveStream(); stream != nil {
		action(stream)
	}
	http.Redirect(w, r, "/live", http.StatusSeeOther)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		zerolog.Ctx(r.Context()).Error().Msg("request has no dashboard session")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func (h *Handler) waitLoaded(ctx context.Context, stream interface {
	WaitLoaded(context.Context) error
}) {
	ctx, cancel := context.WithTimeout(ctx, h.config.LoadTimeout)
	defer cancel()
	if err := stream.WaitLoaded(ctx); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("rendering live page before first response")
	}
}

func (h *Handler) renderLive(w http.ResponseWriter, r *http.Request, sess *sessions.Session, status int, notice string) {
	stream := sess.Shell.LiveStream()
	if stream == nil {
		http.Error(w, "live stream unavailable", http.StatusInternalServerError)
		return
	}
	h.waitLoaded(r.Context(), stream)

	live := viewmodel.NewLivePage(stream.Snapshot(), h.config.Location)
	p := h.newPage(sess, shell.TabLiveStream)
	p.Live = &live
	p.Columns = viewmodel.EventColumns
	p.Notice = notice
	if !live.Paused && live.Detail == nil {
		p.Refresh = int(h.config.PageRefresh.Seconds())
	}
	h.render(r.Context(), w, "live", p, status)
}

func (h *Handler) renderReports(w http.ResponseWriter, r *http.Request, sess *sessions.Session, reports viewmodel.ReportsPage, notFound string, status int) {
	p := h.newPage(sess, shell.TabReports)
	p.Reports = &reports
	p.Columns = viewmodel.ReportColumns
	p.NotFound = notFound
	h.render(r.Context(), w, "reports", p, status)
}

func (h *Handler) newPage(sess *sessions.Session, tab shell.Tab) page {
	p := page{
		Title:    shell.Title,
		Subtitle: tab.Subtitle(),
		Dark:     sess.Shell.Dark(),
	}
	for _, t := range shell.Tabs {
		p.Tabs = append(p.Tabs, tabLink{Title: t.Title(), Href: "/" + t.Slug(), Active: t == tab})
	}
	return p
}

func (h *Handler) render(ctx context.Context, w http.ResponseWriter, name string, p page, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages[name].ExecuteTemplate(w, "layout.html", p); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("page", name).Msg("failed to render page")
	}
}
