package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"bancohoras/auth"
	"bancohoras/db"
	"bancohoras/i18n"
	"bancohoras/models"
	"bancohoras/report"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler carries the injected dependencies for every route: the persistence
// context, the session manager and the login limiter.
type Handler struct {
	appName      string
	store        *db.Store
	auth         *auth.Manager
	loginLimiter *rateLimiter
	templates    map[string]map[string]*template.Template // lang → page
}

func New(appName string, store *db.Store, authMgr *auth.Manager) *Handler {
	return &Handler{
		appName:      appName,
		store:        store,
		auth:         authMgr,
		loginLimiter: newRateLimiter(),
		templates:    parseTemplates(),
	}
}

// parseTemplates builds one template set per language up front, with the T
// func bound to that language, so requests only execute.
func parseTemplates() map[string]map[string]*template.Template {
	pages, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		panic(fmt.Sprintf("glob templates: %v", err))
	}

	byLang := make(map[string]map[string]*template.Template)
	for _, lang := range i18n.Languages() {
		funcMap := template.FuncMap{
			"T": func(key string) string {
				return i18n.T(lang, key)
			},
		}

		set := make(map[string]*template.Template)
		for _, page := range pages {
			name := path.Base(page)
			if name == "layout.html" {
				continue
			}
			set[name] = template.Must(
				template.New(name).Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html", page))
		}
		byLang[lang] = set
	}
	return byLang
}

type route struct {
	method    string
	path      string
	handler   http.HandlerFunc
	protected bool
}

// routes is the single route table. Whether a route sits behind the auth
// gate is an explicit flag here, not something baked into each handler.
func (h *Handler) routes() []route {
	return []route{
		{http.MethodGet, "/", h.Index, false},
		{http.MethodGet, "/login", h.LoginForm, false},
		{http.MethodPost, "/login", h.Login, false},
		{http.MethodGet, "/logout", h.Logout, false},
		{http.MethodGet, "/funcionarios", h.ListEmployees, true},
		{http.MethodPost, "/funcionarios", h.CreateEmployee, true},
		{http.MethodGet, "/relatorios", h.Report, true},
		{http.MethodGet, "/relatorios/pdf", h.ReportPDF, true},
		{http.MethodGet, "/cadastro-funcionario", h.RegisterEmployeeForm, true},
		{http.MethodPost, "/cadastro-funcionario", h.CreateEmployee, true},
		{http.MethodGet, "/cadastro-horas", h.LogHoursForm, true},
		{http.MethodPost, "/cadastro-horas", h.LogHours, true},
		{http.MethodGet, "/editar-funcionario/{id:[0-9]+}", h.EditEmployeeForm, true},
		{http.MethodPost, "/editar-funcionario", h.EditEmployee, true},
	}
}

func (h *Handler) Register(r *mux.Router) {
	for _, rt := range h.routes() {
		var handler http.Handler = rt.handler
		if rt.protected {
			handler = h.auth.RequireAuth(handler)
		}
		r.Handle(rt.path, handler).Methods(rt.method)
	}
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index.html", map[string]any{
		"LoggedIn": h.auth.UserID(r) != 0,
	})
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", map[string]any{"Message": ""})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	lang := i18n.DetectLanguage(r)
	ip := getClientIP(r)

	if !h.loginLimiter.Allow(ip) {
		h.renderStatus(w, r, http.StatusTooManyRequests, "login.html", map[string]any{
			"Message": i18n.T(lang, "TooManyAttempts"),
		})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.store.GetUserByUsername(r.Context(), username)
	if err != nil && !errors.Is(err, db.ErrUserNotFound) {
		h.serverError(w, r, err)
		return
	}

	// One generic message for unknown user and wrong password alike.
	if errors.Is(err, db.ErrUserNotFound) || !db.CheckPasswordHash(password, user.PasswordHash) {
		h.loginLimiter.RecordFailure(ip)
		h.render(w, r, "login.html", map[string]any{"Message": i18n.T(lang, "LoginFailed")})
		return
	}

	h.loginLimiter.Reset(ip)
	if err := h.auth.SignIn(w, r, user.ID); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(w, r); err != nil {
		log.Errorf("logout: %s", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "funcionarios.html", map[string]any{"Employees": employees})
}

func (h *Handler) RegisterEmployeeForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "cadastro-funcionario.html", nil)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	nome := strings.TrimSpace(r.FormValue("nome"))
	if nome == "" {
		h.badRequest(w, r)
		return
	}

	if _, err := h.store.CreateEmployee(r.Context(), nome); err != nil {
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/funcionarios", http.StatusSeeOther)
}

func (h *Handler) LogHoursForm(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "cadastro-horas.html", map[string]any{"Employees": employees})
}

// LogHours increments both counters by the submitted deltas. Negative values
// are accepted and reduce the totals; there is no per-event ledger, so a
// mistake is undone by logging an offsetting entry.
func (h *Handler) LogHours(w http.ResponseWriter, r *http.Request) {
	id, err1 := strconv.Atoi(r.FormValue("funcionarioId"))
	horas, err2 := strconv.Atoi(r.FormValue("horas"))
	folga, err3 := strconv.Atoi(r.FormValue("folga"))
	if err1 != nil || err2 != nil || err3 != nil {
		h.badRequest(w, r)
		return
	}

	if err := h.store.AddHours(r.Context(), id, horas, folga); err != nil {
		if errors.Is(err, db.ErrEmployeeNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/funcionarios", http.StatusSeeOther)
}

func (h *Handler) EditEmployeeForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.badRequest(w, r)
		return
	}

	employee, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrEmployeeNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "editar-funcionario.html", map[string]any{"Employee": employee})
}

// EditEmployee overwrites the row with absolute values, unlike LogHours
// which increments.
func (h *Handler) EditEmployee(w http.ResponseWriter, r *http.Request) {
	id, err1 := strconv.Atoi(r.FormValue("id"))
	horasExtras, err2 := strconv.Atoi(r.FormValue("horas_extras"))
	horasFolga, err3 := strconv.Atoi(r.FormValue("horas_folga"))
	nome := strings.TrimSpace(r.FormValue("nome"))
	if err1 != nil || err2 != nil || err3 != nil || nome == "" {
		h.badRequest(w, r)
		return
	}

	err := h.store.UpdateEmployee(r.Context(), models.Employee{
		ID:          id,
		Nome:        nome,
		HorasExtras: horasExtras,
		HorasFolga:  horasFolga,
	})
	if err != nil {
		if errors.Is(err, db.ErrEmployeeNotFound) {
			h.notFound(w, r)
			return
		}
		h.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/funcionarios", http.StatusSeeOther)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, "relatorios.html", map[string]any{"Employees": employees})
}

func (h *Handler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListEmployees(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+report.Filename)
	if err := report.Generate(w, employees); err != nil {
		// Headers are gone by now; all we can do is log.
		log.Errorf("stream pdf report: %s", err)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	h.renderStatus(w, r, http.StatusOK, name, data)
}

// renderStatus executes the page into a buffer before touching the response,
// so a render failure can still produce a clean error status.
func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	lang := i18n.DetectLanguage(r)

	tmpl, ok := h.templates[lang][name]
	if !ok {
		h.serverError(w, r, fmt.Errorf("no template %q", name))
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["AppName"]; !exists {
		data["AppName"] = h.appName
	}
	data["Lang"] = lang
	data["csrfField"] = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Errorf("render %s: %s", name, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Errorf("%s %s: %s", r.Method, r.URL.Path, err)
	http.Error(w, i18n.T(i18n.DetectLanguage(r), "InternalError"), http.StatusInternalServerError)
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request) {
	http.Error(w, i18n.T(i18n.DetectLanguage(r), "InvalidForm"), http.StatusBadRequest)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, i18n.T(i18n.DetectLanguage(r), "EmployeeNotFound"), http.StatusNotFound)
}
