package contactform

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/render"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

var (
	errRateLimited  = errors.New("contactform: too many submissions")
	errMountLimited = errors.New("contactform: too many new sessions")
)

// Form values read by the field route.
const (
	fieldParam = "field"
	valueParam = "value"
	eventParam = "event"
	eventBlur  = "blur"
)

type apiErrorResponse struct {
	Errors map[string]string `json:"errors,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func (c *Component) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if c.opts.Guard != nil {
		if err := c.opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}

	route := r.URL.Path
	if c.base != "/" {
		route = strings.TrimPrefix(route, c.base)
	}
	route = strings.TrimRight(route, "/")

	switch {
	case route == "":
		if !allowMethods(w, r, http.MethodGet) {
			return
		}
		c.handle(w, r, c.mount)
	case route == fieldRoute:
		if !allowMethods(w, r, http.MethodPost) {
			return
		}
		c.handle(w, r, c.field)
	case route == submitRoute:
		if !allowMethods(w, r, http.MethodPost) {
			return
		}
		c.handle(w, r, c.submit)
	case route == resetRoute:
		if !allowMethods(w, r, http.MethodPost) {
			return
		}
		c.handle(w, r, c.reset)
	case route == apiRoute:
		if !allowMethods(w, r, http.MethodPost) {
			return
		}
		c.api(w, r)
	case strings.HasPrefix(route, assetsRoute+"/"):
		if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		c.assets.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, method := range methods {
		if r.Method == method {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return false
}

// page is a rendered response.
type page struct {
	status int
	body   []byte
}

type pageHandler func(w http.ResponseWriter, r *http.Request) (page, error)

func (c *Component) handle(w http.ResponseWriter, r *http.Request, fn pageHandler) {
	p, err := fn(w, r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if p.body == nil {
		w.WriteHeader(p.status)
		return
	}
	w.Header().Set("Content-Type", c.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(p.status)
	_, _ = w.Write(p.body)
}

func (c *Component) mount(w http.ResponseWriter, r *http.Request) (page, error) {
	if err := c.allowMount(r); err != nil {
		return page{}, err
	}
	id := c.store.Create()
	c.setCookie(w, id)
	c.opts.Logger.Info("session mounted", zap.String("session", id))

	var body []byte
	err := c.store.With(id, func(state *contact.State) error {
		var err error
		body, err = c.renderState(r, id, state, render.ErrorMapping{})
		return err
	})
	return page{status: http.StatusOK, body: body}, err
}

func (c *Component) field(w http.ResponseWriter, r *http.Request) (page, error) {
	if err := c.parseForm(w, r); err != nil {
		return page{}, err
	}
	name := r.PostFormValue(fieldParam)
	value := r.PostFormValue(valueParam)
	blur := r.PostFormValue(eventParam) == eventBlur

	var body []byte
	err := c.withSession(w, r, func(id string, state *contact.State) error {
		var err error
		if blur {
			err = state.Blur(name)
		} else {
			err = state.Change(name, value)
		}
		if errors.Is(err, contact.ErrUnknownField) {
			return StatusError{Code: http.StatusBadRequest, Err: err}
		}
		if err != nil {
			return err
		}
		body, err = c.renderState(r, id, state, render.ErrorMapping{})
		return err
	})
	return page{status: http.StatusOK, body: body}, err
}

func (c *Component) submit(w http.ResponseWriter, r *http.Request) (page, error) {
	if err := c.allow(r); err != nil {
		return page{}, err
	}
	if err := c.parseForm(w, r); err != nil {
		return page{}, err
	}
	values := contact.ValuesFromForm(r.PostForm)

	status := http.StatusOK
	var body []byte
	err := c.withSession(w, r, func(id string, state *contact.State) error {
		result, rejected := state.SubmitWith(values, c.accept(r.Context()))
		failing := make([]string, 0, len(result.Issues))
		for _, issue := range result.Issues {
			failing = append(failing, issue.Field)
		}
		c.opts.Logger.Info("form submitted",
			zap.String("session", id),
			zap.Bool("valid", result.Valid),
			zap.Strings("failing", failing),
			zap.Int("attempt", state.Attempts()),
		)

		var extra render.ErrorMapping
		switch {
		case !result.Valid:
			status = http.StatusUnprocessableEntity
		case rejected != nil:
			status, extra = c.submitFailure(rejected)
		}

		var err error
		body, err = c.renderState(r, id, state, extra)
		return err
	})
	return page{status: status, body: body}, err
}

func (c *Component) reset(w http.ResponseWriter, r *http.Request) (page, error) {
	if err := c.parseForm(w, r); err != nil {
		return page{}, err
	}
	id := c.sessionID(r)
	if id != "" && c.store.Delete(id) {
		c.opts.Logger.Info("session unmounted", zap.String("session", id))
	}
	http.SetCookie(w, &http.Cookie{
		Name:     c.opts.CookieName,
		Value:    "",
		Path:     c.base,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return page{status: http.StatusNoContent}, nil
}

func (c *Component) api(w http.ResponseWriter, r *http.Request) {
	if err := c.allow(r); err != nil {
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusTooManyRequests, apiErrorResponse{Error: err.Error()})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, c.opts.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var values contact.Values
	if err := dec.Decode(&values); err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, code, apiErrorResponse{Error: fmt.Sprintf("contactform: decode body: %v", err)})
		return
	}

	submitted, err := contact.Submit(values)
	if err == nil && c.opts.OnSubmit != nil {
		if rejected := c.opts.OnSubmit(r.Context(), submitted); rejected != nil {
			c.writeAPISubmitFailure(w, rejected)
			return
		}
	}
	var verr *contact.ValidationError
	switch {
	case errors.As(err, &verr):
		c.opts.Logger.Info("api submission rejected", zap.Strings("failing", fieldNames(verr)))
		writeJSON(w, http.StatusUnprocessableEntity, apiErrorResponse{Errors: verr.Fields()})
	case err != nil:
		c.writeError(w, r, err)
	default:
		c.opts.Logger.Info("api submission accepted")
		writeJSON(w, http.StatusOK, submitted)
	}
}

func fieldNames(verr *contact.ValidationError) []string {
	names := make([]string, 0, len(verr.Result.Issues))
	for _, issue := range verr.Result.Issues {
		names = append(names, issue.Field)
	}
	return names
}

func (c *Component) allow(r *http.Request) error {
	if c.submits.allow(c.opts.ClientKey(r), c.opts.Now()) {
		return nil
	}
	c.opts.Logger.Warn("submission rate limited")
	return StatusError{Code: http.StatusTooManyRequests, Err: errRateLimited}
}

func (c *Component) allowMount(r *http.Request) error {
	if c.mounts.allow(c.opts.ClientKey(r), c.opts.Now()) {
		return nil
	}
	c.opts.Logger.Warn("session creation rate limited")
	return StatusError{Code: http.StatusTooManyRequests, Err: errMountLimited}
}

func (c *Component) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, c.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return StatusError{Code: http.StatusBadRequest, Err: err}
	}
	return nil
}

// sessionID reads the session from the posted form first, then the cookie.
func (c *Component) sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.PostFormValue(render.SessionFieldName)); id != "" {
		return id
	}
	if cookie, err := r.Cookie(c.opts.CookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// withSession runs fn against the request's session, mounting a new one when
// the id is missing or expired.
func (c *Component) withSession(w http.ResponseWriter, r *http.Request, fn func(id string, state *contact.State) error) error {
	if id := c.sessionID(r); id != "" {
		err := c.store.With(id, func(state *contact.State) error { return fn(id, state) })
		if !errors.Is(err, ErrSessionNotFound) {
			return err
		}
		c.opts.Logger.Debug("session expired, remounting", zap.String("session", id))
	}

	if err := c.allowMount(r); err != nil {
		return err
	}
	id := c.store.Create()
	c.setCookie(w, id)
	return c.store.With(id, func(state *contact.State) error { return fn(id, state) })
}

func (c *Component) setCookie(w http.ResponseWriter, id string) {
	cookie := &http.Cookie{
		Name:     c.opts.CookieName,
		Value:    id,
		Path:     c.base,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if c.opts.SessionTTL > 0 {
		cookie.MaxAge = int(c.opts.SessionTTL.Seconds())
	}
	http.SetCookie(w, cookie)
}

// renderState renders the session's form plus any extra messages from the
// submit handler.
func (c *Component) renderState(r *http.Request, id string, state *contact.State, extra render.ErrorMapping) ([]byte, error) {
	opts := render.OptionsFromState(state)
	opts.Action = mountPath(c.base, submitRoute)
	opts.ChangeAction = mountPath(c.base, fieldRoute)
	opts.Theme = c.opts.Theme

	hidden := []render.HiddenField{render.SessionField(id)}
	if c.opts.CSRFToken != nil {
		if token := c.opts.CSRFToken(r); token != "" {
			hidden = append(hidden, render.CSRFToken(c.opts.CSRFField, token))
		}
	}
	opts.HiddenFields = render.MergeHiddenFields(nil, hidden...)

	if len(extra.Fields) > 0 && opts.Errors == nil {
		opts.Errors = make(map[string][]string, len(extra.Fields))
	}
	for name, messages := range extra.Fields {
		opts.Errors[name] = append(opts.Errors[name], messages...)
	}
	opts.FormErrors = render.MergeFormErrors(opts.FormErrors, extra.Form...)

	body, err := c.renderer.Render(r.Context(), c.form, opts)
	if err != nil {
		return nil, fmt.Errorf("contactform: render %s: %w", c.renderer.Name(), err)
	}
	return body, nil
}

func (c *Component) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	if code == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "1")
	}
	if code >= http.StatusInternalServerError {
		c.opts.Logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	http.Error(w, http.StatusText(code), code)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
