package contactform

import (
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/render"
)

const (
	defaultBasePath     = "/contact"
	defaultSessionTTL   = 30 * time.Minute
	defaultCookieName   = "contactform_session"
	defaultMaxBodyBytes = 64 << 10
	defaultCSRFField    = "_csrf"
)

// GuardFunc can reject a request before it reaches the form. Returning an
// HTTPError controls the status code; any other error yields 403.
type GuardFunc func(r *http.Request) error

type Options struct {
	BasePath     string
	SessionTTL   time.Duration
	CookieName   string
	MaxBodyBytes int64

	// RateLimit and RateBurst size each client's token bucket for the submit
	// and API routes. A zero RateLimit disables limiting.
	RateLimit rate.Limit
	RateBurst int

	// MountRateLimit and MountBurst size each client's bucket for new
	// sessions, both explicit mounts and remounts of unknown ids.
	MountRateLimit rate.Limit
	MountBurst     int

	// ClientKey identifies the client rate limits apply to.
	ClientKey func(*http.Request) string

	// OnSubmit receives every submission that passes validation.
	OnSubmit SubmitFunc

	// CSRFToken, when set, adds a hidden CSRFField input to every render.
	// Checking the token is left to the Guard.
	CSRFField string
	CSRFToken func(*http.Request) string

	Logger   *zap.Logger
	Renderer render.Renderer
	Form     *model.FormModel
	Theme    *theme.RendererConfig
	Guard    GuardFunc

	// Now is used for session expiry.
	Now func() time.Time
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		BasePath:       defaultBasePath,
		SessionTTL:     defaultSessionTTL,
		CookieName:     defaultCookieName,
		MaxBodyBytes:   defaultMaxBodyBytes,
		RateLimit:      5,
		RateBurst:      10,
		MountRateLimit: 2,
		MountBurst:     20,
		ClientKey:      RemoteHost,
		CSRFField:      defaultCSRFField,
		Logger:         zap.NewNop(),
		Now:            time.Now,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.BasePath == "" {
		opts.BasePath = defaultBasePath
	}
	if opts.SessionTTL < 0 {
		opts.SessionTTL = 0
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.RateLimit < 0 {
		opts.RateLimit = 0
	}
	if opts.RateLimit > 0 && opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}
	if opts.MountRateLimit < 0 {
		opts.MountRateLimit = 0
	}
	if opts.MountRateLimit > 0 && opts.MountBurst <= 0 {
		opts.MountBurst = 1
	}
	if opts.ClientKey == nil {
		opts.ClientKey = RemoteHost
	}
	if opts.CSRFField == "" {
		opts.CSRFField = defaultCSRFField
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func WithBasePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.BasePath = path
	}
}

func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionTTL = ttl
	}
}

func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

func WithMaxBodyBytes(n int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = n
	}
}

// WithRateLimit sets the submissions allowed per second and the burst for
// each client.
func WithRateLimit(perSecond float64, burst int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RateLimit = rate.Limit(perSecond)
		o.RateBurst = burst
	}
}

// WithMountRateLimit sets the new sessions allowed per second and the burst
// for each client.
func WithMountRateLimit(perSecond float64, burst int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MountRateLimit = rate.Limit(perSecond)
		o.MountBurst = burst
	}
}

func WithClientKey(fn func(*http.Request) string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ClientKey = fn
	}
}

// WithSubmitHandler delivers valid submissions, for example by mail. See
// SubmitError for rejecting one with messages.
func WithSubmitHandler(fn SubmitFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.OnSubmit = fn
	}
}

// WithCSRFToken emits the request's token as a hidden field named field.
func WithCSRFToken(field string, token func(*http.Request) string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CSRFField = field
		o.CSRFToken = token
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithRenderer replaces the default vanilla HTML renderer.
func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

// WithForm replaces the embedded form definition.
func WithForm(form model.FormModel) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Form = &form
	}
}

func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Now = now
	}
}
