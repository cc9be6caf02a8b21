package contactform

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

// Component bundles the form handler with its session store, rate limiters,
// and routing helpers.
type Component struct {
	opts     Options
	form     model.FormModel
	renderer render.Renderer
	store    *Store
	submits  *limiters
	mounts   *limiters
	base     string
	assets   http.Handler
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) (*Component, error) {
	opts := NewOptions(fns...)
	base := mountPath(opts.BasePath, "")

	var form model.FormModel
	if opts.Form != nil {
		form = *opts.Form
	} else {
		loaded, err := openapi.DefaultForm()
		if err != nil {
			return nil, fmt.Errorf("contactform: load form: %w", err)
		}
		form = loaded
	}

	renderer := opts.Renderer
	if renderer == nil {
		html, err := vanilla.New(
			vanilla.WithStylesheet(mountPath(base, assetsRoute+"/"+vanilla.StylesheetName)),
			vanilla.WithScript(mountPath(base, assetsRoute+"/"+vanilla.ScriptName)),
		)
		if err != nil {
			return nil, fmt.Errorf("contactform: build renderer: %w", err)
		}
		renderer = html
	}

	store := NewStore(opts.SessionTTL)
	store.now = opts.Now

	assetsPrefix := mountPath(base, assetsRoute) + "/"
	return &Component{
		opts:     opts,
		form:     form,
		renderer: renderer,
		store:    store,
		submits:  newLimiters(opts.RateLimit, opts.RateBurst),
		mounts:   newLimiters(opts.MountRateLimit, opts.MountBurst),
		base:     base,
		assets:   http.StripPrefix(assetsPrefix, http.FileServer(http.FS(vanilla.AssetsFS()))),
	}, nil
}

// Run sweeps expired sessions and idle rate limit buckets every interval
// until ctx is done.
func (c *Component) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := c.opts.Now()
			sessions := c.store.Sweep()
			buckets := c.submits.sweep(now) + c.mounts.sweep(now)
			if sessions > 0 || buckets > 0 {
				c.opts.Logger.Debug("swept idle state", zap.Int("sessions", sessions), zap.Int("buckets", buckets))
			}
		}
	}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Sessions exposes the session store.
func (c *Component) Sessions() *Store {
	return c.store
}

// BasePath is the normalised mount path of the form.
func (c *Component) BasePath() string {
	return c.base
}

// Handler returns the net/http handler serving every form route.
func (c *Component) Handler() http.Handler {
	return http.HandlerFunc(c.serveHTTP)
}

// RegisterRoutes registers the component handler on mux and returns the
// registered patterns.
func (c *Component) RegisterRoutes(mux Mux) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("contactform: missing mux")
	}
	handler := c.Handler()
	patterns := []string{c.base, strings.TrimRight(c.base, "/") + "/"}
	if c.base == "/" {
		patterns = patterns[1:]
	}
	for _, pattern := range patterns {
		mux.Handle(pattern, handler)
	}
	return patterns, nil
}
