package gate

import (
	"strings"

	"github.com/aretw0/careerflow/pkg/domain"
)

// Kind is the outcome of a gate evaluation.
type Kind uint8

const (
	// KindAllow lets the navigation through.
	KindAllow Kind = iota
	// KindRedirect sends the user to Decision.Target instead.
	KindRedirect
)

// Decision is the result of evaluating a navigation.
type Decision struct {
	Kind   Kind
	Target string
}

// Allow builds an allowing decision.
func Allow() Decision {
	return Decision{Kind: KindAllow}
}

// Redirect builds a redirecting decision.
func Redirect(target string) Decision {
	return Decision{Kind: KindRedirect, Target: target}
}

// Allowed reports whether the navigation may proceed.
func (d Decision) Allowed() bool {
	return d.Kind == KindAllow
}

func (d Decision) String() string {
	if d.Allowed() {
		return "allow"
	}
	return "redirect " + d.Target
}

// StagePath binds a stage to the page path that renders it.
type StagePath struct {
	Stage domain.Stage
	Path  string
}

// Gate decides, from a session's stage flags alone, whether a page may be visited.
// It is pure: evaluating never mutates the flags or anything else.
type Gate struct {
	stages []StagePath
	login  string
	public []string
	bypass []string
}

// Option configures a Gate.
type Option func(*Gate)

// WithStagePath overrides the page path of a stage.
func WithStagePath(stage domain.Stage, path string) Option {
	return func(g *Gate) {
		for i := range g.stages {
			if g.stages[i].Stage == stage {
				g.stages[i].Path = path
			}
		}
	}
}

// WithLoginPath overrides the login page path.
func WithLoginPath(path string) Option {
	return func(g *Gate) {
		g.login = path
	}
}

// WithPublic adds paths that need no session.
func WithPublic(paths ...string) Option {
	return func(g *Gate) {
		g.public = append(g.public, paths...)
	}
}

// WithBypass adds path prefixes the gate never looks at (assets, APIs).
func WithBypass(prefixes ...string) Option {
	return func(g *Gate) {
		g.bypass = append(g.bypass, prefixes...)
	}
}

// DefaultPublic lists the informational pages reachable without a session.
var DefaultPublic = []string{"/", "/how-it-works", "/about", "/contact"}

// DefaultBypass lists the prefixes skipped by the gate.
var DefaultBypass = []string{"/_next", "/api", "/static", "/metrics", "/healthz"}

// New creates a Gate with the default path table.
func New(opts ...Option) *Gate {
	g := &Gate{
		login:  domain.PathLogin,
		public: append([]string(nil), DefaultPublic...),
		bypass: append([]string(nil), DefaultBypass...),
	}
	for _, s := range domain.Stages {
		g.stages = append(g.stages, StagePath{Stage: s, Path: s.Path()})
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGate = New()

// Evaluate runs the default gate. A nil flags pointer means there is no session.
func Evaluate(path string, flags *domain.StageFlags) Decision {
	return defaultGate.Evaluate(path, flags)
}

// Evaluate decides whether path may be visited with the given flags.
// A nil flags pointer means there is no (valid) session.
func (g *Gate) Evaluate(path string, flags *domain.StageFlags) Decision {
	path = normalize(path)

	if g.bypassed(path) {
		return Allow()
	}

	if matches(path, g.login) {
		if flags == nil {
			return Allow()
		}
		return Redirect(g.Furthest(*flags))
	}

	for _, p := range g.public {
		if matches(path, p) {
			return Allow()
		}
	}

	if flags == nil {
		return Redirect(g.login)
	}

	idx := g.stageIndex(path)
	if idx < 0 {
		return Allow()
	}
	for _, prev := range g.stages[:idx] {
		if !flags.Done(prev.Stage) {
			return Redirect(prev.Path)
		}
	}
	return Allow()
}

// Furthest returns the path of the stage right after the last completed one.
// Flags are scanned from the last stage backward.
func (g *Gate) Furthest(flags domain.StageFlags) string {
	for i := len(g.stages) - 1; i >= 0; i-- {
		if flags.Done(g.stages[i].Stage) && i+1 < len(g.stages) {
			return g.stages[i+1].Path
		}
	}
	return g.stages[0].Path
}

// StageFor returns the stage rendered at path.
func (g *Gate) StageFor(path string) (domain.Stage, bool) {
	idx := g.stageIndex(normalize(path))
	if idx < 0 {
		return "", false
	}
	return g.stages[idx].Stage, true
}

// Stages returns the stage table in canonical order.
func (g *Gate) Stages() []StagePath {
	return append([]StagePath(nil), g.stages...)
}

// LoginPath returns the login page path.
func (g *Gate) LoginPath() string {
	return g.login
}

func (g *Gate) stageIndex(path string) int {
	for i, s := range g.stages {
		if matches(path, s.Path) {
			return i
		}
	}
	return -1
}

func (g *Gate) bypassed(path string) bool {
	if strings.Contains(path, ".") {
		return true
	}
	for _, prefix := range g.bypass {
		if matches(path, prefix) {
			return true
		}
	}
	return false
}

// matches is segment-aware: "/jd" matches "/jd" and "/jd/x" but not "/jdx".
func matches(path, route string) bool {
	if path == route {
		return true
	}
	if route == "/" {
		return false
	}
	return strings.HasPrefix(path, route+"/")
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
