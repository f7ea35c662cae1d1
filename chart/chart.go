package chart

import (
	"io"
	"sync"
	"time"

	"github.com/ansel1/merry/v2"
	"github.com/lomik/zapwriter"
	uuid "github.com/satori/go.uuid"
	"github.com/tevino/abool"
	"go.uber.org/zap"

	"github.com/ridegraph/ridegraph/chart/frame"
	"github.com/ridegraph/ridegraph/chart/surface"
	"github.com/ridegraph/ridegraph/syncbus"
)

// ErrNotInitialized is returned by operations that need attached surfaces.
var ErrNotInitialized = merry.Sentinel("chart is not initialized")

// Bridge is the synchronization contract a chart consumes. syncbus.Bus
// satisfies it; tests inject fakes.
type Bridge interface {
	Register(id string, sink syncbus.Sink)
	Unregister(id string)
	BroadcastHover(ev syncbus.HoverEvent, originID string)
}

// Config holds construction-time chart parameters.
type Config struct {
	ID         string // generated when empty
	Kind       Kind
	Width      int
	Height     int
	DrawBudget int // 0 means DefaultDrawBudget
	Theme      string
	GapPolicy  GapPolicy
}

// Option customizes a chart at construction.
type Option func(*Chart)

// WithScheduler injects a frame scheduler (tests use the manual one).
func WithScheduler(s frame.Scheduler) Option {
	return func(c *Chart) { c.baseSched = s }
}

// WithSurfaceFactory selects the raster backend.
func WithSurfaceFactory(f surface.Factory) Option {
	return func(c *Chart) { c.newSurface = f }
}

// WithBridge injects the synchronization bus.
func WithBridge(b Bridge) Option {
	return func(c *Chart) { c.bridge = b }
}

// WithLogger overrides the default zapwriter logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chart) { c.logger = l }
}

type pointerState int

const (
	stateIdle pointerState = iota
	stateHoveringPlot
	stateHoveringOutside
)

type selectionState struct {
	selected     int
	hasSelection bool
}

// Chart is one time-series panel. It owns one dataset at a time and the
// compute/display surface pair. All exported methods are safe for
// concurrent use; internally the chart is single-owner, serialized by one
// mutex that scheduled callbacks also take.
type Chart struct {
	mu  sync.Mutex
	cfg Config

	id     string
	kind   KindSpec
	logger *zap.Logger

	baseSched frame.Scheduler
	sched     frame.Scheduler // lock-wrapped view of baseSched
	ownSched  *frame.TimerScheduler
	bridge    Bridge

	newSurface surface.Factory
	compute    surface.Surface
	display    surface.Surface

	ds     *Dataset
	axis   TimeAxis
	vp     Viewport
	ranges map[AxisRole]AxisRange
	plot   surface.Rect
	stats  RenderStats

	sel   selectionState
	state pointerState

	onHover    func(index int, d *Dataset)
	onHoverOut func()

	destroyed *abool.AtomicBool
	inited    bool
	initRetry frame.Cancel

	moveThrottle *frame.Throttle
	syncRepaint  *frame.Coalescer
	pendingSync  syncbus.HoverEvent
	hasPending   bool

	// Outbound hover broadcast queued under c.mu, delivered after unlock.
	pendingBroadcast syncbus.HoverEvent
	hasBroadcast     bool

	gestureDecided bool
	scrubbing      bool
	touchStartX    float64
	touchStartY    float64
}

// lockedScheduler delivers scheduled callbacks under the chart mutex and
// drops them once the chart is destroyed.
type lockedScheduler struct {
	inner frame.Scheduler
	c     *Chart
}

func (s *lockedScheduler) wrap(fn func()) func() {
	return func() {
		s.c.mu.Lock()
		if s.c.destroyed.IsSet() {
			s.c.mu.Unlock()
			return
		}
		fn()
		ev, ok := s.c.takeBroadcastLocked()
		s.c.mu.Unlock()
		if ok {
			s.c.bridge.BroadcastHover(ev, s.c.id)
		}
	}
}

func (s *lockedScheduler) OnNextFrame(fn func()) frame.Cancel {
	return s.inner.OnNextFrame(s.wrap(fn))
}

func (s *lockedScheduler) After(d time.Duration, fn func()) frame.Cancel {
	return s.inner.After(d, s.wrap(fn))
}

func (s *lockedScheduler) Now() time.Time { return s.inner.Now() }

// New builds a chart. Call Init before feeding it data or events.
func New(cfg Config, opts ...Option) *Chart {
	c := &Chart{
		cfg:        cfg,
		kind:       Spec(cfg.Kind),
		destroyed:  abool.New(),
		newSurface: surface.NewRasterSurface,
	}
	if c.cfg.DrawBudget <= 0 {
		c.cfg.DrawBudget = DefaultDrawBudget
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.ID != "" {
		c.id = cfg.ID
	} else {
		c.id = uuid.NewV4().String()
	}
	if c.logger == nil {
		c.logger = zapwriter.Logger("chart").With(zap.String("kind", string(cfg.Kind)), zap.String("id", c.id))
	}
	if c.baseSched == nil {
		ts := frame.NewTimerScheduler()
		c.baseSched = ts
		c.ownSched = ts
	}
	c.sched = &lockedScheduler{inner: c.baseSched, c: c}
	c.moveThrottle = frame.NewThrottle(c.sched, c.processMoveLocked)
	c.syncRepaint = frame.NewCoalescer(c.sched, c.syncFrameLocked)
	return c
}

// ID returns the chart's synchronization identity.
func (c *Chart) ID() string { return c.id }

// Init attaches the two layer surfaces. A zero usable area is non-fatal:
// the attempt is logged and retried at the next paint opportunity.
func (c *Chart) Init() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initLocked()
}

func (c *Chart) initLocked() {
	if c.destroyed.IsSet() || c.inited {
		return
	}
	if c.cfg.Width <= 0 || c.cfg.Height <= 0 {
		c.logger.Warn("container has no usable area, deferring init",
			zap.Int("width", c.cfg.Width),
			zap.Int("height", c.cfg.Height),
		)
		if c.initRetry == nil {
			c.initRetry = c.sched.OnNextFrame(func() {
				c.initRetry = nil
				c.initLocked()
			})
		}
		return
	}
	c.compute = c.newSurface(c.cfg.Width, c.cfg.Height)
	c.display = c.newSurface(c.cfg.Width, c.cfg.Height)
	c.plot = plotRect(c.cfg.Width, c.cfg.Height)
	c.inited = true
	if c.bridge != nil {
		c.bridge.Register(c.id, c.busSink)
	}
	c.repaintLocked()
}

// plot gutters: y labels left and right, title above, time labels below
const (
	gutterLeft   = 48
	gutterRight  = 48
	gutterTop    = 22
	gutterBottom = 26
)

func plotRect(w, h int) surface.Rect {
	pw := float64(w) - gutterLeft - gutterRight
	ph := float64(h) - gutterTop - gutterBottom
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	return surface.Rect{X: gutterLeft, Y: gutterTop, W: pw, H: ph}
}

// SetData replaces the dataset wholesale and triggers a full repaint. The
// dataset is treated as an immutable snapshot; callers must not mutate it
// afterwards. A nil or empty dataset renders the placeholder state.
func (c *Chart) SetData(d *Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed.IsSet() {
		return
	}
	c.ds = d
	c.sel = selectionState{}
	c.state = stateIdle
	c.hasPending = false
	if c.inited {
		c.repaintLocked()
	}
}

// SetSize resizes both surfaces and repaints.
func (c *Chart) SetSize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed.IsSet() {
		return
	}
	if w <= 0 || h <= 0 {
		c.logger.Warn("ignoring resize to zero area", zap.Int("width", w), zap.Int("height", h))
		return
	}
	c.cfg.Width, c.cfg.Height = w, h
	if !c.inited {
		c.initLocked()
		return
	}
	c.compute = c.newSurface(w, h)
	c.display = c.newSurface(w, h)
	c.plot = plotRect(w, h)
	c.repaintLocked()
}

// SetOnHover registers the local-interaction observer. It is not invoked
// for incoming sync events.
func (c *Chart) SetOnHover(fn func(index int, d *Dataset)) {
	c.mu.Lock()
	c.onHover = fn
	c.mu.Unlock()
}

// SetOnHoverOut registers the local pointer-leave observer.
func (c *Chart) SetOnHoverOut(fn func()) {
	c.mu.Lock()
	c.onHoverOut = fn
	c.mu.Unlock()
}

// RenderStats reports the last full repaint's sampling decision.
func (c *Chart) RenderStats() RenderStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// WritePNG encodes the current display surface.
func (c *Chart) WritePNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inited {
		return ErrNotInitialized
	}
	return c.display.EncodePNG(w)
}

// Destroy tears the chart down: every listener and pending scheduled
// callback is cancelled synchronously, so a live reference to a destroyed
// chart is inert. Calling Destroy again is a no-op.
func (c *Chart) Destroy() {
	if !c.destroyed.SetToIf(false, true) {
		return
	}
	c.mu.Lock()
	if c.initRetry != nil {
		c.initRetry()
		c.initRetry = nil
	}
	c.moveThrottle.Stop()
	c.syncRepaint.Stop()
	if c.bridge != nil && c.inited {
		c.bridge.Unregister(c.id)
	}
	c.ds = nil
	c.sel = selectionState{}
	c.hasBroadcast = false
	c.inited = false
	c.mu.Unlock()
	if c.ownSched != nil {
		c.ownSched.Stop()
	}
}

// repaintLocked is the expensive path: the compute surface is cleared and
// fully redrawn, then presented. It runs only on data, size or theme
// changes, never on interaction ticks.
func (c *Chart) repaintLocked() {
	theme := ReadTheme(c.cfg.Theme)
	c.compute.Clear(theme.Background)

	if c.ds.Empty() {
		c.drawPlaceholderLocked(theme)
		c.stats = RenderStats{DownsampleThreshold: c.cfg.DrawBudget}
		c.presentLocked()
		return
	}

	n := len(c.ds.Timestamps)
	c.axis = NewTimeAxis(c.ds.Timestamps, c.plot.X, c.plot.Right())
	c.vp = ComputeViewport(n, c.cfg.DrawBudget)
	indices := c.vp.Indices()
	c.ranges = map[AxisRole]AxisRange{
		AxisPrimary:   ScaleAxis(c.ds, AxisPrimary, c.kind.AxisMode(AxisPrimary)),
		AxisSecondary: ScaleAxis(c.ds, AxisSecondary, c.kind.AxisMode(AxisSecondary)),
	}

	pass := renderPass{
		surf:   c.compute,
		plot:   c.plot,
		axis:   c.axis,
		ranges: c.ranges,
		theme:  theme,
		policy: c.cfg.GapPolicy,
	}
	drawGrid(pass)
	drawAxisLabels(pass, c.ds)
	if c.kind.Title != "" {
		c.compute.Text(c.kind.Title, c.plot.X+c.plot.W/2, gutterTop/2, theme.AxisTitle, surface.AlignCenter)
	}
	drawSeries(pass, c.ds, indices)

	c.stats = RenderStats{
		TotalPoints:         n,
		RenderedPoints:      len(indices),
		IsDownsampled:       c.vp.Downsampled(),
		DownsampleThreshold: c.cfg.DrawBudget,
	}

	c.presentLocked()
	if c.sel.hasSelection {
		if c.sel.selected < n {
			c.overlayLocked()
		} else {
			c.sel = selectionState{}
		}
	}
}

func (c *Chart) drawPlaceholderLocked(theme Theme) {
	w, h := c.compute.Size()
	c.compute.Text("No data to display", float64(w)/2, float64(h)/2, theme.EmptyText, surface.AlignCenter)
}

// presentLocked blits the compute surface onto the display surface. Cheap
// enough for every interaction tick; it also erases any previous overlay.
func (c *Chart) presentLocked() {
	c.display.BlitFrom(c.compute)
}

// overlayLocked draws the transient cursor line and annotations onto the
// display surface only.
func (c *Chart) overlayLocked() {
	if !c.sel.hasSelection || c.ds.Empty() {
		return
	}
	pass := renderPass{
		surf:   c.display,
		plot:   c.plot,
		axis:   c.axis,
		ranges: c.ranges,
		theme:  ReadTheme(c.cfg.Theme),
		policy: c.cfg.GapPolicy,
	}
	drawAnnotations(pass, c.ds, c.kind, c.sel.selected, c.axis.PixelX(c.sel.selected))
}
