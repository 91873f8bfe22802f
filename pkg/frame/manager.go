package frame

import (
	"errors"
	"math"
	"sync"

	"github.com/yogeshw/ncrads9/internal/logging"
	"github.com/yogeshw/ncrads9/pkg/analysis"
	"github.com/yogeshw/ncrads9/pkg/geometry"
	"github.com/yogeshw/ncrads9/pkg/imagedata"
	"github.com/yogeshw/ncrads9/pkg/regions"
	"github.com/yogeshw/ncrads9/pkg/scale"
)

var (
	// ErrMinimumFrame reports an attempt to delete the only frame.
	ErrMinimumFrame = errors.New("frame: cannot delete the only frame")
	// ErrIndexOutOfRange reports a frame index outside the current list.
	ErrIndexOutOfRange = errors.New("frame: index out of range")
)

// ContrastBiasPerPixel maps one device pixel of drag motion to a
// contrast or bias delta. Horizontal drag adjusts contrast, vertical
// drag adjusts bias.
const ContrastBiasPerPixel = 0.002

// EventType identifies manager events delivered to registered listeners.
type EventType int

const (
	EventFrameCreated EventType = iota
	EventFrameDeleted
	EventActiveChanged
	EventBufferLoaded
	EventViewChanged
	EventScaleChanged
	EventColormapChanged
	EventSmoothChanged
	EventRegionsChanged
)

// EventListener is called when an event occurs. The payload is the
// affected frame index except for EventFrameCreated, which carries the
// new *Frame.
type EventListener func(data any)

// MatchMode selects how MatchFrames aligns the other frames to the
// active one.
type MatchMode int

const (
	MatchNone MatchMode = iota
	MatchWCS
	MatchImage
	MatchPhysical
)

func (m MatchMode) String() string {
	switch m {
	case MatchNone:
		return "none"
	case MatchWCS:
		return "wcs"
	case MatchImage:
		return "image"
	case MatchPhysical:
		return "physical"
	}
	return "unknown"
}

// LockAspect names a display aspect that can be locked across frames.
// While locked, setter changes to that aspect apply to every frame
// instead of only the active one.
type LockAspect int

const (
	LockScale LockAspect = iota
	LockScaleLimits
	LockColormap
	LockSmooth
)

func (a LockAspect) String() string {
	switch a {
	case LockScale:
		return "scale"
	case LockScaleLimits:
		return "scale limits"
	case LockColormap:
		return "colormap"
	case LockSmooth:
		return "smooth"
	}
	return "unknown"
}

// WCSTranslator converts an image pixel coordinate to a world
// coordinate description using the frame's opaque WCS payload. Hosts
// inject one backed by their FITS library; without one, readouts carry
// no world coordinates.
type WCSTranslator interface {
	Translate(wcs any, x, y float64) (string, bool)
}

// WCSTranslatorFunc adapts a function to the WCSTranslator interface.
type WCSTranslatorFunc func(wcs any, x, y float64) (string, bool)

// Translate implements WCSTranslator.
func (f WCSTranslatorFunc) Translate(wcs any, x, y float64) (string, bool) {
	return f(wcs, x, y)
}

// Readout is the pixel-under-cursor report shown in the info panel.
type Readout struct {
	Image      geometry.Point2D // continuous image coordinates
	PixelX     int              // integer pixel column
	PixelY     int              // integer pixel row
	Inside     bool             // pixel lies within the loaded image
	Raw        float64          // sample value, NaN when outside or empty
	Normalized float64          // stretched display intensity, NaN when outside
	WCS        string           // world coordinate text, empty without a translator
}

// Manager owns the frame list and the active-frame state machine. All
// frame and per-frame mutations go through the manager so read-modify-
// write sequences (hit-test then move) stay consistent under one lock.
type Manager struct {
	mu sync.RWMutex

	frames   []*Frame
	active   int
	nextID   int
	viewport geometry.Size

	match MatchMode
	locks map[LockAspect]bool
	wcs   WCSTranslator

	listeners map[EventType][]EventListener
}

// NewManager creates a manager holding one empty frame. The frame list
// is never empty.
func NewManager() *Manager {
	m := &Manager{
		nextID:    1,
		locks:     make(map[LockAspect]bool),
		listeners: make(map[EventType][]EventListener),
	}
	m.frames = append(m.frames, newFrame(m.nextID))
	m.nextID++
	return m
}

// On registers an event listener for the specified event type.
func (m *Manager) On(event EventType, listener EventListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[event] = append(m.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type. Listeners
// run outside the manager lock and may call back into the manager.
func (m *Manager) Emit(event EventType, data any) {
	m.mu.RLock()
	listeners := m.listeners[event]
	m.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Count returns the number of frames.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.frames)
}

// ActiveIndex returns the index of the active frame.
func (m *Manager) ActiveIndex() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Active returns the active frame. The frame is owned by the manager;
// mutate it through manager methods.
func (m *Manager) Active() *Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames[m.active]
}

// Frame returns the frame at index.
func (m *Manager) Frame(index int) (*Frame, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if index < 0 || index >= len(m.frames) {
		return nil, ErrIndexOutOfRange
	}
	return m.frames[index], nil
}

// Frames returns a snapshot of the frame list.
func (m *Manager) Frames() []*Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Frame, len(m.frames))
	copy(out, m.frames)
	return out
}

// SetViewport records the device viewport size used for coordinate
// conversion and zoom-to-fit. Call it whenever the host display area
// changes.
func (m *Manager) SetViewport(size geometry.Size) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewport = size
}

// Viewport returns the current device viewport size.
func (m *Manager) Viewport() geometry.Size {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

// SetWCSTranslator injects the world-coordinate translator used for
// readouts. Pass nil to remove it.
func (m *Manager) SetWCSTranslator(t WCSTranslator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wcs = t
}

// Create appends a new empty frame and makes it active. Any gesture in
// progress on the outgoing frame is settled first.
func (m *Manager) Create() *Frame {
	m.mu.Lock()
	committed := m.frames[m.active].finalizeGesture()
	prev := m.active
	f := newFrame(m.nextID)
	m.nextID++
	m.frames = append(m.frames, f)
	m.active = len(m.frames) - 1
	index := m.active
	m.mu.Unlock()

	logging.Logger().Info("created frame", "id", f.ID, "index", index)
	if committed {
		m.Emit(EventRegionsChanged, prev)
	}
	m.Emit(EventFrameCreated, f)
	m.Emit(EventActiveChanged, index)
	return f
}

// Delete removes the frame at index. The last remaining frame cannot
// be deleted. When the active frame is removed the activation moves to
// the nearest surviving neighbor.
func (m *Manager) Delete(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.frames) {
		m.mu.Unlock()
		return ErrIndexOutOfRange
	}
	if len(m.frames) == 1 {
		m.mu.Unlock()
		return ErrMinimumFrame
	}
	deleted := m.frames[index]
	wasActive := index == m.active
	m.frames = append(m.frames[:index], m.frames[index+1:]...)
	if m.active > index || m.active >= len(m.frames) {
		m.active--
	}
	newActive := m.active
	m.mu.Unlock()

	logging.Logger().Info("deleted frame", "id", deleted.ID, "index", index)
	m.Emit(EventFrameDeleted, index)
	if wasActive {
		m.Emit(EventActiveChanged, newActive)
	}
	return nil
}

// SetActive switches the active frame. Any in-progress draw gesture on
// the outgoing frame is committed if viable, otherwise discarded; it is
// never carried across frames.
func (m *Manager) SetActive(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.frames) {
		m.mu.Unlock()
		return ErrIndexOutOfRange
	}
	if index == m.active {
		m.mu.Unlock()
		return nil
	}
	committed := m.frames[m.active].finalizeGesture()
	prev := m.active
	m.active = index
	m.mu.Unlock()

	if committed {
		m.Emit(EventRegionsChanged, prev)
	}
	m.Emit(EventActiveChanged, index)
	return nil
}

// Next activates the following frame. At the last frame it is a no-op;
// navigation does not wrap.
func (m *Manager) Next() {
	m.step(1)
}

// Previous activates the preceding frame. At the first frame it is a
// no-op; navigation does not wrap.
func (m *Manager) Previous() {
	m.step(-1)
}

func (m *Manager) step(delta int) {
	m.mu.RLock()
	target := m.active + delta
	count := len(m.frames)
	m.mu.RUnlock()
	if target < 0 || target >= count {
		return
	}
	_ = m.SetActive(target)
}

// First activates the first frame.
func (m *Manager) First() {
	_ = m.SetActive(0)
}

// Last activates the last frame.
func (m *Manager) Last() {
	m.mu.RLock()
	last := len(m.frames) - 1
	m.mu.RUnlock()
	_ = m.SetActive(last)
}

// LoadBuffer loads an image into the active frame and refits the view.
func (m *Manager) LoadBuffer(buf *imagedata.Buffer) error {
	if buf == nil {
		return imagedata.ErrEmptyBuffer
	}
	m.mu.Lock()
	f := m.frames[m.active]
	f.SetBuffer(buf, m.viewport)
	index := m.active
	m.mu.Unlock()

	logging.Logger().Info("loaded buffer",
		"frame", f.ID, "width", buf.Width(), "height", buf.Height())
	m.Emit(EventBufferLoaded, index)
	m.Emit(EventViewChanged, index)
	return nil
}

// withActiveView mutates the active frame's view under the lock and
// emits a view-changed event.
func (m *Manager) withActiveView(fn func(f *Frame)) {
	m.mu.Lock()
	f := m.frames[m.active]
	fn(f)
	f.Modified = true
	index := m.active
	m.mu.Unlock()
	m.Emit(EventViewChanged, index)
}

// ZoomIn steps the active frame's zoom up.
func (m *Manager) ZoomIn() {
	m.withActiveView(func(f *Frame) { f.View.ZoomIn() })
}

// ZoomOut steps the active frame's zoom down.
func (m *Manager) ZoomOut() {
	m.withActiveView(func(f *Frame) { f.View.ZoomOut() })
}

// SetZoom sets the active frame's zoom, clamped to the legal range.
func (m *Manager) SetZoom(zoom float64) {
	m.withActiveView(func(f *Frame) { f.View.SetZoom(zoom) })
}

// AdjustZoom multiplies the active frame's zoom, clamped. The image
// point at the viewport center stays put.
func (m *Manager) AdjustZoom(factor float64) {
	m.withActiveView(func(f *Frame) { f.View.AdjustZoom(factor) })
}

// ZoomToFit fits the active frame's image in the viewport and centers
// it.
func (m *Manager) ZoomToFit() {
	m.withActiveView(func(f *Frame) { f.View.ZoomToFit(f.ImageSize(), m.viewport) })
}

// PanTo centers the view on an image point.
func (m *Manager) PanTo(pt geometry.Point2D) {
	m.withActiveView(func(f *Frame) { f.View.PanTo(pt) })
}

// PanByDevice shifts the view by a device-space drag delta so the
// image content follows the pointer.
func (m *Manager) PanByDevice(delta geometry.Point2D) {
	m.withActiveView(func(f *Frame) {
		d := f.View.DeviceDeltaToImage(delta, m.viewport)
		f.View.Pan = geometry.Point2D{X: f.View.Pan.X - d.X, Y: f.View.Pan.Y - d.Y}
	})
}

// CenterOnDevice pans so the image point under the given device point
// moves to the viewport center.
func (m *Manager) CenterOnDevice(pt geometry.Point2D) {
	m.withActiveView(func(f *Frame) {
		f.View.PanTo(f.View.DeviceToImage(pt, m.viewport))
	})
}

// SetFlip sets the mirror state of the active frame's view.
func (m *Manager) SetFlip(x, y bool) {
	m.withActiveView(func(f *Frame) {
		f.View.FlipX = x
		f.View.FlipY = y
	})
}

// Rotate adds to the active frame's view rotation, snapped to the 90
// degree grid.
func (m *Manager) Rotate(degrees int) {
	m.withActiveView(func(f *Frame) { f.View.Rotate(degrees) })
}

// SetBin sets the active frame's bin factor (minimum 1).
func (m *Manager) SetBin(bin int) {
	m.withActiveView(func(f *Frame) { f.View.SetBin(bin) })
}

// applyAspect runs fn on the active frame, or on every frame when the
// aspect is locked. Callers hold the write lock.
func (m *Manager) applyAspect(aspect LockAspect, fn func(f *Frame)) {
	if m.locks[aspect] {
		for _, f := range m.frames {
			fn(f)
		}
		return
	}
	fn(m.frames[m.active])
}

// SetScaleAlgorithm switches the stretch function on the active frame,
// or on all frames when the scale aspect is locked.
func (m *Manager) SetScaleAlgorithm(a scale.Algorithm) {
	m.mu.Lock()
	m.applyAspect(LockScale, func(f *Frame) { f.SetScaleAlgorithm(a) })
	index := m.active
	m.mu.Unlock()
	m.Emit(EventScaleChanged, index)
}

// SetClipMode sets the clip policy and recomputes limits, honoring the
// scale-limits lock.
func (m *Manager) SetClipMode(mode scale.ClipMode) {
	m.mu.Lock()
	m.applyAspect(LockScaleLimits, func(f *Frame) { f.SetClipMode(mode) })
	index := m.active
	m.mu.Unlock()
	m.Emit(EventScaleChanged, index)
}

// SetLimits sets manual clip limits, honoring the scale-limits lock.
func (m *Manager) SetLimits(z1, z2 float64) {
	m.mu.Lock()
	m.applyAspect(LockScaleLimits, func(f *Frame) { f.SetLimits(z1, z2) })
	index := m.active
	m.mu.Unlock()
	m.Emit(EventScaleChanged, index)
}

// AdjustContrastBias converts a device-space drag delta into stretch
// adjustments: horizontal motion scales contrast, vertical motion
// shifts bias. Honors the scale lock.
func (m *Manager) AdjustContrastBias(dxDev, dyDev float64) {
	dContrast := dxDev * ContrastBiasPerPixel
	dBias := -dyDev * ContrastBiasPerPixel
	m.mu.Lock()
	m.applyAspect(LockScale, func(f *Frame) { f.AdjustContrastBias(dContrast, dBias) })
	index := m.active
	m.mu.Unlock()
	m.Emit(EventScaleChanged, index)
}

// SetColormap selects the colormap on the active frame, or on all
// frames when the colormap aspect is locked.
func (m *Manager) SetColormap(name string) {
	m.mu.Lock()
	m.applyAspect(LockColormap, func(f *Frame) { f.SetColormap(name) })
	index := m.active
	m.mu.Unlock()
	m.Emit(EventColormapChanged, index)
}

// SetInverted flips the colormap direction, honoring the colormap lock.
func (m *Manager) SetInverted(inverted bool) {
	m.mu.Lock()
	m.applyAspect(LockColormap, func(f *Frame) { f.SetInverted(inverted) })
	index := m.active
	m.mu.Unlock()
	m.Emit(EventColormapChanged, index)
}

// SetSmooth selects display smoothing (nil = off), honoring the smooth
// lock.
func (m *Manager) SetSmooth(p *analysis.SmoothParams) {
	m.mu.Lock()
	m.applyAspect(LockSmooth, func(f *Frame) { f.SetSmooth(p) })
	index := m.active
	m.mu.Unlock()
	m.Emit(EventSmoothChanged, index)
}

// SetLock turns a cross-frame lock aspect on or off. Locking affects
// subsequent setter calls; it does not retroactively synchronize.
func (m *Manager) SetLock(aspect LockAspect, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if on {
		m.locks[aspect] = true
	} else {
		delete(m.locks, aspect)
	}
}

// Locked reports whether an aspect is locked across frames.
func (m *Manager) Locked(aspect LockAspect) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.locks[aspect]
}

// ClearLocks removes all lock aspects.
func (m *Manager) ClearLocks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.locks)
}

// SetMatchMode stores the mode MatchFrames applies.
func (m *Manager) SetMatchMode(mode MatchMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.match = mode
}

// MatchMode returns the stored match mode.
func (m *Manager) MatchMode() MatchMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.match
}

// MatchFrames aligns every other frame to the active one per the
// stored match mode. Image matching copies zoom and pan. WCS and
// physical matching need per-frame coordinate metadata the core does
// not interpret, so they are currently no-ops.
func (m *Manager) MatchFrames() {
	m.mu.Lock()
	if m.match == MatchNone {
		m.mu.Unlock()
		return
	}
	source := m.frames[m.active]
	if m.match == MatchImage {
		for _, f := range m.frames {
			if f == source {
				continue
			}
			f.View.Zoom = source.View.Zoom
			f.View.Pan = source.View.Pan
			f.Modified = true
		}
	}
	index := m.active
	mode := m.match
	m.mu.Unlock()

	logging.Logger().Debug("matched frames", "mode", mode.String(), "source", index)
	m.Emit(EventViewChanged, index)
}

// BeginDraw starts a draw gesture of the given kind at a device point.
// Starting while a gesture is active replaces it.
func (m *Manager) BeginDraw(kind regions.Kind, device geometry.Point2D) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.frames[m.active]
	f.Drawer.Begin(kind, f.View.DeviceToImage(device, m.viewport))
}

// ContinueDraw feeds pointer motion to the active gesture.
func (m *Manager) ContinueDraw(device geometry.Point2D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.frames[m.active]
	return f.Drawer.Update(f.View.DeviceToImage(device, m.viewport))
}

// EndDraw completes the active two-anchor gesture at a device point
// and commits the resulting region. Degenerate gestures are discarded.
func (m *Manager) EndDraw(device geometry.Point2D) (*regions.Region, error) {
	m.mu.Lock()
	f := m.frames[m.active]
	r, err := f.Drawer.End(f.View.DeviceToImage(device, m.viewport))
	var index int
	if err == nil {
		f.Regions.Add(r)
		f.Modified = true
		index = m.active
	}
	m.mu.Unlock()

	if err == nil {
		m.Emit(EventRegionsChanged, index)
	}
	return r, err
}

// CancelDraw aborts the active gesture without committing anything.
func (m *Manager) CancelDraw() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames[m.active].Drawer.Cancel()
}

// AddVertex appends a polygon vertex at a device point.
func (m *Manager) AddVertex(device geometry.Point2D) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.frames[m.active]
	return f.Drawer.AddVertex(f.View.DeviceToImage(device, m.viewport))
}

// FinishPolygon completes a polygon gesture at its current cursor and
// commits the region. Fewer than three vertices discards the attempt.
func (m *Manager) FinishPolygon() (*regions.Region, error) {
	m.mu.Lock()
	f := m.frames[m.active]
	r, err := f.Drawer.Finalize()
	var index int
	if err == nil {
		f.Regions.Add(r)
		f.Modified = true
		index = m.active
	}
	m.mu.Unlock()

	if err == nil {
		m.Emit(EventRegionsChanged, index)
	}
	return r, err
}

// PreviewRegion returns the in-progress gesture's provisional region
// for overlay rendering.
func (m *Manager) PreviewRegion() (*regions.Region, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frames[m.active].Drawer.Preview()
}

// pickTolerance converts the device-space pick tolerance into image
// units at the active frame's current scale, so picking feels the same
// at every zoom.
func (f *Frame) pickTolerance(viewport geometry.Size) float64 {
	d := f.View.DeviceDeltaToImage(geometry.Point2D{X: regions.DefaultPickTolerance}, viewport)
	return math.Hypot(d.X, d.Y)
}

// SelectAt picks the topmost region under a device point as the sole
// selection. A miss clears the selection. Returns the picked index and
// whether anything was hit.
func (m *Manager) SelectAt(device geometry.Point2D) (int, bool) {
	m.mu.Lock()
	f := m.frames[m.active]
	pt := f.View.DeviceToImage(device, m.viewport)
	index, ok := f.Regions.SelectAt(pt, f.pickTolerance(m.viewport))
	active := m.active
	m.mu.Unlock()

	m.Emit(EventRegionsChanged, active)
	return index, ok
}

// ToggleSelectAt toggles the topmost region under a device point in
// and out of the selection, leaving the rest of the selection alone.
func (m *Manager) ToggleSelectAt(device geometry.Point2D) (int, bool) {
	m.mu.Lock()
	f := m.frames[m.active]
	pt := f.View.DeviceToImage(device, m.viewport)
	index, ok := f.Regions.ToggleAt(pt, f.pickTolerance(m.viewport))
	active := m.active
	m.mu.Unlock()

	m.Emit(EventRegionsChanged, active)
	return index, ok
}

// MoveSelected translates the selected regions by a device-space drag
// delta, converted through the view so motion tracks zoom and
// rotation.
func (m *Manager) MoveSelected(deviceDelta geometry.Point2D) {
	m.mu.Lock()
	f := m.frames[m.active]
	delta := f.View.DeviceDeltaToImage(deviceDelta, m.viewport)
	f.Regions.MoveSelected(delta)
	if f.Regions.SelectedCount() > 0 {
		f.Modified = true
	}
	index := m.active
	m.mu.Unlock()

	m.Emit(EventRegionsChanged, index)
}

// DeleteSelected removes the selected regions from the active frame
// and returns how many were removed.
func (m *Manager) DeleteSelected() int {
	m.mu.Lock()
	f := m.frames[m.active]
	n := f.Regions.DeleteSelected()
	if n > 0 {
		f.Modified = true
	}
	index := m.active
	m.mu.Unlock()

	if n > 0 {
		m.Emit(EventRegionsChanged, index)
	}
	return n
}

// ClearSelection deselects every region on the active frame.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	f := m.frames[m.active]
	f.Regions.ClearSelection()
	index := m.active
	m.mu.Unlock()

	m.Emit(EventRegionsChanged, index)
}

// PixelReadout reports the pixel under a device point on the active
// frame: continuous and integer image coordinates, the raw sample, its
// stretched display intensity, and a world coordinate string when a
// translator is installed. Outside the image, or on an empty frame,
// the values are the invalid sentinel.
//
// Takes the write lock: the smoothing and histogram caches fill in
// lazily on first access.
func (m *Manager) PixelReadout(device geometry.Point2D) Readout {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.frames[m.active]
	img := f.View.DeviceToImage(device, m.viewport)
	r := Readout{
		Image:      img,
		PixelX:     int(math.Floor(img.X)),
		PixelY:     int(math.Floor(img.Y)),
		Raw:        scale.Invalid,
		Normalized: scale.Invalid,
	}

	if f.Buffer == nil {
		return r
	}
	v, ok := f.Buffer.At(r.PixelX, r.PixelY)
	if !ok {
		return r
	}
	r.Inside = true
	r.Raw = v

	display := f.DisplayBuffer()
	if dv, ok := display.At(r.PixelX, r.PixelY); ok {
		var table *scale.HistEqTable
		if f.Scale.Algorithm == scale.HistEq {
			table = f.HistCache.Table(display, f.Scale.Z1, f.Scale.Z2)
		}
		r.Normalized = f.Scale.NormalizeWith(dv, table)
	}

	if m.wcs != nil {
		if s, ok := m.wcs.Translate(f.WCS, img.X, img.Y); ok {
			r.WCS = s
		}
	}
	return r
}
