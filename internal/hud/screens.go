package hud

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Typed failures for screen/modal wiring mistakes. All of them are warn-and-
// no-op at runtime: a broken menu must never take the game down with it.
var (
	ErrScreenExists   = errors.New("screen id already registered")
	ErrScreenUnknown  = errors.New("unknown screen id")
	ErrModalUnknown   = errors.New("unknown modal id")
	ErrTransitionBusy = errors.New("transition in progress")
	ErrNoHistory      = errors.New("navigation history is empty")
	ErrNoScreen       = errors.New("no screen is showing")
	ErrNoModal        = errors.New("no modal is open")
)

// TransitionKind selects how a screen animates in and out.
type TransitionKind int

const (
	TransitionFade TransitionKind = iota
	TransitionSlide
	TransitionNone
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionFade:
		return "fade"
	case TransitionSlide:
		return "slide"
	case TransitionNone:
		return "none"
	default:
		return "unknown"
	}
}

// Control is a focusable, activatable element on a screen or modal.
// Position is assigned by the container when it lays the control ring out.
type Control struct {
	ID       string
	Label    string
	Disabled bool
	Action   func()

	x, y, w, h float64
}

func (c *Control) contains(px, py float64) bool {
	return px >= c.x && px < c.x+c.w && py >= c.y && py < c.y+c.h
}

// Bounds returns the control's laid-out rectangle. Zero until its container
// has been shown.
func (c *Control) Bounds() (x, y, w, h float64) {
	return c.x, c.y, c.w, c.h
}

// PanelBounds is the on-screen rectangle of a screen or modal panel.
type PanelBounds struct {
	X, Y, W, H float64
}

func (b PanelBounds) contains(px, py float64) bool {
	return px >= b.X && px < b.X+b.W && py >= b.Y && py < b.Y+b.H
}

// ScreenDef describes a screen or modal at registration time. The definition
// is built once; content is refreshed through OnShow/Render on every
// appearance and torn down only by Unregister.
type ScreenDef struct {
	Title       string
	Transition  TransitionKind
	Duration    float64 // seconds; 0 uses the configured default
	SkipHistory bool    // don't record the replaced screen for Back()

	OnShow  func(data any)
	OnHide  func()
	OnClick func(x, y float64) bool // body clicks not claimed by a control

	// Render draws the panel body. Never called headlessly.
	Render func(dst *ebiten.Image, b PanelBounds)

	Controls []*Control
}

type screenEntry struct {
	id    string
	def   ScreenDef
	focus int // index into def.Controls, -1 when nothing focused
}

type containerKind int

const (
	containerNone containerKind = iota
	containerScreen
	containerModal
)

// focusRef names a focused control so focus can be restored after a
// navigation unwinds.
type focusRef struct {
	kind containerKind
	id   string
	idx  int
}

type transitionState struct {
	active   bool
	incoming string // "" for an exit transition
	outgoing string
	kind     TransitionKind
	reversed bool // back-navigation plays the transition mirrored
	started  float64
	duration float64
}

// ScreenManager owns full-screen menu screens and lightweight modals: who is
// visible, the back-stack, keyboard focus, and the transition lock.
//
// The transition lock has two release paths and always takes the first one
// that happens: the renderer's NotifyTransitionEnd signal, or the fallback
// deadline (duration plus grace) polled in Update. Every code path that sets
// the lock arms that deadline, so the lock cannot stay held forever even if
// the renderer never reports back.
type ScreenManager struct {
	cfg *Config
	bus *Bus

	screens map[string]*screenEntry
	modals  map[string]*screenEntry
	order   []string // registration order, for diagnostics

	current  string
	previous string
	history  []string
	modal    string

	trans            transitionState
	lock             Countdown
	navReturnFocus   focusRef // focus to restore when a screen hides
	modalReturnFocus focusRef // focus to restore when the modal closes

	clock float64
	vp    Viewport

	panelBuf *ebiten.Image // offscreen buffer for transition blits
}

// NewScreenManager creates an empty manager. cfg must already be validated.
func NewScreenManager(cfg *Config, bus *Bus) *ScreenManager {
	return &ScreenManager{
		cfg:     cfg,
		bus:     bus,
		screens: make(map[string]*screenEntry),
		modals:  make(map[string]*screenEntry),
	}
}

// Register adds a screen definition under a unique id.
func (m *ScreenManager) Register(id string, def ScreenDef) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrScreenUnknown)
	}
	if _, dup := m.screens[id]; dup {
		log.Printf("hud: screen %q registered twice", id)
		return fmt.Errorf("%w: %q", ErrScreenExists, id)
	}
	m.screens[id] = &screenEntry{id: id, def: def, focus: -1}
	m.order = append(m.order, id)
	return nil
}

// RegisterModal adds a modal definition under a unique id. Modals share the
// screen error taxonomy but live in their own namespace.
func (m *ScreenManager) RegisterModal(id string, def ScreenDef) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrModalUnknown)
	}
	if _, dup := m.modals[id]; dup {
		log.Printf("hud: modal %q registered twice", id)
		return fmt.Errorf("%w: modal %q", ErrScreenExists, id)
	}
	m.modals[id] = &screenEntry{id: id, def: def, focus: -1}
	return nil
}

// Unregister tears a screen down. A showing screen is dismissed first,
// without a transition, and any history entries pointing at it are dropped.
func (m *ScreenManager) Unregister(id string) error {
	e, ok := m.screens[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrScreenUnknown, id)
	}
	if m.current == id {
		if e.def.OnHide != nil {
			e.def.OnHide()
		}
		m.bus.Publish(TopicScreenHidden, ScreenHidden{ID: id})
		m.current = ""
		m.trans.active = false
		m.lock.Stop()
	}
	kept := m.history[:0]
	for _, h := range m.history {
		if h != id {
			kept = append(kept, h)
		}
	}
	m.history = kept
	delete(m.screens, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Show navigates to a screen, handing data to its OnShow callback. While a
// transition is running the call is rejected, not queued.
func (m *ScreenManager) Show(id string, data any) error {
	if m.trans.active {
		log.Printf("hud: show %q ignored, transition in progress", id)
		return fmt.Errorf("%w: show %q", ErrTransitionBusy, id)
	}
	e, ok := m.screens[id]
	if !ok {
		log.Printf("hud: show of unregistered screen %q", id)
		return fmt.Errorf("%w: %q", ErrScreenUnknown, id)
	}
	m.showEntry(e, data, !e.def.SkipHistory, false)
	return nil
}

// Back pops one history entry and re-shows it with the transition direction
// reversed. The popped entry is not re-pushed, so repeated Back calls walk
// the stack instead of oscillating between two screens.
func (m *ScreenManager) Back() error {
	if m.trans.active {
		log.Printf("hud: back ignored, transition in progress")
		return fmt.Errorf("%w: back", ErrTransitionBusy)
	}
	if len(m.history) == 0 {
		return ErrNoHistory
	}
	id := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	e, ok := m.screens[id]
	if !ok {
		// The target was unregistered while buried in the stack.
		log.Printf("hud: back target %q no longer registered", id)
		return fmt.Errorf("%w: %q", ErrScreenUnknown, id)
	}
	m.showEntry(e, nil, false, true)
	return nil
}

// Hide dismisses the current screen: the same lock and dual release as Show,
// focus restored to wherever it was before the navigation, current-screen
// state and the back-stack cleared.
func (m *ScreenManager) Hide() error {
	if m.trans.active {
		log.Printf("hud: hide ignored, transition in progress")
		return fmt.Errorf("%w: hide", ErrTransitionBusy)
	}
	if m.current == "" {
		return ErrNoScreen
	}
	e := m.screens[m.current]
	if e.def.OnHide != nil {
		e.def.OnHide()
	}
	m.bus.Publish(TopicScreenHidden, ScreenHidden{ID: m.current})
	m.previous = m.current
	m.current = ""
	m.history = m.history[:0]
	m.restoreFocus(m.navReturnFocus)
	m.navReturnFocus = focusRef{}
	m.beginTransition("", m.previous, e.def, false)
	return nil
}

// showEntry runs the shared navigation sequence for Show and Back.
func (m *ScreenManager) showEntry(e *screenEntry, data any, record, reversed bool) {
	if m.current != "" && m.current != e.id {
		m.navReturnFocus = m.activeFocus()
		if record {
			m.history = append(m.history, m.current)
		}
		out := m.screens[m.current]
		if out != nil && out.def.OnHide != nil {
			out.def.OnHide()
		}
		m.bus.Publish(TopicScreenHidden, ScreenHidden{ID: m.current})
		m.previous = m.current
	}

	if e.def.OnShow != nil {
		e.def.OnShow(data)
	}
	m.current = e.id
	m.layoutControls(e, m.screenBounds())
	e.focus = firstEnabled(e.def.Controls)
	m.beginTransition(e.id, m.previous, e.def, reversed)
}

// beginTransition arms the lock. incoming is "" for an exit transition.
// TransitionNone completes synchronously and never holds the lock.
func (m *ScreenManager) beginTransition(incoming, outgoing string, def ScreenDef, reversed bool) {
	dur := def.Duration
	if dur <= 0 {
		dur = m.cfg.TransitionDuration
	}
	if def.Transition == TransitionNone {
		dur = 0
	}
	m.trans = transitionState{
		active:   true,
		incoming: incoming,
		outgoing: outgoing,
		kind:     def.Transition,
		reversed: reversed,
		started:  m.clock,
		duration: dur,
	}
	if def.Transition == TransitionNone {
		m.completeTransition()
		return
	}
	m.lock.Start(m.clock, dur+m.cfg.TransitionGrace)
}

// NotifyTransitionEnd is the renderer's signal that the visual transition
// finished. Releasing an already-released lock is a no-op.
func (m *ScreenManager) NotifyTransitionEnd() {
	if !m.trans.active {
		return
	}
	m.completeTransition()
}

func (m *ScreenManager) completeTransition() {
	incoming := m.trans.incoming
	m.trans.active = false
	m.lock.Stop()
	if incoming != "" {
		m.bus.Publish(TopicScreenShown, ScreenShown{ID: incoming})
	}
}

// Update advances the manager clock and fires the fallback release when no
// transition-end signal arrived in time.
func (m *ScreenManager) Update(delta float64, vp Viewport) {
	m.clock += delta
	if vp != m.vp && vp.Valid() {
		m.vp = vp
		if m.current != "" {
			m.layoutControls(m.screens[m.current], m.screenBounds())
		}
		if m.modal != "" {
			m.layoutControls(m.modals[m.modal], m.modalBounds())
		}
	}
	if m.trans.active && m.lock.Fire(m.clock) {
		m.completeTransition()
	}
}

// ShowModal opens a modal. At most one modal exists at a time: opening a
// second closes the first (its OnHide and hidden event run exactly once)
// before the second appears. Modals are instant; the screen transition lock
// does not apply to them.
func (m *ScreenManager) ShowModal(id string, data any) error {
	e, ok := m.modals[id]
	if !ok {
		log.Printf("hud: show of unregistered modal %q", id)
		return fmt.Errorf("%w: %q", ErrModalUnknown, id)
	}
	if m.modal == id {
		return nil
	}
	if m.modal != "" {
		m.closeModal()
	}
	m.modalReturnFocus = m.activeFocus()
	m.modal = id
	if e.def.OnShow != nil {
		e.def.OnShow(data)
	}
	m.layoutControls(e, m.modalBounds())
	e.focus = firstEnabled(e.def.Controls)
	m.bus.Publish(TopicModalShown, ModalShown{ID: id})
	return nil
}

// HideModal closes the open modal.
func (m *ScreenManager) HideModal() error {
	if m.modal == "" {
		return ErrNoModal
	}
	m.closeModal()
	return nil
}

func (m *ScreenManager) closeModal() {
	id := m.modal
	e := m.modals[id]
	if e != nil && e.def.OnHide != nil {
		e.def.OnHide()
	}
	m.modal = ""
	m.bus.Publish(TopicModalHidden, ModalHidden{ID: id})
	m.restoreFocus(m.modalReturnFocus)
	m.modalReturnFocus = focusRef{}
}

// HandleEscape dismisses the top-most layer: the modal if one is open,
// otherwise one step back through history, otherwise the current screen.
// Returns false when there was nothing to dismiss (or navigation is locked).
func (m *ScreenManager) HandleEscape() bool {
	if m.modal != "" {
		m.closeModal()
		return true
	}
	if m.trans.active {
		return false
	}
	if len(m.history) > 0 {
		return m.Back() == nil
	}
	if m.current != "" {
		return m.Hide() == nil
	}
	return false
}

// HandleTab moves keyboard focus to the next enabled control of the active
// container, wrapping at either end. Focus is trapped: it never escapes the
// modal (or, without a modal, the current screen).
func (m *ScreenManager) HandleTab(reverse bool) {
	e := m.activeEntry()
	if e == nil {
		return
	}
	n := len(e.def.Controls)
	if n == 0 {
		return
	}
	start := e.focus
	if start < 0 {
		start = n - 1 // so the first step lands on control 0
		if reverse {
			start = 0
		}
	}
	for i := 1; i <= n; i++ {
		var idx int
		if reverse {
			idx = ((start-i)%n + n) % n
		} else {
			idx = (start + i) % n
		}
		if !e.def.Controls[idx].Disabled {
			e.focus = idx
			return
		}
	}
}

// HandleActivate fires the focused control.
func (m *ScreenManager) HandleActivate() {
	e := m.activeEntry()
	if e == nil || e.focus < 0 || e.focus >= len(e.def.Controls) {
		return
	}
	c := e.def.Controls[e.focus]
	if c.Disabled || c.Action == nil {
		return
	}
	c.Action()
}

// HandleClick routes a pointer click. Clicks on the modal backdrop close the
// modal; clicks inside a container go to the control under the pointer, then
// to the screen's body click handler. Returns whether the click was consumed.
func (m *ScreenManager) HandleClick(x, y float64) bool {
	if m.modal != "" {
		e := m.modals[m.modal]
		if !m.modalBounds().contains(x, y) {
			m.closeModal()
			return true
		}
		m.clickControls(e, x, y)
		return true
	}
	if m.current != "" {
		e := m.screens[m.current]
		if m.clickControls(e, x, y) {
			return true
		}
		b := m.screenBounds()
		if b.contains(x, y) {
			if e.def.OnClick != nil && e.def.OnClick(x, y) {
				return true
			}
			return true // the panel itself swallows the click
		}
	}
	return false
}

func (m *ScreenManager) clickControls(e *screenEntry, x, y float64) bool {
	for i, c := range e.def.Controls {
		if c.Disabled || !c.contains(x, y) {
			continue
		}
		e.focus = i
		if c.Action != nil {
			c.Action()
		}
		return true
	}
	return false
}

// Current returns the showing screen id, or "" when idle.
func (m *ScreenManager) Current() string { return m.current }

// Previous returns the most recently replaced screen id.
func (m *ScreenManager) Previous() string { return m.previous }

// ActiveModal returns the open modal id, or "".
func (m *ScreenManager) ActiveModal() string { return m.modal }

// HistoryDepth returns how many screens Back can unwind.
func (m *ScreenManager) HistoryDepth() int { return len(m.history) }

// Transitioning reports whether the transition lock is held.
func (m *ScreenManager) Transitioning() bool { return m.trans.active }

// TransitionProgress returns the visual progress of the running transition
// in [0, 1]. Idle managers read 1.
func (m *ScreenManager) TransitionProgress() float64 {
	if !m.trans.active {
		return 1
	}
	if m.trans.duration <= 0 {
		return 1
	}
	return clamp01((m.clock - m.trans.started) / m.trans.duration)
}

// FocusedControl returns the focused control of the active container, or nil.
func (m *ScreenManager) FocusedControl() *Control {
	e := m.activeEntry()
	if e == nil || e.focus < 0 || e.focus >= len(e.def.Controls) {
		return nil
	}
	return e.def.Controls[e.focus]
}

func (m *ScreenManager) activeEntry() *screenEntry {
	if m.modal != "" {
		return m.modals[m.modal]
	}
	if m.current != "" {
		return m.screens[m.current]
	}
	return nil
}

func (m *ScreenManager) activeFocus() focusRef {
	if m.modal != "" {
		if e := m.modals[m.modal]; e != nil {
			return focusRef{kind: containerModal, id: m.modal, idx: e.focus}
		}
	}
	if m.current != "" {
		if e := m.screens[m.current]; e != nil {
			return focusRef{kind: containerScreen, id: m.current, idx: e.focus}
		}
	}
	return focusRef{}
}

func (m *ScreenManager) restoreFocus(ref focusRef) {
	switch ref.kind {
	case containerScreen:
		if e, ok := m.screens[ref.id]; ok && ref.idx >= 0 && ref.idx < len(e.def.Controls) {
			e.focus = ref.idx
		}
	case containerModal:
		if e, ok := m.modals[ref.id]; ok && ref.idx >= 0 && ref.idx < len(e.def.Controls) {
			e.focus = ref.idx
		}
	}
}

func firstEnabled(controls []*Control) int {
	for i, c := range controls {
		if !c.Disabled {
			return i
		}
	}
	return -1
}

// screenBounds is the centred panel for full screens.
func (m *ScreenManager) screenBounds() PanelBounds {
	w := float64(m.vp.W) * 0.62
	h := float64(m.vp.H) * 0.74
	return PanelBounds{
		X: (float64(m.vp.W) - w) / 2,
		Y: (float64(m.vp.H) - h) / 2,
		W: w,
		H: h,
	}
}

// modalBounds is the smaller centred panel for modals.
func (m *ScreenManager) modalBounds() PanelBounds {
	w := float64(m.vp.W) * 0.36
	h := float64(m.vp.H) * 0.34
	return PanelBounds{
		X: (float64(m.vp.W) - w) / 2,
		Y: (float64(m.vp.H) - h) / 2,
		W: w,
		H: h,
	}
}

// layoutControls places the control ring as a button row along the panel
// bottom. Bounds are computed here, not at draw time, so clicks and focus
// work headlessly.
func (m *ScreenManager) layoutControls(e *screenEntry, b PanelBounds) {
	if e == nil {
		return
	}
	const btnW, btnH, gap = 150.0, 34.0, 14.0
	n := float64(len(e.def.Controls))
	total := n*btnW + (n-1)*gap
	x := b.X + (b.W-total)/2
	y := b.Y + b.H - btnH - 18
	for _, c := range e.def.Controls {
		c.x, c.y, c.w, c.h = x, y, btnW, btnH
		x += btnW + gap
	}
}

// Draw renders the active screen (with its transition transform) and the
// modal on top. Safe to skip entirely in headless runs.
func (m *ScreenManager) Draw(dst *ebiten.Image) {
	if !m.vp.Valid() {
		return
	}
	m.drawScreenLayer(dst)
	m.drawModalLayer(dst)
}

func (m *ScreenManager) drawScreenLayer(dst *ebiten.Image) {
	id := m.current
	exit := false
	if id == "" {
		// During an exit transition the outgoing panel is still fading.
		if !m.trans.active || m.trans.outgoing == "" {
			return
		}
		id = m.trans.outgoing
		exit = true
	}
	e, ok := m.screens[id]
	if !ok {
		return
	}

	if m.panelBuf == nil || m.panelBuf.Bounds().Dx() != m.vp.W || m.panelBuf.Bounds().Dy() != m.vp.H {
		m.panelBuf = ebiten.NewImage(m.vp.W, m.vp.H)
	}
	m.panelBuf.Clear()
	b := m.screenBounds()
	drawPanel(m.panelBuf, b, e.def.Title)
	if e.def.Render != nil {
		e.def.Render(m.panelBuf, b)
	}
	drawControls(m.panelBuf, e.def.Controls, e.focus)

	p := m.TransitionProgress()
	if exit {
		p = 1 - p
	}
	op := &ebiten.DrawImageOptions{}
	switch m.trans.kind {
	case TransitionSlide:
		if m.trans.active {
			off := (1 - p) * float64(m.vp.W) * 0.25
			if m.trans.reversed {
				off = -off
			}
			op.GeoM.Translate(off, 0)
			op.ColorScale.ScaleAlpha(float32(p))
		}
	case TransitionNone:
		// no transform
	default: // fade
		if m.trans.active {
			op.ColorScale.ScaleAlpha(float32(p))
		}
	}
	dst.DrawImage(m.panelBuf, op)
}

func (m *ScreenManager) drawModalLayer(dst *ebiten.Image) {
	if m.modal == "" {
		return
	}
	e, ok := m.modals[m.modal]
	if !ok {
		return
	}
	// Backdrop dims everything beneath; clicking it closes the modal.
	vector.FillRect(dst, 0, 0, float32(m.vp.W), float32(m.vp.H), color.RGBA{R: 0, G: 0, B: 0, A: 140}, false)
	b := m.modalBounds()
	drawPanel(dst, b, e.def.Title)
	if e.def.Render != nil {
		e.def.Render(dst, b)
	}
	drawControls(dst, e.def.Controls, e.focus)
}

func drawPanel(dst *ebiten.Image, b PanelBounds, title string) {
	vector.FillRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), color.RGBA{R: 14, G: 18, B: 22, A: 244}, false)
	vector.StrokeRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), 1.5, color.RGBA{R: 90, G: 140, B: 170, A: 255}, false)
	// Title bar.
	vector.FillRect(dst, float32(b.X), float32(b.Y), float32(b.W), 26, color.RGBA{R: 24, G: 36, B: 46, A: 255}, false)
	vector.StrokeLine(dst, float32(b.X), float32(b.Y)+26, float32(b.X+b.W), float32(b.Y)+26, 1, color.RGBA{R: 90, G: 140, B: 170, A: 200}, false)
	text.Draw(dst, title, basicfont.Face7x13, int(b.X)+12, int(b.Y)+18, color.RGBA{R: 220, G: 235, B: 245, A: 255})
}

func drawControls(dst *ebiten.Image, controls []*Control, focus int) {
	for i, c := range controls {
		bg := color.RGBA{R: 30, G: 44, B: 54, A: 255}
		border := color.RGBA{R: 80, G: 110, B: 130, A: 255}
		txt := color.RGBA{R: 210, G: 225, B: 235, A: 255}
		if c.Disabled {
			bg = color.RGBA{R: 22, G: 26, B: 30, A: 255}
			txt = color.RGBA{R: 110, G: 120, B: 128, A: 255}
		} else if i == focus {
			border = color.RGBA{R: 150, G: 210, B: 250, A: 255}
		}
		vector.FillRect(dst, float32(c.x), float32(c.y), float32(c.w), float32(c.h), bg, false)
		vector.StrokeRect(dst, float32(c.x), float32(c.y), float32(c.w), float32(c.h), 1.5, border, false)
		if i == focus && !c.Disabled {
			// Focus ring just outside the button.
			vector.StrokeRect(dst, float32(c.x-3), float32(c.y-3), float32(c.w+6), float32(c.h+6), 1, color.RGBA{R: 150, G: 210, B: 250, A: 180}, false)
		}
		tx := int(c.x + (c.w-float64(len(c.Label)*7))/2)
		text.Draw(dst, c.Label, basicfont.Face7x13, tx, int(c.y+c.h/2)+4, txt)
	}
}
