package hud

import (
	"errors"
	"testing"
)

func newTestManager() (*ScreenManager, *Bus) {
	cfg := DefaultConfig()
	bus := NewBus()
	m := NewScreenManager(&cfg, bus)
	m.Update(0, Viewport{W: 1280, H: 720})
	return m, bus
}

func TestScreenManager_RegisterDuplicateFails(t *testing.T) {
	m, _ := newTestManager()
	if err := m.Register("pause", ScreenDef{Title: "Paused"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	err := m.Register("pause", ScreenDef{Title: "Paused again"})
	if !errors.Is(err, ErrScreenExists) {
		t.Fatalf("duplicate registration should fail with ErrScreenExists, got %v", err)
	}
}

func TestScreenManager_ShowUnknownIsNoOp(t *testing.T) {
	m, _ := newTestManager()
	err := m.Show("missing", nil)
	if !errors.Is(err, ErrScreenUnknown) {
		t.Fatalf("expected ErrScreenUnknown, got %v", err)
	}
	if m.Current() != "" {
		t.Fatalf("failed show must not change state, current=%q", m.Current())
	}
	if m.Transitioning() {
		t.Fatal("failed show must not take the transition lock")
	}
}

func TestScreenManager_ShowDeliversData(t *testing.T) {
	m, _ := newTestManager()
	var got any
	m.Register("briefing", ScreenDef{OnShow: func(data any) { got = data }})
	if err := m.Show("briefing", "op-nightfall"); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if got != "op-nightfall" {
		t.Fatalf("OnShow should receive the caller payload, got %v", got)
	}
}

func TestScreenManager_TransitionLockRejectsShow(t *testing.T) {
	m, _ := newTestManager()
	m.Register("a", ScreenDef{})
	m.Register("b", ScreenDef{})

	if err := m.Show("a", nil); err != nil {
		t.Fatalf("show a failed: %v", err)
	}
	if !m.Transitioning() {
		t.Fatal("show must take the transition lock")
	}
	err := m.Show("b", nil)
	if !errors.Is(err, ErrTransitionBusy) {
		t.Fatalf("show during transition should fail with ErrTransitionBusy, got %v", err)
	}
	if m.Current() != "a" {
		t.Fatalf("rejected show must not change current, got %q", m.Current())
	}
}

func TestScreenManager_LockReleasedBySignal(t *testing.T) {
	m, bus := newTestManager()
	m.Register("a", ScreenDef{})

	shown := 0
	bus.Subscribe(TopicScreenShown, func(any) { shown++ })

	m.Show("a", nil)
	if shown != 0 {
		t.Fatal("screen:shown must not fire before the transition completes")
	}
	m.NotifyTransitionEnd()
	if m.Transitioning() {
		t.Fatal("signal must release the lock")
	}
	if shown != 1 {
		t.Fatalf("screen:shown should fire exactly once on completion, got %d", shown)
	}
	// A late or duplicate signal is harmless.
	m.NotifyTransitionEnd()
	if shown != 1 {
		t.Fatalf("duplicate signal fired extra events: %d", shown)
	}
}

func TestScreenManager_LockReleasedByDeadline(t *testing.T) {
	// No transition-end signal ever arrives; the fallback deadline
	// (duration + grace) must release the lock on its own.
	m, bus := newTestManager()
	m.Register("a", ScreenDef{})

	shown := 0
	bus.Subscribe(TopicScreenShown, func(any) { shown++ })

	m.Show("a", nil)
	vp := Viewport{W: 1280, H: 720}
	m.Update(0.3, vp) // duration elapsed, grace not yet
	if !m.Transitioning() {
		t.Fatal("lock should hold through the grace window")
	}
	m.Update(0.3, vp) // now past duration+grace (0.55)
	if m.Transitioning() {
		t.Fatal("deadline must release the lock without a signal")
	}
	if shown != 1 {
		t.Fatalf("deadline release should still publish screen:shown, got %d", shown)
	}
}

func TestScreenManager_HistoryPushAndBack(t *testing.T) {
	m, _ := newTestManager()
	m.Register("map", ScreenDef{})
	m.Register("briefing", ScreenDef{})

	m.Show("map", nil)
	m.NotifyTransitionEnd()
	m.Show("briefing", nil)
	m.NotifyTransitionEnd()

	if d := m.HistoryDepth(); d != 1 {
		t.Fatalf("expected history depth 1, got %d", d)
	}
	if err := m.Back(); err != nil {
		t.Fatalf("back failed: %v", err)
	}
	m.NotifyTransitionEnd()
	if m.Current() != "map" {
		t.Fatalf("back should return to map, got %q", m.Current())
	}
	// Back must not re-push: the stack is now empty, no oscillation.
	if d := m.HistoryDepth(); d != 0 {
		t.Fatalf("back re-pushed history, depth %d", d)
	}
	if err := m.Back(); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("back on empty history should fail with ErrNoHistory, got %v", err)
	}
}

func TestScreenManager_SkipHistory(t *testing.T) {
	m, _ := newTestManager()
	m.Register("map", ScreenDef{})
	m.Register("toast", ScreenDef{SkipHistory: true})

	m.Show("map", nil)
	m.NotifyTransitionEnd()
	m.Show("toast", nil)
	m.NotifyTransitionEnd()

	if d := m.HistoryDepth(); d != 0 {
		t.Fatalf("SkipHistory screen recorded history, depth %d", d)
	}
}

func TestScreenManager_HideClearsStateAndStack(t *testing.T) {
	m, bus := newTestManager()
	m.Register("map", ScreenDef{})
	m.Register("briefing", ScreenDef{})

	hidden := []string{}
	bus.Subscribe(TopicScreenHidden, func(p any) { hidden = append(hidden, p.(ScreenHidden).ID) })

	m.Show("map", nil)
	m.NotifyTransitionEnd()
	m.Show("briefing", nil)
	m.NotifyTransitionEnd()
	if err := m.Hide(); err != nil {
		t.Fatalf("hide failed: %v", err)
	}
	if m.Current() != "" {
		t.Fatalf("hide should clear the current screen, got %q", m.Current())
	}
	if m.HistoryDepth() != 0 {
		t.Fatal("hide should clear the back-stack")
	}
	if len(hidden) != 2 || hidden[1] != "briefing" {
		t.Fatalf("expected hidden events [map briefing], got %v", hidden)
	}
	// Hide also runs under the lock: a show during the exit transition fails.
	if err := m.Show("map", nil); !errors.Is(err, ErrTransitionBusy) {
		t.Fatalf("show during exit transition should be rejected, got %v", err)
	}
	m.NotifyTransitionEnd()
	if err := m.Hide(); !errors.Is(err, ErrNoScreen) {
		t.Fatalf("hide with nothing showing should fail with ErrNoScreen, got %v", err)
	}
}

func TestScreenManager_EventOrderAcrossNavigation(t *testing.T) {
	m, bus := newTestManager()
	m.Register("a", ScreenDef{})
	m.Register("b", ScreenDef{})

	var events []string
	bus.Subscribe(TopicScreenHidden, func(p any) {
		events = append(events, "hidden:"+p.(ScreenHidden).ID)
	})
	bus.Subscribe(TopicScreenShown, func(p any) {
		events = append(events, "shown:"+p.(ScreenShown).ID)
	})

	m.Show("a", nil)
	m.NotifyTransitionEnd()
	m.Show("b", nil)
	m.NotifyTransitionEnd()

	want := []string{"shown:a", "hidden:a", "shown:b"}
	if len(events) != len(want) {
		t.Fatalf("expected %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: expected %q, got %q (all: %v)", i, want[i], events[i], events)
		}
	}
}

func TestScreenManager_TabWrapsAndSkipsDisabled(t *testing.T) {
	m, _ := newTestManager()
	broken := &Control{ID: "broken", Label: "???", Disabled: true}
	resume := &Control{ID: "resume", Label: "Resume"}
	quit := &Control{ID: "quit", Label: "Quit"}
	m.Register("pause", ScreenDef{Controls: []*Control{broken, resume, quit}})

	m.Show("pause", nil)
	m.NotifyTransitionEnd()

	if c := m.FocusedControl(); c == nil || c.ID != "resume" {
		t.Fatalf("initial focus should land on the first enabled control, got %v", c)
	}
	m.HandleTab(false)
	if c := m.FocusedControl(); c.ID != "quit" {
		t.Fatalf("tab should move to quit, got %q", c.ID)
	}
	m.HandleTab(false)
	if c := m.FocusedControl(); c.ID != "resume" {
		t.Fatalf("tab should wrap past the disabled control to resume, got %q", c.ID)
	}
	m.HandleTab(true)
	if c := m.FocusedControl(); c.ID != "quit" {
		t.Fatalf("reverse tab should wrap back to quit, got %q", c.ID)
	}
}

func TestScreenManager_ActivateFiresFocusedControl(t *testing.T) {
	m, _ := newTestManager()
	fired := 0
	m.Register("pause", ScreenDef{Controls: []*Control{
		{ID: "resume", Label: "Resume", Action: func() { fired++ }},
	}})
	m.Show("pause", nil)
	m.NotifyTransitionEnd()

	m.HandleActivate()
	if fired != 1 {
		t.Fatalf("activate should fire the focused control once, got %d", fired)
	}
}

func TestScreenManager_ModalTrapsFocus(t *testing.T) {
	m, _ := newTestManager()
	s1 := &Control{ID: "s1", Label: "One"}
	s2 := &Control{ID: "s2", Label: "Two"}
	m.Register("map", ScreenDef{Controls: []*Control{s1, s2}})
	ok := &Control{ID: "ok", Label: "OK"}
	cancel := &Control{ID: "cancel", Label: "Cancel"}
	m.RegisterModal("confirm", ScreenDef{Controls: []*Control{ok, cancel}})

	m.Show("map", nil)
	m.NotifyTransitionEnd()
	m.HandleTab(false) // focus s2 before the modal opens
	m.ShowModal("confirm", nil)

	for i := 0; i < 5; i++ {
		m.HandleTab(false)
		c := m.FocusedControl()
		if c == nil || (c.ID != "ok" && c.ID != "cancel") {
			t.Fatalf("tab %d escaped the modal focus trap, focused %v", i, c)
		}
	}

	// Closing the modal restores focus to the screen control that had it.
	m.HideModal()
	if c := m.FocusedControl(); c == nil || c.ID != "s2" {
		t.Fatalf("modal close should restore focus to s2, got %v", c)
	}
}

func TestScreenManager_ModalSwapClosesFirstOnce(t *testing.T) {
	m, bus := newTestManager()
	hides := 0
	m.RegisterModal("first", ScreenDef{OnHide: func() { hides++ }})
	m.RegisterModal("second", ScreenDef{})

	hiddenEvents := 0
	bus.Subscribe(TopicModalHidden, func(any) { hiddenEvents++ })

	m.ShowModal("first", nil)
	m.ShowModal("second", nil)

	if m.ActiveModal() != "second" {
		t.Fatalf("expected second modal active, got %q", m.ActiveModal())
	}
	if hides != 1 {
		t.Fatalf("first modal's OnHide should run exactly once, got %d", hides)
	}
	if hiddenEvents != 1 {
		t.Fatalf("expected one modal:hidden event, got %d", hiddenEvents)
	}
}

func TestScreenManager_ModalBackdropClickCloses(t *testing.T) {
	m, _ := newTestManager()
	m.RegisterModal("confirm", ScreenDef{})
	m.ShowModal("confirm", nil)

	// (5,5) is far outside the centred modal panel on a 1280x720 viewport.
	if !m.HandleClick(5, 5) {
		t.Fatal("backdrop click should be consumed")
	}
	if m.ActiveModal() != "" {
		t.Fatal("backdrop click should close the modal")
	}
}

func TestScreenManager_ClickActivatesControl(t *testing.T) {
	m, _ := newTestManager()
	fired := 0
	deploy := &Control{ID: "deploy", Label: "Deploy", Action: func() { fired++ }}
	m.Register("briefing", ScreenDef{Controls: []*Control{deploy}})
	m.Show("briefing", nil)
	m.NotifyTransitionEnd()

	x, y, w, h := deploy.Bounds()
	if w == 0 || h == 0 {
		t.Fatal("control bounds should be laid out after show")
	}
	if !m.HandleClick(x+w/2, y+h/2) {
		t.Fatal("click on a control should be consumed")
	}
	if fired != 1 {
		t.Fatalf("control action should fire once, got %d", fired)
	}
}

func TestScreenManager_EscapePrecedence(t *testing.T) {
	m, _ := newTestManager()
	m.Register("map", ScreenDef{})
	m.Register("briefing", ScreenDef{})
	m.RegisterModal("confirm", ScreenDef{})

	m.Show("map", nil)
	m.NotifyTransitionEnd()
	m.Show("briefing", nil)
	m.NotifyTransitionEnd()
	m.ShowModal("confirm", nil)

	// 1: modal closes first; navigation untouched.
	if !m.HandleEscape() {
		t.Fatal("escape should close the modal")
	}
	if m.ActiveModal() != "" || m.Current() != "briefing" || m.HistoryDepth() != 1 {
		t.Fatalf("modal escape must not navigate: modal=%q current=%q depth=%d",
			m.ActiveModal(), m.Current(), m.HistoryDepth())
	}

	// 2: with history, escape navigates back.
	if !m.HandleEscape() {
		t.Fatal("escape should navigate back")
	}
	m.NotifyTransitionEnd()
	if m.Current() != "map" {
		t.Fatalf("escape should return to map, got %q", m.Current())
	}

	// 3: without history, escape hides the screen.
	if !m.HandleEscape() {
		t.Fatal("escape should hide the last screen")
	}
	m.NotifyTransitionEnd()
	if m.Current() != "" {
		t.Fatalf("escape should leave no screen, got %q", m.Current())
	}

	// 4: nothing left to dismiss.
	if m.HandleEscape() {
		t.Fatal("escape with nothing open should report unhandled")
	}
}

func TestScreenManager_UnregisterShowingScreen(t *testing.T) {
	m, bus := newTestManager()
	m.Register("map", ScreenDef{})
	hidden := 0
	bus.Subscribe(TopicScreenHidden, func(any) { hidden++ })

	m.Show("map", nil)
	m.NotifyTransitionEnd()
	if err := m.Unregister("map"); err != nil {
		t.Fatalf("unregister failed: %v", err)
	}
	if m.Current() != "" {
		t.Fatal("unregister should dismiss the showing screen")
	}
	if hidden != 1 {
		t.Fatalf("unregister should publish screen:hidden, got %d", hidden)
	}
	// The id is free again.
	if err := m.Register("map", ScreenDef{}); err != nil {
		t.Fatalf("re-registration after unregister failed: %v", err)
	}
}
