package usecase

import (
	"sort"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
)

// Window geometry.
var (
	defaultWindowSize = domain.Size{Width: 900, Height: 600}

	compactWindowSizes = map[domain.AppID]domain.Size{
		domain.AppRansomwareSetup: {Width: 600, Height: 450},
	}
)

const (
	staggerX    = 150
	staggerY    = 100
	staggerStep = 20
)

func windowSize(id domain.AppID) domain.Size {
	if sz, ok := compactWindowSizes[id]; ok {
		return sz
	}
	return defaultWindowSize
}

func staggerPosition(open int) domain.Position {
	return domain.Position{X: staggerX + open*staggerStep, Y: staggerY + open*staggerStep}
}

func windowIndex(ws []domain.WindowInstance, id domain.AppID) int {
	for i, w := range ws {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// bringToFront gives id the top z-index and shifts down every window that
// was above it, keeping z-indices a permutation of 1..N. The result is
// ordered by z-index.
func bringToFront(ws []domain.WindowInstance, id domain.AppID) []domain.WindowInstance {
	idx := windowIndex(ws, id)
	if idx < 0 || ws[idx].ZIndex == len(ws) {
		return ws
	}

	prior := ws[idx].ZIndex
	out := make([]domain.WindowInstance, len(ws))
	copy(out, ws)
	for i := range out {
		switch {
		case i == idx:
			out[i].ZIndex = len(out)
		case out[i].ZIndex > prior:
			out[i].ZIndex--
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// withoutWindow removes id and closes the gap it leaves in the z order.
func withoutWindow(ws []domain.WindowInstance, id domain.AppID) []domain.WindowInstance {
	idx := windowIndex(ws, id)
	if idx < 0 {
		return ws
	}
	removed := ws[idx].ZIndex
	out := make([]domain.WindowInstance, 0, len(ws)-1)
	for i, w := range ws {
		if i == idx {
			continue
		}
		if w.ZIndex > removed {
			w.ZIndex--
		}
		out = append(out, w)
	}
	return out
}

func updateWindow(ws []domain.WindowInstance, id domain.AppID, fn func(*domain.WindowInstance)) []domain.WindowInstance {
	out := make([]domain.WindowInstance, len(ws))
	copy(out, ws)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

func openWindow(s domain.State, a OpenWindow) domain.State {
	if a.App == "" {
		return s
	}
	s.StartMenuOpen = false
	s.ActiveWindowID = a.App

	if _, ok := s.Window(a.App); ok {
		s.Windows = updateWindow(bringToFront(s.Windows, a.App), a.App, func(w *domain.WindowInstance) {
			w.Minimized = false
		})
		return s
	}

	title := a.Title
	if title == "" {
		title = string(a.App)
	}
	ws := make([]domain.WindowInstance, 0, len(s.Windows)+1)
	ws = append(ws, s.Windows...)
	s.Windows = append(ws, domain.WindowInstance{
		ID:       a.App,
		Title:    title,
		ZIndex:   len(s.Windows) + 1,
		Guarded:  a.Guarded,
		Position: staggerPosition(len(s.Windows)),
		Size:     windowSize(a.App),
	})
	return s
}

func closeWindow(s domain.State, a CloseWindow) domain.State {
	w, ok := s.Window(a.App)
	if !ok {
		return s
	}

	if w.Guarded && !a.Force {
		if SecurityScore(s) < GuardThreshold {
			s.VulnerablePopupOpen = true
			return s
		}
		s.VulnerablePopupOpen = false
	}

	s.Windows = withoutWindow(s.Windows, a.App)
	if s.ActiveWindowID == a.App {
		s.ActiveWindowID = ""
	}
	return s
}

// focusWindow raises a window. Focusing a minimized window restores it.
func focusWindow(s domain.State, id domain.AppID) domain.State {
	w, ok := s.Window(id)
	if !ok {
		return s
	}
	s.Windows = bringToFront(s.Windows, id)
	if w.Minimized {
		s.Windows = updateWindow(s.Windows, id, func(w *domain.WindowInstance) {
			w.Minimized = false
		})
	}
	s.ActiveWindowID = id
	return s
}

func toggleMaximize(s domain.State, id domain.AppID) domain.State {
	if _, ok := s.Window(id); !ok {
		return s
	}
	s.Windows = updateWindow(s.Windows, id, func(w *domain.WindowInstance) {
		w.Maximized = !w.Maximized
	})
	return s
}

func moveWindow(s domain.State, a MoveWindow) domain.State {
	if _, ok := s.Window(a.App); !ok {
		return s
	}
	s.Windows = updateWindow(s.Windows, a.App, func(w *domain.WindowInstance) {
		w.Position = a.Position
	})
	return s
}

func minimizeWindow(s domain.State, id domain.AppID) domain.State {
	if _, ok := s.Window(id); !ok {
		return s
	}
	s.Windows = updateWindow(s.Windows, id, func(w *domain.WindowInstance) {
		w.Minimized = true
	})
	if s.ActiveWindowID == id {
		s.ActiveWindowID = ""
	}
	return s
}

func restoreWindow(s domain.State, id domain.AppID) domain.State {
	if _, ok := s.Window(id); !ok {
		return s
	}
	s.Windows = updateWindow(bringToFront(s.Windows, id), id, func(w *domain.WindowInstance) {
		w.Minimized = false
	})
	s.ActiveWindowID = id
	return s
}

// closeGuardedWindows force-closes every guarded window.
func closeGuardedWindows(s domain.State) domain.State {
	for _, w := range s.Windows {
		if w.Guarded {
			s = closeWindow(s, CloseWindow{App: w.ID, Force: true})
		}
	}
	return s
}
