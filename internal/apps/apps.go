// Package apps is the desktop application catalogue: the display title,
// glyph and guard flag of every app the session can open.
package apps

import (
	"fmt"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/usecase"
)

// App describes one launchable application.
type App struct {
	ID      domain.AppID `json:"id"`
	Title   string       `json:"title"`
	Glyph   string       `json:"glyph"`
	Guarded bool         `json:"guarded"` // Closing it is gated on the security score
}

var catalog = []App{
	{ID: domain.AppSecurityCenter, Title: "Windows Security", Glyph: "shield", Guarded: true},
	{ID: domain.AppNotepad, Title: "Notepad", Glyph: "notepad"},
	{ID: domain.AppCalculator, Title: "Calculator", Glyph: "calculator"},
	{ID: domain.AppSettings, Title: "Settings", Glyph: "gear"},
	{ID: domain.AppRansomwareSetup, Title: "OneDrive Setup", Glyph: "onedrive"},
}

// All returns the catalogue in start menu order.
func All() []App {
	out := make([]App, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalogue entry for id.
func Lookup(id domain.AppID) (App, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return App{}, false
}

// Open builds the action that launches id with its catalogue title and guard.
func Open(id domain.AppID) (usecase.OpenWindow, error) {
	a, ok := Lookup(id)
	if !ok {
		return usecase.OpenWindow{}, fmt.Errorf("unknown app: %s", id)
	}
	return usecase.OpenWindow{App: a.ID, Title: a.Title, Guarded: a.Guarded}, nil
}

// Complete fills the title and guard of an OpenWindow from the catalogue.
// Unknown apps are returned unchanged; a catalogued guard cannot be dropped.
func Complete(a usecase.OpenWindow) usecase.OpenWindow {
	app, ok := Lookup(a.App)
	if !ok {
		return a
	}
	if a.Title == "" {
		a.Title = app.Title
	}
	a.Guarded = a.Guarded || app.Guarded
	return a
}
