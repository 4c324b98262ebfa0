// Package scene tracks which screen a frontend is showing.
//
// Both the terminal UI and the desktop window start on a loading screen,
// switch to the board once the session exists and end on quit.
package scene

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Scene names
const (
	Loading = "loading"
	Board   = "board"
	Quit    = "quit"
)

// Event names
const (
	EventLoaded = "loaded"
	EventReload = "reload"
	EventQuit   = "quit"
)

// Director owns the scene state machine for one frontend
type Director struct {
	machine *fsm.FSM
	log     *logrus.Entry
	onEnter map[string][]func()
}

// NewDirector returns a director positioned on the loading scene
func NewDirector(frontend string) *Director {
	d := &Director{
		log:     logrus.WithFields(logrus.Fields{"component": "scene", "frontend": frontend}),
		onEnter: make(map[string][]func()),
	}

	d.machine = fsm.NewFSM(
		Loading,
		fsm.Events{
			{Name: EventLoaded, Src: []string{Loading}, Dst: Board},
			{Name: EventReload, Src: []string{Board}, Dst: Loading},
			{Name: EventQuit, Src: []string{Loading, Board}, Dst: Quit},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				d.log.WithFields(logrus.Fields{"from": e.Src, "to": e.Dst}).Debug("Scene changed")
				for _, fn := range d.onEnter[e.Dst] {
					fn()
				}
			},
		},
	)

	return d
}

// OnEnter registers fn to run every time the director enters the named scene
func (d *Director) OnEnter(name string, fn func()) {
	d.onEnter[name] = append(d.onEnter[name], fn)
}

// Current returns the active scene
func (d *Director) Current() string {
	return d.machine.Current()
}

// Is reports whether the named scene is active
func (d *Director) Is(name string) bool {
	return d.machine.Is(name)
}

// Loaded moves from the loading scene to the board
func (d *Director) Loaded(ctx context.Context) error {
	return d.fire(ctx, EventLoaded)
}

// Reload returns to the loading scene, for example after a reset
func (d *Director) Reload(ctx context.Context) error {
	return d.fire(ctx, EventReload)
}

// Quit ends the frontend. Quitting twice is not an error.
func (d *Director) Quit(ctx context.Context) error {
	if d.machine.Is(Quit) {
		return nil
	}
	return d.fire(ctx, EventQuit)
}

func (d *Director) fire(ctx context.Context, event string) error {
	if err := d.machine.Event(ctx, event); err != nil {
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return nil
		}
		return fmt.Errorf("scene %s: %w", event, err)
	}
	return nil
}
