package main

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/efield/audio"
	"github.com/lixenwraith/efield/field"
	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/render"
	"github.com/lixenwraith/efield/render/renderers"
	"github.com/lixenwraith/efield/sim"
	"github.com/lixenwraith/efield/vmath"
)

// errQuit ends the run loop without reporting a failure
var errQuit = errors.New("quit")

// App is the interactive viewer; UI state is owned by the event loop goroutine
type App struct {
	screen tcell.Screen
	sim    *sim.Simulation
	player audio.Player
	log    zerolog.Logger

	view  *render.View
	orch  *render.RenderOrchestrator
	frame sim.Frame

	// Prompt
	mode          render.InputMode
	input         []rune
	inputErrUntil time.Time

	// Pointer and drag
	pointer      vmath.Vec2
	pointerValid bool
	dragging     uuid.UUID
	dragX, dragY int

	slider int // angle slider position in [0, AngleSliderMax]

	message      string
	messageUntil time.Time

	audio bool
	now   func() time.Time
}

// NewApp wires the render pipeline for screen
func NewApp(screen tcell.Screen, s *sim.Simulation, player audio.Player, scale float64, log zerolog.Logger) *App {
	w, h := screen.Size()

	a := &App{
		screen: screen,
		sim:    s,
		player: player,
		log:    log,
		view:   render.NewView(scale, w, h-parameter.StatusBarRows),
		orch:   render.NewRenderOrchestrator(screen, w, h),
		slider: sliderFromAngle(s.StartAngle()),
		now:    time.Now,
	}

	type rendererDef struct {
		renderer render.SystemRenderer
		priority render.RenderPriority
	}
	for _, def := range []rendererDef{
		{renderers.NewGridRenderer(), render.PriorityGrid},
		{renderers.NewVectorsRenderer(), render.PriorityVectors},
		{renderers.NewLineRenderer(), render.PriorityFieldLine},
		{renderers.NewChargesRenderer(), render.PriorityCharges},
		{renderers.NewStatusBarRenderer(), render.PriorityUI},
	} {
		a.orch.Register(def.renderer, def.priority)
	}

	return a
}

// Run drives the simulation ticker, the event poller and the UI loop until quit or ctx ends
func (a *App) Run(ctx context.Context, tick time.Duration) error {
	a.screen.EnableMouse(tcell.MouseMotionEvents)
	a.screen.HideCursor()

	g, ctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event, 256)
	frameReady := make(chan struct{}, 1)

	// Input polling
	g.Go(guard("event poller", func() error {
		a.screen.ChannelEvents(events, ctx.Done())
		return nil
	}))

	// Simulation ticks
	g.Go(guard("ticker", func() error {
		ticker := time.NewTicker(tick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				a.onTick(a.sim.Tick())
				select {
				case frameReady <- struct{}{}:
				default:
				}
			}
		}
	}))

	// UI
	g.Go(guard("ui", func() error {
		a.draw()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return errQuit
				}
				if !a.HandleEvent(ev) {
					return errQuit
				}
				a.draw()
			case <-frameReady:
				a.draw()
			}
		}
	}))

	err := g.Wait()
	if errors.Is(err, errQuit) {
		a.log.Info().Msg("quit")
		return nil
	}
	return err
}

// guard converts a goroutine panic into an error so the terminal is restored on the way out
func guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("%s crashed: %v\n%s", name, r, debug.Stack())
			}
		}()
		return fn()
	}
}

// onTick plays the hit cue when the line starts ending on a charge
func (a *App) onTick(r sim.TickReport) {
	if r.Changed && r.Reason == field.StoppedByCollision {
		a.player.Play(audio.CueLineHit)
	}
}

func (a *App) draw() {
	a.sim.FrameInto(&a.frame)
	w, h := a.screen.Size()
	a.orch.RenderFrame(render.RenderContext{
		Frame:        &a.frame,
		View:         a.view,
		ScreenWidth:  w,
		ScreenHeight: h,
		Selected:     a.dragging,
		Pointer:      a.pointer,
		PointerValid: a.pointerValid,
		Status:       a.status(),
	})
}

func (a *App) status() render.StatusInfo {
	now := a.now()
	st := render.StatusInfo{
		Mode:       a.mode,
		Input:      string(a.input),
		InputError: now.Before(a.inputErrUntil),
		Audio:      a.audio,
		Muted:      a.player.IsMuted(),
	}
	if now.Before(a.messageUntil) {
		st.Message = a.message
		st.Fade = 1 - float64(a.messageUntil.Sub(now))/float64(parameter.StatusMessageTimeout)
	}
	return st
}

func (a *App) flash(format string, args ...any) {
	a.message = fmt.Sprintf(format, args...)
	a.messageUntil = a.now().Add(parameter.StatusMessageTimeout)
}

// resize re-centres the view on the new field area
func (a *App) resize(w, h int) {
	a.view.Resize(w, h-parameter.StatusBarRows)
	a.orch.Resize(w, h)
}
