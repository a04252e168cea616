package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lixenwraith/efield/audio"
	"github.com/lixenwraith/efield/field"
	"github.com/lixenwraith/efield/parameter"
	"github.com/lixenwraith/efield/render"
	"github.com/lixenwraith/efield/vmath"
)

// ErrInvalidInput rejects prompt text that is not a finite, non-zero number
var ErrInvalidInput = errors.New("invalid charge value")

// maxInputLen bounds the prompt buffer
const maxInputLen = 24

// HandleEvent applies one terminal event; returns false to quit
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if a.mode == render.ModePrompt {
			a.handlePromptKey(ev)
			return true
		}
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.resize(ev.Size())
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape {
		return false
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}

	switch ev.Rune() {
	case 'a', 'q':
		a.mode = render.ModePrompt
		a.input = a.input[:0]
	case 'x':
		a.removeAtPointer()
	case 'c':
		a.clearCharges()
	case 'g', 'v', 'l':
		a.toggle(ev.Rune())
	case '[':
		a.setSlider(a.slider - 1)
	case ']':
		a.setSlider(a.slider + 1)
	case '+', '=':
		a.view.ZoomIn()
	case '-', '_':
		a.view.ZoomOut()
	case 'p':
		a.export()
	case 'm':
		if a.player.ToggleMute() {
			a.flash("muted")
		} else {
			a.flash("sound on")
		}
	}
	return true
}

func (a *App) handlePromptKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		a.mode = render.ModeNormal
		a.input = a.input[:0]
	case tcell.KeyEnter:
		a.submitCharge()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.input); n > 0 {
			a.input = a.input[:n-1]
		}
	case tcell.KeyRune:
		r := ev.Rune()
		if len(a.input) < maxInputLen && strings.ContainsRune("0123456789.-+eE", r) {
			a.input = append(a.input, r)
		}
	}
}

// submitCharge places the prompted charge at the pointer, or flashes the prompt on bad input
func (a *App) submitCharge() {
	micro, err := ParseCharge(string(a.input))
	if err != nil {
		a.inputErrUntil = a.now().Add(parameter.ErrorFlashDuration)
		a.player.Play(audio.CueError)
		return
	}

	pos := a.pointerOrOrigin()
	id, err := a.sim.AddCharge(pos.X, pos.Y, micro*parameter.MicroCoulomb)
	if err != nil {
		a.log.Warn().Err(err).Msg("add charge rejected")
		a.inputErrUntil = a.now().Add(parameter.ErrorFlashDuration)
		a.player.Play(audio.CueError)
		return
	}

	cue := audio.CueChargeNegative
	if micro > 0 {
		cue = audio.CueChargePositive
	}
	a.player.Play(cue)
	a.log.Info().Str("id", id.String()).Float64("uC", micro).Float64("x", pos.X).Float64("y", pos.Y).Msg("charge placed")

	a.mode = render.ModeNormal
	a.input = a.input[:0]
	a.sim.Tick()
}

// ParseCharge reads a prompt value in microcoulombs
func ParseCharge(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidInput, "%q", s)
	}
	if !vmath.IsFinite(v) || v == 0 {
		return 0, errors.Wrapf(ErrInvalidInput, "%q", s)
	}
	return v, nil
}

func (a *App) pointerOrOrigin() vmath.Vec2 {
	if a.pointerValid {
		return a.pointer
	}
	return vmath.Vec2{}
}

func (a *App) removeAtPointer() {
	if !a.pointerValid {
		return
	}
	id, ok := a.sim.FindChargeAt(a.pointer)
	if !ok {
		return
	}
	if err := a.sim.RemoveCharge(id); err != nil {
		a.log.Warn().Err(err).Msg("remove failed")
		return
	}
	if id == a.dragging {
		a.dragging = uuid.Nil
	}
	a.player.Play(audio.CueChargeRemoved)
	a.sim.Tick()
}

func (a *App) clearCharges() {
	n := a.sim.ClearCharges()
	if n == 0 {
		return
	}
	a.dragging = uuid.Nil
	a.player.Play(audio.CueChargeRemoved)
	a.log.Info().Int("count", n).Msg("charges cleared")
	a.flash("cleared %d", n)
	a.sim.Tick()
}

func (a *App) toggle(key rune) {
	f := a.sim.Flags()
	switch key {
	case 'g':
		f.ShowGrid = !f.ShowGrid
	case 'v':
		f.ShowVectors = !f.ShowVectors
	case 'l':
		f.ShowLine = !f.ShowLine
	}
	a.sim.SetFlags(f)
}

// SliderAngle maps a slider position to the line start angle
func SliderAngle(v int) float64 {
	return float64(v) * parameter.AngleSliderUnit * math.Pi
}

func sliderFromAngle(angle float64) int {
	v := int(math.Round(angle / (parameter.AngleSliderUnit * math.Pi)))
	return max(0, min(parameter.AngleSliderMax, v))
}

func (a *App) setSlider(v int) {
	v = max(0, min(parameter.AngleSliderMax, v))
	if v == a.slider {
		return
	}
	if err := a.sim.SetStartAngle(SliderAngle(v)); err != nil {
		a.log.Warn().Err(err).Msg("angle rejected")
		return
	}
	a.slider = v
	a.sim.Tick()
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	a.pointerValid = a.view.Contains(x, y)
	if a.pointerValid {
		a.pointer = a.view.ToSim(x, y)
	}

	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		a.view.ZoomIn()
	case btn&tcell.WheelDown != 0:
		a.view.ZoomOut()
	case btn&tcell.Button1 != 0:
		if a.dragging == uuid.Nil {
			if id, ok := a.sim.FindChargeAt(a.view.ToSim(x, y)); ok {
				a.dragging, a.dragX, a.dragY = id, x, y
			}
			return
		}
		a.drag(x, y)
	default:
		if a.dragging != uuid.Nil {
			a.drag(x, y)
			a.dragging = uuid.Nil
		}
	}
}

// drag moves the held charge by the pointer delta since the last event
func (a *App) drag(x, y int) {
	dx, dy := x-a.dragX, y-a.dragY
	if dx == 0 && dy == 0 {
		return
	}
	a.dragX, a.dragY = x, y
	if err := a.sim.MoveCharge(a.dragging, a.view.DeltaToSim(dx, dy)); err != nil {
		if errors.Is(err, field.ErrChargeNotFound) {
			a.dragging = uuid.Nil
		}
		return
	}
	a.sim.Tick()
}

// export writes a timestamped snapshot in the working directory
func (a *App) export() {
	path := fmt.Sprintf("efield-%s.pdf", a.now().Format("20060102-150405"))
	f := a.sim.Frame()
	if err := render.ExportPDF(path, &f); err != nil {
		a.log.Error().Err(err).Str("path", path).Msg("export failed")
		a.flash("export failed")
		a.player.Play(audio.CueError)
		return
	}
	a.log.Info().Str("path", path).Msg("exported")
	a.flash("saved %s", path)
}
