package renderers

import (
	"fmt"
	"math"
	"strings"

	"github.com/lixenwraith/efield/field"
	"github.com/lixenwraith/efield/render"
)

const (
	audioStr   = " ♪ "
	modeNormal = " VIEW "
	modePrompt = " µC: "
	promptHint = "  (enter to place, esc to cancel)"
	statusSep  = " │ "
)

// StatusBarRenderer draws the status bar on the last screen row
type StatusBarRenderer struct{}

// NewStatusBarRenderer creates a status bar renderer
func NewStatusBarRenderer() *StatusBarRenderer {
	return &StatusBarRenderer{}
}

// Render implements render.SystemRenderer
func (s *StatusBarRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	y := ctx.ScreenHeight - 1
	if y < 0 {
		return
	}
	buf.Fill(0, ctx.ScreenWidth, y, render.RgbStatusBg)

	x := 0
	st := ctx.Status

	// Audio indicator, only when a device is open
	if st.Audio {
		bg := render.RgbAudioOn
		if st.Muted {
			bg = render.RgbAudioMuted
		}
		x = buf.Text(x, y, audioStr, render.RgbModeText, bg)
	}

	if st.Mode == render.ModePrompt {
		bg := render.RgbModePromptBg
		if st.InputError {
			bg = render.RgbPromptError
		}
		x = buf.Text(x, y, modePrompt, render.RgbModeText, bg)
		x = buf.Text(x, y, " "+st.Input+"_", render.RgbStatusText, render.RgbStatusBg)
		buf.Text(x, y, promptHint, render.RgbGridDot, render.RgbStatusBg)
		return
	}

	x = buf.Text(x, y, modeNormal, render.RgbModeText, render.RgbModeNormalBg)
	x = buf.Text(x, y, " "+Summary(ctx), render.RgbStatusText, render.RgbStatusBg)

	if st.Message != "" {
		// Messages are right-aligned and win over the summary tail
		msg := statusSep + st.Message
		fg := render.Lerp(render.RgbLineHit, render.RgbStatusBg, st.Fade)
		buf.Text(max(0, ctx.ScreenWidth-len([]rune(msg))), y, msg, fg, render.RgbStatusBg)
	}
}

// Summary formats the session state shown in the status bar
func Summary(ctx render.RenderContext) string {
	f := ctx.Frame
	if f == nil {
		return ""
	}

	line := "line:" + f.Line.Reason.String()
	if f.Line.Reason != field.NoStart {
		line = fmt.Sprintf("line:%s/%d", f.Line.Reason, f.Line.Len())
	}

	parts := []string{
		fmt.Sprintf("q:%d", len(f.Charges)),
		fmt.Sprintf("θ:%.2fπ", f.StartAngle/math.Pi),
		line,
		fmt.Sprintf("εr:%g %s", f.Permittivity, f.Evaluator),
		fmt.Sprintf("g:%s v:%s l:%s", onOff(f.Flags.ShowGrid), onOff(f.Flags.ShowVectors), onOff(f.Flags.ShowLine)),
	}
	if f.Grid != nil {
		parts = append(parts, fmt.Sprintf("|E|max:%.3g", f.Grid.MaxMagnitude()))
	}
	if ctx.View != nil {
		parts = append(parts, fmt.Sprintf("×%.2f", ctx.View.Scale()))
	}
	return strings.Join(parts, statusSep)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
