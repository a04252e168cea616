package render

import (
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/lixenwraith/efield/sim"
	"github.com/lixenwraith/efield/vmath"
)

// Page layout in millimetres, A4 landscape
const (
	pdfPageW      = 297.0
	pdfPageH      = 210.0
	pdfMargin     = 10.0
	pdfHeader     = 8.0
	pdfPlaneExtra = 2.0 // grid lines overshoot the lattice by this many units
	pdfChargeR    = 1.2
	pdfFontSize   = 9.0
)

// ErrEmptyFrame is returned when there is nothing to export
var ErrEmptyFrame = errors.New("render: frame has no grid")

// ExportPDF writes a one-page snapshot of f to path
func ExportPDF(path string, f *sim.Frame) error {
	pdf, err := buildPDF(f)
	if err != nil {
		return err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return errors.Wrapf(err, "render: write %s", path)
	}
	return nil
}

// WritePDF writes the snapshot to w
func WritePDF(w io.Writer, f *sim.Frame) error {
	pdf, err := buildPDF(f)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "render: write pdf")
	}
	return nil
}

// PageTransform maps simulation space onto the page so the plane fits inside the margins
func PageTransform(f *sim.Frame) vmath.Transform {
	w, h := f.Grid.Extent()
	w += 2 * pdfPlaneExtra
	h += 2 * pdfPlaneExtra

	availW := pdfPageW - 2*pdfMargin
	availH := pdfPageH - 2*pdfMargin - pdfHeader
	scale := math.Min(availW/w, availH/h)

	cx := pdfPageW / 2
	cy := pdfMargin + pdfHeader + availH/2
	return vmath.NewViewTransform(scale, -scale, cx, cy)
}

func buildPDF(f *sim.Frame) (*gofpdf.Fpdf, error) {
	if f == nil || f.Grid == nil {
		return nil, ErrEmptyFrame
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("efield snapshot", true)
	pdf.SetCreator("efield", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	setFill(pdf, RgbBackground)
	pdf.Rect(0, 0, pdfPageW, pdfPageH, "F")

	m := PageTransform(f)
	if f.Flags.ShowGrid {
		drawPlane(pdf, m, f)
	}
	if f.Flags.ShowVectors {
		drawArrows(pdf, m, f)
	}
	if f.Flags.ShowLine && f.Line.Len() > 1 {
		drawLine(pdf, m, f)
	}
	drawCharges(pdf, m, f)
	drawHeader(pdf, f)

	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(err, "render: build pdf")
	}
	return pdf, nil
}

func drawPlane(pdf *gofpdf.Fpdf, m vmath.Transform, f *sim.Frame) {
	g := f.Grid
	w, h := g.Extent()
	setDraw(pdf, RgbGridDot)
	pdf.SetLineWidth(0.1)

	for j := 0; j < g.Height(); j++ {
		y := -h/2 + float64(j)*g.Spacing()
		line(pdf, m, vmath.V2(-w/2-pdfPlaneExtra, y), vmath.V2(w/2+pdfPlaneExtra, y))
	}
	for i := 0; i < g.Width(); i++ {
		x := -w/2 + float64(i)*g.Spacing()
		line(pdf, m, vmath.V2(x, -h/2-pdfPlaneExtra), vmath.V2(x, h/2+pdfPlaneExtra))
	}
}

func drawArrows(pdf *gofpdf.Fpdf, m vmath.Transform, f *sim.Frame) {
	pts := make([]gofpdf.PointType, 3)
	f.Grid.Each(func(_, _ int, pos, sample vmath.Vec2) {
		if !sample.IsFinite() {
			return
		}
		tri := ArrowTriangle(pos, sample)
		for k, p := range tri {
			s := m.MapPoint(p)
			pts[k] = gofpdf.PointType{X: s.X, Y: s.Y}
		}
		setFill(pdf, FieldColor(sample.Length()))
		pdf.Polygon(pts, "F")
	})
}

func drawLine(pdf *gofpdf.Fpdf, m vmath.Transform, f *sim.Frame) {
	setDraw(pdf, RgbFieldLine)
	pdf.SetLineWidth(0.3)
	pts := f.Line.Points
	for k := 1; k < len(pts); k++ {
		line(pdf, m, pts[k-1], pts[k])
	}
}

func drawCharges(pdf *gofpdf.Fpdf, m vmath.Transform, f *sim.Frame) {
	for _, c := range f.Charges {
		col := RgbNegative
		if c.Positive() {
			col = RgbPositive
		}
		s := m.MapPoint(c.Pos)
		setFill(pdf, col)
		pdf.Circle(s.X, s.Y, pdfChargeR, "F")
	}
}

func drawHeader(pdf *gofpdf.Fpdf, f *sim.Frame) {
	pdf.SetFont("Helvetica", "", pdfFontSize)
	r, g, b := RgbStatusText.Ints()
	pdf.SetTextColor(r, g, b)
	text := fmt.Sprintf("efield  tick %d  charges %d  er %g  %s  angle %.2f pi  line %s (%d points)",
		f.Tick, len(f.Charges), f.Permittivity, f.Evaluator, f.StartAngle/math.Pi, f.Line.Reason, f.Line.Len())
	pdf.Text(pdfMargin, pdfMargin+pdfHeader/2, text)
}

func line(pdf *gofpdf.Fpdf, m vmath.Transform, a, b vmath.Vec2) {
	sa, sb := m.MapPoint(a), m.MapPoint(b)
	pdf.Line(sa.X, sa.Y, sb.X, sb.Y)
}

func setFill(pdf *gofpdf.Fpdf, c RGB) {
	r, g, b := c.Ints()
	pdf.SetFillColor(r, g, b)
}

func setDraw(pdf *gofpdf.Fpdf, c RGB) {
	r, g, b := c.Ints()
	pdf.SetDrawColor(r, g, b)
}
