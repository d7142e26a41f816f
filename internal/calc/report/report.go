// Package report renders a timber beam check as a PDF protocol.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/phpdave11/gofpdf"

	"Timber/internal/calc/fire"
	"Timber/internal/calc/timber"
)

// Meta is the protocol header.
type Meta struct {
	Project string    `json:"project"`
	Author  string    `json:"author"`
	Date    time.Time `json:"date"`
}

type rgb struct{ r, g, b int }

var (
	green  = rgb{76, 175, 80}
	orange = rgb{255, 152, 0}
	red    = rgb{244, 67, 54}
)

// barColor is green up to 80 % utilization, orange up to 100 %, red above.
func barColor(u float64) rgb {
	switch {
	case u <= 0.8:
		return green
	case u <= 1.0:
		return orange
	default:
		return red
	}
}

type protocol struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// Render writes the protocol of res to w.
func Render(w io.Writer, res timber.Result, meta Meta) error {
	if meta.Date.IsZero() {
		meta.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	p := &protocol{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, "Structural check of a timber beam", "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, "to EN 1995-1-1 and EN 1995-1-2", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	p.header(meta)
	p.inputs(res)
	p.internalForces(res)
	p.uls(res)
	p.sls(res)
	next := 5
	if res.Fire != nil {
		p.fire(*res.Fire)
		next = 6
	}
	p.conclusion(res, next)

	return pdf.Output(w)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (p *protocol) header(meta Meta) {
	pdf := p.pdf
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, "Project: "+p.tr(orDash(meta.Project)), "", 0, "", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+meta.Date.Format("02.01.2006"), "", 1, "", false, 0, "")
	pdf.CellFormat(95, 6, "Prepared by: "+p.tr(orDash(meta.Author)), "", 1, "", false, 0, "")
	pdf.Ln(5)
}

func (p *protocol) sectionTitle(title string) {
	pdf := p.pdf
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 8, title, "", 1, "", true, 0, "")
	pdf.Ln(2)
}

func (p *protocol) subtitle(text string) {
	p.pdf.SetFont("Helvetica", "B", 10)
	p.pdf.CellFormat(0, 6, text, "", 1, "", false, 0, "")
}

func (p *protocol) row(label, value, unit string) {
	pdf := p.pdf
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(60, 6, label, "", 0, "", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	if unit == "" {
		pdf.CellFormat(70, 6, value, "", 1, "", false, 0, "")
		return
	}
	pdf.CellFormat(40, 6, value, "", 0, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(30, 6, unit, "", 1, "", false, 0, "")
}

func (p *protocol) check(name string, util, stress, strength float64, passed bool) {
	const barW, barH = 50.0, 5.0
	pdf := p.pdf

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(40, 6, name, "", 0, "", false, 0, "")

	x, y := pdf.GetXY()
	pdf.SetFillColor(220, 220, 220)
	pdf.Rect(x, y, barW, barH, "F")
	c := barColor(util)
	pdf.SetFillColor(c.r, c.g, c.b)
	pdf.Rect(x, y, math.Min(util, 1.0)*barW, barH, "F")
	pdf.SetXY(x+barW+5, y)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 6, fmt.Sprintf("%.1f%% [%s]", util*100, mark(passed)), "", 0, "", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(50, 6, fmt.Sprintf("(%.2f / %.2f MPa)", stress, strength), "", 1, "", false, 0, "")
}

func mark(passed bool) string {
	if passed {
		return "OK"
	}
	return "!"
}

func (p *protocol) inputs(res timber.Result) {
	p.sectionTitle("1. Input data")

	m := res.Material
	p.subtitle("Material:")
	p.row("Strength class:", m.Name, "")
	p.row("Timber:", m.Kind.Label(), "")
	p.row("fm,k =", fmt.Sprintf("%g", m.FmK), "MPa")
	p.row("fv,k =", fmt.Sprintf("%g", m.FvK), "MPa")
	p.row("E0,mean =", fmt.Sprintf("%g", m.E0Mean), "MPa")
	p.row("Gamma_M =", fmt.Sprintf("%g", m.GammaM()), "")
	p.pdf.Ln(3)

	s := res.Section
	p.subtitle("Cross-section:")
	p.row("Width b =", fmt.Sprintf("%.0f", s.WidthMM), "mm")
	p.row("Depth h =", fmt.Sprintf("%.0f", s.DepthMM), "mm")
	p.row("Area A =", fmt.Sprintf("%.1f", s.AreaMM2/100), "cm2")
	p.row("Second moment Iy =", fmt.Sprintf("%.1f", s.IyMM4/1e4), "cm4")
	p.row("Section modulus Wy =", fmt.Sprintf("%.1f", s.WyMM3/1e3), "cm3")
	p.pdf.Ln(3)

	in := res.Input
	p.subtitle("Loads and geometry:")
	p.row("Span L =", fmt.Sprintf("%.2f", in.SpanM), "m")
	p.row("Permanent load gk =", fmt.Sprintf("%.2f", in.LoadGKNM), "kN/m")
	p.row("Variable load qk =", fmt.Sprintf("%.2f", in.LoadQKNM), "kN/m")
	p.row("Service class:", fmt.Sprintf("%d", in.ServiceClass), "")
	p.row("Load duration:", in.Duration.Label(), "")
	p.row("kmod =", fmt.Sprintf("%.2f", res.Loads.Kmod), "")
	p.pdf.Ln(5)
}

func (p *protocol) internalForces(res timber.Result) {
	p.sectionTitle("2. Internal forces (simply supported beam)")

	f := res.Structural.InternalForces
	p.row("Design load qEd =", fmt.Sprintf("%.2f", res.Loads.DesignLoadKNM), "kN/m")
	p.row("(1.35*gk + 1.5*qk)", "", "")
	p.pdf.Ln(2)
	p.row("Bending moment MEd =", fmt.Sprintf("%.2f", f.MEdKNM), "kNm")
	p.row("(qEd * L^2 / 8)", "", "")
	p.pdf.Ln(2)
	p.row("Shear force VEd =", fmt.Sprintf("%.2f", f.VEdKN), "kN")
	p.row("(qEd * L / 2)", "", "")
	p.pdf.Ln(5)
}

func (p *protocol) uls(res timber.Result) {
	p.sectionTitle("3. Ultimate limit state (ULS)")

	s := res.Structural
	dv := s.DesignValues
	p.row("fm,d = kmod * fm,k / Gamma_M =", fmt.Sprintf("%.2f", dv.FmD), "MPa")
	p.row("fv,d = kmod * fv,k / Gamma_M =", fmt.Sprintf("%.2f", dv.FvD), "MPa")
	p.pdf.Ln(3)

	p.subtitle("Bending (cl. 6.1.6):")
	p.check("sigma_m,d / fm,d", s.Bending.Utilization, s.Bending.StressMPa, s.Bending.StrengthMPa, s.Bending.Passed)
	p.pdf.Ln(2)

	p.subtitle("Shear (cl. 6.1.7):")
	p.check("tau_d / fv,d", s.Shear.Utilization, s.Shear.StressMPa, s.Shear.StrengthMPa, s.Shear.Passed)
	p.pdf.Ln(2)

	p.subtitle("Lateral torsional buckling (cl. 6.3.3):")
	p.row("lambda_rel,m =", fmt.Sprintf("%.3f", dv.LambdaRelM), "")
	p.row("kcrit =", fmt.Sprintf("%.3f", dv.Kcrit), "")
	p.check("sigma_m,d / (kcrit*fm,d)", s.Buckling.Utilization, s.Buckling.StressMPa, s.Buckling.StrengthMPa, s.Buckling.Passed)
	p.pdf.Ln(5)
}

func (p *protocol) sls(res timber.Result) {
	p.sectionTitle("4. Serviceability limit state (SLS)")

	d := res.Structural.Deflection
	p.row("Instantaneous w_inst =", fmt.Sprintf("%.1f", d.InstMM), "mm")
	p.row("kdef =", fmt.Sprintf("%.2f", res.Loads.Kdef), "")
	p.row("Final w_fin =", fmt.Sprintf("%.1f", d.FinMM), "mm")
	p.row("Limit w_lim = L/", fmt.Sprintf("%d = %.1f", d.LimitRatio, d.LimitMM), "mm")
	p.pdf.Ln(2)

	status := "SATISFIES"
	if !d.Passed {
		status = "DOES NOT SATISFY"
	}
	p.subtitle(fmt.Sprintf("Deflection: %.1f%% - %s", d.UtilizationPercent(), status))
	p.pdf.Ln(5)
}

func (p *protocol) fire(rep fire.Report) {
	fp := rep.Params
	p.sectionTitle(fmt.Sprintf("5. Fire resistance R %d (EN 1995-1-2)", fp.DurationMin))

	p.row("Charring rate beta =", fmt.Sprintf("%.2f", fp.Beta), "mm/min")
	p.row("Fire duration t =", fmt.Sprintf("%d", fp.DurationMin), "min")
	p.row("Char depth d_char =", fmt.Sprintf("%.1f", fp.DChar), "mm")
	p.row("Zero-strength layer d0 =", fmt.Sprintf("%.1f", fire.D0), "mm")
	p.row("Effective depth d_ef =", fmt.Sprintf("%.1f", fp.DEf), "mm")
	p.pdf.Ln(3)

	rs := rep.Reduced
	p.subtitle("Reduced cross-section:")
	p.row("b_fi =", fmt.Sprintf("%.0f", rs.BFi), "mm")
	p.row("h_fi =", fmt.Sprintf("%.0f", rs.HFi), "mm")

	if !rs.IsValid() {
		p.pdf.Ln(3)
		p.pdf.SetTextColor(255, 0, 0)
		p.subtitle("SECTION FULLY CHARRED")
		p.pdf.SetTextColor(0, 0, 0)
		p.pdf.Ln(5)
		return
	}

	p.row("A_fi =", fmt.Sprintf("%.1f", rs.AFi()/100), "cm2")
	p.pdf.Ln(3)
	p.row("Load reduction eta_fi =", fmt.Sprintf("%.3f", fp.EtaFi), "")
	p.row("M_Ed,fi =", fmt.Sprintf("%.2f", fp.MEdFiKNM), "kNm")
	p.row("V_Ed,fi =", fmt.Sprintf("%.2f", fp.VEdFiKN), "kN")
	p.pdf.Ln(2)
	p.row("fm,d,fi = kmod,fi * kfi * fm,k / Gamma_M,fi =", fmt.Sprintf("%.2f", fp.FmDFi), "MPa")
	p.row("fv,d,fi =", fmt.Sprintf("%.2f", fp.FvDFi), "MPa")
	p.pdf.Ln(3)

	p.subtitle("Bending in fire:")
	p.check("sigma_m,d,fi / fm,d,fi", rep.Bending.Utilization, rep.Bending.StressMPa, rep.Bending.StrengthMPa, rep.Bending.Passed)
	p.pdf.Ln(2)
	p.subtitle("Shear in fire:")
	p.check("tau_d,fi / fv,d,fi", rep.Shear.Utilization, rep.Shear.StressMPa, rep.Shear.StrengthMPa, rep.Shear.Passed)
	p.pdf.Ln(5)
}

func (p *protocol) conclusion(res timber.Result, number int) {
	pdf := p.pdf
	p.sectionTitle(fmt.Sprintf("%d. Conclusion", number))

	pdf.SetFont("Helvetica", "B", 12)
	if res.AllPassed {
		pdf.SetTextColor(0, 128, 0)
		pdf.CellFormat(0, 10, "BEAM SATISFIES", "", 1, "C", false, 0, "")
	} else {
		pdf.SetTextColor(255, 0, 0)
		pdf.CellFormat(0, 10, "BEAM DOES NOT SATISFY", "", 1, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	s := res.Structural
	rows := [][]string{
		summaryRow("Bending (ULS)", s.Bending.UtilizationPercent(), s.Bending.Passed),
		summaryRow("Shear (ULS)", s.Shear.UtilizationPercent(), s.Shear.Passed),
		summaryRow("Buckling (ULS)", s.Buckling.UtilizationPercent(), s.Buckling.Passed),
		summaryRow("Deflection (SLS)", s.Deflection.UtilizationPercent(), s.Deflection.Passed),
	}
	if f := res.Fire; f != nil && f.Reduced.IsValid() {
		t := f.Params.DurationMin
		rows = append(rows,
			summaryRow(fmt.Sprintf("Bending R%d", t), f.Bending.UtilizationPercent(), f.Bending.Passed),
			summaryRow(fmt.Sprintf("Shear R%d", t), f.Shear.UtilizationPercent(), f.Shear.Passed),
		)
	}
	p.table([]string{"Check", "Utilization", "Status"}, rows, []float64{80, 50, 60})
}

func summaryRow(name string, percent float64, passed bool) []string {
	return []string{name, fmt.Sprintf("%.1f%%", percent), mark(passed)}
}

func (p *protocol) table(headers []string, rows [][]string, widths []float64) {
	pdf := p.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
