// Package pdftest writes small, well-formed PDF files for tests: classic xref
// table, uncompressed content streams and a standard Helvetica font.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// Doc describes a document to generate.
type Doc struct {
	Pages []Page
	// Fields populates the AcroForm. A nil slice leaves the catalog without
	// an AcroForm, unless EmptyAcroForm is set.
	Fields        []Field
	EmptyAcroForm bool
}

// Page describes one page. Content holds raw content stream operators; the
// font resource /F1 is always available.
type Page struct {
	Width, Height float64
	CropBox       []float64
	Rotate        int
	Content       string
}

// Field describes an AcroForm field. Value is written verbatim as a PDF
// object, e.g. "(John)", "/Yes" or "<FEFF0041>".
type Field struct {
	Name          string
	Type          string // Tx, Btn, Ch, Sig
	Flags         int
	Value         string
	IndirectValue bool
	Kids          []Field
	// Widget places the field on a page. Rect is in PDF user space.
	Widget *Widget
}

// Widget is the on-page annotation of a field.
type Widget struct {
	Page int // 0-based page index
	Rect [4]float64
}

// Letter returns an empty US Letter page with the given content.
func Letter(content string) Page {
	return Page{Width: 612, Height: 792, Content: content}
}

// Text returns operators showing s at (x, y) in user space.
func Text(x, y, size float64, s string) string {
	s = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
	return fmt.Sprintf("BT /F1 %s Tf %s %s Td (%s) Tj ET\n", num(size), num(x), num(y), s)
}

// Line returns operators stroking a line.
func Line(x0, y0, x1, y1 float64) string {
	return fmt.Sprintf("%s %s m %s %s l S\n", num(x0), num(y0), num(x1), num(y1))
}

// Rect returns operators stroking a rectangle with its lower-left corner at
// (x, y).
func Rect(x, y, w, h float64) string {
	return fmt.Sprintf("%s %s %s %s re S\n", num(x), num(y), num(w), num(h))
}

// Grid returns operators ruling a table whose top-left corner is at (x, top)
// in user space, with rows laid out downward.
func Grid(x, top float64, colWidths, rowHeights []float64) string {
	var width, height float64
	for _, w := range colWidths {
		width += w
	}
	for _, h := range rowHeights {
		height += h
	}

	var b strings.Builder
	y := top
	b.WriteString(Line(x, y, x+width, y))
	for _, h := range rowHeights {
		y -= h
		b.WriteString(Line(x, y, x+width, y))
	}
	cx := x
	b.WriteString(Line(cx, top, cx, top-height))
	for _, w := range colWidths {
		cx += w
		b.WriteString(Line(cx, top, cx, top-height))
	}
	return b.String()
}

// Bytes renders the document.
func (d Doc) Bytes() []byte {
	w := &writer{bodies: map[int]string{}}

	catalog := w.alloc()
	pages := w.alloc()
	font := w.alloc()
	pageIDs := make([]int, len(d.Pages))
	contentIDs := make([]int, len(d.Pages))
	for i := range d.Pages {
		pageIDs[i] = w.alloc()
		contentIDs[i] = w.alloc()
	}

	annots := make([][]int, len(d.Pages))
	var fieldIDs []int
	for _, f := range d.Fields {
		fieldIDs = append(fieldIDs, w.field(f, 0, pageIDs, annots))
	}

	acroForm := ""
	if d.Fields != nil || d.EmptyAcroForm {
		acroForm = fmt.Sprintf(" /AcroForm << /Fields [%s] >>", refs(fieldIDs))
	}
	w.bodies[catalog] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R%s >>", pages, acroForm)
	w.bodies[pages] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", refs(pageIDs), len(pageIDs))
	w.bodies[font] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"

	for i, p := range d.Pages {
		page := fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s]", pages, num(p.Width), num(p.Height))
		if len(p.CropBox) == 4 {
			page += fmt.Sprintf(" /CropBox [%s %s %s %s]", num(p.CropBox[0]), num(p.CropBox[1]), num(p.CropBox[2]), num(p.CropBox[3]))
		}
		if p.Rotate != 0 {
			page += fmt.Sprintf(" /Rotate %d", p.Rotate)
		}
		page += fmt.Sprintf(" /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R", font, contentIDs[i])
		if len(annots[i]) > 0 {
			page += fmt.Sprintf(" /Annots [%s]", refs(annots[i]))
		}
		w.bodies[pageIDs[i]] = page + " >>"
		w.bodies[contentIDs[i]] = fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(p.Content), p.Content)
	}

	return w.bytes(catalog)
}

// WriteFile renders the document into a file under t.TempDir and returns its
// path.
func (d Doc) WriteFile(t testing.TB, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

type writer struct {
	next   int
	bodies map[int]string
}

func (w *writer) alloc() int {
	w.next++
	return w.next
}

func (w *writer) field(f Field, parent int, pageIDs []int, annots [][]int) int {
	id := w.alloc()

	var b strings.Builder
	b.WriteString("<<")
	if f.Name != "" {
		fmt.Fprintf(&b, " /T (%s)", f.Name)
	}
	if parent != 0 {
		fmt.Fprintf(&b, " /Parent %d 0 R", parent)
	}
	if f.Type != "" {
		fmt.Fprintf(&b, " /FT /%s", f.Type)
	}
	if f.Flags != 0 {
		fmt.Fprintf(&b, " /Ff %d", f.Flags)
	}
	if f.Value != "" {
		if f.IndirectValue {
			vid := w.alloc()
			w.bodies[vid] = f.Value
			fmt.Fprintf(&b, " /V %d 0 R", vid)
		} else {
			fmt.Fprintf(&b, " /V %s", f.Value)
		}
	}
	if f.Widget != nil && f.Widget.Page < len(pageIDs) {
		r := f.Widget.Rect
		fmt.Fprintf(&b, " /Type /Annot /Subtype /Widget /Rect [%s %s %s %s] /P %d 0 R",
			num(r[0]), num(r[1]), num(r[2]), num(r[3]), pageIDs[f.Widget.Page])
		annots[f.Widget.Page] = append(annots[f.Widget.Page], id)
	}
	if len(f.Kids) > 0 {
		var kids []int
		for _, k := range f.Kids {
			kids = append(kids, w.field(k, id, pageIDs, annots))
		}
		fmt.Fprintf(&b, " /Kids [%s]", refs(kids))
	}
	b.WriteString(" >>")

	w.bodies[id] = b.String()
	return id
}

func (w *writer) bytes(root int) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, w.next+1)
	for id := 1; id <= w.next; id++ {
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, w.bodies[id])
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", w.next+1)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id <= w.next; id++ {
		fmt.Fprintf(&buf, "%010d %05d n \n", offsets[id], 0)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", w.next+1, root, xref)
	return buf.Bytes()
}

func refs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d 0 R", id)
	}
	return strings.Join(parts, " ")
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
