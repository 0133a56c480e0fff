package extraction

import (
	"errors"

	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/grid"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var errBroken = errors.New("broken content stream")

type fakePage struct {
	number   int
	size     wrapper.PageSize
	words    []wrapper.Word
	drawings []wrapper.Drawing
	widgets  []wrapper.Widget
	tables   []grid.Table
	err      error
}

func (p *fakePage) Number() int             { return p.number }
func (p *fakePage) Size() wrapper.PageSize { return p.size }

func (p *fakePage) Words() ([]wrapper.Word, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.words, nil
}

func (p *fakePage) Drawings() ([]wrapper.Drawing, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.drawings, nil
}

func (p *fakePage) Widgets() ([]wrapper.Widget, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.widgets, nil
}

func (p *fakePage) Tables() ([]grid.Table, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.tables, nil
}

type fakeDoc struct {
	pages     []*fakePage
	pageErrs  map[int]error
	fields    *wrapper.FieldDictionary
	fieldsErr error
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) Page(i int) (wrapper.Page, error) {
	if err := d.pageErrs[i]; err != nil {
		return nil, err
	}
	if i < 0 || i >= len(d.pages) {
		return nil, wrapper.ErrInvalidPage
	}
	return d.pages[i], nil
}

func (d *fakeDoc) FormFieldDictionary() (*wrapper.FieldDictionary, error) {
	return d.fields, d.fieldsErr
}

func (d *fakeDoc) Close() error { return nil }

// newPages returns n empty letter-size pages numbered from 1.
func newPages(n int) []*fakePage {
	pages := make([]*fakePage, n)
	for i := range pages {
		pages[i] = &fakePage{number: i + 1, size: wrapper.PageSize{Width: 612, Height: 792}}
	}
	return pages
}

// fakeResolver resolves indirect references by object number.
type fakeResolver struct {
	objects map[int]types.Object
	err     error
}

func (r fakeResolver) Dereference(o types.Object) (types.Object, error) {
	ref, ok := o.(types.IndirectRef)
	if !ok {
		return o, nil
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.objects[int(ref.ObjectNumber)], nil
}

func ref(n int) types.IndirectRef {
	return types.IndirectRef{ObjectNumber: types.Integer(n), GenerationNumber: types.Integer(0)}
}
