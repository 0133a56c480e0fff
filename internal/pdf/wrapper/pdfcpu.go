package wrapper

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxFieldDepth bounds the Kids recursion against cyclic field trees.
const maxFieldDepth = 32

func openObjectGraph(rs io.ReadSeeker) (ctx *model.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while reading PDF context: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err = api.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}

	return ctx, nil
}

// formFieldDictionary walks the AcroForm Fields/Kids tree and returns every
// named field, parents included, under its fully qualified name. It returns
// nil when the catalog has no AcroForm.
func formFieldDictionary(ctx *model.Context) (*FieldDictionary, error) {
	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog: %w", err)
	}

	acroFormObj, found := rootDict.Find("AcroForm")
	if !found {
		return nil, nil
	}

	acroFormDict, err := ctx.DereferenceDict(acroFormObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference AcroForm: %w", err)
	}
	if acroFormDict == nil {
		return nil, nil
	}

	fd := &FieldDictionary{Resolver: ctx}

	fieldsObj, found := acroFormDict.Find("Fields")
	if !found {
		return fd, nil
	}

	fieldsArray, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference Fields array: %w", err)
	}

	for _, fieldRef := range fieldsArray {
		if err := collectField(ctx, fd, fieldRef, "", nil, 0); err != nil {
			return nil, err
		}
	}

	return fd, nil
}

func collectField(ctx *model.Context, fd *FieldDictionary, fieldObj types.Object, parentName string, inheritedValue types.Object, depth int) error {
	if depth > maxFieldDepth {
		return fmt.Errorf("field tree deeper than %d levels", maxFieldDepth)
	}

	fieldDict, err := ctx.DereferenceDict(fieldObj)
	if err != nil {
		return fmt.Errorf("failed to dereference field: %w", err)
	}
	if fieldDict == nil {
		return nil
	}

	name := parentName
	if nameObj, found := fieldDict.Find("T"); found {
		partial, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil)
		if err != nil {
			return fmt.Errorf("failed to read field name: %w", err)
		}
		name = qualify(parentName, partial)
	}

	ownValue, hasOwnValue := fieldDict.Find("V")
	value := inheritedValue
	if hasOwnValue {
		value = ownValue
	}

	var namedKids []types.Object
	if kidsObj, found := fieldDict.Find("Kids"); found {
		kids, err := ctx.DereferenceArray(kidsObj)
		if err != nil {
			return fmt.Errorf("failed to dereference Kids of %q: %w", name, err)
		}
		for _, kid := range kids {
			kidDict, err := ctx.DereferenceDict(kid)
			if err != nil || kidDict == nil {
				continue
			}
			// Kids without /T are widget annotations of this field, not
			// child fields.
			if _, ok := kidDict.Find("T"); ok {
				namedKids = append(namedKids, kid)
			}
		}
	}

	if len(namedKids) == 0 {
		if name == "" {
			return nil
		}
		fd.Entries = append(fd.Entries, FieldEntry{Name: name, Value: value, HasValue: value != nil})
		return nil
	}

	// A parent reports only its own /V; children may still inherit it.
	if name != "" {
		fd.Entries = append(fd.Entries, FieldEntry{Name: name, Value: ownValue, HasValue: hasOwnValue})
	}

	for _, kid := range namedKids {
		if err := collectField(ctx, fd, kid, name, value, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func qualify(parent, partial string) string {
	if parent == "" {
		return partial
	}
	if partial == "" {
		return parent
	}
	return parent + "." + partial
}
