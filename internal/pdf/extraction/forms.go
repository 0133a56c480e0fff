package extraction

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	pdferrors "github.com/a3tai/pdf-layout-analyzer/internal/pdf/errors"
	"github.com/a3tai/pdf-layout-analyzer/internal/pdf/wrapper"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxValueDepth bounds nested array rendering.
const maxValueDepth = 8

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExtractFormFields returns the document's AcroForm fields keyed by fully
// qualified name. It returns nil when the document has no field dictionary or
// the dictionary is empty. Later duplicates overwrite earlier ones.
func ExtractFormFields(doc wrapper.Document) (FormFields, error) {
	fd, err := doc.FormFieldDictionary()
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeInvalidForm,
			fmt.Errorf("failed to read field dictionary: %w", err))
	}
	if fd.Len() == 0 {
		return nil, nil
	}

	fields := make(FormFields, fd.Len())
	for _, entry := range fd.Entries {
		fields[entry.Name] = ResolveFieldValue(fd.Resolver, entry)
	}
	return fields, nil
}

// ResolveFieldValue turns a raw /V entry into a FieldValue, following one
// level of indirection.
func ResolveFieldValue(resolver wrapper.ObjectResolver, entry wrapper.FieldEntry) FieldValue {
	if !entry.HasValue || entry.Value == nil {
		return MissingValue()
	}

	obj, ok := resolve(resolver, entry.Value)
	if !ok {
		return UnresolvedValue()
	}

	text, ok := renderObject(resolver, obj, 0)
	if !ok {
		return UnresolvedValue()
	}
	return TextValue(text)
}

func resolve(resolver wrapper.ObjectResolver, obj types.Object) (types.Object, bool) {
	if ref, ok := obj.(*types.IndirectRef); ok {
		if ref == nil {
			return nil, false
		}
		obj = *ref
	}
	if _, ok := obj.(types.IndirectRef); !ok {
		return obj, true
	}
	if resolver == nil {
		return nil, false
	}
	resolved, err := resolver.Dereference(obj)
	if err != nil || resolved == nil {
		return nil, false
	}
	if _, still := resolved.(types.IndirectRef); still {
		return nil, false
	}
	return resolved, true
}

func renderObject(resolver wrapper.ObjectResolver, obj types.Object, depth int) (string, bool) {
	switch v := obj.(type) {
	case types.StringLiteral:
		b, err := types.Unescape(string(v))
		if err != nil {
			b = []byte(string(v))
		}
		return DecodeLossy(b), true
	case types.HexLiteral:
		b, err := v.Bytes()
		if err != nil {
			return "", false
		}
		return DecodeLossy(b), true
	case types.Name:
		return "/" + string(v), true
	case types.Integer:
		return strconv.Itoa(int(v)), true
	case types.Float:
		return strconv.FormatFloat(float64(v), 'f', -1, 64), true
	case types.Boolean:
		return strconv.FormatBool(bool(v)), true
	case types.Array:
		if depth >= maxValueDepth {
			return "", false
		}
		items := make([]string, 0, len(v))
		for _, item := range v {
			resolved, ok := resolve(resolver, item)
			if !ok {
				continue
			}
			if text, ok := renderObject(resolver, resolved, depth+1); ok {
				items = append(items, text)
			}
		}
		return strings.Join(items, ", "), true
	default:
		return "", false
	}
}

// DecodeLossy decodes a PDF string: UTF-16BE when it starts with a byte order
// mark, UTF-8 otherwise. Undecodable sequences are dropped; a U+FFFD that was
// validly encoded is kept.
func DecodeLossy(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(decoder, validUTF16(b))
		if err != nil {
			return ""
		}
		return string(out)
	}
	return strings.ToValidUTF8(string(bytes.TrimPrefix(b, utf8BOM)), "")
}

// validUTF16 keeps the byte order mark and every well-formed code unit of
// big-endian UTF-16 text, dropping lone surrogates and a trailing odd byte.
func validUTF16(b []byte) []byte {
	out := append(make([]byte, 0, len(b)), b[:2]...)
	units := b[2:]
	unit := func(i int) uint16 { return uint16(units[i])<<8 | uint16(units[i+1]) }

	for i := 0; i+1 < len(units); i += 2 {
		u := unit(i)
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+3 < len(units) {
				if next := unit(i + 2); next >= 0xDC00 && next < 0xE000 {
					out = append(out, units[i:i+4]...)
					i += 2
				}
			}
		case u >= 0xDC00 && u < 0xE000:
		default:
			out = append(out, units[i:i+2]...)
		}
	}
	return out
}
