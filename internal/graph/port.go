package graph

import (
	"fmt"
	"go/types"
)

// tapaPkgPath is the import path of the DSL support package whose types mark
// task ports and orchestrator statements.
const tapaPkgPath = "github.com/lutherstrike/tapa"

// Cat is the closed set of port categories. Every consumer of a port switches
// exhaustively over it, so adding a category forces the classifier, the graph
// builder and the directive emitter to be updated together.
type Cat int

const (
	Scalar Cat = iota
	MMap
	MMaps
	AsyncMMap
	AsyncMMaps
	IStream
	IStreams
	OStream
	OStreams
)

func (c Cat) String() string {
	switch c {
	case Scalar:
		return "scalar"
	case MMap:
		return "mmap"
	case MMaps:
		return "mmaps"
	case AsyncMMap:
		return "async_mmap"
	case AsyncMMaps:
		return "async_mmaps"
	case IStream:
		return "istream"
	case IStreams:
		return "istreams"
	case OStream:
		return "ostream"
	case OStreams:
		return "ostreams"
	default:
		return fmt.Sprintf("cat(%d)", int(c))
	}
}

// MetaName is the category name recorded in graph metadata; array forms
// collapse onto their element category there.
func (c Cat) MetaName() string {
	return c.Elem().String()
}

// Elem maps an array category to its element category.
func (c Cat) Elem() Cat {
	switch c {
	case MMaps:
		return MMap
	case AsyncMMaps:
		return AsyncMMap
	case IStreams:
		return IStream
	case OStreams:
		return OStream
	default:
		return c
	}
}

// IsArray reports whether the category is one of the fixed-size array forms.
func (c Cat) IsArray() bool {
	switch c {
	case MMaps, AsyncMMaps, IStreams, OStreams:
		return true
	default:
		return false
	}
}

// IsStream reports whether the category is a stream form.
func (c Cat) IsStream() bool {
	switch c {
	case IStream, IStreams, OStream, OStreams:
		return true
	default:
		return false
	}
}

// IsMMap reports whether the category is a memory-mapped form.
func (c Cat) IsMMap() bool {
	switch c {
	case MMap, MMaps, AsyncMMap, AsyncMMaps:
		return true
	default:
		return false
	}
}

// Port is a classified task parameter. It is derived purely from the declared
// type and never mutated after classification.
type Port struct {
	Name      string
	Cat       Cat
	Arity     int64
	Elem      types.Type
	Width     int64
	ConstElem bool
}

// ElemString renders the element type for metadata.
func (p Port) ElemString() string {
	if p.Elem == nil {
		return ""
	}
	return types.TypeString(p.Elem, func(pkg *types.Package) string { return pkg.Name() })
}

// TypeString renders the port type the way the downstream generator expects:
// a pointer for memory-mapped buffers, the element type otherwise.
func (p Port) TypeString() string {
	if p.Cat.IsMMap() {
		return p.ElemString() + "*"
	}
	return p.ElemString()
}

// Classify derives the port category and array arity from a declared
// parameter type. It is total over well-formed inputs and has no side
// effects; a plural form without a constant size is a configuration error.
func Classify(t types.Type) (Cat, int64, types.Type, error) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	orig := t

	arity := int64(1)
	isArray := false
	if arr, ok := t.(*types.Array); ok {
		arity = arr.Len()
		isArray = true
		t = arr.Elem()
	}

	named, ok := t.(*types.Named)
	if ok && named.Obj() != nil && named.Obj().Pkg() != nil &&
		named.Obj().Pkg().Path() == tapaPkgPath {
		var cat Cat
		switch named.Obj().Name() {
		case "MMap", "ReadOnlyMMap":
			cat = MMap
		case "AsyncMMap":
			cat = AsyncMMap
		case "IStream":
			cat = IStream
		case "OStream":
			cat = OStream
		case "Stream", "Streams":
			return Scalar, 0, nil, fmt.Errorf(
				"type %s cannot be a port; declare the parameter as IStream, OStream or an array of them", t)
		default:
			return Scalar, 1, orig, nil
		}
		elem := t
		if args := named.TypeArgs(); args != nil && args.Len() > 0 {
			elem = args.At(0)
		}
		if isArray {
			if arity <= 0 {
				return Scalar, 0, nil, fmt.Errorf("array port of type %s must have a positive constant size", t)
			}
			switch cat {
			case MMap:
				cat = MMaps
			case AsyncMMap:
				cat = AsyncMMaps
			case IStream:
				cat = IStreams
			case OStream:
				cat = OStreams
			}
		}
		return cat, arity, elem, nil
	}

	// Plain types, including arrays of non-port types, are ordinary scalar
	// parameters.
	return Scalar, 1, orig, nil
}

// ClassifyPort classifies a named parameter, filling in the bit width and
// element constness used by metadata and host-glue generation.
func ClassifyPort(name string, t types.Type) (Port, error) {
	cat, arity, elem, err := Classify(t)
	if err != nil {
		return Port{}, err
	}
	p := Port{
		Name:  name,
		Cat:   cat,
		Arity: arity,
		Elem:  elem,
		Width: widthOf(elem),
	}
	p.ConstElem = isReadOnlyType(t)
	return p, nil
}

func isReadOnlyType(t types.Type) bool {
	if arr, ok := t.(*types.Array); ok {
		t = arr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok || named.Obj() == nil || named.Obj().Pkg() == nil {
		return false
	}
	return named.Obj().Pkg().Path() == tapaPkgPath && named.Obj().Name() == "ReadOnlyMMap"
}

// widthOf returns the bit width of a type. Basic types report their exact
// width; anything else falls back to its memory size.
func widthOf(t types.Type) int64 {
	if t == nil {
		return 0
	}
	if basic, ok := t.Underlying().(*types.Basic); ok {
		if w, ok := basicWidth(basic); ok {
			return w
		}
	}
	sizes := types.SizesFor("gc", "amd64")
	if sizes == nil {
		return 0
	}
	return sizes.Sizeof(t) * 8
}

func basicWidth(b *types.Basic) (int64, bool) {
	switch b.Kind() {
	case types.Int8, types.Uint8:
		return 8, true
	case types.Int16, types.Uint16:
		return 16, true
	case types.Int32, types.Uint32, types.Float32:
		return 32, true
	case types.Int64, types.Uint64, types.Int, types.Uint, types.Uintptr, types.Float64:
		return 64, true
	case types.Bool:
		return 1, true
	default:
		return 0, false
	}
}
