package codegen

import (
	"fmt"
	"strings"

	"github.com/lutherstrike/tapa/internal/frontend"
	"github.com/lutherstrike/tapa/internal/graph"
)

const tapaModulePath = "github.com/lutherstrike/tapa"

// HostGlue generates the host-side translation unit of the top task: the
// same function signature, with a body that opens the kernel through the
// device runtime and binds every argument the bitstream reports by name.
// Stream ports cannot cross the host boundary and fail generation.
func HostGlue(prog *frontend.Program, m *graph.Model) ([]byte, error) {
	top := m.Top
	for _, p := range top.Ports {
		if p.Cat.IsStream() {
			return nil, fmt.Errorf("stream port %s of task %s cannot cross the host interface", p.Name, top.Name)
		}
	}

	params, err := paramsText(prog, top)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("// Code generated by tapacc. DO NOT EDIT.\n\n")
	fmt.Fprintf(&sb, "package %s\n\n", top.Pkg.Name)

	needTapa := false
	for _, p := range top.Ports {
		if p.Cat != graph.Scalar {
			needTapa = true
		}
	}

	sb.WriteString("import (\n")
	sb.WriteString("\t\"fmt\"\n")
	sb.WriteString("\t\"os\"\n\n")
	if needTapa {
		fmt.Fprintf(&sb, "\t\"%s\"\n", tapaModulePath)
	}
	fmt.Fprintf(&sb, "\t\"%s/frt\"\n", tapaModulePath)
	sb.WriteString(")\n\n")

	fmt.Fprintf(&sb, "func %s(%s) {\n", top.Name, params)
	fmt.Fprintf(&sb, "\tbitstream := os.Getenv(%q)\n", "TAPAB_"+strings.ToUpper(top.Name))
	sb.WriteString("\tif bitstream == \"\" {\n")
	sb.WriteString("\t\tbitstream = os.Getenv(\"TAPAB\")\n")
	sb.WriteString("\t}\n")
	sb.WriteString("\tif bitstream == \"\" {\n")
	fmt.Fprintf(&sb, "\t\tpanic(%q)\n",
		"no bitstream found; please set TAPAB_"+strings.ToUpper(top.Name)+" or TAPAB")
	sb.WriteString("\t}\n")
	sb.WriteString("\tinstance, err := frt.New(bitstream)\n")
	sb.WriteString("\tif err != nil {\n\t\tpanic(err)\n\t}\n")

	sb.WriteString("\tfor _, arg := range instance.ArgsInfo() {\n")
	sb.WriteString("\t\tvar bindErr error\n")
	sb.WriteString("\t\tswitch arg.Name {\n")
	for _, p := range top.Ports {
		for _, arm := range bindArms(p) {
			sb.WriteString(arm)
		}
	}
	sb.WriteString("\t\tdefault:\n")
	sb.WriteString("\t\t\tbindErr = fmt.Errorf(\"unknown argument: %s\", arg.Name)\n")
	sb.WriteString("\t\t}\n")
	sb.WriteString("\t\tif bindErr != nil {\n\t\t\tpanic(bindErr)\n\t\t}\n")
	sb.WriteString("\t}\n")

	for _, step := range []string{"WriteToDevice", "Exec", "ReadFromDevice", "Finish"} {
		fmt.Fprintf(&sb, "\tif err := instance.%s(); err != nil {\n\t\tpanic(err)\n\t}\n", step)
	}
	sb.WriteString("}\n")

	return []byte(sb.String()), nil
}

// bindArms renders the switch arms binding one port's reported argument
// names. Array ports bind each element under its flattened name.
func bindArms(p graph.Port) []string {
	names := flattenedNames(p)
	arms := make([]string, 0, len(names))
	for i, name := range names {
		ref := p.Name
		if p.Cat.IsArray() {
			ref = fmt.Sprintf("%s[%d]", p.Name, i)
		}
		var bind string
		switch p.Cat.Elem() {
		case graph.Scalar:
			bind = fmt.Sprintf("bindErr = instance.SetArg(arg.Index, %s)", ref)
		case graph.MMap:
			bind = fmt.Sprintf(
				"bindErr = instance.AllocBuf(arg.Index, frt.Buffer{Data: %s, Direction: frt.%s})",
				ref, bufferDirection(p))
		case graph.AsyncMMap:
			bind = fmt.Sprintf(
				"bindErr = instance.AllocBuf(arg.Index, frt.Buffer{Data: %s.Slice(), Direction: frt.ReadWrite})",
				ref)
		}
		arms = append(arms, fmt.Sprintf("\t\tcase %q:\n\t\t\t%s\n", name, bind))
	}
	return arms
}

// bufferDirection derives the host transfer direction from element
// constness: a buffer the kernel never writes needs no read-back.
func bufferDirection(p graph.Port) string {
	if p.ConstElem {
		return "WriteOnly"
	}
	return "ReadWrite"
}

// paramsText copies the top task's parameter list verbatim from its source
// file, so the generated unit keeps the exact declared signature.
func paramsText(prog *frontend.Program, top *graph.Task) (string, error) {
	params := top.Decl.Type.Params
	if params == nil || len(params.List) == 0 {
		return "", nil
	}
	_, src, err := prog.SourceOf(top.Decl.Pos())
	if err != nil {
		return "", err
	}
	start := prog.Fset.Position(params.Opening).Offset + 1
	end := prog.Fset.Position(params.Closing).Offset
	if start < 0 || end > len(src) || start > end {
		return "", fmt.Errorf("parameter list of task %s is outside its source file", top.Name)
	}
	return string(src[start:end]), nil
}
