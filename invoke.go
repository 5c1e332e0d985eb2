package tapa

import (
	"fmt"
	"reflect"
)

// Invoke runs a top-level kernel from host code. With an empty bitstream the
// kernel executes in-process (software simulation); hardware execution goes
// through the host glue tapacc generates for the kernel, which dispatches to
// the device runtime when a bitstream environment variable is set.
func Invoke(kernel any, bitstream string, args ...any) error {
	fn := reflect.ValueOf(kernel)
	if fn.Kind() != reflect.Func {
		return fmt.Errorf("tapa: kernel %T is not a function", kernel)
	}
	if bitstream != "" {
		return fmt.Errorf("tapa: hardware execution requires the generated host glue; run tapacc on the kernel source")
	}
	if got, want := len(args), fn.Type().NumIn(); got != want {
		return fmt.Errorf("tapa: kernel %s expects %d arguments, got %d", runtimeFuncName(fn), want, got)
	}
	fn.Call(bindArgs(fn, args, 0))
	return nil
}
