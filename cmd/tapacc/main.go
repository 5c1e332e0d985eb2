// tapacc lowers a task-parallel dataflow program into per-task translation
// units, graph metadata and host glue.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
