package main

import "github.com/lutherstrike/tapa"

func Work(n int32) {
	_ = n
}

func Top(n int32) {
	s := tapa.NewStream[int32](4)
	_ = s
	tapa.Task().
		Invoke(tapa.Join, Work, n).
		Wait()
}
