package main

import "github.com/lutherstrike/tapa"

func Producer(out tapa.OStream[int32], n int32) {
	for i := int32(0); i < n; i++ {
		out.Write(i)
	}
	out.Close()
}

func Consumer(in tapa.IStream[int32], n int32) {
	for i := int32(0); i < n; i++ {
		_ = in.Read()
	}
}

func Top(n int32) {
	s := tapa.NewStream[int32](8)
	tapa.Task().
		Invoke(tapa.Join, Producer, s, n).
		Invoke(tapa.Join, Consumer, s, n).
		Wait()
}
