package main

import "github.com/lutherstrike/tapa"

func Source(out tapa.OStream[int32], n int32) {
	for i := int32(0); i < n; i++ {
		out.Write(i)
	}
	out.Close()
}

func Sink(in tapa.IStream[int32], n int32) {
	for i := int32(0); i < n; i++ {
		_ = in.Read()
	}
}

func Top(n int32) {
	s := tapa.NewStream[int32](2)
	tapa.Task().
		Invoke(tapa.Join, Source, s, n).
		Invoke(tapa.Join, Source, s, n).
		Invoke(tapa.Join, Sink, s, n).
		Wait()
}
