package main

import "github.com/lutherstrike/tapa"

func Copy(in tapa.IStream[int32], out tapa.OStream[int32], n int32) {
	//go:hls disaggregate variable = in
	//go:hls interface ap_fifo port = in.fifo
	//go:hls aggregate variable = in.fifo bit
	//go:hls interface ap_fifo port = in.peek
	//go:hls aggregate variable = in.peek bit
	//go:hls disaggregate variable = out
	//go:hls interface ap_fifo port = out.fifo
	//go:hls aggregate variable = out.fifo bit
	for i := int32(0); i < n; i++ {
		out.Write(in.Read())
	}
	out.Close()
}

func Top(n int32) {
	s := tapa.NewStream[int32](2)
	t := tapa.NewStream[int32](2)
	tapa.Task().
		Invoke(tapa.Join, Producer, s, n).
		Invoke(tapa.Join, Copy, s, t, n).
		Invoke(tapa.Join, Consumer, t, n).
		Wait()
}

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
