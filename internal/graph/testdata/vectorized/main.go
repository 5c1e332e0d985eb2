package main

import "github.com/lutherstrike/tapa"

func Work(in tapa.IStream[int32], id int32) {
	for !in.Eot() {
		_ = in.Read()
	}
	_ = id
}

func Feed(outs [2]tapa.OStream[int32], n int32) {
	for i := int32(0); i < n; i++ {
		outs[i%2].Write(i)
	}
	for _, out := range outs {
		out.Close()
	}
}

func Top(n int32) {
	ss := tapa.NewStreams[int32](2, 2)
	tapa.Task().
		Invoke(tapa.Join, Feed, ss, n).
		InvokeVec(tapa.Join, 4, Work, ss, tapa.Seq()).
		Wait()
}
