package main

import "github.com/lutherstrike/tapa"

const numUnits = 2

func Distribute(in tapa.IStream[int32], outs [numUnits]tapa.OStream[int32], n int32) {
	for i := int32(0); i < n; i++ {
		outs[i%numUnits].Write(in.Read())
	}
	for _, out := range outs {
		out.Close()
	}
}

func Unit(in tapa.IStream[int32], out tapa.OStream[int32], id int32) {
	for !in.Eot() {
		out.Write(in.Read() + id)
	}
	out.Close()
}

func Collect(ins [numUnits]tapa.IStream[int32], out tapa.OStream[int32], n int32) {
	for i := int32(0); i < n; i++ {
		out.Write(ins[i%numUnits].Read())
	}
}

func Top(src tapa.IStream[int32], dst tapa.OStream[int32], n int32) {
	toUnits := tapa.NewStreams[int32](numUnits, 2)
	fromUnits := tapa.NewStreams[int32](numUnits, 2)
	tapa.Task().
		Invoke(tapa.Join, Distribute, src, toUnits, n).
		InvokeVec(tapa.Join, numUnits, Unit, toUnits, fromUnits, tapa.Seq()).
		Invoke(tapa.Join, Collect, fromUnits, dst, n).
		Wait()
}
