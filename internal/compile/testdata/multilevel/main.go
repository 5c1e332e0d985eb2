package main

import "github.com/lutherstrike/tapa"

func Load(mem tapa.ReadOnlyMMap[float32], out tapa.OStream[float32], n uint64) {
	for i := uint64(0); i < n; i++ {
		out.Write(mem[i])
	}
	out.Close()
}

func Scale(in tapa.IStream[float32], out tapa.OStream[float32], factor uint64, n uint64) {
	for i := uint64(0); i < n; i++ {
		out.Write(in.Read() * float32(factor))
	}
	out.Close()
}

func Store(in tapa.IStream[float32], mem tapa.MMap[float32], n uint64) {
	for i := uint64(0); i < n; i++ {
		mem[i] = in.Read()
	}
}

func Reader(mem tapa.ReadOnlyMMap[float32], out tapa.OStream[float32], n uint64) {
	tapa.Task().
		Invoke(tapa.Join, Load, mem, out, n).
		Wait()
}

func ScaleCopy(src tapa.ReadOnlyMMap[float32], dst tapa.MMap[float32], factor uint64, n uint64) {
	raw := tapa.NewStream[float32](2)
	scaled := tapa.NewStream[float32](2)
	tapa.Task().
		Invoke(tapa.Join, Reader, src, raw, n).
		Invoke(tapa.Join, Scale, raw, scaled, factor, n).
		Invoke(tapa.Join, Store, scaled, dst, n).
		Wait()
}
