package main

import "github.com/lutherstrike/tapa"

func Mmap2Stream(mem tapa.ReadOnlyMMap[float32], out tapa.OStream[float32], n uint64) {
	for i := uint64(0); i < n; i++ {
		out.Write(mem[i])
	}
	out.Close()
}

func Stream2Mmap(in tapa.IStream[float32], mem tapa.MMap[float32], n uint64) {
	for i := uint64(0); i < n; i++ {
		mem[i] = in.Read()
	}
}

func Add(a tapa.IStream[float32], b tapa.IStream[float32], c tapa.OStream[float32], n uint64) {
	for i := uint64(0); i < n; i++ {
		c.Write(a.Read() + b.Read())
	}
	c.Close()
}

func VecAdd(a tapa.ReadOnlyMMap[float32], b tapa.ReadOnlyMMap[float32], c tapa.MMap[float32], n uint64) {
	sa := tapa.NewStream[float32](2)
	sb := tapa.NewStream[float32](2)
	sc := tapa.NewStream[float32](2)
	tapa.Task().
		Invoke(tapa.Join, Mmap2Stream, a, sa, n).
		Invoke(tapa.Join, Mmap2Stream, b, sb, n).
		Invoke(tapa.Join, Add, sa, sb, sc, n).
		Invoke(tapa.Join, Stream2Mmap, sc, c, n).
		Wait()
}
