package main

import "github.com/lutherstrike/tapa"

const numWorkers = 4

func Worker(mem tapa.AsyncMMap[int32], id uint64) {
	v := mem.Read(id)
	mem.Write(id, v+1)
}

func Top(mems [2]tapa.AsyncMMap[int32]) {
	tapa.Task().
		InvokeVec(tapa.Join, numWorkers, Worker, mems, tapa.Seq()).
		Wait()
}
