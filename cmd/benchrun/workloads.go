package main

import (
	"crypto/sha256"
	"fmt"
	"sort"
)

// workloads maps names to factories; each factory prepares its input once
// and returns the unit of work that gets timed.
var workloads = map[string]func() func(){
	"noop": func() func() {
		return func() {}
	},
	"sha256": func() func() {
		buf := make([]byte, 4096)
		return func() {
			sum := sha256.Sum256(buf)
			buf[0] = sum[0]
		}
	},
	"alloc": func() func() {
		return func() {
			data := make([]string, 0)
			for idx := 0; idx <= 10_000; idx++ {
				data = append(data, fmt.Sprintf("Number %d", idx))
			}
		}
	},
	"sort": func() func() {
		src := make([]int, 1024)
		for i := range src {
			src[i] = (i * 7919) % 1024
		}
		dst := make([]int, len(src))
		return func() {
			copy(dst, src)
			sort.Ints(dst)
		}
	},
}
