package main

import "github.com/samuelfneumann/gowave/examples"

func main() {
	var seed uint64 = 192382

	examples.WaveDamping(seed, 5)
}
