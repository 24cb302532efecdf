package test

import (
	"math/rand"
	"sync"
	"time"
)

const codeAlphabet = "0123456789abcdef"

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomOrderCode returns a unique order code in the production format.
func RandomOrderCode() string {
	buf := make([]byte, 12)
	rngMu.Lock()
	for i := range buf {
		buf[i] = codeAlphabet[rng.Intn(len(codeAlphabet))]
	}
	rngMu.Unlock()
	return "ORD-" + string(buf)
}
