package montyhall

// Source supplies uniform random indices. IntN returns a value in [0, n)
// and may panic when n <= 0.
//
// *engine.ByteGenerator and *math/rand/v2.Rand both satisfy it.
type Source interface {
	IntN(n int) int
}
