// Package testutil defines support code for unit tests.
package testutil

import (
	"math"
	"math/rand/v2"

	"github.com/creachadair/jdoc/ast"
)

// Runes used to build random strings. The set includes
// characters that must be escaped, but not the backslash.
var stringRunes = []rune("abcdefghijklmnopqrstuvwxyz ABCXYZ0123456789\"/\t\n\x01éß世界😀")

// RandomValue returns a random value whose arrays and objects are nested at
// most depth levels. Objects never contain duplicate keys, and strings never
// contain backslashes.
func RandomValue(rng *rand.Rand, depth int) ast.Value {
	n := 6
	if depth <= 0 {
		n = 4 // scalars only
	}
	switch rng.IntN(n) {
	case 0:
		return ast.Null{}
	case 1:
		return ast.Bool(rng.IntN(2) == 1)
	case 2:
		return RandomNumber(rng)
	case 3:
		return ast.String(RandomString(rng, 12))
	case 4:
		arr := make(ast.Array, rng.IntN(6))
		for i := range arr {
			arr[i] = RandomValue(rng, depth-1)
		}
		if len(arr) == 0 {
			return ast.Array(nil)
		}
		return arr
	default:
		obj := ast.NewObject()
		seen := make(map[string]bool)
		for range rng.IntN(6) {
			key := RandomString(rng, 8)
			if seen[key] {
				continue
			}
			seen[key] = true
			obj.Add(key, RandomValue(rng, depth-1))
		}
		return obj
	}
}

// RandomNumber returns a random finite number of varying magnitude.
func RandomNumber(rng *rand.Rand) ast.Number {
	switch rng.IntN(4) {
	case 0:
		return ast.Number(rng.IntN(2000) - 1000)
	case 1:
		return ast.Number(rng.NormFloat64())
	case 2:
		return ast.Number(math.Ldexp(rng.Float64(), rng.IntN(200)-100))
	default:
		return ast.Number(-rng.ExpFloat64() * 1e6)
	}
}

// RandomString returns a random string of at most n runes.
func RandomString(rng *rand.Rand, n int) string {
	rs := make([]rune, rng.IntN(n+1))
	for i := range rs {
		rs[i] = stringRunes[rng.IntN(len(stringRunes))]
	}
	return string(rs)
}
