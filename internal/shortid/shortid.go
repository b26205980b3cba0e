// Package shortid generates the compact public identifiers appended to
// short links.
package shortid

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// Alphabet holds the 57 allowed id symbols: the 62 alphanumerics minus the
// visually confusable 0, O, 1, l and I, so ids survive being read aloud or
// retyped.
const Alphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultLength is the length of generated ids. 57^6 is roughly 34 billion
// combinations, plenty for links that only live 24 hours.
const DefaultLength = 6

// shape admits any id this service could ever have handed out; Valid is a
// cheap precondition check, not a liveness check.
var shape = regexp.MustCompile(`^[A-Za-z0-9]{3,12}$`)

// Valid reports whether id has the shape of a generated identifier.
func Valid(id string) bool {
	return shape.MatchString(id)
}

// Generate returns a random id of the given length, each character drawn
// independently and uniformly from Alphabet. Collision handling is the
// caller's responsibility.
func Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(Alphabet[rand.IntN(len(Alphabet))])
	}
	return b.String()
}
