package domain

import gonanoid "github.com/matoous/go-nanoid/v2"

// Restricted alphabet shared by user and room ids. At 16^10 possible values
// the collision probability is treated as negligible.
const (
	idAlphabet = "1234567890abcdef"
	idLength   = 10
)

// NewID returns a fresh fixed-length random identifier, e.g. "4f90d13a42".
func NewID() string {
	return gonanoid.MustGenerate(idAlphabet, idLength)
}
