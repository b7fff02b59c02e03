// Package alphabet defines the symbol universe a suffix tree is built over:
// the conversion from a caller's external byte representation to the
// internal representation the tree indexes, plus the reserved terminator.
package alphabet

import "errors"

// ErrTerminatorCollision is returned by constructors when a caller-supplied
// symbol set already contains the chosen terminator.
var ErrTerminatorCollision = errors.New("alphabet: terminator collides with a regular symbol")

// ErrEmptySymbolSet is returned when a custom alphabet has no symbols.
var ErrEmptySymbolSet = errors.New("alphabet: symbol set must be non-empty")

// Alphabet converts a caller's external byte representation to the internal
// representation a [sufftree] tree indexes, and names the reserved
// terminator symbol.
//
// Convert reports ok=false for any byte outside the alphabet, including the
// terminator itself — callers distinguish "not in alphabet" from "is the
// terminator" by comparing against Terminator() directly.
type Alphabet interface {
	// Convert maps an external byte to its internal representation.
	// ok is false if b is not a member of the alphabet.
	Convert(b byte) (internal byte, ok bool)

	// Terminator returns the reserved internal symbol that ends a string.
	// It is never returned by Convert for a non-terminator input.
	Terminator() byte

	// Size is the alphabet's cardinality including the terminator, used to
	// size the second-key capacity of a tree's TwoKeyMap.
	Size() int
}

// byteSet is a generic byte-identity Alphabet: external bytes are accepted
// unchanged as internal symbols provided they appear in the allowed set.
type byteSet struct {
	allowed     [256]bool
	terminator  byte
	cardinality int
}

// newByteSet builds a byte-identity Alphabet over symbols, with terminator
// reserved and excluded from symbols. Panics on construction errors since
// the built-in alphabets below are constructed with fixed, known-good
// arguments; use FromJSON for caller-supplied symbol sets, which reports
// errors instead.
func newByteSet(symbols []byte, terminator byte) *byteSet {
	bs, err := buildByteSet(symbols, terminator)
	if err != nil {
		panic("alphabet: " + err.Error())
	}

	return bs
}

func buildByteSet(symbols []byte, terminator byte) (*byteSet, error) {
	if len(symbols) == 0 {
		return nil, ErrEmptySymbolSet
	}

	bs := &byteSet{terminator: terminator}

	for _, s := range symbols {
		if s == terminator {
			return nil, ErrTerminatorCollision
		}

		if !bs.allowed[s] {
			bs.allowed[s] = true
			bs.cardinality++
		}
	}

	// The terminator occupies a slot in the alphabet's cardinality even
	// though Convert never accepts it as external input.
	bs.cardinality++

	return bs, nil
}

func (bs *byteSet) Convert(b byte) (byte, bool) {
	if !bs.allowed[b] {
		return 0, false
	}

	return b, true
}

func (bs *byteSet) Terminator() byte { return bs.terminator }
func (bs *byteSet) Size() int        { return bs.cardinality }

// DNA is the four-letter nucleotide alphabet {A,C,G,T} with terminator '$'.
func DNA() Alphabet {
	return newByteSet([]byte("ACGT"), '$')
}

// DNAWithN is the five-letter nucleotide alphabet {A,C,G,T,N} (N for an
// undetermined base call) with terminator '$' — the alphabet size spec.md
// names as the bioinformatics-domain default.
func DNAWithN() Alphabet {
	return newByteSet([]byte("ACGTN"), '$')
}

// Protein is the 20 standard amino-acid single-letter codes with
// terminator '*', matching the convention used for stop codons.
func Protein() Alphabet {
	return newByteSet([]byte("ACDEFGHIKLMNPQRSTVWY"), '*')
}

// FromJSON builds a custom byte-identity Alphabet from a symbol set and
// terminator supplied at runtime (e.g. decoded from a user-provided JSON
// document). Unlike the built-in alphabets, it reports errors rather than
// panicking, since the input is not under the program's control.
func FromJSON(symbols []byte, terminator byte) (Alphabet, error) {
	return buildByteSet(symbols, terminator)
}
