package fraud

import (
	"encoding/binary"
	"strings"
	"unicode"

	"golang.org/x/crypto/blake2b"
)

const shingleSize = 3

// Shingles hashes a transcript's word trigrams into a set for similarity
// comparison. Case and punctuation are normalized away so re-reading the
// same script with different fillers still collides.
func Shingles(text string) []uint64 {
	words := shingleTokens(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) < shingleSize {
		return []uint64{hashShingle(strings.Join(words, " "))}
	}

	seen := make(map[uint64]struct{}, len(words))
	out := make([]uint64, 0, len(words)-shingleSize+1)
	for i := 0; i+shingleSize <= len(words); i++ {
		h := hashShingle(strings.Join(words[i:i+shingleSize], " "))
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	return out
}

// Jaccard computes intersection-over-union of two shingle sets.
func Jaccard(a, b []uint64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inA := make(map[uint64]struct{}, len(a))
	for _, h := range a {
		inA[h] = struct{}{}
	}

	intersection := 0
	inB := make(map[uint64]struct{}, len(b))
	for _, h := range b {
		if _, dup := inB[h]; dup {
			continue
		}
		inB[h] = struct{}{}
		if _, ok := inA[h]; ok {
			intersection++
		}
	}

	union := len(inA) + len(inB) - intersection
	return float64(intersection) / float64(union)
}

func hashShingle(s string) uint64 {
	sum := blake2b.Sum256([]byte(s))
	return binary.BigEndian.Uint64(sum[:8])
}

func shingleTokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
