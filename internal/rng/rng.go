// Package rng provides the injectable random source used for opponent
// move selection. The production source is an HMAC-SHA256 byte stream
// keyed by a server seed, so a whole session replays deterministically
// from its seed pair.
package rng

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// Source yields floats uniformly distributed in [0, 1).
type Source interface {
	Float() float64
}

// Stream generates floats from HMAC-SHA256 rounds over
// "clientSeed:round", keyed by the server seed.
type Stream struct {
	serverSeed string
	clientSeed string
	round      uint64
	pos        int
	buffer     [32]byte
}

// NewStream creates a stream positioned at the start of round zero.
func NewStream(serverSeed, clientSeed string) *Stream {
	s := &Stream{
		serverSeed: serverSeed,
		clientSeed: clientSeed,
	}
	s.generateRound()
	return s
}

func (s *Stream) generateRound() {
	h := hmac.New(sha256.New, []byte(s.serverSeed))
	fmt.Fprintf(h, "%s:%d", s.clientSeed, s.round)
	copy(s.buffer[:], h.Sum(nil))
}

func (s *Stream) next() byte {
	if s.pos >= len(s.buffer) {
		s.round++
		s.pos = 0
		s.generateRound()
	}
	b := s.buffer[s.pos]
	s.pos++
	return b
}

// Float consumes exactly 4 bytes of the stream.
func (s *Stream) Float() float64 {
	result := 0.0
	for i := 0; i < 4; i++ {
		divider := math.Pow(256, float64(i+1))
		result += float64(s.next()) / divider
	}
	return result
}

// Pick maps one draw to a uniform choice among n categories.
func Pick(src Source, n int) int {
	idx := int(src.Float() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	return idx
}

// Chance reports true with probability p.
func Chance(src Source, p float64) bool {
	return src.Float() < p
}

// RandomSeed returns a fresh 128-bit hex seed for session streams.
func RandomSeed() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the platform entropy source is broken;
		// there is no sensible fallback for a fairness seed.
		panic(fmt.Sprintf("rng: entropy source unavailable: %v", err))
	}
	return hex.EncodeToString(buf[:])
}
