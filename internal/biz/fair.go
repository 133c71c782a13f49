package biz

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
)

// byteGenerator expands (serverSeed, clientSeed, nonce) into an HMAC-SHA256
// byte stream, 32 bytes per round.
type byteGenerator struct {
	serverSeed   string
	clientSeed   string
	nonce        uint64
	round        int
	roundCursor  int
	buffer       [32]byte
	bufferFilled bool
}

func newByteGenerator(serverSeed, clientSeed string, nonce uint64, cursor int) *byteGenerator {
	return &byteGenerator{
		serverSeed:  serverSeed,
		clientSeed:  clientSeed,
		nonce:       nonce,
		round:       cursor / 32,
		roundCursor: cursor % 32,
	}
}

// cursor is the absolute position of the next byte.
func (g *byteGenerator) cursor() int { return g.round*32 + g.roundCursor }

func (g *byteGenerator) next() byte {
	if g.roundCursor >= 32 {
		g.round++
		g.roundCursor = 0
		g.bufferFilled = false
	}
	if !g.bufferFilled {
		h := hmac.New(sha256.New, []byte(g.serverSeed))
		fmt.Fprintf(h, "%s:%d:%d", g.clientSeed, g.nonce, g.round)
		copy(g.buffer[:], h.Sum(nil))
		g.bufferFilled = true
	}
	b := g.buffer[g.roundCursor]
	g.roundCursor++
	return b
}

// float returns a value in [0, 1) built from the next 4 bytes.
func (g *byteGenerator) float() float64 {
	f := 0.0
	div := 1.0
	for i := 0; i < 4; i++ {
		div *= 256
		f += float64(g.next()) / div
	}
	return f
}

// FairSource is a provably fair symbol source: anyone holding the revealed
// server seed, the client seed and the nonce can replay every draw. The
// stream position is not persisted; a replay that must resume mid-stream
// records Cursor and reopens the source with NewFairSourceAt.
type FairSource struct {
	symbols []Symbol
	gen     *byteGenerator
}

// NewFairSource returns a source positioned at the first byte of the stream.
func NewFairSource(symbols []Symbol, serverSeed, clientSeed string, nonce uint64) (*FairSource, error) {
	return NewFairSourceAt(symbols, serverSeed, clientSeed, nonce, 0)
}

// NewFairSourceAt returns a source positioned at byte cursor of the stream.
func NewFairSourceAt(symbols []Symbol, serverSeed, clientSeed string, nonce uint64, cursor int) (*FairSource, error) {
	if cursor < 0 {
		return nil, configError("fair source cursor must not be negative, got %d", cursor)
	}
	if len(symbols) == 0 {
		return nil, configError("symbol alphabet is empty")
	}
	if serverSeed == "" {
		return nil, configError("fair source needs a server seed")
	}
	return &FairSource{
		symbols: append([]Symbol(nil), symbols...),
		gen:     newByteGenerator(serverSeed, clientSeed, nonce, cursor),
	}, nil
}

// Cursor is the stream position of the next draw; every symbol consumes 4 bytes.
func (s *FairSource) Cursor() int { return s.gen.cursor() }

func (s *FairSource) NextSymbol() Symbol {
	i := int(s.gen.float() * float64(len(s.symbols)))
	if i >= len(s.symbols) {
		i = len(s.symbols) - 1
	}
	return s.symbols[i]
}
