package main

import (
	"bytes"
	"testing"

	"cascade/encoding"

	"github.com/stretchr/testify/assert"
	"github.com/yola1107/kratos/v2/log"
)

func TestRoundLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	roundLogger(log.NewStdLogger(&buf))(encoding.RoundPayload{Matrix: []string{"1", "K"}, Combine: []string{"1;0,1;1.00"}})

	out := buf.String()
	assert.Contains(t, out, `payload={"matrix":["1","K"],"combine":["1;0,1;1.00"]}`)
	assert.Contains(t, out, "ended=false")
}
