package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.NotNil(Printer())
	assert.Equal("opcode 0x00ee", From("opcode 0x%04x", 0xee))
	assert.Equal("label start missing", From("label %v missing", "start"))
}
