package adapter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/okolari/tracktimer/internal/tracker/adapter"
)

func TestWriterDisplayRender(t *testing.T) {
	var buf bytes.Buffer
	display := adapter.NewWriterDisplay(&buf)

	display.Render("00:00:01")
	display.Render("00:00:02")

	assert.Equal(t, "00:00:01\n00:00:02\n", buf.String())
}
