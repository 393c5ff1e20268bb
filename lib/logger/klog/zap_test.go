package klog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZapLevels(t *testing.T) {
	var out bytes.Buffer
	log := NewZap(&out, false)

	log.Debugf("hidden %d", 1)
	log.Infof("visible %s", "info")
	log.Errorf("failed: %v", "boom")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "visible info")
	assert.Contains(t, out.String(), "failed: boom")
	assert.Contains(t, out.String(), "ERROR")
}

func TestZapSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	log := NewZap(&first, true)

	log.Debugf("one")
	log.SetOutput(&second)
	log.Debugf("two")

	assert.Contains(t, first.String(), "one")
	assert.NotContains(t, first.String(), "two")
	assert.Contains(t, second.String(), "two")
}
