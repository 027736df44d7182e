package logger_test

import (
	"bytes"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/bmark/internal/logger"
)

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "warn", false)

	log.Debug("hidden")
	log.Warn("shown", logger.String("path", "/tmp/bm.json"), logger.Int("version", 1))
	assert.NilError(t, log.Sync())

	out := buf.String()
	assert.Assert(t, !bytes.Contains(buf.Bytes(), []byte("hidden")))
	assert.Assert(t, is.Contains(out, `"msg":"shown"`))
	assert.Assert(t, is.Contains(out, `"path":"/tmp/bm.json"`))
	assert.Assert(t, is.Contains(out, `"version":1`))
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "debug", true)

	log.Debugf("probed version %d", 3)
	assert.NilError(t, log.Sync())

	assert.Assert(t, is.Contains(buf.String(), "probed version 3"))
}

func TestWarnf(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "warn", false)

	log.Warnf("%s uses schema version %d", "bm.json", 0)
	log.Debug("hidden", logger.Bool("changed", true))
	assert.NilError(t, log.Sync())

	assert.Assert(t, is.Contains(buf.String(), `"msg":"bm.json uses schema version 0"`))
	assert.Assert(t, !bytes.Contains(buf.Bytes(), []byte("hidden")))
}

func TestNew_UnknownLevelDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, "loud", false)

	log.Info("hidden")
	assert.NilError(t, log.Sync())
	assert.Equal(t, buf.Len(), 0)
}

func TestValidLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		assert.Assert(t, logger.ValidLevel(lvl), lvl)
	}
	assert.Assert(t, !logger.ValidLevel("trace"))
}

func TestNop(t *testing.T) {
	log := logger.Nop()
	log.Error("nothing happens", logger.Error(nil), logger.Bool("ok", true))
	assert.NilError(t, log.Sync())
}
