package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tarunb-0127/minilms/core"
	"github.com/tarunb-0127/minilms/core/session"
)

func newTestLogger() (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)
	return logger, &buf
}

func TestRollbarLogger_Print(t *testing.T) {
	logger, buf := newTestLogger()

	logger.Warn("progress sync failed", errors.New("connection refused"), map[string]interface{}{"moduleId": 3})
	out := buf.String()
	assert.Contains(t, out, "[WARN] progress sync failed")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "moduleId:3")
}

func TestRollbarLogger_Prepare(t *testing.T) {
	logger, _ := newTestLogger()
	err := errors.New("boom")

	args := logger.prepare("msg", []interface{}{err, session.New("token", 7), session.New("other", 8)})
	assert.Equal(t, []interface{}{"msg", err}, args)

	args = logger.prepare("msg", nil)
	assert.Equal(t, []interface{}{"msg"}, args)
}
