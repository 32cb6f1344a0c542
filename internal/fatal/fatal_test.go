package fatal

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	tag, message, stack string
}

type recordingSink struct {
	records []record
}

func (r *recordingSink) Fatal(tag, message, stack string) {
	r.records = append(r.records, record{tag, message, stack})
}

func installRecorder(t *testing.T) *recordingSink {
	t.Helper()
	rec := &recordingSink{}
	require.NoError(t, Install(rec, nil))
	t.Cleanup(func() { _ = Install(nil, nil) })
	return rec
}

func TestGuard_ReportsThenRepanics(t *testing.T) {
	rec := installRecorder(t)
	boom := errors.New("window construction failed")

	assert.PanicsWithError(t, boom.Error(), func() {
		defer Guard()
		panic(boom)
	})

	require.Len(t, rec.records, 1)
	got := rec.records[0]
	assert.Equal(t, Tag, got.tag)
	assert.Equal(t, "window construction failed", got.message)

	var stack string
	require.NoError(t, json.Unmarshal([]byte(got.stack), &stack), "stack must be a JSON string")
	assert.True(t, strings.Contains(stack, "goroutine"), "stack: %s", stack)
}

func TestGuard_NoPanicNoRecord(t *testing.T) {
	rec := installRecorder(t)

	func() {
		defer Guard()
	}()

	assert.Empty(t, rec.records)
}

func TestReport_RecordsError(t *testing.T) {
	rec := installRecorder(t)

	Report("[err-ipc]", errors.New("socket in use"))
	Report("[err-ipc]", nil)

	require.Len(t, rec.records, 1)
	assert.Equal(t, "[err-ipc]", rec.records[0].tag)
	assert.Equal(t, "socket in use", rec.records[0].message)
}

func TestPanicMessage(t *testing.T) {
	assert.Equal(t, "plain", panicMessage("plain"))
	assert.Equal(t, "42", panicMessage(42))
	assert.Equal(t, "wrapped", panicMessage(errors.New("wrapped")))
}
