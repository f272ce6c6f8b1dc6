package logger

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actionstore.log")
	writer1 := fileWriter(path)
	writer2 := fileWriter(path)
	assert.Equal(t, reflect.ValueOf(writer1).Pointer(), reflect.ValueOf(writer2).Pointer())
}

func TestSetWriter(t *testing.T) {
	assert.Equal(t, io.Discard, SetWriter(false, ""))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(WithWriter(&buf), WithLevel("warn"), WithServerName("actionstore"))
	l.Info("dropped")
	l.Warn("kept", zap.Int64("action_id", 7))
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "actionstore")

	ctx := With(context.Background(), l)
	assert.Equal(t, l, From(ctx))
	assert.NotNil(t, From(context.Background()))
}
