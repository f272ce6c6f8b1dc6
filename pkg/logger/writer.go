package logger

import (
	"io"
	"path/filepath"
	"sync"

	"github.com/mattn/go-colorable"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	writers   = map[string]io.WriteCloser{}
	writersMu sync.Mutex
)

// SetWriter returns console and/or a rotating file writer for path.
// The same path always yields the same rotating writer.
func SetWriter(console bool, path string) io.Writer {
	var writerList []io.Writer
	if console {
		writerList = append(writerList, colorable.NewColorableStdout())
	}
	if path != "" {
		writerList = append(writerList, fileWriter(path))
	}
	if len(writerList) == 0 {
		return io.Discard
	}
	return io.MultiWriter(writerList...)
}

func fileWriter(path string) io.WriteCloser {
	path = filepath.Clean(path)
	writersMu.Lock()
	defer writersMu.Unlock()
	w, ok := writers[path]
	if !ok {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxBackups: 30,  // files
			MaxSize:    500, // megabytes
			MaxAge:     30,  // days
			Compress:   true,
		}
		writers[path] = w
	}
	return w
}
