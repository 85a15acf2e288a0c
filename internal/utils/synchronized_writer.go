package utils

import (
	"io"
	"sync"
)

// SynchronizedWriter serializes writes from concurrent producers and flushes the
// underlying writer after each write when it supports flushing.
type SynchronizedWriter struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewSynchronizedWriter wraps writer. A nil writer yields nil so callers can
// treat streaming as disabled.
func NewSynchronizedWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if _, alreadyWrapped := writer.(*SynchronizedWriter); alreadyWrapped {
		return writer
	}
	return &SynchronizedWriter{writer: writer}
}

// Write delegates to the underlying writer while holding the writer lock.
func (synchronizedWriter *SynchronizedWriter) Write(data []byte) (int, error) {
	synchronizedWriter.mutex.Lock()
	defer synchronizedWriter.mutex.Unlock()

	bytesWritten, writeError := synchronizedWriter.writer.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableWriter, implementsFlush := synchronizedWriter.writer.(interface{ Flush() error }); implementsFlush {
		if flushError := flushableWriter.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}
