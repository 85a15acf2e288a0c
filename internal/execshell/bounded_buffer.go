package execshell

import (
	"bytes"
	"sync"
)

// boundedBuffer accumulates output until a byte ceiling is reached.
// Writes past the ceiling fail with ErrOutputBufferExceeded and trigger the overflow callback once.
type boundedBuffer struct {
	limit      int
	buffer     bytes.Buffer
	exceeded   bool
	onOverflow func()
	mutex      sync.Mutex
}

func newBoundedBuffer(limit int, onOverflow func()) *boundedBuffer {
	return &boundedBuffer{limit: limit, onOverflow: onOverflow}
}

// Write implements io.Writer.
func (buffer *boundedBuffer) Write(data []byte) (int, error) {
	buffer.mutex.Lock()
	defer buffer.mutex.Unlock()

	if buffer.exceeded {
		return 0, ErrOutputBufferExceeded
	}

	if buffer.buffer.Len()+len(data) > buffer.limit {
		buffer.exceeded = true
		if buffer.onOverflow != nil {
			buffer.onOverflow()
		}
		return 0, ErrOutputBufferExceeded
	}

	return buffer.buffer.Write(data)
}

// String returns the captured output.
func (buffer *boundedBuffer) String() string {
	buffer.mutex.Lock()
	defer buffer.mutex.Unlock()
	return buffer.buffer.String()
}

// Exceeded reports whether the ceiling was hit.
func (buffer *boundedBuffer) Exceeded() bool {
	buffer.mutex.Lock()
	defer buffer.mutex.Unlock()
	return buffer.exceeded
}
