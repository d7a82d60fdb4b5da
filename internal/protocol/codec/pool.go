package codec

import (
	"bytes"
	"sync"

	"google.golang.org/protobuf/types/known/structpb"
)

// 编码缓冲池，降低高频广播时的 GC 压力
var (
	frameStructPool = sync.Pool{
		New: func() any {
			return &structpb.Struct{}
		},
	}

	bufferPool = sync.Pool{
		New: func() any {
			return new(bytes.Buffer)
		},
	}
)

// GetFrameStruct retrieves a structpb.Struct from the pool
func GetFrameStruct() *structpb.Struct {
	return frameStructPool.Get().(*structpb.Struct)
}

// PutFrameStruct returns a structpb.Struct to the pool
func PutFrameStruct(s *structpb.Struct) {
	if s == nil {
		return
	}
	s.Reset()
	frameStructPool.Put(s)
}

// GetBuffer retrieves a bytes.Buffer from the pool
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// PutBuffer returns a bytes.Buffer to the pool
// The buffer is reset but capacity is preserved
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
