// Package pacforge builds and doubly-signs a PACTYPE for forged tickets
// (golden/silver). gokrb5's pac package only decodes PACs (a conformant
// client validates the KDC's PAC, it never builds one); there is no
// production Go library that signs PACs, so this package hand-rolls both
// the NDR encoding of KERB_VALIDATION_INFO and the PACTYPE buffer layout,
// following the same structure MS-PAC §2.2-2.8 describes and that
// github.com/jcmturner/rpc/v2/ndr decodes on the read side: conformant-array
// length prefixes followed by the array body, 4-byte alignment between
// fields.
package pacforge

import (
	"bytes"
	"encoding/binary"
	"unicode/utf16"
)

// ndrWriter accumulates an NDR-marshalled byte stream for a single top-level
// structure: a fixed part written in field order, and a deferred part for
// the data every embedded pointer refers to, appended after the fixed part
// in the order the pointers were declared — the standard NDR "embedded
// pointer" deferral rule.
type ndrWriter struct {
	fixed    bytes.Buffer
	deferred bytes.Buffer
	nextRef  uint32
}

func newNDRWriter() *ndrWriter {
	return &ndrWriter{nextRef: 0x00020000}
}

func (w *ndrWriter) Bytes() []byte {
	buf := make([]byte, 0, w.fixed.Len()+w.deferred.Len())
	buf = append(buf, w.fixed.Bytes()...)
	buf = append(buf, w.deferred.Bytes()...)
	return buf
}

func (w *ndrWriter) u16(v uint16) { binary.Write(&w.fixed, binary.LittleEndian, v) }
func (w *ndrWriter) u32(v uint32) { binary.Write(&w.fixed, binary.LittleEndian, v) }

// ptr writes a non-null referent id to the fixed part and returns it; the
// caller later writes the referent's data into the deferred buffer via
// deferU32/deferBytes/deferAlign4.
func (w *ndrWriter) ptr() uint32 {
	id := w.nextRef
	w.nextRef += 4
	w.u32(id)
	return id
}

func (w *ndrWriter) nullPtr() { w.u32(0) }

// deferU32 writes a uint32 into the deferred part (used for conformant-array
// max_count headers).
func (w *ndrWriter) deferU32(v uint32) { binary.Write(&w.deferred, binary.LittleEndian, v) }

func (w *ndrWriter) deferBytes(b []byte) { w.deferred.Write(b) }

func (w *ndrWriter) deferAlign4() {
	for w.deferred.Len()%4 != 0 {
		w.deferred.WriteByte(0)
	}
}

// rpcUnicodeString writes an RPC_UNICODE_STRING inline (Length,
// MaximumLength, pointer to a conformant+varying wchar_t array) and queues
// the UTF-16 buffer into the deferred area.
func (w *ndrWriter) rpcUnicodeString(s string) {
	units := utf16.Encode([]rune(s))
	byteLen := uint16(len(units) * 2)
	w.u16(byteLen)
	w.u16(byteLen)
	if len(units) == 0 {
		w.nullPtr()
		return
	}
	w.ptr()
	w.deferU32(uint32(len(units))) // max_count
	w.deferU32(0)                 // offset
	w.deferU32(uint32(len(units))) // actual_count
	for _, u := range units {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], u)
		w.deferBytes(b[:])
	}
	w.deferAlign4()
}

// fileTime writes a Windows FILETIME (two uint32s, low then high).
func (w *ndrWriter) fileTime(ft uint64) {
	w.u32(uint32(ft & 0xffffffff))
	w.u32(uint32(ft >> 32))
}

// NeverExpiresFileTime is the MS-PAC sentinel for "never expires":
// 0x7FFFFFFFFFFFFFFF.
const NeverExpiresFileTime uint64 = 0x7FFFFFFFFFFFFFFF

// NotSetFileTime is the sentinel for an unset time field: all bits zero.
const NotSetFileTime uint64 = 0
