// Package container scans diagnostic-log containers for framed payloads.
//
// # Frame Format
//
// A container is a sequence of frames with no file header:
//
//	[Marker(1)][Length(4)][Payload(Length)][Separator(1), optional]
//
// Fields:
//   - Marker: always 0x01
//   - Length: 32-bit unsigned payload length (big-endian)
//   - Payload: encrypted, compressed log data (see package codec)
//   - Separator: a single 0x00 byte that may follow the payload
//
// # Resynchronization
//
// The reader never trusts the container to be well formed. Bytes that are
// not a marker are skipped one at a time, so the scan recovers after
// corrupted or misaligned regions at worst-case O(n) cost. A header with a
// zero length or a length that overruns the buffer is dropped and the scan
// resumes right after the header. A header cut short by the end of the
// buffer ends the scan; that is the end of usable data, not an error.
//
// # Usage
//
//	r := container.NewReader(buf)
//	for r.Next() {
//	    f := r.Frame()
//	    // f.Payload is a subslice of buf
//	}
//	stats := r.Stats()
//
// # Limits
//
// The reader works on an in-memory buffer: the largest container that can
// be processed is bounded by available memory.
package container
