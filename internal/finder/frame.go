package finder

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Frame layout, big-endian:
//
//	tag u8 (0 ok, 1 failed)
//	failed: kind u8, len u32, description
//	ok:     count u32, then per record: worker u64, len u32, name, len u32, path
const (
	tagOK     byte = 0
	tagFailed byte = 1

	maxFrameString = 1 << 20
	maxPrealloc    = 1024
)

// EncodeOutcome serializes o into a single frame.
func EncodeOutcome(o Outcome) ([]byte, error) {
	var buf bytes.Buffer

	if f := o.Failure; f != nil {
		buf.WriteByte(tagFailed)
		buf.WriteByte(byte(f.Kind))
		if err := writeString(&buf, f.Description); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if uint64(len(o.Records)) > math.MaxUint32 {
		return nil, fmt.Errorf("too many records for one frame: %d", len(o.Records))
	}
	buf.WriteByte(tagOK)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(o.Records)))
	for _, rec := range o.Records {
		_ = binary.Write(&buf, binary.BigEndian, rec.WorkerID)
		if err := writeString(&buf, rec.Name); err != nil {
			return nil, err
		}
		if err := writeString(&buf, rec.Path); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// WriteOutcome encodes o and writes it to w in one call.
func WriteOutcome(w io.Writer, o Outcome) error {
	frame, err := EncodeOutcome(o)
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

// ReadOutcome decodes one frame from r. A frame that ends early or cannot be
// decoded yields an error wrapping ErrTransportTruncated, never an empty Ok.
// When r is already buffered, nothing past the frame is consumed.
func ReadOutcome(r io.Reader) (Outcome, error) {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	tag, err := br.ReadByte()
	if err != nil {
		return Outcome{}, truncated("tag", err)
	}

	switch tag {
	case tagFailed:
		kind, err := br.ReadByte()
		if err != nil {
			return Outcome{}, truncated("failure kind", err)
		}
		desc, err := readString(br, "failure description")
		if err != nil {
			return Outcome{}, err
		}
		return Failed(FailureKind(kind), desc), nil
	case tagOK:
		var count uint32
		if err := binary.Read(br, binary.BigEndian, &count); err != nil {
			return Outcome{}, truncated("record count", err)
		}
		records := make([]Record, 0, min(int(count), maxPrealloc))
		for i := uint32(0); i < count; i++ {
			var rec Record
			if err := binary.Read(br, binary.BigEndian, &rec.WorkerID); err != nil {
				return Outcome{}, truncated(fmt.Sprintf("record %d worker id", i), err)
			}
			if rec.Name, err = readString(br, fmt.Sprintf("record %d name", i)); err != nil {
				return Outcome{}, err
			}
			if rec.Path, err = readString(br, fmt.Sprintf("record %d path", i)); err != nil {
				return Outcome{}, err
			}
			records = append(records, rec)
		}
		return Ok(records), nil
	default:
		return Outcome{}, fmt.Errorf("%w: unknown frame tag %#x", ErrTransportTruncated, tag)
	}
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > maxFrameString {
		return fmt.Errorf("string too long for frame: %d bytes", len(s))
	}
	_ = binary.Write(buf, binary.BigEndian, uint32(len(s)))
	buf.WriteString(s)
	return nil
}

func readString(r io.Reader, field string) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", truncated(field+" length", err)
	}
	if n > maxFrameString {
		return "", fmt.Errorf("%w: %s length %d exceeds limit", ErrTransportTruncated, field, n)
	}
	data := make([]byte, n)
	if _, err := io.ReadFull(r, data); err != nil {
		return "", truncated(field, err)
	}
	return string(data), nil
}

func truncated(field string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: missing %s", ErrTransportTruncated, field)
	}
	return fmt.Errorf("%w: reading %s: %w", ErrTransportTruncated, field, err)
}
