// internal/writers/msgpack.go
package writers

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"abnum/core/numbering"
	"abnum/core/pipeline"
	"abnum/pkg/api"
)

func init() {
	Register("msgpack", WriteMsgpack)
}

// The streamed binary container is a msgpack map keyed by sequence name. The
// map header declares the total entry count before any entry is written, so
// the file is self-describing and can be appended to chunk-by-chunk without
// rewriting.

// MsgpackContainer writes the container to w. The declared total must equal
// the number of entries eventually appended.
type MsgpackContainer struct {
	enc      *msgpack.Encoder
	flush    func() error
	close    func() error
	declared int
	written  int
}

// NewMsgpackContainer writes the count header and returns the container.
func NewMsgpackContainer(w io.Writer, total int) (*MsgpackContainer, error) {
	bw := bufio.NewWriter(w)
	enc := msgpack.NewEncoder(bw)
	if err := enc.EncodeMapLen(total); err != nil {
		return nil, err
	}
	return &MsgpackContainer{enc: enc, flush: bw.Flush, declared: total}, nil
}

// Append writes every entry of rs as a name→record pair.
func (c *MsgpackContainer) Append(rs *numbering.ResultSet) error {
	return rs.Each(func(name string, r numbering.Result) error {
		if c.written >= c.declared {
			return fmt.Errorf("msgpack container: more entries than the declared %d", c.declared)
		}
		if err := c.enc.EncodeString(name); err != nil {
			return err
		}
		if err := c.enc.Encode(ToAPIRecord(name, r)); err != nil {
			return err
		}
		c.written++
		return nil
	})
}

// Close flushes the container and verifies the declared count was met.
func (c *MsgpackContainer) Close() error {
	if err := c.flush(); err != nil {
		return err
	}
	if c.close != nil {
		if err := c.close(); err != nil {
			return err
		}
	}
	if c.written != c.declared {
		return fmt.Errorf("msgpack container: declared %d entries, wrote %d", c.declared, c.written)
	}
	return nil
}

// MsgpackSinkFactory returns a pipeline sink factory persisting the
// container at path. The file is created when the run's total is known,
// before the first chunk completes.
func MsgpackSinkFactory(path string) pipeline.SinkFactory {
	return func(total int) (pipeline.ChunkSink, error) {
		fh, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		c, err := NewMsgpackContainer(fh, total)
		if err != nil {
			_ = fh.Close()
			return nil, err
		}
		c.close = fh.Close
		return c, nil
	}
}

// WriteMsgpack writes a buffered result set as a complete container.
func WriteMsgpack(w io.Writer, rs *numbering.ResultSet) error {
	c, err := NewMsgpackContainer(w, rs.Len())
	if err != nil {
		return err
	}
	if err := c.Append(rs); err != nil {
		return err
	}
	return c.Close()
}

// ScanMsgpack decodes a container, calling fn once per entry in container
// order. It never buffers more than one entry, so a spill file can be
// re-scanned cheaply for two-pass CSV alignment.
func ScanMsgpack(r io.Reader, fn func(name string, rec api.RecordV1) error) error {
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	n, err := dec.DecodeMapLen()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		name, err := dec.DecodeString()
		if err != nil {
			return err
		}
		var rec api.RecordV1
		if err := dec.Decode(&rec); err != nil {
			return err
		}
		if err := fn(name, rec); err != nil {
			return err
		}
	}
	return nil
}

// SpillIterate adapts a persisted container into the re-iterable source the
// streaming CSV writer needs, re-opening the file on each pass.
func SpillIterate(path string) Iterate {
	return func(fn func(*numbering.ResultSet) error) error {
		fh, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = fh.Close() }()
		return ScanMsgpack(fh, func(_ string, rec api.RecordV1) error {
			name, result := FromAPIRecord(rec)
			rs := numbering.NewResultSet(1)
			rs.Add(name, result)
			return fn(rs)
		})
	}
}
