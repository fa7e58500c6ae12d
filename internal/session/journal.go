package session

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/dshills/docedit/internal/ops"
)

// WithJournal writes every applied operation to w as one JSON line in
// the operation wire form.
func WithJournal(w io.Writer) Option {
	return func(s *LocalSession) {
		s.journal = w
	}
}

// journalLocked appends op to the journal. Write failures are logged
// and do not affect the operation.
func (s *LocalSession) journalLocked(op ops.Operation) {
	if s.journal == nil {
		return
	}
	line, err := ops.Encode(op)
	if err == nil {
		_, err = s.journal.Write(append(line, '\n'))
	}
	if err != nil {
		s.log.Warn("journaling %s: %v", ops.Describe(op), err)
	}
}

// Export returns the applied operations as a JSON array.
func (s *LocalSession) Export() ([]byte, error) {
	return ops.EncodeList(s.Applied())
}

// Replay decodes operations and enqueues them in order. data is either
// a JSON array, as Export returns, or a journal of one operation per
// line. Nothing is enqueued when any operation fails to decode. It
// returns the number of operations enqueued.
func (s *LocalSession) Replay(data []byte) (int, error) {
	list, err := decodeOperations(data)
	if err != nil {
		return 0, err
	}
	for _, op := range list {
		s.Enqueue(op)
	}
	s.log.Info("replayed %d operations", len(list))
	return len(list), nil
}

func decodeOperations(data []byte) ([]ops.Operation, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return ops.DecodeList(trimmed)
	}
	var out []ops.Operation
	sc := bufio.NewScanner(bytes.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		op, err := ops.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("journal line %d: %w", line, err)
		}
		out = append(out, op)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
