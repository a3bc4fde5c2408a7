package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ArchiveLogger writes every event as one JSON line into a zstd-compressed
// file, keeping a memory copy like TextLogger does.
type ArchiveLogger struct {
	MemoryLogger

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
}

// NewArchiveLogger creates (or truncates) path and returns a logger writing to it.
func NewArchiveLogger(path string) (*ArchiveLogger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &ArchiveLogger{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// ArchivePath returns the conventional archive file for a campaign.
func ArchivePath(dir, campaignID string) string {
	return filepath.Join(dir, campaignID+".jsonl.zst")
}

func (l *ArchiveLogger) Log(event CampaignEvent) {
	l.MemoryLogger.Log(event)
	event = l.MemoryLogger.LastEvent()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil || l.w == nil {
		return
	}
	b, err := json.Marshal(event)
	if err != nil {
		l.err = err
		return
	}
	if _, err := l.w.Write(b); err != nil {
		l.err = err
		return
	}
	l.err = l.w.WriteByte('\n')
}

// Err reports the first write error, if any.
func (l *ArchiveLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close flushes the compressed stream and closes the file.
func (l *ArchiveLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.w == nil {
		return l.err
	}
	flushErr := l.w.Flush()
	encErr := l.enc.Close()
	fileErr := l.f.Close()
	l.w, l.enc, l.f = nil, nil, nil
	for _, err := range []error{l.err, flushErr, encErr, fileErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadArchive decodes all events from a zstd JSONL archive.
func ReadArchive(path string) ([]CampaignEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeArchive(f)
}

// DecodeArchive decodes a zstd JSONL event stream.
func DecodeArchive(r io.Reader) ([]CampaignEvent, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var events []CampaignEvent
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var ev CampaignEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return events, fmt.Errorf("decode event %d: %w", len(events)+1, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return events, fmt.Errorf("read archive: %w", err)
	}
	return events, nil
}
