package audit

import (
	"bufio"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// fileRecord is one line of the durable log: the entry plus the HMAC that
// chains it to the preceding line.
type fileRecord struct {
	Entry
	MAC string `json:"mac"`
}

// FileSink appends entries to a JSON-lines file. Each record carries an HMAC
// over the serialized entry and the previous record's MAC, so truncation or
// in-place edits break the chain.
type FileSink struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	writer  *bufio.Writer
	key     []byte
	prevMAC string
}

// DefaultLogPath returns the XDG state location for the audit log.
func DefaultLogPath(appName string) (string, error) {
	return xdg.StateFile(filepath.Join(appName, "audit.log"))
}

// NewFileSink opens (or creates) the audit log at path. The key signs each
// record; the same key must be supplied to Verify. An existing log is
// scanned so new records continue the chain.
func NewFileSink(path string, key []byte) (*FileSink, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("audit: signing key is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	prevMAC, err := lastMAC(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	return &FileSink{
		path:    path,
		file:    file,
		writer:  bufio.NewWriter(file),
		key:     key,
		prevMAC: prevMAC,
	}, nil
}

// Append writes one entry as a chained JSON line.
func (s *FileSink) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mac, err := computeMAC(s.key, s.prevMAC, entry)
	if err != nil {
		return err
	}

	record := fileRecord{Entry: entry, MAC: mac}
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}

	if _, err := s.writer.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	s.prevMAC = mac
	return nil
}

// Flush forces buffered records to disk.
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writer.Flush(); err != nil {
		return err
	}
	return s.file.Close()
}

// Verify walks the log at path and checks every record's HMAC against the
// chain. It returns the number of valid records; a non-nil error identifies
// the first record that fails verification.
func Verify(path string, key []byte) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	prevMAC := ""
	count := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record fileRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return count, fmt.Errorf("audit record %d is malformed: %w", count+1, err)
		}

		expected, err := computeMAC(key, prevMAC, record.Entry)
		if err != nil {
			return count, err
		}
		if !hmac.Equal([]byte(expected), []byte(record.MAC)) {
			return count, fmt.Errorf("audit record %d failed integrity check", count+1)
		}

		prevMAC = record.MAC
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}

	return count, nil
}

// Summary aggregates a log file for reporting.
type Summary struct {
	Total             int
	Succeeded         int
	Failed            int
	AverageDurationMS float64
	CommandFrequency  map[string]int
}

// Summarize reads the log at path and aggregates its entries. It does not
// check the integrity chain; use Verify for that.
func Summarize(path string) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	summary := &Summary{CommandFrequency: make(map[string]int)}
	var totalMS int64

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record fileRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return nil, fmt.Errorf("audit record %d is malformed: %w", summary.Total+1, err)
		}
		summary.Total++
		if record.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.CommandFrequency[record.CommandID]++
		totalMS += record.DurationMS
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if summary.Total > 0 {
		summary.AverageDurationMS = float64(totalMS) / float64(summary.Total)
	}
	return summary, nil
}

func computeMAC(key []byte, prevMAC string, entry Entry) (string, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to encode entry for signing: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(prevMAC))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// lastMAC returns the MAC of the final record in an existing log, or an
// empty string for a new or absent log.
func lastMAC(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	defer func() { _ = file.Close() }()

	last := ""
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record fileRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return "", fmt.Errorf("existing audit log is malformed: %w", err)
		}
		last = record.MAC
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return last, nil
}
