// Package audit keeps a hash-chained JSONL journal of executed mutating
// zone operations.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"sync"
	"time"

	"github.com/jvs-project/zonectl/pkg/model"
)

// FileAppender appends audit records to a JSONL file with hash chain.
type FileAppender struct {
	path string
	mu   sync.Mutex

	// now and whoami are replaceable in tests.
	now    func() time.Time
	whoami func() string
}

// NewFileAppender creates a new FileAppender.
func NewFileAppender(path string) *FileAppender {
	return &FileAppender{path: path, now: time.Now, whoami: currentUser}
}

// Path returns the journal file path.
func (a *FileAppender) Path() string {
	return a.path
}

// Append adds a record for one executed operation. argv holds every
// command the operation ran.
func (a *FileAppender) Append(op model.Operation, zoneName string, argv [][]string, details map[string]any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	// Other zonectl processes may append concurrently.
	if err := lockFile(file); err != nil {
		return fmt.Errorf("flock audit log: %w", err)
	}
	defer unlockFile(file)

	prevHash, err := lastRecordHash(file)
	if err != nil {
		return fmt.Errorf("get last record hash: %w", err)
	}

	record := &model.AuditRecord{
		Timestamp: a.now().UTC(),
		EventType: op,
		ZoneName:  zoneName,
		User:      a.whoami(),
		Argv:      argv,
		Details:   details,
		PrevHash:  prevHash,
	}
	record.RecordHash, err = computeRecordHash(record)
	if err != nil {
		return fmt.Errorf("compute record hash: %w", err)
	}

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync audit log: %w", err)
	}
	return nil
}

// GetLastRecordHash returns the hash of the last record in the log.
func (a *FileAppender) GetLastRecordHash() (model.HashValue, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	return lastRecordHash(file)
}

// Records reads every record in the journal, oldest first.
func (a *FileAppender) Records() ([]model.AuditRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	var records []model.AuditRecord
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		var r model.AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("audit line %d: %w", n, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}
	return records, nil
}

// Verify recomputes every record hash and checks each record links to its
// predecessor. It returns the number of records checked.
func (a *FileAppender) Verify() (int, error) {
	records, err := a.Records()
	if err != nil {
		return 0, err
	}

	var prev model.HashValue
	for i := range records {
		r := &records[i]
		if r.PrevHash != prev {
			return i, fmt.Errorf("audit record %d: prev_hash %s does not match %s", i+1, r.PrevHash, prev)
		}
		want, err := computeRecordHash(r)
		if err != nil {
			return i, fmt.Errorf("audit record %d: %w", i+1, err)
		}
		if r.RecordHash != want {
			return i, fmt.Errorf("audit record %d: record_hash mismatch", i+1)
		}
		prev = r.RecordHash
	}
	return len(records), nil
}

func lastRecordHash(file *os.File) (model.HashValue, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek to start: %w", err)
	}

	var lastHash model.HashValue
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var record model.AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue // skip malformed lines
		}
		lastHash = record.RecordHash
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan audit log: %w", err)
	}
	return lastHash, nil
}

// computeRecordHash hashes the record with RecordHash cleared.
// encoding/json emits struct fields in declaration order and map keys
// sorted, so the encoding is stable.
func computeRecordHash(record *model.AuditRecord) (model.HashValue, error) {
	hashRecord := *record
	hashRecord.RecordHash = ""

	data, err := json.Marshal(&hashRecord)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	hash := sha256.Sum256(data)
	return model.HashValue(hex.EncodeToString(hash[:])), nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
