package sink

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sawmill-log/sawmill/core"
)

// FileConfig holds configuration for the file sink
type FileConfig struct {
	// Filename is the path of the log file (required)
	Filename string
	// MaxSize is the maximum file size in bytes before rotation (0 disables rotation)
	MaxSize int64
	// MaxBackups is the maximum number of rotated files to keep (0 keeps all)
	MaxBackups int
	// BufferSize is the size of the write buffer (default: 32 KiB)
	BufferSize int
}

// FileSink writes formatted records to a file through a buffered
// writer, rotating by size and pruning old backups.
type FileSink struct {
	mu             sync.Mutex
	filename       string
	file           *os.File
	bufWriter      *bufio.Writer
	maxSize        int64
	maxBackups     int
	currentSize    int64
	lastRotateTime time.Time
}

// NewFileSink creates a file sink, opening (or creating) the file in append mode.
func NewFileSink(cfg FileConfig) (*FileSink, error) {
	if cfg.Filename == "" {
		return nil, fmt.Errorf("file sink: filename is required")
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 32 * 1024
	}

	if dir := filepath.Dir(cfg.Filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("file sink: create directory: %w", err)
		}
	}

	file, err := os.OpenFile(cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("file sink: open: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("file sink: stat: %w", err)
	}

	return &FileSink{
		filename:       cfg.Filename,
		file:           file,
		bufWriter:      bufio.NewWriterSize(file, cfg.BufferSize),
		maxSize:        cfg.MaxSize,
		maxBackups:     cfg.MaxBackups,
		currentSize:    info.Size(),
		lastRotateTime: time.Now(),
	}, nil
}

// Write appends one formatted line, rotating first if the size limit is reached
func (s *FileSink) Write(_ *core.Record, line []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rotateIfNeeded(); err != nil {
		return err
	}

	n, err := s.bufWriter.Write(line)
	s.currentSize += int64(n)
	return err
}

// Flush writes buffered data and syncs the file
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	if err := s.bufWriter.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close flushes, syncs and closes the underlying file
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	flushErr := s.bufWriter.Flush()
	syncErr := s.file.Sync()
	closeErr := s.file.Close()
	s.file = nil

	if flushErr != nil {
		return flushErr
	}
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}

// rotateIfNeeded checks and performs rotation if needed. Caller holds mu.
func (s *FileSink) rotateIfNeeded() error {
	if s.maxSize <= 0 || s.currentSize < s.maxSize {
		return nil
	}
	return s.rotate()
}

// rotate performs the actual file rotation. Caller holds mu.
func (s *FileSink) rotate() error {
	// Flush buffered writer, sync and close current file
	if err := s.bufWriter.Flush(); err != nil {
		return err
	}
	if err := s.file.Sync(); err != nil {
		return err
	}
	if err := s.file.Close(); err != nil {
		return err
	}

	// Rename current file with timestamp
	timestamp := time.Now().Format("2006-01-02T15-04-05.000")
	rotatedName := fmt.Sprintf("%s.%s", s.filename, timestamp)

	if err := os.Rename(s.filename, rotatedName); err != nil {
		// If rename fails, try to reopen the original file
		file, openErr := os.OpenFile(s.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if openErr != nil {
			return fmt.Errorf("rotation failed: %v, reopen failed: %v", err, openErr)
		}
		s.file = file
		s.bufWriter.Reset(file)
		return err
	}

	if s.maxBackups > 0 {
		s.cleanupOldBackups()
	}

	// Open new file
	file, err := os.OpenFile(s.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	s.file = file
	s.bufWriter.Reset(file)
	s.currentSize = 0
	s.lastRotateTime = time.Now()

	return nil
}

// cleanupOldBackups removes old backup files based on MaxBackups. Caller holds mu.
func (s *FileSink) cleanupOldBackups() {
	dir := filepath.Dir(s.filename)
	base := filepath.Base(s.filename)

	// Find all backup files
	pattern := filepath.Join(dir, base+".*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}

	// Filter to only timestamp-based backups
	var backups []string
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), base+".") {
			backups = append(backups, match)
		}
	}

	// Sort by modification time (oldest first)
	sort.Slice(backups, func(i, j int) bool {
		infoI, errI := os.Stat(backups[i])
		infoJ, errJ := os.Stat(backups[j])
		if errI != nil || errJ != nil {
			return false
		}
		return infoI.ModTime().Before(infoJ.ModTime())
	})

	// Remove oldest files if we exceed MaxBackups
	if len(backups) > s.maxBackups {
		toRemove := backups[:len(backups)-s.maxBackups]
		for _, file := range toRemove {
			if err := os.Remove(file); err != nil {
				return
			}
		}
	}
}
