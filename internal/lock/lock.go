// Package lock keeps a single interactive frigo running per profile.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const fileName = "LOCK"

// Holder describes the process recorded in a lock file.
type Holder struct {
	PID     int
	Program string
	Since   time.Time
}

func (h Holder) String() string {
	s := fmt.Sprintf("%s (PID %d", h.Program, h.PID)
	if !h.Since.IsZero() {
		s += ", since " + h.Since.Local().Format("02/01 15:04")
	}
	return s + ")"
}

// HeldError is returned when another process already runs the profile.
type HeldError struct {
	Holder
	Path string
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("profile already in use by %s; lock file %s", e.Holder, e.Path)
}

// Lock is an acquired profile lock.
type Lock struct {
	file *os.File
	path string
}

// Acquire takes an exclusive, non-blocking flock on profileDir/LOCK and
// records program and the current PID in it.
func Acquire(profileDir, program string) (*Lock, error) {
	if err := os.MkdirAll(profileDir, 0700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	path := filepath.Join(profileDir, fileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, &HeldError{Holder: readHolder(path), Path: path}
		}
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}

	h := Holder{PID: os.Getpid(), Program: program, Since: time.Now().UTC()}
	if err := rewrite(f, h); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write lock file: %w", err)
	}
	return &Lock{file: f, path: path}, nil
}

// Inspect reports who holds the lock of profileDir, or nil when nobody does.
func Inspect(profileDir string) (*Holder, error) {
	path := filepath.Join(profileDir, fileName)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	err = syscall.Flock(int(f.Fd()), syscall.LOCK_SH|syscall.LOCK_NB)
	if err == nil {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		return nil, nil
	}
	if !errors.Is(err, syscall.EWOULDBLOCK) {
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}
	h := readHolder(path)
	return &h, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock and removes the file. Safe to call on a nil receiver
// and more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = os.Remove(l.path)
	err := l.file.Close()
	l.file = nil
	return err
}

func rewrite(f *os.File, h Holder) error {
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f, "pid=%d\nprogram=%s\nsince=%s\n", h.PID, h.Program, h.Since.Format(time.RFC3339))
	return err
}

func readHolder(path string) Holder {
	data, _ := os.ReadFile(path)
	return parseHolder(string(data))
}

func parseHolder(content string) Holder {
	var h Holder
	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			h.PID, _ = strconv.Atoi(value)
		case "program":
			h.Program = value
		case "since":
			h.Since, _ = time.Parse(time.RFC3339, value)
		}
	}
	if h.Program == "" {
		h.Program = "unknown program"
	}
	return h
}
