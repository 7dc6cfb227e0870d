package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Red1Kir/NovaMotion-Core/internal/calibration"
	"github.com/Red1Kir/NovaMotion-Core/internal/protocol"
)

// ReadFrames decodes every frame in a session file, skipping lines that no
// longer validate. A partial final line from a killed writer is skipped the
// same way.
func ReadFrames(path string) ([]protocol.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	var events []protocol.Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		ev, err := protocol.DecodeFrame(line)
		if err != nil {
			continue
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store: scan %q: %w", path, err)
	}
	return events, nil
}

// LatestResultInDir scans session files in dir, newest first, for the most
// recent completed calibration result. Used by headless export when no live
// session is running. Returns false if dir holds no result.
func LatestResultInDir(dir string) (calibration.Result, bool, error) {
	files, err := sessionFiles(dir)
	if err != nil {
		return calibration.Result{}, false, err
	}
	// Newest session first.
	for i := len(files) - 1; i >= 0; i-- {
		events, err := ReadFrames(filepath.Join(dir, files[i]))
		if err != nil {
			return calibration.Result{}, false, err
		}
		// Last terminal update in the file wins.
		for k := len(events) - 1; k >= 0; k-- {
			u := events[k].Calibration
			if events[k].Type != protocol.EventCalibrationUpdate || u == nil || !u.Complete() {
				continue
			}
			r, err := calibration.ParseResult(u.Results)
			if err != nil {
				continue
			}
			return r, true, nil
		}
	}
	return calibration.Result{}, false, nil
}

// EnforceRetention removes the oldest session log files in dir, keeping at
// most maxKeep files. If maxKeep is 0, no files are removed. Returns nil if
// dir does not exist or is empty.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := sessionFiles(dir)
	if err != nil {
		return err
	}
	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}

// sessionFiles lists session log names in dir, oldest first. Timestamp-
// prefixed names sort chronologically.
func sessionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
