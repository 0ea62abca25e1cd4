package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"slowtown.ai/internal/sim/world"
)

// ReadTicks decodes every tick entry under worldDir/ticks in file order.
// Files are named by hour, so lexical order is chronological.
func ReadTicks(worldDir string) ([]world.TickLogEntry, error) {
	var out []world.TickLogEntry
	err := readJSONL(filepath.Join(worldDir, "ticks"), func(line []byte) error {
		var e world.TickLogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

// ReadNotices decodes the notice history under worldDir/notices.
func ReadNotices(worldDir string) ([]world.Notice, error) {
	var out []world.Notice
	err := readJSONL(filepath.Join(worldDir, "notices"), func(line []byte) error {
		var n world.Notice
		if err := json.Unmarshal(line, &n); err != nil {
			return err
		}
		out = append(out, n)
		return nil
	})
	return out, err
}

func readJSONL(dir string, fn func(line []byte) error) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.jsonl.zst"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	for _, path := range files {
		if err := readJSONLFile(path, fn); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func readJSONLFile(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		if err := fn(sc.Bytes()); err != nil {
			return err
		}
	}
	return sc.Err()
}
