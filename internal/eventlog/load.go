package eventlog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"
)

// DefaultMaxRecords bounds how many records are kept per load.
const DefaultMaxRecords = 20000

// Batch is the outcome of one load of the event files.
type Batch struct {
	Records []Record
	Paths   []string
	Err     error
}

var parserPool fastjson.ParserPool

// Read parses the records in the file at path, keeping at most maxRecords of
// the newest ones. Files ending in .zst are decompressed first. A missing file
// yields no records and no error.
func Read(path string, maxRecords int) ([]Record, error) {
	if maxRecords <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open events: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("open zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	records, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if overflow := len(records) - maxRecords; overflow > 0 {
		sortNewestFirst(records)
		records = records[:maxRecords]
	}
	return records, nil
}

// LoadGlob reads every file matching patterns and returns the combined
// records newest first. Record numbers that collide across files are
// reassigned so every record keeps a unique identity.
func LoadGlob(patterns []string, maxRecords int) ([]Record, []string, error) {
	paths, err := ExpandGlobs(patterns)
	if err != nil {
		return nil, nil, err
	}
	return LoadFiles(paths, maxRecords)
}

// LoadFiles is LoadGlob for an already expanded list of paths.
func LoadFiles(paths []string, maxRecords int) ([]Record, []string, error) {
	var all []Record
	for _, path := range paths {
		records, err := Read(path, maxRecords)
		if err != nil {
			return nil, paths, err
		}
		all = append(all, records...)
	}

	sortNewestFirst(all)
	if len(all) > maxRecords {
		all = all[:maxRecords]
	}
	renumberDuplicates(all)
	return all, paths, nil
}

// ExpandGlobs resolves doublestar patterns to a sorted, de-duplicated list of
// files. Patterns without glob syntax are returned as-is.
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		matches := []string{pattern}
		if hasMeta(pattern) {
			var err error
			matches, err = doublestar.FilepathGlob(pattern)
			if err != nil {
				return nil, fmt.Errorf("expand %q: %w", pattern, err)
			}
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				abs = m
			}
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			out = append(out, abs)
		}
	}
	slices.Sort(out)
	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func decode(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	p := parserPool.Get()
	defer parserPool.Put(p)

	if first == '[' {
		data, err := io.ReadAll(br)
		if err != nil {
			return nil, err
		}
		v, err := p.ParseBytes(data)
		if err != nil {
			return nil, fmt.Errorf("parse json array: %w", err)
		}
		items, err := v.Array()
		if err != nil {
			return nil, err
		}
		records := make([]Record, 0, len(items))
		for i, item := range items {
			records = append(records, recordFromValue(item, uint64(i+1)))
		}
		return records, nil
	}

	var records []Record
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		v, err := p.ParseBytes(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, recordFromValue(v, uint64(len(records)+1)))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func recordFromValue(v *fastjson.Value, fallbackNumber uint64) Record {
	r := Record{
		RecordNumber: v.GetUint64("recordNumber"),
		ID:           v.GetInt("id"),
		Source:       firstString(v, "source", "providerName"),
		Task:         firstString(v, "task", "taskName"),
		Level:        normalizeLevel(v.Get("level")),
		Time:         parseTime(v.Get("time")),
		Description:  firstString(v, "description", "message"),
		XML:          string(v.GetStringBytes("xml")),
	}
	if r.RecordNumber == 0 {
		r.RecordNumber = fallbackNumber
	}
	return r
}

func firstString(v *fastjson.Value, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(string(v.GetStringBytes(k))); s != "" {
			return s
		}
	}
	return ""
}

// normalizeLevel maps textual and numeric severities onto Information,
// Warning or Error. Numeric values follow the Windows event-level scheme.
func normalizeLevel(v *fastjson.Value) string {
	if v == nil {
		return "Information"
	}
	if v.Type() == fastjson.TypeNumber {
		switch v.GetInt() {
		case 1, 2:
			return "Error"
		case 3:
			return "Warning"
		default:
			return "Information"
		}
	}
	return normalizeLevelText(string(v.GetStringBytes()))
}

func normalizeLevelText(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "err", "critical", "crit", "fatal":
		return "Error"
	case "warning", "warn":
		return "Warning"
	default:
		return "Information"
	}
}

func parseTime(v *fastjson.Value) time.Time {
	if v == nil {
		return time.Time{}
	}
	if v.Type() == fastjson.TypeNumber {
		return time.UnixMilli(v.GetInt64())
	}
	value := string(v.GetStringBytes())
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

func sortNewestFirst(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		if c := b.Time.Compare(a.Time); c != 0 {
			return c
		}
		switch {
		case a.RecordNumber > b.RecordNumber:
			return -1
		case a.RecordNumber < b.RecordNumber:
			return 1
		}
		return 0
	})
}

func renumberDuplicates(records []Record) {
	seen := make(map[uint64]struct{}, len(records))
	var next uint64
	for _, r := range records {
		next = max(next, r.RecordNumber)
	}
	for i := range records {
		if _, ok := seen[records[i].RecordNumber]; ok {
			next++
			records[i].RecordNumber = next
		}
		seen[records[i].RecordNumber] = struct{}{}
	}
}
