package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ava12/jlx/julia"
)

const (
	maxFileSize = 16 << 20
	stdinName   = "-"
)

// loadFile reads a whole file, name "-" reads r.
func loadFile(name string, r io.Reader) ([]byte, error) {
	if name == stdinName {
		content, e := io.ReadAll(io.LimitReader(r, maxFileSize+1))
		if e == nil && len(content) > maxFileSize {
			e = fmt.Errorf("read %s: input exceeds %d bytes", name, maxFileSize)
		}
		return content, e
	}

	file, e := os.Open(name)
	if e != nil {
		return nil, e
	}

	defer file.Close()

	stat, e := file.Stat()
	if e != nil {
		return nil, e
	}
	if size := stat.Size(); size > maxFileSize {
		return nil, fmt.Errorf("stat %s: invalid size (%d bytes)", name, size)
	}

	content, e := io.ReadAll(file)
	if e != nil {
		return nil, e
	}
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("check %s: not a valid UTF-8 encoded text", name)
	}
	return content, nil
}

// snapshot tags content with a random version.
func snapshot(name string, content []byte) (julia.Snapshot, error) {
	id, e := uuid.NewV4()
	if e != nil {
		return julia.Snapshot{}, e
	}

	if name == stdinName {
		name = "<stdin>"
	}
	return julia.Snapshot{Name: name, Version: id.String(), Text: content}, nil
}

// parseFiles parses files concurrently, results keep the order of names.
func (a *app) parseFiles(ctx context.Context, names []string, stdin io.Reader) ([]*julia.Result, error) {
	lang, e := a.language()
	if e != nil {
		return nil, e
	}

	results := make([]*julia.Result, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.jobs())
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			content, e := loadFile(name, stdin)
			if e != nil {
				return e
			}

			snap, e := snapshot(name, content)
			if e != nil {
				return e
			}

			res, e := lang.Parse(ctx, snap)
			if e != nil {
				return e
			}

			a.log.Debug().Str("file", snap.Name).Str("version", res.Version).
				Int("tokens", res.Stats.Tokens).Int("diagnostics", len(res.Diagnostics)).Msg("parsed")
			results[i] = res
			return nil
		})
	}

	if e := g.Wait(); e != nil {
		return nil, e
	}
	return results, nil
}

type lineEntry struct {
	firstPos, lastPos int
}

type sample struct {
	name    string
	content []byte
}

// splitSamples splits content into samples if it starts with the prefix or multi is set.
// The first line is the separator: every line starting with its leading non-space characters
// separates samples, the rest of a separator line is a comment.
// The last LF preceding a separator is not included in a sample.
func splitSamples(name string, content []byte, multi bool, prefix []byte) []sample {
	if len(prefix) != 0 && bytes.HasPrefix(content, prefix) {
		multi = true
	}

	if !multi {
		return []sample{{name, content}}
	}

	lines := contentLines(content)
	if len(lines) == 0 {
		return nil
	}

	var result []sample

	separator := linePrefix(content[lines[0].firstPos:lines[0].lastPos])
	sampleIndex := 1
	lineIndex := 1
	for lineIndex < len(lines) {
		text, lineCnt := sourceSample(content, lines[lineIndex:], separator)
		sampleName := fmt.Sprintf("### %s, sample #%d, (lines %d-%d)",
			name, sampleIndex, lineIndex+1, lineIndex+lineCnt)
		result = append(result, sample{sampleName, text})
		sampleIndex++
		lineIndex += lineCnt + 1
	}

	return result
}

func contentLines(content []byte) []lineEntry {
	var result []lineEntry
	pos := 0
	for pos < len(content) {
		newPos := bytes.IndexByte(content[pos:], '\n')
		if newPos < 0 {
			result = append(result, lineEntry{pos, len(content)})
			break
		}

		result = append(result, lineEntry{pos, pos + newPos})
		pos += newPos + 1
	}
	return result
}

func linePrefix(line []byte) []byte {
	for i, b := range line {
		if b <= ' ' {
			return line[:i]
		}
	}

	return line
}

func sourceSample(content []byte, lines []lineEntry, separator []byte) ([]byte, int) {
	if len(lines) == 0 {
		return nil, 0
	}

	for i, entry := range lines {
		if bytes.HasPrefix(content[entry.firstPos:entry.lastPos], separator) {
			end := entry.firstPos
			if i > 0 {
				end--
			}
			return content[lines[0].firstPos:end], i
		}
	}

	return content[lines[0].firstPos:], len(lines)
}
