package extractor

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
)

const (
	frontMatterDelim = "---"
	// Longest front matter block we look for before treating the
	// leading "---" as an ordinary line.
	maxFrontMatterLines = 64
)

// Metadata is the optional YAML front matter of a question bank.
type Metadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

func (m Metadata) isZero() bool {
	return m.Title == "" && m.Description == ""
}

// SplitFrontMatter reads a leading "---" block from r. The block counts as
// front matter only when it is closed, holds no question or option lines
// and decodes to at least one known key. Otherwise Metadata is zero and the
// returned reader yields r unchanged. Only the block itself is buffered; the
// body is streamed from r.
func SplitFrontMatter(r io.Reader) (Metadata, io.Reader, error) {
	br := bufio.NewReader(r)
	var head bytes.Buffer

	first, eof, err := readLine(br, &head)
	if err != nil {
		return Metadata{}, nil, err
	}
	if eof || strings.TrimSpace(first) != frontMatterDelim {
		return Metadata{}, io.MultiReader(&head, br), nil
	}

	closed := false
	for i := 0; i < maxFrontMatterLines && !closed; i++ {
		line, eof, err := readLine(br, &head)
		if err != nil {
			return Metadata{}, nil, err
		}
		switch {
		case strings.TrimSpace(line) == frontMatterDelim:
			closed = true
		case Classify(line).Kind != Ignored:
			return Metadata{}, io.MultiReader(&head, br), nil
		}
		if eof {
			break
		}
	}
	if !closed {
		return Metadata{}, io.MultiReader(&head, br), nil
	}

	var meta Metadata
	if _, err := frontmatter.Parse(bytes.NewReader(head.Bytes()), &meta); err != nil || meta.isZero() {
		return Metadata{}, io.MultiReader(&head, br), nil
	}
	return meta, br, nil
}

// ParseDocument is SplitFrontMatter over an in-memory document.
func ParseDocument(source []byte) (Metadata, []byte, error) {
	meta, body, err := SplitFrontMatter(bytes.NewReader(source))
	if err != nil {
		return Metadata{}, nil, err
	}
	rest, err := io.ReadAll(body)
	if err != nil {
		return Metadata{}, nil, err
	}
	return meta, rest, nil
}

// readLine appends the next raw line to head and returns it without its
// line ending. eof reports that r has nothing after this line.
func readLine(r *bufio.Reader, head *bytes.Buffer) (string, bool, error) {
	line, err := r.ReadString('\n')
	head.WriteString(line)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	return strings.TrimRight(line, "\r\n"), err != nil, nil
}
