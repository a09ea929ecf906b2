package emit

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// lineReader splits a stream on '\n' with no limit on line length. The
// terminator, and a '\r' before it, are dropped. A final line without a
// terminator is still returned.
type lineReader struct {
	br *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(r)}
}

// next returns the next line, or io.EOF once the stream is exhausted.
func (lr *lineReader) next() (string, error) {
	line, err := lr.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSuffix(line, "\r"), nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
