package rdf

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// readLineWithLimit returns the next line including its '\n'. A line longer
// than maxBytes is skipped and reported as ErrLineTooLong; maxBytes <= 0
// disables the check. The final line may lack a newline.
func readLineWithLimit(reader *bufio.Reader, maxBytes int) (string, error) {
	var line []byte
	for {
		part, err := reader.ReadSlice('\n')
		line = append(line, part...)
		if maxBytes > 0 && len(line) > maxBytes {
			skipLine(reader, err)
			return "", errors.Wrapf(ErrLineTooLong, "more than %d bytes", maxBytes)
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(line) > 0:
			return string(line), nil
		case err != nil:
			return "", err
		}
		return string(line), nil
	}
}

// skipLine consumes the rest of a line whose last read ended with err.
func skipLine(reader *bufio.Reader, err error) {
	for err == bufio.ErrBufferFull {
		_, err = reader.ReadSlice('\n')
	}
}

// contextReader fails reads once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := checkDecodeContext(c.ctx); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func checkDecodeContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// UnescapeString decodes the escapes of an N-Triples or Turtle string:
// \t \b \n \r \f \" \' \\, \uXXXX (with surrogate pairs) and \UXXXXXXXX.
func UnescapeString(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+1 == len(s) {
			return "", errors.Wrap(ErrInvalidLiteral, "unterminated escape")
		}
		switch c := s[i+1]; c {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(c)
		case 'u', 'U':
			r, n, err := unescapeCodePoint(s[i:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
			continue
		default:
			return "", errors.Wrapf(ErrInvalidLiteral, "unknown escape \\%c", c)
		}
		i += 2
	}
	return b.String(), nil
}

// unescapeCodePoint decodes the \u or \U escape at the start of s and returns
// the rune and the number of bytes consumed.
func unescapeCodePoint(s string) (rune, int, error) {
	width := 4
	if s[1] == 'U' {
		width = 8
	}
	r, ok := hexRune(s[2:], width)
	if !ok {
		return 0, 0, errors.Wrapf(ErrInvalidLiteral, "malformed escape %.*q", width+2, s)
	}
	n := width + 2
	if width == 4 && utf16.IsSurrogate(r) {
		if len(s) < 12 || s[6] != '\\' || s[7] != 'u' {
			return 0, 0, errors.Wrap(ErrInvalidLiteral, "unpaired surrogate escape")
		}
		low, ok := hexRune(s[8:], 4)
		if !ok {
			return 0, 0, errors.Wrap(ErrInvalidLiteral, "unpaired surrogate escape")
		}
		if r = utf16.DecodeRune(r, low); r == utf8.RuneError {
			return 0, 0, errors.Wrap(ErrInvalidLiteral, "invalid surrogate pair escape")
		}
		n = 12
	}
	if !utf8.ValidRune(r) {
		return 0, 0, errors.Wrap(ErrInvalidLiteral, "escape is not a Unicode scalar value")
	}
	return r, n, nil
}

func hexRune(s string, width int) (rune, bool) {
	if len(s) < width {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
