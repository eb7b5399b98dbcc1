package adminlist

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// Source reads administrator emails from a static list and, optionally, a
// file that is re-read on every call so reloads pick up edits.
type Source struct {
	static []string
	path   string
}

// NewSource takes the comma separated ADMIN_EMAILS value and an optional
// ADMIN_EMAILS_FILE path.
func NewSource(rawList, path string) *Source {
	return &Source{
		static: splitList(rawList),
		path:   strings.TrimSpace(path),
	}
}

func (s *Source) AdminEmails(_ context.Context) ([]string, error) {
	out := append([]string(nil), s.static...)
	if s.path == "" {
		return out, nil
	}

	fromFile, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	return append(out, fromFile...), nil
}

// readFile accepts either a JSON array of strings or one email per line,
// with '#' comments.
func readFile(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, crerr.Wrapf(err, "read admin emails file %q", path)
	}

	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var emails []string
		if err := sonic.Unmarshal(trimmed, &emails); err != nil {
			return nil, crerr.Wrapf(err, "decode admin emails file %q", path)
		}
		return emails, nil
	}

	var out []string
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		out = append(out, splitList(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, crerr.Wrapf(err, "scan admin emails file %q", path)
	}
	return out, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
