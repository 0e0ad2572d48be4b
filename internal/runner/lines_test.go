package runner

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

type emitted struct {
	line    string
	partial bool
}

func collectSplit(chunks ...string) []emitted {
	var out []emitted
	s := newLineSplitter(func(line string, partial bool) {
		out = append(out, emitted{line, partial})
	})
	for _, c := range chunks {
		_, _ = s.Write([]byte(c))
	}
	s.Close()
	return out
}

func TestLineSplitter(t *testing.T) {
	cases := []struct {
		name   string
		chunks []string
		want   []emitted
	}{
		{
			name:   "pty crlf",
			chunks: []string{"one\r\ntwo\r\n"},
			want:   []emitted{{"one", false}, {"two", false}},
		},
		{
			name:   "crlf split across reads",
			chunks: []string{"one\r", "\ntwo"},
			want:   []emitted{{"one", false}, {"two", false}},
		},
		{
			name:   "progress rewrites",
			chunks: []string{"10%\r20%\r", "30%\r\ndone\n"},
			want:   []emitted{{"10%", true}, {"20%", true}, {"30%", false}, {"done", false}},
		},
		{
			name:   "blank lines kept",
			chunks: []string{"a\n\nb\n"},
			want:   []emitted{{"a", false}, {"", false}, {"b", false}},
		},
		{
			name:   "ansi stripped",
			chunks: []string{"\x1b[32mok\x1b[0m\n"},
			want:   []emitted{{"ok", false}},
		},
		{
			name:   "trailing cr only",
			chunks: []string{"\r\r"},
			want:   nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := collectSplit(tc.chunks...)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("split = %#v, want %#v", got, tc.want)
			}
		})
	}
}

func TestLineSplitter_LongLineCutsOnRuneBoundary(t *testing.T) {
	head := strings.Repeat("a", maxLineBytes-1)
	got := collectSplit(head + "é\n")
	want := []emitted{{head, false}, {"é", false}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("split produced %d lines, want head then %q: last = %q", len(got), "é", got[len(got)-1].line)
	}
	for i, e := range got {
		if !utf8.ValidString(e.line) {
			t.Fatalf("line %d is not valid UTF-8", i)
		}
	}
}

func TestLineSplitter_LongLineExactLimit(t *testing.T) {
	head := strings.Repeat("b", maxLineBytes)
	got := collectSplit(head + "c\n")
	want := []emitted{{head, false}, {"c", false}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("split produced %d lines", len(got))
	}
}
