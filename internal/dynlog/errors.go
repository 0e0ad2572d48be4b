package dynlog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// 前置条件错误：调用方应提前保证条件成立，失败时操作不产生任何效果。
var (
	ErrNoChunk         = errors.New("no chunk to push line to")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrChunkNotFound   = errors.New("chunk not found")
)

// ErrStream 包装输出流的写入/刷新失败。一旦发生，屏幕状态未知，Log 不再输出。
var ErrStream = errors.New("output stream failed")

const maxSuggestions = 3

// ChunkNotFoundError reports a ChunkByID miss together with the closest
// existing ids.
type ChunkNotFoundError struct {
	ID          string
	Suggestions []string
}

func (e *ChunkNotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %q", ErrChunkNotFound, e.ID)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(quoteAll(e.Suggestions), ", ") + "?)"
	}
	return msg
}

func (e *ChunkNotFoundError) Is(target error) bool {
	return target == ErrChunkNotFound
}

func suggestIDs(id string, ids []string) []string {
	if id == "" || len(ids) == 0 {
		return nil
	}
	matches := fuzzy.Find(id, ids)
	out := make([]string, 0, maxSuggestions)
	seen := map[string]bool{}
	for _, m := range matches {
		if seen[m.Str] {
			continue
		}
		seen[m.Str] = true
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
