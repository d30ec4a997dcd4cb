// Package seedsource reads raw seed documents from local files or http(s) URLs.
package seedsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"hotel_wishlist/internal/domain"
)

type File struct {
	path string
}

func NewFile(path string) *File { return &File{path: path} }

func (f *File) Name() string { return f.path }

func (f *File) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("seed file %s: %w", f.path, domain.ErrNotFound)
	}
	return b, err
}

// Open maps every location to a source: http(s) URLs share one rate limit,
// anything else is a file path.
func Open(locations []string, rps int) []domain.SeedSource {
	var limiter *HTTP
	out := make([]domain.SeedSource, 0, len(locations))
	for _, loc := range locations {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
			if limiter == nil {
				limiter = NewHTTP("", rps)
			}
			out = append(out, limiter.For(loc))
			continue
		}
		out = append(out, NewFile(loc))
	}
	return out
}
