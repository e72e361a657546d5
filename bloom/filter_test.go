package bloom_test

import (
	"fmt"
	"testing"

	"github.com/Mario263/Technical-Web-scraper/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	t.Parallel()

	t.Run("remembers added listing pages", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewPageFilter()
		f.Add("https://blog.example.com/blog")

		assert.True(t, f.Test("https://blog.example.com/blog"))
		assert.False(t, f.Test("https://blog.example.com/blog?page=2"))
	})

	t.Run("reports only the first visit of a page", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewPageFilter()

		assert.True(t, f.Visit("https://blog.example.com/blog?page=2"))
		assert.False(t, f.Visit("https://blog.example.com/blog?page=2"))
		assert.True(t, f.Visit("https://blog.example.com/blog?page=3"))
	})

	t.Run("treats equivalent spellings as one page", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewPageFilter()
		f.Add("https://Blog.Example.com/archive/")

		assert.True(t, f.Test("https://blog.example.com/archive"))
		assert.True(t, f.Test("https://blog.example.com/archive#latest"))
		assert.False(t, f.Visit("HTTPS://BLOG.EXAMPLE.COM/archive"))
	})

	t.Run("stays under twice the configured false positive rate", func(t *testing.T) {
		t.Parallel()

		const pages = 5000
		f := bloom.NewFilter(pages, 0.01)
		for i := range pages {
			f.Add(fmt.Sprintf("https://blog.example.com/blog?page=%d", i))
		}

		hits := 0
		for i := range pages {
			if f.Test(fmt.Sprintf("https://news.example.org/archive?offset=%d", i)) {
				hits++
			}
		}
		assert.Less(t, float64(hits)/pages, 0.02)
	})
}

func TestKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"https://EXAMPLE.com/archive/?sort=new#latest", "https://example.com/archive?sort=new"},
		{"https://example.com/", "https://example.com/"},
		{"HTTP://Example.com/Blog", "http://example.com/Blog"},
		{"  https://example.com/blog?page=2  ", "https://example.com/blog?page=2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, bloom.Key(tt.in), tt.in)
	}
}
