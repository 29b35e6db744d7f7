package literature

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const atomFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All
      You Need</title>
    <summary>  The dominant sequence transduction models are based on RNNs.  </summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2005.11401v4</id>
    <title>Retrieval-Augmented Generation</title>
    <summary>Knowledge-intensive NLP tasks.</summary>
    <author><name>Patrick Lewis</name></author>
  </entry>
</feed>`

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"trigger phrasing stripped", "find paper on quantum error correction", "quantum error correction"},
		{"arxiv mention stripped", "search arxiv about diffusion models", "search diffusion models"},
		{"case insensitive", "Find Paper ON topology", "topology"},
		{"plain topic untouched", "graph neural networks", "graph neural networks"},
		{"all noise falls back to raw", "find paper", "find paper"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanQuery(tt.query))
		})
	}
}

func TestSearchParsesFeed(t *testing.T) {
	var gotQuery, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		gotMax = r.URL.Query().Get("max_results")
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(atomFixture))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, MaxResults: 2})
	papers, err := c.Search(context.Background(), "find paper on attention mechanisms", 0)
	require.NoError(t, err)

	assert.Equal(t, "all:attention mechanisms", gotQuery)
	assert.Equal(t, "2", gotMax)

	require.Len(t, papers, 2)
	assert.Equal(t, "Attention Is All You Need", papers[0].Title)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, papers[0].Authors)
	assert.Equal(t, "The dominant sequence transduction models are based on RNNs.", papers[0].Summary)
	assert.Equal(t, "http://arxiv.org/abs/1706.03762v7", papers[0].Link)
	assert.Equal(t, "Retrieval-Augmented Generation", papers[1].Title)
}

func TestSearchEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	}))
	defer srv.Close()

	papers, err := New(Config{BaseURL: srv.URL}).Search(context.Background(), "nothing matches this", 3)
	require.NoError(t, err)
	assert.Empty(t, papers)
}

func TestSearchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(Config{BaseURL: srv.URL}).Search(context.Background(), "anything", 1)
	assert.Error(t, err)
}
