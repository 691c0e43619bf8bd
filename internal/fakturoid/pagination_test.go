package fakturoid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageHandler serves synthetic list pages with the given item counts.
// Requests past the last configured page return an empty array.
func pageHandler(t *testing.T, counts []int, pages *[]string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		*pages = append(*pages, page)

		var n int
		_, err := fmt.Sscanf(page, "%d", &n)
		require.NoError(t, err)

		count := 0
		if n >= 1 && n <= len(counts) {
			count = counts[n-1]
		}

		items := make([]string, count)
		for i := range items {
			items[i] = fmt.Sprintf(`{"id":%d}`, (n-1)*pageSize+i+1)
		}
		w.Write([]byte("[" + strings.Join(items, ",") + "]"))
	}
}

func TestAllPages_ShortPageTerminates(t *testing.T) {
	var pages []string
	c := testClient(t, pageHandler(t, []int{40, 40, 17}, &pages))

	items, err := c.AllPages(context.Background(), "/invoices.json", nil, 0)
	require.NoError(t, err)
	assert.Len(t, items, 97)
	assert.Equal(t, []string{"1", "2", "3"}, pages, "stops without probing a fourth page")

	var first struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(items[0], &first))
	assert.Equal(t, int64(1), first.ID)
	require.NoError(t, json.Unmarshal(items[96], &first))
	assert.Equal(t, int64(97), first.ID)
}

func TestAllPages_ExactMultipleProbesEmptyPage(t *testing.T) {
	var pages []string
	c := testClient(t, pageHandler(t, []int{40}, &pages))

	items, err := c.AllPages(context.Background(), "/invoices.json", nil, 0)
	require.NoError(t, err)
	assert.Len(t, items, 40)
	assert.Equal(t, []string{"1", "2"}, pages, "a full page forces one more probe")
}

func TestAllPages_MaxPagesLimit(t *testing.T) {
	var pages []string
	c := testClient(t, pageHandler(t, []int{40, 40, 40, 40}, &pages))

	items, err := c.AllPages(context.Background(), "/invoices.json", nil, 2)
	require.NoError(t, err)
	assert.Len(t, items, 80)
	assert.Equal(t, []string{"1", "2"}, pages)
}

func TestAllPages_EmptyFirstPage(t *testing.T) {
	var pages []string
	c := testClient(t, pageHandler(t, nil, &pages))

	items, err := c.AllPages(context.Background(), "/invoices.json", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, []string{"1"}, pages)
}

func TestPager_ErrorTerminates(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"server_error"}`))
	})

	pager := c.paginate("/invoices.json", nil)

	_, err := pager.Next(context.Background())
	require.Error(t, err)

	// A terminated pager is inert.
	items, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Equal(t, 1, calls)
}

func TestPager_RejectsNonArrayBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"invoices":[]}`))
	})

	pager := c.paginate("/invoices.json", nil)
	_, err := pager.Next(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected JSON array")
}

func TestPaginate_CopiesQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`))
	})

	query := map[string][]string{"status": {"open"}}
	pager := c.paginate("/invoices.json", query)

	_, err := pager.Next(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, query, "page", "caller's query values stay untouched")
}
