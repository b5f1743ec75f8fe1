package container_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"catalog/scraper/internal/config"
	"catalog/scraper/internal/container"
	"catalog/scraper/internal/repository"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firstPage = `<html><body><table>
<tr data-entity-id="101">
  <td class="custom__table-heading__title"><a href="/products/product-catalog/view/one/"> Ünïcode One </a></td>
  <td class="custom__table-heading__general"><span class="catalogue__circle -yes"></span></td>
  <td class="custom__table-heading__general"><span class="catalogue__circle"></span></td>
  <td class="custom__table-heading__general"><span class="product-catalogue__key">A</span><span class="product-catalogue__key">B</span><span class="product-catalogue__key">A</span></td>
</tr>
<tr data-entity-id="102">
  <td class="custom__table-heading__title"><a href="/products/product-catalog/view/two/">Two</a></td>
  <td class="custom__table-heading__general"></td>
  <td class="custom__table-heading__general"><span class="catalogue__circle -yes"></span></td>
  <td class="custom__table-heading__general"></td>
</tr>
</table></body></html>`

func testConfig(baseURL, outDir string) *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			BaseURL:     baseURL,
			Path:        "/products/product-catalog/",
			Type:        "1",
			PageSize:    12,
			UserAgent:   "Mozilla/5.0",
			Timeout:     2 * time.Second,
			MaxAttempts: 3,
			RetryDelay:  time.Millisecond,
		},
		Output: config.OutputConfig{
			Dir:      outDir,
			JSONFile: "records.json",
			CSVFile:  "records.csv",
		},
		Log: config.LogConfig{Level: "info"},
	}
}

func TestContainer_RunWritesBothForms(t *testing.T) {
	var (
		mu     sync.Mutex
		starts []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		starts = append(starts, r.URL.Query().Get("start"))
		mu.Unlock()
		assert.Equal(t, "/products/product-catalog/", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("type"))
		_, _ = w.Write([]byte(firstPage))
	}))
	defer server.Close()

	outDir := t.TempDir()
	app, err := container.New(context.Background(), testConfig(server.URL, outDir))
	require.NoError(t, err)
	defer app.Close()

	var report bytes.Buffer
	app.Report = &report

	result, err := app.Run(context.Background())
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []string{"0"}, starts)
	mu.Unlock()
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Ünïcode One", result.Records[0].Name)
	assert.True(t, result.Records[0].RemoteTesting)
	assert.False(t, result.Records[0].AdaptiveIRT)
	assert.Equal(t, []string{"A", "B", "A"}, result.Records[0].TestTypes)
	assert.NotEmpty(t, report.String())

	fromJSON, err := repository.ReadJSON(filepath.Join(outDir, "records.json"))
	require.NoError(t, err)
	if diff := cmp.Diff(result.Records, fromJSON); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}

	fromCSV, err := repository.ReadCSV(filepath.Join(outDir, "records.csv"))
	require.NoError(t, err)
	require.Len(t, fromCSV, 2)
	assert.Equal(t, "A,B,A", fromCSV[0].TestTypes)
	for i, r := range result.Records {
		assert.Equal(t, repository.NewTableRow(r), fromCSV[i])
	}
}

func TestContainer_MalformedRowWritesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<table><tr data-entity-id="1"><td>no title</td></tr></table>`))
	}))
	defer server.Close()

	outDir := t.TempDir()
	app, err := container.New(context.Background(), testConfig(server.URL, outDir))
	require.NoError(t, err)
	defer app.Close()
	app.Report = nil

	_, err = app.Run(context.Background())
	require.Error(t, err)

	matches, err := filepath.Glob(filepath.Join(outDir, "*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	_, err := container.New(context.Background(), testConfig("not-a-url", t.TempDir()))
	assert.Error(t, err)
}
