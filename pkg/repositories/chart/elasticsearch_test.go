package chart

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fadedpez/blackjackev/internal/logging"
	mock_chart "github.com/fadedpez/blackjackev/pkg/repositories/chart/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeCluster answers the handful of endpoints the repository uses
type fakeCluster struct {
	mu          sync.Mutex
	indexExists bool
	requests    []string
	bulkBody    string
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body, _ := io.ReadAll(req.Body)
	f.requests = append(f.requests, req.Method+" "+req.URL.Path)

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case req.Method == http.MethodHead && req.URL.Path == "/blackjackev_strategy":
		if !f.indexExists {
			w.WriteHeader(http.StatusNotFound)
		}
	case req.Method == http.MethodPut && req.URL.Path == "/blackjackev_strategy":
		f.indexExists = true
		io.WriteString(w, `{"acknowledged":true}`)
	case req.URL.Path == "/_bulk":
		f.bulkBody = string(body)
		io.WriteString(w, `{"took":1,"errors":false,"items":[]}`)
	case strings.HasSuffix(req.URL.Path, "/_delete_by_query"):
		io.WriteString(w, `{"deleted":3}`)
	case strings.HasSuffix(req.URL.Path, "/_search"):
		io.WriteString(w, `{"hits":{"hits":[{"_source":{"chart_id":"chart-1","player_hand":"16","dealer_upcard":"10","action":"Surrender","ev":-0.5}}]}}`)
	case req.URL.Path == "/":
		io.WriteString(w, `{"version":{"number":"8.17.0"},"tagline":"You Know, for Search"}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"unexpected request"}`)
	}
}

func (f *fakeCluster) saw(request string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == request {
			return true
		}
	}
	return false
}

func newTestElasticsearch(t *testing.T, base Repository) (*ElasticsearchRepository, *fakeCluster) {
	t.Helper()
	cluster := &fakeCluster{}
	server := httptest.NewServer(cluster)
	t.Cleanup(server.Close)

	repo, err := NewElasticsearchRepository(context.Background(), base, &ElasticsearchConfig{URL: server.URL}, logging.NewLogger(logging.ERROR))
	require.NoError(t, err)
	return repo, cluster
}

func TestElasticsearchCreatesIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, cluster := newTestElasticsearch(t, mock_chart.NewMockRepository(ctrl))

	assert.True(t, cluster.saw("PUT /blackjackev_strategy"))
}

func TestElasticsearchSaveChartIndexesEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := mock_chart.NewMockRepository(ctrl)
	repo, cluster := newTestElasticsearch(t, base)

	chart := testChart("chart-1", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	base.EXPECT().SaveChart(gomock.Any(), chart).Return(nil)

	require.NoError(t, repo.SaveChart(context.Background(), chart))

	lines := strings.Split(strings.TrimSpace(cluster.bulkBody), "\n")
	assert.Len(t, lines, 2*len(chart.Entries))
	assert.Contains(t, lines[0], `"_id":"chart-1-0"`)
	assert.Contains(t, lines[1], `"player_hand":"16"`)
	assert.Contains(t, lines[1], `"surrender":"late"`)
}

func TestElasticsearchSaveChartStopsOnBaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := mock_chart.NewMockRepository(ctrl)
	repo, cluster := newTestElasticsearch(t, base)

	boom := errors.New("disk full")
	base.EXPECT().SaveChart(gomock.Any(), gomock.Any()).Return(boom)

	err := repo.SaveChart(context.Background(), testChart("chart-1", time.Now()))
	assert.ErrorIs(t, err, boom)
	assert.False(t, cluster.saw("POST /_bulk"))
}

func TestElasticsearchReadsDelegate(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := mock_chart.NewMockRepository(ctrl)
	repo, _ := newTestElasticsearch(t, base)
	ctx := context.Background()

	chart := testChart("chart-1", time.Now())
	base.EXPECT().GetChart(ctx, "chart-1").Return(chart, nil)
	base.EXPECT().ListCharts(ctx, 5).Return(nil, nil)
	base.EXPECT().Close().Return(nil)

	got, err := repo.GetChart(ctx, "chart-1")
	require.NoError(t, err)
	assert.Same(t, chart, got)

	_, err = repo.ListCharts(ctx, 5)
	assert.NoError(t, err)
	assert.NoError(t, repo.Close())
}

func TestElasticsearchDeleteChart(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := mock_chart.NewMockRepository(ctrl)
	repo, cluster := newTestElasticsearch(t, base)
	ctx := context.Background()

	base.EXPECT().DeleteChart(ctx, "chart-1").Return(nil)
	require.NoError(t, repo.DeleteChart(ctx, "chart-1"))
	assert.True(t, cluster.saw("POST /blackjackev_strategy/_delete_by_query"))

	base.EXPECT().DeleteChart(ctx, "missing").Return(ErrChartNotFound)
	assert.ErrorIs(t, repo.DeleteChart(ctx, "missing"), ErrChartNotFound)
}

func TestElasticsearchEntryHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, _ := newTestElasticsearch(t, mock_chart.NewMockRepository(ctrl))

	docs, err := repo.EntryHistory(context.Background(), "16", "10", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "chart-1", docs[0].ChartID)
	assert.Equal(t, "Surrender", docs[0].Action)
	assert.Equal(t, -0.5, docs[0].EV)
}
