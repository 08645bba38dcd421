package index_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoshop/internal/domain"
	"autoshop/internal/index"
)

type capturedRequest struct {
	Method string
	Path   string
	Body   string
}

// fakeTransport answers elasticsearch requests with canned bodies keyed by path suffix.
type fakeTransport struct {
	mu        sync.Mutex
	requests  []capturedRequest
	responses map[string]string
	status    map[string]int
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, capturedRequest{Method: req.Method, Path: req.URL.Path, Body: string(body)})
	f.mu.Unlock()

	status, resp := 200, `{}`
	for suffix, r := range f.responses {
		if strings.HasSuffix(req.URL.Path, suffix) {
			resp = r
			if s, ok := f.status[suffix]; ok {
				status = s
			}
		}
	}
	h := http.Header{}
	h.Set("X-Elastic-Product", "Elasticsearch")
	h.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(resp)),
		Request:    req,
	}, nil
}

func (f *fakeTransport) last(t *testing.T, suffix string) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if strings.HasSuffix(f.requests[i].Path, suffix) {
			var out map[string]any
			require.NoError(t, json.Unmarshal([]byte(f.requests[i].Body), &out))
			return out
		}
	}
	t.Fatalf("no request to %s", suffix)
	return nil
}

type staticLoader map[int64]domain.Product

func (s staticLoader) GetMany(_ context.Context, ids []int64) ([]domain.Product, error) {
	out := []domain.Product{}
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func newElastic(t *testing.T, ft *fakeTransport) *index.Elastic {
	t.Helper()
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: ft,
	})
	require.NoError(t, err)
	loader := staticLoader{
		101: &domain.Car{BaseProduct: domain.BaseProduct{ID: 101, Name: "Jaguar E-Type"}},
		200: &domain.AccessoryPart{BaseProduct: domain.BaseProduct{ID: 200, Name: "Chrome Hubcap"}},
	}
	return index.NewElastic(es, loader, "AutoShop", "Default")
}

func TestElastic_SearchBuildsFunctionScore(t *testing.T) {
	ft := &fakeTransport{responses: map[string]string{
		"/_search": `{"hits":{"total":{"value":2},"hits":[{"_source":{"system":{"o_id":200}}},{"_source":{"system":{"o_id":101}}}]}}`,
	}}
	svc := newElastic(t, ft)
	assert.Equal(t, "autoshop_default", svc.IndexName())

	l := svc.ProductListForCurrentTenant()
	l.SetVariantMode(index.VariantModeVariantsOnly)
	l.AddSearchTerm("jaguar")
	l.SetLimit(10)
	got, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(200), got[0].ProductID())

	body := ft.last(t, "/autoshop_default/_search")
	assert.EqualValues(t, 10, body["size"])
	q := body["query"].(map[string]any)["bool"].(map[string]any)

	filters := q["filter"].([]any)
	require.Len(t, filters, 2)
	assert.Equal(t, map[string]any{"term": map[string]any{"system.o_virtual": false}}, filters[1])

	fs := q["must"].([]any)[0].(map[string]any)["function_score"].(map[string]any)
	assert.Equal(t, "multiply", fs["boost_mode"])
	mm := fs["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "jaguar", mm["query"])
	assert.Equal(t, "cross_fields", mm["type"])
	assert.Equal(t, "and", mm["operator"])
	assert.Contains(t, mm["fields"], "attributes.name^4")

	weights := map[string]float64{}
	for _, fn := range fs["functions"].([]any) {
		m := fn.(map[string]any)
		class := m["filter"].(map[string]any)["match"].(map[string]any)["system.o_classId"].(string)
		weights[class] = m["weight"].(float64)
	}
	assert.Equal(t, map[string]float64{"AP": 1, "CAR": 2}, weights)
}

func TestElastic_ConditionsAndCount(t *testing.T) {
	ft := &fakeTransport{responses: map[string]string{"/_count": `{"count":7}`}}
	svc := newElastic(t, ft)

	from := 10.0
	l := svc.ProductListForCurrentTenant()
	l.RestrictToIDs([]int64{101, 102})
	l.AddFieldCondition(index.FieldColor, "red")
	l.AddRangeCondition(index.FieldPrice, &from, nil)
	l.AddSearchTerm("   ")
	n, err := l.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	q := ft.last(t, "/_count")["query"].(map[string]any)["bool"].(map[string]any)
	assert.NotContains(t, q, "must")
	filters := q["filter"].([]any)
	require.Len(t, filters, 4)
	assert.Equal(t, map[string]any{"terms": map[string]any{"system.o_id": []any{101.0, 102.0}}}, filters[1])
	assert.Equal(t, map[string]any{"terms": map[string]any{"attributes.color": []any{"red"}}}, filters[2])
	assert.Equal(t, map[string]any{"range": map[string]any{"attributes.price": map[string]any{"gte": 10.0}}}, filters[3])
}

func TestElastic_SearchErrorPropagates(t *testing.T) {
	ft := &fakeTransport{
		responses: map[string]string{"/_search": `{"error":"boom"}`},
		status:    map[string]int{"/_search": 500},
	}
	_, err := newElastic(t, ft).ProductListForCurrentTenant().Items(context.Background(), 0, 5)
	require.Error(t, err)
}

func TestElastic_UpdateIndexCreatesAndBulks(t *testing.T) {
	ft := &fakeTransport{
		responses: map[string]string{
			"/autoshop_default": `{}`,
			"/_bulk":            `{"errors":false,"items":[]}`,
		},
		status: map[string]int{"/autoshop_default": 404},
	}
	svc := newElastic(t, ft)
	docs := []index.Document{
		index.NewDocument(&domain.Car{
			BaseProduct: domain.BaseProduct{ID: 101, Name: "Jaguar E-Type", Published: true},
			ObjectType:  domain.ObjectTypeActualCar,
			Colors:      []string{"Red"},
			CarClass:    "Sports Car",
		}, []int64{1, 2}),
	}
	err := svc.UpdateIndex(context.Background(), docs)
	// index create answered 404 by the fake as well, so creation reports an error
	require.Error(t, err)

	ft.status = map[string]int{}
	require.NoError(t, svc.UpdateIndex(context.Background(), docs))

	ft.mu.Lock()
	defer ft.mu.Unlock()
	var bulk string
	for _, r := range ft.requests {
		if strings.HasSuffix(r.Path, "/_bulk") {
			bulk = r.Body
		}
	}
	lines := strings.Split(strings.TrimSpace(bulk), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"index":{"_index":"autoshop_default","_id":"101"}}`, lines[0])
	var src map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &src))
	attrs := src["attributes"].(map[string]any)
	assert.Equal(t, []any{"red"}, attrs["color"])
	assert.Equal(t, []any{1.0, 2.0}, attrs["categoryIds"])
}
