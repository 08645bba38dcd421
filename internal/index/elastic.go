package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"autoshop/internal/domain"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var elasticFields = map[string]string{
	FieldName:         "attributes.name",
	FieldManufacturer: "attributes.manufacturer_name",
	FieldColor:        "attributes.color",
	FieldCarClass:     "attributes.carClass",
	FieldCategoryIDs:  "attributes.categoryIds",
	FieldPrice:        "attributes.price",
}

// Elastic is the search-engine backed index; one index per tenant.
type Elastic struct {
	es     *elasticsearch.Client
	loader Loader
	index  string
}

func NewElastic(es *elasticsearch.Client, loader Loader, prefix, tenant string) *Elastic {
	return &Elastic{es: es, loader: loader, index: strings.ToLower(prefix + "_" + tenant)}
}

func (s *Elastic) Backend() string { return "elasticsearch" }

func (s *Elastic) IndexName() string { return s.index }

func (s *Elastic) ProductListForCurrentTenant() ProductListing {
	return &elasticListing{es: s.es, loader: s.loader, index: s.index}
}

type elasticListing struct {
	es          *elasticsearch.Client
	loader      Loader
	index       string
	variantMode VariantMode
	filters     []map[string]any
	must        []map[string]any
	sort        []map[string]any
	limit       int
	offset      int
}

func (l *elasticListing) SetVariantMode(mode VariantMode) { l.variantMode = mode }
func (l *elasticListing) SetLimit(limit int)              { l.limit = limit }
func (l *elasticListing) SetOffset(offset int)            { l.offset = offset }

func (l *elasticListing) SetOrder(field string, desc bool) {
	f, ok := elasticFields[field]
	if !ok {
		return
	}
	dir := "asc"
	if desc {
		dir = "desc"
	}
	l.sort = []map[string]any{{f: dir}, {"system.o_id": "asc"}}
}

func (l *elasticListing) RestrictToIDs(ids []int64) {
	if ids == nil {
		ids = []int64{}
	}
	l.filters = append(l.filters, map[string]any{
		"terms": map[string]any{"system.o_id": ids},
	})
}

func (l *elasticListing) AddFieldCondition(field string, values ...string) {
	f, ok := elasticFields[field]
	if !ok || len(values) == 0 {
		return
	}
	l.filters = append(l.filters, map[string]any{
		"terms": map[string]any{f: values},
	})
}

func (l *elasticListing) AddRangeCondition(field string, from, to *float64) {
	f, ok := elasticFields[field]
	if !ok || (from == nil && to == nil) {
		return
	}
	r := map[string]any{}
	if from != nil {
		r["gte"] = *from
	}
	if to != nil {
		r["lte"] = *to
	}
	l.filters = append(l.filters, map[string]any{"range": map[string]any{f: r}})
}

// AddSearchTerm adds a cross-field match over the searchable attributes, scored so that cars
// rank above accessory parts.
func (l *elasticListing) AddSearchTerm(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	l.must = append(l.must, SearchTermQuery(term))
}

// SearchTermQuery builds the function_score query used for free-text search.
func SearchTermQuery(term string) map[string]any {
	return map[string]any{
		"function_score": map[string]any{
			"query": map[string]any{
				"multi_match": map[string]any{
					"query":    term,
					"type":     "cross_fields",
					"operator": "and",
					"fields": []string{
						"attributes.name^4",
						"attributes.name.analyzed",
						"attributes.name.analyzed_ngram",
						"attributes.manufacturer_name^3",
						"attributes.manufacturer_name.analyzed",
						"attributes.manufacturer_name.analyzed_ngram",
						"attributes.color",
						"attributes.color.analyzed",
						"attributes.color.analyzed_ngram",
						"attributes.carClass",
						"attributes.carClass.analyzed",
						"attributes.carClass.analyzed_ngram",
					},
				},
			},
			"functions": []map[string]any{
				{"filter": map[string]any{"match": map[string]any{"system.o_classId": string(domain.ClassAccessoryPart)}}, "weight": 1},
				{"filter": map[string]any{"match": map[string]any{"system.o_classId": string(domain.ClassCar)}}, "weight": 2},
			},
			"boost_mode": "multiply",
		},
	}
}

func (l *elasticListing) query() map[string]any {
	filter := []map[string]any{{"term": map[string]any{"system.published": true}}}
	if l.variantMode == VariantModeVariantsOnly {
		filter = append(filter, map[string]any{"term": map[string]any{"system.o_virtual": false}})
	}
	filter = append(filter, l.filters...)
	b := map[string]any{"filter": filter}
	if len(l.must) > 0 {
		b["must"] = l.must
	}
	return map[string]any{"bool": b}
}

func encodeBody(v any) (*bytes.Reader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(raw), nil
}

func (l *elasticListing) Count(ctx context.Context) (int, error) {
	body, err := encodeBody(map[string]any{"query": l.query()})
	if err != nil {
		return 0, err
	}
	res, err := l.es.Count(
		l.es.Count.WithContext(ctx),
		l.es.Count.WithIndex(l.index),
		l.es.Count.WithBody(body),
	)
	if err != nil {
		return 0, fmt.Errorf("elasticsearch count: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("elasticsearch count: %s", res.String())
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return out.Count, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				System struct {
					ID int64 `json:"o_id"`
				} `json:"system"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (l *elasticListing) Items(ctx context.Context, offset, limit int) ([]domain.Product, error) {
	req := map[string]any{
		"query":   l.query(),
		"from":    offset,
		"_source": []string{"system.o_id"},
	}
	if limit > 0 {
		req["size"] = limit
	} else {
		req["size"] = 10000
	}
	if len(l.sort) > 0 {
		req["sort"] = l.sort
	}
	body, err := encodeBody(req)
	if err != nil {
		return nil, err
	}
	res, err := l.es.Search(
		l.es.Search.WithContext(ctx),
		l.es.Search.WithIndex(l.index),
		l.es.Search.WithBody(body),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch search: %s", res.String())
	}
	var out searchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}
	ids := make([]int64, 0, len(out.Hits.Hits))
	for _, h := range out.Hits.Hits {
		ids = append(ids, h.Source.System.ID)
	}
	return l.loader.GetMany(ctx, ids)
}

func (l *elasticListing) Load(ctx context.Context) ([]domain.Product, error) {
	return l.Items(ctx, l.offset, l.limit)
}

// indexSettings declares keyword attributes with analyzed and ngram sub-fields, matching the
// field list used by SearchTermQuery.
func indexSettings() map[string]any {
	text := map[string]any{
		"type": "keyword",
		"fields": map[string]any{
			"analyzed":       map[string]any{"type": "text", "analyzer": "standard"},
			"analyzed_ngram": map[string]any{"type": "text", "analyzer": "autoshop_ngram", "search_analyzer": "standard"},
		},
	}
	return map[string]any{
		"settings": map[string]any{
			"index.max_ngram_diff": 8,
			"analysis": map[string]any{
				"analyzer": map[string]any{
					"autoshop_ngram": map[string]any{
						"tokenizer": "autoshop_ngram_tokenizer",
						"filter":    []string{"lowercase"},
					},
				},
				"tokenizer": map[string]any{
					"autoshop_ngram_tokenizer": map[string]any{
						"type":        "ngram",
						"min_gram":    2,
						"max_gram":    10,
						"token_chars": []string{"letter", "digit"},
					},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"system": map[string]any{
					"properties": map[string]any{
						"o_id":      map[string]any{"type": "long"},
						"o_classId": map[string]any{"type": "keyword"},
						"o_virtual": map[string]any{"type": "boolean"},
						"published": map[string]any{"type": "boolean"},
					},
				},
				"attributes": map[string]any{
					"properties": map[string]any{
						"name":              text,
						"manufacturer_name": text,
						"color":             text,
						"carClass":          text,
						"categoryIds":       map[string]any{"type": "long"},
						"price":             map[string]any{"type": "double"},
					},
				},
			},
		},
	}
}

func elasticSource(d Document) map[string]any {
	colors := d.Colors
	if colors == nil {
		colors = []string{}
	}
	cats := d.CategoryIDs
	if cats == nil {
		cats = []int64{}
	}
	return map[string]any{
		"system": map[string]any{
			"o_id":      d.ID,
			"o_classId": string(d.ClassID),
			"o_virtual": d.Virtual,
			"published": d.Published,
		},
		"attributes": map[string]any{
			"name":              d.Name,
			"manufacturer_name": d.Manufacturer,
			"color":             colors,
			"carClass":          d.CarClass,
			"categoryIds":       cats,
			"price":             d.Price,
		},
	}
}

func (s *Elastic) ensureIndex(ctx context.Context) error {
	res, err := s.es.Indices.Exists([]string{s.index}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch index exists: %w", err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	body, err := encodeBody(indexSettings())
	if err != nil {
		return err
	}
	res, err = s.es.Indices.Create(s.index,
		s.es.Indices.Create.WithContext(ctx),
		s.es.Indices.Create.WithBody(body),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch create index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch create index: %s", res.String())
	}
	return nil
}

// UpdateIndex creates the tenant index if needed and bulk indexes docs.
func (s *Elastic) UpdateIndex(ctx context.Context, docs []Document) error {
	if err := s.ensureIndex(ctx); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		meta := map[string]any{"index": map[string]any{"_index": s.index, "_id": strconv.FormatInt(d.ID, 10)}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(elasticSource(d)); err != nil {
			return err
		}
	}
	res, err := s.es.Bulk(bytes.NewReader(buf.Bytes()),
		s.es.Bulk.WithContext(ctx),
		s.es.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch bulk: %w", err)
	}
	defer res.Body.Close()
	return checkBulk(res)
}

func checkBulk(res *esapi.Response) error {
	if res.IsError() {
		return fmt.Errorf("elasticsearch bulk: %s", res.String())
	}
	var out struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode bulk: %w", err)
	}
	if out.Errors {
		return fmt.Errorf("elasticsearch bulk: one or more documents failed")
	}
	return nil
}
