package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/vectord/internal/account"
	"github.com/fyrsmithlabs/vectord/internal/vectorize"
)

// fakeAPI is a call-counting stub of the remote API. Every method records
// its arguments and returns the configured result.
type fakeAPI struct {
	calls int

	lastAccount   string
	lastIndexName string
	lastCreate    *vectorize.CreateIndexRequest
	lastListOpts  *vectorize.ListOptions
	lastBatch     *vectorize.VectorBatch
	lastQuery     *vectorize.QueryRequest
	lastIDs       []string

	createResult   *vectorize.Index
	listResult     []vectorize.Index
	getResult      *vectorize.Index
	infoResult     *vectorize.IndexInfo
	mutationResult *vectorize.MutationResult
	queryResult    *vectorize.QueryResult
	vectorsResult  []vectorize.Vector
	err            error
}

func (f *fakeAPI) CreateIndex(ctx context.Context, accountID string, req *vectorize.CreateIndexRequest) (*vectorize.Index, error) {
	f.calls++
	f.lastAccount = accountID
	f.lastCreate = req
	return f.createResult, f.err
}

func (f *fakeAPI) ListIndexes(ctx context.Context, accountID string, opts *vectorize.ListOptions) ([]vectorize.Index, error) {
	f.calls++
	f.lastAccount = accountID
	f.lastListOpts = opts
	return f.listResult, f.err
}

func (f *fakeAPI) GetIndex(ctx context.Context, accountID, indexName string) (*vectorize.Index, error) {
	f.calls++
	f.lastAccount = accountID
	f.lastIndexName = indexName
	return f.getResult, f.err
}

func (f *fakeAPI) DeleteIndex(ctx context.Context, accountID, indexName string) error {
	f.calls++
	f.lastAccount = accountID
	f.lastIndexName = indexName
	return f.err
}

func (f *fakeAPI) DescribeIndex(ctx context.Context, accountID, indexName string) (*vectorize.IndexInfo, error) {
	f.calls++
	f.lastAccount = accountID
	f.lastIndexName = indexName
	return f.infoResult, f.err
}

func (f *fakeAPI) InsertVectors(ctx context.Context, accountID, indexName string, batch *vectorize.VectorBatch) (*vectorize.MutationResult, error) {
	f.calls++
	f.lastAccount = accountID
	f.lastIndexName = indexName
	f.lastBatch = batch
	return f.mutationResult, f.err
}

func (f *fakeAPI) UpsertVectors(ctx context.Context, accountID, indexName string, batch *vectorize.VectorBatch) (*vectorize.MutationResult, error) {
	f.calls++
	f.lastAccount = accountID
	f.lastIndexName = indexName
	f.lastBatch = batch
	return f.mutationResult, f.err
}

func (f *fakeAPI) QueryVectors(ctx context.Context, accountID, indexName string, req *vectorize.QueryRequest) (*vectorize.QueryResult, error) {
	f.calls++
	f.lastAccount = accountID
	f.lastIndexName = indexName
	f.lastQuery = req
	return f.queryResult, f.err
}

func (f *fakeAPI) GetVectorsByIDs(ctx context.Context, accountID, indexName string, ids []string) ([]vectorize.Vector, error) {
	f.calls++
	f.lastAccount = accountID
	f.lastIndexName = indexName
	f.lastIDs = ids
	return f.vectorsResult, f.err
}

func (f *fakeAPI) DeleteVectorsByIDs(ctx context.Context, accountID, indexName string, ids []string) error {
	f.calls++
	f.lastAccount = accountID
	f.lastIndexName = indexName
	f.lastIDs = ids
	return f.err
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

// newTestServer builds a server over the fake API with a fixed account.
func newTestServer(t *testing.T, api *fakeAPI) *Server {
	t.Helper()
	s, err := NewServer(nil, api, account.NewEnvResolver("acct-1"))
	require.NoError(t, err)
	return s
}

// envelopeText unwraps the uniform single-text-block envelope.
func envelopeText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content must be a text block")
	return tc.Text
}

func TestMissingAccount_ShortCircuitsEveryTool(t *testing.T) {
	api := &fakeAPI{}
	s, err := NewServer(nil, api, account.NewEnvResolver(""))
	require.NoError(t, err)
	t.Setenv(account.EnvAccountID, "")

	ctx := context.Background()
	validCreate := indexCreateArgs{
		Name:   "test-idx",
		Config: indexConfigArgs{Dimensions: intPtr(32), Metric: strPtr("cosine")},
	}

	invocations := map[string]func() (*mcp.CallToolResult, error){
		"create":        func() (*mcp.CallToolResult, error) { return s.handleIndexCreate(ctx, validCreate) },
		"list":          func() (*mcp.CallToolResult, error) { return s.handleIndexList(ctx, indexListArgs{}) },
		"get":           func() (*mcp.CallToolResult, error) { return s.handleIndexGet(ctx, indexNameArgs{Name: "test-idx"}) },
		"delete":        func() (*mcp.CallToolResult, error) { return s.handleIndexDelete(ctx, indexNameArgs{Name: "test-idx"}) },
		"info":          func() (*mcp.CallToolResult, error) { return s.handleIndexInfo(ctx, indexNameArgs{Name: "test-idx"}) },
		"insert":        func() (*mcp.CallToolResult, error) { return s.handleIndexInsert(ctx, vectorMutateArgs{IndexName: "test-idx", Vectors: "{}"}) },
		"upsert":        func() (*mcp.CallToolResult, error) { return s.handleIndexUpsert(ctx, vectorMutateArgs{IndexName: "test-idx", Vectors: "{}"}) },
		"query":         func() (*mcp.CallToolResult, error) { return s.handleIndexQuery(ctx, vectorQueryArgs{IndexName: "test-idx", Vector: []float32{1}}) },
		"get_by_ids":    func() (*mcp.CallToolResult, error) { return s.handleIndexGetByIDs(ctx, vectorIDsArgs{IndexName: "test-idx", IDs: []string{"a"}}) },
		"delete_by_ids": func() (*mcp.CallToolResult, error) { return s.handleIndexDeleteByIDs(ctx, vectorIDsArgs{IndexName: "test-idx", IDs: []string{"a"}}) },
	}

	for name, invoke := range invocations {
		t.Run(name, func(t *testing.T) {
			res, opErr := invoke()
			assert.Equal(t, missingAccountText, envelopeText(t, res))
			assert.ErrorIs(t, opErr, errMissingAccount)
			assert.Zero(t, api.calls, "remote client must not be invoked")
		})
	}
}

func TestIndexCreate(t *testing.T) {
	t.Run("maps validated params onto the remote request", func(t *testing.T) {
		api := &fakeAPI{createResult: &vectorize.Index{
			Name:   "test-idx",
			Config: vectorize.IndexConfig{Dimensions: 32, Metric: "cosine"},
		}}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexCreate(context.Background(), indexCreateArgs{
			Name:        "test-idx",
			Description: strPtr("demo"),
			Config:      indexConfigArgs{Dimensions: intPtr(32), Metric: strPtr("cosine")},
		})
		require.NoError(t, opErr)

		require.Equal(t, 1, api.calls)
		assert.Equal(t, "acct-1", api.lastAccount)
		require.NotNil(t, api.lastCreate)
		assert.Equal(t, "test-idx", api.lastCreate.Name)
		assert.Equal(t, "demo", api.lastCreate.Description)
		assert.Equal(t, vectorize.IndexConfigParam{Dimensions: 32, Metric: "cosine"}, api.lastCreate.Config)

		text := envelopeText(t, res)
		assert.Contains(t, text, `"name":"test-idx"`)
	})

	t.Run("preset variant forwarded without dimensions", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		_, opErr := s.handleIndexCreate(context.Background(), indexCreateArgs{
			Name:   "preset-idx",
			Config: indexConfigArgs{Preset: strPtr("@cf/baai/bge-base-en-v1.5")},
		})
		require.NoError(t, opErr)
		assert.Equal(t, vectorize.IndexConfigParam{Preset: "@cf/baai/bge-base-en-v1.5"}, api.lastCreate.Config)
	})

	t.Run("fallback when the service returns no body", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexCreate(context.Background(), indexCreateArgs{
			Name:   "test-idx",
			Config: indexConfigArgs{Dimensions: intPtr(32), Metric: strPtr("cosine")},
		})
		require.NoError(t, opErr)
		assert.Equal(t, indexCreatedFallback, envelopeText(t, res))
	})

	t.Run("invalid name rejected before the remote call", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexCreate(context.Background(), indexCreateArgs{
			Name:   "bad name!",
			Config: indexConfigArgs{Dimensions: intPtr(32), Metric: strPtr("cosine")},
		})
		require.Error(t, opErr)
		assert.Zero(t, api.calls)
		assert.Contains(t, envelopeText(t, res), "Error creating index: name:")
	})

	t.Run("config matching neither variant names both shapes", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexCreate(context.Background(), indexCreateArgs{
			Name:   "test-idx",
			Config: indexConfigArgs{Dimensions: intPtr(32)},
		})
		require.Error(t, opErr)
		assert.Zero(t, api.calls)
		text := envelopeText(t, res)
		assert.Contains(t, text, "{dimensions, metric}")
		assert.Contains(t, text, "{preset}")
	})

	t.Run("remote fault converted to error envelope", func(t *testing.T) {
		api := &fakeAPI{err: errors.New("quota exceeded")}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexCreate(context.Background(), indexCreateArgs{
			Name:   "test-idx",
			Config: indexConfigArgs{Dimensions: intPtr(32), Metric: strPtr("cosine")},
		})
		require.Error(t, opErr)
		assert.Equal(t, "Error creating index: quota exceeded", envelopeText(t, res))
	})
}

func TestIndexList(t *testing.T) {
	t.Run("forwards exactly the provided query", func(t *testing.T) {
		api := &fakeAPI{listResult: []vectorize.Index{{Name: "a"}, {Name: "b"}}}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexList(context.Background(), indexListArgs{
			Page:      intPtr(2),
			PerPage:   intPtr(10),
			Order:     strPtr("name"),
			Direction: strPtr("desc"),
		})
		require.NoError(t, opErr)

		require.NotNil(t, api.lastListOpts)
		assert.Equal(t, 2, *api.lastListOpts.Page)
		assert.Equal(t, 10, *api.lastListOpts.PerPage)
		assert.Equal(t, "name", *api.lastListOpts.Order)
		assert.Equal(t, "desc", *api.lastListOpts.Direction)
		assert.Contains(t, envelopeText(t, res), `"name":"a"`)
	})

	t.Run("absent fields omitted not nulled", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		_, opErr := s.handleIndexList(context.Background(), indexListArgs{})
		require.NoError(t, opErr)
		assert.Nil(t, api.lastListOpts)
	})

	t.Run("empty collection serialized not substituted", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexList(context.Background(), indexListArgs{})
		require.NoError(t, opErr)
		assert.Equal(t, "[]", envelopeText(t, res))
	})

	t.Run("out of range per_page rejected", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexList(context.Background(), indexListArgs{PerPage: intPtr(500)})
		require.Error(t, opErr)
		assert.Zero(t, api.calls)
		assert.Contains(t, envelopeText(t, res), "per_page")
	})
}

func TestIndexGet(t *testing.T) {
	t.Run("not found maps to a not-found envelope", func(t *testing.T) {
		api := &fakeAPI{err: vectorize.ErrNotFound}
		s := newTestServer(t, api)

		res, _ := s.handleIndexGet(context.Background(), indexNameArgs{Name: "missing"})
		text := envelopeText(t, res)
		assert.Equal(t, `Index "missing" was not found.`, text)
		assert.NotContains(t, text, "Error")
	})

	t.Run("found index serialized", func(t *testing.T) {
		api := &fakeAPI{getResult: &vectorize.Index{Name: "test-idx"}}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexGet(context.Background(), indexNameArgs{Name: "test-idx"})
		require.NoError(t, opErr)
		assert.Equal(t, "test-idx", api.lastIndexName)
		assert.Contains(t, envelopeText(t, res), `"name":"test-idx"`)
	})
}

func TestIndexDelete(t *testing.T) {
	api := &fakeAPI{}
	s := newTestServer(t, api)

	res, opErr := s.handleIndexDelete(context.Background(), indexNameArgs{Name: "test-idx"})
	require.NoError(t, opErr)

	text := envelopeText(t, res)
	assert.Contains(t, text, `"success":true`)
	assert.Contains(t, text, "test-idx")
}

func TestIndexInfo(t *testing.T) {
	t.Run("info serialized", func(t *testing.T) {
		api := &fakeAPI{infoResult: &vectorize.IndexInfo{Dimensions: 384, VectorCount: 1200}}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexInfo(context.Background(), indexNameArgs{Name: "test-idx"})
		require.NoError(t, opErr)
		assert.Contains(t, envelopeText(t, res), `"vectorCount":1200`)
	})

	t.Run("not found distinct from fault", func(t *testing.T) {
		api := &fakeAPI{err: vectorize.ErrNotFound}
		s := newTestServer(t, api)

		res, _ := s.handleIndexInfo(context.Background(), indexNameArgs{Name: "missing"})
		assert.Equal(t, `Index "missing" was not found.`, envelopeText(t, res))
	})
}

func TestVectorMutation(t *testing.T) {
	t.Run("empty NDJSON rejected before the remote call", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexInsert(context.Background(), vectorMutateArgs{
			IndexName: "test-idx",
			Vectors:   "",
		})
		require.Error(t, opErr)
		assert.Zero(t, api.calls)
		assert.Contains(t, envelopeText(t, res), "Error inserting vectors:")
	})

	t.Run("NDJSON body and flag forwarded verbatim", func(t *testing.T) {
		body := `{"id":"a","values":[0.1]}` + "\n" + `{"id":"b","values":[0.2]}`
		api := &fakeAPI{mutationResult: &vectorize.MutationResult{MutationID: "m-42"}}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexUpsert(context.Background(), vectorMutateArgs{
			IndexName:          "test-idx",
			Vectors:            body,
			UnparsableBehavior: strPtr("discard"),
		})
		require.NoError(t, opErr)

		require.NotNil(t, api.lastBatch)
		assert.Equal(t, body, api.lastBatch.Body)
		assert.Equal(t, "discard", api.lastBatch.UnparsableBehavior)
		assert.Contains(t, envelopeText(t, res), `"mutationId":"m-42"`)
	})

	t.Run("fallback when mutation returns no body", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexInsert(context.Background(), vectorMutateArgs{
			IndexName: "test-idx",
			Vectors:   "{}",
		})
		require.NoError(t, opErr)
		assert.Equal(t, insertFallback, envelopeText(t, res))
	})
}

func TestIndexQuery(t *testing.T) {
	t.Run("optional fields left unset", func(t *testing.T) {
		api := &fakeAPI{queryResult: &vectorize.QueryResult{
			Count:   1,
			Matches: []vectorize.QueryMatch{{ID: "a", Score: 0.93}},
		}}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexQuery(context.Background(), vectorQueryArgs{
			IndexName: "test-idx",
			Vector:    []float32{0.1, 0.2},
			TopK:      intPtr(5),
		})
		require.NoError(t, opErr)

		require.NotNil(t, api.lastQuery)
		assert.Equal(t, []float32{0.1, 0.2}, api.lastQuery.Vector)
		assert.Nil(t, api.lastQuery.Filter)
		assert.Equal(t, 5, *api.lastQuery.TopK)
		assert.Empty(t, api.lastQuery.ReturnMetadata)
		assert.Nil(t, api.lastQuery.ReturnValues)
		assert.Contains(t, envelopeText(t, res), `"id":"a"`)
	})

	t.Run("empty result set substitutes the fixed message", func(t *testing.T) {
		api := &fakeAPI{queryResult: &vectorize.QueryResult{}}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexQuery(context.Background(), vectorQueryArgs{
			IndexName: "test-idx",
			Vector:    []float32{0.1},
		})
		require.NoError(t, opErr)
		assert.Equal(t, queryNoResults, envelopeText(t, res))
	})

	t.Run("remote fault prefixed with the operation", func(t *testing.T) {
		api := &fakeAPI{err: fmt.Errorf("connection refused")}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexQuery(context.Background(), vectorQueryArgs{
			IndexName: "test-idx",
			Vector:    []float32{0.1},
		})
		require.Error(t, opErr)
		assert.Equal(t, "Error querying index: connection refused", envelopeText(t, res))
	})
}

func TestVectorsByIDs(t *testing.T) {
	t.Run("get by ids returns vectors", func(t *testing.T) {
		api := &fakeAPI{vectorsResult: []vectorize.Vector{{ID: "a"}, {ID: "b"}}}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexGetByIDs(context.Background(), vectorIDsArgs{
			IndexName: "test-idx",
			IDs:       []string{"a", "b"},
		})
		require.NoError(t, opErr)
		assert.Equal(t, []string{"a", "b"}, api.lastIDs)
		assert.Contains(t, envelopeText(t, res), `"id":"a"`)
	})

	t.Run("empty result maps to not-found message", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexGetByIDs(context.Background(), vectorIDsArgs{
			IndexName: "test-idx",
			IDs:       []string{"ghost"},
		})
		require.NoError(t, opErr)
		text := envelopeText(t, res)
		assert.Contains(t, text, "No vectors found")
		assert.Contains(t, text, "test-idx")
	})

	t.Run("empty id list rejected before the remote call", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexDeleteByIDs(context.Background(), vectorIDsArgs{
			IndexName: "test-idx",
		})
		require.Error(t, opErr)
		assert.Zero(t, api.calls)
		assert.Contains(t, envelopeText(t, res), "ids")
	})

	t.Run("delete by ids synthesizes a confirmation", func(t *testing.T) {
		api := &fakeAPI{}
		s := newTestServer(t, api)

		res, opErr := s.handleIndexDeleteByIDs(context.Background(), vectorIDsArgs{
			IndexName: "test-idx",
			IDs:       []string{"a", "b", "c"},
		})
		require.NoError(t, opErr)

		text := envelopeText(t, res)
		assert.Contains(t, text, `"success":true`)
		assert.Contains(t, text, "3 vector id(s)")
		assert.Contains(t, text, "test-idx")
	})
}
