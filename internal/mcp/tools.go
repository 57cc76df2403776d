package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/vectord/internal/schema"
	"github.com/fyrsmithlabs/vectord/internal/vectorize"
)

// Fallback sentences substituted when the service acknowledges an operation
// without a result body, and the fixed no-results message for queries.
const (
	indexCreatedFallback = "Index created successfully."
	insertFallback       = "Vectors accepted for insertion."
	upsertFallback       = "Vectors accepted for upsert."
	queryNoResults       = "Query returned no matching vectors."
)

// Tool catalog. The same metadata feeds the explicit registry and the CLI
// tool listing.
var (
	toolIndexCreate = &ToolMetadata{
		Name:        "vector_index_create",
		Description: "Create a new vector index, configured with explicit dimensions and metric or with an embedding model preset",
		Category:    CategoryIndex,
		Keywords:    []string{"create", "dimensions", "metric", "preset"},
	}
	toolIndexList = &ToolMetadata{
		Name:        "vector_index_list",
		Description: "List the vector indexes in the active account, with optional pagination and sorting",
		Category:    CategoryIndex,
		Keywords:    []string{"list", "pagination"},
	}
	toolIndexGet = &ToolMetadata{
		Name:        "vector_index_get",
		Description: "Get the description of a vector index by name",
		Category:    CategoryIndex,
		Keywords:    []string{"get", "describe"},
	}
	toolIndexDelete = &ToolMetadata{
		Name:        "vector_index_delete",
		Description: "Delete a vector index and all vectors stored in it",
		Category:    CategoryIndex,
		Keywords:    []string{"delete", "remove"},
	}
	toolIndexInfo = &ToolMetadata{
		Name:        "vector_index_info",
		Description: "Get live state of a vector index: vector count and processed mutation high-water mark",
		Category:    CategoryIndex,
		Keywords:    []string{"info", "status", "count"},
	}
	toolIndexInsert = &ToolMetadata{
		Name:        "vector_index_insert",
		Description: "Insert vectors into an index from an NDJSON batch; fails on duplicate ids",
		Category:    CategoryVector,
		Keywords:    []string{"insert", "ndjson", "batch"},
	}
	toolIndexUpsert = &ToolMetadata{
		Name:        "vector_index_upsert",
		Description: "Insert or overwrite vectors in an index from an NDJSON batch",
		Category:    CategoryVector,
		Keywords:    []string{"upsert", "ndjson", "batch"},
	}
	toolIndexQuery = &ToolMetadata{
		Name:        "vector_index_query",
		Description: "Find the nearest neighbors of a query vector, with optional metadata filter",
		Category:    CategoryVector,
		Keywords:    []string{"query", "search", "nearest", "similarity"},
	}
	toolIndexGetByIDs = &ToolMetadata{
		Name:        "vector_index_get_by_ids",
		Description: "Fetch vectors from an index by their identifiers",
		Category:    CategoryVector,
		Keywords:    []string{"get", "ids", "fetch"},
	}
	toolIndexDeleteByIDs = &ToolMetadata{
		Name:        "vector_index_delete_by_ids",
		Description: "Delete vectors from an index by their identifiers",
		Category:    CategoryVector,
		Keywords:    []string{"delete", "ids"},
	}
)

// Catalog returns the metadata of every tool the server registers.
func Catalog() []*ToolMetadata {
	return []*ToolMetadata{
		toolIndexCreate,
		toolIndexList,
		toolIndexGet,
		toolIndexDelete,
		toolIndexInfo,
		toolIndexInsert,
		toolIndexUpsert,
		toolIndexQuery,
		toolIndexGetByIDs,
		toolIndexDeleteByIDs,
	}
}

// registerTool wires one handler into the SDK server and the registry. The
// wrapper owns metrics and never forwards a Go error to the runtime: every
// failure is already inside the returned envelope, and the handler's error
// is observational only.
func registerTool[In any](s *Server, meta *ToolMetadata, handler func(context.Context, In) (*mcp.CallToolResult, error)) {
	s.registry.Register(meta)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        meta.Name,
		Description: meta.Description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args In) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, meta.Name)
		result, opErr := handler(ctx, args)
		s.metrics.DecrementActive(ctx, meta.Name)
		s.metrics.RecordInvocation(ctx, meta.Name, time.Since(start), opErr)
		if opErr != nil {
			s.logger.Debug("tool completed with fault",
				zap.String("tool", meta.Name),
				zap.Error(opErr))
		}
		return result, nil, nil
	})
}

// registerTools registers all vector-index tools with the server.
func (s *Server) registerTools() {
	registerTool(s, toolIndexCreate, s.handleIndexCreate)
	registerTool(s, toolIndexList, s.handleIndexList)
	registerTool(s, toolIndexGet, s.handleIndexGet)
	registerTool(s, toolIndexDelete, s.handleIndexDelete)
	registerTool(s, toolIndexInfo, s.handleIndexInfo)
	registerTool(s, toolIndexInsert, s.handleIndexInsert)
	registerTool(s, toolIndexUpsert, s.handleIndexUpsert)
	registerTool(s, toolIndexQuery, s.handleIndexQuery)
	registerTool(s, toolIndexGetByIDs, s.handleIndexGetByIDs)
	registerTool(s, toolIndexDeleteByIDs, s.handleIndexDeleteByIDs)
}

// ===== INDEX LIFECYCLE TOOLS =====

type indexConfigArgs struct {
	Dimensions *int    `json:"dimensions,omitempty" jsonschema:"Vector dimensionality (32-1536), paired with metric"`
	Metric     *string `json:"metric,omitempty" jsonschema:"Distance metric: cosine, euclidean or dot-product"`
	Preset     *string `json:"preset,omitempty" jsonschema:"Embedding model preset implying dimensions and metric"`
}

type indexCreateArgs struct {
	Name        string          `json:"name" jsonschema:"required,Index name: 1-64 letters, digits, underscore or hyphen"`
	Description *string         `json:"description,omitempty" jsonschema:"Optional description, at most 1024 characters"`
	Config      indexConfigArgs `json:"config" jsonschema:"required,Index configuration: either dimensions+metric or preset"`
}

func (s *Server) handleIndexCreate(ctx context.Context, args indexCreateArgs) (*mcp.CallToolResult, error) {
	const action = "creating index"

	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	if err := schema.ValidateIndexName(args.Name); err != nil {
		return errorResult(action, err), err
	}
	description, err := schema.NormalizeDescription(args.Description)
	if err != nil {
		return errorResult(action, err), err
	}
	cfg, err := schema.ParseIndexConfig(schema.ConfigInput{
		Dimensions: args.Config.Dimensions,
		Metric:     args.Config.Metric,
		Preset:     args.Config.Preset,
	})
	if err != nil {
		return errorResult(action, err), err
	}

	req := &vectorize.CreateIndexRequest{
		Name:        args.Name,
		Description: description,
	}
	if cfg.Dimension != nil {
		req.Config = vectorize.IndexConfigParam{
			Dimensions: cfg.Dimension.Dimensions,
			Metric:     string(cfg.Dimension.Metric),
		}
	} else {
		req.Config = vectorize.IndexConfigParam{
			Preset: string(cfg.Preset.Preset),
		}
	}

	idx, err := s.api.CreateIndex(ctx, accountID, req)
	if err != nil {
		return errorResult(action, err), err
	}
	if idx == nil {
		return textResult(indexCreatedFallback), nil
	}
	return jsonResult(idx, indexCreatedFallback), nil
}

type indexListArgs struct {
	Page      *int    `json:"page,omitempty" jsonschema:"Page number, starting at 1"`
	PerPage   *int    `json:"per_page,omitempty" jsonschema:"Results per page, 1-100"`
	Order     *string `json:"order,omitempty" jsonschema:"Field to order results by"`
	Direction *string `json:"direction,omitempty" jsonschema:"Sort direction: asc or desc"`
}

func (s *Server) handleIndexList(ctx context.Context, args indexListArgs) (*mcp.CallToolResult, error) {
	const action = "listing indexes"

	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	query, err := schema.ParseListQuery(schema.ListInput{
		Page:      args.Page,
		PerPage:   args.PerPage,
		Order:     args.Order,
		Direction: args.Direction,
	})
	if err != nil {
		return errorResult(action, err), err
	}

	var opts *vectorize.ListOptions
	if !query.IsZero() {
		opts = &vectorize.ListOptions{
			Page:    query.Page,
			PerPage: query.PerPage,
			Order:   query.Order,
		}
		if query.Direction != nil {
			direction := string(*query.Direction)
			opts.Direction = &direction
		}
	}

	indexes, err := s.api.ListIndexes(ctx, accountID, opts)
	if err != nil {
		return errorResult(action, err), err
	}
	// Empty accounts serialize as an empty collection, never a fallback.
	if indexes == nil {
		indexes = []vectorize.Index{}
	}
	return jsonResult(indexes, "[]"), nil
}

type indexNameArgs struct {
	Name string `json:"name" jsonschema:"required,Index name"`
}

func (s *Server) handleIndexGet(ctx context.Context, args indexNameArgs) (*mcp.CallToolResult, error) {
	const action = "getting index"

	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	if err := schema.ValidateIndexName(args.Name); err != nil {
		return errorResult(action, err), err
	}

	idx, err := s.api.GetIndex(ctx, accountID, args.Name)
	if errors.Is(err, vectorize.ErrNotFound) {
		return textResult(fmt.Sprintf("Index %q was not found.", args.Name)), err
	}
	if err != nil {
		return errorResult(action, err), err
	}
	return jsonResult(idx, fmt.Sprintf("Index %q was not found.", args.Name)), nil
}

func (s *Server) handleIndexDelete(ctx context.Context, args indexNameArgs) (*mcp.CallToolResult, error) {
	const action = "deleting index"

	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	if err := schema.ValidateIndexName(args.Name); err != nil {
		return errorResult(action, err), err
	}

	if err := s.api.DeleteIndex(ctx, accountID, args.Name); err != nil {
		return errorResult(action, err), err
	}
	// The remote delete returns no body; synthesize the confirmation.
	return jsonResult(confirmation{
		Success: true,
		Message: fmt.Sprintf("Index %q deleted.", args.Name),
	}, ""), nil
}

func (s *Server) handleIndexInfo(ctx context.Context, args indexNameArgs) (*mcp.CallToolResult, error) {
	const action = "getting index info"

	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	if err := schema.ValidateIndexName(args.Name); err != nil {
		return errorResult(action, err), err
	}

	info, err := s.api.DescribeIndex(ctx, accountID, args.Name)
	if errors.Is(err, vectorize.ErrNotFound) {
		return textResult(fmt.Sprintf("Index %q was not found.", args.Name)), err
	}
	if err != nil {
		return errorResult(action, err), err
	}
	return jsonResult(info, fmt.Sprintf("Index %q was not found.", args.Name)), nil
}

// confirmation is the synthesized success payload for delete operations.
type confirmation struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ===== VECTOR TOOLS =====

type vectorMutateArgs struct {
	IndexName          string  `json:"index_name" jsonschema:"required,Index name"`
	Vectors            string  `json:"vectors" jsonschema:"required,NDJSON body: one vector record per line"`
	UnparsableBehavior *string `json:"unparsable_behavior,omitempty" jsonschema:"How the service treats malformed lines: error or discard"`
}

func (s *Server) handleIndexInsert(ctx context.Context, args vectorMutateArgs) (*mcp.CallToolResult, error) {
	return s.mutateVectors(ctx, args, "inserting vectors", insertFallback, s.api.InsertVectors)
}

func (s *Server) handleIndexUpsert(ctx context.Context, args vectorMutateArgs) (*mcp.CallToolResult, error) {
	return s.mutateVectors(ctx, args, "upserting vectors", upsertFallback, s.api.UpsertVectors)
}

// mutateVectors is the shared insert/upsert path. The NDJSON body is
// forwarded verbatim: record content is never parsed or re-validated here,
// malformed-line handling belongs to the remote service.
func (s *Server) mutateVectors(
	ctx context.Context,
	args vectorMutateArgs,
	action, fallback string,
	call func(ctx context.Context, accountID, indexName string, batch *vectorize.VectorBatch) (*vectorize.MutationResult, error),
) (*mcp.CallToolResult, error) {
	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	if err := schema.ValidateIndexName(args.IndexName); err != nil {
		return errorResult(action, err), err
	}
	batch, err := schema.ParseVectorBatch(args.Vectors, args.UnparsableBehavior)
	if err != nil {
		return errorResult(action, err), err
	}

	result, err := call(ctx, accountID, args.IndexName, &vectorize.VectorBatch{
		Body:               batch.Body,
		UnparsableBehavior: string(batch.Unparsable),
	})
	if err != nil {
		return errorResult(action, err), err
	}
	if result == nil {
		return textResult(fallback), nil
	}
	return jsonResult(result, fallback), nil
}

type vectorQueryArgs struct {
	IndexName      string         `json:"index_name" jsonschema:"required,Index name"`
	Vector         []float32      `json:"vector" jsonschema:"required,Dense query vector"`
	Filter         map[string]any `json:"filter,omitempty" jsonschema:"Metadata filter object"`
	TopK           *int           `json:"top_k,omitempty" jsonschema:"Number of nearest neighbors to return"`
	ReturnMetadata *string        `json:"return_metadata,omitempty" jsonschema:"Metadata detail per match: none, indexed or all"`
	ReturnValues   *bool          `json:"return_values,omitempty" jsonschema:"Include vector values in matches"`
}

func (s *Server) handleIndexQuery(ctx context.Context, args vectorQueryArgs) (*mcp.CallToolResult, error) {
	const action = "querying index"

	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	if err := schema.ValidateIndexName(args.IndexName); err != nil {
		return errorResult(action, err), err
	}
	spec, err := schema.ParseQuery(schema.QueryInput{
		Vector:         args.Vector,
		Filter:         args.Filter,
		TopK:           args.TopK,
		ReturnMetadata: args.ReturnMetadata,
		ReturnValues:   args.ReturnValues,
	})
	if err != nil {
		return errorResult(action, err), err
	}

	result, err := s.api.QueryVectors(ctx, accountID, args.IndexName, &vectorize.QueryRequest{
		Vector:         spec.Vector,
		Filter:         spec.Filter,
		TopK:           spec.TopK,
		ReturnMetadata: string(spec.ReturnMetadata),
		ReturnValues:   spec.ReturnValues,
	})
	if err != nil {
		return errorResult(action, err), err
	}
	if result == nil || len(result.Matches) == 0 {
		return textResult(queryNoResults), nil
	}
	return jsonResult(result, queryNoResults), nil
}

type vectorIDsArgs struct {
	IndexName string   `json:"index_name" jsonschema:"required,Index name"`
	IDs       []string `json:"ids" jsonschema:"required,Vector identifiers, at least one"`
}

func (s *Server) handleIndexGetByIDs(ctx context.Context, args vectorIDsArgs) (*mcp.CallToolResult, error) {
	const action = "getting vectors by ids"

	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	if err := schema.ValidateIndexName(args.IndexName); err != nil {
		return errorResult(action, err), err
	}
	ids, err := schema.ParseVectorIDs(args.IDs)
	if err != nil {
		return errorResult(action, err), err
	}

	vectors, err := s.api.GetVectorsByIDs(ctx, accountID, args.IndexName, ids)
	if errors.Is(err, vectorize.ErrNotFound) {
		return textResult(fmt.Sprintf("No vectors found for the provided ids in index %q.", args.IndexName)), err
	}
	if err != nil {
		return errorResult(action, err), err
	}
	if len(vectors) == 0 {
		return textResult(fmt.Sprintf("No vectors found for the provided ids in index %q.", args.IndexName)), nil
	}
	return jsonResult(vectors, ""), nil
}

func (s *Server) handleIndexDeleteByIDs(ctx context.Context, args vectorIDsArgs) (*mcp.CallToolResult, error) {
	const action = "deleting vectors by ids"

	accountID, envelope, err := s.activeAccount(ctx, action)
	if envelope != nil {
		return envelope, err
	}

	if err := schema.ValidateIndexName(args.IndexName); err != nil {
		return errorResult(action, err), err
	}
	ids, err := schema.ParseVectorIDs(args.IDs)
	if err != nil {
		return errorResult(action, err), err
	}

	if err := s.api.DeleteVectorsByIDs(ctx, accountID, args.IndexName, ids); err != nil {
		return errorResult(action, err), err
	}
	return jsonResult(confirmation{
		Success: true,
		Message: fmt.Sprintf("Deleted %d vector id(s) from index %q.", len(ids), args.IndexName),
	}, ""), nil
}
