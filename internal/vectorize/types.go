package vectorize

// IndexConfigParam is the config portion of a create-index request. Exactly
// one variant is populated by the dispatch layer: dimensions+metric or
// preset. Zero-valued fields are omitted from the wire form.
type IndexConfigParam struct {
	Dimensions int    `json:"dimensions,omitempty"`
	Metric     string `json:"metric,omitempty"`
	Preset     string `json:"preset,omitempty"`
}

// CreateIndexRequest creates a named index.
type CreateIndexRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Config      IndexConfigParam `json:"config"`
}

// IndexConfig is the resolved configuration the service reports for an
// index. Preset-created indexes report the dimensions and metric the preset
// implies alongside the preset name.
type IndexConfig struct {
	Dimensions int    `json:"dimensions,omitempty"`
	Metric     string `json:"metric,omitempty"`
	Preset     string `json:"preset,omitempty"`
}

// Index is the service's description of an index.
type Index struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Config      IndexConfig `json:"config"`
	CreatedOn   string      `json:"created_on,omitempty"`
	ModifiedOn  string      `json:"modified_on,omitempty"`
}

// IndexInfo is the live state of an index: vector count and the mutation
// high-water mark the index has processed up to.
type IndexInfo struct {
	Dimensions            int    `json:"dimensions"`
	VectorCount           int64  `json:"vectorCount"`
	ProcessedUpToDatetime string `json:"processedUpToDatetime,omitempty"`
	ProcessedUpToMutation string `json:"processedUpToMutation,omitempty"`
}

// ListOptions are pagination/sort parameters for index listing. nil fields
// are omitted from the request query string.
type ListOptions struct {
	Page      *int
	PerPage   *int
	Order     *string
	Direction *string
}

// VectorBatch is an NDJSON batch-mutation payload. The body is forwarded to
// the service byte-for-byte; malformed-line handling is controlled by
// UnparsableBehavior ("" leaves the service default in effect).
type VectorBatch struct {
	Body               string
	UnparsableBehavior string
}

// MutationResult correlates an accepted asynchronous batch write.
type MutationResult struct {
	MutationID string `json:"mutationId,omitempty"`
}

// QueryRequest is a nearest-neighbor query. Optional fields are omitted when
// unset so the service defaults apply.
type QueryRequest struct {
	Vector         []float32      `json:"vector"`
	Filter         map[string]any `json:"filter,omitempty"`
	TopK           *int           `json:"topK,omitempty"`
	ReturnMetadata string         `json:"returnMetadata,omitempty"`
	ReturnValues   *bool          `json:"returnValues,omitempty"`
}

// QueryMatch is one scored result of a query.
type QueryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Values   []float32      `json:"values,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QueryResult is the full result set of a query.
type QueryResult struct {
	Count   int          `json:"count"`
	Matches []QueryMatch `json:"matches"`
}

// Vector is a stored vector record as returned by get-by-ids.
type Vector struct {
	ID        string         `json:"id"`
	Values    []float32      `json:"values,omitempty"`
	Namespace string         `json:"namespace,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
