package schema

// UnparsableBehavior tells the remote service how to treat NDJSON lines it
// cannot parse during a batch mutation. The batch body itself is forwarded
// verbatim; this layer never parses record content.
type UnparsableBehavior string

const (
	UnparsableError   UnparsableBehavior = "error"
	UnparsableDiscard UnparsableBehavior = "discard"
)

// VectorBatch is a validated batch-mutation payload: a non-empty NDJSON body
// and the normalized unparsable-line flag ("" means omit, remote default).
type VectorBatch struct {
	Body       string
	Unparsable UnparsableBehavior
}

// ParseVectorBatch validates an NDJSON batch body and its optional
// unparsable-behavior flag.
func ParseVectorBatch(body string, unparsable *string) (VectorBatch, error) {
	if body == "" {
		return VectorBatch{}, errf("vectors", "NDJSON body must not be empty")
	}
	batch := VectorBatch{Body: body}
	if unparsable != nil {
		switch b := UnparsableBehavior(*unparsable); b {
		case UnparsableError, UnparsableDiscard:
			batch.Unparsable = b
		default:
			return VectorBatch{}, errf("unparsable_behavior", "must be one of error, discard, got %q", *unparsable)
		}
	}
	return batch, nil
}

// ParseVectorIDs validates a list of vector identifiers: the list and every
// entry must be non-empty. Order is preserved.
func ParseVectorIDs(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, errf("ids", "at least one vector id is required")
	}
	for i, id := range ids {
		if id == "" {
			return nil, errf("ids", "id at position %d must not be empty", i)
		}
	}
	return ids, nil
}

// ReturnMetadata controls how much metadata a query returns per match.
type ReturnMetadata string

const (
	ReturnMetadataNone    ReturnMetadata = "none"
	ReturnMetadataIndexed ReturnMetadata = "indexed"
	ReturnMetadataAll     ReturnMetadata = "all"
)

// QueryInput is the raw query parameter set before normalization.
type QueryInput struct {
	Vector         []float32
	Filter         map[string]any
	TopK           *int
	ReturnMetadata *string
	ReturnValues   *bool
}

// QuerySpec is a normalized nearest-neighbor query. Optional fields left at
// their zero value (nil pointer, empty string, nil map) are omitted from the
// outgoing request so the remote defaults apply.
type QuerySpec struct {
	Vector         []float32
	Filter         map[string]any
	TopK           *int
	ReturnMetadata ReturnMetadata
	ReturnValues   *bool
}

// ParseQuery validates a query: the vector is required and non-empty, every
// option is independently optional.
func ParseQuery(in QueryInput) (QuerySpec, error) {
	if len(in.Vector) == 0 {
		return QuerySpec{}, errf("vector", "query vector must not be empty")
	}
	spec := QuerySpec{
		Vector:       in.Vector,
		Filter:       in.Filter,
		TopK:         in.TopK,
		ReturnValues: in.ReturnValues,
	}
	if in.TopK != nil && *in.TopK < 1 {
		return QuerySpec{}, errf("top_k", "must be a positive integer, got %d", *in.TopK)
	}
	if in.ReturnMetadata != nil {
		switch rm := ReturnMetadata(*in.ReturnMetadata); rm {
		case ReturnMetadataNone, ReturnMetadataIndexed, ReturnMetadataAll:
			spec.ReturnMetadata = rm
		default:
			return QuerySpec{}, errf("return_metadata", "must be one of none, indexed, all, got %q", *in.ReturnMetadata)
		}
	}
	return spec, nil
}
