package factors

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Configuration errors returned while loading a coefficient table.
// All of them are fatal: a process must not serve calculations without a valid table.
var (
	// ErrTableNotFound indicates the table file does not exist or cannot be read.
	ErrTableNotFound = constError("emission factor table not found")

	// ErrInvalidTable indicates the table could not be parsed.
	ErrInvalidTable = constError("invalid emission factor table")

	// ErrMissingCategory indicates a required top-level category is absent or empty.
	ErrMissingCategory = constError("missing emission factor category")

	// ErrInvalidFactor indicates a negative, NaN, or infinite factor.
	ErrInvalidFactor = constError("invalid emission factor")

	// ErrUnsupportedSchema indicates the table's schema_version is not supported.
	ErrUnsupportedSchema = constError("unsupported emission factor schema version")
)
