package intent

import "errors"

// Internal failure sentinels. None of these ever crosses the UseCase
// boundary; they only drive retry and degradation decisions inside it.
var (
	ErrNoStructuredPayload = errors.New("model returned no structured payload")
	ErrEmptyResponse       = errors.New("model returned an empty response")
)
