package contents

import (
	"context"
	"encoding/json"
	"net/url"
)

// UpstreamClient issues commands against the external search service.
type UpstreamClient interface {
	Execute(ctx context.Context, command string, params url.Values) (json.RawMessage, error)
	ExecuteText(ctx context.Context, command string, params url.Values) (string, error)
}
