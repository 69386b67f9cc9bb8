package octofit_client

import (
	"encoding/json"
	"fmt"

	"github.com/octofit/dashboard/go/clients"
)

type OctofitClient struct {
	*clients.BaseClient
}

func NewOctofitClient(baseURL string) *OctofitClient {
	return &OctofitClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}

// decodeCollection accepts both a bare JSON array and the paginated
// {"results": [...]} envelope. Elements that are not objects decode as
// records with every field absent.
func decodeCollection[T any](body []byte) ([]T, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		var page struct {
			Results *[]json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(raw, &page); err != nil || page.Results == nil {
			return nil, fmt.Errorf("failed to unmarshal response: expected a list or an object with results")
		}
		elements = *page.Results
	}

	items := make([]T, 0, len(elements))
	for _, element := range elements {
		var item T
		_ = json.Unmarshal(element, &item)
		items = append(items, item)
	}
	return items, nil
}
