package octofit_client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/octofit/dashboard/go/internal/models"
)

// UpdateUser sends a partial update of the editable profile fields.
func (c *OctofitClient) UpdateUser(ctx context.Context, id models.ID, patch models.UserPatch) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("user id is required")
	}

	body, err := c.PatchJSON(ctx, UserEndpoint(id.String()), patch)
	if err != nil {
		return nil, err
	}

	if len(body) == 0 {
		return &models.User{ID: id}, nil
	}

	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated user: %w", err)
	}
	return &user, nil
}
