package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tserv/shift-control/pkg/models"
	"go.uber.org/zap"
)

// Me returns the user owning the token in ctx
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &user, nil
}

// ListUsers returns the public employee list, readable by every operator
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doRequest(ctx, http.MethodGet, "/users/public", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListAllUsers returns every employee with contact details, admins only
func (c *Client) ListAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doRequest(ctx, http.MethodGet, "/users/", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser registers an employee
func (c *Client) CreateUser(ctx context.Context, in models.CreateUser) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, http.MethodPost, "/users/", in, &user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// UpdateUser replaces an employee record. An empty password keeps the old one.
func (c *Client) UpdateUser(ctx context.Context, id int, in models.CreateUser) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), in, &user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return &user, nil
}

// DeleteUser removes an employee
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

// UpdateProfile changes the contact details of the user owning the token
func (c *Client) UpdateProfile(ctx context.Context, in models.UpdateProfile) (*models.User, error) {
	var user models.User
	if err := c.doRequest(ctx, http.MethodPut, "/users/me/profile", in, &user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

// ListShifts returns the full shift roster
func (c *Client) ListShifts(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := c.doRequest(ctx, http.MethodGet, "/shifts/", nil, &shifts); err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	c.logger.Debug("Shifts fetched", zap.Int("count", len(shifts)))
	return shifts, nil
}

// CreateShift creates one shift
func (c *Client) CreateShift(ctx context.Context, in models.CreateShift) (*models.Shift, error) {
	var shift models.Shift
	if err := c.doRequest(ctx, http.MethodPost, "/shifts/", in, &shift); err != nil {
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	return &shift, nil
}

// CreateShifts creates several shifts in one call
func (c *Client) CreateShifts(ctx context.Context, in []models.CreateShift) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := c.doRequest(ctx, http.MethodPost, "/shifts/bulk", in, &shifts); err != nil {
		return nil, fmt.Errorf("failed to create shifts: %w", err)
	}
	return shifts, nil
}

// UpdateShift replaces a shift
func (c *Client) UpdateShift(ctx context.Context, id int, in models.CreateShift) (*models.Shift, error) {
	var shift models.Shift
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/shifts/%d", id), in, &shift); err != nil {
		return nil, fmt.Errorf("failed to update shift %d: %w", id, err)
	}
	return &shift, nil
}

// DeleteShift removes a shift
func (c *Client) DeleteShift(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/shifts/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete shift %d: %w", id, err)
	}
	return nil
}

// ListAssets returns all tracked assets
func (c *Client) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	if err := c.doRequest(ctx, http.MethodGet, "/assets/", nil, &assets); err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return assets, nil
}

// CreateAsset starts tracking a work item
func (c *Client) CreateAsset(ctx context.Context, in models.CreateAsset) (*models.Asset, error) {
	var asset models.Asset
	if err := c.doRequest(ctx, http.MethodPost, "/assets/", in, &asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return &asset, nil
}

// DeleteAsset stops tracking a work item
func (c *Client) DeleteAsset(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/assets/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete asset %d: %w", id, err)
	}
	return nil
}

// UpdateAsset applies a partial update to an asset
func (c *Client) UpdateAsset(ctx context.Context, id int, in models.UpdateAsset) (*models.Asset, error) {
	var asset models.Asset
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/assets/%d", id), in, &asset); err != nil {
		return nil, fmt.Errorf("failed to update asset %d: %w", id, err)
	}
	return &asset, nil
}

// ListHandovers returns handovers, newest first as ordered upstream
func (c *Client) ListHandovers(ctx context.Context) ([]models.Handover, error) {
	var handovers []models.Handover
	if err := c.doRequest(ctx, http.MethodGet, "/handovers/", nil, &handovers); err != nil {
		return nil, fmt.Errorf("failed to list handovers: %w", err)
	}
	return handovers, nil
}

// CreateHandover records a new handover
func (c *Client) CreateHandover(ctx context.Context, in models.CreateHandover) (*models.Handover, error) {
	var h models.Handover
	if err := c.doRequest(ctx, http.MethodPost, "/handovers/", in, &h); err != nil {
		return nil, fmt.Errorf("failed to create handover: %w", err)
	}
	return &h, nil
}

// UpdateHandover replaces a handover
func (c *Client) UpdateHandover(ctx context.Context, id int, in models.CreateHandover) (*models.Handover, error) {
	var h models.Handover
	if err := c.doRequest(ctx, http.MethodPut, fmt.Sprintf("/handovers/%d", id), in, &h); err != nil {
		return nil, fmt.Errorf("failed to update handover %d: %w", id, err)
	}
	return &h, nil
}

// DeleteHandover removes a handover
func (c *Client) DeleteHandover(ctx context.Context, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/handovers/%d", id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete handover %d: %w", id, err)
	}
	return nil
}
