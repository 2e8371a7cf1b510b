package cloud

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nerrad567/topband-bridge/internal/device"
	"github.com/nerrad567/topband-bridge/internal/point"
)

// Family is one home on the account.
type Family struct {
	ID   string
	Name string
}

// DeviceSnapshot is one cloud device with its full point map, ready for
// device.New.
type DeviceSnapshot struct {
	Info   device.Info
	Points map[string]device.SnapshotPoint
}

// familyRow is the wire shape of one family list entry.
type familyRow struct {
	ID   json.Number `json:"id"`
	Name string      `json:"familyName"`
}

// deviceRow is the wire shape of one device list entry.
type deviceRow struct {
	ID         json.Number `json:"id"`
	DeviceName string      `json:"deviceName"`
	DeviceType int         `json:"deviceType"`
	ProductID  string      `json:"productId"`
	Model      string      `json:"model"`
	ExtAddr    string      `json:"extAddr"`
	Online     bool        `json:"online"`
	Gateway    struct {
		UID       string `json:"uid"`
		ProductID string `json:"productId"`
	} `json:"gateway"`
	PointDataMap map[string]pointRow `json:"pointDataMap"`
}

// pointRow is the wire shape of one pointDataMap entry.
type pointRow struct {
	PointIndex int    `json:"pointIndex"`
	PointName  string `json:"pointName"`
	PointType  int    `json:"pointType"`
	Value      any    `json:"value"`
}

// Families returns the homes on the account.
func (c *Client) Families(ctx context.Context) ([]Family, error) {
	data, err := c.authenticated(ctx, http.MethodPost, c.cfg.UserBaseURL+pathFamilyList, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("listing families: %w", err)
	}

	var rows []familyRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding family list: %w", err)
	}

	families := make([]Family, 0, len(rows))
	for _, row := range rows {
		families = append(families, Family{ID: row.ID.String(), Name: row.Name})
	}
	return families, nil
}

// FamilyID resolves the family whose devices are bridged: the
// configured home id if set, otherwise the account's first family.
func (c *Client) FamilyID(ctx context.Context) (string, error) {
	if c.cfg.HomeID != "" {
		return c.cfg.HomeID, nil
	}

	families, err := c.Families(ctx)
	if err != nil {
		return "", err
	}
	if len(families) == 0 {
		return "", ErrNoFamilies
	}

	c.logger.Info("no home id configured, using first family",
		"family_id", families[0].ID,
		"family_name", families[0].Name,
	)
	return families[0].ID, nil
}

// Devices returns the family's devices with their full point snapshots.
func (c *Client) Devices(ctx context.Context, familyID string) ([]DeviceSnapshot, error) {
	body := map[string]string{"familyId": familyID}
	data, err := c.authenticated(ctx, http.MethodPost, c.cfg.DeviceBaseURL+pathDeviceList, body)
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	var page struct {
		Rows []deviceRow `json:"rows"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decoding device list: %w", err)
	}

	snapshots := make([]DeviceSnapshot, 0, len(page.Rows))
	for _, row := range page.Rows {
		points := make(map[string]device.SnapshotPoint, len(row.PointDataMap))
		for key, p := range row.PointDataMap {
			points[key] = device.SnapshotPoint{
				Index: p.PointIndex,
				Name:  p.PointName,
				Type:  point.Type(p.PointType),
				Value: p.Value,
			}
		}

		snapshots = append(snapshots, DeviceSnapshot{
			Info: device.Info{
				MAC:        row.ExtAddr,
				ID:         row.ID.String(),
				Name:       row.DeviceName,
				Model:      row.Model,
				ProductID:  row.ProductID,
				DeviceType: row.DeviceType,
				Online:     row.Online,
				Gateway: device.Gateway{
					UID:       row.Gateway.UID,
					ProductID: row.Gateway.ProductID,
				},
			},
			Points: points,
		})
	}

	return snapshots, nil
}
