package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/topband-bridge/internal/device"
)

// deviceSummary is the wire shape of one device in list/get responses.
type deviceSummary struct {
	MAC        string `json:"mac"`
	Name       string `json:"name"`
	Model      string `json:"model"`
	ProductID  string `json:"product_id"`
	DeviceType int    `json:"device_type"`
	Online     bool   `json:"online"`
	GatewayUID string `json:"gateway_uid"`
	Points     int    `json:"points"`
}

// groupSummary counts the capability groups of one device.
type groupSummary struct {
	WaterHeaters  int `json:"water_heaters"`
	Climates      int `json:"climates"`
	Selects       int `json:"selects"`
	Switches      int `json:"switches"`
	Numbers       int `json:"numbers"`
	Sensors       int `json:"sensors"`
	BinarySensors int `json:"binary_sensors"`
}

// pointView is the wire shape of one data point in the points response.
type pointView struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Type  int    `json:"type"`
	Value any    `json:"value"`
	Raw   any    `json:"raw,omitempty"`
}

func summarize(d *device.Device) deviceSummary {
	return deviceSummary{
		MAC:        d.MAC,
		Name:       d.Name,
		Model:      d.Model,
		ProductID:  d.ProductID,
		DeviceType: d.DeviceType,
		Online:     d.Online,
		GatewayUID: d.Gateway.UID,
		Points:     d.PointCount(),
	}
}

// handleListDevices returns all registered devices.
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	all := s.registry.All()
	devices := make([]deviceSummary, 0, len(all))
	for _, d := range all {
		devices = append(devices, summarize(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns one device with its capability group counts.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	mac := chi.URLParam(r, "mac")

	dev, ok := s.registry.Get(mac)
	if !ok {
		writeNotFound(w, "device not found")
		return
	}

	g := dev.Groups()
	writeJSON(w, http.StatusOK, map[string]any{
		"device": summarize(dev),
		"groups": groupSummary{
			WaterHeaters:  len(g.WaterHeaters),
			Climates:      len(g.Climates),
			Selects:       len(g.Selects),
			Switches:      len(g.Switches),
			Numbers:       len(g.Numbers),
			Sensors:       len(g.Sensors),
			BinarySensors: len(g.BinarySensors),
		},
	})
}

// handleDevicePoints returns every data point of one device with its
// decoded value, ordered by wire index. A point whose value fails to
// decode is reported with its raw wire value instead.
func (s *Server) handleDevicePoints(w http.ResponseWriter, r *http.Request) {
	mac := chi.URLParam(r, "mac")

	dev, ok := s.registry.Get(mac)
	if !ok {
		writeNotFound(w, "device not found")
		return
	}

	pts := dev.Points()
	views := make([]pointView, 0, len(pts))
	for _, p := range pts {
		view := pointView{
			Index: p.Index(),
			Name:  p.Name(),
			Type:  int(p.Type()),
		}
		if value, err := p.Value(); err == nil {
			view.Value = value
		} else {
			view.Raw = p.Raw()
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Index < views[j].Index })

	writeJSON(w, http.StatusOK, map[string]any{"points": views, "count": len(views)})
}
