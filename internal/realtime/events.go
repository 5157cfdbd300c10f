package realtime

import (
	"encoding/json"
	"fmt"

	"pulseboard/internal/model"
)

// Kind identifies an event variant. Parameterized topics keep a stable
// kind; the wire topic is rendered by Topic().
type Kind string

const (
	KindDashboardUpdated  Kind = "dashboard-updated"
	KindWidgetAdded       Kind = "widget-added"
	KindWidgetUpdated     Kind = "widget-updated"
	KindWidgetDeleted     Kind = "widget-deleted"
	KindDataSourceUpdated Kind = "data-source-updated"
	KindModelTrained      Kind = "model-trained"
)

// Event is the sealed union of dashboard event variants. All publishing
// goes through a single Publish function; there are no stringly-typed
// listener maps.
type Event interface {
	Kind() Kind
	// Dashboard is the identifier events are routed by.
	Dashboard() string
	// Topic is the wire name clients subscribe to.
	Topic() string
	sealed()
}

// DashboardUpdated signals that anything on the dashboard changed.
type DashboardUpdated struct {
	DashboardID string `json:"dashboard_id"`
}

func (DashboardUpdated) Kind() Kind          { return KindDashboardUpdated }
func (e DashboardUpdated) Dashboard() string { return e.DashboardID }
func (e DashboardUpdated) Topic() string     { return string(KindDashboardUpdated) }
func (DashboardUpdated) sealed()             {}

// WidgetAdded carries a freshly created entry.
type WidgetAdded struct {
	DashboardID string          `json:"dashboard_id"`
	Entry       model.DataEntry `json:"entry"`
}

func (WidgetAdded) Kind() Kind          { return KindWidgetAdded }
func (e WidgetAdded) Dashboard() string { return e.DashboardID }
func (e WidgetAdded) Topic() string     { return string(KindWidgetAdded) }
func (WidgetAdded) sealed()             {}

// WidgetUpdated carries the entry after mutation.
type WidgetUpdated struct {
	DashboardID string          `json:"dashboard_id"`
	Entry       model.DataEntry `json:"entry"`
}

func (WidgetUpdated) Kind() Kind          { return KindWidgetUpdated }
func (e WidgetUpdated) Dashboard() string { return e.DashboardID }
func (e WidgetUpdated) Topic() string     { return string(KindWidgetUpdated) }
func (WidgetUpdated) sealed()             {}

// WidgetDeleted carries only the removed entry id.
type WidgetDeleted struct {
	DashboardID string `json:"dashboard_id"`
	EntryID     string `json:"entry_id"`
}

func (WidgetDeleted) Kind() Kind          { return KindWidgetDeleted }
func (e WidgetDeleted) Dashboard() string { return e.DashboardID }
func (e WidgetDeleted) Topic() string     { return string(KindWidgetDeleted) }
func (WidgetDeleted) sealed()             {}

// DataSourceUpdated signals that an external data source finished syncing.
type DataSourceUpdated struct {
	DashboardID string `json:"dashboard_id"`
	SourceID    string `json:"source_id"`
}

func (DataSourceUpdated) Kind() Kind          { return KindDataSourceUpdated }
func (e DataSourceUpdated) Dashboard() string { return e.DashboardID }
func (e DataSourceUpdated) Topic() string {
	return fmt.Sprintf("data-source-%s-updated", e.SourceID)
}
func (DataSourceUpdated) sealed() {}

// ModelTrained signals that a forecast model finished training.
type ModelTrained struct {
	DashboardID string `json:"dashboard_id"`
	ModelID     string `json:"model_id"`
}

func (ModelTrained) Kind() Kind          { return KindModelTrained }
func (e ModelTrained) Dashboard() string { return e.DashboardID }
func (e ModelTrained) Topic() string {
	return fmt.Sprintf("model-%s-trained", e.ModelID)
}
func (ModelTrained) sealed() {}

// Envelope is the broker wire format for events crossing instances.
type Envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps an event in its wire envelope.
func Encode(ev Event) (Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", ev.Kind(), err)
	}
	return Envelope{Kind: ev.Kind(), Payload: payload}, nil
}

// Decode restores the concrete event variant from a wire envelope.
func Decode(env Envelope) (Event, error) {
	switch env.Kind {
	case KindDashboardUpdated:
		return unmarshalEvent[DashboardUpdated](env.Payload)
	case KindWidgetAdded:
		return unmarshalEvent[WidgetAdded](env.Payload)
	case KindWidgetUpdated:
		return unmarshalEvent[WidgetUpdated](env.Payload)
	case KindWidgetDeleted:
		return unmarshalEvent[WidgetDeleted](env.Payload)
	case KindDataSourceUpdated:
		return unmarshalEvent[DataSourceUpdated](env.Payload)
	case KindModelTrained:
		return unmarshalEvent[ModelTrained](env.Payload)
	default:
		return nil, fmt.Errorf("unknown event kind %q", env.Kind)
	}
}

func unmarshalEvent[T Event](b []byte) (Event, error) {
	var ev T
	if err := json.Unmarshal(b, &ev); err != nil {
		return nil, fmt.Errorf("decode payload failed: %w", err)
	}
	return ev, nil
}
