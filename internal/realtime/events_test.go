package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pulseboard/internal/model"
)

func TestParameterizedTopics(t *testing.T) {
	assert.Equal(t, "data-source-src-42-updated",
		DataSourceUpdated{DashboardID: "d", SourceID: "src-42"}.Topic())
	assert.Equal(t, "model-forecast-1-trained",
		ModelTrained{DashboardID: "d", ModelID: "forecast-1"}.Topic())
	assert.Equal(t, "widget-added", WidgetAdded{DashboardID: "d"}.Topic())
}

func TestEnvelopeRoundTrip(t *testing.T) {
	src := WidgetAdded{
		DashboardID: "dash-1",
		Entry:       model.DataEntry{Date: "2024-01-01", Sales: 100, Profit: 20, Category: "X"},
	}

	env, err := Encode(src)
	assert.NoError(t, err)
	assert.Equal(t, KindWidgetAdded, env.Kind)

	decoded, err := Decode(env)
	assert.NoError(t, err)

	added, ok := decoded.(WidgetAdded)
	assert.True(t, ok)
	assert.Equal(t, src.DashboardID, added.DashboardID)
	assert.Equal(t, src.Entry.Category, added.Entry.Category)
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := Decode(Envelope{Kind: "mystery-event", Payload: []byte(`{}`)})
	assert.Error(t, err)
}
