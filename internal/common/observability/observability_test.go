package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RecordsToRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := New(Options{ServiceName: "lead-summarizer-test", Registerer: reg})
	require.NoError(t, err)
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordEnrichment(ctx, 120*time.Millisecond, "success")
	obs.RecordStage(ctx, "model", 100*time.Millisecond, nil)
	obs.RecordStage(ctx, "upsert", 5*time.Millisecond, errors.New("down"))

	families, err := reg.Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "enrichments_processed") {
			found = true
		}
	}
	assert.True(t, found, "enrichment counter not exported")
}

func TestStartSpan_WithoutTracerIsSafe(t *testing.T) {
	var obs *Observability
	ctx, span := obs.StartSpan(context.Background(), "model.invoke")
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))

	obs.RecordEnrichment(context.Background(), time.Second, "failure")
	obs.Shutdown()
}
