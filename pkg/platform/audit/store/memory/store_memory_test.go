package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "lcm/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	require.NoError(t, s.Append(ctx, audit.Event{RequestID: "r1", Action: string(audit.EventRequestBlocked)}))
	require.NoError(t, s.Append(ctx, audit.Event{RequestID: "r2", Action: string(audit.EventResponseDelivered)}))
	require.NoError(t, s.Append(ctx, audit.Event{Action: string(audit.EventRenderFailed)}))
	require.NoError(t, s.Append(ctx, audit.Event{RequestID: "r1", Action: string(audit.EventDraftBlocked)}))

	r1, err := s.ListByRequest(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, r1, 2)
	assert.Equal(t, string(audit.EventRequestBlocked), r1[0].Action)
	assert.Equal(t, string(audit.EventDraftBlocked), r1[1].Action)

	recent, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, string(audit.EventRenderFailed), recent[0].Action)

	all, err := s.ListRecent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	none, err := s.ListByRequest(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, audit.CategorySecurity, audit.EventRequestBlocked.Category())
	assert.Equal(t, audit.CategoryCompliance, audit.EventDraftBlocked.Category())
	assert.Equal(t, audit.CategoryOperations, audit.EventResponseDelivered.Category())
	assert.Equal(t, audit.CategoryOperations, audit.AuditEvent("unknown").Category())
}
