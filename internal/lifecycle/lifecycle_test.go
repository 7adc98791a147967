package lifecycle_test

import (
	"testing"

	"lab-reception/internal/lifecycle"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestClassifyPendingStatuses(t *testing.T) {
	for _, id := range []int{1, 2, 3, 5, 7, 8, 10} {
		c := lifecycle.Classify(intPtr(id), nil)
		assert.True(t, c.IsPending, "status %d should be pending", id)
		assert.False(t, c.IsAnalyzed, "status %d should not be analyzed", id)
		assert.False(t, c.IsArchived, "status %d should not be archived", id)
	}
}

func TestClassifyAnalyzedStatuses(t *testing.T) {
	for _, id := range []int{4, 6, 9, 11} {
		c := lifecycle.Classify(intPtr(id), nil)
		assert.True(t, c.IsAnalyzed, "status %d should be analyzed", id)
		assert.False(t, c.IsPending, "status %d should not be pending", id)

		deleted := lifecycle.Classify(intPtr(id), boolPtr(true))
		assert.True(t, deleted.IsAnalyzed)
		assert.True(t, deleted.IsArchived)
		assert.False(t, deleted.IsPending)
	}
}

func TestClassifyArchived(t *testing.T) {
	assert.True(t, lifecycle.Classify(intPtr(12), nil).IsArchived)
	assert.True(t, lifecycle.Classify(intPtr(12), boolPtr(false)).IsArchived)
	assert.True(t, lifecycle.Classify(intPtr(12), boolPtr(true)).IsArchived)

	for _, id := range []int{1, 3, 4, 7, 11, 99} {
		c := lifecycle.Classify(intPtr(id), boolPtr(true))
		assert.True(t, c.IsArchived, "deleted sample with status %d must be archived", id)
		assert.False(t, c.IsPending)
	}
}

func TestClassifyNilStatusDefaultsToRegistered(t *testing.T) {
	c := lifecycle.Classify(nil, nil)
	assert.Equal(t, lifecycle.StatusRegistered, c.StatusID)
	assert.Equal(t, "REGISTRADA", c.StatusLabel)
	assert.True(t, c.IsPending)

	zero := lifecycle.Classify(intPtr(0), nil)
	assert.Equal(t, lifecycle.StatusRegistered, zero.StatusID)
}

func TestLabelIsTotal(t *testing.T) {
	expected := map[lifecycle.StatusID]string{
		1: "REGISTRADA", 2: "EN RECEPCIÓN", 3: "EN ANÁLISIS", 4: "ANALIZADA",
		5: "EN REVISIÓN", 6: "APROBADA", 7: "RECHAZADA", 8: "EN CORRECCIÓN",
		9: "COMPLETADA", 10: "ENVIADA", 11: "ENTREGADA", 12: "ARCHIVADA",
	}
	for id, label := range expected {
		assert.Equal(t, label, id.Label())
		assert.True(t, id.IsKnown())
	}
	assert.Equal(t, "ESTADO 13", lifecycle.StatusID(13).Label())
	assert.Equal(t, "ESTADO -2", lifecycle.StatusID(-2).Label())
	assert.False(t, lifecycle.StatusID(13).IsKnown())
	assert.Len(t, lifecycle.AllStatuses, 12)
}

func TestActionsForAnalyzedSample(t *testing.T) {
	c := lifecycle.Classify(intPtr(4), nil)
	assert.Equal(t, []lifecycle.Action{
		lifecycle.ActionView, lifecycle.ActionEdit, lifecycle.ActionFinalReport,
		lifecycle.ActionHistory, lifecycle.ActionDownloadPDF, lifecycle.ActionDelete,
	}, c.Actions())
	assert.False(t, c.Allows(lifecycle.ActionMarkAnalyzed))
	assert.False(t, c.Allows(lifecycle.ActionRestore))
}

func TestActionsForArchivedSample(t *testing.T) {
	c := lifecycle.Classify(intPtr(12), nil)
	assert.Equal(t, []lifecycle.Action{lifecycle.ActionRestore}, c.Actions())
	assert.False(t, c.Allows(lifecycle.ActionView))
	assert.False(t, c.Allows(lifecycle.ActionDelete))
}

func TestActionsForPendingSample(t *testing.T) {
	c := lifecycle.Classify(intPtr(2), nil)
	assert.True(t, c.Allows(lifecycle.ActionMarkAnalyzed))
	assert.Len(t, c.Actions(), 7)
	assert.False(t, c.Allows(lifecycle.ActionRestore))
}

func TestActionsReturnsCopy(t *testing.T) {
	c := lifecycle.ClassifyStatus(lifecycle.StatusRegistered)
	first := c.Actions()
	first[0] = lifecycle.ActionRestore
	assert.Equal(t, lifecycle.ActionView, c.Actions()[0])
}
