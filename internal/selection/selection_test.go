package selection_test

import (
	"testing"

	"lab-reception/internal/selection"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintIgnoresOrderAndDuplicates(t *testing.T) {
	assert.Equal(t, selection.Fingerprint([]int{3, 1, 2}), selection.Fingerprint([]int{1, 2, 3, 3}))
	assert.NotEqual(t, selection.Fingerprint([]int{1, 2}), selection.Fingerprint([]int{1, 2, 3}))
}

func TestReconcileKeepsSelectionForSameList(t *testing.T) {
	current := []int{1, 2, 3}
	fp := selection.Fingerprint(current)

	got := selection.Reconcile([]int{2, 3}, fp, current)
	assert.Equal(t, []int{2, 3}, got.Selected)
	assert.False(t, got.Reset)
	assert.Equal(t, fp, got.Fingerprint)
}

func TestReconcileResetsWhenIdentityChanged(t *testing.T) {
	fp := selection.Fingerprint([]int{1, 2, 3})

	got := selection.Reconcile([]int{2, 3}, fp, []int{1, 2, 3, 4})
	assert.Empty(t, got.Selected)
	assert.True(t, got.Reset)
}

func TestReconcileWithoutFingerprintDropsUnknownIDs(t *testing.T) {
	got := selection.Reconcile([]int{2, 9}, "", []int{1, 2})
	assert.Equal(t, []int{2}, got.Selected)
	assert.False(t, got.Reset)
}

func TestParse(t *testing.T) {
	assert.Equal(t, []int{1, 5, 7}, selection.Parse("1, 5,,x,7"))
	assert.Empty(t, selection.Parse(""))
}

func TestSetToggle(t *testing.T) {
	s := selection.New(1)
	s.Toggle(2, true)
	s.Toggle(1, false)
	assert.Equal(t, []int{2}, s.IDs())
	assert.True(t, s.Has(2))
	assert.Equal(t, 1, s.Len())
}
