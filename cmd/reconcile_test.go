package cmd

import (
	"testing"

	"code-reconciler/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaFromFlags(t *testing.T) {
	require.NoError(t, reconcileCmd.ParseFlags([]string{"--root25", "--root59=false"}))

	got := criteriaFromFlags(reconcileCmd, reconcile.ModifierCriteria{Root59: true, Root76: true})
	assert.Equal(t, reconcile.ModifierCriteria{Root25: true, Root76: true}, got)
}
