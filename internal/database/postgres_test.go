package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Guards the column-order invariant: StagingColumns must list the DDL's
// columns in declaration order, since every loader binds positionally.
func TestStagingColumnsMatchDDL(t *testing.T) {
	var ddlColumns []string

	for _, line := range strings.Split(createStagingTable, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "CREATE") || strings.HasPrefix(line, ")") {
			continue
		}
		fields := strings.Fields(line)
		assert.NotEmpty(t, fields)
		ddlColumns = append(ddlColumns, fields[0])
	}

	assert.Equal(t, ddlColumns, StagingColumns)
	assert.Len(t, StagingColumns, 17)
}

// The original schema misspells target_og as target_ob; the DDL keeps that
// name on purpose. This test documents the discrepancy so a rename is a
// deliberate act, not an accident.
func TestStagingColumnsPreserveTargetObSpelling(t *testing.T) {
	assert.Contains(t, StagingColumns, "target_ob")
	assert.NotContains(t, StagingColumns, "target_og")
}
