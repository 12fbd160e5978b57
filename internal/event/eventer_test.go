// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: BUSL-1.1

package event

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/mlperms/internal/perms"
	"github.com/hashicorp/mlperms/internal/types/resource"
	"github.com/hashicorp/mlperms/internal/types/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventer_Decision(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	decision := perms.Decision{
		PrincipalId:  "u_Alice123",
		GroupIds:     []string{"g_MlTeam"},
		ResourceType: resource.RegisteredModel,
		ResourceId:   "dev-ml-model",
		Level:        perms.Manage,
		Source:       source.Regex,
		RuleId:       "pr_2",
	}

	t.Run("writer-sink", func(t *testing.T) {
		var buf bytes.Buffer
		e, err := NewEventer(ctx, nil, WithAuditWriter(&buf))
		require.NoError(t, err)

		require.NoError(t, e.Decision(ctx, decision))

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		payload, ok := got["payload"].(map[string]interface{})
		require.True(t, ok, "event envelope must carry the payload")
		assert.Equal(t, "u_Alice123", payload["principal_id"])
		assert.Equal(t, "registered-model", payload["resource_type"])
		assert.Equal(t, "dev-ml-model", payload["resource_id"])
		assert.Equal(t, "MANAGE", payload["level"])
		assert.Equal(t, "regex", payload["source"])
		assert.Equal(t, "pr_2", payload["rule_id"])
		id, _ := payload["id"].(string)
		assert.True(t, strings.HasPrefix(id, IdPrefix+"_"))
	})

	t.Run("default-decision-omits-rule-id", func(t *testing.T) {
		var buf bytes.Buffer
		e, err := NewEventer(ctx, nil, WithAuditWriter(&buf))
		require.NoError(t, err)

		d := decision
		d.Source = source.Default
		d.RuleId = ""
		require.NoError(t, e.Decision(ctx, d))
		assert.NotContains(t, buf.String(), "rule_id")
		assert.Contains(t, buf.String(), `"source":"default"`)
	})

	t.Run("file-sink", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "audit.log")
		e, err := NewEventer(ctx, nil, WithAuditFilePath(path))
		require.NoError(t, err)

		require.NoError(t, e.Decision(ctx, decision))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
	})
}

func TestNewId(t *testing.T) {
	t.Parallel()
	id, err := NewId("e")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "e_"))

	_, err = NewId("")
	require.Error(t, err)
}
