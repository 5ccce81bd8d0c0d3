// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUID(t *testing.T) {
	id := GenerateUUID()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, GenerateUUID())
}

func TestRemove(t *testing.T) {
	list := []string{"a", "b", "c", "b"}

	out, ok := Remove(list, "b")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "c", "b"}, out)
	assert.Equal(t, []string{"a", "b", "c", "b"}, list, "input must stay untouched")

	out, ok = Remove(list, "z")
	assert.False(t, ok)
	assert.Equal(t, list, out)
}
