package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutline_AddTopic_Prepends(t *testing.T) {
	o := &Outline{}

	o.AddTopic(Topic{Reference: "João 3:16"})
	o.AddTopic(Topic{Reference: "Romanos 5:8"})

	require.Len(t, o.Topics, 2)
	assert.Equal(t, "Romanos 5:8", o.Topics[0].Reference)
	assert.Equal(t, "João 3:16", o.Topics[1].Reference)
	assert.False(t, o.Topics[0].CreatedAt.IsZero())
	assert.False(t, o.UpdatedAt.IsZero())
}

func TestOutline_RemoveTopic(t *testing.T) {
	o := &Outline{Topics: []Topic{{Reference: "a"}, {Reference: "b"}, {Reference: "c"}}}
	before := time.Now()

	assert.True(t, o.RemoveTopic(1))
	assert.Equal(t, []Topic{{Reference: "a"}, {Reference: "c"}}, o.Topics)
	assert.False(t, o.UpdatedAt.Before(before))

	assert.False(t, o.RemoveTopic(5))
	assert.False(t, o.RemoveTopic(-1))
	assert.Len(t, o.Topics, 2)
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Amor", "#evangelho", "amor", "", "  "})
	assert.Equal(t, []string{"amor", "evangelho"}, got)
	assert.Empty(t, NormalizeTags(nil))
}
