package faq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andazbayan/andaz-bot/internal/faq"
)

func TestDefaultTableLoads(t *testing.T) {
	table, err := faq.Default()
	require.NoError(t, err)
	assert.Greater(t, table.Len(), 10)
}

func TestMatchTopicWithinMessage(t *testing.T) {
	table, err := faq.Default()
	require.NoError(t, err)

	reply, ok := table.Match("hello, WHAT IS ANDAZ-E-BAYAN AUR? I'm curious")
	require.True(t, ok)
	assert.Contains(t, reply, "Urdu poetry")
}

func TestMatchFirstEntryWins(t *testing.T) {
	table := faq.NewTable([]faq.Entry{
		{Topic: "poetry", Reply: "first"},
		{Topic: "poetry challenges", Reply: "second"},
	})

	reply, ok := table.Match("tell me about poetry challenges")
	require.True(t, ok)
	assert.Equal(t, "first", reply)
}

func TestMatchMiss(t *testing.T) {
	table, err := faq.Default()
	require.NoError(t, err)

	_, ok := table.Match("completely unrelated question about quantum physics")
	assert.False(t, ok)
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	table := faq.NewTable([]faq.Entry{
		{Topic: "Bait-Baazi", Reply: "a poetry game"},
	})

	reply, ok := table.Match("what is bait-baazi exactly?")
	require.True(t, ok)
	assert.Equal(t, "a poetry game", reply)
}
