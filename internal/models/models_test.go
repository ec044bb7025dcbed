package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectKeyIsOrderIndependent(t *testing.T) {
	assert.Equal(t, DirectKey("u1", "u2"), DirectKey("u2", "u1"))
	assert.Equal(t, "u1|u2", DirectKey("u2", "u1"))
}

func TestMatchTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{MatchOpen, MatchMatched, true},
		{MatchOpen, MatchCancelled, true},
		{MatchOpen, MatchCompleted, false},
		{MatchMatched, MatchCompleted, true},
		{MatchMatched, MatchOpen, true},
		{MatchCompleted, MatchOpen, false},
		{MatchCancelled, MatchMatched, false},
	}
	for _, tt := range tests {
		m := Match{Status: tt.from}
		assert.Equal(t, tt.ok, m.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestMatchCounterpart(t *testing.T) {
	m := Match{CreatedBy: "u1", Players: []string{"u1"}}
	assert.Empty(t, m.Counterpart("u1"))

	m.OpponentID = "u2"
	assert.Equal(t, "u2", m.Counterpart("u1"))
	assert.Equal(t, "u1", m.Counterpart("u2"))
	assert.True(t, m.HasPlayer("u2"))
	assert.False(t, m.HasPlayer("u3"))
}

func TestChatParticipants(t *testing.T) {
	c := Chat{Participants: []string{"u1", "u2"}}
	assert.True(t, c.HasParticipant("u2"))
	assert.False(t, c.HasParticipant("u3"))
	assert.Equal(t, "u2", c.OtherParticipant("u1"))
}
