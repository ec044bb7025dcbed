package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match types.
const (
	MatchTypeOpponents = "opponents"
	MatchTypeTeammates = "teammates"
)

// Match statuses.
const (
	MatchOpen      = "open"
	MatchMatched   = "matched"
	MatchCompleted = "completed"
	MatchCancelled = "cancelled"
)

var matchTransitions = map[string][]string{
	MatchOpen:    {MatchMatched, MatchCancelled},
	MatchMatched: {MatchCompleted, MatchCancelled, MatchOpen},
}

// Score is the final result of a completed match.
type Score struct {
	Creator  int `json:"creator" bson:"creator" validate:"gte=0"`
	Opponent int `json:"opponent" bson:"opponent" validate:"gte=0"`
}

// Match is a proposed or ongoing game (MongoDB).
type Match struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CreatedBy       string             `json:"created_by" bson:"created_by"`
	Type            string             `json:"type" bson:"type"`
	Location        string             `json:"location" bson:"location"`
	Venue           string             `json:"venue,omitempty" bson:"venue,omitempty"`
	Distance        float64            `json:"distance" bson:"distance"`
	DateTime        time.Time          `json:"date_time" bson:"date_time"`
	TeamSize        int                `json:"team_size" bson:"team_size"`
	IsSkillBased    bool               `json:"is_skill_based" bson:"is_skill_based"`
	PositionsNeeded []string           `json:"positions_needed,omitempty" bson:"positions_needed,omitempty"`
	SkillLevel      string             `json:"skill_level,omitempty" bson:"skill_level,omitempty"`
	Status          string             `json:"status" bson:"status"`
	OpponentID      string             `json:"opponent_id,omitempty" bson:"opponent_id,omitempty"`
	Players         []string           `json:"players" bson:"players"`
	Score           *Score             `json:"score,omitempty" bson:"score,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// CanTransitionTo reports whether status may follow the match's current status.
func (m *Match) CanTransitionTo(status string) bool {
	for _, next := range matchTransitions[m.Status] {
		if next == status {
			return true
		}
	}
	return false
}

// Counterpart returns the party on the other side of userID: the opponent for the
// creator and the creator for everybody else.
func (m *Match) Counterpart(userID string) string {
	if userID == m.CreatedBy {
		return m.OpponentID
	}
	return m.CreatedBy
}

// HasPlayer reports whether userID already takes part in the match.
func (m *Match) HasPlayer(userID string) bool {
	if m.OpponentID == userID {
		return true
	}
	for _, p := range m.Players {
		if p == userID {
			return true
		}
	}
	return false
}

type CreateMatchRequest struct {
	Type            string   `json:"type" validate:"required,oneof=opponents teammates"`
	Location        string   `json:"location" validate:"notblank,max=200"`
	Venue           string   `json:"venue" validate:"max=200"`
	Distance        float64  `json:"distance" validate:"gte=0,lte=500"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string   `json:"time" validate:"required,datetime=15:04"`
	TeamSize        int      `json:"team_size" validate:"required,gte=1,lte=11"`
	IsSkillBased    bool     `json:"is_skill_based"`
	PositionsNeeded []string `json:"positions_needed" validate:"dive,required"`
	SkillLevel      string   `json:"skill_level" validate:"omitempty,oneof=Beginner Intermediate Advanced Professional"`
}

type UpdateMatchRequest struct {
	Status string `json:"status" validate:"required,oneof=open matched completed cancelled"`
	Score  *Score `json:"score"`
}

// MatchSearchRequest is bound from the query string of GET /matches/search.
type MatchSearchRequest struct {
	Type         string  `query:"type" validate:"omitempty,oneof=opponents teammates"`
	Location     string  `query:"location"`
	Distance     float64 `query:"distance" validate:"gte=0"`
	Date         string  `query:"date" validate:"omitempty,datetime=2006-01-02"`
	Time         string  `query:"time" validate:"omitempty,datetime=15:04"`
	TeamSize     int     `query:"team_size" validate:"gte=0"`
	IsSkillBased string  `query:"is_skill_based" validate:"omitempty,oneof=true false"`
	Position     string  `query:"position"`
	SkillLevel   string  `query:"skill_level"`
}

// MatchFilter is the repository-level form of a search.
type MatchFilter struct {
	Type          string
	Status        string
	ExcludeUserID string
	Location      string
	MaxDistance   float64
	From          *time.Time
	To            *time.Time
	TeamSize      int
	IsSkillBased  *bool
	Position      string
	SkillLevel    string
	Limit         int64
}
