package domain

import (
	"fmt"
	"time"
)

// Mode represents a supported game mode
type Mode struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// MapCourse is one course of a map with its per-mode difficulty tiers
type MapCourse struct {
	Course  uint32 `json:"course"`
	NubTier uint8  `json:"nub_tier"`
	ProTier uint8  `json:"pro_tier"`
}

// MapMapper credits a player with authoring a map
type MapMapper struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Map represents a map with its courses and mappers for one mode
type Map struct {
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at"`
	Courses   []MapCourse `json:"courses"`
	Mappers   []MapMapper `json:"mappers"`
}

// Player is a search result entry for a player
type Player struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// MapRun is one row of a map top: a player's best run on a course
type MapRun struct {
	PlayerID   uint64    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Ticks      uint32    `json:"ticks"`
	Teleports  uint32    `json:"teleports"`
	CreatedAt  time.Time `json:"created_at"`
}

// PBRun is one entry of a player's personal-best progression
type PBRun struct {
	Ticks     uint32    `json:"ticks"`
	Teleports uint32    `json:"teleports"`
	CreatedAt time.Time `json:"created_at"`
}

// Server identifies an authenticated game server
type Server struct {
	ID uint32 `json:"server_id"`
}

// RunKind selects which runs count for a leaderboard query.
// A pro run uses zero teleports; every pro run is also a nub run.
type RunKind uint8

const (
	RunKindNub RunKind = iota
	RunKindPro
)

// ParseRunKind parses the wire representation of a run kind
func ParseRunKind(s string) (RunKind, error) {
	switch s {
	case "NUB":
		return RunKindNub, nil
	case "PRO":
		return RunKindPro, nil
	}
	return 0, fmt.Errorf("unknown run kind %q", s)
}

func (k RunKind) String() string {
	if k == RunKindPro {
		return "PRO"
	}
	return "NUB"
}

// MapTopQuery parameterizes a map-top lookup
type MapTopQuery struct {
	MapName string
	Course  uint32
	Mode    string
	Kind    RunKind
}

// PBHistoryQuery parameterizes a personal-best history lookup
type PBHistoryQuery struct {
	PlayerID uint64
	MapName  string
	Course   uint32
	Mode     string
	Kind     RunKind
}
