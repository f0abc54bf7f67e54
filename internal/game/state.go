package game

// GameStatus represents the current state of the game
type GameStatus string

const (
	StatusInProgress GameStatus = "IN_PROGRESS"
	StatusCompleted  GameStatus = "COMPLETED"
)

// Player is one side of a match. Color stays empty until a pool group is
// assigned; Score is the pocketed-ball count in pool and the frame total in
// snooker.
type Player struct {
	Number int   `json:"number"`
	Color  Color `json:"color,omitempty"`
	Score  int   `json:"score"`
}

// MatchState is the rule-level state of a match. Only the rule machine writes it.
type MatchState struct {
	Players []Player `json:"players"`
	Current int      `json:"current"` // index into Players

	ShotsLeft     int    `json:"shots_left"` // pool
	OnColors      bool   `json:"on_colors"`  // snooker
	BreakScore    int    `json:"break_score"`
	RedsRemaining int    `json:"reds_remaining"`
	BallOn        string `json:"ball_on,omitempty"`

	HasHitBall     bool `json:"has_hit_ball"`
	HasFouled      bool `json:"has_fouled"`
	ShotInProgress bool `json:"shot_in_progress"`
	GameEnded      bool `json:"game_ended"`
	Winner         int  `json:"winner"` // player index, NoWinner while live
}

func newMatchState() MatchState {
	players := make([]Player, numPlayers)
	for i := range players {
		players[i].Number = i + 1
	}
	return MatchState{
		Players: players,
		Winner:  NoWinner,
	}
}

// CurrentPlayer returns the player at the table.
func (s *MatchState) CurrentPlayer() *Player {
	return &s.Players[s.Current]
}

// NextIndex returns the index of the player who plays after the current one.
func (s *MatchState) NextIndex() int {
	return (s.Current + 1) % len(s.Players)
}

// NextPlayer returns the opponent of the current player.
func (s *MatchState) NextPlayer() *Player {
	return &s.Players[s.NextIndex()]
}

func (s *MatchState) switchTurn() {
	s.Current = s.NextIndex()
}

// Status maps the terminal flag onto a GameStatus.
func (s *MatchState) Status() GameStatus {
	if s.GameEnded {
		return StatusCompleted
	}
	return StatusInProgress
}

// clone returns a deep copy safe to hand to readers.
func (s *MatchState) clone() MatchState {
	out := *s
	out.Players = append([]Player(nil), s.Players...)
	return out
}
