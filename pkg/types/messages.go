package types

// Client -> Server message types.
const (
	MsgSubmitAnswers = "submit_answers"
	MsgCastVote      = "cast_vote"
	MsgChat          = "chat"
)

// Server -> Client message types.
const (
	MsgWelcome      = "welcome"
	MsgPlayerJoined = "player_joined"
	MsgPlayerLeft   = "player_left"
	MsgTimer        = "timer"
	MsgNewRound     = "new_round"
	MsgRoundResults = "round_results"
	MsgVoteAccepted = "vote_accepted"
	MsgChatRelay    = "chat"
	MsgError        = "error"
)

type ClientMessage struct {
	Type     string            `json:"type"`
	Answers  map[string]string `json:"answers,omitempty"`
	Category string            `json:"category,omitempty"`
	Text     string            `json:"text,omitempty"`
}

type RoundInfo struct {
	Letter     string   `json:"letter"`
	Categories []string `json:"categories"`
	Seconds    int      `json:"seconds"`
}

type CategoryResult struct {
	Answer      string `json:"answer"`
	Valid       bool   `json:"valid"`
	Unique      bool   `json:"unique"`
	Points      int    `json:"points"`
	Explanation string `json:"explanation"`
}

// ServerMessage is the single outbound frame shape; Type selects which
// optional fields are populated.
type ServerMessage struct {
	Type       string                    `json:"type"`
	PlayerID   string                    `json:"player_id,omitempty"`
	PlayerName string                    `json:"player_name,omitempty"`
	Round      *RoundInfo                `json:"round,omitempty"`
	Seconds    int                       `json:"seconds,omitempty"`
	Category   string                    `json:"category,omitempty"`
	Text       string                    `json:"text,omitempty"`
	Players    []string                  `json:"players,omitempty"`
	Results    map[string]CategoryResult `json:"results,omitempty"`
	RoundScore int                       `json:"round_score,omitempty"`
	Totals     map[string]int            `json:"totals,omitempty"`
	Error      string                    `json:"error,omitempty"`
}
