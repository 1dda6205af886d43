package service

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/benbeisheim/alphabeta-chess/internal/model"
	"github.com/benbeisheim/alphabeta-chess/internal/notation"
	"github.com/benbeisheim/alphabeta-chess/internal/ws"
)

type fakeObserver struct {
	messages []ws.Message
	failing  bool
	closed   bool
}

func (f *fakeObserver) WriteJSON(v interface{}) error {
	if f.failing {
		return errors.New("broken pipe")
	}
	f.messages = append(f.messages, v.(ws.Message))
	return nil
}

func (f *fakeObserver) Close() error {
	f.closed = true
	return nil
}

func (f *fakeObserver) lastState(t *testing.T) GameState {
	t.Helper()
	if len(f.messages) == 0 {
		t.Fatalf("observer received no messages")
	}
	msg := f.messages[len(f.messages)-1]
	if msg.Type != ws.MessageTypeGameState {
		t.Fatalf("expected a gameState message, got %s", msg.Type)
	}
	var state GameState
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

// Depth 1 keeps the engine fast and its replies predictable: every quiet
// move ties and the first generated one is played.
func newTestService() *GameService {
	return NewGameService(NewGameManager(1, 1))
}

func TestCreateGameAsWhite(t *testing.T) {
	gs := newTestService()

	result, err := gs.CreateGame("", "alice", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := uuid.Parse(result.State.ID); err != nil {
		t.Fatalf("expected a generated uuid, got %q", result.State.ID)
	}
	if result.ComputerMove != nil {
		t.Fatalf("engine should not move first, got %+v", result.ComputerMove)
	}
	state := result.State
	if state.HumanColor != model.White || state.CurrentPlayer != model.White {
		t.Fatalf("unexpected colors: %+v", state)
	}
	if len(state.MoveHistory) != 0 || state.GameOver || state.InCheck {
		t.Fatalf("unexpected initial state: %+v", state)
	}
	if state.FEN != notation.StartFEN {
		t.Fatalf("FEN: got %q", state.FEN)
	}
	if sq := state.Board[7][4]; sq == nil || sq.Type != model.King || sq.Symbol != "♔" {
		t.Fatalf("expected white king on e1, got %+v", sq)
	}
}

func TestCreateGameAsBlackLetsEngineOpen(t *testing.T) {
	gs := newTestService()

	result, err := gs.CreateGame("g1", "alice", "black")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	want := SimpleMove{From: "a2", To: "a3"}
	if result.ComputerMove == nil || *result.ComputerMove != want {
		t.Fatalf("computer move: got %+v want %+v", result.ComputerMove, want)
	}
	if result.State.CurrentPlayer != model.Black {
		t.Fatalf("black should be to move, got %s", result.State.CurrentPlayer)
	}
	if len(result.State.MoveHistory) != 1 || result.State.MoveHistory[0] != "a3" {
		t.Fatalf("history: got %v", result.State.MoveHistory)
	}
}

func TestCreateGameErrors(t *testing.T) {
	gs := newTestService()

	if _, err := gs.CreateGame("g1", "alice", "purple"); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if _, err := gs.CreateGame("g1", "alice", "white"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := gs.CreateGame("g1", "bob", "white"); !errors.Is(err, ErrGameExists) {
		t.Fatalf("expected ErrGameExists, got %v", err)
	}
}

func TestCreateGameRestartsOwnGame(t *testing.T) {
	gs := newTestService()
	if _, err := gs.CreateGame("g1", "alice", "white"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	obs := &fakeObserver{}
	if err := gs.RegisterConnection("g1", "alice", obs); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if _, err := gs.HandleMove("g1", "alice", "e2", "e4"); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}

	result, err := gs.CreateGame("g1", "alice", "white")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if len(result.State.MoveHistory) != 0 {
		t.Fatalf("restarted game has history %v", result.State.MoveHistory)
	}
	if !obs.closed {
		t.Fatalf("observer of the replaced game should be closed")
	}
}

func TestHandleMovePlaysEngineReply(t *testing.T) {
	gs := newTestService()
	if _, err := gs.CreateGame("g1", "alice", "white"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	result, err := gs.HandleMove("g1", "alice", "e2", "e4")
	if err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	want := SimpleMove{From: "b8", To: "c6"}
	if result.ComputerMove == nil || *result.ComputerMove != want {
		t.Fatalf("computer move: got %+v want %+v", result.ComputerMove, want)
	}
	state := result.State
	if state.CurrentPlayer != model.White {
		t.Fatalf("white should be to move again, got %s", state.CurrentPlayer)
	}
	if strings.Join(state.MoveHistory, " ") != "e4 Nc6" {
		t.Fatalf("history: got %v", state.MoveHistory)
	}
	if state.LastMove == nil || *state.LastMove != want {
		t.Fatalf("last move: got %+v", state.LastMove)
	}
	if state.Board[4][4] == nil || state.Board[6][4] != nil {
		t.Fatalf("pawn did not reach e4")
	}
}

func TestHandleMoveErrors(t *testing.T) {
	gs := newTestService()
	if _, err := gs.CreateGame("g1", "alice", "white"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	tests := []struct {
		name     string
		gameID   string
		playerID string
		from, to string
		want     error
	}{
		{"unknown game", "nope", "alice", "e2", "e4", ErrGameNotFound},
		{"not the owner", "g1", "bob", "e2", "e4", ErrNotPlayer},
		{"bad square", "g1", "alice", "e9", "e4", notation.ErrInvalidSquare},
		{"illegal move", "g1", "alice", "e2", "e5", ErrInvalidMove},
		{"opponent piece", "g1", "alice", "e7", "e5", ErrInvalidMove},
		{"empty square", "g1", "alice", "e4", "e5", ErrInvalidMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := gs.HandleMove(tt.gameID, tt.playerID, tt.from, tt.to); !errors.Is(err, tt.want) {
				t.Fatalf("got %v want %v", err, tt.want)
			}
		})
	}

	state, err := gs.GetGameState("g1")
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if len(state.MoveHistory) != 0 {
		t.Fatalf("rejected moves changed the game: %v", state.MoveHistory)
	}
}

func TestMakeMoveOutOfTurnAndAfterGameOver(t *testing.T) {
	gm := NewGameManager(1, 1)
	game, err := gm.CreateGame("g1", "alice", model.White)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	game.board.SetCurrentPlayer(model.Black)
	if _, err := game.MakeMove("alice", "e2", "e4"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}

	mated, err := notation.ParseFEN("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w - - 0 3")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	game.board = mated
	if _, err := game.MakeMove("alice", "a2", "a3"); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	state := game.GetState()
	if !state.GameOver || state.Winner != "black" || !state.InCheck {
		t.Fatalf("expected black to have won: %+v", state)
	}
}

func TestObserversReceiveStates(t *testing.T) {
	gs := newTestService()
	if _, err := gs.CreateGame("g1", "alice", "white"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	obs := &fakeObserver{}
	if err := gs.RegisterConnection("g1", "alice", obs); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if len(obs.messages) != 1 {
		t.Fatalf("expected the initial state, got %d messages", len(obs.messages))
	}
	if err := gs.RegisterConnection("g1", "alice", &fakeObserver{}); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("expected ErrAlreadyConnected, got %v", err)
	}

	if _, err := gs.HandleMove("g1", "alice", "d2", "d4"); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	if state := obs.lastState(t); len(state.MoveHistory) != 2 {
		t.Fatalf("broadcast history: got %v", state.MoveHistory)
	}

	// A stale connection cannot remove the live one.
	gs.UnregisterConnection("g1", "alice", &fakeObserver{})
	if err := gs.RegisterConnection("g1", "alice", &fakeObserver{}); !errors.Is(err, ErrAlreadyConnected) {
		t.Fatalf("live connection was removed: %v", err)
	}
	gs.UnregisterConnection("g1", "alice", obs)
	if err := gs.RegisterConnection("g1", "alice", &fakeObserver{}); err != nil {
		t.Fatalf("reconnect after unregister: %v", err)
	}
}

func TestNewObserverDoesNotResendToOthers(t *testing.T) {
	gs := newTestService()
	if _, err := gs.CreateGame("g1", "alice", "white"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	first := &fakeObserver{}
	if err := gs.RegisterConnection("g1", "alice", first); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	second := &fakeObserver{}
	if err := gs.RegisterConnection("g1", "bob", second); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if len(first.messages) != 1 {
		t.Fatalf("existing observer got %d messages, want 1", len(first.messages))
	}
	if len(second.messages) != 1 {
		t.Fatalf("new observer got %d messages, want 1", len(second.messages))
	}

	if _, err := gs.HandleMove("g1", "alice", "e2", "e4"); err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	if len(first.messages) != 2 || len(second.messages) != 2 {
		t.Fatalf("both observers should get the move: %d, %d", len(first.messages), len(second.messages))
	}
}

func TestConcurrentMovesBroadcastInOrder(t *testing.T) {
	gs := newTestService()
	if _, err := gs.CreateGame("g1", "alice", "white"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	obs := &fakeObserver{}
	if err := gs.RegisterConnection("g1", "alice", obs); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}

	moves := [][2]string{{"e2", "e4"}, {"d2", "d4"}, {"g1", "f3"}, {"b1", "c3"}, {"c2", "c4"}, {"h2", "h3"}}
	var wg sync.WaitGroup
	for round := 0; round < 3; round++ {
		for _, m := range moves {
			wg.Add(1)
			go func() {
				defer wg.Done()
				// Most of these race for the same turn and are rejected.
				_, _ = gs.HandleMove("g1", "alice", m[0], m[1])
			}()
		}
		wg.Wait()
	}

	final, err := gs.GetGameState("g1")
	if err != nil {
		t.Fatalf("GetGameState: %v", err)
	}
	if len(final.MoveHistory) < 2 {
		t.Fatalf("expected at least one move to be played, got %v", final.MoveHistory)
	}
	prev := -1
	for i, msg := range obs.messages {
		var state GameState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("decode message %d: %v", i, err)
		}
		if len(state.MoveHistory) <= prev {
			t.Fatalf("message %d has %d moves after one with %d", i, len(state.MoveHistory), prev)
		}
		prev = len(state.MoveHistory)
	}
	if got := obs.lastState(t); strings.Join(got.MoveHistory, " ") != strings.Join(final.MoveHistory, " ") {
		t.Fatalf("observer ended on %v, game is at %v", got.MoveHistory, final.MoveHistory)
	}
}

func TestFailingObserverIsDropped(t *testing.T) {
	gs := newTestService()
	if _, err := gs.CreateGame("g1", "alice", "white"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	obs := &fakeObserver{failing: true}
	if err := gs.RegisterConnection("g1", "bob", obs); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if !obs.closed {
		t.Fatalf("failing observer should be closed")
	}
	if err := gs.RegisterConnection("g1", "bob", &fakeObserver{}); err != nil {
		t.Fatalf("dropped observer should free its slot: %v", err)
	}
}

func TestListAndDeleteGames(t *testing.T) {
	gs := newTestService()
	for _, id := range []string{"c", "a", "b"} {
		if _, err := gs.CreateGame(id, "alice", "white"); err != nil {
			t.Fatalf("CreateGame(%s): %v", id, err)
		}
	}
	if got := strings.Join(gs.ListGames(), ","); got != "a,b,c" {
		t.Fatalf("ListGames: got %s", got)
	}

	obs := &fakeObserver{}
	if err := gs.RegisterConnection("b", "alice", obs); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if err := gs.DeleteGame("b", "bob"); !errors.Is(err, ErrNotPlayer) {
		t.Fatalf("expected ErrNotPlayer, got %v", err)
	}
	if err := gs.DeleteGame("b", "alice"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if !obs.closed {
		t.Fatalf("observer of a deleted game should be closed")
	}
	if _, err := gs.GetGameState("b"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	if err := gs.DeleteGame("b", "alice"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestLegalMovesAndPGN(t *testing.T) {
	gs := newTestService()
	if _, err := gs.CreateGame("g1", "alice", "black"); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}

	moves, err := gs.LegalMoves("g1", "e7")
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	if strings.Join(moves, ",") != "e6,e5" {
		t.Fatalf("e7 moves: got %v", moves)
	}
	if moves, _ := gs.LegalMoves("g1", "e2"); len(moves) != 0 {
		t.Fatalf("side not to move has moves: %v", moves)
	}
	if _, err := gs.LegalMoves("g1", "z1"); !errors.Is(err, notation.ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare, got %v", err)
	}

	pgn, err := gs.PGN("g1")
	if err != nil {
		t.Fatalf("PGN: %v", err)
	}
	for _, want := range []string{`[White "Engine"]`, `[Black "Human"]`, "a3"} {
		if !strings.Contains(pgn, want) {
			t.Fatalf("PGN missing %q:\n%s", want, pgn)
		}
	}
}
