package engine

import (
	"testing"

	"github.com/chessplay/engine/internal/board"
)

func TestProbeEndgameKXK(t *testing.T) {
	// White king and queen versus a lone black king: White should score
	// as a known, comfortable win.
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	v, ok := probeEndgame(pos)
	if !ok {
		t.Fatal("expected KXK to be recognized")
	}
	if v <= 0 {
		t.Errorf("expected a positive (White-favoring) score, got %d", v)
	}
}

func TestProbeEndgameKXKFromBlacksSide(t *testing.T) {
	// Same material but mirrored: Black has the queen, so the score
	// should come back negative (bad for White).
	pos, err := board.ParseFEN("3qk3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	v, ok := probeEndgame(pos)
	if !ok {
		t.Fatal("expected KXK to be recognized")
	}
	if v >= 0 {
		t.Errorf("expected a negative (Black-favoring) score, got %d", v)
	}
}

func TestProbeEndgameKBNKNotTriggeredByBareKnight(t *testing.T) {
	// Lone knight can't force mate; must not be claimed as KXK or KBNK.
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3NK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if _, ok := probeEndgame(pos); ok {
		t.Error("a lone knight should not be recognized as a forced win")
	}
}

func TestProbeEndgameKPKUnopposedPawn(t *testing.T) {
	// White pawn on a6 about to queen, Black king far away on the other
	// wing: should be recognized as a winning KPK.
	pos, err := board.ParseFEN("7k/8/P7/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	v, ok := probeEndgame(pos)
	if !ok {
		t.Fatal("expected KPK to be recognized as a win for the far-advanced pawn")
	}
	if v <= 0 {
		t.Errorf("expected a positive score, got %d", v)
	}
}

func TestProbeEndgameKRKP(t *testing.T) {
	// White rook versus lone black pawn on b2, one step from queening but
	// with the black king too far away to support it: should be a
	// recognized rook win.
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/1p6/R3K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	v, ok := probeEndgame(pos)
	if !ok {
		t.Fatal("expected KRKP to be recognized")
	}
	if v <= 0 {
		t.Errorf("expected a positive (rook-favoring) score, got %d", v)
	}
}

func TestEvaluateUsesEndgameProbe(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if v := Evaluate(pos); v <= 0 {
		t.Errorf("Evaluate should route through probeEndgame and return a positive score, got %d", v)
	}
}
