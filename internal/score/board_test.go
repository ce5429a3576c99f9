package score

import (
	"errors"
	"reflect"
	"testing"
)

func boardWith(scores ...int) *Board {
	b := NewBoard(len(scores))
	for i, s := range scores {
		for j := 0; j < s; j++ {
			_ = b.Increment(i)
		}
	}
	return b
}

func TestWinners(t *testing.T) {
	cases := []struct {
		scores []int
		want   []int
	}{
		{[]int{3, 1, 3, 0}, []int{0, 2}},
		{[]int{0, 0, 0, 0}, []int{0, 1, 2, 3}},
		{[]int{0, 5, 1, 2}, []int{1}},
		{[]int{2}, []int{0}},
	}
	for _, c := range cases {
		got := boardWith(c.scores...).Winners()
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Winners(%v) = %v, want %v", c.scores, got, c.want)
		}
	}
}

func TestIncrementOutOfRange(t *testing.T) {
	b := NewBoard(4)
	for _, i := range []int{-1, 4, 100} {
		if err := b.Increment(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Increment(%d) err = %v, want ErrIndexOutOfRange", i, err)
		}
	}
	if got := b.Scores(); !reflect.DeepEqual(got, []int{0, 0, 0, 0}) {
		t.Errorf("scores changed: %v", got)
	}
}

func TestIncrementRespectsPlayerCount(t *testing.T) {
	b := NewBoard(2)
	if err := b.Increment(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Increment(2) on 2-player board err = %v", err)
	}
	if err := b.Increment(1); err != nil {
		t.Errorf("Increment(1): %v", err)
	}
	if b.Score(1) != 1 {
		t.Errorf("Score(1) = %d, want 1", b.Score(1))
	}
}

func TestResetZeroesAndClamps(t *testing.T) {
	b := boardWith(1, 2, 3, 4)
	b.Reset(9)
	if b.Players() != MaxPlayers {
		t.Errorf("Players = %d, want %d", b.Players(), MaxPlayers)
	}
	if got := b.Scores(); !reflect.DeepEqual(got, []int{0, 0, 0, 0}) {
		t.Errorf("scores after reset = %v", got)
	}
	b.Reset(0)
	if b.Players() != 1 {
		t.Errorf("Players = %d, want 1", b.Players())
	}
}

func TestScoresIsCopy(t *testing.T) {
	b := boardWith(1, 0)
	s := b.Scores()
	s[0] = 99
	if b.Score(0) != 1 {
		t.Error("Scores() exposed internal slice")
	}
}

func TestAnnounce(t *testing.T) {
	cases := map[string][]int{
		"":                           nil,
		"Player 1 Wins!":             {0},
		"Players 1 & 3 Tie!":         {0, 2},
		"Players 1 & 2 & 3 & 4 Tie!": {0, 1, 2, 3},
	}
	for want, winners := range cases {
		if got := Announce(winners); got != want {
			t.Errorf("Announce(%v) = %q, want %q", winners, got, want)
		}
	}
}
