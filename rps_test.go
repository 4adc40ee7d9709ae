package main

import "testing"

// msgTypes lists the envelope types a fake client received, in order
func msgTypes(t *testing.T, c *fakeClient) []string {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	for _, msg := range c.json {
		env, ok := msg.(Envelope)
		if !ok {
			t.Fatalf("unexpected message %T", msg)
		}
		out = append(out, env.T)
	}
	return out
}

func lastOutcome(t *testing.T, c *fakeClient, want string) ResultMsg {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := len(c.json) - 1; i >= 0; i-- {
		env := c.json[i].(Envelope)
		if env.T == want {
			return env.Data.(ResultMsg)
		}
	}
	t.Fatalf("no %s message received", want)
	return ResultMsg{}
}

func TestMatchmakerPairsTwoPlayers(t *testing.T) {
	mm := NewMatchmaker(NewMemStore())
	clientA, clientB := &fakeClient{}, &fakeClient{}

	mm.Join(clientA)
	if mm.WaitingCount() != 1 {
		t.Fatal("first player should park in the lobby")
	}

	mm.Join(clientB)
	if mm.WaitingCount() != 0 {
		t.Fatal("second player should complete a match")
	}

	for _, c := range []*fakeClient{clientA, clientB} {
		types := msgTypes(t, c)
		if len(types) != 1 || types[0] != MsgStart {
			t.Errorf("expected a single start message, got %v", types)
		}
	}
}

func TestMatchResolvesWinLose(t *testing.T) {
	store := NewMemStore()
	mm := NewMatchmaker(store)
	clientA, clientB := &fakeClient{}, &fakeClient{}
	a := mm.Join(clientA)
	b := mm.Join(clientB)

	mm.Guess(a, HandRock)
	if got := msgTypes(t, clientB); len(got) != 1 {
		t.Fatal("match must not resolve until both hands are in")
	}
	mm.Guess(b, HandScissors)

	res := lastOutcome(t, clientA, MsgWin)
	if res.You != HandRock || res.Opponent != HandScissors {
		t.Errorf("winner result = %+v", res)
	}
	lastOutcome(t, clientB, MsgLose)

	typesA := msgTypes(t, clientA)
	foundEnd := false
	for _, ty := range typesA {
		if ty == MsgEnd {
			foundEnd = true
		}
	}
	if !foundEnd {
		t.Error("resolved match should finish with an end message")
	}

	if n := CounterValue(store, KeyGamesPlayed); n != 1 {
		t.Errorf("games played = %d, want 1", n)
	}
}

func TestMatchResolvesDraw(t *testing.T) {
	mm := NewMatchmaker(NewMemStore())
	clientA, clientB := &fakeClient{}, &fakeClient{}
	a := mm.Join(clientA)
	b := mm.Join(clientB)

	mm.Guess(a, HandPaper)
	mm.Guess(b, HandPaper)

	lastOutcome(t, clientA, MsgDraw)
	lastOutcome(t, clientB, MsgDraw)
}

func TestInvalidHandIgnored(t *testing.T) {
	mm := NewMatchmaker(NewMemStore())
	clientA, clientB := &fakeClient{}, &fakeClient{}
	a := mm.Join(clientA)
	b := mm.Join(clientB)

	mm.Guess(a, "dynamite")
	mm.Guess(b, HandRock)

	for _, ty := range msgTypes(t, clientA) {
		if ty == MsgWin || ty == MsgLose || ty == MsgDraw {
			t.Fatal("invalid hand should not count toward resolution")
		}
	}

	// The round still completes once a legal hand arrives
	mm.Guess(a, HandPaper)
	lastOutcome(t, clientA, MsgWin)
}

func TestFinishedPlayersRematch(t *testing.T) {
	mm := NewMatchmaker(NewMemStore())
	clientA, clientB := &fakeClient{}, &fakeClient{}
	a := mm.Join(clientA)
	b := mm.Join(clientB)

	mm.Guess(a, HandRock)
	mm.Guess(b, HandPaper)

	// Both drop back into the lobby and pair up again
	types := msgTypes(t, clientA)
	starts := 0
	for _, ty := range types {
		if ty == MsgStart {
			starts++
		}
	}
	if starts != 2 {
		t.Errorf("expected an automatic rematch start, got %d starts", starts)
	}
}

func TestLeaveEndsMatchForOpponent(t *testing.T) {
	mm := NewMatchmaker(NewMemStore())
	clientA, clientB := &fakeClient{}, &fakeClient{}
	a := mm.Join(clientA)
	mm.Join(clientB)

	mm.Leave(a)

	types := msgTypes(t, clientB)
	if types[len(types)-1] != MsgEnd {
		t.Errorf("deserted opponent should receive end, got %v", types)
	}
	if mm.WaitingCount() != 1 {
		t.Error("deserted opponent should return to the lobby")
	}
}

func TestLeaveFromLobby(t *testing.T) {
	mm := NewMatchmaker(NewMemStore())
	p := mm.Join(&fakeClient{})

	mm.Leave(p)
	if mm.WaitingCount() != 0 {
		t.Error("lobby should be empty after the waiting player leaves")
	}
}
