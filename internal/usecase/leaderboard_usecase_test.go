package usecase

import (
	"context"
	"testing"

	"github.com/eslsoft/lingolive/internal/entity"
)

func TestGlobalLeaderboard(t *testing.T) {
	profiles := newFakeProfileRepo()
	profiles.put(entity.Profile{ID: "u1", Username: "ana", TotalXP: 100})
	profiles.put(entity.Profile{ID: "u2", Username: "ben", TotalXP: 300})
	profiles.put(entity.Profile{ID: "u3-long-id", TotalXP: 200})
	uc := NewLeaderboardUsecase(profiles, newFakeGuildRepo(profiles))

	board, err := uc.Global(context.Background(), "u3-long-id")
	if err != nil {
		t.Fatalf("Global returned error: %v", err)
	}
	if len(board.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board.Entries))
	}
	want := []string{"u2", "u3-long-id", "u1"}
	for i, id := range want {
		if board.Entries[i].UserID != id || board.Entries[i].Rank != i+1 {
			t.Errorf("position %d: got %+v", i, board.Entries[i])
		}
	}
	if board.Entries[1].Username != "Useru3-l" {
		t.Errorf("expected fallback username, got %q", board.Entries[1].Username)
	}
	if board.MyRank != 2 {
		t.Errorf("expected my rank 2, got %d", board.MyRank)
	}

	outsider, err := uc.Global(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Global returned error: %v", err)
	}
	if outsider.MyRank != 0 {
		t.Errorf("expected unranked caller, got %d", outsider.MyRank)
	}
}

func TestGuildLeaderboard(t *testing.T) {
	profiles := newFakeProfileRepo()
	guilds := newFakeGuildRepo(profiles)
	ctx := context.Background()
	for _, seed := range []struct {
		id, name, leader string
		xp               int
	}{
		{"g1", "Alpha", "u1", 50},
		{"g2", "Beta", "u2", 900},
		{"g3", "Gamma", "u3", 400},
	} {
		if _, err := guilds.Create(ctx, &entity.Guild{ID: seed.id, Name: seed.name}, &entity.GuildMember{UserID: seed.leader, XP: seed.xp}); err != nil {
			t.Fatalf("seed %s: %v", seed.name, err)
		}
	}
	uc := NewLeaderboardUsecase(profiles, guilds)

	ranked, err := uc.Guilds(ctx)
	if err != nil {
		t.Fatalf("Guilds returned error: %v", err)
	}
	want := []string{"Beta", "Gamma", "Alpha"}
	for i, name := range want {
		if ranked[i].Name != name || ranked[i].Rank != i+1 {
			t.Errorf("position %d: got %+v", i, ranked[i])
		}
	}
}
