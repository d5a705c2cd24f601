package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ivankudzin/naranja/internal/domain/model"
	"github.com/ivankudzin/naranja/internal/repo/rowmap"
	"github.com/ivankudzin/naranja/internal/repo/rowstore"
	channelssvc "github.com/ivankudzin/naranja/internal/services/channels"
	interestssvc "github.com/ivankudzin/naranja/internal/services/interests"
	limitssvc "github.com/ivankudzin/naranja/internal/services/limits"
	profilessvc "github.com/ivankudzin/naranja/internal/services/profiles"
)

type fixture struct {
	store    *rowstore.Memory
	service  *Service
	channels *channelssvc.Service
}

func newFixture(t *testing.T, ordering Ordering) fixture {
	t.Helper()

	store := rowstore.NewMemoryWithSchema()
	profiles := profilessvc.NewService(store)
	for _, id := range []string{"u1", "u2", "u3"} {
		seedProfile(t, store, id)
	}

	channels := channelssvc.NewService(store)
	service := NewService(Dependencies{
		Store:    store,
		Ledger:   interestssvc.NewService(store),
		Profiles: profiles,
		Channels: channels,
		Limiter:  limitssvc.NewService(limitssvc.NewMemoryCounter(), limitssvc.Config{FreeLikesPerDay: 2}),
		Logger:   zap.NewNop(),
	}, Config{Ordering: ordering})

	return fixture{store: store, service: service, channels: channels}
}

func seedProfile(t *testing.T, store rowstore.Store, id string) {
	t.Helper()
	p := model.Profile{
		ID:              id,
		DisplayName:     "user " + id,
		Gender:          "female",
		Orientation:     "bisexual",
		AcceptsMatching: true,
		CreatedAt:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if _, err := store.Insert(context.Background(), model.TableProfiles, rowmap.ProfileRecord(p)); err != nil {
		t.Fatalf("seed profile %s: %v", id, err)
	}
}

func bothOrderings(t *testing.T, fn func(t *testing.T, ordering Ordering)) {
	for _, ordering := range []Ordering{OrderingCheckFirst, OrderingRecordFirst} {
		t.Run(string(ordering), func(t *testing.T) { fn(t, ordering) })
	}
}

func TestReciprocitySymmetry(t *testing.T) {
	bothOrderings(t, func(t *testing.T, ordering Ordering) {
		f := newFixture(t, ordering)
		ctx := context.Background()

		first, err := f.service.ProcessLike(ctx, "u1", "u2")
		if err != nil {
			t.Fatalf("u1 likes u2: %v", err)
		}
		if first.Matched || first.Profile != nil || first.ChannelID != "" {
			t.Fatalf("one-sided like must not match: %+v", first)
		}
		if got := f.store.Len(model.TableInterests); got != 1 {
			t.Fatalf("expected one ledger row, got %d", got)
		}

		second, err := f.service.ProcessLike(ctx, "u2", "u1")
		if err != nil {
			t.Fatalf("u2 likes u1: %v", err)
		}
		if !second.Matched {
			t.Fatalf("reciprocal like must match")
		}
		if second.Profile == nil || second.Profile.ID != "u1" {
			t.Fatalf("expected u1's profile, got %+v", second.Profile)
		}
		if second.ChannelID == "" {
			t.Fatalf("expected a direct channel for the match")
		}

		for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}} {
			id, err := f.channels.ResolveDirectChannel(ctx, pair[0], pair[1])
			if err != nil {
				t.Fatalf("resolve channel %v: %v", pair, err)
			}
			if id != second.ChannelID {
				t.Fatalf("channel for %v differs: %s vs %s", pair, id, second.ChannelID)
			}
		}

		for _, user := range []string{"u1", "u2"} {
			ok, err := f.service.CanChat(ctx, user, "u3")
			if err != nil || ok {
				t.Fatalf("no match with u3 expected: ok=%v err=%v", ok, err)
			}
		}
		if ok, err := f.service.CanChat(ctx, "u2", "u1"); err != nil || !ok {
			t.Fatalf("match must be discoverable: ok=%v err=%v", ok, err)
		}
	})
}

func TestPassNeverMatches(t *testing.T) {
	f := newFixture(t, OrderingRecordFirst)
	ctx := context.Background()

	if _, err := f.service.ProcessLike(ctx, "u2", "u1"); err != nil {
		t.Fatalf("u2 likes u1: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := f.service.ProcessPass(ctx, "u1", "u2"); err != nil {
			t.Fatalf("pass #%d: %v", i+1, err)
		}
	}
	if got := f.store.Len(model.TableMatches); got != 0 {
		t.Fatalf("passes must not create matches, got %d", got)
	}
}

func TestRepeatedMatchKeepsOneRecord(t *testing.T) {
	f := newFixture(t, OrderingRecordFirst)
	ctx := context.Background()

	for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}, {"u1", "u2"}} {
		if _, err := f.service.ProcessLike(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("like %v: %v", pair, err)
		}
	}
	if got := f.store.Len(model.TableMatches); got != 1 {
		t.Fatalf("expected one match record, got %d", got)
	}
	if got := f.store.Len(model.TableChannels); got != 1 {
		t.Fatalf("expected one channel, got %d", got)
	}
}

type ledgerStub struct {
	reciprocal bool
	readErr    error
	writeErr   error
	writes     int
	order      []string
}

func (l *ledgerStub) RecordInterest(context.Context, string, string, model.Disposition) error {
	l.order = append(l.order, "record")
	l.writes++
	return l.writeErr
}

func (l *ledgerStub) HasReciprocalLike(context.Context, string, string) (bool, error) {
	l.order = append(l.order, "check")
	return l.reciprocal, l.readErr
}

func TestNoFalseMatchOnWriteFailure(t *testing.T) {
	bothOrderings(t, func(t *testing.T, ordering Ordering) {
		ledger := &ledgerStub{reciprocal: true, writeErr: errors.New("insert failed")}
		service := NewService(Dependencies{Ledger: ledger}, Config{Ordering: ordering})

		outcome, err := service.ProcessLike(context.Background(), "u1", "u2")
		if err == nil {
			t.Fatalf("expected write error")
		}
		if outcome.Matched {
			t.Fatalf("failed write must not report a match")
		}
	})
}

func TestOrderingControlsCheckPosition(t *testing.T) {
	cases := map[Ordering][]string{
		OrderingCheckFirst:  {"check", "record"},
		OrderingRecordFirst: {"record", "check"},
		"":                  {"record", "check"},
	}
	for ordering, want := range cases {
		ledger := &ledgerStub{}
		service := NewService(Dependencies{Ledger: ledger}, Config{Ordering: ordering})

		if _, err := service.ProcessLike(context.Background(), "u1", "u2"); err != nil {
			t.Fatalf("process like (%q): %v", ordering, err)
		}
		if len(ledger.order) != 2 || ledger.order[0] != want[0] || ledger.order[1] != want[1] {
			t.Fatalf("ordering %q: got %v want %v", ordering, ledger.order, want)
		}
	}
}

func TestFailedReciprocityReadStillRecords(t *testing.T) {
	bothOrderings(t, func(t *testing.T, ordering Ordering) {
		ledger := &ledgerStub{reciprocal: true, readErr: errors.New("timeout")}
		service := NewService(Dependencies{Ledger: ledger}, Config{Ordering: ordering})

		outcome, err := service.ProcessLike(context.Background(), "u1", "u2")
		if err != nil {
			t.Fatalf("read failure must not fail the like: %v", err)
		}
		if outcome.Matched || ledger.writes != 1 {
			t.Fatalf("unexpected outcome=%+v writes=%d", outcome, ledger.writes)
		}
	})
}

type profilesStub struct{}

func (profilesStub) Get(context.Context, string) (model.Profile, error) {
	return model.Profile{}, errors.New("profile fetch failed")
}

func (profilesStub) GetMany(context.Context, []string) (map[string]model.Profile, error) {
	return nil, errors.New("profile fetch failed")
}

func TestProfileFetchFailureDowngrades(t *testing.T) {
	store := rowstore.NewMemoryWithSchema()
	service := NewService(Dependencies{
		Store:    store,
		Ledger:   &ledgerStub{reciprocal: true},
		Profiles: profilesStub{},
		Channels: channelssvc.NewService(store),
	}, Config{})

	outcome, err := service.ProcessLike(context.Background(), "u1", "u2")
	if err != nil {
		t.Fatalf("process like: %v", err)
	}
	if !outcome.Matched || outcome.Profile != nil {
		t.Fatalf("expected matched without profile, got %+v", outcome)
	}
	if outcome.ChannelID == "" {
		t.Fatalf("channel must still be resolved")
	}

	views, err := service.ListMatches(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(views) != 1 || views[0].Profile != nil {
		t.Fatalf("expected one match without profile, got %+v", views)
	}
}

func TestLikeWithQuota(t *testing.T) {
	f := newFixture(t, OrderingRecordFirst)
	ctx := context.Background()

	_, status, err := f.service.LikeWithQuota(ctx, "u1", "u2", false)
	if err != nil {
		t.Fatalf("like #1: %v", err)
	}
	if status.Remaining != 1 {
		t.Fatalf("expected 1 like left, got %+v", status)
	}

	if _, _, err := f.service.LikeWithQuota(ctx, "u1", "u3", false); err != nil {
		t.Fatalf("like #2: %v", err)
	}

	_, status, err = f.service.LikeWithQuota(ctx, "u1", "u3", false)
	if !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("expected ErrDailyLimit, got %v", err)
	}
	if status.Allowed || status.Remaining != 0 {
		t.Fatalf("unexpected exhausted status: %+v", status)
	}
	if got := f.store.Len(model.TableInterests); got != 2 {
		t.Fatalf("blocked like must not be recorded, got %d rows", got)
	}

	outcome, status, err := f.service.LikeWithQuota(ctx, "u2", "u1", true)
	if err != nil {
		t.Fatalf("premium like: %v", err)
	}
	if !outcome.Matched || status.Remaining != -1 {
		t.Fatalf("unexpected premium result: %+v %+v", outcome, status)
	}
}

func TestLikeWithQuotaRefundsFailedLike(t *testing.T) {
	f := newFixture(t, OrderingRecordFirst)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := f.service.LikeWithQuota(ctx, "u1", " ", false); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	}

	_, status, err := f.service.LikeWithQuota(ctx, "u1", "u2", false)
	if err != nil {
		t.Fatalf("like after failed attempts: %v", err)
	}
	if status.Remaining != 1 {
		t.Fatalf("failed likes must not use the allowance, got %+v", status)
	}
}

func TestUnmatchAndRematch(t *testing.T) {
	f := newFixture(t, OrderingRecordFirst)
	ctx := context.Background()

	for _, pair := range [][2]string{{"u1", "u2"}, {"u2", "u1"}, {"u3", "u1"}, {"u1", "u3"}} {
		if _, err := f.service.ProcessLike(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("like %v: %v", pair, err)
		}
	}

	views, err := f.service.ListMatches(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(views))
	}
	for _, v := range views {
		if v.Profile == nil || v.Profile.ID != v.Match.Counterpart("u1") {
			t.Fatalf("expected counterpart profile, got %+v", v)
		}
	}

	removed, err := f.service.Unmatch(ctx, "u2", "u1")
	if err != nil || !removed {
		t.Fatalf("unmatch: removed=%v err=%v", removed, err)
	}
	removed, err = f.service.Unmatch(ctx, "u2", "u1")
	if err != nil || removed {
		t.Fatalf("second unmatch must report false: removed=%v err=%v", removed, err)
	}

	views, err = f.service.ListMatches(ctx, "u1", 0)
	if err != nil || len(views) != 1 || views[0].Match.Counterpart("u1") != "u3" {
		t.Fatalf("unmatched pair must be hidden: %+v err=%v", views, err)
	}
	if ok, _ := f.service.CanChat(ctx, "u1", "u2"); ok {
		t.Fatalf("unmatched users must not chat")
	}

	if _, err := f.service.ProcessLike(ctx, "u1", "u2"); err != nil {
		t.Fatalf("like again: %v", err)
	}
	if ok, _ := f.service.CanChat(ctx, "u1", "u2"); !ok {
		t.Fatalf("a new reciprocal like reactivates the match")
	}
	if got := f.store.Len(model.TableMatches); got != 2 {
		t.Fatalf("reactivation must reuse the row, got %d", got)
	}
}
