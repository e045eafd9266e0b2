package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hatch-crm/mlsdraft/internal/draft"
	"github.com/hatch-crm/mlsdraft/internal/match"
	"github.com/hatch-crm/mlsdraft/internal/schema"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{DBPath: filepath.Join(t.TempDir(), "drafts.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func buildResult(t *testing.T, mls string) draft.Result {
	t.Helper()
	b := draft.NewBuilder(match.DefaultOptions())
	return b.Build(draft.Input{
		Extractions: []schema.ExtractedLabelValue{
			{Label: "MLS Number", Value: mls},
			{Label: "List Price", Value: "$264,800"},
		},
		Source: schema.SourceDescriptor{Vendor: "flexmls"},
	})
}

func TestStore_SaveGetRoundtrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	res := buildResult(t, "2025014110")
	id, err := s.SaveDraft(ctx, res)
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d", id)
	}

	got, err := s.GetDraft(ctx, id)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if got.MLSNumber != "2025014110" || got.Vendor != "flexmls" {
		t.Errorf("stored = %+v", got)
	}
	if got.Result.Draft.Basic.ListPrice == nil || *got.Result.Draft.Basic.ListPrice != 264800 {
		t.Errorf("payload list_price = %v", got.Result.Draft.Basic.ListPrice)
	}
	if len(got.Result.Matches) != len(res.Matches) {
		t.Errorf("matches = %d, want %d", len(got.Result.Matches), len(res.Matches))
	}
	if got.MissingCount != len(res.Draft.Diagnostics.Missing) {
		t.Errorf("missing_count = %d", got.MissingCount)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, mls := range []string{"100001", "100002", "100003"} {
		if _, err := s.SaveDraft(ctx, buildResult(t, mls)); err != nil {
			t.Fatalf("SaveDraft(%s): %v", mls, err)
		}
	}

	drafts, err := s.ListDrafts(ctx, ListOpts{})
	if err != nil {
		t.Fatalf("ListDrafts: %v", err)
	}
	if len(drafts) != 3 {
		t.Fatalf("len = %d", len(drafts))
	}
	if drafts[0].MLSNumber != "100003" || drafts[2].MLSNumber != "100001" {
		t.Errorf("order = %s, %s, %s", drafts[0].MLSNumber, drafts[1].MLSNumber, drafts[2].MLSNumber)
	}

	limited, err := s.ListDrafts(ctx, ListOpts{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("ListDrafts limited: %v", err)
	}
	if len(limited) != 1 || limited[0].MLSNumber != "100002" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestStore_Delete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	id, err := s.SaveDraft(ctx, buildResult(t, "100001"))
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := s.DeleteDraft(ctx, id); err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	if _, err := s.GetDraft(ctx, id); err == nil {
		t.Error("expected not-found after delete")
	}
	if err := s.DeleteDraft(ctx, id); err == nil {
		t.Error("expected not-found for second delete")
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected error for empty db path")
	}
}
