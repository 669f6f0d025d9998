package direct

import "testing"

func TestNextCursor_ChainOrder(t *testing.T) {
	item := Item{ItemID: "item9", Timestamp: 1700000000000000}

	tests := []struct {
		name   string
		page   *threadPage
		paging *pagingInfo
		want   string
		wantOK bool
	}{
		{
			name: "oldest_cursor wins over everything",
			page: &threadPage{
				OldestCursor: "oldest",
				NextCursor:   "next",
				Items:        []Item{item},
			},
			paging: &pagingInfo{MaxID: "max"},
			want:   "oldest",
			wantOK: true,
		},
		{
			name: "next_cursor when oldest absent",
			page: &threadPage{
				NextCursor: "next",
				Items:      []Item{item},
			},
			paging: &pagingInfo{MaxID: "max"},
			want:   "next",
			wantOK: true,
		},
		{
			name:   "last item timestamp beats paging max_id",
			page:   &threadPage{Items: []Item{item}},
			paging: &pagingInfo{MaxID: "max"},
			want:   "1700000000000000",
			wantOK: true,
		},
		{
			name:   "paging max_id when items carry no timestamp",
			page:   &threadPage{Items: []Item{{ItemID: "item9"}}},
			paging: &pagingInfo{MaxID: "max"},
			want:   "max",
			wantOK: true,
		},
		{
			name:   "last item identifier as last resort",
			page:   &threadPage{Items: []Item{{ClientContext: "ctx7"}}},
			want:   "ctx7",
			wantOK: true,
		},
		{
			name:   "item_id preferred over client_context in fallback",
			page:   &threadPage{Items: []Item{{ItemID: "i1", ClientContext: "ctx"}}},
			want:   "i1",
			wantOK: true,
		},
		{
			name:   "nothing applicable",
			page:   &threadPage{Items: []Item{{}}},
			wantOK: false,
		},
		{
			name:   "nil page",
			page:   nil,
			paging: &pagingInfo{MaxID: "max"},
			wantOK: false,
		},
		{
			name:   "empty items with paging info",
			page:   &threadPage{},
			paging: &pagingInfo{MaxID: "max"},
			want:   "max",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nextCursor(tt.page, tt.paging)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("cursor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextCursor_UsesLastItem(t *testing.T) {
	page := &threadPage{Items: []Item{
		{Timestamp: 300},
		{Timestamp: 200},
		{Timestamp: 100},
	}}

	got, ok := nextCursor(page, nil)
	if !ok {
		t.Fatal("expected a cursor")
	}
	if got != "100" {
		t.Errorf("cursor = %q, want last item's timestamp %q", got, "100")
	}
}

func TestItemIdentifier_ResolutionOrder(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		want   string
		wantOK bool
	}{
		{"item_id first", Item{ItemID: "a", ID: "b", ClientContext: "c"}, "a", true},
		{"generic id second", Item{ID: "b", ClientContext: "c"}, "b", true},
		{"client context last", Item{ClientContext: "c"}, "c", true},
		{"none", Item{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.Identifier()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Identifier() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if got := (Item{}).DisplayID(); got != "unknown" {
		t.Errorf("DisplayID() = %q, want unknown", got)
	}
}
