package pagination

import "testing"

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2025-06-15T10:00:00Z"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	cursor, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cursor.ID != "42" || cursor.CreatedAt != "2025-06-15T10:00:00Z" {
		t.Fatalf("cursor = %+v", cursor)
	}
}

func TestDecodeCursorEmptyToken(t *testing.T) {
	cursor, err := DecodeCursor("  ")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cursor.ID != "" {
		t.Fatalf("cursor = %+v, want zero value", cursor)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	if _, err := DecodeCursor("!!not-base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestBuildCursorPageInfo(t *testing.T) {
	token := func(v int) string { return "t" }

	if info := BuildCursorPageInfo([]int{1, 2}, 3, token); info.HasMore {
		t.Fatal("short page must not report more")
	}
	if info := BuildCursorPageInfo([]int{1, 2, 3}, 3, token); info.HasMore {
		t.Fatal("exact page must not report more")
	}

	info := BuildCursorPageInfo([]int{1, 2, 3, 4}, 3, token)
	if !info.HasMore {
		t.Fatal("overfetched page must report more")
	}
	if info.NextPageToken != "t" {
		t.Fatalf("token = %q, want t", info.NextPageToken)
	}
}
