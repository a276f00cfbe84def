package domain

import (
	"errors"
	"testing"
)

func TestParseUpdatableField_AcceptsWhitelist(t *testing.T) {
	for _, f := range UpdatableFields() {
		got, ok := ParseUpdatableField(string(f))
		if !ok {
			t.Errorf("expected %q to be updatable", f)
		}
		if got != f {
			t.Errorf("expected %q, got %q", f, got)
		}
	}
	if n := len(UpdatableFields()); n != 13 {
		t.Errorf("expected 13 updatable fields, got %d", n)
	}
}

func TestParseUpdatableField_RejectsProtectedKeys(t *testing.T) {
	for _, key := range []string{KeyPassword, KeyRole, KeyArtistID, KeyUpdatedAt, "_id", "createdAt", "Username", ""} {
		if _, ok := ParseUpdatableField(key); ok {
			t.Errorf("expected %q to be rejected", key)
		}
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("64b7f0c2a1b2c3d4e5f60718")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.Hex() != "64b7f0c2a1b2c3d4e5f60718" {
		t.Errorf("round trip mismatch: %s", id.Hex())
	}

	for _, bad := range []string{"", "123", "not-an-object-id", "64b7f0c2a1b2c3d4e5f6071z", "64b7f0c2a1b2c3d4e5f607181"} {
		if _, err := ParseID(bad); err != ErrMalformedID {
			t.Errorf("ParseID(%q): expected ErrMalformedID, got %v", bad, err)
		}
	}
}

func TestAccount_HasArtist(t *testing.T) {
	var a Account
	if a.HasArtist() {
		t.Fatal("zero account must not have an artist")
	}
	id, _ := ParseID("64b7f0c2a1b2c3d4e5f60718")
	a.ArtistID = &id
	if !a.HasArtist() {
		t.Fatal("expected linked account to report an artist")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleBand, RoleAdmin} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	for _, r := range []Role{"", "Admin", "moderator"} {
		if r.Valid() {
			t.Errorf("%q should be invalid", r)
		}
	}
}

func TestUpdatableField_Coerce(t *testing.T) {
	tests := []struct {
		field UpdatableField
		in    any
		ok    bool
	}{
		{FieldUsername, "fan", true},
		{FieldUsername, nil, true},
		{FieldUsername, float64(123), false},
		{FieldEmail, true, false},
		{FieldFollowing, []any{"a", "b"}, true},
		{FieldFollowing, []string{"a"}, true},
		{FieldFollowing, nil, true},
		{FieldFollowing, "a", false},
		{FieldLikedTracks, []any{"t1", float64(2)}, false},
		{FieldSocialLinks, map[string]any{"site": "x"}, true},
		{FieldSocialLinks, "x", false},
		{FieldPurchaseHistory, []any{map[string]any{"trackId": "t1"}}, true},
		{FieldPurchaseHistory, []any{"t1"}, false},
		{FieldPurchaseHistory, map[string]any{}, false},
	}
	for _, tt := range tests {
		got, err := tt.field.Coerce(tt.in)
		if tt.ok && err != nil {
			t.Errorf("%s(%#v): unexpected error %v", tt.field, tt.in, err)
		}
		if !tt.ok {
			if !errors.Is(err, ErrInvalidFieldValue) {
				t.Errorf("%s(%#v): expected ErrInvalidFieldValue, got %v", tt.field, tt.in, err)
			}
			continue
		}
		if tt.field.Kind() == KindStringSet {
			if _, isSet := got.([]string); !isSet {
				t.Errorf("%s(%#v): expected []string, got %T", tt.field, tt.in, got)
			}
		}
	}
}

func TestAccount_FillEmptySets(t *testing.T) {
	var a Account
	a.FillEmptySets()
	if a.Following == nil || a.LikedTracks == nil {
		t.Fatalf("expected empty sets, got %#v / %#v", a.Following, a.LikedTracks)
	}

	b := Account{Following: []string{"artist-1"}}
	b.FillEmptySets()
	if len(b.Following) != 1 || b.Following[0] != "artist-1" {
		t.Errorf("existing members must be kept, got %v", b.Following)
	}
}
