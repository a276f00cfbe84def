package domain

import "fmt"

// UpdatableField names an account attribute that a generic update may write.
// The set is closed: anything ParseUpdatableField rejects is never persisted
// through Update, which is how password and role stay write-protected.
type UpdatableField string

const (
	FieldUsername        UpdatableField = "username"
	FieldProfileImage    UpdatableField = "profileImage"
	FieldBannerImage     UpdatableField = "bannerImage"
	FieldBio             UpdatableField = "bio"
	FieldSocialLinks     UpdatableField = "socialLinks"
	FieldBandName        UpdatableField = "bandName"
	FieldGenre           UpdatableField = "genre"
	FieldWebsite         UpdatableField = "website"
	FieldFollowers       UpdatableField = "followers"
	FieldPurchaseHistory UpdatableField = "purchaseHistory"
	FieldLikedTracks     UpdatableField = "likedTracks"
	FieldFollowing       UpdatableField = "following"
	FieldEmail           UpdatableField = "email"
)

// UpdatableFields lists every member of the whitelist.
func UpdatableFields() []UpdatableField {
	return []UpdatableField{
		FieldUsername,
		FieldProfileImage,
		FieldBannerImage,
		FieldBio,
		FieldSocialLinks,
		FieldBandName,
		FieldGenre,
		FieldWebsite,
		FieldFollowers,
		FieldPurchaseHistory,
		FieldLikedTracks,
		FieldFollowing,
		FieldEmail,
	}
}

// ParseUpdatableField maps an attribute name to its whitelist entry.
func ParseUpdatableField(key string) (UpdatableField, bool) {
	switch f := UpdatableField(key); f {
	case FieldUsername,
		FieldProfileImage,
		FieldBannerImage,
		FieldBio,
		FieldSocialLinks,
		FieldBandName,
		FieldGenre,
		FieldWebsite,
		FieldFollowers,
		FieldPurchaseHistory,
		FieldLikedTracks,
		FieldFollowing,
		FieldEmail:
		return f, true
	}
	return "", false
}

// Key returns the document key the field is stored under.
func (f UpdatableField) Key() string {
	return string(f)
}

// FieldKind is the stored shape of an updatable field.
type FieldKind int

const (
	KindString FieldKind = iota
	KindStringSet
	KindDocument
	KindDocumentList
)

// Kind reports the shape values of f must have.
func (f UpdatableField) Kind() FieldKind {
	switch f {
	case FieldFollowers, FieldLikedTracks, FieldFollowing:
		return KindStringSet
	case FieldSocialLinks:
		return KindDocument
	case FieldPurchaseHistory:
		return KindDocumentList
	default:
		return KindString
	}
}

// Coerce converts v into the Go type the field is stored as, so a written
// document always decodes back into Account. Null clears the field.
// Values of the wrong shape are rejected with ErrInvalidFieldValue.
func (f UpdatableField) Coerce(v any) (any, error) {
	switch f.Kind() {
	case KindString:
		switch s := v.(type) {
		case nil:
			return "", nil
		case string:
			return s, nil
		}
	case KindStringSet:
		switch s := v.(type) {
		case nil:
			return []string{}, nil
		case []string:
			return s, nil
		case []any:
			out := make([]string, 0, len(s))
			for _, item := range s {
				str, ok := item.(string)
				if !ok {
					return nil, f.invalid()
				}
				out = append(out, str)
			}
			return out, nil
		}
	case KindDocument:
		switch d := v.(type) {
		case nil:
			return map[string]any(nil), nil
		case map[string]any:
			return d, nil
		}
	case KindDocumentList:
		switch l := v.(type) {
		case nil:
			return []map[string]any(nil), nil
		case []map[string]any:
			return l, nil
		case []any:
			out := make([]map[string]any, 0, len(l))
			for _, item := range l {
				doc, ok := item.(map[string]any)
				if !ok {
					return nil, f.invalid()
				}
				out = append(out, doc)
			}
			return out, nil
		}
	}
	return nil, f.invalid()
}

func (f UpdatableField) invalid() error {
	return fmt.Errorf("%w: %s", ErrInvalidFieldValue, f)
}
