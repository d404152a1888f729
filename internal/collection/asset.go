// Package collection holds each player's bounded, ordered set of skin assets.
package collection

// Asset is one skin owned by a player: the signed texture returned by the
// generation service plus a display name and a creation-time id.
// Records are immutable; a re-upload of the same texture is the same asset
// regardless of name or id.
type Asset struct {
	Name      string `json:"name"`
	ID        int64  `json:"id"` // unix milliseconds at creation, primary key within a collection
	Texture   string `json:"texture"`
	Signature string `json:"signature"`
}

// Collection is a player's assets in insertion order plus the id of the
// currently applied one, if any.
type Collection struct {
	Assets   []Asset `json:"assets"`
	ActiveID *int64  `json:"activeSkinId,omitempty"`
}

// ByID returns the asset with the given id.
func (c *Collection) ByID(id int64) (Asset, bool) {
	for _, a := range c.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Asset{}, false
}

func (c *Collection) hasTexture(texture string) bool {
	for _, a := range c.Assets {
		if a.Texture == texture {
			return true
		}
	}
	return false
}
