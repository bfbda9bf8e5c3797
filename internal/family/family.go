// Package family manages the member roster. Members are created implicitly
// the first time a new name shows up in an assignee field and are never
// explicitly deleted.
package family

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/rowanfield/choresheet/internal/model"
)

// palette holds the color tokens members cycle through. A member's token is
// derived from their name, so the same name gets the same color on every
// device without any coordination.
var palette = []string{
	"indigo", "emerald", "amber", "rose", "sky", "violet", "teal", "orange",
}

const avatarURLFormat = "https://picsum.photos/seed/%s/100"

// Color returns the deterministic color token for a member name.
func Color(name string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Avatar returns the deterministic placeholder avatar URL for a member name.
func Avatar(name string) string {
	return fmt.Sprintf(avatarURLFormat, strings.TrimSpace(name))
}

// New builds a member record for a name, deriving color and avatar.
func New(name string) model.FamilyMember {
	name = strings.TrimSpace(name)
	return model.FamilyMember{
		Name:   name,
		Color:  Color(name),
		Avatar: Avatar(name),
	}
}

// Defaults returns the roster a fresh install starts with, before any remote
// data loads.
func Defaults() []model.FamilyMember {
	return []model.FamilyMember{New("Mom"), New("Dad"), New("Kiddo")}
}

// Find returns the member whose name matches case-insensitively, or nil.
func Find(members []model.FamilyMember, name string) *model.FamilyMember {
	name = strings.TrimSpace(name)
	for i := range members {
		if strings.EqualFold(members[i].Name, name) {
			return &members[i]
		}
	}
	return nil
}

// Ensure returns a roster containing a member for name, plus the canonical
// spelling of that name. An existing member wins on casing; the sentinel
// and blank names leave the roster untouched. The input slice is never
// mutated.
func Ensure(members []model.FamilyMember, name string) ([]model.FamilyMember, string) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, model.Unassigned) {
		return members, model.Unassigned
	}
	if existing := Find(members, name); existing != nil {
		return members, existing.Name
	}
	out := make([]model.FamilyMember, 0, len(members)+1)
	out = append(out, members...)
	out = append(out, New(name))
	return out, name
}
