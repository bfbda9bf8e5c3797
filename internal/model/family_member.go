package model

// FamilyMember is a person chores can be assigned to. Name is the join key
// to Chore.Assignee and is unique case-insensitively within a family.
type FamilyMember struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Avatar string `json:"avatar"`
}
