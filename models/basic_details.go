package models

import (
	"strings"
	"time"
)

// BasicDetails is the profile block of one product. Its id is the product name.
type BasicDetails struct {
	Base      `bson:",inline"`
	Bio       string            `bson:"bio" json:"bio" validate:"max=1000"`
	Email     string            `bson:"email" json:"email" validate:"omitempty,email"`
	Mobile    string            `bson:"mobile" json:"mobile" validate:"omitempty,mobile"`
	Skills    []string          `bson:"skills" json:"skills" validate:"dive,required"`
	Resume    string            `bson:"resume,omitempty" json:"resume,omitempty" validate:"omitempty,url"`
	Socials   map[string]string `bson:"socials" json:"socials" validate:"dive,keys,required,endkeys,omitempty,weburl"`
	UpdatedBy []UpdatedBy       `bson:"updatedBy" json:"updatedBy"`
}

type UpdatedBy struct {
	DateTime time.Time `bson:"dateTime" json:"dateTime"`
	User     string    `bson:"user" json:"user"`
}

// TagSet is the list of tags offered for one tag type ("blog", "project", "skills").
type TagSet struct {
	Base `bson:",inline"`
	Tags []string `bson:"tags" json:"tags"`
}

// Merge adds tags that are not present yet, comparing case-insensitively, and
// returns how many were added.
func (t *TagSet) Merge(tags ...string) int {
	seen := make(map[string]struct{}, len(t.Tags))
	for _, tag := range t.Tags {
		seen[normalizeTag(tag)] = struct{}{}
	}
	added := 0
	for _, tag := range tags {
		key := normalizeTag(tag)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		t.Tags = append(t.Tags, trimTag(tag))
		added++
	}
	return added
}

// Remove drops a tag, comparing case-insensitively.
func (t *TagSet) Remove(tag string) bool {
	key := normalizeTag(tag)
	for i, existing := range t.Tags {
		if normalizeTag(existing) == key {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return true
		}
	}
	return false
}

func normalizeTag(tag string) string {
	return strings.ToLower(trimTag(tag))
}

func trimTag(tag string) string {
	return strings.TrimSpace(tag)
}
