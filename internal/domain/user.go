package domain

import "time"

// User is the client-side view of a member record. The upstream API is the
// source of truth; this struct is only a cache of what it last returned.
type User struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	Location       string    `json:"location,omitempty"`
	Education      string    `json:"education,omitempty"`
	Occupation     string    `json:"occupation,omitempty"`
	Religion       string    `json:"religion,omitempty"`
	MotherTongue   string    `json:"motherTongue,omitempty"`
	MaritalStatus  string    `json:"maritalStatus,omitempty"`
	About          string    `json:"about,omitempty"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// ProfileFields are the editable text fields of a user's own record.
// Empty strings mean "leave unchanged" when merged into a cached User.
type ProfileFields struct {
	Name          string `json:"name,omitempty" form:"name"`
	Age           int    `json:"age,omitempty" form:"age"`
	Gender        string `json:"gender,omitempty" form:"gender"`
	Location      string `json:"location,omitempty" form:"location"`
	Education     string `json:"education,omitempty" form:"education"`
	Occupation    string `json:"occupation,omitempty" form:"occupation"`
	Religion      string `json:"religion,omitempty" form:"religion"`
	MotherTongue  string `json:"motherTongue,omitempty" form:"motherTongue"`
	MaritalStatus string `json:"maritalStatus,omitempty" form:"maritalStatus"`
	About         string `json:"about,omitempty" form:"about"`
}

// Merge applies the non-zero fields onto a copy of u and returns it.
func (f ProfileFields) Merge(u User) User {
	if f.Name != "" {
		u.Name = f.Name
	}
	if f.Age != 0 {
		u.Age = f.Age
	}
	if f.Gender != "" {
		u.Gender = f.Gender
	}
	if f.Location != "" {
		u.Location = f.Location
	}
	if f.Education != "" {
		u.Education = f.Education
	}
	if f.Occupation != "" {
		u.Occupation = f.Occupation
	}
	if f.Religion != "" {
		u.Religion = f.Religion
	}
	if f.MotherTongue != "" {
		u.MotherTongue = f.MotherTongue
	}
	if f.MaritalStatus != "" {
		u.MaritalStatus = f.MaritalStatus
	}
	if f.About != "" {
		u.About = f.About
	}
	return u
}
