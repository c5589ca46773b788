package domain

import (
	"sort"
	"time"
)

// Profile is an account member. Exactly one profile per account is the root.
type Profile struct {
	ProfileID     string             `json:"profileId" yaml:"profileId"`
	Root          bool               `json:"root" yaml:"root"`
	Name          *ProfileName       `json:"name,omitempty" yaml:"name,omitempty"`
	Email         []ProfileEmail     `json:"email,omitempty" yaml:"email,omitempty"`
	Preference    *ProfilePreference `json:"preference,omitempty" yaml:"preference,omitempty"`
	Questionnaire *Questionnaire     `json:"questionnaire,omitempty" yaml:"questionnaire,omitempty"`
}

type ProfileName struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
}

type ProfileEmail struct {
	Email    string     `json:"email" yaml:"email"`
	Datetime *time.Time `json:"datetime,omitempty" yaml:"datetime,omitempty"`
}

type ProfilePreference struct {
	Language string `json:"language" yaml:"language"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// RootProfile returns the account's root profile.
func RootProfile(profiles []Profile) (Profile, bool) {
	for _, p := range profiles {
		if p.Root {
			return p, true
		}
	}
	return Profile{}, false
}

// StandardProfiles returns the non-root profiles, newest email registration
// first. Profiles without a dated email keep their relative order at the end.
func StandardProfiles(profiles []Profile) []Profile {
	result := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		if !p.Root {
			result = append(result, p)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, aok := result[i].registeredAt()
		b, bok := result[j].registeredAt()
		if aok != bok {
			return aok
		}
		return aok && a.After(b)
	})
	return result
}

// registeredAt is the datetime of the first email that has one.
func (p Profile) registeredAt() (time.Time, bool) {
	for _, e := range p.Email {
		if e.Datetime != nil {
			return *e.Datetime, true
		}
	}
	return time.Time{}, false
}
