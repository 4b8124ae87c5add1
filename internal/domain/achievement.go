package domain

import (
	"encoding/json"
	"fmt"
	"math/bits"
)

// AchievementID identifies an entry of the fixed achievement catalogue.
type AchievementID uint8

const (
	ThreatHunter AchievementID = iota
	ShieldsUp
	LatestAndGreatest
	LockedDown
	PerfectScore
	PhishAvoider

	achievementCount
)

// Achievement describes one catalogue entry.
type Achievement struct {
	ID          AchievementID `json:"-"`
	Key         string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
}

var catalog = [achievementCount]Achievement{
	ThreatHunter:      {ThreatHunter, "threat_hunter", "Threat Hunter", "Quarantine or remove your first threat.", "shield-error"},
	ShieldsUp:         {ShieldsUp, "shields_up", "Shields Up!", "Activate the firewall.", "shield"},
	LatestAndGreatest: {LatestAndGreatest, "latest_and_greatest", "Latest & Greatest", "Install all available system updates.", "check-circle"},
	LockedDown:        {LockedDown, "locked_down", "Locked Down", "Configure ransomware protection.", "onedrive"},
	PerfectScore:      {PerfectScore, "perfect_score", "Perfect Score", "Achieve a 100% security score.", "trophy"},
	PhishAvoider:      {PhishAvoider, "phish_avoider", "Phish Avoider", "Successfully avoid a phishing attempt.", "warning"},
}

// Catalog returns the achievement catalogue in declaration order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog[:])
	return out
}

// Valid reports whether id belongs to the catalogue.
func (id AchievementID) Valid() bool {
	return id < achievementCount
}

// Info returns the catalogue entry for id.
func (id AchievementID) Info() (Achievement, bool) {
	if !id.Valid() {
		return Achievement{}, false
	}
	return catalog[id], true
}

func (id AchievementID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("achievement(%d)", uint8(id))
	}
	return catalog[id].Key
}

// ParseAchievement resolves a catalogue key such as "shields_up".
func ParseAchievement(key string) (AchievementID, error) {
	for _, a := range catalog {
		if a.Key == key {
			return a.ID, nil
		}
	}
	return 0, fmt.Errorf("unknown achievement %q", key)
}

// AchievementSet is a bitset over the catalogue. Sets only ever grow:
// With is the single way to add a member.
type AchievementSet uint8

// Has reports membership.
func (s AchievementSet) Has(id AchievementID) bool {
	return id.Valid() && s&(1<<id) != 0
}

// With returns s plus id. Ids outside the catalogue are ignored.
func (s AchievementSet) With(id AchievementID) AchievementSet {
	if !id.Valid() {
		return s
	}
	return s | 1<<id
}

// Contains reports whether every member of other is in s.
func (s AchievementSet) Contains(other AchievementSet) bool {
	return other&^s == 0
}

// Len returns the number of unlocked achievements.
func (s AchievementSet) Len() int {
	return bits.OnesCount8(uint8(s))
}

// IDs lists members in catalogue order.
func (s AchievementSet) IDs() []AchievementID {
	out := make([]AchievementID, 0, s.Len())
	for id := AchievementID(0); id < achievementCount; id++ {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Added lists the members of s that are not in prev.
func (s AchievementSet) Added(prev AchievementSet) []AchievementID {
	return (s &^ prev).IDs()
}

// MarshalJSON renders the set as a list of catalogue keys.
func (s AchievementSet) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, s.Len())
	for _, id := range s.IDs() {
		keys = append(keys, id.String())
	}
	return json.Marshal(keys)
}

// UnmarshalJSON accepts a list of catalogue keys.
func (s *AchievementSet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	var set AchievementSet
	for _, k := range keys {
		id, err := ParseAchievement(k)
		if err != nil {
			return err
		}
		set = set.With(id)
	}
	*s = set
	return nil
}
