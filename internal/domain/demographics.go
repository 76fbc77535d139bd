package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const BucketOther = "other"

var (
	AgeBuckets   = []string{"under_18", "18_to_30", "30_to_60", "60_plus", BucketOther}
	Genders      = []string{"male", "female", "non-binary", "transgender", BucketOther}
	Ethnicities  = []string{"hispanic or latino", "white", "black or african american", "asian", "native hawaiian or other pacific islander", "american indian or alaska native", BucketOther}
	Affiliations = []string{"democrat", "republican", "independent", "libertarian", "green", "conservative", "progressive", "moderate", "socialist", "communist", BucketOther}
	States       = []string{"al", "ak", "az", "ar", "ca", "co", "ct", "de", "fl", "ga", "hi", "id", "il", "in", "ia", "ks", "ky", "la", "me", "md", "ma", "mi", "mn", "ms", "mo", "mt", "ne", "nv", "nh", "nj", "nm", "ny", "nc", "nd", "oh", "ok", "or", "pa", "ri", "sc", "sd", "tn", "tx", "ut", "vt", "va", "wa", "wv", "wi", "wy", BucketOther}
)

var stateNames = map[string]string{
	"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar", "california": "ca",
	"colorado": "co", "connecticut": "ct", "delaware": "de", "florida": "fl", "georgia": "ga",
	"hawaii": "hi", "idaho": "id", "illinois": "il", "indiana": "in", "iowa": "ia",
	"kansas": "ks", "kentucky": "ky", "louisiana": "la", "maine": "me", "maryland": "md",
	"massachusetts": "ma", "michigan": "mi", "minnesota": "mn", "mississippi": "ms", "missouri": "mo",
	"montana": "mt", "nebraska": "ne", "nevada": "nv", "new hampshire": "nh", "new jersey": "nj",
	"new mexico": "nm", "new york": "ny", "north carolina": "nc", "north dakota": "nd", "ohio": "oh",
	"oklahoma": "ok", "oregon": "or", "pennsylvania": "pa", "rhode island": "ri", "south carolina": "sc",
	"south dakota": "sd", "tennessee": "tn", "texas": "tx", "utah": "ut", "vermont": "vt",
	"virginia": "va", "washington": "wa", "west virginia": "wv", "wisconsin": "wi", "wyoming": "wy",
}

const maxAge = 130

// AgeBucket maps an age in years to its bucket. Missing or implausible ages fold into other.
func AgeBucket(age *int) string {
	if age == nil || *age < 0 || *age > maxAge {
		return BucketOther
	}
	switch a := *age; {
	case a < 18:
		return "under_18"
	case a < 30:
		return "18_to_30"
	case a < 60:
		return "30_to_60"
	default:
		return "60_plus"
	}
}

// Profile is the optional self-reported demographic data of a user.
type Profile struct {
	Age         *int   `json:"age,omitempty"`
	Gender      string `json:"gender,omitempty"`
	Ethnicity   string `json:"ethnicity,omitempty"`
	State       string `json:"state,omitempty"`
	Affiliation string `json:"political_affiliation,omitempty"`
}

// Normalize lowercases every attribute and checks it against its fixed set.
// Empty attributes stay empty.
func (p Profile) Normalize() (Profile, error) {
	var err error
	if p.Age != nil && (*p.Age < 0 || *p.Age > maxAge) {
		return Profile{}, fmt.Errorf("%w: age %d", ErrUnknownAttribute, *p.Age)
	}
	if p.Gender, err = normalizeAttr("gender", p.Gender, Genders); err != nil {
		return Profile{}, err
	}
	if p.Ethnicity, err = normalizeAttr("ethnicity", p.Ethnicity, Ethnicities); err != nil {
		return Profile{}, err
	}
	if code, ok := stateNames[canonical(p.State)]; ok {
		p.State = code
	}
	if p.State, err = normalizeAttr("state", p.State, States); err != nil {
		return Profile{}, err
	}
	if p.Affiliation, err = normalizeAttr("political_affiliation", p.Affiliation, Affiliations); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Classify resolves the bucket for every distribution. Unknown values count as other.
func (p Profile) Classify() Classification {
	return Classification{
		Age:         AgeBucket(p.Age),
		Gender:      bucketOf(p.Gender, Genders),
		Ethnicity:   bucketOf(p.Ethnicity, Ethnicities),
		State:       bucketOf(p.State, States),
		Affiliation: bucketOf(p.Affiliation, Affiliations),
	}
}

func normalizeAttr(name, value string, allowed []string) (string, error) {
	value = canonical(value)
	if value == "" {
		return "", nil
	}
	if !contains(allowed, value) {
		return "", fmt.Errorf("%w: %s %q", ErrUnknownAttribute, name, value)
	}
	return value, nil
}

func bucketOf(value string, allowed []string) string {
	value = canonical(value)
	if contains(allowed, value) {
		return value
	}
	return BucketOther
}

func canonical(v string) string {
	return strings.Join(strings.Fields(strings.ToLower(v)), " ")
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Classification is the bucket a voter falls into for each distribution.
type Classification struct {
	Age         string `json:"age"`
	Gender      string `json:"gender"`
	Ethnicity   string `json:"ethnicity"`
	State       string `json:"state"`
	Affiliation string `json:"political_affiliation"`
}

// Distribution counts voters per bucket. Every bucket of its set is always present.
type Distribution map[string]int64

func newDistribution(buckets []string) Distribution {
	d := make(Distribution, len(buckets))
	for _, b := range buckets {
		d[b] = 0
	}
	return d
}

func (d Distribution) fill(buckets []string) Distribution {
	if d == nil {
		return newDistribution(buckets)
	}
	for _, b := range buckets {
		if _, ok := d[b]; !ok {
			d[b] = 0
		}
	}
	return d
}

// Sum is the number of voters counted in the distribution.
func (d Distribution) Sum() int64 {
	var total int64
	for _, v := range d {
		total += v
	}
	return total
}

// add counts delta against bucket. Buckets outside the set land in BucketOther.
func (d Distribution) add(buckets []string, bucket string, delta int64) {
	if !contains(buckets, bucket) {
		bucket = BucketOther
	}
	d[bucket] = floor(d[bucket] + delta)
}

// Snapshot holds the five distributions for a single vote status.
type Snapshot struct {
	Age         Distribution `json:"age_distribution"`
	Gender      Distribution `json:"gender_distribution"`
	Ethnicity   Distribution `json:"ethnicity_distribution"`
	State       Distribution `json:"state_distribution"`
	Affiliation Distribution `json:"political_affiliation_distribution"`
}

// NewSnapshot returns a snapshot with every bucket at zero.
func NewSnapshot() Snapshot {
	return Snapshot{
		Age:         newDistribution(AgeBuckets),
		Gender:      newDistribution(Genders),
		Ethnicity:   newDistribution(Ethnicities),
		State:       newDistribution(States),
		Affiliation: newDistribution(Affiliations),
	}
}

// UnmarshalJSON restores a snapshot and fills any bucket missing from the payload.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type plain Snapshot
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Snapshot(raw).Complete()
	return nil
}

// Complete fills every bucket missing from the snapshot with zero.
func (s Snapshot) Complete() Snapshot {
	s.Age = s.Age.fill(AgeBuckets)
	s.Gender = s.Gender.fill(Genders)
	s.Ethnicity = s.Ethnicity.fill(Ethnicities)
	s.State = s.State.fill(States)
	s.Affiliation = s.Affiliation.fill(Affiliations)
	return s
}

func (s Snapshot) shift(c Classification, delta int64) {
	s.Age.add(AgeBuckets, c.Age, delta)
	s.Gender.add(Genders, c.Gender, delta)
	s.Ethnicity.add(Ethnicities, c.Ethnicity, delta)
	s.State.add(States, c.State, delta)
	s.Affiliation.add(Affiliations, c.Affiliation, delta)
}

// VoteRecord keeps per-status demographic breakdowns for one bill.
type VoteRecord struct {
	BillID   int64    `json:"-"`
	Upvote   Snapshot `json:"upvote"`
	Downvote Snapshot `json:"downvote"`
}

// NewVoteRecord returns the all-zero record for a bill.
func NewVoteRecord(billID int64) VoteRecord {
	return VoteRecord{BillID: billID, Upvote: NewSnapshot(), Downvote: NewSnapshot()}
}

func (r VoteRecord) snapshot(status VoteStatus) (Snapshot, bool) {
	switch status {
	case VoteUp:
		return r.Upvote, true
	case VoteDown:
		return r.Downvote, true
	}
	return Snapshot{}, false
}

// Apply moves the voter between snapshots. prev is the classification the
// voter was counted with, next the one they are counted with from now on.
func (r VoteRecord) Apply(t Transition, prev, next Classification) {
	if t.Change == ChangeNoop {
		return
	}
	if s, ok := r.snapshot(t.From); ok {
		s.shift(prev, -1)
	}
	if s, ok := r.snapshot(t.To); ok {
		s.shift(next, 1)
	}
}
