package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Outcome is the terminal result of one walk: a comma-separated role list or "Undetermined".
type Outcome string

// OutcomeUndetermined is reached on dead ends, broken references and empty endpoints.
const OutcomeUndetermined Outcome = "Undetermined"

// OutcomeFromRoles joins roles with ", ". An empty list is Undetermined.
func OutcomeFromRoles(roles []string) Outcome {
	if len(roles) == 0 {
		return OutcomeUndetermined
	}
	return Outcome(strings.Join(roles, ", "))
}

// Determined reports whether the outcome names at least one role.
func (o Outcome) Determined() bool {
	return o != "" && o != OutcomeUndetermined
}

// DomainScore is one ranked candidate returned by the domain matcher.
type DomainScore struct {
	Domain string  `json:"domain" yaml:"domain"`
	Score  float64 `json:"score" yaml:"score"`
}

// DomainResult is the outcome recorded for one candidate domain.
type DomainResult struct {
	Domain  string  `json:"domain"`
	Outcome Outcome `json:"outcome"`
	// Reason is set when the domain's tree was rejected before walking.
	Reason string `json:"reason,omitempty"`
}

// Results holds one DomainResult per domain, in candidate order.
type Results []DomainResult

// Set records a result, replacing an existing entry for the same domain in place.
func (r *Results) Set(res DomainResult) {
	for i := range *r {
		if (*r)[i].Domain == res.Domain {
			(*r)[i] = res
			return
		}
	}
	*r = append(*r, res)
}

// Get returns the outcome recorded for a domain.
func (r Results) Get(domainName string) (Outcome, bool) {
	for _, res := range r {
		if res.Domain == domainName {
			return res.Outcome, true
		}
	}
	return "", false
}

// Domains returns the domain names in insertion order.
func (r Results) Domains() []string {
	out := make([]string, len(r))
	for i, res := range r {
		out[i] = res.Domain
	}
	return out
}

// Clone returns an independent copy.
func (r Results) Clone() Results {
	if r == nil {
		return nil
	}
	return append(Results(nil), r...)
}

// OutcomeMap is a view of Results that encodes as a JSON object,
// keeping keys in candidate order.
type OutcomeMap Results

// MarshalJSON writes {"domain": "outcome", ...} in insertion order.
func (m OutcomeMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, res := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(res.Domain)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(string(res.Outcome))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
