package domain

import dErrors "lcm/pkg/domain-errors"

// APIVersion is a route version such as "v1". Values outside the known set
// only come from ParseAPIVersion failures and never reach handlers.
type APIVersion string

const APIVersionV1 APIVersion = "v1"

// rank orders known versions; a later version has a higher rank.
var rank = map[APIVersion]int{
	APIVersionV1: 1,
}

// ParseAPIVersion accepts a client-supplied version tag.
func ParseAPIVersion(s string) (APIVersion, error) {
	v := APIVersion(s)
	if _, ok := rank[v]; !ok {
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported API version: "+s)
	}
	return v, nil
}

func (v APIVersion) String() string {
	return string(v)
}

// IsAtLeast reports whether a route at version v can serve a client asking
// for other. Unknown versions rank below every known one.
func (v APIVersion) IsAtLeast(other APIVersion) bool {
	mine, ok := rank[v]
	if !ok {
		return false
	}
	return mine >= rank[other]
}
