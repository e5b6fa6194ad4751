package metrics

import (
	"strings"

	"loadctl/internal/model"
)

const (
	// DefaultEndpointTag is the sample tag consulted first when
	// resolving which endpoint a sample belongs to.
	DefaultEndpointTag = "endpoint"
	// DefaultCheckSeparator splits check names of the form
	// "Endpoint :: condition".
	DefaultCheckSeparator = " :: "
	// UnknownEndpoint buckets samples that carry neither an endpoint
	// tag nor a check name.
	UnknownEndpoint = "Unknown"
)

// Resolver maps a sample to its endpoint bucket. Precedence: the
// explicit endpoint tag, then the first field of the check name split
// on Separator (the whole name when the separator does not occur),
// then UnknownEndpoint. Zero value uses the defaults.
type Resolver struct {
	TagKey    string
	Separator string
}

// Resolve returns the endpoint name for s.
func (r Resolver) Resolve(s model.Sample) string {
	tagKey := r.TagKey
	if tagKey == "" {
		tagKey = DefaultEndpointTag
	}
	if ep := strings.TrimSpace(s.Tag(tagKey)); ep != "" {
		return ep
	}

	if check := s.Tag("check"); check != "" {
		sep := r.Separator
		if sep == "" {
			sep = DefaultCheckSeparator
		}
		if name := strings.TrimSpace(strings.Split(check, sep)[0]); name != "" {
			return name
		}
	}

	return UnknownEndpoint
}
