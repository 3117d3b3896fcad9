package telemetry

import (
	"context"
	"maps"
	"runtime/pprof"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Label keys for slicing profiles in the Pyroscope UI.
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelBusinessID = "business_id"
	ProfilingLabelOperation  = "operation"
	ProfilingLabelRegion     = "region"
)

// MaxLabelValueLength caps label values; longer values are truncated
// before they reach the profiler.
const MaxLabelValueLength = 128

// HighCardinalityLabels lists keys that sanitizeLabels drops outright.
// Each distinct value costs Pyroscope memory, so per-request identifiers
// never make it into a profile. business_id stays allowed: a portfolio
// operator has tens of businesses, not millions.
var HighCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"lease_id":   true,
	"trace_id":   true,
	"span_id":    true,
	"session_id": true,
}

// WithProfilingLabels runs fn with the given labels attached to every
// profile sample taken while it executes. The map is copied before use,
// so the caller may reuse it. Empty or fully-sanitized-away label sets
// run fn without labeling.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizedPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// WithPprofLabels is the same as WithProfilingLabels but goes through
// Go's native pprof API, for profiles read with standard tooling
// instead of a Pyroscope agent.
func WithPprofLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizedPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pprof.Do(ctx, pprof.Labels(pairs...), fn)
}

// HTTPRequestLabels builds the label set the HTTP profiling middleware
// attaches to each request. Blank values are omitted.
func HTTPRequestLabels(controller, route, method, businessID string) map[string]string {
	labels := make(map[string]string, 4)
	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	if businessID != "" {
		labels[ProfilingLabelBusinessID] = businessID
	}
	return labels
}

// sanitizedPairs copies, filters, and flattens a label map into the
// alternating key/value slice the profiler APIs take. Keys are sorted
// so the output is deterministic.
func sanitizedPairs(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	copied := make(map[string]string, len(labels))
	maps.Copy(copied, labels)

	keys := make([]string, 0, len(copied))
	for k := range copied {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(copied)*2)
	for _, key := range keys {
		value := copied[key]
		if key == "" || value == "" {
			continue
		}
		if HighCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		cleaned := sanitizeLabelKey(key)
		if cleaned == "" {
			continue
		}
		pairs = append(pairs, cleaned, value)
	}
	return pairs
}

// sanitizeLabelKey normalizes a key to snake_case and strips anything
// outside [a-z0-9_].
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			out = append(out, c)
		}
	}
	return string(out)
}
