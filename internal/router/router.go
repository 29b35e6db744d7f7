// Package router classifies user utterances as document questions or
// external-literature search requests. Classification is a pure function
// of the utterance and the configured trigger phrases; it never touches
// the network and runs before any model call.
package router

import "strings"

// Route identifies which pipeline handles an utterance.
type Route string

const (
	RouteDocumentQuestion Route = "document_question"
	RouteLiteratureSearch Route = "external_literature_search"
)

// prefixTriggers route to literature search when the utterance starts
// with them; containsTriggers match anywhere.
var (
	prefixTriggers   = []string{"find paper"}
	containsTriggers = []string{"arxiv", "search for a paper"}
)

// Router is a deterministic keyword classifier.
type Router struct {
	prefixes []string
	contains []string
}

// New creates a Router. Extra trigger phrases from configuration are
// matched as substrings, keeping classification deterministic.
func New(extraTriggers ...string) *Router {
	r := &Router{
		prefixes: prefixTriggers,
		contains: containsTriggers,
	}
	for _, t := range extraTriggers {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			r.contains = append(r.contains, t)
		}
	}
	return r
}

// Classify assigns the utterance to exactly one route.
func (r *Router) Classify(utterance string) Route {
	u := strings.ToLower(strings.TrimSpace(utterance))
	for _, p := range r.prefixes {
		if strings.HasPrefix(u, p) {
			return RouteLiteratureSearch
		}
	}
	for _, c := range r.contains {
		if strings.Contains(u, c) {
			return RouteLiteratureSearch
		}
	}
	return RouteDocumentQuestion
}
