// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gdocs

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// docIDPattern matches a bare document ID: "1xK9_aBc-DEf2gH3iJk4LmN5oP6qR7sT8uV9wX0yZ".
var docIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ResolveDocumentID accepts either a bare document ID or a document URL
// ("https://docs.google.com/document/d/<id>/edit") and returns the ID.
func ResolveDocumentID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty document reference")
	}

	if docIDPattern.MatchString(ref) {
		return ref, nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing document reference %q: %w", ref, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, p := range parts {
		if p == "d" && i+1 < len(parts) && docIDPattern.MatchString(parts[i+1]) {
			return parts[i+1], nil
		}
	}
	return "", fmt.Errorf("no document ID found in %q", ref)
}
