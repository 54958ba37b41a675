package submission

import (
	"errors"
	"fmt"
)

// Chain tries each provider in order and returns the first submission
// opened. A provider that does not know the name passes to the next one;
// any other failure stops the search.
type Chain []Provider

// Open implements Provider.
func (c Chain) Open(name string) (Submission, error) {
	for _, p := range c {
		sub, err := p.Open(name)
		if err == nil {
			return sub, nil
		}
		if errors.Is(err, ErrUnknownSubmission) {
			continue
		}
		if IsProviderError(err) {
			return nil, err
		}
		return nil, &ProviderError{Name: name, Err: err}
	}
	return nil, &ProviderError{Name: name, Err: fmt.Errorf("%w: no provider knows it", ErrUnknownSubmission)}
}

// Names returns the names of every listing provider, first occurrence wins.
func (c Chain) Names() ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, p := range c {
		l, ok := p.(Lister)
		if !ok {
			continue
		}
		names, err := l.Names()
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out, nil
}
