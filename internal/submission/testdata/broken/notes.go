These are notes, not Go.
