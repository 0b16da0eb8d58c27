package feed

import "pawfeed/models"

// Options configures the diversity bounds for a single Diversify call.
type Options struct {
	// WindowSize is the number of most recent output posts whose authors
	// are tracked for repetition.
	WindowSize int

	// MaxPerAuthorInWindow caps how often one author may appear within the
	// sliding window. Must be <= WindowSize.
	MaxPerAuthorInWindow int

	// MaxSameTypeRun caps the length of a consecutive run of posts sharing
	// the same content type.
	MaxSameTypeRun int
}

// DefaultOptions returns the bounds used by the home and explore feeds.
func DefaultOptions() Options {
	return Options{
		WindowSize:           10,
		MaxPerAuthorInWindow: 3,
		MaxSameTypeRun:       3,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.WindowSize <= 0 {
		o.WindowSize = def.WindowSize
	}
	if o.MaxPerAuthorInWindow <= 0 {
		o.MaxPerAuthorInWindow = def.MaxPerAuthorInWindow
	}
	if o.MaxPerAuthorInWindow > o.WindowSize {
		o.MaxPerAuthorInWindow = o.WindowSize
	}
	if o.MaxSameTypeRun <= 0 {
		o.MaxSameTypeRun = def.MaxSameTypeRun
	}
	return o
}

// pass is one relaxation level of the candidate selection. Passes are
// evaluated in order so the precedence stays auditable: first both
// constraints, then only the author constraint, then none.
type pass int

const (
	strictBoth pass = iota
	relaxType
	fallback
)

var passOrder = [...]pass{strictBoth, relaxType, fallback}

// windowState is the selection loop state: author counts within the sliding
// window plus the current content-type run. Local to each Diversify call so
// concurrent callers never share it.
type windowState struct {
	opts     Options
	window   []string
	counts   map[string]int
	lastType ContentType
	runLen   int
}

func newWindowState(opts Options) *windowState {
	return &windowState{
		opts:   opts,
		window: make([]string, 0, opts.WindowSize),
		counts: make(map[string]int),
	}
}

func (s *windowState) authorSaturated(author string) bool {
	return s.counts[author] >= s.opts.MaxPerAuthorInWindow
}

func (s *windowState) typeSaturated(ct ContentType) bool {
	return ct == s.lastType && s.runLen >= s.opts.MaxSameTypeRun
}

func (s *windowState) admits(author string, ct ContentType, p pass) bool {
	switch p {
	case strictBoth:
		return !s.authorSaturated(author) && !s.typeSaturated(ct)
	case relaxType:
		return !s.authorSaturated(author)
	default:
		return true
	}
}

// record updates the state after a post has been placed in the output.
func (s *windowState) record(author string, ct ContentType) {
	s.window = append(s.window, author)
	s.counts[author]++
	if len(s.window) > s.opts.WindowSize {
		oldest := s.window[0]
		s.window = s.window[1:]
		if s.counts[oldest] <= 1 {
			delete(s.counts, oldest)
		} else {
			s.counts[oldest]--
		}
	}

	if ct == s.lastType {
		s.runLen++
	} else {
		s.lastType = ct
		s.runLen = 1
	}
}

// Diversify reorders posts so that no author exceeds MaxPerAuthorInWindow
// appearances within any WindowSize-wide window and no content-type run
// exceeds MaxSameTypeRun, as far as the input composition allows. The result
// is always a permutation of the input: when the constraints become
// unsatisfiable the fallback pass takes the first remaining post, so nothing
// is ever dropped. Cost is O(n^2) worst case, fine for feed-page-sized
// lists; do not point it at unbounded result sets.
func Diversify(posts []models.Post, opts Options) []models.Post {
	opts = opts.normalized()

	out := make([]models.Post, 0, len(posts))
	if len(posts) < 2 {
		return append(out, posts...)
	}

	types := make([]ContentType, len(posts))
	for i, post := range posts {
		types[i] = Classify(post)
	}

	remaining := make([]int, len(posts))
	for i := range posts {
		remaining[i] = i
	}

	state := newWindowState(opts)
	for len(remaining) > 0 {
		picked := -1
		for _, p := range passOrder {
			for pos, idx := range remaining {
				if state.admits(posts[idx].AuthorId, types[idx], p) {
					picked = pos
					break
				}
			}
			if picked >= 0 {
				break
			}
		}

		idx := remaining[picked]
		remaining = append(remaining[:picked], remaining[picked+1:]...)
		state.record(posts[idx].AuthorId, types[idx])
		out = append(out, posts[idx])
	}

	return out
}
