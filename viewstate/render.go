package viewstate

type Render string

const (
	RenderIdle      Render = "idle"
	RenderLoading   Render = "loading"
	RenderError     Render = "error"
	RenderNoResults Render = "no_results"
	RenderResults   Render = "results"
)

type lengther interface {
	Len() int
}

// Render tells a component what to draw. "no results" is distinct from both
// "error" and "idle".
func (s State[R]) Render() Render {
	switch s.Status {
	case StatusLoading:
		return RenderLoading
	case StatusFailure:
		return RenderError
	case StatusSuccess:
		if isEmpty(any(s.Result)) {
			return RenderNoResults
		}
		return RenderResults
	default:
		return RenderIdle
	}
}

func isEmpty(result any) bool {
	switch r := result.(type) {
	case nil:
		return true
	case lengther:
		return r.Len() == 0
	case string:
		return r == ""
	default:
		return false
	}
}

// View is the serializable form of a slot state.
type View[R any] struct {
	Status Status `json:"status"`
	Render Render `json:"render"`
	Result *R     `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Seq    uint64 `json:"seq"`
}

func (s State[R]) View() View[R] {
	view := View[R]{Status: s.Status, Render: s.Render(), Seq: s.Seq}
	switch s.Status {
	case StatusSuccess:
		result := s.Result
		view.Result = &result
	case StatusFailure:
		if s.Err != nil {
			view.Error = s.Err.Error()
		}
	}
	return view
}
