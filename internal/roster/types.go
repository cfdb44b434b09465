package roster

const (
	LabelPresent = "Có mặt"
	LabelAbsent  = "Vắng mặt"
)

type Student struct {
	ID      string
	Name    string
	Present bool
}

func (s Student) StatusLabel() string {
	if s.Present {
		return LabelPresent
	}
	return LabelAbsent
}

// Summary is the outcome of one attendance pass.
type Summary struct {
	Present int
	Absent  int
}
